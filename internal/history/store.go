package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"layerpage/internal/services"
)

// Record persists a finished build and its assets in one transaction.
func (s *Store) Record(ctx context.Context, build Build, assets []Asset) error {
	ctx = ensureContext(ctx)
	if strings.TrimSpace(build.RunID) == "" {
		return errors.New("record build: run id is required")
	}
	if build.Outcome == "" {
		build.Outcome = services.OutcomeSucceeded
	}
	build.AssetCount = len(assets)

	return retryOnBusy(ctx, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin record tx: %w", err)
		}
		defer func() { _ = tx.Rollback() }()

		_, err = tx.ExecContext(ctx,
			`INSERT INTO builds (`+buildColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			build.RunID,
			build.SourcePath,
			nullableString(build.OutputDir),
			nullableString(build.PagePath),
			nullableString(build.SnapshotPath),
			string(build.Outcome),
			nullableString(build.ErrorMessage),
			build.LayerCount,
			build.AssetCount,
			nullableString(build.Background),
			build.Width,
			build.Height,
			formatTime(build.StartedAt),
			formatTime(build.FinishedAt),
		)
		if err != nil {
			return fmt.Errorf("insert build: %w", err)
		}

		for _, asset := range assets {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO build_assets (run_id, fingerprint, path, layer_name) VALUES (?, ?, ?, ?)`,
				build.RunID, asset.Fingerprint, asset.Path, nullableString(asset.Layer),
			); err != nil {
				return fmt.Errorf("insert asset %s: %w", asset.Path, err)
			}
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit record: %w", err)
		}
		return nil
	})
}

// GetByRunID fetches a build by run ID. A missing build returns nil, nil.
func (s *Store) GetByRunID(ctx context.Context, runID string) (*Build, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+buildColumns+` FROM builds WHERE run_id = ?`, runID)
	build, err := scanBuild(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get build: %w", err)
	}
	return build, nil
}

// FindByPrefix resolves an abbreviated run ID. It returns nil when nothing
// matches and an error when the prefix is ambiguous.
func (s *Store) FindByPrefix(ctx context.Context, prefix string) (*Build, error) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return nil, errors.New("run id prefix is empty")
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+buildColumns+` FROM builds WHERE run_id LIKE ? ESCAPE '\' ORDER BY started_at DESC LIMIT 2`,
		escapeLike(prefix)+"%",
	)
	if err != nil {
		return nil, fmt.Errorf("find build: %w", err)
	}
	defer rows.Close()

	var matches []*Build
	for rows.Next() {
		build, err := scanBuild(rows)
		if err != nil {
			return nil, err
		}
		matches = append(matches, build)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	switch len(matches) {
	case 0:
		return nil, nil
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("run id prefix %q is ambiguous", prefix)
	}
}

// List returns the most recent builds first. A limit <= 0 returns all rows.
func (s *Store) List(ctx context.Context, limit int) ([]*Build, error) {
	query := `SELECT ` + buildColumns + ` FROM builds ORDER BY started_at DESC, run_id`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list builds: %w", err)
	}
	defer rows.Close()

	var builds []*Build
	for rows.Next() {
		build, err := scanBuild(rows)
		if err != nil {
			return nil, err
		}
		builds = append(builds, build)
	}
	return builds, rows.Err()
}

// Assets returns the assets recorded for a build ordered by path.
func (s *Store) Assets(ctx context.Context, runID string) ([]Asset, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT fingerprint, path, layer_name FROM build_assets WHERE run_id = ? ORDER BY path`, runID)
	if err != nil {
		return nil, fmt.Errorf("list assets: %w", err)
	}
	defer rows.Close()

	var assets []Asset
	for rows.Next() {
		var (
			asset Asset
			layer sql.NullString
		)
		if err := rows.Scan(&asset.Fingerprint, &asset.Path, &layer); err != nil {
			return nil, err
		}
		asset.Layer = layer.String
		assets = append(assets, asset)
	}
	return assets, rows.Err()
}

// Stats returns a count of builds grouped by outcome.
func (s *Store) Stats(ctx context.Context) (map[services.Outcome]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT outcome, COUNT(1) FROM builds GROUP BY outcome`)
	if err != nil {
		return nil, fmt.Errorf("history stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[services.Outcome]int)
	for rows.Next() {
		var outcome string
		var count int
		if err := rows.Scan(&outcome, &count); err != nil {
			return nil, err
		}
		stats[services.Outcome(outcome)] = count
	}
	return stats, rows.Err()
}

// Clear removes every recorded build and its assets.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	ctx = ensureContext(ctx)
	var affected int64
	err := retryOnBusy(ctx, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback() }()

		if _, err := tx.ExecContext(ctx, `DELETE FROM build_assets`); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM builds`)
		if err != nil {
			return err
		}
		if affected, err = res.RowsAffected(); err != nil {
			return err
		}
		return tx.Commit()
	})
	if err != nil {
		return 0, fmt.Errorf("clear history: %w", err)
	}
	return affected, nil
}

func escapeLike(value string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(value)
}
