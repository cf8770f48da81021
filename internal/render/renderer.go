package render

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"layerpage/internal/fileutil"
	"layerpage/internal/layout"
	"layerpage/internal/logging"
	"layerpage/internal/services"
)

//go:embed tpl/page.html
var builtinFS embed.FS

const builtinName = "page.html"

// Context is the data handed to page templates.
type Context struct {
	Page       *layout.Model
	EnableName bool
	Output     string
	Title      string
}

// NewContext builds the template context for a model rendered into output.
func NewContext(page *layout.Model, output string, enableName bool) Context {
	return Context{
		Page:       page,
		EnableName: enableName,
		Output:     output,
		Title:      Title(page.Name),
	}
}

// Title turns a document file name into a page title. The extension is
// dropped.
func Title(name string) string {
	if name != "" {
		name = layout.BaseName(name)
	}
	words := strings.Fields(strings.NewReplacer("-", " ", "_", " ", ".", " ").Replace(name))
	if len(words) == 0 {
		return "Untitled"
	}
	return cases.Title(language.Und).String(strings.Join(words, " "))
}

// Renderer executes page templates.
type Renderer struct {
	logger *slog.Logger
}

// New returns a Renderer.
func New(logger *slog.Logger) *Renderer {
	return &Renderer{logger: logging.NewComponentLogger(logger, "render")}
}

// Load parses the template at path, or the built-in page when path is empty.
func Load(path string) (*template.Template, error) {
	if path == "" {
		tmpl, err := template.New(builtinName).Funcs(Funcs()).ParseFS(builtinFS, "tpl/"+builtinName)
		if err != nil {
			return nil, services.Wrap(services.ErrRender, "render", "parse template", "built-in", err)
		}
		return tmpl, nil
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, services.Wrap(services.ErrMissingTemplate, "render", "load template", path, err)
		}
		return nil, services.Wrap(services.ErrRender, "render", "load template", path, err)
	}
	tmpl, err := template.New(filepath.Base(path)).Funcs(Funcs()).ParseFiles(path)
	if err != nil {
		return nil, services.Wrap(services.ErrRender, "render", "parse template", path, err)
	}
	return tmpl, nil
}

// Render executes the template at templatePath with data and writes the
// result to outputPath.
func (r *Renderer) Render(ctx context.Context, templatePath, outputPath string, data Context) error {
	tmpl, err := Load(templatePath)
	if err != nil {
		return err
	}
	err = fileutil.WriteStream(outputPath, 0o644, func(w io.Writer) error {
		return tmpl.Execute(w, data)
	})
	if err != nil {
		return services.Wrap(services.ErrRender, "render", "execute template", outputPath, err)
	}
	source := templatePath
	if source == "" {
		source = "built-in"
	}
	logging.WithContext(ctx, r.logger).Debug("page rendered",
		logging.String(logging.FieldPath, outputPath),
		logging.String("template", source),
	)
	return nil
}
