package logs

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"
)

const (
	maxLineBytes = 1024 * 1024
	defaultPoll  = 250 * time.Millisecond
)

// Last returns up to n of the newest lines in path and the offset of the end
// of the file. A missing file yields no lines and offset 0.
func Last(path string, n int) ([]string, int64, error) {
	file, err := open(path)
	if err != nil || file == nil {
		return nil, 0, err
	}
	defer file.Close()

	if n <= 0 {
		end, err := file.Seek(0, io.SeekEnd)
		if err != nil {
			return nil, 0, fmt.Errorf("seek log file: %w", err)
		}
		return nil, end, nil
	}

	ring := make([]string, n)
	count, idx := 0, 0
	offset, err := scanLines(file, 0, func(line string) {
		ring[idx] = line
		idx = (idx + 1) % n
		if count < n {
			count++
		}
	})
	if err != nil {
		return nil, 0, err
	}

	lines := make([]string, count)
	if count == n {
		for i := range lines {
			lines[i] = ring[(idx+i)%n]
		}
	} else {
		copy(lines, ring[:count])
	}
	return lines, offset, nil
}

// ReadFrom returns the complete lines written after offset. An offset past
// the end of the file, as after truncation, restarts from the beginning.
func ReadFrom(path string, offset int64) ([]string, int64, error) {
	file, err := open(path)
	if err != nil || file == nil {
		return nil, 0, err
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, 0, fmt.Errorf("stat log file: %w", err)
	}
	if offset < 0 || offset > info.Size() {
		offset = 0
	}
	if _, err := file.Seek(offset, io.SeekStart); err != nil {
		return nil, 0, fmt.Errorf("seek log file: %w", err)
	}

	var lines []string
	next, err := scanLines(file, offset, func(line string) {
		lines = append(lines, line)
	})
	if err != nil {
		return nil, 0, err
	}
	return lines, next, nil
}

// Follow emits lines appended after offset until ctx is done. poll <= 0
// uses a 250ms interval. It returns nil when ctx is canceled.
func Follow(ctx context.Context, path string, offset int64, poll time.Duration, emit func(string)) error {
	if poll <= 0 {
		poll = defaultPoll
	}
	ticker := time.NewTicker(poll)
	defer ticker.Stop()

	for {
		lines, next, err := ReadFrom(path, offset)
		if err != nil {
			return err
		}
		for _, line := range lines {
			emit(line)
		}
		offset = next

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func open(path string) (*os.File, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log file: %w", err)
	}
	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("stat log file: %w", err)
	}
	if info.IsDir() {
		file.Close()
		return nil, fmt.Errorf("log path %q is a directory", path)
	}
	return file, nil
}

// scanLines feeds complete lines to fn and returns the offset just past the
// last newline. A trailing partial line is left for the next read.
func scanLines(r io.Reader, start int64, fn func(string)) (int64, error) {
	reader := bufio.NewReaderSize(r, 64*1024)
	offset := start
	for {
		line, err := reader.ReadSlice('\n')
		if errors.Is(err, bufio.ErrBufferFull) {
			long := append([]byte(nil), line...)
			for errors.Is(err, bufio.ErrBufferFull) && len(long) < maxLineBytes {
				line, err = reader.ReadSlice('\n')
				long = append(long, line...)
			}
			line = long
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return offset, nil
			}
			if errors.Is(err, bufio.ErrBufferFull) {
				return offset, fmt.Errorf("read log file: line exceeds %d bytes", maxLineBytes)
			}
			return offset, fmt.Errorf("read log file: %w", err)
		}
		offset += int64(len(line))
		text := line[:len(line)-1]
		if n := len(text); n > 0 && text[n-1] == '\r' {
			text = text[:n-1]
		}
		fn(string(text))
	}
}
