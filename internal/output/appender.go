package output

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/muurk/devscan/internal/events"
	"github.com/muurk/devscan/internal/logging"
)

// Appender owns the result file while a scan runs. Each amendment is
// written and synced as it arrives so an interrupted scan still leaves
// its partial results on disk.
type Appender struct {
	path string
	file *os.File
}

// OpenAppender creates path, truncating any previous run's results.
func OpenAppender(path string) (*Appender, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open result file: %w", err)
	}
	return &Appender{path: path, file: f}, nil
}

// Run consumes append events until a close event or the end of the
// channel, then closes the file. It returns the number of lines written.
func (a *Appender) Run(in <-chan events.Append) (int, error) {
	written := 0
	var firstErr error

	for ev := range in {
		if ev.Kind == events.AppendClose {
			break
		}
		if err := a.write(ev.Line); err != nil {
			logging.Warn("Failed to append result",
				zap.String("path", a.path),
				zap.String("line", ev.Line),
				zap.Error(err),
			)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		written++
	}

	if err := a.file.Close(); err != nil && firstErr == nil {
		firstErr = fmt.Errorf("close result file: %w", err)
	}
	return written, firstErr
}

// Close closes the file without consuming any events. Use it when the
// scan is abandoned before Run starts.
func (a *Appender) Close() error {
	return a.file.Close()
}

func (a *Appender) write(line string) error {
	if _, err := a.file.WriteString(line + "\n"); err != nil {
		return fmt.Errorf("write result: %w", err)
	}
	if err := a.file.Sync(); err != nil {
		return fmt.Errorf("sync result file: %w", err)
	}
	return nil
}

// RunAppender truncates path and appends every amendment received on in.
func RunAppender(path string, in <-chan events.Append) (int, error) {
	a, err := OpenAppender(path)
	if err != nil {
		return 0, err
	}
	return a.Run(in)
}
