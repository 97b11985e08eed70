package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// maxLogFiles is how many rotated log files are kept in LogDir
const maxLogFiles = 10

// NewLogger builds the process logger: JSON to stdout, debug level in dev, and a
// copy to a timestamped file when LogDir is set. The returned closer releases the file.
func NewLogger(cfg *Config) (*slog.Logger, io.Closer, error) {
	level := slog.LevelInfo
	if cfg.Environment == "dev" {
		level = slog.LevelDebug
	}

	var out io.Writer = os.Stdout
	var closer io.Closer = io.NopCloser(nil)
	if cfg.LogDir != "" {
		f, err := SetupLogFile(cfg.LogDir, maxLogFiles)
		if err != nil {
			return nil, nil, err
		}
		out = io.MultiWriter(os.Stdout, f)
		closer = f
	}

	logger := slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{Level: level}))
	return logger, closer, nil
}

// SetupLogFile creates a new timestamped log file and removes the oldest ones
// beyond maxFiles. The caller closes the returned file.
func SetupLogFile(dir string, maxFiles int) (*os.File, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}

	filename := filepath.Join(dir, fmt.Sprintf("leasedoc-%s.log",
		time.Now().UTC().Format("2006-01-02T15-04-05")))

	f, err := os.Create(filename)
	if err != nil {
		return nil, fmt.Errorf("create log file: %w", err)
	}

	if err := pruneLogs(dir, maxFiles); err != nil {
		// logging still works, only cleanup failed
		fmt.Fprintf(os.Stderr, "warning: failed to prune old logs: %v\n", err)
	}

	return f, nil
}

// pruneLogs removes the oldest log files when more than keep exist.
// File names embed the timestamp, so lexical order is chronological.
func pruneLogs(dir string, keep int) error {
	files, err := filepath.Glob(filepath.Join(dir, "leasedoc-*.log"))
	if err != nil {
		return err
	}
	if len(files) <= keep {
		return nil
	}

	sort.Strings(files)
	for _, name := range files[:len(files)-keep] {
		if err := os.Remove(name); err != nil {
			return fmt.Errorf("remove %s: %w", name, err)
		}
	}
	return nil
}
