package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	logFilePrefix = "lawlow-"
	logFileSuffix = ".log"
	logTimeLayout = "20060102-150405"
)

// OpenLogFile creates a timestamped server log in dir and prunes all but the
// keep newest ones. The caller closes the file.
func OpenLogFile(dir string, keep int) (*os.File, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("log dir %s: %w", dir, err)
	}

	name := filepath.Join(dir, logFilePrefix+time.Now().UTC().Format(logTimeLayout)+logFileSuffix)
	f, err := os.OpenFile(name, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	// The logger is not built yet, so a failed prune goes to stderr.
	if err := pruneLogs(dir, keep); err != nil {
		fmt.Fprintf(os.Stderr, "lawlow: prune logs: %v\n", err)
	}
	return f, nil
}

// pruneLogs removes the oldest server logs beyond keep. Names sort by time.
func pruneLogs(dir string, keep int) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}

	var logs []string
	for _, e := range entries {
		name := e.Name()
		if !e.IsDir() && strings.HasPrefix(name, logFilePrefix) && strings.HasSuffix(name, logFileSuffix) {
			logs = append(logs, name)
		}
	}

	keep = max(keep, 1)
	var errs []error
	for _, name := range logs[:max(len(logs)-keep, 0)] {
		if err := os.Remove(filepath.Join(dir, name)); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
