package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// RotatingWriter appends to one log file per ISO week and prunes files older
// than the retention period. Write is safe for concurrent use.
type RotatingWriter struct {
	logDir    string
	retention time.Duration

	mu          sync.Mutex
	currentFile *os.File
	currentWeek string
	lastCleanup time.Time
}

// NewRotatingWriter creates a rotating writer in logDir keeping the given
// number of weeks of history.
func NewRotatingWriter(logDir string, retentionWeeks int) *RotatingWriter {
	return &RotatingWriter{
		logDir:    logDir,
		retention: time.Duration(retentionWeeks) * 7 * 24 * time.Hour,
	}
}

// weekKey returns the ISO-week key, e.g. "2026-W36".
func weekKey(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

func (rw *RotatingWriter) rotateLocked(week string) error {
	if rw.currentFile != nil {
		if err := rw.currentFile.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "failed to close log file during rotation: %v\n", err)
		}
	}

	logPath := filepath.Join(rw.logDir, fmt.Sprintf("catalog-%s.log", week))
	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file %s: %w", logPath, err)
	}

	rw.currentFile = file
	rw.currentWeek = week
	return nil
}

// Write appends to the current week's file, rotating and cleaning up old
// files when the week changes.
func (rw *RotatingWriter) Write(p []byte) (int, error) {
	rw.mu.Lock()
	defer rw.mu.Unlock()

	week := weekKey(time.Now())
	if week != rw.currentWeek {
		if err := rw.rotateLocked(week); err != nil {
			return 0, err
		}
		rw.cleanupLocked()
	}

	return rw.currentFile.Write(p)
}

// cleanupLocked removes log files older than the retention period. Failures
// are non-fatal; a stale file just survives until the next rotation.
func (rw *RotatingWriter) cleanupLocked() {
	if time.Since(rw.lastCleanup) < time.Hour {
		return
	}
	rw.lastCleanup = time.Now()

	entries, err := os.ReadDir(rw.logDir)
	if err != nil {
		return
	}

	cutoff := time.Now().Add(-rw.retention)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, "catalog-") || !strings.HasSuffix(name, ".log") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			_ = os.Remove(filepath.Join(rw.logDir, name))
		}
	}
}

// Close closes the current log file.
func (rw *RotatingWriter) Close() error {
	rw.mu.Lock()
	defer rw.mu.Unlock()

	if rw.currentFile != nil {
		return rw.currentFile.Close()
	}
	return nil
}
