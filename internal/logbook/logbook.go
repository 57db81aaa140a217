// internal/logbook/logbook.go
//
// The console writes its diagnostics through slog into
// .agentkit/logs/agentkit.log. The logbook is the read side: it tails that
// file so the console can show recent activity without owning the writer.
package logbook

import (
	"bufio"
	"os"
	"path/filepath"
)

// Logbook tails a log file for display. It never fails: a missing or
// unreadable file reads as empty.
type Logbook struct {
	path string
}

// Open points a logbook at path. The file does not need to exist yet.
func Open(path string) *Logbook {
	return &Logbook{path: path}
}

// Path returns the file being tailed.
func (l *Logbook) Path() string {
	if l == nil {
		return ""
	}
	return l.path
}

// Name returns the base name of the tailed file, for panel titles.
func (l *Logbook) Name() string {
	if l == nil || l.path == "" {
		return "log"
	}
	return filepath.Base(l.path)
}

// Tail returns up to maxLines of the most recent entries, oldest first.
// Memory stays bounded by maxLines no matter how large the file grows.
func (l *Logbook) Tail(maxLines int) []string {
	if l == nil || maxLines <= 0 {
		return nil
	}
	f, err := os.Open(l.path)
	if err != nil {
		return nil
	}
	defer f.Close()

	ring := make([]string, maxLines)
	count := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		ring[count%maxLines] = scanner.Text()
		count++
	}
	if count == 0 {
		return nil
	}
	n := min(count, maxLines)
	out := make([]string, 0, n)
	for i := count - n; i < count; i++ {
		out = append(out, ring[i%maxLines])
	}
	return out
}
