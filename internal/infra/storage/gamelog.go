package storage

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"
)

// SessionHeader opens the log block of a new building. It is written with week 1.
type SessionHeader struct {
	Tower        string
	StartCapital int
	Date         time.Time
}

// BuildLine is one construction shown in the weekly block.
type BuildLine struct {
	Floor int
	Type  string
	Cost  int
}

// MoveInLine is one move-in shown in the weekly block.
type MoveInLine struct {
	Floor  int
	Tenant string
}

// WeekEntry is everything the log records about a settled week.
type WeekEntry struct {
	Header      *SessionHeader
	Week        int
	Income      int
	Maintenance int
	Net         int
	Capital     int
	Builds      []BuildLine
	MoveIns     []MoveInLine
}

// TextLog appends human-readable weekly blocks to a plain-text file.
// The file is opened and closed on every write; no handle is held between weeks.
type TextLog struct {
	path string
}

func NewTextLog(path string) *TextLog {
	return &TextLog{path: path}
}

// Path returns the log location.
func (l *TextLog) Path() string {
	return l.path
}

// AppendWeek writes one weekly block, preceded by the session header when present.
func (l *TextLog) AppendWeek(entry WeekEntry) error {
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open game log: %w", err)
	}

	w := bufio.NewWriter(f)
	writeWeek(w, entry)
	if err := w.Flush(); err != nil {
		_ = f.Close()
		return fmt.Errorf("write game log: %w", err)
	}
	return f.Close()
}

func writeWeek(w *bufio.Writer, e WeekEntry) {
	rule := strings.Repeat("=", 50)
	if e.Header != nil {
		fmt.Fprintf(w, "\n%s\n", rule)
		fmt.Fprintf(w, "🏢 Building: %s\n", e.Header.Tower)
		fmt.Fprintf(w, "📅 Date: %s\n", e.Header.Date.Format("2006-01-02 15:04:05"))
		fmt.Fprintf(w, "💵 Starting Capital: %d\n", e.Header.StartCapital)
		fmt.Fprintf(w, "%s\n", rule)
	}

	fmt.Fprintf(w, "\n===== Week %d =====\n", e.Week)
	fmt.Fprintf(w, "Income: %d, Maintenance: %d, Net: %d, Capital: %d\n\n", e.Income, e.Maintenance, e.Net, e.Capital)

	fmt.Fprintln(w, "[Build Log]")
	for _, b := range e.Builds {
		fmt.Fprintf(w, " Built Floor %d %s (Cost %d)\n", b.Floor, b.Type, b.Cost)
	}
	if len(e.Builds) == 0 {
		fmt.Fprintln(w, " None")
	}

	fmt.Fprintln(w, "\n[Move-in Log]")
	for _, m := range e.MoveIns {
		fmt.Fprintf(w, " %s -> Floor %d\n", m.Tenant, m.Floor)
	}
	if len(e.MoveIns) == 0 {
		fmt.Fprintln(w, " None")
	}
}
