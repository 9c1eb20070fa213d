package logger

import (
	"fmt"
	"sort"
	"strings"
)

// Icons and symbols for different log types
const (
	IconSuccess   = "✅"
	IconError     = "❌"
	IconWarning   = "⚠️"
	IconInfo      = "ℹ️"
	IconRocket    = "🚀"
	IconConfig    = "⚙️"
	IconRefresh   = "🔄"
	IconFile      = "📄"
	IconDice      = "🎲"
	IconHit       = "💥"
	IconShield    = "🛡️"
	IconExplosion = "🔥"
	IconTrophy    = "🏆"
	IconSkull     = "💀"
	IconFlag      = "🏳️"
	IconDot       = "•"
	IconArrow     = "→"
)

// Success logs a success message with a green checkmark
func Success(args ...interface{}) {
	defaultLogger.Info(IconSuccess + " " + fmt.Sprint(args...))
}

// Successf logs a formatted success message
func Successf(format string, args ...interface{}) {
	Success(fmt.Sprintf(format, args...))
}

// Progress logs a progress message with a refresh icon
func Progress(args ...interface{}) {
	defaultLogger.Info(IconRefresh + " " + fmt.Sprint(args...))
}

// Progressf logs a formatted progress message
func Progressf(format string, args ...interface{}) {
	Progress(fmt.Sprintf(format, args...))
}

// withState runs fn against the default logger's state under its lock.
func withState(fn func(s *state)) {
	l, ok := defaultLogger.(*logger)
	if !ok {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	fn(l.state)
}

// LogSection creates a visual section separator
func LogSection(title string) {
	withState(func(s *state) {
		line := strings.Repeat("=", 50)
		_, _ = fmt.Fprintln(s.writer, s.paint(colorAccent, line))
		_, _ = fmt.Fprintln(s.writer, s.paint(colorTitle, title))
		_, _ = fmt.Fprintln(s.writer, s.paint(colorAccent, line))
	})
}

// LogSubSection creates a visual subsection separator
func LogSubSection(title string) {
	withState(func(s *state) {
		line := strings.Repeat("-", 40)
		_, _ = fmt.Fprintln(s.writer, s.paint(colorMuted, line))
		_, _ = fmt.Fprintln(s.writer, s.paint(colorMuted, title))
		_, _ = fmt.Fprintln(s.writer, s.paint(colorMuted, line))
	})
}

// LogList logs a list of items with bullets
func LogList(title string, items []string) {
	Info(title)
	withState(func(s *state) {
		for _, item := range items {
			_, _ = fmt.Fprintf(s.writer, "  %s %s\n", IconDot, item)
		}
	})
}

// LogKeyValue logs a key-value pair with nice formatting
func LogKeyValue(key string, value interface{}) {
	withState(func(s *state) {
		_, _ = fmt.Fprintf(s.writer, "%s %v\n", s.paint(colorAccent, key+":"), value)
	})
}

// LogKeyValues logs multiple key-value pairs in key order
func LogKeyValues(pairs map[string]interface{}) {
	keys := make([]string, 0, len(pairs))
	for k := range pairs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		LogKeyValue(k, pairs[k])
	}
}

// Table represents a simple table for logging
type Table struct {
	headers []string
	rows    [][]string
}

// NewTable creates a new table
func NewTable(headers ...string) *Table {
	return &Table{
		headers: headers,
		rows:    [][]string{},
	}
}

// AddRow adds a row to the table
func (t *Table) AddRow(values ...string) {
	t.rows = append(t.rows, values)
}

// String renders the table with padded columns
func (t *Table) String() string {
	if len(t.headers) == 0 {
		return ""
	}

	widths := make([]int, len(t.headers))
	for i, h := range t.headers {
		widths[i] = len(h)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	var b strings.Builder
	writeRow := func(cells []string) {
		for i, cell := range cells {
			if i < len(widths) {
				fmt.Fprintf(&b, "%-*s  ", widths[i], cell)
			}
		}
		b.WriteString("\n")
	}

	writeRow(t.headers)
	sep := make([]string, len(widths))
	for i, w := range widths {
		sep[i] = strings.Repeat("-", w)
	}
	writeRow(sep)
	for _, row := range t.rows {
		writeRow(row)
	}
	return b.String()
}

// Print prints the table
func (t *Table) Print() {
	withState(func(s *state) {
		_, _ = fmt.Fprint(s.writer, t.String())
	})
}
