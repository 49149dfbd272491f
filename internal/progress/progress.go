// Package progress reads the percentage lines mkvextract prints while it
// works.
package progress

import (
	"bufio"
	"context"
	"io"
	"strconv"
	"strings"
	"sync"
)

// DefaultPrefix is the marker mkvextract puts in front of its percentage.
const DefaultPrefix = "Progress: "

// ParseLine returns the percentage carried by line. The prefix may appear
// anywhere in the line, not only at its start, so output with a leading
// timestamp or carriage return still matches. Lines without the prefix or a
// '%', or with a value outside 0..100, yield false.
func ParseLine(line, prefix string) (int, bool) {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	idx := strings.Index(line, prefix)
	if idx < 0 {
		return 0, false
	}
	rest := line[idx+len(prefix):]
	end := strings.IndexByte(rest, '%')
	if end <= 0 {
		return 0, false
	}
	value, err := strconv.Atoi(strings.TrimSpace(rest[:end]))
	if err != nil || value < 0 || value > 100 {
		return 0, false
	}
	return value, true
}

// Monitor tracks the latest percentage reported by one invocation.
type Monitor struct {
	prefix string

	mu      sync.Mutex
	current int
	seen    bool
}

// NewMonitor returns a monitor matching prefix (DefaultPrefix when empty).
func NewMonitor(prefix string) *Monitor {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Monitor{prefix: prefix}
}

// Feed consumes one line and reports whether it changed the current value.
// Regressions are accepted as-is.
func (m *Monitor) Feed(line string) (int, bool) {
	value, ok := ParseLine(line, m.prefix)
	if !ok {
		return 0, false
	}
	m.mu.Lock()
	m.current = value
	m.seen = true
	m.mu.Unlock()
	return value, true
}

// Current returns the last valid percentage and whether one was seen.
func (m *Monitor) Current() (int, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current, m.seen
}

// Watch feeds every line of r until EOF or cancellation, invoking fn for
// each accepted percentage. mkvextract rewrites its progress line with
// carriage returns, so both '\r' and '\n' end a line.
func (m *Monitor) Watch(ctx context.Context, r io.Reader, fn func(int)) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	scanner.Split(ScanLines)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if value, ok := m.Feed(scanner.Text()); ok && fn != nil {
			fn(value)
		}
	}
	return scanner.Err()
}

// ScanLines is a bufio.SplitFunc that treats '\r', '\n' and "\r\n" as line
// terminators.
func ScanLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	for i, b := range data {
		switch b {
		case '\n':
			return i + 1, data[:i], nil
		case '\r':
			if i+1 < len(data) {
				if data[i+1] == '\n' {
					return i + 2, data[:i], nil
				}
				return i + 1, data[:i], nil
			}
			if atEOF {
				return i + 1, data[:i], nil
			}
			// Need one more byte to tell "\r" from "\r\n".
			return 0, nil, nil
		}
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}
