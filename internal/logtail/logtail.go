package logtail

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Read returns at most maxLines from the end of the file at path. A
// non-positive maxLines returns every line. A missing file yields no lines.
func Read(path string, maxLines int) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	if maxLines <= 0 {
		var lines []string
		for scanner.Scan() {
			lines = append(lines, scanner.Text())
		}
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("read log: %w", err)
		}
		return lines, nil
	}

	ring := make([]string, maxLines)
	count := 0
	idx := 0
	for scanner.Scan() {
		ring[idx] = scanner.Text()
		idx = (idx + 1) % maxLines
		if count < maxLines {
			count++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}

	lines := make([]string, count)
	if count == maxLines {
		for i := 0; i < count; i++ {
			lines[i] = ring[(idx+i)%maxLines]
		}
	} else {
		copy(lines, ring[:count])
	}
	return lines, nil
}

// Attr is one key=value pair from a log line.
type Attr struct {
	Key   string
	Value string
}

// Entry is a log line written by slog's text handler.
type Entry struct {
	Time  string
	Level string
	Msg   string
	Attrs []Attr
	// Raw is the original line; set for every entry.
	Raw string
}

// ParseLine splits a slog text-handler line into its fields. Lines that do
// not look like key=value records come back with only Raw and Msg set.
func ParseLine(line string) Entry {
	e := Entry{Raw: line}
	pairs, ok := splitPairs(line)
	if !ok {
		e.Msg = line
		return e
	}
	for _, p := range pairs {
		switch p.Key {
		case "time":
			e.Time = p.Value
		case "level":
			e.Level = p.Value
		case "msg":
			e.Msg = p.Value
		default:
			e.Attrs = append(e.Attrs, p)
		}
	}
	return e
}

// Filter keeps entries at or above minLevel whose raw text contains needle.
// An empty minLevel or needle disables that check.
func Filter(entries []Entry, minLevel, needle string) []Entry {
	min := levelRank(minLevel)
	needle = strings.ToLower(needle)
	var out []Entry
	for _, e := range entries {
		if min > 0 && levelRank(e.Level) < min {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(e.Raw), needle) {
			continue
		}
		out = append(out, e)
	}
	return out
}

func levelRank(level string) int {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return 1
	case "INFO":
		return 2
	case "WARN":
		return 3
	case "ERROR":
		return 4
	}
	return 0
}

func splitPairs(line string) ([]Attr, bool) {
	var out []Attr
	rest := strings.TrimSpace(line)
	for rest != "" {
		eq := strings.IndexByte(rest, '=')
		if eq <= 0 || strings.ContainsAny(rest[:eq], " \"") {
			return nil, false
		}
		key := rest[:eq]
		rest = rest[eq+1:]

		var value string
		if strings.HasPrefix(rest, `"`) {
			end := closingQuote(rest)
			if end < 0 {
				return nil, false
			}
			unq, err := strconv.Unquote(rest[:end+1])
			if err != nil {
				return nil, false
			}
			value = unq
			rest = rest[end+1:]
		} else {
			sp := strings.IndexByte(rest, ' ')
			if sp < 0 {
				sp = len(rest)
			}
			value = rest[:sp]
			rest = rest[sp:]
		}
		out = append(out, Attr{Key: key, Value: value})
		rest = strings.TrimLeft(rest, " ")
	}
	return out, len(out) > 0
}

// closingQuote returns the index of the quote ending the string that starts
// at s[0], honoring backslash escapes.
func closingQuote(s string) int {
	for i := 1; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '"':
			return i
		}
	}
	return -1
}
