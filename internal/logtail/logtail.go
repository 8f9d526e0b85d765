package logtail

import (
	"bufio"
	"errors"
	"fmt"
	"os"
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

// Level is the severity of a slog text record.
type Level int

const (
	LevelUnknown Level = iota
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
)

// LineLevel extracts the level=... attribute written by slog's text handler.
func LineLevel(line string) Level {
	for _, field := range strings.Fields(line) {
		value, ok := strings.CutPrefix(field, "level=")
		if !ok {
			continue
		}
		switch strings.ToUpper(value) {
		case "DEBUG":
			return LevelDebug
		case "INFO":
			return LevelInfo
		case "WARN":
			return LevelWarn
		case "ERROR":
			return LevelError
		}
		return LevelUnknown
	}
	return LevelUnknown
}

// FilterLevel keeps lines at or above min. Lines without a recognisable level
// (continuations, foreign output) are kept so nothing silently disappears.
func FilterLevel(lines []string, min Level) []string {
	if min <= LevelDebug {
		return lines
	}
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		lvl := LineLevel(line)
		if lvl == LevelUnknown || lvl >= min {
			out = append(out, line)
		}
	}
	return out
}
