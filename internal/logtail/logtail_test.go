package logtail

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestRead(t *testing.T) {
	tmpDir := t.TempDir()
	logPath := filepath.Join(tmpDir, "test.log")

	var content strings.Builder
	var expectedAll []string
	for i := 1; i <= 10; i++ {
		line := fmt.Sprintf("Line %d", i)
		content.WriteString(line + "\n")
		expectedAll = append(expectedAll, line)
	}

	if err := os.WriteFile(logPath, []byte(content.String()), 0644); err != nil {
		t.Fatalf("failed to create test log file: %v", err)
	}

	tests := []struct {
		name     string
		maxLines int
		expected []string
	}{
		{name: "read all (0)", maxLines: 0, expected: expectedAll},
		{name: "read all (negative)", maxLines: -1, expected: expectedAll},
		{name: "read partial (5)", maxLines: 5, expected: expectedAll[5:]},
		{name: "read exactly all (10)", maxLines: 10, expected: expectedAll},
		{name: "read more than exists (20)", maxLines: 20, expected: expectedAll},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Read(logPath, tt.maxLines)
			if err != nil {
				t.Fatalf("Read() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Read() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestRead_MissingFile(t *testing.T) {
	got, err := Read(filepath.Join(t.TempDir(), "nope.log"), 10)
	if err != nil {
		t.Fatalf("Read() error = %v, want nil", err)
	}
	if got != nil {
		t.Fatalf("Read() = %v, want nil", got)
	}
}

func TestLineLevel(t *testing.T) {
	tests := []struct {
		line string
		want Level
	}{
		{`time=2026-01-02T10:00:00Z level=INFO msg="overlay opened" overlay=dps`, LevelInfo},
		{`time=2026-01-02T10:00:00Z level=WARN msg="skip layout file"`, LevelWarn},
		{`time=2026-01-02T10:00:00Z level=ERROR msg=boom`, LevelError},
		{`time=2026-01-02T10:00:00Z level=DEBUG msg=trace`, LevelDebug},
		{`plain text`, LevelUnknown},
		{`level=TRACE msg=x`, LevelUnknown},
	}
	for _, tt := range tests {
		if got := LineLevel(tt.line); got != tt.want {
			t.Errorf("LineLevel(%q) = %v, want %v", tt.line, got, tt.want)
		}
	}
}

func TestFilterLevel(t *testing.T) {
	lines := []string{
		"level=DEBUG msg=a",
		"level=INFO msg=b",
		"continuation",
		"level=WARN msg=c",
		"level=ERROR msg=d",
	}

	got := FilterLevel(lines, LevelWarn)
	want := []string{"continuation", "level=WARN msg=c", "level=ERROR msg=d"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("FilterLevel(warn) = %v, want %v", got, want)
	}

	if got := FilterLevel(lines, LevelDebug); len(got) != len(lines) {
		t.Fatalf("FilterLevel(debug) dropped lines: %v", got)
	}
}
