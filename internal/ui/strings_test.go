package ui

import (
	"testing"

	"github.com/five82/xivoverlay/internal/logtail"
)

func TestTruncate(t *testing.T) {
	cases := []struct {
		name  string
		in    string
		limit int
		want  string
	}{
		{"fits", "abc", 5, "abc"},
		{"trims", "  abc  ", 5, "abc"},
		{"ellipsis", "abcdefgh", 6, "abc..."},
		{"tiny", "abcdef", 2, "ab"},
		{"no_limit", "abcdef", 0, "abcdef"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := truncate(tc.in, tc.limit); got != tc.want {
				t.Fatalf("truncate(%q, %d) = %q, want %q", tc.in, tc.limit, got, tc.want)
			}
		})
	}
}

func TestTruncateMiddle(t *testing.T) {
	if got := truncateMiddle("  ", 10); got != "" {
		t.Fatalf("truncateMiddle blank = %q, want empty", got)
	}
	got := truncateMiddle("/home/me/.config/xivoverlay/layouts", 12)
	if len([]rune(got)) != 12 {
		t.Fatalf("got %q (%d runes), want 12", got, len([]rune(got)))
	}
	if got[:1] != "/" || got[len(got)-1:] != "s" {
		t.Fatalf("truncateMiddle should keep both ends, got %q", got)
	}
}

func TestPadRight(t *testing.T) {
	if got := padRight("ab", 4); got != "ab  " {
		t.Fatalf("padRight = %q", got)
	}
	if got := padRight("abcdef", 4); got != "abcdef" {
		t.Fatalf("padRight should not cut, got %q", got)
	}
}

func TestNextLevelCycles(t *testing.T) {
	l := logtail.LevelDebug
	seen := []string{levelName(l)}
	for range 4 {
		l = nextLevel(l)
		seen = append(seen, levelName(l))
	}
	want := []string{"debug", "info", "warn", "error", "debug"}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("cycle = %v, want %v", seen, want)
		}
	}
}
