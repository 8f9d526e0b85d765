package layout

import "strings"

// Extension is appended to the derived file name of every record.
const Extension = ".yaml"

// Record is one overlay's full configuration as persisted on disk.
type Record struct {
	Name         string `yaml:"name" json:"name"`
	URL          string `yaml:"url" json:"url"`
	X            int    `yaml:"x" json:"x"`
	Y            int    `yaml:"y" json:"y"`
	Width        int    `yaml:"width" json:"width"`
	Height       int    `yaml:"height" json:"height"`
	Clickthrough bool   `yaml:"clickthrough" json:"clickthrough"`
	Decorated    bool   `yaml:"decorated" json:"decorated"`
	Active       bool   `yaml:"active" json:"active"`
}

// Default returns the record shown for a new, not yet saved overlay.
func Default() Record {
	return Record{
		URL:    "about:blank",
		Width:  800,
		Height: 600,
	}
}

// FileName derives the storage file name from the record name.
func (r Record) FileName() string {
	return FileNameFor(r.Name)
}

// FileNameFor lowercases name and replaces spaces with hyphens.
func FileNameFor(name string) string {
	base := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "-")
	return base + Extension
}
