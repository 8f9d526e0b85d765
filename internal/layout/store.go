package layout

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Store reads and writes one YAML file per overlay inside a directory.
// Writes are not coordinated; the dispatcher is the only caller that mutates.
type Store struct {
	dir    string
	logger *slog.Logger

	mu sync.Mutex
	// record name -> file it was read from, rebuilt by every List
	files map[string]string
}

// NewStore returns a store rooted at dir, creating the directory when absent.
func NewStore(dir string, logger *slog.Logger) (*Store, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("layouts dir is empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create layouts dir: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{dir: dir, logger: logger, files: make(map[string]string)}, nil
}

// Dir returns the directory backing the store.
func (s *Store) Dir() string {
	return s.dir
}

// Path returns the absolute location of fileName inside the store.
func (s *Store) Path(fileName string) string {
	return filepath.Join(s.dir, filepath.Base(fileName))
}

// List parses every layout file in the directory. Unreadable or malformed
// files are logged and skipped; only a failure to read the directory errors.
// Files need not carry their derived name; List remembers where each record
// came from so Save and Delete act on that file. When two files hold the same
// name, the one at the derived file name wins and the other is skipped.
func (s *Store) List() ([]Record, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read layouts dir: %w", err)
	}

	files := make(map[string]string, len(entries))
	byName := make(map[string]Record, len(entries))
	for _, entry := range entries {
		if !entry.Type().IsRegular() || !IsLayoutFile(entry.Name()) {
			continue
		}
		path := filepath.Join(s.dir, entry.Name())
		record, err := readRecord(path)
		if err != nil {
			s.logger.Warn("skip layout file", "path", path, "error", err)
			continue
		}
		if seen, dup := files[record.Name]; dup {
			keep, skip := seen, entry.Name()
			if entry.Name() == record.FileName() {
				keep, skip = entry.Name(), seen
				byName[record.Name] = record
				files[record.Name] = keep
			}
			s.logger.Warn("skip duplicate layout name", "overlay", record.Name, "file", skip, "kept", keep)
			continue
		}
		files[record.Name] = entry.Name()
		byName[record.Name] = record
	}
	s.mu.Lock()
	s.files = files
	s.mu.Unlock()

	records := make([]Record, 0, len(byName))
	for _, r := range byName {
		records = append(records, r)
	}

	sort.Slice(records, func(i, j int) bool {
		li, lj := strings.ToLower(records[i].Name), strings.ToLower(records[j].Name)
		if li != lj {
			return li < lj
		}
		return records[i].Name < records[j].Name
	})
	return records, nil
}

// FindByName returns the record called name or ErrNotFound.
func (s *Store) FindByName(name string) (Record, error) {
	records, err := s.List()
	if err != nil {
		return Record{}, err
	}
	for _, r := range records {
		if r.Name == name {
			return r, nil
		}
	}
	return Record{}, fmt.Errorf("%q: %w", name, ErrNotFound)
}

// FileOf returns the file holding the record called name as of the last
// List, or the derived file name for a record not seen yet.
func (s *Store) FileOf(name string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if f, ok := s.files[name]; ok {
		return f
	}
	return FileNameFor(name)
}

// Save writes r over the file it was listed from, or to the file derived from
// its name when it is new.
func (s *Store) Save(r Record) error {
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("save layout: name is empty")
	}
	data, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal layout: %w", err)
	}

	fileName := s.FileOf(r.Name)
	target := s.Path(fileName)
	tmp, err := os.CreateTemp(s.dir, ".layout-*.tmp")
	if err != nil {
		return fmt.Errorf("save layout: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("save layout: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("save layout: %w", err)
	}
	if err := os.Rename(tmpName, target); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("save layout: %w", err)
	}
	s.mu.Lock()
	s.files[r.Name] = fileName
	s.mu.Unlock()
	return nil
}

// Delete removes the file holding the record called name. A missing file is
// reported as an error wrapping os.ErrNotExist.
func (s *Store) Delete(name string) error {
	fileName := s.FileOf(name)
	err := os.Remove(s.Path(fileName))
	s.mu.Lock()
	for n, f := range s.files {
		if f == fileName {
			delete(s.files, n)
		}
	}
	s.mu.Unlock()
	if err != nil {
		return fmt.Errorf("delete layout: %w", err)
	}
	return nil
}

// IsLayoutFile reports whether name looks like a record file.
func IsLayoutFile(name string) bool {
	if strings.HasPrefix(name, ".") {
		return false
	}
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".yaml" || ext == ".yml"
}

func readRecord(path string) (Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Record{}, fmt.Errorf("read layout: %w", err)
	}
	var r Record
	if err := yaml.Unmarshal(data, &r); err != nil {
		return Record{}, &ParseError{Path: path, Err: err}
	}
	if strings.TrimSpace(r.Name) == "" {
		return Record{}, &ParseError{Path: path, Err: errors.New("missing name")}
	}
	return r, nil
}

// CheckAvailable returns ErrNameTaken when a record other than the one
// currently called previous already owns name or its derived file.
func (s *Store) CheckAvailable(name, previous string) error {
	records, err := s.List()
	if err != nil {
		return err
	}
	fileName := FileNameFor(name)
	for _, r := range records {
		if previous != "" && r.Name == previous {
			continue
		}
		if r.Name == name || s.FileOf(r.Name) == fileName {
			return fmt.Errorf("%q: %w", name, ErrNameTaken)
		}
	}
	return nil
}
