package layout

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/five82/xivoverlay/internal/logging"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "layouts"), logging.Discard())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return store
}

func sampleRecord(name string) Record {
	return Record{
		Name:         name,
		URL:          "http://localhost:8080/overlay",
		X:            10,
		Y:            -20,
		Width:        400,
		Height:       300,
		Clickthrough: true,
		Decorated:    false,
		Active:       true,
	}
}

func TestFileNameFor(t *testing.T) {
	cases := map[string]string{
		"DPS Meter":       "dps-meter.yaml",
		"  Raid  Timers ": "raid--timers.yaml",
		"already-lower":   "already-lower.yaml",
	}
	for in, want := range cases {
		if got := FileNameFor(in); got != want {
			t.Fatalf("FileNameFor(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNewStore_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	if _, err := NewStore(dir, nil); err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		t.Fatalf("layouts dir not created: %v", err)
	}
}

func TestNewStore_FailsWhenDirIsAFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(file, nil, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := NewStore(file, nil); err == nil {
		t.Fatalf("NewStore over a regular file returned nil error")
	}
}

func TestSaveThenFindRoundTrip(t *testing.T) {
	store := newTestStore(t)
	want := sampleRecord("DPS Meter")

	if err := store.Save(want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := os.Stat(store.Path("dps-meter.yaml")); err != nil {
		t.Fatalf("expected file dps-meter.yaml: %v", err)
	}

	got, err := store.FindByName("DPS Meter")
	if err != nil {
		t.Fatalf("FindByName: %v", err)
	}
	if got != want {
		t.Fatalf("FindByName = %#v, want %#v", got, want)
	}
}

func TestSave_OverwritesExisting(t *testing.T) {
	store := newTestStore(t)
	r := sampleRecord("Timers")
	if err := store.Save(r); err != nil {
		t.Fatalf("Save: %v", err)
	}
	r.Width = 999
	r.Active = false
	if err := store.Save(r); err != nil {
		t.Fatalf("Save: %v", err)
	}

	records, err := store.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(records) != 1 || records[0] != r {
		t.Fatalf("List = %#v, want only %#v", records, r)
	}
}

func TestSave_RejectsEmptyName(t *testing.T) {
	store := newTestStore(t)
	if err := store.Save(Record{}); err == nil {
		t.Fatalf("Save with empty name returned nil error")
	}
}

func TestList_EmptyDirectory(t *testing.T) {
	store := newTestStore(t)
	records, err := store.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("List = %#v, want empty", records)
	}
}

func TestList_SkipsMalformedFiles(t *testing.T) {
	store := newTestStore(t)
	for _, name := range []string{"Bravo", "alpha"} {
		if err := store.Save(sampleRecord(name)); err != nil {
			t.Fatalf("Save(%s): %v", name, err)
		}
	}

	junk := map[string]string{
		"broken.yaml":   "name: [unterminated\n",
		"nameless.yaml": "url: http://x\nwidth: 10\n",
		"notes.txt":     "not a layout",
		".hidden.yaml":  "name: hidden\n",
	}
	for file, content := range junk {
		if err := os.WriteFile(filepath.Join(store.Dir(), file), []byte(content), 0o644); err != nil {
			t.Fatalf("WriteFile(%s): %v", file, err)
		}
	}
	if err := os.Mkdir(filepath.Join(store.Dir(), "subdir.yaml"), 0o755); err != nil {
		t.Fatalf("Mkdir: %v", err)
	}

	records, err := store.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("List returned %d records, want 2: %#v", len(records), records)
	}
	if records[0].Name != "alpha" || records[1].Name != "Bravo" {
		t.Fatalf("List order = [%s %s], want [alpha Bravo]", records[0].Name, records[1].Name)
	}
}

func TestReadRecord_ReportsParseError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("name: [unterminated\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	_, err := readRecord(path)
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("readRecord error = %v, want *ParseError", err)
	}
	if perr.Path != path {
		t.Fatalf("ParseError.Path = %q, want %q", perr.Path, path)
	}
}

func TestFindByName_NotFound(t *testing.T) {
	store := newTestStore(t)
	_, err := store.FindByName("ghost")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("FindByName error = %v, want ErrNotFound", err)
	}
}

func TestDelete(t *testing.T) {
	store := newTestStore(t)
	r := sampleRecord("Party List")
	if err := store.Save(r); err != nil {
		t.Fatalf("Save: %v", err)
	}

	if err := store.Delete(r.Name); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.FindByName(r.Name); !errors.Is(err, ErrNotFound) {
		t.Fatalf("FindByName after delete = %v, want ErrNotFound", err)
	}

	err := store.Delete(r.Name)
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("second Delete error = %v, want os.ErrNotExist", err)
	}
}

func TestCheckAvailable(t *testing.T) {
	store := newTestStore(t)
	if err := store.Save(sampleRecord("DPS Meter")); err != nil {
		t.Fatalf("Save: %v", err)
	}

	if err := store.CheckAvailable("Timers", ""); err != nil {
		t.Fatalf("CheckAvailable(new name) = %v, want nil", err)
	}
	if err := store.CheckAvailable("DPS Meter", ""); !errors.Is(err, ErrNameTaken) {
		t.Fatalf("CheckAvailable(existing) = %v, want ErrNameTaken", err)
	}
	if err := store.CheckAvailable("dps meter", "Other"); !errors.Is(err, ErrNameTaken) {
		t.Fatalf("CheckAvailable(file collision) = %v, want ErrNameTaken", err)
	}
	if err := store.CheckAvailable("dps meter", "DPS Meter"); err != nil {
		t.Fatalf("CheckAvailable(rename self) = %v, want nil", err)
	}
}

func writeLayoutFile(t *testing.T, store *Store, fileName, body string) {
	t.Helper()
	if err := os.WriteFile(store.Path(fileName), []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

func TestSave_KeepsHandWrittenFileName(t *testing.T) {
	store := newTestStore(t)
	writeLayoutFile(t, store, "Raid Timers.yml", "name: Raid Timers\nurl: http://x/\nwidth: 10\nheight: 10\n")

	r, err := store.FindByName("Raid Timers")
	if err != nil {
		t.Fatalf("FindByName: %v", err)
	}
	if got := store.FileOf(r.Name); got != "Raid Timers.yml" {
		t.Fatalf("FileOf = %q, want Raid Timers.yml", got)
	}

	r.URL = "http://y/"
	if err := store.Save(r); err != nil {
		t.Fatalf("Save: %v", err)
	}
	records, err := store.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(records) != 1 || records[0].URL != "http://y/" {
		t.Fatalf("records after save = %#v, want one record with the new url", records)
	}
	if _, err := os.Stat(store.Path(r.FileName())); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("derived file written alongside the original: %v", err)
	}

	if err := store.Delete(r.Name); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	records, err = store.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("records after delete = %#v, want none", records)
	}
}

func TestList_DuplicateNamePrefersDerivedFile(t *testing.T) {
	store := newTestStore(t)
	writeLayoutFile(t, store, "copy.yml", "name: dps\nurl: http://old/\nwidth: 10\nheight: 10\n")
	writeLayoutFile(t, store, "dps.yaml", "name: dps\nurl: http://new/\nwidth: 10\nheight: 10\n")

	records, err := store.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(records) != 1 || records[0].URL != "http://new/" {
		t.Fatalf("List = %#v, want only the dps.yaml record", records)
	}
	if got := store.FileOf("dps"); got != "dps.yaml" {
		t.Fatalf("FileOf = %q, want dps.yaml", got)
	}
}
