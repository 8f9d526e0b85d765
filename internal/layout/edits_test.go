package layout

import (
	"errors"
	"testing"
)

func TestEdits_ApplyMergesFields(t *testing.T) {
	base := Record{Name: "old", URL: "http://a", Width: 1, Height: 1, Active: true}
	edits := Edits{
		Name:         "  New Name ",
		URL:          " https://example.com/overlay ",
		X:            "-5",
		Y:            " 40",
		Width:        "320",
		Height:       "240",
		Clickthrough: true,
		Decorated:    true,
	}

	got, err := edits.Apply(base)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	want := Record{
		Name:         "New Name",
		URL:          "https://example.com/overlay",
		X:            -5,
		Y:            40,
		Width:        320,
		Height:       240,
		Clickthrough: true,
		Decorated:    true,
		Active:       true,
	}
	if got != want {
		t.Fatalf("Apply = %#v, want %#v", got, want)
	}
}

func TestEdits_ApplyCollectsAllFieldErrors(t *testing.T) {
	base := Default()
	edits := Edits{Name: " ", URL: "not a url", X: "a", Y: "1", Width: "0", Height: "-3"}

	got, err := edits.Apply(base)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Apply error = %v, want *ValidationError", err)
	}
	for _, field := range []string{"name", "url", "x", "width", "height"} {
		if !verr.Has(field) {
			t.Errorf("ValidationError missing field %q: %v", field, verr)
		}
	}
	if verr.Has("y") {
		t.Errorf("ValidationError unexpectedly flags y: %v", verr)
	}
	if got != base {
		t.Fatalf("Apply returned %#v on error, want base unchanged", got)
	}
}

func TestEdits_RejectsPathSeparators(t *testing.T) {
	edits := EditsFrom(Record{Name: "../escape", URL: "http://x", Width: 1, Height: 1})
	_, err := edits.Apply(Default())
	var verr *ValidationError
	if !errors.As(err, &verr) || !verr.Has("name") {
		t.Fatalf("Apply error = %v, want name validation error", err)
	}
}

func TestEditsFrom_RoundTripsThroughApply(t *testing.T) {
	r := Record{Name: "Timers", URL: "about:blank", X: 3, Y: 4, Width: 5, Height: 6, Decorated: true}
	got, err := EditsFrom(r).Apply(Record{})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if got != r {
		t.Fatalf("Apply(EditsFrom(r)) = %#v, want %#v", got, r)
	}
}
