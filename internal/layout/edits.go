package layout

import (
	"net/url"
	"strconv"
	"strings"
)

// Edits holds the raw values of the detail form.
type Edits struct {
	Name         string
	URL          string
	X            string
	Y            string
	Width        string
	Height       string
	Clickthrough bool
	Decorated    bool
}

// EditsFrom fills a form from an existing record.
func EditsFrom(r Record) Edits {
	return Edits{
		Name:         r.Name,
		URL:          r.URL,
		X:            strconv.Itoa(r.X),
		Y:            strconv.Itoa(r.Y),
		Width:        strconv.Itoa(r.Width),
		Height:       strconv.Itoa(r.Height),
		Clickthrough: r.Clickthrough,
		Decorated:    r.Decorated,
	}
}

// Apply validates the edits and merges them into base. Active is carried over
// from base; it only changes through toggling.
func (e Edits) Apply(base Record) (Record, error) {
	var fields []FieldError
	out := base

	out.Name = strings.TrimSpace(e.Name)
	if out.Name == "" {
		fields = append(fields, FieldError{Field: "name", Message: "must not be empty"})
	} else if strings.ContainsAny(out.Name, `/\`) {
		fields = append(fields, FieldError{Field: "name", Message: "must not contain path separators"})
	}

	out.URL = strings.TrimSpace(e.URL)
	if u, err := url.Parse(out.URL); err != nil || u.Scheme == "" {
		fields = append(fields, FieldError{Field: "url", Message: "must be an absolute URL"})
	}

	parse := func(field, raw string, positive bool, dst *int) {
		v, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			fields = append(fields, FieldError{Field: field, Message: "must be an integer"})
			return
		}
		if positive && v <= 0 {
			fields = append(fields, FieldError{Field: field, Message: "must be greater than zero"})
			return
		}
		*dst = v
	}
	parse("x", e.X, false, &out.X)
	parse("y", e.Y, false, &out.Y)
	parse("width", e.Width, true, &out.Width)
	parse("height", e.Height, true, &out.Height)

	out.Clickthrough = e.Clickthrough
	out.Decorated = e.Decorated

	if len(fields) > 0 {
		return base, &ValidationError{Fields: fields}
	}
	return out, nil
}

// Patch carries optional overrides for a record. Nil fields keep the value of
// the record the patch is applied to.
type Patch struct {
	Name         *string
	URL          *string
	X            *int
	Y            *int
	Width        *int
	Height       *int
	Clickthrough *bool
	Decorated    *bool
}

// Edits returns the form values for base with the set fields replaced.
func (p Patch) Edits(base Record) Edits {
	e := EditsFrom(base)
	if p.Name != nil {
		e.Name = *p.Name
	}
	if p.URL != nil {
		e.URL = *p.URL
	}
	for _, f := range []struct {
		v   *int
		dst *string
	}{{p.X, &e.X}, {p.Y, &e.Y}, {p.Width, &e.Width}, {p.Height, &e.Height}} {
		if f.v != nil {
			*f.dst = strconv.Itoa(*f.v)
		}
	}
	if p.Clickthrough != nil {
		e.Clickthrough = *p.Clickthrough
	}
	if p.Decorated != nil {
		e.Decorated = *p.Decorated
	}
	return e
}
