// Package forms holds the typed order and payment edit forms and the
// populators that fill them.
package forms

// LegacyNone is the placeholder server templates print for a missing value.
const LegacyNone = "None"

// Opt is a string that may be absent.
type Opt struct {
	value   string
	present bool
}

// Some returns a present value, which may be the empty string.
func Some(s string) Opt {
	return Opt{value: s, present: true}
}

// Absent returns a missing value.
func Absent() Opt {
	return Opt{}
}

// Legacy converts a template-rendered value, treating "None" as absent.
func Legacy(s string) Opt {
	if s == LegacyNone {
		return Absent()
	}
	return Some(s)
}

// Get returns the value and whether it is present.
func (o Opt) Get() (string, bool) {
	return o.value, o.present
}

// Or returns the value, or def when absent.
func (o Opt) Or(def string) string {
	if !o.present {
		return def
	}
	return o.value
}

// OrIfEmpty returns def when the value is absent or empty.
func (o Opt) OrIfEmpty(def string) string {
	if !o.present || o.value == "" {
		return def
	}
	return o.value
}
