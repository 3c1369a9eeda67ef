// Package scancode implements the immutable scancode dictionary model:
// special modifier groups and per-key slot tuples mapping raw scancodes to
// character output, plus custom EBCDIC overrides.
package scancode

import "fmt"

// KeyEntry holds the up-to-six output slots for one scancode: normal,
// shift, alt, ctrl (all mandatory strings, possibly empty), an optional
// ESC-suffix slot sent when the chosen slot is ESC, and an optional
// extra-prefix slot used when the one-shot extra modifier was armed.
type KeyEntry struct {
	Normal    string
	Shift     string
	Alt       string
	Ctrl      string
	EscSuffix string
	HasEsc    bool
	Extra     string
	HasExtra  bool
}

// Dictionary is an immutable scancode table for one keyboard layout.
type Dictionary struct {
	Name string

	CtrlPress    map[byte]bool
	CtrlRelease  map[byte]bool
	AltPress     map[byte]bool
	AltRelease   map[byte]bool
	ShiftPress   map[byte]bool
	ShiftRelease map[byte]bool
	CapsLock     map[byte]bool
	Extra        map[byte]bool

	Keys map[byte]KeyEntry

	// Overrides maps a display character to an 8-bit EBCDIC code, taking
	// priority over codepage conversion.
	Overrides map[rune]byte
}

// KeyDef pairs a scancode with its key entry. Keys is a slice of KeyDef
// rather than a map so that a dictionary literal with two entries for the
// same scancode is valid Go and survives to NewDictionary's duplicate
// check, instead of being silently collapsed by map-literal semantics
// before the check ever runs.
type KeyDef struct {
	Code  byte
	Entry KeyEntry
}

// Builder accumulates a dictionary's contents before NewDictionary
// validates and freezes it. Re-architected from the Python source's
// heterogeneous dict literal into a typed, fixed-shape record per
// SPEC_FULL.md §9.
type Builder struct {
	Name string

	CtrlPress, CtrlRelease     []byte
	AltPress, AltRelease       []byte
	ShiftPress, ShiftRelease   []byte
	CapsLock, Extra            []byte

	Keys      []KeyDef
	Overrides map[rune]byte
}

// NewDictionary validates and freezes a Builder into an immutable
// Dictionary. It returns an error on duplicate key definitions rather than
// silently shadowing the earlier one the way the Python source did — see
// SPEC_FULL.md §9 ("Duplicate dictionary keys").
func NewDictionary(b Builder) (*Dictionary, error) {
	d := &Dictionary{
		Name:         b.Name,
		CtrlPress:    toSet(b.CtrlPress),
		CtrlRelease:  toSet(b.CtrlRelease),
		AltPress:     toSet(b.AltPress),
		AltRelease:   toSet(b.AltRelease),
		ShiftPress:   toSet(b.ShiftPress),
		ShiftRelease: toSet(b.ShiftRelease),
		CapsLock:     toSet(b.CapsLock),
		Extra:        toSet(b.Extra),
		Keys:         make(map[byte]KeyEntry, len(b.Keys)),
		Overrides:    make(map[rune]byte, len(b.Overrides)),
	}
	for _, kd := range b.Keys {
		if _, dup := d.Keys[kd.Code]; dup {
			return nil, fmt.Errorf("scancode dictionary %q: duplicate key entry for scancode 0x%02X", b.Name, kd.Code)
		}
		d.Keys[kd.Code] = kd.Entry
	}
	for r, v := range b.Overrides {
		d.Overrides[r] = v
	}
	return d, nil
}

func toSet(codes []byte) map[byte]bool {
	m := make(map[byte]bool, len(codes))
	for _, c := range codes {
		m[c] = true
	}
	return m
}

// Lookup returns the key entry for a scancode, if defined.
func (d *Dictionary) Lookup(code byte) (KeyEntry, bool) {
	e, ok := d.Keys[code]
	return e, ok
}

// CtrlToggle reports whether this dictionary's ctrl modifier uses
// press-only toggle semantics (empty release group).
func (d *Dictionary) CtrlToggle() bool {
	return len(d.CtrlRelease) == 0
}

// AltToggle reports whether this dictionary's alt modifier uses
// press-only toggle semantics (empty release group).
func (d *Dictionary) AltToggle() bool {
	return len(d.AltRelease) == 0
}
