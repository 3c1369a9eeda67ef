package scancode

import "testing"

func TestLoadDefault(t *testing.T) {
	d, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error: %v", err)
	}
	if d.Name != DefaultDictionaryName {
		t.Errorf("Name = %q, want %q", d.Name, DefaultDictionaryName)
	}
}

func TestLoadUnknown(t *testing.T) {
	if _, err := Load("does-not-exist"); err == nil {
		t.Fatalf("Load(unknown) returned nil error")
	}
}

func TestCtrlAltToggleSemantics(t *testing.T) {
	d, err := Load(DefaultDictionaryName)
	if err != nil {
		t.Fatal(err)
	}
	if !d.AltToggle() {
		t.Errorf("AltToggle() = false, want true (empty AltRelease group)")
	}
	if d.CtrlToggle() {
		t.Errorf("CtrlToggle() = true, want false (non-empty CtrlRelease group)")
	}
}

func TestDuplicateKeyRejected(t *testing.T) {
	b := Builder{
		Name: "dup",
		Keys: []KeyDef{
			{0x1C, KeyEntry{Normal: "a"}},
			{0x1C, KeyEntry{Normal: "A"}},
		},
	}
	if _, err := NewDictionary(b); err == nil {
		t.Fatalf("NewDictionary(duplicate scancode 0x1C) returned nil error, want duplicate-key error")
	}
}

func TestNewDictionaryAcceptsWellFormedKeys(t *testing.T) {
	b := Builder{
		Name: "ok",
		Keys: []KeyDef{
			{0x1C, KeyEntry{Normal: "a"}},
			{0x32, KeyEntry{Normal: "b"}},
		},
	}
	if _, err := NewDictionary(b); err != nil {
		t.Fatalf("NewDictionary(well-formed) error: %v", err)
	}
}

func TestLookupCursorKeyEscSuffix(t *testing.T) {
	d, err := Load(DefaultDictionaryName)
	if err != nil {
		t.Fatal(err)
	}
	e, ok := d.Lookup(0x75) // Up arrow
	if !ok {
		t.Fatalf("Lookup(Up) not found")
	}
	if e.Normal != "\x1B" || !e.HasEsc || e.EscSuffix != "A" {
		t.Errorf("Up arrow entry = %+v, want ESC with suffix A", e)
	}
}
