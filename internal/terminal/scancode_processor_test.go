package terminal

import (
	"testing"

	"github.com/inmbolmie/twinax5250/internal/display"
)

func captureInput(s *Session) *[]byte {
	var got []byte
	s.InputSink = func(b []byte) { got = append(got, b...) }
	return &got
}

func TestScancodeNormalKey(t *testing.T) {
	s := newTestSession(t)
	got := captureInput(s)
	s.HandleScancode(0x1C) // 'a'
	if string(*got) != "a" {
		t.Fatalf("got %q, want %q", *got, "a")
	}
}

func TestScancodeShiftPress(t *testing.T) {
	s := newTestSession(t)
	got := captureInput(s)
	s.HandleScancode(0x57) // shift press
	s.HandleScancode(0x1C) // 'a'
	if string(*got) != "A" {
		t.Fatalf("got %q, want %q", *got, "A")
	}
	s.HandleScancode(0xD7) // shift release
	*got = nil
	s.HandleScancode(0x1C)
	if string(*got) != "a" {
		t.Fatalf("after release got %q, want %q", *got, "a")
	}
}

func TestScancodeCtrlToggleSemantics(t *testing.T) {
	s := newTestSession(t)
	got := captureInput(s)
	s.HandleScancode(0x54) // ctrl press (toggle mode off in this layout: has release group, so press-only sets true)
	s.HandleScancode(0x1C) // ctrl-a
	if string(*got) != "\x01" {
		t.Fatalf("got %q, want ctrl-a", *got)
	}
	s.HandleScancode(0xD4) // ctrl release
	*got = nil
	s.HandleScancode(0x1C)
	if string(*got) != "a" {
		t.Fatalf("after release got %q, want %q", *got, "a")
	}
}

func TestScancodeAltToggleSemantics(t *testing.T) {
	s := newTestSession(t)
	got := captureInput(s)
	s.HandleScancode(0x68) // alt press: toggle semantics, no release group
	if !s.Alt {
		t.Fatalf("Alt = false after press, want true (toggle)")
	}
	s.HandleScancode(0x68) // second press toggles back off
	if s.Alt {
		t.Fatalf("Alt = true after second press, want false (toggle)")
	}
	_ = got
}

func TestScancodeCursorKeyEmitsEscSuffix(t *testing.T) {
	s := newTestSession(t)
	got := captureInput(s)
	s.HandleScancode(0x75) // Up arrow
	if string(*got) != "\x1BA" {
		t.Fatalf("got %q, want ESC A", *got)
	}
}

func TestScancodeExtraThenKeyEmitsEscExtraSlot(t *testing.T) {
	s := newTestSession(t)
	dict := s.Dictionary
	entry, _ := dict.Lookup(0x6F)
	if !entry.HasExtra {
		t.Fatalf("fixture key 0x6F expected HasExtra=true")
	}

	got := captureInput(s)
	// The builtin layout has no extra-group scancode, so arm the one-shot
	// extra modifier directly.
	s.Extra = true
	s.HandleScancode(0x6F)
	want := "\x1B" + entry.Extra
	if string(*got) != want {
		t.Fatalf("got %q, want %q", *got, want)
	}
	if s.Extra {
		t.Fatalf("Extra flag left armed after consumption")
	}
}

func TestScancodeCapsLockDrivesIndicator(t *testing.T) {
	s := newTestSession(t)
	s.HandleScancode(0x7E) // caps lock
	if !s.CapsLock {
		t.Fatalf("CapsLock = false, want true")
	}
	cmds := drain(s)
	var sawIndicator bool
	for _, c := range cmds {
		if c.Opcode == display.OpWriteDataLoadCursorIndicators {
			sawIndicator = true
			if len(c.Data) != 1 || c.Data[0] != display.IndicatorCapsLock {
				t.Errorf("indicator data = %v, want [0x20]", c.Data)
			}
		}
	}
	if !sawIndicator {
		t.Fatalf("no indicator command emitted")
	}
}

func TestScancodeAltSTogglesClicker(t *testing.T) {
	s := newTestSession(t)
	s.HandleScancode(0x68) // alt press (toggle on)
	before := s.ClickerEnabled
	s.HandleScancode(0x1B) // 's'
	if s.ClickerEnabled == before {
		t.Fatalf("ClickerEnabled unchanged, want toggled")
	}
	cmds := drain(s)
	found := false
	for _, c := range cmds {
		if c.Opcode == display.OpWriteControlData {
			found = true
		}
	}
	if !found {
		t.Fatalf("no WRITE_CONTROL_DATA emitted for clicker toggle")
	}
}
