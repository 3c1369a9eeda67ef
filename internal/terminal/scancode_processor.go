package terminal

import "github.com/inmbolmie/twinax5250/internal/display"

// HandleScancode processes one raw scancode from the keyboard, updating
// modifier state and writing any produced bytes to InputSink (spec.md
// §4.5).
func (s *Session) HandleScancode(code byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d := s.Dictionary
	if d == nil {
		return
	}

	if d.Extra[code] {
		s.Extra = true
		return
	}

	switch {
	case d.CtrlPress[code]:
		if d.CtrlToggle() {
			s.Ctrl = !s.Ctrl
		} else {
			s.Ctrl = true
		}
		return
	case d.CtrlRelease[code]:
		s.Ctrl = false
		return
	case d.AltPress[code]:
		if d.AltToggle() {
			s.Alt = !s.Alt
		} else {
			s.Alt = true
		}
		return
	case d.AltRelease[code]:
		s.Alt = false
		return
	case d.ShiftPress[code]:
		s.Shift = true
		return
	case d.ShiftRelease[code]:
		s.Shift = false
		return
	case d.CapsLock[code]:
		s.CapsLock = !s.CapsLock
		s.driveCapsLockIndicator()
		return
	}

	entry, ok := d.Lookup(code)
	if !ok {
		s.logf("unknown scancode 0x%02X, dropped", code)
		return
	}

	extraArmed := s.Extra
	if extraArmed {
		s.Extra = false
	}

	// Extra path takes priority over the modifier slots: a key carrying
	// slot 5 sends ESC followed by slot 5 in place of its own output.
	if extraArmed && entry.HasExtra {
		s.writeKeyBytes("\x1B"+entry.Extra, false, "")
		return
	}

	if s.Alt && entry.Normal == "s" {
		s.toggleClicker()
		return
	}

	var out string
	isEsc := entry.HasEsc
	switch {
	case s.CapsLock != s.Shift:
		out = entry.Shift
	case s.Ctrl:
		out = entry.Ctrl
	case s.Alt:
		out = entry.Alt
	default:
		out = entry.Normal
	}

	s.writeKeyBytes(out, isEsc && out == entry.Normal, entry.EscSuffix)
}

// writeKeyBytes sends a key's output to the child's stdin. If the output
// is the lone ESC byte and the entry carries an ESC-suffix slot, the
// suffix letter is appended to complete a VT52-style ESC sequence
// (spec.md §4.5 point 4).
func (s *Session) writeKeyBytes(out string, isEsc bool, suffix string) {
	if out == "" {
		return
	}
	data := []byte(out)
	if isEsc && out == "\x1B" && suffix != "" {
		data = append(data, suffix...)
	}
	if s.InputSink != nil {
		s.InputSink(data)
	}
}

func (s *Session) driveCapsLockIndicator() {
	if s.AdvancedFeatures {
		v := byte(display.IndicatorAdvancedOff)
		if s.CapsLock {
			v = display.IndicatorAdvancedOn
		}
		s.emit(display.OpWriteControlDataIndicators, v)
	} else {
		if s.CapsLock {
			s.IndicatorByte |= display.IndicatorCapsLock
		} else {
			s.IndicatorByte &^= display.IndicatorCapsLock
		}
		s.emit(display.OpWriteDataLoadCursorIndicators, s.IndicatorByte)
	}
	s.emitEOQ()
}

// toggleClicker flips the clicker-disable status bit, reproducing the
// alt+'s' special case documented in spec.md §4.5 point 4.
func (s *Session) toggleClicker() {
	s.ClickerEnabled = !s.ClickerEnabled
	if s.ClickerEnabled {
		s.StatusByte &^= display.StatusClickerDisable
	} else {
		s.StatusByte |= display.StatusClickerDisable
	}
	s.emit(display.OpWriteControlData, s.StatusByte)
	s.emitEOQ()
}
