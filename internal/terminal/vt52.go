package terminal

import "github.com/inmbolmie/twinax5250/internal/display"

// parseResult is the explicit result type the VT52 parser returns instead
// of using exceptions for control flow (spec.md §9 re-architecture
// guidance).
type parseResult int

const (
	resultConsumed parseResult = iota
	resultNeedMore
	resultUnknownEscape
)

// WriteBytes feeds a chunk of child stdout through the VT52 translator.
// Incomplete escape sequences are buffered across calls in
// IncompleteSequence.
func (s *Session) WriteBytes(data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	buf := data
	if len(s.IncompleteSequence) > 0 {
		buf = append(append([]byte{}, s.IncompleteSequence...), data...)
		s.IncompleteSequence = nil
	}

	i := 0
	for i < len(buf) {
		b := buf[i]
		switch {
		case b == 0x1B:
			consumed, result := s.feedEscape(buf[i:])
			switch result {
			case resultNeedMore:
				s.IncompleteSequence = append([]byte{}, buf[i:]...)
				i = len(buf)
			case resultUnknownEscape:
				s.logf("unknown VT52 escape, dropped: % X", buf[i:i+consumed])
				i += consumed
			default:
				i += consumed
			}
		case b == '\r':
			s.carriageReturn()
			i++
		case b == '\n':
			s.lineFeed()
			i++
		case b == '\t':
			s.jumpNextTab()
			i++
		case b == 0x08:
			s.backspace()
			i++
		case b == 0x07:
			s.bell()
			i++
		default:
			n := runOfText(buf[i:])
			s.writeText(string(buf[i : i+n]))
			i += n
		}
	}
	s.emitEOQ()
}

// runOfText returns the length of the leading run of bytes that are none
// of the control bytes the translator special-cases, so writeText can
// batch a run of plain text instead of one byte at a time.
func runOfText(buf []byte) int {
	for i, b := range buf {
		switch b {
		case 0x1B, '\r', '\n', '\t', 0x08, 0x07:
			if i == 0 {
				return 1
			}
			return i
		}
	}
	return len(buf)
}

// feedEscape parses one escape sequence starting at buf[0]==0x1B. It
// returns the number of bytes consumed and a parseResult.
func (s *Session) feedEscape(buf []byte) (int, parseResult) {
	if len(buf) < 2 {
		return 0, resultNeedMore
	}

	// ANSI clear-screen synonym: ESC [ 2 J.
	if buf[1] == '[' {
		if len(buf) < 4 {
			return 0, resultNeedMore
		}
		if buf[2] == '2' && buf[3] == 'J' {
			s.escE()
			return 4, resultConsumed
		}
		return 4, resultUnknownEscape
	}

	letter := buf[1]
	switch letter {
	case 'E':
		s.escE()
		return 2, resultConsumed
	case 'J':
		s.escJ()
		return 2, resultConsumed
	case 'K':
		s.escK()
		return 2, resultConsumed
	case 'l':
		s.escLowerL()
		return 2, resultConsumed
	case 'o':
		s.escLowerO()
		return 2, resultConsumed
	case 'd':
		s.escLowerD()
		return 2, resultConsumed
	case 'B':
		s.moveDown()
		return 2, resultConsumed
	case 'H':
		s.setCursor(0, 0)
		return 2, resultConsumed
	case 'D':
		s.moveLeft()
		return 2, resultConsumed
	case 'C':
		s.moveRight()
		return 2, resultConsumed
	case 'A':
		s.moveUp()
		return 2, resultConsumed
	case 'M':
		s.escM()
		return 2, resultConsumed
	case 'Y':
		if len(buf) < 4 {
			return 0, resultNeedMore
		}
		row := int(buf[2]) - 32
		col := int(buf[3]) - 32
		s.setCursor(row, col)
		return 4, resultConsumed
	case 'b':
		return 2, resultConsumed // foreground color, accepted no-op
	case 'L':
		s.escL()
		return 2, resultConsumed
	case 'k':
		s.restoreCursor()
		return 2, resultConsumed
	case 'c':
		return 2, resultConsumed // background color, accepted no-op
	case 'q':
		s.setReverseVideo(true)
		return 2, resultConsumed
	case 'p':
		s.setReverseVideo(false)
		return 2, resultConsumed
	case 'j':
		s.saveCursor()
		return 2, resultConsumed
	case 'I':
		s.escI()
		return 2, resultConsumed
	case 'w':
		return 2, resultConsumed // wrap off, accepted no-op
	case 'v':
		return 2, resultConsumed // wrap on, accepted no-op
	case 'e':
		s.setCursorHidden(false)
		return 2, resultConsumed
	case 'f':
		s.setCursorHidden(true)
		return 2, resultConsumed
	default:
		return 2, resultUnknownEscape
	}
}

func (s *Session) carriageReturn() {
	s.rewindIfInPreviousLine()
	s.clearQuirkFlags()
	s.CursorCol = 0
	s.loadCursorRegister()
}

// lineFeed implements LF, including the row-23 scroll special case
// (spec.md §4.4 Scrolling: "LF at row 23 triggers ESC M at row 0").
func (s *Session) lineFeed() {
	if s.CursorRow == Rows-1 {
		col := s.CursorCol
		savedRow := s.CursorRow
		s.CursorRow = 0
		s.escM()
		s.CursorRow = savedRow
		s.CursorCol = col
		s.clearQuirkFlags()
		return
	}
	s.rewindIfInPreviousLine()
	s.clearQuirkFlags()
	s.CursorRow = clampRow(s.CursorRow + 1)
	s.loadCursorRegister()
}

func (s *Session) backspace() {
	s.moveLeft()
}

func (s *Session) bell() {
	if s.ClickerEnabled {
		s.emit(display.OpWriteControlData, s.StatusByte|display.StatusBell)
	}
}

// escE clears the whole screen and homes the cursor.
func (s *Session) escE() {
	end := position(Rows-1, Cols-1) + 1
	s.emit(display.OpLoadAddressCounter, 0, 0)
	s.emit(display.OpLoadReferenceCounter, byte(end>>8), byte(end))
	s.emit(display.OpClear)
	s.setCursor(0, 0)
	s.clearQuirkFlags()
}

// escJ clears from cursor to (23,79).
func (s *Session) escJ() {
	pos := position(s.CursorRow, s.CursorCol)
	end := position(Rows-1, Cols-1) + 1
	s.emit(display.OpLoadAddressCounter, byte(pos>>8), byte(pos))
	s.emit(display.OpLoadReferenceCounter, byte(end>>8), byte(end))
	s.emit(display.OpClear)
	s.clearQuirkFlags()
}

// escK clears from cursor to end of current row.
func (s *Session) escK() {
	pos := position(s.CursorRow, s.CursorCol)
	end := position(s.CursorRow, Cols-1) + 1
	s.emit(display.OpLoadAddressCounter, byte(pos>>8), byte(pos))
	s.emit(display.OpLoadReferenceCounter, byte(end>>8), byte(end))
	s.emit(display.OpClear)
	s.clearQuirkFlags()
}

// escLowerL clears the current line entirely.
func (s *Session) escLowerL() {
	start := position(s.CursorRow, 0)
	end := position(s.CursorRow, Cols-1) + 1
	s.emit(display.OpLoadAddressCounter, byte(start>>8), byte(start))
	s.emit(display.OpLoadReferenceCounter, byte(end>>8), byte(end))
	s.emit(display.OpClear)
	s.clearQuirkFlags()
}

// escLowerO clears from start-of-line to cursor.
func (s *Session) escLowerO() {
	start := position(s.CursorRow, 0)
	end := position(s.CursorRow, s.CursorCol) + 1
	s.emit(display.OpLoadAddressCounter, byte(start>>8), byte(start))
	s.emit(display.OpLoadReferenceCounter, byte(end>>8), byte(end))
	s.emit(display.OpClear)
	s.clearQuirkFlags()
}

// escLowerD clears from start-of-screen to cursor.
func (s *Session) escLowerD() {
	end := position(s.CursorRow, s.CursorCol) + 1
	s.emit(display.OpLoadAddressCounter, 0, 0)
	s.emit(display.OpLoadReferenceCounter, byte(end>>8), byte(end))
	s.emit(display.OpClear)
	s.clearQuirkFlags()
}

// escL inserts a line at the cursor row, shifting rows [cursor..22] down.
func (s *Session) escL() {
	s.setCursorHidden(true)
	if s.CursorRow < Rows-1 {
		src := position(s.CursorRow, 0)
		dstEnd := position(Rows-1, Cols-1) + 1
		s.emit(display.OpLoadAddressCounter, byte(src>>8), byte(src))
		s.emit(display.OpLoadReferenceCounter, byte(dstEnd>>8), byte(dstEnd))
		s.emit(display.OpMoveData)
	}
	start := position(s.CursorRow, 0)
	end := position(s.CursorRow, Cols-1) + 1
	s.emit(display.OpLoadAddressCounter, byte(start>>8), byte(start))
	s.emit(display.OpLoadReferenceCounter, byte(end>>8), byte(end))
	s.emit(display.OpClear)
	s.setCursorHidden(false)
}

// escM deletes the line at the cursor row, shifting rows [cursor+1..23] up.
// Skipped (no MOVE_DATA) if the cursor is already at row 23.
func (s *Session) escM() {
	s.setCursorHidden(true)
	if s.CursorRow < Rows-1 {
		src := position(s.CursorRow+1, 0)
		dstEnd := position(Rows-1, Cols-1) + 1
		s.emit(display.OpLoadAddressCounter, byte(src>>8), byte(src))
		s.emit(display.OpLoadReferenceCounter, byte(dstEnd>>8), byte(dstEnd))
		s.emit(display.OpMoveData)
	}
	start := position(Rows-1, 0)
	end := position(Rows-1, Cols-1) + 1
	s.emit(display.OpLoadAddressCounter, byte(start>>8), byte(start))
	s.emit(display.OpLoadReferenceCounter, byte(end>>8), byte(end))
	s.emit(display.OpClear)
	s.setCursorHidden(false)
}

// escI inserts a line above the cursor when at row 0, then moves up.
func (s *Session) escI() {
	if s.CursorRow == 0 {
		s.escL()
	}
	s.moveUp()
}

func (s *Session) setReverseVideo(on bool) {
	if on {
		s.StatusByte |= display.StatusReverseVideo
	} else {
		s.StatusByte &^= display.StatusReverseVideo
	}
	s.emit(display.OpWriteControlData, s.StatusByte)
}

func (s *Session) setCursorHidden(hidden bool) {
	if hidden {
		s.StatusByte |= display.StatusHideCursor
	} else {
		s.StatusByte &^= display.StatusHideCursor
	}
	s.emit(display.OpWriteControlData, s.StatusByte)
}
