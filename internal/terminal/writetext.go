package terminal

import "github.com/inmbolmie/twinax5250/internal/display"

// writeText encodes text to EBCDIC (applying custom overrides first,
// substituting a space on encode failure) and writes it to the display in
// chunks of at most 10 bytes, scrolling on overflow and maintaining the
// newline_pending / cursor_in_previous_line quirk flags per spec.md §4.4.
func (s *Session) writeText(text string) {
	encoded := make([]byte, 0, len(text))
	for _, r := range text {
		if b, ok := s.Dictionary.Overrides[r]; ok {
			encoded = append(encoded, b)
			continue
		}
		if b, ok := s.Codepage.Encode(r); ok {
			encoded = append(encoded, b)
			continue
		}
		encoded = append(encoded, s.spaceByte())
	}

	for len(encoded) > 0 {
		if s.NewlinePending {
			s.scrollAndRetarget()
		}

		charsToLine := s.charsToEndOfLine()
		charsToScreen := s.charsToEndOfScreen()

		n := len(encoded)
		if n > maxWriteChunk {
			n = maxWriteChunk
		}
		if n > charsToScreen {
			n = charsToScreen
		}
		if n > charsToLine {
			n = charsToLine
		}
		if n == 0 {
			n = 1
		}

		chunk := encoded[:n]
		encoded = encoded[n:]
		s.writeChunk(chunk)

		switch {
		case n == charsToScreen:
			s.NewlinePending = true
			s.CursorInPreviousLine = false
		case n == charsToLine:
			s.CursorInPreviousLine = true
			s.NewlinePending = false
		default:
			s.clearQuirkFlags()
		}
	}
}

// spaceByte returns the EBCDIC code for a space, the substitution used on
// encode failure.
func (s *Session) spaceByte() byte {
	b, _ := s.Codepage.Encode(' ')
	return b
}

// writeChunk emits one WRITE_DATA_LOAD_CURSOR primitive and advances the
// cursor, wrapping at the end of a row (saturating at row 23, matching
// cursor motion clamping elsewhere).
func (s *Session) writeChunk(data []byte) {
	s.emit(display.OpWriteDataLoadCursor, data...)
	for range data {
		if s.CursorCol < Cols-1 {
			s.CursorCol++
		} else if s.CursorRow < Rows-1 {
			s.CursorCol = 0
			s.CursorRow++
		}
	}
}

// scrollAndRetarget performs the scroll-on-overflow operation: delete
// line 0 (ESC M semantics at row 0) and retarget to (23, 0).
func (s *Session) scrollAndRetarget() {
	savedRow, savedCol := s.CursorRow, s.CursorCol
	s.CursorRow = 0
	s.escM()
	s.CursorRow = savedRow
	s.CursorCol = savedCol
	s.CursorRow = Rows - 1
	s.CursorCol = 0
	s.NewlinePending = false
	s.CursorInPreviousLine = false
	s.loadCursorRegister()
}
