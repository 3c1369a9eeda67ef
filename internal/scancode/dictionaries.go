package scancode

// Default dictionary names, matching the station configuration surface in
// SPEC_FULL.md §6.
const (
	DefaultDictionaryName = "5250_ES"
)

// builtins holds the dictionaries compiled into the binary. Additional
// dictionaries can be added here the same way without touching any caller.
var builtins = map[string]Builder{
	"5250_ES": {
		Name:         "5250_ES",
		CtrlPress:    []byte{0x54},
		CtrlRelease:  []byte{0xD4},
		AltPress:     []byte{0x68},
		AltRelease:   nil, // alt uses press-only toggle semantics in this layout
		ShiftPress:   []byte{0x57, 0x56},
		ShiftRelease: []byte{0xD7, 0xD6},
		CapsLock:     []byte{0x7E},
		Extra:        nil,
		Keys: []KeyDef{
			// Letters, grounded on a standard 122-key scancode layout.
			{0x1C, KeyEntry{Normal: "a", Shift: "A", Alt: "a", Ctrl: "\x01"}},
			{0x32, KeyEntry{Normal: "b", Shift: "B", Alt: "b", Ctrl: "\x02"}},
			{0x21, KeyEntry{Normal: "c", Shift: "C", Alt: "c", Ctrl: "\x03"}},
			{0x23, KeyEntry{Normal: "d", Shift: "D", Alt: "d", Ctrl: "\x04"}},
			{0x24, KeyEntry{Normal: "e", Shift: "E", Alt: "e", Ctrl: "\x05"}},
			{0x2B, KeyEntry{Normal: "f", Shift: "F", Alt: "f", Ctrl: "\x06"}},
			{0x34, KeyEntry{Normal: "g", Shift: "G", Alt: "g", Ctrl: "\x07"}},
			{0x33, KeyEntry{Normal: "h", Shift: "H", Alt: "h", Ctrl: "\x08"}},
			{0x43, KeyEntry{Normal: "i", Shift: "I", Alt: "i", Ctrl: "\x09"}},
			{0x3B, KeyEntry{Normal: "j", Shift: "J", Alt: "j", Ctrl: "\x0A"}},
			{0x42, KeyEntry{Normal: "k", Shift: "K", Alt: "k", Ctrl: "\x0B"}},
			{0x4B, KeyEntry{Normal: "l", Shift: "L", Alt: "l", Ctrl: "\x0C"}},
			{0x3A, KeyEntry{Normal: "m", Shift: "M", Alt: "m", Ctrl: "\x0D"}},
			{0x31, KeyEntry{Normal: "n", Shift: "N", Alt: "n", Ctrl: "\x0E"}},
			{0x44, KeyEntry{Normal: "o", Shift: "O", Alt: "o", Ctrl: "\x0F"}},
			{0x4D, KeyEntry{Normal: "p", Shift: "P", Alt: "p", Ctrl: "\x10"}},
			{0x15, KeyEntry{Normal: "q", Shift: "Q", Alt: "q", Ctrl: "\x11"}},
			{0x2D, KeyEntry{Normal: "r", Shift: "R", Alt: "r", Ctrl: "\x12"}},
			{0x1B, KeyEntry{Normal: "s", Shift: "S", Alt: "s", Ctrl: "\x13"}},
			{0x2C, KeyEntry{Normal: "t", Shift: "T", Alt: "t", Ctrl: "\x14"}},
			{0x3C, KeyEntry{Normal: "u", Shift: "U", Alt: "u", Ctrl: "\x15"}},
			{0x2A, KeyEntry{Normal: "v", Shift: "V", Alt: "v", Ctrl: "\x16"}},
			{0x1D, KeyEntry{Normal: "w", Shift: "W", Alt: "w", Ctrl: "\x17"}},
			{0x22, KeyEntry{Normal: "x", Shift: "X", Alt: "x", Ctrl: "\x18"}},
			{0x35, KeyEntry{Normal: "y", Shift: "Y", Alt: "y", Ctrl: "\x19"}},
			{0x1A, KeyEntry{Normal: "z", Shift: "Z", Alt: "z", Ctrl: "\x1A"}},

			// Digit row.
			{0x45, KeyEntry{Normal: "0", Shift: ")"}},
			{0x16, KeyEntry{Normal: "1", Shift: "!"}},
			{0x1E, KeyEntry{Normal: "2", Shift: "@"}},
			{0x26, KeyEntry{Normal: "3", Shift: "#"}},
			{0x25, KeyEntry{Normal: "4", Shift: "$"}},
			{0x2E, KeyEntry{Normal: "5", Shift: "%"}},
			{0x36, KeyEntry{Normal: "6", Shift: "^"}},
			{0x3D, KeyEntry{Normal: "7", Shift: "&"}},
			{0x3E, KeyEntry{Normal: "8", Shift: "*"}},
			{0x46, KeyEntry{Normal: "9", Shift: "("}},

			// Special keys.
			{0x5A, KeyEntry{Normal: "\r", Shift: "\r", Alt: "\r", Ctrl: "\r"}},         // Enter
			{0x66, KeyEntry{Normal: "\x08", Shift: "\x08", Alt: "\x08", Ctrl: "\x08"}}, // Backspace
			{0x29, KeyEntry{Normal: " ", Shift: " ", Alt: " ", Ctrl: " "}},             // Space
			{0x0D, KeyEntry{Normal: "\t", Shift: "\t", Alt: "\t", Ctrl: "\t"}},         // Tab

			// Cursor keys: slot 0 is ESC, slot 4 (EscSuffix) supplies the
			// VT52 letter, per spec.md §4.5 point 4's ESC+letter encoding.
			{0x75, KeyEntry{Normal: "\x1B", Shift: "\x1B", Alt: "\x1B", Ctrl: "\x1B", HasEsc: true, EscSuffix: "A"}}, // Up
			{0x72, KeyEntry{Normal: "\x1B", Shift: "\x1B", Alt: "\x1B", Ctrl: "\x1B", HasEsc: true, EscSuffix: "B"}}, // Down
			{0x74, KeyEntry{Normal: "\x1B", Shift: "\x1B", Alt: "\x1B", Ctrl: "\x1B", HasEsc: true, EscSuffix: "C"}}, // Right
			{0x6B, KeyEntry{Normal: "\x1B", Shift: "\x1B", Alt: "\x1B", Ctrl: "\x1B", HasEsc: true, EscSuffix: "D"}}, // Left

			// Function key example carrying an extra-prefix slot (slot 5).
			// This layout's extra group is empty, so 0x6F is only a regular
			// key here; slot 5 is used when the extra modifier is armed.
			{0x6F, KeyEntry{Normal: "\x1B", Shift: "\x1B", HasEsc: true, EscSuffix: "2", HasExtra: true, Extra: "X"}},

			// Punctuation.
			{0x4C, KeyEntry{Normal: ";", Shift: ":"}},
			{0x52, KeyEntry{Normal: "'", Shift: "\""}},
			{0x41, KeyEntry{Normal: ",", Shift: "<"}},
			{0x49, KeyEntry{Normal: ".", Shift: ">"}},
			{0x4A, KeyEntry{Normal: "/", Shift: "?"}},
			{0x4E, KeyEntry{Normal: "-", Shift: "_"}},
			{0x55, KeyEntry{Normal: "=", Shift: "+"}},
		},
		Overrides: nil,
	},
}

// Load builds a named builtin dictionary.
func Load(name string) (*Dictionary, error) {
	if name == "" {
		name = DefaultDictionaryName
	}
	b, ok := builtins[name]
	if !ok {
		return nil, errUnknownDictionary(name)
	}
	return NewDictionary(b)
}

type errUnknownDictionaryType string

func (e errUnknownDictionaryType) Error() string {
	return "unknown scancode dictionary: " + string(e)
}

func errUnknownDictionary(name string) error {
	return errUnknownDictionaryType(name)
}
