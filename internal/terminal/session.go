// Package terminal implements the per-terminal session: its state machine,
// the VT52-to-display translator, and the scancode processor. These live
// together because they all mutate the same session fields under one lock,
// matching how the teacher keeps a VT's state and its mutators in one
// package rather than splitting pure functions from the struct that owns
// the data.
package terminal

import (
	"sync"
	"time"

	"github.com/inmbolmie/twinax5250/internal/display"
	"github.com/inmbolmie/twinax5250/internal/ebcdic"
	"github.com/inmbolmie/twinax5250/internal/fifo"
	"github.com/inmbolmie/twinax5250/internal/scancode"
)

// State is a terminal session's position in the detect/init/run/recover
// state machine (spec.md §4.3).
type State int

const (
	Undetected State = iota
	DetectedNeedsInit
	Initializing
	Running
	Disconnected
)

func (st State) String() string {
	switch st {
	case Undetected:
		return "undetected"
	case DetectedNeedsInit:
		return "needs_init"
	case Initializing:
		return "initializing"
	case Running:
		return "running"
	case Disconnected:
		return "disconnected"
	default:
		return "unknown"
	}
}

const (
	// Rows and Cols are the fixed display geometry.
	Rows = 24
	Cols = 80

	// CommandQueueMaxPending is the default back-pressure threshold the
	// pseudo-terminal bridge polls before reading more child output.
	CommandQueueMaxPending = 50

	// InactivityTimeout declares a terminal disconnected after this long
	// without a successful response.
	InactivityTimeout = 10 * time.Second

	// maxWriteChunk is the hardware command-buffer limit per WRITE_DATA_LOAD_CURSOR.
	maxWriteChunk = 10
)

// Session holds all per-terminal mutable state plus its immutable
// configuration (station address, dictionary, codepage).
type Session struct {
	mu sync.Mutex

	Station byte

	// Configuration, preserved across Reset.
	Dictionary       *scancode.Dictionary
	Codepage         *ebcdic.Codepage
	PollDelayMicros  int
	AdvancedFeatures bool
	ClickerDefault   bool

	// State machine.
	State           State
	LastResponse    time.Time

	// Cursor and quirk flags.
	CursorRow, CursorCol               int
	SavedCursorRow, SavedCursorCol     int
	NewlinePending                     bool
	CursorInPreviousLine               bool
	SavedNewlinePending                bool
	SavedCursorInPreviousLine          bool

	// Modifier state.
	Shift, Ctrl, Alt, Extra, CapsLock bool

	// Display control registers.
	StatusByte    byte
	IndicatorByte byte

	// Protocol bookkeeping.
	Initialized   bool
	ResponseLevel bool
	LineParity    bool
	Busy          bool
	PollActive    bool
	ClickerEnabled bool

	// VT52 parser carry-over buffer for escape sequences split across
	// stdout chunks.
	IncompleteSequence []byte

	// Queues.
	OutboundCommands  *fifo.Queue[display.Command]
	InboundResponses  *fifo.Queue[StatusEvent]

	lastSeenResponseLevel bool
	haveSeenResponseLevel bool

	// InputSink receives scancode-decoded bytes for the child's stdin.
	// Set by the pseudo-terminal bridge.
	InputSink func([]byte)

	// SpawnChild and KillChild drive the external pseudo-terminal bridge
	// collaborator's lifecycle (spec.md §4.3 Initializing->Running and
	// ->Disconnected transitions). Set by the pseudo-terminal bridge.
	SpawnChild func()
	KillChild  func()

	// Log receives station-tagged diagnostic lines (spec.md §7).
	Log func(format string, args ...any)
}

// StatusEvent is one decoded status response delivered to the session by
// the link driver.
type StatusEvent struct {
	Busy          bool
	Exception     byte
	Outstanding   bool
	LineParity    bool
	ResponseLevel bool
}

// New creates a session for the given station, in the Undetected state.
func New(station byte, dict *scancode.Dictionary, codepage *ebcdic.Codepage, pollDelayMicros int, advancedFeatures, clickerDefault bool) *Session {
	s := &Session{
		Station:          station,
		Dictionary:       dict,
		Codepage:         codepage,
		PollDelayMicros:  pollDelayMicros,
		AdvancedFeatures: advancedFeatures,
		ClickerDefault:   clickerDefault,
		ClickerEnabled:   clickerDefault,
		State:            Undetected,
		OutboundCommands: fifo.New[display.Command](256),
		InboundResponses: fifo.New[StatusEvent](8),
		Log:              func(string, ...any) {},
	}
	return s
}

// CommandQueueDepth reports the outbound command queue's current depth,
// used by the pseudo-terminal bridge for back-pressure.
func (s *Session) CommandQueueDepth() int {
	return s.OutboundCommands.Len()
}

// Reset clears all volatile state (cursor, flags, queues) but preserves
// configuration, per spec.md §3 "Lifecycles".
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetLocked()
}

func (s *Session) resetLocked() {
	s.CursorRow, s.CursorCol = 0, 0
	s.SavedCursorRow, s.SavedCursorCol = 0, 0
	s.NewlinePending = false
	s.CursorInPreviousLine = false
	s.SavedNewlinePending = false
	s.SavedCursorInPreviousLine = false
	s.Shift, s.Ctrl, s.Alt, s.Extra, s.CapsLock = false, false, false, false, false
	s.StatusByte = 0
	s.IndicatorByte = 0
	s.Initialized = false
	s.Busy = false
	s.PollActive = false
	s.IncompleteSequence = nil
	s.OutboundCommands.Clear()
	s.InboundResponses.Clear()
	s.haveSeenResponseLevel = false
}

func (s *Session) emit(opcode byte, data ...byte) {
	s.OutboundCommands.Enqueue(display.Command{Opcode: opcode, Station: s.Station, Data: data})
}

func (s *Session) emitEOQ() {
	s.OutboundCommands.Enqueue(display.EOQ(s.Station))
}

func (s *Session) logf(format string, args ...any) {
	if s.Log != nil {
		prefixed := append([]any{s.Station}, args...)
		s.Log("station %d: "+format, prefixed...)
	}
}

// HandleStatus applies one decoded status response to the session's state
// machine (spec.md §4.3) and returns once any resulting commands have been
// queued.
func (s *Session) HandleStatus(ev StatusEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.LastResponse = time.Now()
	s.Busy = ev.Busy
	s.LineParity = ev.LineParity

	switch s.State {
	case Undetected:
		s.State = DetectedNeedsInit
		fallthrough
	case DetectedNeedsInit:
		if ev.Exception == 7 {
			s.resetLocked()
			s.emit(display.OpSetMode)
			s.emitEOQ()
			s.State = Initializing
			return
		}
	case Initializing:
		if ev.Exception == 0 && !ev.Busy {
			s.emit(display.OpClear)
			s.emitEOQ()
			s.Initialized = true
			s.State = Running
			if s.SpawnChild != nil {
				s.SpawnChild()
			}
		}
		return
	case Running:
		if ev.Exception != 0 {
			s.emit(display.OpWriteControlData, s.StatusByte|display.StatusResetException)
			s.emitEOQ()
			s.logf("exception %d while running, reset-exception sent", ev.Exception)
		}
		if time.Since(s.LastResponse) > InactivityTimeout {
			s.disconnectLocked()
		}
		return
	case Disconnected:
		s.State = Undetected
	}

	if ev.Exception == 7 && s.State != Initializing {
		s.State = DetectedNeedsInit
		s.resetLocked()
		s.emit(display.OpSetMode)
		s.emitEOQ()
		s.State = Initializing
	}
}

// CheckInactivity declares the session disconnected if too much time has
// passed since the last response, per spec.md §4.2 point 2.
func (s *Session) CheckInactivity() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Initialized && !s.LastResponse.IsZero() && time.Since(s.LastResponse) >= InactivityTimeout {
		s.disconnectLocked()
	}
}

func (s *Session) disconnectLocked() {
	s.logf("inactivity timeout, disconnecting")
	s.State = Disconnected
	if s.KillChild != nil {
		s.KillChild()
	}
	s.resetLocked()
}

// NextResponseLevelIsNew reports whether level marks a new data response
// (response-level toggled) and records the new level, implementing the
// dedup rule in the GLOSSARY ("Response level").
func (s *Session) NextResponseLevelIsNew(level bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.haveSeenResponseLevel && s.lastSeenResponseLevel == level {
		return false
	}
	s.haveSeenResponseLevel = true
	s.lastSeenResponseLevel = level
	return true
}

// Lock and Unlock expose the session mutex to callers (link driver, bridge)
// that need to serialize a sequence of operations, matching the teacher's
// VT.Mu convention.
func (s *Session) Lock()   { s.mu.Lock() }
func (s *Session) Unlock() { s.mu.Unlock() }

// Status is a point-in-time snapshot of a session's state, for the debug
// console's "status" verb.
type Status struct {
	Station        byte
	State          State
	CursorRow      int
	CursorCol      int
	StatusByte     byte
	IndicatorByte  byte
	Busy           bool
	PollActive     bool
	ClickerEnabled bool
	OutboundDepth  int
	InboundDepth   int
}

// StatusSnapshot returns a snapshot of the session's current state.
func (s *Session) StatusSnapshot() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Status{
		Station:        s.Station,
		State:          s.State,
		CursorRow:      s.CursorRow,
		CursorCol:      s.CursorCol,
		StatusByte:     s.StatusByte,
		IndicatorByte:  s.IndicatorByte,
		Busy:           s.Busy,
		PollActive:     s.PollActive,
		ClickerEnabled: s.ClickerEnabled,
		OutboundDepth:  s.OutboundCommands.Len(),
		InboundDepth:   s.InboundResponses.Len(),
	}
}
