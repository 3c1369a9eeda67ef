// Package display holds the twinax display controller's command opcodes,
// status-byte bit constants, and the six primitives the VT52 translator
// composes operations from.
package display

// Command opcodes, per the converter's wire protocol.
const (
	OpReset                           = 0x02
	OpMoveData                        = 0x06
	OpLoadReferenceCounter            = 0x07
	OpPoll                            = 0x10
	OpWriteDataLoadCursor             = 0x11
	OpClear                           = 0x12
	OpSetMode                         = 0x13
	OpLoadAddressCounter              = 0x15
	OpLoadCursorRegister              = 0x17
	OpACK                             = 0x30
	OpWriteControlDataIndicators      = 0x45
	OpWriteControlData                = 0x05
	OpEOQ                             = 0x62
	OpWriteDataLoadCursorIndicators   = 0x51
)

// Status byte bits (WRITE_CONTROL_DATA payload). Bit 0x40 is left
// undocumented in the source this module is built from; no behavior is
// assigned to it here.
const (
	StatusHideCursor     byte = 0x80
	StatusCursorBlink    byte = 0x20
	StatusTextBlink      byte = 0x10
	StatusReverseVideo   byte = 0x08
	StatusResetException byte = 0x04
	StatusClickerDisable byte = 0x02
	StatusBell           byte = 0x01
)

// Indicator byte bits for basic-mode (software-maintained) caps lock lamp.
const (
	IndicatorCapsLock byte = 0x20
)

// Advanced-features indicator values for WRITE_CONTROL_DATA_INDICATORS.
const (
	IndicatorAdvancedOn  byte = 0x80
	IndicatorAdvancedOff byte = 0x00
)

// Primitive is one of the six display-controller primitives the VT52
// translator composes operations from.
type Primitive int

const (
	LoadAddressCounter Primitive = iota
	LoadReferenceCounter
	LoadCursorRegister
	Clear
	MoveData
	WriteDataLoadCursor
)

// Command is one emitted display-controller command: an opcode, a target
// station, and its payload bytes. A Command with Opcode == OpEOQ with no
// payload marks both the wire EOQ opcode and the internal queue-boundary
// sentinel (spec's back-pressure boundary).
type Command struct {
	Opcode  byte
	Station byte
	Data    []byte
}

// EOQ returns the end-of-queue boundary command for a station.
func EOQ(station byte) Command {
	return Command{Opcode: OpEOQ, Station: station}
}
