// Package link implements the cooperative, single-threaded twinax bus
// driver: opening the USB-to-twinax converter's serial line, the
// round-robin poll loop, and the bit-packed framing that talks to it.
package link

import (
	"fmt"
	"time"

	"github.com/daedaluz/goserial"
)

// Port is the minimal serial transport the driver needs; satisfied by
// *serial.Port and by a fake in tests.
type Port interface {
	Write(data []byte) (int, error)
	ReadTimeout(data []byte, timeout time.Duration) (int, error)
	Close() error
}

// OpenPort opens the converter's serial device in raw 57600 8-N-1 mode,
// grounded on Daedaluz-goserial's Termios2/MakeRaw/SetSpeed sequence.
func OpenPort(device string) (*serial.Port, error) {
	p, err := serial.Open(device, serial.NewOptions().SetReadTimeout(50*time.Millisecond))
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", device, err)
	}

	attrs, err := p.GetAttr2()
	if err != nil {
		p.Close()
		return nil, fmt.Errorf("get attrs on %s: %w", device, err)
	}
	attrs.MakeRaw()
	attrs.SetSpeed(serial.B57600)
	attrs.Cflag |= serial.CREAD | serial.CLOCAL
	if err := p.SetAttr2(serial.TCSANOW, attrs); err != nil {
		p.Close()
		return nil, fmt.Errorf("set attrs on %s: %w", device, err)
	}

	// Modem-control lines are frequently absent on USB-serial adapters;
	// an EINVAL here is benign and ignored, matching the converter
	// hardware's observed behavior.
	_, _ = p.GetModemLines()

	return p, nil
}
