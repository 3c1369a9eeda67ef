package link

import (
	"bufio"
	"strings"
	"time"

	"github.com/inmbolmie/twinax5250/internal/display"
	"github.com/inmbolmie/twinax5250/internal/terminal"
	"github.com/inmbolmie/twinax5250/internal/wire"
)

// StationCount is the number of station addresses on the shared twinax
// bus (spec.md §1: "up to seven terminals", addresses 0..6).
const StationCount = 7

// Driver runs the single-threaded, cooperative round-robin poll loop
// described in spec.md §4.2. It holds array-indexed handles to the
// terminal sessions rather than owning them, breaking the cyclic
// reference the sessions would otherwise need back to the driver
// (spec.md §9).
type Driver struct {
	port     Port
	sessions [StationCount]*terminal.Session
	log      func(format string, args ...any)

	lastPoll   [StationCount]time.Time
	pollActive [StationCount]bool

	reader *bufio.Reader
}

// New creates a driver over an already-opened serial port. Sessions at
// indexes with a nil entry are treated as unconfigured stations and
// skipped.
func New(port Port, sessions [StationCount]*terminal.Session, logf func(string, ...any)) *Driver {
	if logf == nil {
		logf = func(string, ...any) {}
	}
	return &Driver{port: port, sessions: sessions, log: logf}
}

// Run executes the round-robin loop until stop is closed.
func (d *Driver) Run(stop <-chan struct{}) {
	for {
		select {
		case <-stop:
			return
		default:
		}
		for station := 0; station < StationCount; station++ {
			select {
			case <-stop:
				return
			default:
			}
			d.serviceTick(byte(station))
		}
	}
}

func (d *Driver) serviceTick(station byte) {
	s := d.sessions[station]
	if s == nil {
		return
	}

	delay := time.Duration(s.PollDelayMicros) * time.Microsecond
	if time.Since(d.lastPoll[station]) < delay {
		return
	}

	s.CheckInactivity()

	opcode := byte(display.OpPoll)
	if d.pollActive[station] {
		opcode = display.OpACK
	}

	s.Lock()
	lineParity := s.LineParity
	s.Unlock()

	frame := wire.EncodePoll(opcode, station, lineParity)
	d.lastPoll[station] = time.Now()

	status, data, ok := d.exchange(frame)
	if !ok {
		d.log("station %d: poll exchange failed, will retry next tick", station)
		return
	}

	var sw wire.StatusWord
	if status != nil {
		sw = wire.DecodeStatus(status[0], status[1])
		d.pollActive[station] = sw.Outstanding
		s.HandleStatus(terminal.StatusEvent{
			Busy:          sw.Busy,
			Exception:     sw.Exception,
			Outstanding:   sw.Outstanding,
			LineParity:    sw.LineParity,
			ResponseLevel: sw.ResponseLevel,
		})
	}
	if data != nil {
		code := wire.DecodeData(data[0], data[1])
		if s.NextResponseLevelIsNew(sw.ResponseLevel) && code != 0x00 && code != 0xFF {
			s.HandleScancode(code)
		}
	}

	d.drainCommands(station, s)
}

// exchange writes frame and reads lines until EOTX, per spec.md §4.2's
// request/response protocol. It returns up to two raw two-byte words
// (status, then optional data) and whether EOTX was seen.
func (d *Driver) exchange(frame []byte) (status, data []byte, ok bool) {
	if _, err := d.port.Write(frame); err != nil {
		d.log("write error: %v", err)
		return nil, nil, false
	}

	var words [][]byte
	deadline := time.Now().Add(500 * time.Millisecond)
	for time.Now().Before(deadline) {
		line, readOK := d.readLine()
		if !readOK {
			continue
		}
		switch {
		case strings.Contains(line, "DEBUG"):
			d.log("converter: %s", line)
		case strings.Contains(line, "EOTX"):
			switch len(words) {
			case 0:
				return nil, nil, true
			case 1:
				return words[0], nil, true
			case 2:
				return words[0], words[1], true
			default:
				return nil, nil, false
			}
		default:
			if len(line) >= 2 {
				words = append(words, []byte(line[:2]))
			}
		}
	}
	return nil, nil, false
}

// readLine reads one CR/LF-terminated line from the serial port,
// buffering partial reads across calls.
func (d *Driver) readLine() (string, bool) {
	if d.reader == nil {
		d.reader = bufio.NewReader(portReader{d.port})
	}
	line, err := d.reader.ReadString('\n')
	if err != nil {
		return "", false
	}
	return strings.TrimRight(line, "\r\n"), true
}

// portReader adapts Port.ReadTimeout to io.Reader for bufio.
type portReader struct{ p Port }

func (r portReader) Read(buf []byte) (int, error) {
	return r.p.ReadTimeout(buf, 50*time.Millisecond)
}

// drainCommands dequeues and writes outbound commands for one station
// when the session is not busy, up to an EOQ boundary. Busy is the only
// gate: the exception code of the last status is not checked. Each frame runs the same
// request/response exchange as a poll (write, then wait for EOTX), with
// one re-write retry on failure before the command is requeued.
func (d *Driver) drainCommands(station byte, s *terminal.Session) {
	s.Lock()
	busy := s.Busy
	s.Unlock()
	if busy {
		return
	}

	for {
		cmd, ok := s.OutboundCommands.Dequeue()
		if !ok {
			return
		}
		if cmd.Opcode == display.OpEOQ {
			return
		}
		frame := wire.EncodeCommand(cmd.Opcode, cmd.Station, cmd.Data)

		_, _, ok = d.exchange(frame)
		if !ok {
			_, _, ok = d.exchange(frame)
		}
		if !ok {
			d.log("station %d: command exchange failed, requeuing", station)
			s.OutboundCommands.Enqueue(cmd)
			return
		}
	}
}
