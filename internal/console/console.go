// Package console implements the operator debug console: a line-oriented
// command listener, grounded on dcosson-h2/internal/daemon's Unix-socket
// accept loop (stale socket detection via net.DialTimeout, one goroutine
// per accepted connection) and exposing the narrow verb set the original's
// cmd.Cmd-style operator shell supported (status/send/scancode/reset/list).
// The console owns no protocol state of its own; every verb is a thin
// front end over a *terminal.Session operation.
package console

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/inmbolmie/twinax5250/internal/link"
	"github.com/inmbolmie/twinax5250/internal/terminal"
)

// Console accepts connections and dispatches the fixed verb set against a
// station-indexed array of terminal sessions.
type Console struct {
	Sessions [link.StationCount]*terminal.Session
	Log      func(format string, args ...any)

	unixLn net.Listener
	tcpLn  net.Listener
}

// ListenUnix creates the socket directory (if needed), removes a stale
// socket left behind by a prior crashed run, and starts accepting
// connections on sockPath.
func (c *Console) ListenUnix(sockPath string) error {
	if err := os.MkdirAll(filepath.Dir(sockPath), 0o700); err != nil {
		return fmt.Errorf("create socket dir: %w", err)
	}

	if _, err := os.Stat(sockPath); err == nil {
		conn, err := net.DialTimeout("unix", sockPath, 500*time.Millisecond)
		if err == nil {
			conn.Close()
			return fmt.Errorf("console socket %s already in use", sockPath)
		}
		os.Remove(sockPath)
	}

	ln, err := net.Listen("unix", sockPath)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", sockPath, err)
	}
	c.unixLn = ln
	go c.acceptLoop(ln)
	return nil
}

// ListenTCP starts accepting connections on addr, for operators who want
// the console reachable over the network (spec.md §6's optional
// listen_tcp configuration).
func (c *Console) ListenTCP(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	c.tcpLn = ln
	go c.acceptLoop(ln)
	return nil
}

// Close shuts down any active listeners.
func (c *Console) Close() {
	if c.unixLn != nil {
		c.unixLn.Close()
	}
	if c.tcpLn != nil {
		c.tcpLn.Close()
	}
}

func (c *Console) acceptLoop(ln net.Listener) {
	for {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		go c.serve(conn)
	}
}

func (c *Console) serve(conn net.Conn) {
	defer conn.Close()
	r := bufio.NewScanner(conn)
	for r.Scan() {
		line := strings.TrimSpace(r.Text())
		if line == "" {
			continue
		}
		reply := c.Dispatch(line)
		if _, err := io.WriteString(conn, reply+"\n"); err != nil {
			return
		}
	}
}

// Dispatch parses and executes one command line, returning the text
// response. Exported so tests can drive it without a socket.
func (c *Console) Dispatch(line string) string {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "ERR empty command"
	}

	verb := fields[0]
	args := fields[1:]

	switch verb {
	case "status":
		return c.doStatus(args)
	case "send":
		return c.doSend(args)
	case "scancode":
		return c.doScancode(args)
	case "reset":
		return c.doReset(args)
	case "list":
		return c.doList()
	default:
		return fmt.Sprintf("ERR unknown command %q", verb)
	}
}

func (c *Console) station(args []string) (*terminal.Session, byte, error) {
	if len(args) == 0 {
		return nil, 0, fmt.Errorf("station number required")
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 0 || n >= len(c.Sessions) {
		return nil, 0, fmt.Errorf("invalid station %q", args[0])
	}
	s := c.Sessions[n]
	if s == nil {
		return nil, byte(n), fmt.Errorf("station %d not configured", n)
	}
	return s, byte(n), nil
}

func (c *Console) doStatus(args []string) string {
	s, _, err := c.station(args)
	if err != nil {
		return "ERR " + err.Error()
	}
	st := s.StatusSnapshot()
	return fmt.Sprintf(
		"OK station=%d state=%s cursor=(%d,%d) status_byte=0x%02X indicator_byte=0x%02X busy=%t poll_active=%t clicker=%t outbound_depth=%d inbound_depth=%d",
		st.Station, st.State, st.CursorRow, st.CursorCol, st.StatusByte, st.IndicatorByte,
		st.Busy, st.PollActive, st.ClickerEnabled, st.OutboundDepth, st.InboundDepth,
	)
}

func (c *Console) doSend(args []string) string {
	s, _, err := c.station(args)
	if err != nil {
		return "ERR " + err.Error()
	}
	if len(args) < 2 {
		return "ERR send requires text"
	}
	text := strings.Join(args[1:], " ")
	s.WriteBytes([]byte(text))
	return "OK"
}

func (c *Console) doScancode(args []string) string {
	s, _, err := c.station(args)
	if err != nil {
		return "ERR " + err.Error()
	}
	if len(args) < 2 {
		return "ERR scancode requires a hex byte"
	}
	raw, err := hex.DecodeString(strings.TrimPrefix(args[1], "0x"))
	if err != nil || len(raw) != 1 {
		return fmt.Sprintf("ERR invalid scancode %q", args[1])
	}
	s.HandleScancode(raw[0])
	return "OK"
}

func (c *Console) doReset(args []string) string {
	s, station, err := c.station(args)
	if err != nil {
		return "ERR " + err.Error()
	}
	s.Reset()
	if c.Log != nil {
		c.Log("station %d: reset via console", station)
	}
	return "OK"
}

func (c *Console) doList() string {
	var b strings.Builder
	b.WriteString("OK")
	for i, s := range c.Sessions {
		if s == nil {
			continue
		}
		st := s.StatusSnapshot()
		fmt.Fprintf(&b, " %d:%s", i, st.State)
	}
	return b.String()
}
