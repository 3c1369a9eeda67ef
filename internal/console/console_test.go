package console

import (
	"bufio"
	"net"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/inmbolmie/twinax5250/internal/ebcdic"
	"github.com/inmbolmie/twinax5250/internal/scancode"
	"github.com/inmbolmie/twinax5250/internal/terminal"
)

func newTestConsole(t *testing.T) *Console {
	t.Helper()
	dict, err := scancode.Load("")
	if err != nil {
		t.Fatalf("scancode.Load: %v", err)
	}
	c := &Console{}
	c.Sessions[0] = terminal.New(0, dict, ebcdic.Cp037, 0, false, true)
	return c
}

func TestDispatchUnknownStation(t *testing.T) {
	c := newTestConsole(t)
	resp := c.Dispatch("status 3")
	if !strings.HasPrefix(resp, "ERR") {
		t.Fatalf("resp = %q, want ERR", resp)
	}
}

func TestDispatchStatus(t *testing.T) {
	c := newTestConsole(t)
	resp := c.Dispatch("status 0")
	if !strings.HasPrefix(resp, "OK station=0") {
		t.Fatalf("resp = %q", resp)
	}
}

func TestDispatchSendWritesText(t *testing.T) {
	c := newTestConsole(t)
	resp := c.Dispatch("send 0 HELLO")
	if resp != "OK" {
		t.Fatalf("resp = %q", resp)
	}
	st := c.Sessions[0].StatusSnapshot()
	if st.CursorCol != 5 {
		t.Errorf("cursor col = %d, want 5", st.CursorCol)
	}
}

func TestDispatchScancodeInjectsKey(t *testing.T) {
	c := newTestConsole(t)
	var got []byte
	c.Sessions[0].InputSink = func(b []byte) { got = append(got, b...) }

	// 0x1C is "a" in the builtin 5250_ES dictionary.
	resp := c.Dispatch("scancode 0 1C")
	if resp != "OK" {
		t.Fatalf("resp = %q", resp)
	}
	if string(got) != "a" {
		t.Errorf("input sink got %q, want %q", got, "a")
	}
}

func TestDispatchResetClearsState(t *testing.T) {
	c := newTestConsole(t)
	c.Sessions[0].WriteBytes([]byte("HI"))
	resp := c.Dispatch("reset 0")
	if resp != "OK" {
		t.Fatalf("resp = %q", resp)
	}
	st := c.Sessions[0].StatusSnapshot()
	if st.CursorCol != 0 {
		t.Errorf("cursor col after reset = %d, want 0", st.CursorCol)
	}
}

func TestDispatchList(t *testing.T) {
	c := newTestConsole(t)
	resp := c.Dispatch("list")
	if !strings.Contains(resp, "0:undetected") {
		t.Fatalf("resp = %q", resp)
	}
}

func TestListenUnixAcceptsConnections(t *testing.T) {
	c := newTestConsole(t)
	sockPath := filepath.Join(t.TempDir(), "console.sock")
	if err := c.ListenUnix(sockPath); err != nil {
		t.Fatalf("ListenUnix: %v", err)
	}
	defer c.Close()

	conn, err := net.DialTimeout("unix", sockPath, time.Second)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	if _, err := conn.Write([]byte("list\n")); err != nil {
		t.Fatalf("write: %v", err)
	}

	reader := bufio.NewReader(conn)
	conn.SetReadDeadline(time.Now().Add(time.Second))
	line, err := reader.ReadString('\n')
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.HasPrefix(line, "OK") {
		t.Fatalf("line = %q, want OK prefix", line)
	}
}

func TestListenUnixRemovesStaleSocket(t *testing.T) {
	dir := t.TempDir()
	sockPath := filepath.Join(dir, "console.sock")

	// Start a first console, then simulate a crash by closing its listener
	// without unlinking, which leaves the socket file behind.
	first := newTestConsole(t)
	if err := first.ListenUnix(sockPath); err != nil {
		t.Fatalf("first ListenUnix: %v", err)
	}
	first.unixLn.(*net.UnixListener).SetUnlinkOnClose(false)
	first.unixLn.Close()

	second := newTestConsole(t)
	if err := second.ListenUnix(sockPath); err != nil {
		t.Fatalf("second ListenUnix should recover from stale socket: %v", err)
	}
	defer second.Close()
}
