// Package ptybridge spawns the per-terminal child process (a shell) in a
// pseudo-terminal and bridges its stdout into the VT52 translator and its
// stdin from the scancode processor, per spec.md §4.7.
package ptybridge

import (
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/creack/pty"

	"github.com/inmbolmie/twinax5250/internal/terminal"
)

// readChunk is the maximum number of bytes read from the child's stdout
// per iteration, small enough that a single read rarely spans more than
// one VT52 escape sequence.
const readChunk = 128

// Bridge owns one child process's PTY lifecycle and wires its I/O to a
// terminal session, following the teacher's VT struct shape (one
// mutex-guarded struct owning the PTY master and the child command).
type Bridge struct {
	mu      sync.Mutex
	Session *terminal.Session

	Command string
	Args    []string

	ptm *os.File
	cmd *exec.Cmd

	LastOut time.Time
}

// New creates a bridge for a session, wiring Session.InputSink and the
// spawn/kill callbacks the session's state machine drives (spec.md §4.3
// Initializing->Running and ->Disconnected transitions).
func New(session *terminal.Session, command string, args []string) *Bridge {
	b := &Bridge{Session: session, Command: command, Args: args}
	session.InputSink = b.writeInput
	session.SpawnChild = b.spawn
	session.KillChild = b.kill
	return b
}

// spawn starts the child process in a pseudo-terminal sized for the
// display's 24x80 geometry, setting TERM=vt52 and a sentinel env var the
// child can use to detect it is running under this controller rather
// than a normal terminal.
func (b *Bridge) spawn() {
	b.mu.Lock()
	defer b.mu.Unlock()

	cmd := exec.Command(b.Command, b.Args...)
	cmd.Env = append(os.Environ(), "TERM=vt52", "TWINAX5250=1")

	ptm, err := pty.StartWithSize(cmd, &pty.Winsize{
		Rows: uint16(terminal.Rows),
		Cols: uint16(terminal.Cols),
	})
	if err != nil {
		if b.Session.Log != nil {
			b.Session.Log("station %d: start child: %v", b.Session.Station, err)
		}
		return
	}

	b.ptm = ptm
	b.cmd = cmd

	go b.pipeOutput()
}

// kill terminates the child process and closes its PTY master, per
// spec.md §4.3's Disconnected-state cleanup.
func (b *Bridge) kill() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.cmd != nil && b.cmd.Process != nil {
		_ = b.cmd.Process.Kill()
	}
	if b.ptm != nil {
		_ = b.ptm.Close()
	}
	b.ptm = nil
	b.cmd = nil
}

// pipeOutput reads the child's stdout in small chunks and feeds it to the
// VT52 translator, respecting the outbound command queue's back-pressure
// threshold (spec.md §4.2 Back-pressure).
func (b *Bridge) pipeOutput() {
	b.mu.Lock()
	ptm := b.ptm
	b.mu.Unlock()
	if ptm == nil {
		return
	}

	buf := make([]byte, readChunk)
	for {
		for b.Session.CommandQueueDepth() >= terminal.CommandQueueMaxPending {
			time.Sleep(5 * time.Millisecond)
		}

		n, err := ptm.Read(buf)
		if n > 0 {
			b.mu.Lock()
			b.LastOut = time.Now()
			b.mu.Unlock()
			b.Session.WriteBytes(buf[:n])
		}
		if err != nil {
			return
		}
	}
}

// writeInput writes scancode-decoded bytes to the child's stdin.
func (b *Bridge) writeInput(data []byte) {
	b.mu.Lock()
	ptm := b.ptm
	b.mu.Unlock()
	if ptm == nil {
		return
	}
	_, _ = ptm.Write(data)
}
