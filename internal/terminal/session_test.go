package terminal

import (
	"testing"
	"time"

	"github.com/inmbolmie/twinax5250/internal/display"
)

func TestStateMachineDetectInitRun(t *testing.T) {
	s := newTestSession(t)
	spawned := false
	s.SpawnChild = func() { spawned = true }

	if s.State != Undetected {
		t.Fatalf("initial state = %v, want Undetected", s.State)
	}

	s.HandleStatus(StatusEvent{Exception: 7})
	if s.State != Initializing {
		t.Fatalf("after needs-init status, state = %v, want Initializing", s.State)
	}
	cmds := drain(s)
	if len(cmds) == 0 || cmds[0].Opcode != display.OpSetMode {
		t.Fatalf("expected SET_MODE queued, got %+v", cmds)
	}

	s.HandleStatus(StatusEvent{Exception: 0, Busy: false})
	if s.State != Running {
		t.Fatalf("after clean status, state = %v, want Running", s.State)
	}
	if !spawned {
		t.Fatalf("SpawnChild was not called on entering Running")
	}
}

func TestStateMachineInactivityDisconnects(t *testing.T) {
	s := newTestSession(t)
	killed := false
	s.KillChild = func() { killed = true }

	s.HandleStatus(StatusEvent{Exception: 7})
	s.HandleStatus(StatusEvent{Exception: 0})
	if s.State != Running {
		t.Fatalf("state = %v, want Running", s.State)
	}

	s.LastResponse = time.Now().Add(-2 * InactivityTimeout)
	s.CheckInactivity()

	if s.State != Disconnected {
		t.Fatalf("state = %v, want Disconnected", s.State)
	}
	if !killed {
		t.Fatalf("KillChild was not called on disconnect")
	}
}

func TestStateMachineDisconnectedRecoversOnNextStatus(t *testing.T) {
	s := newTestSession(t)
	s.State = Disconnected

	s.HandleStatus(StatusEvent{Exception: 7})
	if s.State != Initializing {
		t.Fatalf("state = %v, want Initializing after recovery", s.State)
	}
}

func TestResponseLevelDedup(t *testing.T) {
	s := newTestSession(t)
	if !s.NextResponseLevelIsNew(false) {
		t.Fatalf("first observation should be new")
	}
	if s.NextResponseLevelIsNew(false) {
		t.Fatalf("repeated level should not be new")
	}
	if !s.NextResponseLevelIsNew(true) {
		t.Fatalf("toggled level should be new")
	}
}
