// Package system wires together the configured serial port, per-station
// terminal sessions, the link driver, the pseudo-terminal bridges, and the
// debug console into one owned object, following spec.md §9's
// single-owned-system-object guidance: no package-level state, everything
// reachable from one *System value constructed by the run command.
package system

import (
	"log"
	"os"

	"github.com/inmbolmie/twinax5250/internal/config"
	"github.com/inmbolmie/twinax5250/internal/console"
	"github.com/inmbolmie/twinax5250/internal/ebcdic"
	"github.com/inmbolmie/twinax5250/internal/link"
	"github.com/inmbolmie/twinax5250/internal/ptybridge"
	"github.com/inmbolmie/twinax5250/internal/scancode"
	"github.com/inmbolmie/twinax5250/internal/terminal"
)

// System owns every long-lived collaborator started by `twinaxd run`.
type System struct {
	Config   *config.Config
	Port     link.Port
	Sessions [link.StationCount]*terminal.Session
	Bridges  []*ptybridge.Bridge
	Driver   *link.Driver
	Console  *console.Console

	logger *log.Logger
}

// New builds one session and one pseudo-terminal bridge per configured
// terminal over an already-opened port, and starts the debug console
// listeners. Taking the port as a parameter (rather than opening
// cfg.SerialDevice itself) keeps System testable against the link
// package's fake port, matching driver_test.go's approach. It does not
// start the link driver's poll loop; call Run for that.
func New(cfg *config.Config, port link.Port) (*System, error) {
	logger := log.New(os.Stderr, "", log.LstdFlags)

	sys := &System{Config: cfg, Port: port, logger: logger}

	shellCmd, shellArgs := cfg.ResolveShell()

	for _, tc := range cfg.Terminals {
		dict, err := scancode.Load(tc.Dictionary)
		if err != nil {
			port.Close()
			return nil, err
		}
		codepage := ebcdic.ByName(tc.Codepage)

		s := terminal.New(tc.Station, dict, codepage, tc.PollDelayMicros, tc.AdvancedFeatures, cfg.ClickerDefault)
		s.Log = sys.logf
		sys.Sessions[tc.Station] = s

		b := ptybridge.New(s, shellCmd, shellArgs)
		sys.Bridges = append(sys.Bridges, b)
	}

	sys.Driver = link.New(port, sys.Sessions, sys.logf)

	sys.Console = &console.Console{Sessions: sys.Sessions, Log: sys.logf}
	if cfg.ListenUnix {
		if err := sys.Console.ListenUnix(config.SocketPath()); err != nil {
			sys.Close()
			return nil, err
		}
	}
	if cfg.ListenTCP != "" {
		if err := sys.Console.ListenTCP(cfg.ListenTCP); err != nil {
			sys.Close()
			return nil, err
		}
	}

	return sys, nil
}

// Run drives the link driver's round-robin poll loop until stop is
// closed. It blocks the calling goroutine.
func (sys *System) Run(stop <-chan struct{}) {
	sys.Driver.Run(stop)
}

// Close shuts down the console listeners and the serial port.
func (sys *System) Close() {
	if sys.Console != nil {
		sys.Console.Close()
	}
	if sys.Port != nil {
		sys.Port.Close()
	}
}

func (sys *System) logf(format string, args ...any) {
	sys.logger.Printf(format, args...)
}
