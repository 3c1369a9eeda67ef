package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/inmbolmie/twinax5250/internal/config"
	"github.com/inmbolmie/twinax5250/internal/link"
	"github.com/inmbolmie/twinax5250/internal/system"
)

func newRunCmd() *cobra.Command {
	var configPath string
	var stationFlags []string

	cmd := &cobra.Command{
		Use:   "run [--config=<path>] [--station=STATION:[SCANCODE_DICT]:[SLOW_POLL]:[EBCDIC_CODEPAGE]] ...",
		Short: "Start the controller",
		Long: `Load the configuration, open the serial converter, and run the round-robin
poll loop, one pseudo-terminal bridge per configured terminal, and the debug
console, until interrupted.

Station definitions passed with the repeatable --station flag use the
original's shorthand and are appended to any terminals already listed in the
config file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var cfg *config.Config
			var err error
			if configPath != "" {
				cfg, err = config.LoadFrom(configPath)
			} else {
				cfg, err = config.Load()
			}
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			for _, f := range stationFlags {
				tc, err := config.ParseStationFlag(f)
				if err != nil {
					return err
				}
				cfg.Terminals = append(cfg.Terminals, tc)
			}

			port, err := link.OpenPort(cfg.SerialDevice)
			if err != nil {
				return fmt.Errorf("open serial device %s: %w", cfg.SerialDevice, err)
			}

			sys, err := system.New(cfg, port)
			if err != nil {
				port.Close()
				return err
			}
			defer sys.Close()

			stop := make(chan struct{})
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
			go func() {
				<-sigCh
				close(stop)
			}()

			sys.Run(stop)
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Path to config.yaml (default ~/.twinax5250/config.yaml)")
	cmd.Flags().StringArrayVar(&stationFlags, "station", nil, "Additional station definition (repeatable)")

	return cmd
}
