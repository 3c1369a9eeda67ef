package cmd

import (
	"bufio"
	"fmt"
	"net"
	"time"

	"github.com/spf13/cobra"

	"github.com/inmbolmie/twinax5250/internal/config"
)

func newStatusCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "status [--config=<path>]",
		Short: "Show configured station states",
		Long:  "Connect to the running controller's debug console and print the station list.",
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

			network, addr := "unix", config.SocketPath()
			if cfg.ListenTCP != "" {
				network, addr = "tcp", cfg.ListenTCP
			}

			conn, err := net.DialTimeout(network, addr, 2*time.Second)
			if err != nil {
				return fmt.Errorf("connect to console at %s: %w (is twinaxd running?)", addr, err)
			}
			defer conn.Close()

			if _, err := fmt.Fprintln(conn, "list"); err != nil {
				return fmt.Errorf("send list command: %w", err)
			}

			conn.SetReadDeadline(time.Now().Add(2 * time.Second))
			line, err := bufio.NewReader(conn).ReadString('\n')
			if err != nil {
				return fmt.Errorf("read response: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), line)
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Path to config.yaml (default ~/.twinax5250/config.yaml)")

	return cmd
}
