package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chess10kp/mbar/internal/config"
	"github.com/chess10kp/mbar/internal/core"
	"github.com/chess10kp/mbar/internal/statusbar"
)

const socketEnv = "MBAR_SOCKET"

// socketPath picks the socket from the flag, the environment or the config
// file, in that order
func socketPath(flag, configPath string) string {
	if flag != "" {
		return flag
	}
	if env := os.Getenv(socketEnv); env != "" {
		return env
	}
	if cfg, err := config.LoadConfig(configPath); err == nil && cfg.SocketPath != "" {
		return cfg.SocketPath
	}
	return config.DefaultConfig().SocketPath
}

func newRootCmd() *cobra.Command {
	var socket, configPath string

	send := func(message string) error {
		path := socketPath(socket, configPath)
		if err := core.SendMessage(path, message); err != nil {
			return fmt.Errorf("%w\nIs mbar running?", err)
		}
		return nil
	}
	simple := func(name, short string) *cobra.Command {
		return &cobra.Command{
			Use:   name,
			Short: short,
			Args:  cobra.NoArgs,
			RunE: func(*cobra.Command, []string) error {
				return send(name)
			},
		}
	}

	cmd := &cobra.Command{
		Use:          "mbarctl",
		Short:        "Control a running mbar",
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVar(&socket, "socket", "", "control socket (default from $"+socketEnv+" or the config)")
	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultPath, "config file")

	cmd.AddCommand(
		simple(core.CommandRedraw, "Draw a frame now"),
		simple(core.CommandReload, "Re-read the config file"),
		simple(core.CommandQuit, "Close the bar"),
		&cobra.Command{
			Use:   "message <text>...",
			Short: "Show text in the custom_message module",
			Example: `  mbarctl message "build passed"
  mbarctl message ""    # clear it`,
			Args: cobra.ArbitraryArgs,
			RunE: func(_ *cobra.Command, args []string) error {
				return send(statusbar.MessagePrefix + strings.Join(args, " "))
			},
		},
		&cobra.Command{
			Use:   "send <raw>",
			Short: "Send a raw message",
			Args:  cobra.ExactArgs(1),
			RunE: func(_ *cobra.Command, args []string) error {
				return send(args[0])
			},
		},
	)
	return cmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
