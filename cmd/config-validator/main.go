package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/chess10kp/mbar/internal/config"
)

func main() {
	cmd := &cobra.Command{
		Use:          "config-validator [path]",
		Short:        "Check an mbar config file",
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath := config.DefaultPath
			if len(args) > 0 {
				configPath = args[0]
			}

			cmd.Printf("Validating config: %s\n", configPath)
			if err := config.ValidateConfig(configPath); err != nil {
				return fmt.Errorf("config validation failed: %w", err)
			}
			cmd.Println("Config is valid!")
			return nil
		},
	}

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
