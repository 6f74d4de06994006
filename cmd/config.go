package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/PolarWolf314/pinsign/internal/ui"
	"github.com/PolarWolf314/pinsign/internal/workflows"
	"github.com/spf13/cobra"
)

var configInitForce bool

func init() {
	configInitCmd.Flags().BoolVarP(&configInitForce, "force", "f", false, "overwrite an existing configuration file")

	ConfigCmd.AddCommand(configInitCmd)
	ConfigCmd.AddCommand(configShowCmd)
}

// resetConfigCommandState resets the config commands' global state for testing.
func resetConfigCommandState() {
	configInitForce = false
}

// ConfigCmd is the top-level config command.
var ConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage pinsign configuration",
	Long: `Provides commands for the pinsign configuration file.

Examples:
  # Write the default configuration
  pinsign config init

  # Show the effective configuration and where it lives
  pinsign config show`,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default configuration file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting config init command")

		result, err := workflows.ConfigInit(context.Background(), configInitForce)
		if err != nil {
			fmt.Println(formatError(err))
			return reported(err)
		}

		verb := "Created"
		if result.Overwritten {
			verb = "Overwrote"
		}
		fmt.Println(ui.Success.Sprint("✓") + " " + verb + " " + ui.Path.Sprint(result.Path))
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting config show command")

		result, err := workflows.ConfigShow(context.Background())
		if err != nil {
			fmt.Println(formatError(err))
			return reported(err)
		}

		source := ui.Path.Sprint(result.Path)
		if !result.FromFile {
			source += " " + ui.Muted.Sprint("not present, showing defaults")
		}
		fmt.Println("# Config:    " + source)
		fmt.Println("# Audit log: " + ui.Path.Sprint(result.AuditLogPath))
		fmt.Println()

		var b strings.Builder
		if err := toml.NewEncoder(&b).Encode(result.Config); err != nil {
			return Logger.ErrorfAndReturn("failed to render config: %w", err)
		}
		fmt.Print(b.String())
		return nil
	},
}
