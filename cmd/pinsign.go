package cmd

import (
	logger "github.com/PolarWolf314/pinsign/internal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	verbose bool
	debug   bool
	Logger  logger.Logger
)

// RegisterCommands attaches the global flags and every pinsign subcommand to root.
func RegisterCommands(root *cobra.Command) {
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	root.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug output")

	root.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		Logger = logger.Logger{
			Verbose: verbose,
			Debug:   debug,
		}
		Logger.Debugf("Initializing %s command with verbose=%t, debug=%t", cmd.Name(), verbose, debug)
	}

	root.AddCommand(generateCmd)
	root.AddCommand(signCmd)
	root.AddCommand(verifyCmd)
	root.AddCommand(findCmd)
	root.AddCommand(devicesCmd)
	root.AddCommand(inspectCmd)
	root.AddCommand(infoCmd)
	root.AddCommand(logCmd)
	root.AddCommand(ConfigCmd)
}

// ResetGlobalState resets all global variables to their default values for testing.
func ResetGlobalState() {
	verbose = false
	debug = false
	resetGenerateCommandState()
	resetSignCommandState()
	resetVerifyCommandState()
	resetInfoCommandState()
	resetLogCommandState()
	resetConfigCommandState()

	for _, c := range []*cobra.Command{generateCmd, signCmd, verifyCmd, findCmd, devicesCmd, inspectCmd, infoCmd, logCmd, ConfigCmd, configInitCmd, configShowCmd} {
		c.Flags().VisitAll(func(flag *pflag.Flag) {
			flag.Changed = false
		})
	}
}

// SetVerbose sets the verbose flag for testing.
func SetVerbose(v bool) {
	verbose = v
}

// SetDebug sets the debug flag for testing.
func SetDebug(d bool) {
	debug = d
}

// SetLogger sets the logger for testing.
func SetLogger(l logger.Logger) {
	Logger = l
}
