package main

import (
	"fmt"
	"os"

	"github.com/PolarWolf314/pinsign/cmd"
	"github.com/common-nighthawk/go-figure"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "pinsign",
	Short: "pinsign - sign documents with a PIN-protected key kept on removable media",
	Long: `pinsign signs documents with an RSA key whose private half is encrypted
under a numeric PIN and kept on a USB drive, and verifies those signatures with
the matching public key.

Usage:
  pinsign <command> [flags]

Available Commands:
  generate   Generate a PIN-protected key pair
  sign       Sign a document
  verify     Verify signed documents
  find       Search a directory for key files
  devices    List removable media and the keys they carry
  info       Describe a key pair without unlocking it
  inspect    Show the signature block of a document
  log        View the audit log
  config     Manage pinsign configuration

Run 'pinsign help <command>' for more details on a specific command.
`,
	SilenceUsage:  true,
	SilenceErrors: true,
	Run: func(cmd *cobra.Command, args []string) {
		banner := figure.NewColorFigure("pinsign", "small", "green", true)
		banner.Print()
		fmt.Println()
		fmt.Println("Run 'pinsign --help' to see available commands.")
	},
}

func main() {
	cmd.RegisterCommands(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		if !cmd.IsReported(err) {
			fmt.Println(err)
		}
		os.Exit(1)
	}
}
