package cmd

import (
	"context"

	"github.com/PolarWolf314/pinsign/internal/ui"
	"github.com/PolarWolf314/pinsign/internal/workflows"
	"github.com/spf13/cobra"
)

var findCmd = &cobra.Command{
	Use:   "find DIR",
	Short: "Search a directory for key files",
	Long: `Searches DIR recursively for public_key.pubk and encrypted_private_key.pk.
Unreadable subdirectories are skipped. When several copies exist, the first
one in lexical depth-first order is reported.

Examples:
  pinsign find /media/me/KEYS
  pinsign find .`,
	Args: cobra.ExactArgs(1),
	RunE: runFind,
}

func runFind(cmd *cobra.Command, args []string) error {
	Logger.Infof("Starting find command")

	spinner, cleanup := startSpinner("Searching " + args[0] + "...")
	defer cleanup()

	result, err := workflows.FindKeys(context.Background(), args[0])
	if err != nil {
		spinner.FinalMSG = formatError(err)
		return reported(err)
	}

	if !result.Found() {
		spinner.FinalMSG = ui.Warning.Sprint("⚠") + " No key files found under " + ui.Path.Sprint(result.Root)
		return nil
	}

	spinner.FinalMSG = ui.Success.Sprint("✓") + " Key files under " + ui.Path.Sprint(result.Root) + "\n" +
		"    Public key:  " + pathOrMissing(result.Paths.PublicKey) + "\n" +
		"    Private key: " + pathOrMissing(result.Paths.PrivateKey)
	return nil
}

func pathOrMissing(path string) string {
	if path == "" {
		return ui.Muted.Sprint("not found")
	}
	return ui.Path.Sprint(path)
}
