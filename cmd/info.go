package cmd

import (
	"context"
	"fmt"

	"github.com/PolarWolf314/pinsign/internal/ui"
	"github.com/PolarWolf314/pinsign/internal/workflows"
	"github.com/spf13/cobra"
)

var (
	infoKeyDir string
	infoDevice string
)

func init() {
	infoCmd.Flags().StringVar(&infoKeyDir, "key-dir", "", "directory searched for key files")
	infoCmd.Flags().StringVar(&infoDevice, "device", "", "removable device (name or mount point) holding the keys")
}

// resetInfoCommandState resets the info command's global state for testing.
func resetInfoCommandState() {
	infoKeyDir = ""
	infoDevice = ""
}

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Describe a key pair without unlocking it",
	Long: `Shows the size and fingerprint of the public key and the permissions of
the encrypted private key. The PIN is not needed.

Examples:
  pinsign info --device KEYS
  pinsign info --key-dir ~/keys`,
	Args: cobra.NoArgs,
	RunE: runInfo,
}

func runInfo(cmd *cobra.Command, args []string) error {
	Logger.Infof("Starting info command")
	ctx := context.Background()

	keyDir, err := resolveKeyDir(ctx, "key-dir", infoKeyDir, infoDevice)
	if err != nil {
		fmt.Println(formatError(err))
		return reported(err)
	}

	result, err := workflows.KeyInfo(ctx, keyDir)
	if err != nil {
		fmt.Println(formatError(err))
		return reported(err)
	}

	fmt.Printf("Public key:  %s\n", pathOrMissing(result.Paths.PublicKey))
	if result.Paths.PublicKey != "" {
		fmt.Printf("    Size:        %d bits\n", result.Bits)
		fmt.Printf("    Fingerprint: %s\n", ui.Highlight.Sprint(result.Fingerprint))
	}
	fmt.Printf("Private key: %s\n", pathOrMissing(result.Paths.PrivateKey))
	if result.Paths.PrivateKey != "" {
		fmt.Printf("    Mode:        %s\n", result.PrivateKeyMode)
	}
	if result.PrivateKeyExposed {
		Logger.WarnfUser("%s is readable by other users; run chmod 600 on it", result.Paths.PrivateKey)
	}
	return nil
}
