package cmd

import (
	"context"
	"fmt"

	"github.com/PolarWolf314/pinsign/internal/ui"
	"github.com/PolarWolf314/pinsign/internal/utils"
	"github.com/PolarWolf314/pinsign/internal/workflows"
	"github.com/spf13/cobra"
)

var (
	generatePrivateDir string
	generatePublicDir  string
	generateDevice     string
	generatePin        string
	generatePinStdin   bool
	generateBits       int
	generateForce      bool
)

func init() {
	generateCmd.Flags().StringVar(&generatePrivateDir, "private-dir", "", "directory for the encrypted private key, usually on removable media")
	generateCmd.Flags().StringVar(&generateDevice, "device", "", "removable device (name or mount point) for the encrypted private key")
	generateCmd.Flags().StringVar(&generatePublicDir, "public-dir", "", "directory for the public key (defaults to the private key directory)")
	generateCmd.Flags().StringVar(&generatePin, "pin", "", "PIN protecting the private key (prompted when omitted)")
	generateCmd.Flags().BoolVar(&generatePinStdin, "pin-stdin", false, "read the PIN from stdin")
	generateCmd.Flags().IntVar(&generateBits, "bits", 0, "RSA key size in bits (defaults to the configured size)")
	generateCmd.Flags().BoolVarP(&generateForce, "force", "f", false, "replace existing key files")
}

// resetGenerateCommandState resets the generate command's global state for testing.
func resetGenerateCommandState() {
	generatePrivateDir = ""
	generatePublicDir = ""
	generateDevice = ""
	generatePin = ""
	generatePinStdin = false
	generateBits = 0
	generateForce = false
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a PIN-protected key pair",
	Long: `Generates an RSA key pair. The private key is encrypted with a key derived
from your PIN and written as encrypted_private_key.pk, and the public key is
written as public_key.pubk.

Keep the private key on removable media and share the public key with anyone
who needs to verify your signatures. A lost PIN cannot be recovered.

Examples:
  pinsign generate --device KEYS
  pinsign generate --private-dir /media/me/KEYS --public-dir ~/keys
  pinsign generate --private-dir /media/me/KEYS --force`,
	Args: cobra.NoArgs,
	RunE: runGenerate,
}

func runGenerate(cmd *cobra.Command, args []string) error {
	Logger.Infof("Starting generate command")
	ctx := context.Background()

	privateDir, err := resolveKeyDir(ctx, "private-dir", generatePrivateDir, generateDevice)
	if err != nil {
		fmt.Println(formatError(err))
		return reported(err)
	}
	publicDir := generatePublicDir
	if publicDir == "" {
		publicDir = privateDir
	}
	Logger.Debugf("Private dir: %s, public dir: %s", privateDir, publicDir)

	if generateForce {
		Logger.WarnfUser("Using --force will overwrite existing keys - anything signed with them can no longer be re-signed")
	}

	pin, err := readPin(generatePin, generatePinStdin, true)
	if err != nil {
		fmt.Println(formatError(err))
		return reported(err)
	}
	defer pin.Clear()

	spinner, cleanup := startSpinner("Generating key pair...")
	defer cleanup()

	result, err := workflows.Generate(ctx, workflows.GenerateOptions{
		Pin:        pin,
		PrivateDir: privateDir,
		PublicDir:  publicDir,
		Bits:       generateBits,
		Force:      generateForce,
	})
	if err != nil {
		fatalIfEntropyFailure(err, cleanup)
		Logger.Errorf("Generate failed: %v", err)
		spinner.FinalMSG = formatError(err)
		return reported(err)
	}

	Logger.Infof("Generated %d-bit key %s", result.Bits, result.Fingerprint)

	finalMessage := ui.Success.Sprint("✓") + fmt.Sprintf(" Generated a %d-bit key pair\n", result.Bits) +
		"    Private key: " + ui.Path.Sprint(result.Paths.PrivateKey) + "\n" +
		"    Public key:  " + ui.Path.Sprint(result.Paths.PublicKey) + "\n" +
		"    Fingerprint: " + ui.Highlight.Sprint(result.Fingerprint) + "\n"
	if len(result.Replaced) > 0 {
		finalMessage += ui.Warning.Sprint("⚠") + " Replaced:" + utils.FormatPaths(result.Replaced)
	}
	finalMessage += ui.Info.Sprint("→") + " Keep your PIN safe: it cannot be recovered"
	spinner.FinalMSG = finalMessage
	return nil
}
