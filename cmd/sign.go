package cmd

import (
	"context"
	"fmt"

	"github.com/PolarWolf314/pinsign/internal/ui"
	"github.com/PolarWolf314/pinsign/internal/workflows"
	"github.com/spf13/cobra"
)

var (
	signKeyDir   string
	signDevice   string
	signOutput   string
	signPin      string
	signPinStdin bool
)

func init() {
	signCmd.Flags().StringVar(&signKeyDir, "key-dir", "", "directory searched for encrypted_private_key.pk")
	signCmd.Flags().StringVar(&signDevice, "device", "", "removable device (name or mount point) holding the private key")
	signCmd.Flags().StringVarP(&signOutput, "output", "o", "", "path of the signed copy (defaults to <name>_signed<ext>)")
	signCmd.Flags().StringVar(&signPin, "pin", "", "PIN unlocking the private key (prompted when omitted)")
	signCmd.Flags().BoolVar(&signPinStdin, "pin-stdin", false, "read the PIN from stdin")
}

// resetSignCommandState resets the sign command's global state for testing.
func resetSignCommandState() {
	signKeyDir = ""
	signDevice = ""
	signOutput = ""
	signPin = ""
	signPinStdin = false
}

var signCmd = &cobra.Command{
	Use:   "sign DOCUMENT",
	Short: "Sign a document with your PIN-protected key",
	Long: `Unlocks the encrypted private key with your PIN and writes a signed copy
of DOCUMENT: the original bytes followed by a signature block.

The document is never modified in place.

Examples:
  pinsign sign contract.pdf --device KEYS
  pinsign sign contract.pdf --key-dir /media/me/KEYS -o contract-final.pdf
  echo 1234 | pinsign sign report.pdf --key-dir ./keys --pin-stdin`,
	Args: cobra.ExactArgs(1),
	RunE: runSign,
}

func runSign(cmd *cobra.Command, args []string) error {
	Logger.Infof("Starting sign command")
	ctx := context.Background()
	documentPath := args[0]

	keyDir, err := resolveKeyDir(ctx, "key-dir", signKeyDir, signDevice)
	if err != nil {
		fmt.Println(formatError(err))
		return reported(err)
	}
	Logger.Debugf("Key dir: %s", keyDir)

	pin, err := readPin(signPin, signPinStdin, false)
	if err != nil {
		fmt.Println(formatError(err))
		return reported(err)
	}
	defer pin.Clear()

	spinner, cleanup := startSpinner("Signing " + documentPath + "...")
	defer cleanup()

	result, err := workflows.Sign(ctx, workflows.SignOptions{
		Pin:          pin,
		KeyDir:       keyDir,
		DocumentPath: documentPath,
		OutputPath:   signOutput,
	})
	if err != nil {
		Logger.Errorf("Sign failed: %v", err)
		spinner.FinalMSG = formatError(err)
		return reported(err)
	}

	Logger.Infof("Signed %d bytes with %s", result.DocumentLength, result.KeyPath)

	finalMessage := ui.Success.Sprint("✓") + " Signed " + ui.Path.Sprint(result.DocumentPath) + "\n" +
		"    Output: " + ui.Path.Sprint(result.OutputPath)
	if result.Fingerprint != "" {
		finalMessage += "\n    Key:    " + ui.Highlight.Sprint(result.Fingerprint)
	}
	spinner.FinalMSG = finalMessage
	return nil
}
