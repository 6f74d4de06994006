package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/PolarWolf314/pinsign/internal/ui"
	"github.com/PolarWolf314/pinsign/internal/workflows"
	"github.com/spf13/cobra"
)

var (
	verifyPublicKey string
	verifyKeyDir    string
	verifyDevice    string
	verifyJSON      bool
)

func init() {
	verifyCmd.Flags().StringVar(&verifyPublicKey, "public-key", "", "public key file to verify against")
	verifyCmd.Flags().StringVar(&verifyKeyDir, "key-dir", "", "directory searched for public_key.pubk")
	verifyCmd.Flags().StringVar(&verifyDevice, "device", "", "removable device (name or mount point) holding the public key")
	verifyCmd.Flags().BoolVar(&verifyJSON, "json", false, "output results as JSON")
}

// resetVerifyCommandState resets the verify command's global state for testing.
func resetVerifyCommandState() {
	verifyPublicKey = ""
	verifyKeyDir = ""
	verifyDevice = ""
	verifyJSON = false
}

var verifyCmd = &cobra.Command{
	Use:   "verify PATTERN...",
	Short: "Verify signed documents",
	Long: `Checks the signature block of each document against a public key.

PATTERN may be a file, a directory (searched recursively) or a glob with **.
Each document is reported as valid, invalid, no signature or malformed. The
command exits non-zero unless every document is valid.

Examples:
  pinsign verify contract_signed.pdf --public-key alice.pubk
  pinsign verify 'inbox/**/*_signed.pdf' --key-dir ~/keys
  pinsign verify ./signed --device KEYS --json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runVerify,
}

type verifyJSONEntry struct {
	Path   string `json:"path"`
	Result string `json:"result"`
	Error  string `json:"error,omitempty"`
}

func runVerify(cmd *cobra.Command, args []string) error {
	Logger.Infof("Starting verify command")
	ctx := context.Background()

	opts := workflows.VerifyOptions{
		DocumentPatterns: args,
		PublicKeyPath:    verifyPublicKey,
	}
	if verifyPublicKey == "" {
		keyDir, err := resolveKeyDir(ctx, "key-dir", verifyKeyDir, verifyDevice)
		if err != nil {
			fmt.Println(formatError(err))
			return reported(err)
		}
		opts.KeyDir = keyDir
	}

	spinner, cleanup := startSpinner("Verifying signatures...")
	defer cleanup()

	result, err := workflows.Verify(ctx, opts)
	if err != nil {
		Logger.Errorf("Verify failed: %v", err)
		spinner.FinalMSG = formatError(err)
		return reported(err)
	}
	Logger.Debugf("Verified %d documents with %s", len(result.Documents), result.PublicKeyPath)

	if verifyJSON {
		entries := make([]verifyJSONEntry, 0, len(result.Documents))
		for _, d := range result.Documents {
			e := verifyJSONEntry{Path: d.Path, Result: d.Status()}
			switch {
			case d.ReadErr != nil:
				e.Error = d.ReadErr.Error()
			case d.Err != nil:
				e.Error = d.Err.Error()
			}
			entries = append(entries, e)
		}
		data, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal results to JSON: %w", err)
		}
		spinner.FinalMSG = string(data)
	} else {
		var b strings.Builder
		valid := 0
		for _, d := range result.Documents {
			if d.ReadErr != nil {
				fmt.Fprintf(&b, "%s  %s\n", ui.Unreadable(), ui.Path.Sprint(d.Path))
				Logger.WarnfUser("%v", d.ReadErr)
				continue
			}
			fmt.Fprintf(&b, "%s  %s\n", ui.Verdict(d.Result), ui.Path.Sprint(d.Path))
			if d.Err != nil {
				Logger.Infof("%s: %v", d.Path, d.Err)
			}
			if d.Valid() {
				valid++
			}
		}
		fmt.Fprintf(&b, "%s %d of %d valid (key %s)", ui.Info.Sprint("→"), valid, len(result.Documents), ui.Highlight.Sprint(result.Fingerprint))
		spinner.FinalMSG = b.String()
	}

	if !result.AllValid() {
		return reported(ErrVerificationFailed)
	}
	return nil
}
