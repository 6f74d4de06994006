package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/PolarWolf314/pinsign/internal/ui"
	"github.com/PolarWolf314/pinsign/internal/workflows"
	"github.com/spf13/cobra"
)

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List removable media and the keys they carry",
	Long: `Lists mounted removable volumes and shows which key files each one holds.

The mount point prefixes that count as removable are configured under
[devices] in the configuration file.

Examples:
  pinsign devices`,
	Args: cobra.NoArgs,
	RunE: runDevices,
}

func runDevices(cmd *cobra.Command, args []string) error {
	Logger.Infof("Starting devices command")

	spinner, cleanup := startSpinner("Scanning removable media...")
	defer cleanup()

	statuses, err := workflows.ListDevices(context.Background())
	if err != nil {
		spinner.FinalMSG = formatError(err)
		return reported(err)
	}

	if len(statuses) == 0 {
		spinner.FinalMSG = ui.Warning.Sprint("⚠") + " No removable media detected"
		return nil
	}

	var b strings.Builder
	for i, s := range statuses {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%s  %s %s\n", ui.Highlight.Sprint(s.Name), ui.Path.Sprint(s.MountPoint), ui.Muted.Sprint(s.FSType))
		if s.TotalBytes > 0 {
			fmt.Fprintf(&b, "    %s free of %s\n", ui.Bytes(s.FreeBytes), ui.Bytes(s.TotalBytes))
		}
		fmt.Fprintf(&b, "    Private key: %s\n", pathOrMissing(s.Keys.PrivateKey))
		fmt.Fprintf(&b, "    Public key:  %s", pathOrMissing(s.Keys.PublicKey))
	}
	spinner.FinalMSG = b.String()
	return nil
}
