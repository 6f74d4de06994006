package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/PolarWolf314/pinsign/internal/audit"
	kerrors "github.com/PolarWolf314/pinsign/internal/errors"
	"github.com/PolarWolf314/pinsign/internal/ui"
	"github.com/PolarWolf314/pinsign/internal/workflows"
	"github.com/spf13/cobra"
)

var (
	logLimit     int
	logReverse   bool
	logOperation string
	logDocument  string
	logSince     string
	logUntil     string
	logJSON      bool
)

func init() {
	logCmd.Flags().IntVarP(&logLimit, "number", "n", 0, "limit number of entries shown")
	logCmd.Flags().BoolVar(&logReverse, "reverse", false, "show most recent entries first")
	logCmd.Flags().StringVar(&logOperation, "operation", "", "filter by operation (generate, sign, verify; comma-separated)")
	logCmd.Flags().StringVar(&logDocument, "document", "", "filter by document path substring")
	logCmd.Flags().StringVar(&logSince, "since", "", "show entries on or after date (YYYY-MM-DD)")
	logCmd.Flags().StringVar(&logUntil, "until", "", "show entries on or before date (YYYY-MM-DD)")
	logCmd.Flags().BoolVar(&logJSON, "json", false, "output as JSON array")
}

// resetLogCommandState resets the log command's global state for testing.
func resetLogCommandState() {
	logLimit = 0
	logReverse = false
	logOperation = ""
	logDocument = ""
	logSince = ""
	logUntil = ""
	logJSON = false
}

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "View the audit log",
	Long: `Displays the audit log of key generation, signing and verification.

Examples:
  pinsign log                       # Full log
  pinsign log -n 10                 # Last 10 entries
  pinsign log --reverse             # Most recent first
  pinsign log --operation sign      # Only signing
  pinsign log --document contract   # Entries about a document
  pinsign log --since 2026-01-01    # Filter by date
  pinsign log --json                # JSON output`,
	Args: cobra.NoArgs,
	RunE: runLog,
}

func runLog(cmd *cobra.Command, args []string) error {
	Logger.Infof("Starting log command")

	result, err := workflows.Log(context.Background(), workflows.LogOptions{
		Limit:      logLimit,
		Reverse:    logReverse,
		Operations: logOperation,
		Document:   logDocument,
		Since:      logSince,
		Until:      logUntil,
	})
	if err != nil {
		if errors.Is(err, kerrors.ErrNoFilesFound) {
			fmt.Println(ui.Info.Sprint("ℹ") + " No audit log found. Operations are logged once you generate, sign or verify.")
			return nil
		}
		fmt.Println(formatError(err))
		return reported(err)
	}

	Logger.Debugf("Parsed %d entries, %d after filtering", result.TotalEntriesBeforeFilter, len(result.Entries))

	if len(result.Entries) == 0 {
		if result.TotalEntriesBeforeFilter == 0 {
			fmt.Println("No audit log entries found.")
		} else {
			fmt.Println("No audit log entries found matching the filters.")
		}
		return nil
	}

	if logJSON {
		return outputLogJSON(result.Entries)
	}

	for _, e := range result.Entries {
		fmt.Printf("%-19s  %-24s  %-8s  %s\n", workflows.FormatDateTime(e.Timestamp), e.User, e.Operation, workflows.FormatDetails(e))
	}
	return nil
}

func outputLogJSON(entries []audit.Entry) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return Logger.ErrorfAndReturn("failed to marshal entries to JSON: %w", err)
	}
	fmt.Println(string(data))
	return nil
}
