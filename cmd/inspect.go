package cmd

import (
	"context"
	"encoding/hex"
	"fmt"

	"github.com/PolarWolf314/pinsign/internal/ui"
	"github.com/PolarWolf314/pinsign/internal/workflows"
	"github.com/spf13/cobra"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect DOCUMENT",
	Short: "Show the signature block of a document without verifying it",
	Args:  cobra.ExactArgs(1),
	RunE:  runInspect,
}

func runInspect(cmd *cobra.Command, args []string) error {
	Logger.Infof("Starting inspect command")

	result, err := workflows.Inspect(context.Background(), args[0])
	if err != nil {
		fmt.Println(formatError(err))
		return reported(err)
	}

	c := result.Container
	sig := hex.EncodeToString(c.Contents)
	if len(sig) > 32 {
		sig = sig[:16] + "…" + sig[len(sig)-16:]
	}

	fmt.Printf("Document:   %s\n", ui.Path.Sprint(result.Path))
	fmt.Printf("Type:       %s\n", c.Type)
	fmt.Printf("Filter:     %s\n", c.Filter)
	fmt.Printf("SubFilter:  %s\n", c.SubFilter)
	fmt.Printf("ByteRange:  [%d %d %d %d]\n", c.ByteRange[0], c.ByteRange[1], c.ByteRange[2], c.ByteRange[3])
	fmt.Printf("Signature:  %d bytes %s\n", len(c.Contents), ui.Muted.Sprint(sig))
	fmt.Printf("Offset:     %d-%d\n", result.Span.Start, result.Span.End)

	if !result.ByteRangeMatches() {
		fmt.Println(ui.Warning.Sprint("⚠") + fmt.Sprintf(" ByteRange does not match the %d bytes before the signature block", result.DocumentLength))
	}
	return nil
}
