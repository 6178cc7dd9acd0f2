// Package sanitize handles the standalone sanitization audit command.
package sanitize

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"fjacquet/stmt-extract/cmd/root"
	"fjacquet/stmt-extract/internal/logging"
	"fjacquet/stmt-extract/internal/sanitize"
)

var showDetections bool

// Cmd represents the sanitize command
var Cmd = &cobra.Command{
	Use:   "sanitize",
	Short: "Mask personal data in statement text",
	Long: `Sanitize masks account numbers, card numbers, contact details and other
personal data in statement text, using the same rules the extraction
pipeline applies before any text is sent to an LLM backend. Useful for
auditing what would leave the machine.`,
	RunE: sanitizeFunc,
}

func init() {
	Cmd.Flags().BoolVar(&showDetections, "detections", false, "List each detection with its position")
}

func sanitizeFunc(cmd *cobra.Command, args []string) error {
	if root.SharedFlags.Input == "" {
		return fmt.Errorf("--input is required")
	}

	data, err := os.ReadFile(root.SharedFlags.Input)
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	result := sanitize.Sanitize(string(data), root.App.GetConfig().SanitizeConfig())

	if root.SharedFlags.Output == "" {
		fmt.Print(result.SanitizedText)
	} else {
		if err := os.WriteFile(root.SharedFlags.Output, []byte(result.SanitizedText), 0o600); err != nil {
			return fmt.Errorf("writing output: %w", err)
		}
	}

	printReport(result)

	root.Log.Info("Sanitization completed",
		logging.Field{Key: logging.FieldInputFile, Value: root.SharedFlags.Input},
		logging.Field{Key: logging.FieldDetections, Value: len(result.Detections)})
	return nil
}

// printReport writes the audit summary to stderr so the sanitized text on
// stdout stays pipeable.
func printReport(result sanitize.Result) {
	fmt.Fprintf(os.Stderr, "\nSanitization report: %d detection(s)\n", len(result.Detections))

	categories := make([]string, 0, len(result.Summary))
	for category := range result.Summary {
		categories = append(categories, category)
	}
	sort.Strings(categories)
	for _, category := range categories {
		fmt.Fprintf(os.Stderr, "  %-15s %d\n", category, result.Summary[category])
	}

	if showDetections {
		for _, d := range result.Detections {
			fmt.Fprintf(os.Stderr, "  [%s] at %d -> %s\n", d.Type, d.Position, d.Masked)
		}
	}
}
