// Package root contains the root command for the application
package root

import (
	"fmt"

	"github.com/spf13/cobra"

	"fjacquet/stmt-extract/internal/config"
	"fjacquet/stmt-extract/internal/container"
	"fjacquet/stmt-extract/internal/logging"
)

// CommonFlags represents the flags that are common to multiple commands
type CommonFlags struct {
	Input    string
	Output   string
	Validate bool
}

var (
	// Log is the shared logger instance for commands. It is replaced with the
	// configured logger in PersistentPreRunE; the no-op default keeps early
	// failures quiet rather than panicking.
	Log logging.Logger = logging.Nop{}

	// App holds the wired application dependencies, available to subcommands
	// after PersistentPreRunE has run.
	App *container.Container

	// SharedFlags are the flags common to multiple commands.
	SharedFlags = CommonFlags{}

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "stmt-extract",
		Short: "Extract structured transactions from bank statement text using LLM backends.",
		Long: `stmt-extract turns raw bank statement text into structured, categorized
transactions. Statement pages are sanitized of personal data, sent to a
configurable LLM backend (Gemini, OpenAI, DeepSeek or Groq), and the
responses are validated, deduplicated across pages and reconciled against
running balances.`,
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Welcome to stmt-extract!")
			Log.Info("Use --help to see available commands")
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.InitializeConfig()
			if err != nil {
				return fmt.Errorf("loading configuration: %w", err)
			}

			App, err = container.NewContainer(cfg)
			if err != nil {
				return err
			}
			Log = App.GetLogger()
			return nil
		},
	}
)

// Init initializes the root command and all flags
func Init() {
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Input, "input", "i", "", "Input file or directory of page files")
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Output, "output", "o", "", "Output file")
	Cmd.PersistentFlags().BoolVarP(&SharedFlags.Validate, "validate", "v", false, "Check that the input looks like a bank statement before extracting")
}
