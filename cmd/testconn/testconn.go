// Package testconn handles the provider connectivity check command.
package testconn

import (
	"fmt"

	"github.com/spf13/cobra"

	"fjacquet/stmt-extract/cmd/root"
	"fjacquet/stmt-extract/internal/logging"
)

// Cmd represents the testconn command
var Cmd = &cobra.Command{
	Use:   "testconn",
	Short: "Check connectivity to the configured LLM backend",
	Long: `Testconn sends a minimal prompt to the configured provider and reports
whether a response came back. Use it to verify API keys and network
access before running an extraction.`,
	RunE: testconnFunc,
}

func testconnFunc(cmd *cobra.Command, args []string) error {
	provider := root.App.GetProvider()
	root.Log.Info("Testing provider connection",
		logging.Field{Key: logging.FieldProvider, Value: provider.Name()},
		logging.Field{Key: logging.FieldModel, Value: root.App.GetConfig().ActiveProvider().Model})

	status := provider.TestConnection(cmd.Context())
	if !status.Success {
		return fmt.Errorf("connection test failed: %s", status.Error)
	}

	fmt.Printf("Connection to %s OK\n", provider.Name())
	return nil
}
