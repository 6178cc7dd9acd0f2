// Package extract handles the statement extraction command.
package extract

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/spf13/cobra"

	"fjacquet/stmt-extract/cmd/root"
	"fjacquet/stmt-extract/internal/logging"
	"fjacquet/stmt-extract/internal/models"
)

var (
	format     string
	categories []string
	pagesOut   string
)

// Cmd represents the extract command
var Cmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract transactions from statement text",
	Long: `Extract reads one or more pages of bank statement text, sends each page
through the configured LLM backend, and writes the deduplicated,
balance-reconciled transactions as CSV or JSON.

The input is either a single text file (pages separated by form feeds) or a
directory whose files are processed in name order, one page each.`,
	RunE: extractFunc,
}

func init() {
	Cmd.Flags().StringVarP(&format, "format", "f", "csv", "Output format: csv or json")
	Cmd.Flags().StringSliceVarP(&categories, "categories", "c", nil, "Restrict categories to this comma-separated set")
	Cmd.Flags().StringVar(&pagesOut, "pages", "", "Also write per-page results as JSON to this file")
}

func extractFunc(cmd *cobra.Command, args []string) error {
	if root.SharedFlags.Input == "" {
		return fmt.Errorf("--input is required")
	}
	if format != "csv" && format != "json" {
		return fmt.Errorf("unknown output format: %s (must be 'csv' or 'json')", format)
	}

	pages, err := loadPages(root.SharedFlags.Input)
	if err != nil {
		return err
	}
	root.Log.Info("Loaded statement pages",
		logging.Field{Key: logging.FieldInputFile, Value: root.SharedFlags.Input},
		logging.Field{Key: logging.FieldTotalPages, Value: len(pages)})

	ctx := cmd.Context()

	if root.SharedFlags.Validate {
		check, err := root.App.GetProvider().ValidateDocument(ctx, pages[0])
		if err != nil {
			return fmt.Errorf("document validation failed: %w", err)
		}
		root.Log.Info("Document validated",
			logging.Field{Key: "document_type", Value: check.DocumentType},
			logging.Field{Key: "confidence", Value: check.Confidence})
		if !check.IsBankStatement {
			return fmt.Errorf("input does not look like a bank statement (detected: %s, confidence %d)",
				check.DocumentType, check.Confidence)
		}
	}

	userCategories := make([]models.UserCategory, 0, len(categories))
	for _, name := range categories {
		if name = strings.TrimSpace(name); name != "" {
			userCategories = append(userCategories, models.UserCategory{Name: name})
		}
	}

	statement, pageResults, err := root.App.GetExtractor().ExtractStatement(ctx, pages, userCategories)
	if err != nil {
		return err
	}

	if pagesOut != "" {
		if err := writeJSON(pagesOut, pageResults); err != nil {
			return fmt.Errorf("writing page results: %w", err)
		}
	}

	if err := writeStatement(root.SharedFlags.Output, statement); err != nil {
		return err
	}

	root.Log.Info("Extraction completed successfully!",
		logging.Field{Key: logging.FieldOutputFile, Value: root.SharedFlags.Output},
		logging.Field{Key: logging.FieldCount, Value: len(statement.Transactions)},
		logging.Field{Key: "pages_processed", Value: statement.PagesProcessed},
		logging.Field{Key: "input_tokens", Value: statement.TotalInputTokens},
		logging.Field{Key: "output_tokens", Value: statement.TotalOutputTokens})
	return nil
}

// loadPages reads the statement pages. A directory yields one page per file
// in name order; a file is split on form feeds.
func loadPages(input string) ([]string, error) {
	info, err := os.Stat(input)
	if err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}

	var pages []string
	if info.IsDir() {
		entries, err := os.ReadDir(input)
		if err != nil {
			return nil, fmt.Errorf("reading input directory: %w", err)
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			data, err := os.ReadFile(filepath.Join(input, entry.Name()))
			if err != nil {
				return nil, fmt.Errorf("reading page %s: %w", entry.Name(), err)
			}
			pages = append(pages, string(data))
		}
	} else {
		data, err := os.ReadFile(input)
		if err != nil {
			return nil, fmt.Errorf("reading input: %w", err)
		}
		pages = strings.Split(string(data), "\f")
	}

	// Drop blank pages (trailing form feeds, empty files).
	filtered := pages[:0]
	for _, p := range pages {
		if strings.TrimSpace(p) != "" {
			filtered = append(filtered, p)
		}
	}
	if len(filtered) == 0 {
		return nil, fmt.Errorf("input contains no statement text")
	}
	return filtered, nil
}

func writeStatement(output string, statement *models.AggregatedStatement) error {
	if format == "json" {
		return writeJSON(output, statement)
	}
	return writeCSV(output, statement.Transactions)
}

func writeCSV(output string, transactions []models.Transaction) error {
	rows := make([]*models.Transaction, len(transactions))
	for i := range transactions {
		rows[i] = &transactions[i]
	}

	if output == "" {
		return gocsv.Marshal(rows, os.Stdout)
	}
	f, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer f.Close()
	return gocsv.Marshal(rows, f)
}

func writeJSON(output string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')

	if output == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(output, data, 0o644)
}
