package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"fjacquet/stmt-extract/cmd/extract"
	"fjacquet/stmt-extract/cmd/root"
	"fjacquet/stmt-extract/cmd/sanitize"
	"fjacquet/stmt-extract/cmd/testconn"
)

func init() {
	// Load environment variables silently first, before any configuration
	// reads them.
	loadEnvSilently()

	root.Init()

	root.Cmd.AddCommand(extract.Cmd)
	root.Cmd.AddCommand(sanitize.Cmd)
	root.Cmd.AddCommand(testconn.Cmd)
}

// loadEnvSilently loads environment variables without logging anything
func loadEnvSilently() {
	// Try to find .env file in current directory
	envFile := ".env"
	if _, err := os.Stat(envFile); os.IsNotExist(err) {
		// Try to find .env in parent directory (project root)
		envFile = filepath.Join("..", ".env")
		if _, err := os.Stat(envFile); os.IsNotExist(err) {
			return
		}
	}

	_ = godotenv.Load(envFile)
}

func main() {
	if err := root.Cmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
