package main

import (
	"fmt"
	"os"

	"github.com/clearnote-ai/clearnoteai/internal/cli"
	"github.com/clearnote-ai/clearnoteai/internal/cli/admin"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "clearnoted",
		Short: "Clearnote daemon",
		Long:  "Clearnote daemon for running the document indexing and search API server",
	}

	cli.AddHelpJSONFlag(rootCmd)
	rootCmd.AddCommand(admin.ServeCmd())

	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	cli.CheckHelpJSON(rootCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
