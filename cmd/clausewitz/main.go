package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Version information - set at build time via -ldflags.
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "clausewitz",
		Short: "Lexer and filtered parser for Paradox/Clausewitz config text",
		Long: `clausewitz reads game save files, localization tables, and other
Paradox/Clausewitz-format text and converts it to JSON, applying a
filter tree to skip uninteresting keys without allocating them.`,
	}

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(parseCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
