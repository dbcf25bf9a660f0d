// Command intbtreectl is a small inspection and scratch-testing tool for
// file-backed int32->int32 trees, in the same cobra-root-command shape as
// NutellaDB's dbcli: a RootCmd, an Execute entry point, and one subcommand
// per operation.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var pageSize int

var rootCmd = &cobra.Command{
	Use:   "intbtreectl",
	Short: "Inspect and exercise a file-backed int32 B+-tree",
	Long:  "A command-line tool for creating, querying, and exercising the file-backed int32->int32 B+-tree.",
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "intbtreectl: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().IntVar(&pageSize, "page-size", 4096, "page size in bytes for newly created trees")
	rootCmd.AddCommand(putCmd)
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(demoCmd)
}
