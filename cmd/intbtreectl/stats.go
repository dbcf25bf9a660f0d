package main

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats <file>",
	Short: "Print page and search statistics for a tree file",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		tree, store, err := openOrCreate(args[0], pageSize)
		if err != nil {
			log.Fatalf("open %s: %v", args[0], err)
		}
		defer store.Close()

		fmt.Printf("page_size:            %d\n", tree.PageSize())
		fmt.Printf("max_interior_children: %d\n", tree.MaxInteriorChildren())
		fmt.Printf("root_address:         %d\n", tree.RootAddress())
		fmt.Printf("page_count:           %d\n", tree.PageCount())
		fmt.Printf("size:                 %d\n", tree.Size())
		fmt.Printf("max_steps_searched:   %d\n", tree.MaxStepsSearched())
		fmt.Printf("file_size_bytes:      %d\n", store.Size())
	},
}
