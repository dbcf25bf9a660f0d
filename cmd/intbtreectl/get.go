package main

import (
	"fmt"
	"log"
	"strconv"

	"github.com/dbcore/intbtree"
	"github.com/spf13/cobra"
)

var getCmd = &cobra.Command{
	Use:   "get <file> <key>",
	Short: "Look up a key in a tree file",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		key, err := strconv.ParseInt(args[1], 10, 32)
		if err != nil {
			log.Fatalf("invalid key %q: %v", args[1], err)
		}

		tree, store, err := openOrCreate(args[0], pageSize)
		if err != nil {
			log.Fatalf("open %s: %v", args[0], err)
		}
		defer store.Close()

		value, err := tree.Get(int32(key))
		if err != nil {
			log.Fatalf("get(%d): %v", key, err)
		}
		if value == intbtree.Absent {
			fmt.Printf("%d: absent\n", key)
			return
		}
		fmt.Printf("%d: %d\n", key, value)
	},
}
