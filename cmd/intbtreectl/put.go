package main

import (
	"fmt"
	"log"
	"strconv"

	"github.com/spf13/cobra"
)

var putCmd = &cobra.Command{
	Use:   "put <file> <key> <value>",
	Short: "Insert or update a key in a tree file",
	Args:  cobra.ExactArgs(3),
	Run: func(cmd *cobra.Command, args []string) {
		key, err := strconv.ParseInt(args[1], 10, 32)
		if err != nil {
			log.Fatalf("invalid key %q: %v", args[1], err)
		}
		value, err := strconv.ParseInt(args[2], 10, 32)
		if err != nil {
			log.Fatalf("invalid value %q: %v", args[2], err)
		}

		tree, store, err := openOrCreate(args[0], pageSize)
		if err != nil {
			log.Fatalf("open %s: %v", args[0], err)
		}
		defer store.Close()

		if err := tree.Put(int32(key), int32(value)); err != nil {
			log.Fatalf("put(%d, %d): %v", key, value, err)
		}
		if err := store.Sync(); err != nil {
			log.Fatalf("sync: %v", err)
		}
		fmt.Printf("put %d -> %d\n", key, value)
	},
}
