package main

import (
	"os"

	"github.com/dbcore/intbtree"
)

// openOrCreate opens path as a tree if it already exists, or creates a
// fresh one at the given page size otherwise.
//
// The tree package does not persist root address or bookkeeping counters
// across process restarts (see intbtree.OpenFile's doc comment); a real
// embedding would record these in a superblock of its own. This tool
// keeps things simple: intbtree.CreateFile places a fresh file's root at
// address pageSize, and existing files are reopened at that same address.
func openOrCreate(path string, pageSize int) (*intbtree.Tree, *intbtree.MappedFile, error) {
	if _, err := os.Stat(path); err == nil {
		return intbtree.OpenFile(path, pageSize, int32(pageSize))
	}
	return intbtree.CreateFile(path, pageSize)
}
