// Package intbtree is a persistent B+-tree mapping int32 keys to non-zero
// int32 values, stored as fixed-size pages over a byte-addressable store.
//
// Key properties:
//   - Single-threaded: a Tree assumes exclusive access for the duration of
//     any Get or Put call; see the workerqueue package for one way to
//     serialize concurrent callers onto a single tree.
//   - No deletion: Remove always returns ErrUnsupported.
//   - No write-ahead log or crash recovery: a torn write leaves the tree
//     in an undefined state.
//
// Basic usage:
//
//	tree, store, err := intbtree.CreateFile("index.db", 4096)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer store.Close()
//
//	if err := tree.Put(42, 100); err != nil {
//	    log.Fatal(err)
//	}
//
//	value, err := tree.Get(42)
//	if err != nil {
//	    log.Fatal(err)
//	}
package intbtree
