package intbtree

import (
	"os"
	"path/filepath"
	"testing"
)

// TestCreateFileThenOpenFileRoundTrip writes pages through the store,
// reopens with the same recorded root address, and confirms every
// previously inserted key still resolves correctly.
func TestCreateFileThenOpenFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tree.db")

	tree, store, err := CreateFile(path, 128)
	if err != nil {
		t.Fatalf("CreateFile: %v", err)
	}

	values := make(map[int32]int32, 200)
	for i := int32(1); i <= 200; i++ {
		v := i * 7
		values[i] = v
		if err := tree.Put(i, v); err != nil {
			t.Fatalf("Put(%d, %d): %v", i, v, err)
		}
	}
	root := tree.RootAddress()

	if err := store.Sync(); err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, reopenedStore, err := OpenFile(path, 128, root)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	defer reopenedStore.Close()

	for key, want := range values {
		got, err := reopened.Get(key)
		if err != nil {
			t.Fatalf("Get(%d) after reopen: %v", key, err)
		}
		if got != want {
			t.Fatalf("Get(%d) after reopen = %d, want %d", key, got, want)
		}
	}
}

// TestCreateFileThenOpenFileMissingFile confirms OpenFile surfaces a
// StorageIO error rather than silently creating an empty tree when asked
// to reopen a path that was never created.
func TestCreateFileThenOpenFileMissingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "missing.db")

	if _, err := os.Stat(path); err == nil {
		t.Fatal("expected path not to exist")
	}
	_, _, err := OpenFile(path, 128, 128)
	if err == nil {
		t.Fatal("OpenFile on a missing file succeeded, want an error")
	}
	var e *Error
	if !asError(err, &e) || e.Code != StorageIO {
		t.Fatalf("OpenFile error = %v, want StorageIO", err)
	}
}

// TestReopenSameStoreAndRoot exercises the same "reopen with same root"
// semantics as TestCreateFileThenOpenFileRoundTrip but over a MemStore,
// so the round trip is checked without touching the filesystem: a second
// *Tree is constructed directly over the same store and root address a
// first tree already wrote through.
func TestReopenSameStoreAndRoot(t *testing.T) {
	const pageSize = 128
	// The first root sits one page in, as OpenMem places it, so that no
	// child pointer ever has to refer to page 0.
	const firstRoot int32 = pageSize
	store := NewMemStore(2 * pageSize)
	if err := WriteEmptyLeafPage(store, firstRoot, pageSize); err != nil {
		t.Fatalf("WriteEmptyLeafPage: %v", err)
	}
	alloc := NewMemAllocator(store, firstRoot, int32(pageSize))

	first, err := NewTree(pageSize, store, firstRoot, alloc.Allocate)
	if err != nil {
		t.Fatalf("NewTree: %v", err)
	}

	values := make(map[int32]int32, 100)
	for i := int32(1); i <= 100; i++ {
		v := i * 3
		values[i] = v
		if err := first.Put(i, v); err != nil {
			t.Fatalf("Put(%d, %d): %v", i, v, err)
		}
	}
	root := first.RootAddress()

	second, err := NewTree(pageSize, store, root, alloc.Allocate)
	if err != nil {
		t.Fatalf("NewTree (reopen): %v", err)
	}
	for key, want := range values {
		got, err := second.Get(key)
		if err != nil {
			t.Fatalf("Get(%d) on reopened tree: %v", key, err)
		}
		if got != want {
			t.Fatalf("Get(%d) on reopened tree = %d, want %d", key, got, want)
		}
	}
}
