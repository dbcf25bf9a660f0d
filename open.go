package intbtree

import "os"

const rootAddress int32 = 0

func statSize(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

// OpenMem creates a fresh, empty tree backed by an in-memory store. It is
// the quickest way to get a Tree for tests or short-lived callers that
// never need a file on disk.
//
// The root page starts one page in, at address pageSize; page 0 is left
// unused. Child pointers are stored as negated addresses, so a page at
// address 0 could not be referenced as a child once the root splits.
func OpenMem(pageSize int) (*Tree, *MemStore, error) {
	root := int32(pageSize)
	store := NewMemStore(2 * pageSize)
	if err := WriteEmptyLeafPage(store, root, pageSize); err != nil {
		return nil, nil, err
	}
	alloc := NewMemAllocator(store, root, int32(pageSize))
	t, err := NewTree(pageSize, store, root, alloc.Allocate)
	if err != nil {
		return nil, nil, err
	}
	return t, store, nil
}

// CreateFile creates a new tree backed by a file at path, truncating any
// existing contents. The returned MappedFile must be closed by the caller
// once the tree is no longer needed. As with OpenMem, the root page starts
// at address pageSize and page 0 is left unused.
func CreateFile(path string, pageSize int) (*Tree, *MappedFile, error) {
	if err := os.Truncate(path, 0); err != nil && !os.IsNotExist(err) {
		return nil, nil, wrapError(StorageIO, "truncate backing file", err)
	}
	root := int32(pageSize)
	store, err := OpenMappedFile(path, 2*int64(pageSize))
	if err != nil {
		return nil, nil, err
	}
	if err := WriteEmptyLeafPage(store, root, pageSize); err != nil {
		store.Close()
		return nil, nil, err
	}
	alloc := NewMappedFileAllocator(store, root, int32(pageSize))
	t, err := NewTree(pageSize, store, root, alloc.Allocate)
	if err != nil {
		store.Close()
		return nil, nil, err
	}
	return t, store, nil
}

// OpenFile reopens a tree previously created with CreateFile.
// rootAddress and the tree's bookkeeping counters (page_count, size) are
// not persisted by this package: the caller is expected to track those
// across process restarts and pass the recorded root address back in,
// replaying size bookkeeping itself if it needs an accurate count. Page
// count starts back at 1 here and grows again as new pages are
// allocated past the file's current extent.
func OpenFile(path string, pageSize int, rootAddr int32) (*Tree, *MappedFile, error) {
	info, err := statSize(path)
	if err != nil {
		return nil, nil, wrapError(StorageIO, "stat backing file", err)
	}
	store, err := OpenMappedFile(path, info)
	if err != nil {
		return nil, nil, err
	}
	alloc := NewBumpAllocator(rootAddr, int32(pageSize), store.Grow)
	alloc.next = int32(info) // resume allocation past the current file extent
	t, err := NewTree(pageSize, store, rootAddr, alloc.Allocate)
	if err != nil {
		store.Close()
		return nil, nil, err
	}
	return t, store, nil
}
