package intbtree

// BumpAllocator is a minimal page allocator: each call hands out the next
// page-aligned address past the end of the store, growing the backing
// store first so the new page's bytes start zeroed. The tree never
// allocates pages itself; it only calls the AllocatePage callback this
// provides.
//
// It never reclaims space: with no deletion, pages are never freed, so
// there is nothing to recycle.
type BumpAllocator struct {
	pageSize int32
	next     int32
	grow     func(newSize int64) error
}

// NewBumpAllocator returns an allocator starting at startAddress (which
// must already be backed by the store, typically the root page) and
// handing out pages of pageSize bytes. grow is called with the new
// required store size before each address past the initial one is
// returned.
func NewBumpAllocator(startAddress int32, pageSize int32, grow func(newSize int64) error) *BumpAllocator {
	return &BumpAllocator{
		pageSize: pageSize,
		next:     startAddress + pageSize,
		grow:     grow,
	}
}

// Allocate implements AllocatePage.
func (a *BumpAllocator) Allocate() (int32, error) {
	addr := a.next
	if a.grow != nil {
		if err := a.grow(int64(addr) + int64(a.pageSize)); err != nil {
			return 0, err
		}
	}
	a.next += a.pageSize
	return addr, nil
}

// NewMemAllocator builds a BumpAllocator over a MemStore, so tests and
// short-lived trees can allocate pages without wiring up a real file.
func NewMemAllocator(store *MemStore, startAddress, pageSize int32) *BumpAllocator {
	return NewBumpAllocator(startAddress, pageSize, func(newSize int64) error {
		store.Grow(int(newSize))
		return nil
	})
}

// NewMappedFileAllocator builds a BumpAllocator over a MappedFile.
func NewMappedFileAllocator(store *MappedFile, startAddress, pageSize int32) *BumpAllocator {
	return NewBumpAllocator(startAddress, pageSize, store.Grow)
}
