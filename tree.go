package intbtree

// AllocatePage returns a fresh page address aligned to the tree's page
// size. Allocation is left to the caller; the tree only ever calls this
// callback, never decides where pages live.
type AllocatePage func() (int32, error)

// Tree is a persistent B+-tree mapping int32 keys to non-zero int32
// values over a ByteStore. It assumes exclusive single-threaded access
// for the duration of any Get/Put call; callers that share a tree across
// goroutines must serialize themselves (see the workerqueue package for
// one way to do that).
type Tree struct {
	pageSize    int
	maxChildren int16

	store      ByteStore
	cache      *PageCache
	allocPage  AllocatePage

	rootAddress      int32
	pageCount        int
	size             int
	maxStepsSearched int32
}

// NewTree constructs a Tree over an existing or freshly allocated root
// page. rootAddress must already contain a valid page: for a brand new
// database this means a zeroed page with the leaf flag set, which
// WriteEmptyLeafPage produces. rootAddress should not be 0: once the root
// splits it becomes a child, and a child stored as the negation of 0
// reads back as a zero pointer, which Get and Put report as CorruptPage.
// pageSize must yield a valid max_interior_children (see
// maxInteriorChildren).
func NewTree(pageSize int, store ByteStore, rootAddress int32, alloc AllocatePage) (*Tree, error) {
	if rootAddress%int32(pageSize) != 0 {
		return nil, newError(InvalidArgument, "root address is not page-aligned")
	}
	maxChildren, err := maxInteriorChildren(pageSize)
	if err != nil {
		return nil, err
	}
	t := &Tree{
		pageSize:    pageSize,
		maxChildren: maxChildren,
		store:       store,
		cache:       NewPageCache(store, pageSize),
		allocPage:   alloc,
		rootAddress: rootAddress,
		pageCount:   1,
	}
	return t, nil
}

// WriteEmptyLeafPage initializes address as an empty leaf page: the leaf
// flag set, child_count 0, reserved bytes zeroed. Callers use this to set
// up the initial root page before constructing a Tree over it. Pages
// handed out later by a page allocator are not written through here:
// BumpAllocator returns zeroed pages, and splitNode sets their leaf flag
// and child count itself.
func WriteEmptyLeafPage(store ByteStore, address int32, pageSize int) error {
	page := make([]byte, pageSize)
	page[0] = leafFlag
	return store.WriteAt(int64(address), page)
}

func (t *Tree) view() *PageView {
	return NewPageView(t.cache, t.maxChildren)
}

// PageSize returns the tree's fixed page size in bytes.
func (t *Tree) PageSize() int { return t.pageSize }

// MaxInteriorChildren returns the maximum number of children an interior
// page of this tree can hold.
func (t *Tree) MaxInteriorChildren() int16 { return t.maxChildren }

// RootAddress returns the current root page address.
func (t *Tree) RootAddress() int32 { return t.rootAddress }

// SetRootAddress overrides the root page address. Used internally when a
// split promotes a new root, and exposed for callers restoring a tree
// from a previously recorded root.
func (t *Tree) SetRootAddress(addr int32) { t.rootAddress = addr }

// PageCount returns the number of pages this tree has allocated,
// including the root.
func (t *Tree) PageCount() int { return t.pageCount }

// Size returns the number of distinct keys currently stored.
func (t *Tree) Size() int { return t.size }

// MaxStepsSearched returns the high-water mark of traversal depth seen so
// far. A split retry during descent decrements the step counter by one,
// so this is a non-decreasing lower bound on tree height plus splits
// retried, not an exact step count.
func (t *Tree) MaxStepsSearched() int32 { return t.maxStepsSearched }

// SetMaxStepsSearched overrides the counter. Exposed alongside the
// getter so callers restoring a tree can restore this too.
func (t *Tree) SetMaxStepsSearched(v int32) { t.maxStepsSearched = v }

func (t *Tree) nextPage() (int32, error) {
	addr, err := t.allocPage()
	if err != nil {
		return 0, wrapError(StorageIO, "allocate page", err)
	}
	if addr%int32(t.pageSize) != 0 {
		return 0, newError(CorruptPage, "allocator returned a misaligned address")
	}
	t.pageCount++
	return addr, nil
}

// Get returns the value stored for key, or Absent if key is not present.
func (t *Tree) Get(key int32) (int32, error) {
	cursor := t.view()
	cursor.SetAddress(t.rootAddress)
	pos, err := locate(t, cursor, key, false)
	if err != nil {
		return 0, err
	}
	if pos < 0 {
		return Absent, nil
	}
	return cursor.AddressAt(pos)
}

// Put inserts key with value, or overwrites the value if key is already
// present. value must be non-zero; 0 is the reserved ABSENT sentinel.
func (t *Tree) Put(key, value int32) error {
	if value == Absent {
		return ErrZeroValue
	}
	cursor := t.view()
	cursor.SetAddress(t.rootAddress)
	pos, err := locate(t, cursor, key, true)
	if err != nil {
		return err
	}
	if pos >= 0 {
		if err := cursor.SetAddressAt(pos, value); err != nil {
			return err
		}
		return cursor.Sync()
	}
	if err := insertLeaf(cursor, key, value, -pos-1); err != nil {
		return err
	}
	t.size++
	return nil
}

// Remove is not supported: pages are never freed once allocated, so
// there is no reclamation path to remove a key through.
func (t *Tree) Remove(key int32) error {
	return ErrUnsupported
}
