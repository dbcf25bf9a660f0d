package intbtree

// PageCache maps a page address to an owned byte buffer, pulling pages
// from the ByteStore on first access and writing them back on Writeback.
// It exists so that node operations can do many small reads/writes against
// a pinned buffer instead of crossing the ByteStore API per field.
//
// The cache is unbounded and single-threaded: it never evicts, and
// callers sharing a tree across goroutines must serialize access
// themselves.
type PageCache struct {
	store    ByteStore
	pageSize int
	buffers  map[int32][]byte
}

// NewPageCache constructs an empty cache over store.
func NewPageCache(store ByteStore, pageSize int) *PageCache {
	return &PageCache{
		store:    store,
		pageSize: pageSize,
		buffers:  make(map[int32][]byte),
	}
}

// Buffer returns the owned buffer for address, pulling it from the store
// on first access. The returned slice is the cache's own backing array;
// callers may mutate it in place and later call Writeback to persist it.
func (c *PageCache) Buffer(address int32) ([]byte, error) {
	if buf, ok := c.buffers[address]; ok {
		return buf, nil
	}
	buf, err := c.store.ReadAt(int64(address), c.pageSize)
	if err != nil {
		return nil, wrapError(StorageIO, "read page", err)
	}
	c.buffers[address] = buf
	return buf, nil
}

// Writeback flushes the cached buffer for address to the store. It is a
// no-op if the page was never pulled into the cache.
func (c *PageCache) Writeback(address int32) error {
	buf, ok := c.buffers[address]
	if !ok {
		return nil
	}
	if err := c.store.WriteAt(int64(address), buf); err != nil {
		return wrapError(StorageIO, "writeback page", err)
	}
	return nil
}
