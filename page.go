package intbtree

// PageView is a re-seatable cursor over a page: it caches the header
// fields (leaf flag, child count) for the page address it currently
// points at and invalidates that cache whenever the address changes, so
// a single view can be reused across a whole descent instead of
// allocating a fresh one per page. All reads and writes go through a
// PageCache, so repeated field access within one node operation costs no
// extra store round-trips.
type PageView struct {
	cache       *PageCache
	maxChildren int16

	address    int32
	leafKnown  bool
	leaf       bool
	ccKnown    bool
	childCount int16
}

// NewPageView returns a cursor seated at no particular address; call
// SetAddress before use.
func NewPageView(cache *PageCache, maxChildren int16) *PageView {
	return &PageView{cache: cache, maxChildren: maxChildren}
}

// SetAddress re-seats the cursor on a new page, invalidating the cached
// header fields.
func (v *PageView) SetAddress(address int32) {
	v.address = address
	v.leafKnown = false
	v.ccKnown = false
}

// Address returns the page address the cursor currently points at.
func (v *PageView) Address() int32 {
	return v.address
}

func (v *PageView) buffer() ([]byte, error) {
	return v.cache.Buffer(v.address)
}

// Flags returns the raw header flags byte.
func (v *PageView) Flags() (byte, error) {
	buf, err := v.buffer()
	if err != nil {
		return 0, err
	}
	return buf[0], nil
}

// SetFlags overwrites the header flags byte.
func (v *PageView) SetFlags(bits byte) error {
	buf, err := v.buffer()
	if err != nil {
		return err
	}
	buf[0] = bits
	v.leafKnown = true
	v.leaf = bits&leafFlag != 0
	return nil
}

// IsLeaf reports whether the low bit of the flags byte is set.
func (v *PageView) IsLeaf() (bool, error) {
	if v.leafKnown {
		return v.leaf, nil
	}
	flags, err := v.Flags()
	if err != nil {
		return false, err
	}
	if flags&^leafFlag != 0 {
		return false, newError(CorruptPage, "page header flags out of range")
	}
	v.leaf = flags&leafFlag != 0
	v.leafKnown = true
	return v.leaf, nil
}

// SetLeaf sets or clears the low bit of the flags byte, leaving the
// reserved bytes and any other bits untouched.
func (v *PageView) SetLeaf(leaf bool) error {
	flags, err := v.Flags()
	if err != nil {
		return err
	}
	if leaf {
		flags |= leafFlag
	} else {
		flags &^= leafFlag
	}
	return v.SetFlags(flags)
}

// ChildCount returns the big-endian 16-bit child count at header bytes 1-2.
func (v *PageView) ChildCount() (int16, error) {
	if v.ccKnown {
		return v.childCount, nil
	}
	buf, err := v.buffer()
	if err != nil {
		return 0, err
	}
	n := int16(uint16(buf[1])<<8 | uint16(buf[2]))
	if n < 0 || n > v.maxChildren {
		return 0, newError(CorruptPage, "child count out of range")
	}
	v.childCount = n
	v.ccKnown = true
	return n, nil
}

// SetChildCount writes the child count and updates the cached copy.
func (v *PageView) SetChildCount(n int16) error {
	buf, err := v.buffer()
	if err != nil {
		return err
	}
	buf[1] = byte(uint16(n) >> 8)
	buf[2] = byte(uint16(n))
	v.childCount = n
	v.ccKnown = true
	return nil
}

// IsFull reports whether the page cannot accept one more logical
// element: a leaf is full at child_count == max; an interior page is
// full one early, at child_count+1 == max, to account for the trailing
// child pointer an insertion would also need room for.
func (v *PageView) IsFull() (bool, error) {
	leaf, err := v.IsLeaf()
	if err != nil {
		return false, err
	}
	cc, err := v.ChildCount()
	if err != nil {
		return false, err
	}
	if leaf {
		return cc == v.maxChildren, nil
	}
	return cc+1 == v.maxChildren, nil
}

// entryOffset returns the byte offset of entry i within the page buffer.
func entryOffset(i int) int {
	return headerSize + i*entrySize
}

// AddressAt reads the address/value field of entry i.
func (v *PageView) AddressAt(i int) (int32, error) {
	buf, err := v.buffer()
	if err != nil {
		return 0, err
	}
	off := entryOffset(i)
	if off+4 > len(buf) {
		return 0, newError(CorruptPage, "entry index out of range")
	}
	return beInt32(buf[off : off+4]), nil
}

// SetAddressAt writes the address/value field of entry i.
func (v *PageView) SetAddressAt(i int, val int32) error {
	buf, err := v.buffer()
	if err != nil {
		return err
	}
	off := entryOffset(i)
	if off+4 > len(buf) {
		return newError(CorruptPage, "entry index out of range")
	}
	putBEInt32(buf[off:off+4], val)
	return nil
}

// KeyAt reads the key field of entry i.
func (v *PageView) KeyAt(i int) (int32, error) {
	buf, err := v.buffer()
	if err != nil {
		return 0, err
	}
	off := entryOffset(i) + 4
	if off+4 > len(buf) {
		return 0, newError(CorruptPage, "entry index out of range")
	}
	return beInt32(buf[off : off+4]), nil
}

// SetKeyAt writes the key field of entry i.
func (v *PageView) SetKeyAt(i int, val int32) error {
	buf, err := v.buffer()
	if err != nil {
		return err
	}
	off := entryOffset(i) + 4
	if off+4 > len(buf) {
		return newError(CorruptPage, "entry index out of range")
	}
	putBEInt32(buf[off:off+4], val)
	return nil
}

// CopyEntries moves count 8-byte entries from srcIndex to dstIndex within
// the page, using a scratch buffer so that overlapping source and
// destination ranges (shifting entries right to open a gap, or left to
// close one) are always safe.
func (v *PageView) CopyEntries(srcIndex, dstIndex, count int) error {
	if count == 0 {
		return nil
	}
	buf, err := v.buffer()
	if err != nil {
		return err
	}
	srcOff := entryOffset(srcIndex)
	dstOff := entryOffset(dstIndex)
	n := count * entrySize
	if srcOff+n > len(buf) || dstOff+n > len(buf) {
		return newError(CorruptPage, "entry copy out of range")
	}
	scratch := make([]byte, n)
	copy(scratch, buf[srcOff:srcOff+n])
	copy(buf[dstOff:dstOff+n], scratch)
	return nil
}

// Sync writes this page's buffer back to the store.
func (v *PageView) Sync() error {
	return v.cache.Writeback(v.address)
}

func beInt32(b []byte) int32 {
	return int32(uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3]))
}

func putBEInt32(b []byte, v int32) {
	u := uint32(v)
	b[0] = byte(u >> 24)
	b[1] = byte(u >> 16)
	b[2] = byte(u >> 8)
	b[3] = byte(u)
}
