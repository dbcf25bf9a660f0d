package intbtree

import (
	"encoding/binary"
	"os"

	"github.com/dbcore/intbtree/mmap"
)

// ByteStore is the byte-addressable backing store the tree reads and
// writes pages through. The tree only ever asks it for bytes and
// big-endian 32-bit words at absolute offsets, never for anything
// tree-shaped.
type ByteStore interface {
	// ByteAt reads a single byte at offset.
	ByteAt(offset int64) (byte, error)
	// PutByteAt writes a single byte at offset.
	PutByteAt(offset int64, b byte) error
	// ReadAt copies length bytes starting at offset into a freshly
	// allocated slice.
	ReadAt(offset int64, length int) ([]byte, error)
	// WriteAt writes data at offset.
	WriteAt(offset int64, data []byte) error
	// Int32At reads a big-endian signed 32-bit word at offset.
	Int32At(offset int64) (int32, error)
	// PutInt32At writes a big-endian signed 32-bit word at offset.
	PutInt32At(offset int64, v int32) error
	// Sync flushes pending writes durably.
	Sync() error
}

// MappedFile is a ByteStore backed by a resizable memory-mapped file.
// Growth is handled by extending the file and remapping; the tree never
// sees this, it only calls Grow indirectly via the page allocator it was
// constructed with.
type MappedFile struct {
	file *os.File
	m    *mmap.Map
	path string
}

// OpenMappedFile opens a file, creating it if needed, extends it to at
// least initialSize bytes, and maps its first initialSize bytes
// read/write. A file already longer than initialSize is not shortened.
// initialSize must be a positive multiple of the tree's page size; the
// caller is responsible for that alignment.
func OpenMappedFile(path string, initialSize int64) (*MappedFile, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0644)
	if err != nil {
		return nil, wrapError(StorageIO, "open backing file", err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, wrapError(StorageIO, "stat backing file", err)
	}
	if info.Size() < initialSize {
		if err := f.Truncate(initialSize); err != nil {
			f.Close()
			return nil, wrapError(StorageIO, "truncate backing file", err)
		}
	}

	mm, err := mmap.New(int(f.Fd()), 0, int(initialSize), true)
	if err != nil {
		f.Close()
		return nil, wrapError(StorageIO, "mmap backing file", err)
	}
	_ = mm.AdviseRandom() // page access is a descent through scattered addresses, not sequential

	return &MappedFile{file: f, m: mm, path: path}, nil
}

// Grow extends the mapping (and the underlying file, if needed) so that
// offsets up to newSize-1 are addressable. It is intended to be called
// from a page-allocation callback right before handing out a fresh
// page address past the current end of the file.
func (s *MappedFile) Grow(newSize int64) error {
	if newSize <= s.m.Size() {
		return nil
	}
	if err := s.file.Truncate(newSize); err != nil {
		return wrapError(StorageIO, "extend backing file", err)
	}
	if err := s.m.Remap(newSize); err != nil {
		return wrapError(StorageIO, "remap backing file", err)
	}
	return nil
}

// Size returns the current mapped size in bytes.
func (s *MappedFile) Size() int64 {
	return s.m.Size()
}

// Close flushes and releases the mapping and the underlying file.
func (s *MappedFile) Close() error {
	syncErr := s.m.Sync()
	closeErr := s.m.Close()
	fileErr := s.file.Close()
	if syncErr != nil {
		return wrapError(StorageIO, "sync on close", syncErr)
	}
	if closeErr != nil {
		return wrapError(StorageIO, "unmap on close", closeErr)
	}
	if fileErr != nil {
		return wrapError(StorageIO, "close backing file", fileErr)
	}
	return nil
}

func (s *MappedFile) bounds(offset int64, length int) error {
	if offset < 0 || length < 0 || offset+int64(length) > s.m.Size() {
		return newError(StorageIO, "offset out of range")
	}
	return nil
}

func (s *MappedFile) ByteAt(offset int64) (byte, error) {
	if err := s.bounds(offset, 1); err != nil {
		return 0, err
	}
	return s.m.Data()[offset], nil
}

func (s *MappedFile) PutByteAt(offset int64, b byte) error {
	if err := s.bounds(offset, 1); err != nil {
		return err
	}
	s.m.Data()[offset] = b
	return nil
}

func (s *MappedFile) ReadAt(offset int64, length int) ([]byte, error) {
	if err := s.bounds(offset, length); err != nil {
		return nil, err
	}
	out := make([]byte, length)
	copy(out, s.m.Data()[offset:offset+int64(length)])
	return out, nil
}

func (s *MappedFile) WriteAt(offset int64, data []byte) error {
	if err := s.bounds(offset, len(data)); err != nil {
		return err
	}
	copy(s.m.Data()[offset:offset+int64(len(data))], data)
	return nil
}

func (s *MappedFile) Int32At(offset int64) (int32, error) {
	if err := s.bounds(offset, 4); err != nil {
		return 0, err
	}
	return int32(binary.BigEndian.Uint32(s.m.Data()[offset : offset+4])), nil
}

func (s *MappedFile) PutInt32At(offset int64, v int32) error {
	if err := s.bounds(offset, 4); err != nil {
		return err
	}
	binary.BigEndian.PutUint32(s.m.Data()[offset:offset+4], uint32(v))
	return nil
}

func (s *MappedFile) Sync() error {
	if err := s.m.Sync(); err != nil {
		return wrapError(StorageIO, "msync", err)
	}
	return nil
}

// MemStore is an in-memory ByteStore, useful for tests and for short-lived
// trees that never need to outlive the process. It grows its backing
// slice on demand rather than being bounded by an initial mmap size.
type MemStore struct {
	data []byte
}

// NewMemStore returns an empty in-memory store of the given initial size.
func NewMemStore(initialSize int) *MemStore {
	return &MemStore{data: make([]byte, initialSize)}
}

// Grow extends the backing slice so offsets up to newSize-1 are valid.
func (s *MemStore) Grow(newSize int) {
	if newSize <= len(s.data) {
		return
	}
	grown := make([]byte, newSize)
	copy(grown, s.data)
	s.data = grown
}

func (s *MemStore) bounds(offset int64, length int) error {
	if offset < 0 || length < 0 || offset+int64(length) > int64(len(s.data)) {
		return newError(StorageIO, "offset out of range")
	}
	return nil
}

func (s *MemStore) ByteAt(offset int64) (byte, error) {
	if err := s.bounds(offset, 1); err != nil {
		return 0, err
	}
	return s.data[offset], nil
}

func (s *MemStore) PutByteAt(offset int64, b byte) error {
	if err := s.bounds(offset, 1); err != nil {
		return err
	}
	s.data[offset] = b
	return nil
}

func (s *MemStore) ReadAt(offset int64, length int) ([]byte, error) {
	if err := s.bounds(offset, length); err != nil {
		return nil, err
	}
	out := make([]byte, length)
	copy(out, s.data[offset:offset+int64(length)])
	return out, nil
}

func (s *MemStore) WriteAt(offset int64, data []byte) error {
	if err := s.bounds(offset, len(data)); err != nil {
		return err
	}
	copy(s.data[offset:offset+int64(len(data))], data)
	return nil
}

func (s *MemStore) Int32At(offset int64) (int32, error) {
	if err := s.bounds(offset, 4); err != nil {
		return 0, err
	}
	return int32(binary.BigEndian.Uint32(s.data[offset : offset+4])), nil
}

func (s *MemStore) PutInt32At(offset int64, v int32) error {
	if err := s.bounds(offset, 4); err != nil {
		return err
	}
	binary.BigEndian.PutUint32(s.data[offset:offset+4], uint32(v))
	return nil
}

func (s *MemStore) Sync() error {
	return nil
}
