package intbtree

// Absent is the sentinel value returned by Get for a key that is not
// present. It can never be stored as a value: Put rejects 0.
const Absent int32 = 0

// headerSize is the fixed page header: 1 byte flags, 2 bytes child count,
// 5 reserved bytes.
const headerSize = 8

// entrySize is the width of one packed (address, key) record.
const entrySize = 8

// leafFlag is the low bit of the header flags byte.
const leafFlag byte = 0x1

// maxPageSize bounds page_size from above so that the header-offset
// arithmetic below cannot overflow int. There is no separate lower bound:
// any page size for which the arithmetic below comes out even, positive,
// and within int16 range is accepted, and that already holds for page
// sizes as small as 32 (max_interior_children=2).
const maxPageSize = 1 << 20

// maxInteriorChildren computes the maximum number of children an interior
// page of the given size can hold: ((page_size - headerSize) / entrySize)
// - 1, rounded down to the nearest even value. The result must be even,
// positive, and fit in an int16.
func maxInteriorChildren(pageSize int) (int16, error) {
	if pageSize <= 0 || pageSize > maxPageSize {
		return 0, newError(InvalidArgument, "page size out of range")
	}
	n := (pageSize-headerSize)/entrySize - 1
	if n%2 != 0 {
		n--
	}
	if n <= 0 || n > 32767 {
		return 0, newError(InvalidArgument, "page size yields an invalid max_interior_children")
	}
	return int16(n), nil
}
