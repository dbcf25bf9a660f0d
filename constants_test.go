package intbtree

import "testing"

func TestMaxInteriorChildrenSmallPageSizes(t *testing.T) {
	cases := []struct {
		pageSize int
		want     int16
	}{
		{32, 2},
		{48, 4},
		{128, 14},
	}
	for _, c := range cases {
		got, err := maxInteriorChildren(c.pageSize)
		if err != nil {
			t.Fatalf("maxInteriorChildren(%d): %v", c.pageSize, err)
		}
		if got != c.want {
			t.Fatalf("maxInteriorChildren(%d) = %d, want %d", c.pageSize, got, c.want)
		}
	}
}

func TestMaxInteriorChildrenRejectsTooSmall(t *testing.T) {
	for _, pageSize := range []int{0, -1, 8, 16, 24} {
		if _, err := maxInteriorChildren(pageSize); err == nil {
			t.Fatalf("maxInteriorChildren(%d) succeeded, want an error", pageSize)
		}
	}
}

func TestMaxInteriorChildrenRejectsTooLarge(t *testing.T) {
	if _, err := maxInteriorChildren(maxPageSize + 8); err == nil {
		t.Fatal("maxInteriorChildren(maxPageSize+8) succeeded, want an error")
	}
}

func TestOpenMemAcceptsSmallPageSize(t *testing.T) {
	tree := mustOpenMem(t, 32)
	if got := tree.MaxInteriorChildren(); got != 2 {
		t.Fatalf("MaxInteriorChildren = %d, want 2", got)
	}
	if err := tree.Put(1, 10); err != nil {
		t.Fatalf("Put: %v", err)
	}
	v, err := tree.Get(1)
	if err != nil || v != 10 {
		t.Fatalf("Get(1) = %d, %v, want 10, nil", v, err)
	}
}
