package intbtree

// binarySearch performs a standard lower-bound binary search for key over
// a node's entries 0..child_count-1. It returns the non-negative index
// of an exact match, or -(insertion_point+1) when key is absent.
func binarySearch(v *PageView, key int32) (int, error) {
	cc, err := v.ChildCount()
	if err != nil {
		return 0, err
	}
	lo, hi := 0, int(cc)-1
	for lo <= hi {
		mid := lo + (hi-lo)/2
		k, err := v.KeyAt(mid)
		if err != nil {
			return 0, err
		}
		switch {
		case key > k:
			lo = mid + 1
		case key < k:
			hi = mid - 1
		default:
			return mid, nil
		}
	}
	return -(lo + 1), nil
}

// locate descends from cursor's current address to the leaf that would
// hold key, preemptively splitting full nodes along the way when
// splitting is true so that the parent of any node is guaranteed to have
// room for a promoted median. It returns the leaf-level search result: a
// non-negative index on exact match, or -(insertion_point+1) otherwise.
func locate(t *Tree, cursor *PageView, key int32, splitting bool) (int, error) {
	parentAddress := int32(0)
	steps := int32(0)

	for {
		if splitting {
			full, err := cursor.IsFull()
			if err != nil {
				return 0, err
			}
			if full {
				newParent, err := splitNode(t, cursor, parentAddress)
				if err != nil {
					return 0, err
				}
				parentAddress = newParent
				cursor.SetAddress(parentAddress)
				steps--
			}
		}

		pos, err := binarySearch(cursor, key)
		if err != nil {
			return 0, err
		}
		steps++

		leaf, err := cursor.IsLeaf()
		if err != nil {
			return 0, err
		}
		if leaf {
			if steps > t.maxStepsSearched {
				t.maxStepsSearched = steps
			}
			return pos, nil
		}

		var childSlot int
		if pos >= 0 {
			childSlot = pos + 1
		} else {
			childSlot = -pos - 1
		}
		negatedChild, err := cursor.AddressAt(childSlot)
		if err != nil {
			return 0, err
		}
		if negatedChild == 0 {
			return 0, newError(CorruptPage, "interior page has a zero child pointer")
		}
		if negatedChild%int32(t.pageSize) != 0 {
			return 0, newError(CorruptPage, "interior page has a misaligned child pointer")
		}

		parentAddress = cursor.Address()
		cursor.SetAddress(-negatedChild)
	}
}

// insertLeaf inserts (key, value) into a non-full leaf at pos, shifting
// entries [pos, child_count) right by one first. Preconditions (leaf,
// not full, pos == -locate_result-1) are the caller's responsibility.
func insertLeaf(cursor *PageView, key, value int32, pos int) error {
	cc, err := cursor.ChildCount()
	if err != nil {
		return err
	}
	if pos < int(cc) {
		if err := cursor.CopyEntries(pos, pos+1, int(cc)-pos); err != nil {
			return err
		}
	}
	if err := cursor.SetKeyAt(pos, key); err != nil {
		return err
	}
	if err := cursor.SetAddressAt(pos, value); err != nil {
		return err
	}
	if err := cursor.SetChildCount(cc + 1); err != nil {
		return err
	}
	return cursor.Sync()
}

// insertInterior attaches a new separator/child pair at pos within a
// non-full interior node: (key, negatedChildAddr) is inserted so that the
// new child sits immediately to the right of separator key.
// negatedChildAddr is the arithmetic negation of the child's absolute
// address, already computed by the caller.
func insertInterior(cursor *PageView, key, negatedChildAddr int32, pos int) error {
	recordCount, err := cursor.ChildCount()
	if err != nil {
		return err
	}
	rc := int(recordCount)
	if err := cursor.SetChildCount(recordCount + 1); err != nil {
		return err
	}

	trailing, err := cursor.AddressAt(rc)
	if err != nil {
		return err
	}
	if err := cursor.SetAddressAt(rc+1, trailing); err != nil {
		return err
	}

	if elementsAfterIndex := rc - pos - 1; elementsAfterIndex > 0 {
		if err := cursor.CopyEntries(pos+1, pos+2, elementsAfterIndex); err != nil {
			return err
		}
	}

	if pos < rc {
		k, err := cursor.KeyAt(pos)
		if err != nil {
			return err
		}
		if err := cursor.SetKeyAt(pos+1, k); err != nil {
			return err
		}
	}

	if err := cursor.SetKeyAt(pos, key); err != nil {
		return err
	}
	if err := cursor.SetAddressAt(pos+1, negatedChildAddr); err != nil {
		return err
	}

	return cursor.Sync()
}

// copyEntriesAcross moves count entries from one page's buffer into
// another's, used by splitNode to hand the upper half of a full node's
// entries to its new sibling.
func copyEntriesAcross(src *PageView, srcIndex int, dst *PageView, dstIndex int, count int) error {
	if count == 0 {
		return nil
	}
	srcBuf, err := src.buffer()
	if err != nil {
		return err
	}
	dstBuf, err := dst.buffer()
	if err != nil {
		return err
	}
	so, do := entryOffset(srcIndex), entryOffset(dstIndex)
	n := count * entrySize
	if so+n > len(srcBuf) || do+n > len(dstBuf) {
		return newError(CorruptPage, "cross-page entry copy out of range")
	}
	copy(dstBuf[do:do+n], srcBuf[so:so+n])
	return nil
}

// splitNode splits the full node cursor is seated on, promoting a median
// key to parentAddress (or to a freshly allocated root, if
// parentAddress is 0), and returns the address of the node the caller
// should resume its search from: the parent for a non-root split, or the
// new root for a root split. Precondition: cursor.IsFull().
//
// Leaf splits are non-destructive: the median is the new sibling's first
// key, and that key remains in the sibling. Interior splits remove the
// median from both children, since it is fully represented by the
// separator promoted to the parent.
func splitNode(t *Tree, cursor *PageView, parentAddress int32) (int32, error) {
	maxIndex := int(t.maxChildren) / 2

	n, err := cursor.ChildCount()
	if err != nil {
		return 0, err
	}
	nn := int(n)

	siblingAddr, err := t.nextPage()
	if err != nil {
		return 0, err
	}
	sibling := t.view()
	sibling.SetAddress(siblingAddr)

	leaf, err := cursor.IsLeaf()
	if err != nil {
		return 0, err
	}
	if err := sibling.SetLeaf(leaf); err != nil {
		return 0, err
	}

	siblingCount := nn - maxIndex
	if err := sibling.SetChildCount(int16(siblingCount)); err != nil {
		return 0, err
	}
	if err := copyEntriesAcross(cursor, maxIndex, sibling, 0, siblingCount); err != nil {
		return 0, err
	}

	var medianKey int32
	if leaf {
		medianKey, err = sibling.KeyAt(0)
		if err != nil {
			return 0, err
		}
		if err := cursor.SetChildCount(int16(maxIndex)); err != nil {
			return 0, err
		}
	} else {
		trailing, err := cursor.AddressAt(nn)
		if err != nil {
			return 0, err
		}
		if err := sibling.SetAddressAt(siblingCount, trailing); err != nil {
			return 0, err
		}
		maxIndex--
		medianKey, err = cursor.KeyAt(maxIndex)
		if err != nil {
			return 0, err
		}
		if err := cursor.SetChildCount(int16(maxIndex)); err != nil {
			return 0, err
		}
	}

	var newParentAddress int32
	if parentAddress == 0 {
		newRootAddr, err := t.nextPage()
		if err != nil {
			return 0, err
		}
		root := t.view()
		root.SetAddress(newRootAddr)
		if err := root.SetLeaf(false); err != nil {
			return 0, err
		}
		if err := root.SetChildCount(1); err != nil {
			return 0, err
		}
		if err := root.SetKeyAt(0, medianKey); err != nil {
			return 0, err
		}
		if err := root.SetAddressAt(0, -cursor.Address()); err != nil {
			return 0, err
		}
		if err := root.SetAddressAt(1, -sibling.Address()); err != nil {
			return 0, err
		}
		if err := root.Sync(); err != nil {
			return 0, err
		}
		t.SetRootAddress(newRootAddr)
		newParentAddress = newRootAddr
	} else {
		parent := t.view()
		parent.SetAddress(parentAddress)
		parentPos, err := binarySearch(parent, medianKey)
		if err != nil {
			return 0, err
		}
		if parentPos >= 0 {
			return 0, newError(CorruptPage, "median key already present in parent during split")
		}
		if err := insertInterior(parent, medianKey, -sibling.Address(), -parentPos-1); err != nil {
			return 0, err
		}
		newParentAddress = parentAddress
	}

	if err := cursor.Sync(); err != nil {
		return 0, err
	}
	if err := sibling.Sync(); err != nil {
		return 0, err
	}

	return newParentAddress, nil
}
