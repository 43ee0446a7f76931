// Copyright 2026 The eduos Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package diskinode

// IncreaseSize grows the inode's block map to cover newSize bytes,
// consuming exactly BlocksNumNeeded(newSize) ids from pool and wiring them
// into the map in canonical order: fill directs, then fill indirect1
// (allocating its own index block first if needed), then indirect2. It
// panics if pool is under-provisioned.
func (d *DiskInode) IncreaseSize(store BlockStore, newSize uint32, pool []uint32) {
	if newSize < d.Size {
		return
	}

	next := 0
	take := func() uint32 {
		if next >= len(pool) {
			panic("diskinode: increase_size panic — pool under-provided")
		}
		id := pool[next]
		next++
		return id
	}

	current := dataBlocks(d.Size)
	d.Size = newSize
	total := dataBlocks(newSize)

	// Fill direct slots.
	for current < total && current < directBound {
		d.Direct[current] = take()
		current++
	}
	if total <= directBound {
		return
	}

	// Allocate and fill indirect1.
	if current == directBound {
		d.Indirect1 = take()
	}
	current -= directBound
	total -= directBound

	for current < total && current < indirectEntries {
		writeIndirectEntry(store, d.Indirect1, int(current), take())
		current++
	}
	if total <= indirectEntries {
		return
	}

	// Allocate and fill indirect2: a table of indirect1-shaped blocks.
	if current == indirectEntries {
		d.Indirect2 = take()
	}
	current -= indirectEntries
	total -= indirectEntries

	a0, b0 := current/indirectEntries, current%indirectEntries
	a1, b1 := total/indirectEntries, total%indirectEntries

	for a0 < a1 || (a0 == a1 && b0 < b1) {
		if b0 == 0 {
			writeIndirectEntry(store, d.Indirect2, int(a0), take())
		}
		l1 := readIndirectEntry(store, d.Indirect2, int(a0))
		writeIndirectEntry(store, l1, int(b0), take())

		b0++
		if b0 == indirectEntries {
			b0 = 0
			a0++
		}
	}
}

// DecreaseSize truncates the block map down to newSize bytes, returning
// the now-unused block ids (including freed index blocks) for the caller
// to deallocate. Data blocks are freed first (while index
// blocks are still addressable), then any index block left wholly unused
// by the shrink is freed too.
func (d *DiskInode) DecreaseSize(store BlockStore, newSize uint32) []uint32 {
	if newSize > d.Size {
		panic("diskinode: decrease to invalid size")
	}

	oldTotal := dataBlocks(d.Size)
	newTotal := dataBlocks(newSize)
	d.Size = newSize

	var freed []uint32
	for idx := newTotal; idx < oldTotal; idx++ {
		freed = append(freed, d.blockIDAt(store, idx))
		d.setBlockIDAt(store, idx, 0)
	}

	// Free any indirect1 (level-1) index blocks under indirect2 that no
	// longer hold any live entries.
	if oldTotal > indirect1Bound {
		oldC2 := oldTotal - indirect1Bound
		newC2 := uint32(0)
		if newTotal > indirect1Bound {
			newC2 = newTotal - indirect1Bound
		}
		oldA := (oldC2 + indirectEntries - 1) / indirectEntries
		newA := (newC2 + indirectEntries - 1) / indirectEntries
		for a := newA; a < oldA; a++ {
			freed = append(freed, readIndirectEntry(store, d.Indirect2, int(a)))
		}
		if newTotal <= indirect1Bound {
			freed = append(freed, d.Indirect2)
			d.Indirect2 = 0
		}
	}

	if oldTotal > directBound && newTotal <= directBound {
		freed = append(freed, d.Indirect1)
		d.Indirect1 = 0
	}

	return freed
}

// ClearSize truncates the inode to zero, returning all of its data and
// index blocks for deallocation. Equivalent to DecreaseSize(store, 0).
func (d *DiskInode) ClearSize(store BlockStore) []uint32 {
	return d.DecreaseSize(store, 0)
}
