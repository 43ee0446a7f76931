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

// Package diskinode implements the disk inode: a three-level
// direct/indirect1/indirect2 block map plus the read/write/grow/shrink
// operations over it.
package diskinode

import (
	"encoding/binary"

	"github.com/LearningOS/2024a-rcore-Carbrevo/fs/blockdev"
)

const (
	// DirectCount is the number of direct block pointers.
	DirectCount = 28
	// indirectEntries is how many u32 block ids fit in one index block.
	indirectEntries = blockdev.BlockSize / 4

	// Size is the fixed on-disk footprint of a DiskInode: 4 (size) +
	// 28*4 (direct) + 4 (indirect1) + 4 (indirect2) + 4 (type) = 128.
	Size = 128

	directBound     = DirectCount
	indirect1Bound  = directBound + indirectEntries
	indirect2Bound  = indirect1Bound + indirectEntries*indirectEntries
)

// Type distinguishes a file inode from a directory inode.
type Type uint32

const (
	TypeFile Type = iota
	TypeDirectory
)

// BlockStore is the scoped block-cache access a DiskInode needs. It never
// sees beyond one borrowed block at a time.
type BlockStore interface {
	WithBlock(id uint32, write bool, fn func(block *[blockdev.BlockSize]byte))
}

// DiskInode is the fixed 128-byte on-disk inode record.
// Invariant: ceil(Size/512) equals the number of non-zero block ids
// reachable through Direct/Indirect1/Indirect2, with no holes in the used
// prefix.
type DiskInode struct {
	Size      uint32
	Direct    [DirectCount]uint32
	Indirect1 uint32
	Indirect2 uint32
	Kind      Type
}

// Initialize resets a freshly allocated disk inode to an empty file or
// directory of the given type.
func (d *DiskInode) Initialize(kind Type) {
	*d = DiskInode{Kind: kind}
}

func (d *DiskInode) IsDir() bool  { return d.Kind == TypeDirectory }
func (d *DiskInode) IsFile() bool { return d.Kind == TypeFile }

// MarshalBinary encodes the inode to its fixed 128-byte wire form.
func (d *DiskInode) MarshalBinary() [Size]byte {
	var buf [Size]byte
	binary.LittleEndian.PutUint32(buf[0:4], d.Size)
	for i, id := range d.Direct {
		binary.LittleEndian.PutUint32(buf[4+i*4:8+i*4], id)
	}
	off := 4 + DirectCount*4
	binary.LittleEndian.PutUint32(buf[off:off+4], d.Indirect1)
	binary.LittleEndian.PutUint32(buf[off+4:off+8], d.Indirect2)
	binary.LittleEndian.PutUint32(buf[off+8:off+12], uint32(d.Kind))
	return buf
}

// UnmarshalBinary decodes an inode from its 128-byte wire form.
func (d *DiskInode) UnmarshalBinary(buf []byte) {
	d.Size = binary.LittleEndian.Uint32(buf[0:4])
	for i := range d.Direct {
		d.Direct[i] = binary.LittleEndian.Uint32(buf[4+i*4 : 8+i*4])
	}
	off := 4 + DirectCount*4
	d.Indirect1 = binary.LittleEndian.Uint32(buf[off : off+4])
	d.Indirect2 = binary.LittleEndian.Uint32(buf[off+4 : off+8])
	d.Kind = Type(binary.LittleEndian.Uint32(buf[off+8 : off+12]))
}

// dataBlocks is ceil(size/BlockSize): the number of data blocks the
// content itself occupies, not counting index blocks.
func dataBlocks(size uint32) uint32 {
	return (size + blockdev.BlockSize - 1) / blockdev.BlockSize
}

// TotalBlocks is the number of blocks — data plus index overhead — needed
// to hold size bytes.
func TotalBlocks(size uint32) uint32 {
	data := dataBlocks(size)
	total := data
	if data > directBound {
		total++ // indirect1 index block
	}
	if data > indirect1Bound {
		total++ // indirect2 index block
		extra := data - indirect1Bound
		total += (extra + indirectEntries - 1) / indirectEntries
	}
	return total
}

// BlocksNumNeeded is how many additional data/index blocks must be
// supplied to grow from the inode's current size to newSize.
func (d *DiskInode) BlocksNumNeeded(newSize uint32) uint32 {
	if newSize < d.Size {
		return 0
	}
	return TotalBlocks(newSize) - TotalBlocks(d.Size)
}

func readIndirectEntry(store BlockStore, indexBlock uint32, slot int) uint32 {
	var v uint32
	store.WithBlock(indexBlock, false, func(b *[blockdev.BlockSize]byte) {
		v = binary.LittleEndian.Uint32(b[slot*4 : slot*4+4])
	})
	return v
}

func writeIndirectEntry(store BlockStore, indexBlock uint32, slot int, id uint32) {
	store.WithBlock(indexBlock, true, func(b *[blockdev.BlockSize]byte) {
		binary.LittleEndian.PutUint32(b[slot*4:slot*4+4], id)
	})
}

// blockIDAt resolves the physical block id for logical data-block index
// idx (0-based), walking direct then indirect1 then indirect2.
func (d *DiskInode) blockIDAt(store BlockStore, idx uint32) uint32 {
	if idx < DirectCount {
		return d.Direct[idx]
	}
	idx -= DirectCount
	if idx < indirectEntries {
		return readIndirectEntry(store, d.Indirect1, int(idx))
	}
	idx -= indirectEntries
	outer := idx / indirectEntries
	inner := idx % indirectEntries
	l1 := readIndirectEntry(store, d.Indirect2, int(outer))
	return readIndirectEntry(store, l1, int(inner))
}

// setBlockIDAt zeroes or rewrites the physical block id stored for
// logical data-block index idx, mirroring blockIDAt's walk.
func (d *DiskInode) setBlockIDAt(store BlockStore, idx uint32, id uint32) {
	if idx < DirectCount {
		d.Direct[idx] = id
		return
	}
	idx -= DirectCount
	if idx < indirectEntries {
		writeIndirectEntry(store, d.Indirect1, int(idx), id)
		return
	}
	idx -= indirectEntries
	outer := idx / indirectEntries
	inner := idx % indirectEntries
	l1 := readIndirectEntry(store, d.Indirect2, int(outer))
	writeIndirectEntry(store, l1, int(inner), id)
}

// ReadAt reads min(Size-offset, len(buf)) bytes starting at offset,
// returning the number of bytes read. Reading at or past EOF returns 0.
func (d *DiskInode) ReadAt(store BlockStore, offset int, buf []byte) int {
	if offset >= int(d.Size) {
		return 0
	}
	end := offset + len(buf)
	if end > int(d.Size) {
		end = int(d.Size)
	}

	read := 0
	for start := offset; start < end; {
		idx := uint32(start / blockdev.BlockSize)
		within := start % blockdev.BlockSize
		chunk := blockdev.BlockSize - within
		if start+chunk > end {
			chunk = end - start
		}
		blockID := d.blockIDAt(store, idx)
		store.WithBlock(blockID, false, func(b *[blockdev.BlockSize]byte) {
			copy(buf[read:read+chunk], b[within:within+chunk])
		})
		read += chunk
		start += chunk
	}
	return read
}

// WriteAt writes buf at offset. REQUIRES offset+len(buf) <= Size — callers
// must grow via IncreaseSize first.
func (d *DiskInode) WriteAt(store BlockStore, offset int, buf []byte) int {
	if offset+len(buf) > int(d.Size) {
		panic("diskinode: write_at beyond size, caller must increase_size first")
	}

	written := 0
	end := offset + len(buf)
	for start := offset; start < end; {
		idx := uint32(start / blockdev.BlockSize)
		within := start % blockdev.BlockSize
		chunk := blockdev.BlockSize - within
		if start+chunk > end {
			chunk = end - start
		}
		blockID := d.blockIDAt(store, idx)
		store.WithBlock(blockID, true, func(b *[blockdev.BlockSize]byte) {
			copy(b[within:within+chunk], buf[written:written+chunk])
		})
		written += chunk
		start += chunk
	}
	return written
}
