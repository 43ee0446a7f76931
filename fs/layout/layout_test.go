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

package layout

import (
	"testing"

	"github.com/LearningOS/2024a-rcore-Carbrevo/fs/blockdev"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeGeometry_RegionsAreContiguousAndCoverDevice(t *testing.T) {
	geo := ComputeGeometry(4096)
	require.NotZero(t, geo.Super.DataAreaBlocks)

	assert.Equal(t, uint32(1), geo.InodeBitmapStart())
	assert.Equal(t, geo.InodeBitmapStart()+geo.Super.InodeBitmapBlocks, geo.InodeAreaStart())
	assert.Equal(t, geo.InodeAreaStart()+geo.Super.InodeAreaBlocks, geo.DataBitmapStart())
	assert.Equal(t, geo.DataBitmapStart()+geo.Super.DataBitmapBlocks, geo.DataAreaStart())

	total := 1 + geo.Super.InodeBitmapBlocks + geo.Super.InodeAreaBlocks +
		geo.Super.DataBitmapBlocks + geo.Super.DataAreaBlocks
	assert.Equal(t, geo.Super.TotalBlocks, total)
}

func TestComputeGeometry_TooSmallYieldsNoDataArea(t *testing.T) {
	geo := ComputeGeometry(2)
	assert.Zero(t, geo.Super.DataAreaBlocks)
}

func TestSuperblockRoundTrip(t *testing.T) {
	sb := Superblock{
		Magic:             Magic,
		TotalBlocks:       4096,
		InodeBitmapBlocks: 1,
		InodeAreaBlocks:   4,
		DataBitmapBlocks:  1,
		DataAreaBlocks:    4089,
	}
	buf := sb.MarshalBinary()

	var got Superblock
	got.UnmarshalBinary(&buf)

	assert.Equal(t, sb, got)
	assert.True(t, got.Valid())
}

func TestSuperblock_InvalidMagic(t *testing.T) {
	var sb Superblock
	var buf [blockdev.BlockSize]byte
	sb.UnmarshalBinary(&buf)
	assert.False(t, sb.Valid())
}

func TestDiskInodePos_RoundTrip(t *testing.T) {
	geo := ComputeGeometry(4096)
	for _, id := range []uint32{0, 1, InodesPerBlock - 1, InodesPerBlock, InodesPerBlock + 3} {
		blockID, offset := geo.DiskInodePos(id)
		assert.Equal(t, id, geo.DiskInodeID(blockID, offset), "round trip for inode id %d", id)
	}
}

func TestDirEntryRoundTrip(t *testing.T) {
	e := NewDirEntry("hello.txt", 42)
	buf := e.MarshalBinary()

	got := UnmarshalDirEntry(buf[:])
	assert.Equal(t, "hello.txt", got.Name())
	assert.Equal(t, uint32(42), got.InodeID)
	assert.False(t, got.Empty())
}

func TestDirEntry_EmptyNameIsFreeSlotMarker(t *testing.T) {
	var e DirEntry
	assert.True(t, e.Empty())
}

func TestNewDirEntry_PanicsOnOverlongName(t *testing.T) {
	assert.Panics(t, func() {
		NewDirEntry("this-name-is-far-too-long-to-fit", 1)
	})
}

type memStore struct {
	blocks map[uint32]*[blockdev.BlockSize]byte
}

func newMemStore() *memStore {
	return &memStore{blocks: make(map[uint32]*[blockdev.BlockSize]byte)}
}

func (m *memStore) WithBlock(id uint32, write bool, fn func(block *[blockdev.BlockSize]byte)) {
	b, ok := m.blocks[id]
	if !ok {
		b = &[blockdev.BlockSize]byte{}
		m.blocks[id] = b
	}
	fn(b)
}

func TestBitmap_AllocFirstFitAndDealloc(t *testing.T) {
	store := newMemStore()
	bm := NewBitmap(0, 1)

	first, ok := bm.Alloc(store)
	require.True(t, ok)
	assert.Equal(t, uint32(0), first)

	second, ok := bm.Alloc(store)
	require.True(t, ok)
	assert.Equal(t, uint32(1), second)

	bm.Dealloc(store, first)

	reused, ok := bm.Alloc(store)
	require.True(t, ok)
	assert.Equal(t, first, reused, "dealloc'd bit should be the next first-fit allocation")
}

func TestBitmap_AllocExhausted(t *testing.T) {
	store := newMemStore()
	bm := NewBitmap(0, 1)
	for i := uint32(0); i < bm.Capacity(); i++ {
		_, ok := bm.Alloc(store)
		require.True(t, ok)
	}
	_, ok := bm.Alloc(store)
	assert.False(t, ok, "bitmap should report full once every bit is set")
}

func TestBitmap_DeallocOfFreeBitPanics(t *testing.T) {
	store := newMemStore()
	bm := NewBitmap(0, 1)
	assert.Panics(t, func() {
		bm.Dealloc(store, 0)
	})
}
