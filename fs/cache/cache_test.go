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

package cache

import (
	"testing"

	"github.com/LearningOS/2024a-rcore-Carbrevo/fs/blockdev"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithBlock_WriteThenReadSeesUpdate(t *testing.T) {
	dev := blockdev.NewMemDevice(0, 4)
	c := New(2)

	c.WithBlock(0, dev, true, func(b *[blockdev.BlockSize]byte) {
		b[0] = 7
	})

	var got byte
	c.WithBlock(0, dev, false, func(b *[blockdev.BlockSize]byte) {
		got = b[0]
	})
	assert.Equal(t, byte(7), got)
}

func TestWithBlock_EvictsLeastRecentlyUsed(t *testing.T) {
	dev := blockdev.NewMemDevice(0, 8)
	c := New(2)

	c.WithBlock(0, dev, true, func(b *[blockdev.BlockSize]byte) { b[0] = 1 })
	c.WithBlock(1, dev, true, func(b *[blockdev.BlockSize]byte) { b[0] = 2 })
	// Touch block 0 so block 1 becomes the least-recently-used entry.
	c.WithBlock(0, dev, false, func(b *[blockdev.BlockSize]byte) {})
	// A third distinct block forces an eviction; block 1 should go.
	c.WithBlock(2, dev, true, func(b *[blockdev.BlockSize]byte) { b[0] = 3 })

	assert.Len(t, c.elems, 2)
	_, stillResident := c.elems[key{blockID: 1, deviceID: 0}]
	assert.False(t, stillResident, "block 1 should have been evicted as the LRU entry")
}

func TestWithBlock_DirtyEntryWrittenBackOnEviction(t *testing.T) {
	dev := blockdev.NewMemDevice(0, 8)
	c := New(1)

	c.WithBlock(0, dev, true, func(b *[blockdev.BlockSize]byte) { b[0] = 9 })
	// Force eviction of block 0 by touching a second block under capacity 1.
	c.WithBlock(1, dev, false, func(b *[blockdev.BlockSize]byte) {})

	var raw [blockdev.BlockSize]byte
	dev.ReadBlock(0, &raw)
	assert.Equal(t, byte(9), raw[0], "dirty block should be flushed to the device on eviction")
}

func TestSyncAll_FlushesDirtyEntriesWithoutEvicting(t *testing.T) {
	dev := blockdev.NewMemDevice(0, 4)
	c := New(4)

	c.WithBlock(0, dev, true, func(b *[blockdev.BlockSize]byte) { b[0] = 5 })
	c.SyncAll()

	var raw [blockdev.BlockSize]byte
	dev.ReadBlock(0, &raw)
	assert.Equal(t, byte(5), raw[0])
	assert.Len(t, c.elems, 1, "sync should not evict")
}

func TestWithBlock_FatalWhenEveryEntryIsBorrowed(t *testing.T) {
	dev := blockdev.NewMemDevice(0, 4)
	c := New(1)

	assert.Panics(t, func() {
		c.WithBlock(0, dev, false, func(b *[blockdev.BlockSize]byte) {
			// Still holding block 0's borrow; a second distinct block
			// can't evict it to make room.
			c.WithBlock(1, dev, false, func(b *[blockdev.BlockSize]byte) {})
		})
	})
}

func TestBoundCache_ScopesToOneDevice(t *testing.T) {
	devA := blockdev.NewMemDevice(0, 4)
	devB := blockdev.NewMemDevice(1, 4)
	c := New(4)

	boundA := c.Bound(devA)
	boundB := c.Bound(devB)

	boundA.WithBlock(0, true, func(b *[blockdev.BlockSize]byte) { b[0] = 1 })
	boundB.WithBlock(0, true, func(b *[blockdev.BlockSize]byte) { b[0] = 2 })

	var a, b byte
	boundA.WithBlock(0, false, func(buf *[blockdev.BlockSize]byte) { a = buf[0] })
	boundB.WithBlock(0, false, func(buf *[blockdev.BlockSize]byte) { b = buf[0] })

	assert.Equal(t, byte(1), a)
	assert.Equal(t, byte(2), b)
}

func TestBoundCache_UnboundPanics(t *testing.T) {
	var bc BoundCache
	assert.Panics(t, func() {
		bc.WithBlock(0, false, func(b *[blockdev.BlockSize]byte) {})
	})
}

func TestNew_UsesRequestedCapacity(t *testing.T) {
	c := New(3)
	require.Equal(t, 3, c.capacity)
}
