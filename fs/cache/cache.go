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

// Package cache implements a bounded, write-back block cache: a fixed
// number of resident blocks held in memory, evicted least-recently-used,
// with dirty blocks written back to their owning device on eviction or
// on an explicit sync. See DESIGN.md for why this package builds LRU
// ordering on container/list rather than a third-party cache library.
package cache

import (
	"container/list"
	"fmt"
	"sync"

	"github.com/LearningOS/2024a-rcore-Carbrevo/fs/blockdev"
)

// Capacity is the conventional resident-block bound; the bound a Cache
// actually enforces is the capacity passed to New.
const Capacity = 16

type key struct {
	blockID  uint32
	deviceID uint32
}

type entry struct {
	key      key
	dev      blockdev.BlockDevice
	data     [blockdev.BlockSize]byte
	dirty    bool
	refCount int

	// cellMu guards data against concurrent readers/writers independent
	// of the cache-level mutex: at most one writer or any number of
	// readers per entry at a time.
	cellMu sync.RWMutex
}

// Cache is shared by every user bound to it, behind its own mutex; entries
// are additionally guarded per-entry. Callers never see a raw entry: all
// access goes through the scoped WithBlock/SyncAll API.
type Cache struct {
	mu       sync.Mutex
	capacity int
	elems    map[key]*list.Element // list.Element.Value is *entry
	order    *list.List            // front = most recently used
}

// New creates a cache bounded to capacity resident blocks.
func New(capacity int) *Cache {
	return &Cache{
		capacity: capacity,
		elems:    make(map[key]*list.Element, capacity),
		order:    list.New(),
	}
}

// get returns the entry for (blockID, dev), loading and possibly evicting
// as needed, with refCount incremented. The caller must call put when done.
func (c *Cache) get(blockID uint32, dev blockdev.BlockDevice) *entry {
	c.mu.Lock()
	k := key{blockID: blockID, deviceID: dev.DeviceID()}
	if el, ok := c.elems[k]; ok {
		c.order.MoveToFront(el)
		e := el.Value.(*entry)
		e.refCount++
		c.mu.Unlock()
		return e
	}

	if c.order.Len() >= c.capacity {
		if !c.evictOneLocked() {
			c.mu.Unlock()
			panic("cache: fatal — all entries borrowed, cannot evict")
		}
	}

	e := &entry{key: k, dev: dev}
	dev.ReadBlock(blockID, &e.data)
	e.refCount = 1
	el := c.order.PushFront(e)
	c.elems[k] = el
	c.mu.Unlock()
	return e
}

// evictOneLocked evicts the least-recently-used unborrowed entry, writing
// it back first if dirty. Called with c.mu held.
func (c *Cache) evictOneLocked() bool {
	for el := c.order.Back(); el != nil; el = el.Prev() {
		e := el.Value.(*entry)
		if e.refCount != 0 {
			continue
		}
		if e.dirty {
			e.dev.WriteBlock(e.key.blockID, &e.data)
			e.dirty = false
		}
		c.order.Remove(el)
		delete(c.elems, e.key)
		return true
	}
	return false
}

func (c *Cache) put(e *entry) {
	c.mu.Lock()
	if e.refCount <= 0 {
		c.mu.Unlock()
		panic("cache: fatal — refcount underflow")
	}
	e.refCount--
	c.mu.Unlock()
}

// WithBlock scopes mutable or immutable access to the bytes of block id on
// dev. write marks the entry dirty on return; the borrow is released on
// every exit path, including a panic inside fn.
func (c *Cache) WithBlock(blockID uint32, dev blockdev.BlockDevice, write bool, fn func(block *[blockdev.BlockSize]byte)) {
	e := c.get(blockID, dev)
	defer c.put(e)

	if write {
		e.cellMu.Lock()
		defer e.cellMu.Unlock()
		fn(&e.data)
		e.dirty = true
		return
	}

	e.cellMu.RLock()
	defer e.cellMu.RUnlock()
	fn(&e.data)
}

// SyncAll writes every dirty entry back to its device and clears dirty
// flags. Required after any directory-mutating VFS op.
func (c *Cache) SyncAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for el := c.order.Front(); el != nil; el = el.Next() {
		e := el.Value.(*entry)
		if !e.dirty {
			continue
		}
		e.dev.WriteBlock(e.key.blockID, &e.data)
		e.dirty = false
	}
}

// Bound returns a BlockStore (fs/layout.BlockStore-compatible) scoped to a
// single device, so higher layers don't have to thread dev through every
// call.
func (c *Cache) Bound(dev blockdev.BlockDevice) BoundCache {
	return BoundCache{cache: c, dev: dev}
}

// BoundCache adapts Cache to a single device for layers (bitmap, disk
// inode) that only ever talk to one device at a time.
type BoundCache struct {
	cache *Cache
	dev   blockdev.BlockDevice
}

func (b BoundCache) WithBlock(id uint32, write bool, fn func(block *[blockdev.BlockSize]byte)) {
	if b.cache == nil {
		panic(fmt.Sprintf("cache: fatal — use of unbound cache for block %d", id))
	}
	b.cache.WithBlock(id, b.dev, write, fn)
}

// Device returns the device this BoundCache is scoped to.
func (b BoundCache) Device() blockdev.BlockDevice { return b.dev }

// SyncAll flushes the shared cache (not just this device's entries — the
// cache is shared across every device bound to it).
func (b BoundCache) SyncAll() { b.cache.SyncAll() }
