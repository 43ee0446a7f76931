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

// Package fs implements the on-disk filesystem object and the virtual
// inode (VFS) layer built on top of it. The two live in one package
// rather than a split fs/inode layout, because the inode layer needs a
// concrete *FileSystem it also constructs, which a nested package cannot
// do without an import cycle (see DESIGN.md).
package fs

import (
	"sync"

	"github.com/LearningOS/2024a-rcore-Carbrevo/fs/blockdev"
	"github.com/LearningOS/2024a-rcore-Carbrevo/fs/cache"
	"github.com/LearningOS/2024a-rcore-Carbrevo/fs/diskinode"
	"github.com/LearningOS/2024a-rcore-Carbrevo/fs/layout"
	"github.com/LearningOS/2024a-rcore-Carbrevo/internal/logger"
)

// FileSystem mounts a device and a shared block cache, and owns inode/data
// allocation. Its mutex is the process-global exclusive-access cell:
// every VFS mutating operation holds fs.mu for its entire body.
type FileSystem struct {
	mu sync.Mutex

	dev   blockdev.BlockDevice
	cache *cache.Cache
	store cache.BoundCache

	geo         layout.Geometry
	inodeBitmap layout.Bitmap
	dataBitmap  layout.Bitmap
}

// Format lays out a brand-new filesystem on dev and returns
// the mounted FileSystem with an empty root directory at inode 0.
func Format(dev blockdev.BlockDevice, totalBlocks uint32, c *cache.Cache) (*FileSystem, error) {
	geo := layout.ComputeGeometry(totalBlocks)
	if geo.Super.DataAreaBlocks == 0 {
		return nil, ErrNoSpace
	}

	f := &FileSystem{
		dev:   dev,
		cache: c,
		store: c.Bound(dev),
		geo:   geo,
		inodeBitmap: layout.NewBitmap(geo.InodeBitmapStart(),
			geo.Super.InodeBitmapBlocks),
		dataBitmap: layout.NewBitmap(geo.DataBitmapStart(),
			geo.Super.DataBitmapBlocks),
	}

	// Zero the bitmap and inode regions so every bit starts clear and
	// every disk inode starts zeroed.
	for b := geo.InodeBitmapStart(); b < geo.DataAreaStart(); b++ {
		f.store.WithBlock(b, true, func(buf *[blockdev.BlockSize]byte) {
			*buf = [blockdev.BlockSize]byte{}
		})
	}

	sb := geo.Super.MarshalBinary()
	f.store.WithBlock(0, true, func(buf *[blockdev.BlockSize]byte) {
		*buf = sb
	})

	// Root directory is always inode 0.
	rootID, ok := f.AllocInode()
	if !ok || rootID != 0 {
		return nil, ErrNoSpace
	}
	blockID, offset := f.geo.DiskInodePos(rootID)
	f.store.WithBlock(blockID, true, func(buf *[blockdev.BlockSize]byte) {
		var di diskinode.DiskInode
		di.Initialize(diskinode.TypeDirectory)
		enc := di.MarshalBinary()
		copy(buf[offset:offset+diskinode.Size], enc[:])
	})

	f.store.SyncAll()
	logger.Infof("fs: formatted device %d with %d blocks (%d data blocks)",
		dev.DeviceID(), totalBlocks, geo.Super.DataAreaBlocks)
	return f, nil
}

// Open mounts an already-formatted device, reading its superblock to
// recover the layout.
func Open(dev blockdev.BlockDevice, c *cache.Cache) (*FileSystem, error) {
	store := c.Bound(dev)
	var sb layout.Superblock
	store.WithBlock(0, false, func(buf *[blockdev.BlockSize]byte) {
		sb.UnmarshalBinary(buf)
	})
	if !sb.Valid() {
		return nil, ErrNotFound
	}

	geo := layout.Geometry{Super: sb}
	f := &FileSystem{
		dev:   dev,
		cache: c,
		store: store,
		geo:   geo,
		inodeBitmap: layout.NewBitmap(geo.InodeBitmapStart(),
			sb.InodeBitmapBlocks),
		dataBitmap: layout.NewBitmap(geo.DataBitmapStart(),
			sb.DataBitmapBlocks),
	}
	return f, nil
}

// AllocInode claims the first free inode bit.
func (f *FileSystem) AllocInode() (uint32, bool) {
	return f.inodeBitmap.Alloc(f.store)
}

// DeallocInode frees an inode bit. The caller must have already freed the
// inode's data blocks.
func (f *FileSystem) DeallocInode(id uint32) {
	f.inodeBitmap.Dealloc(f.store, id)
}

// AllocData claims a free data block and returns its absolute block id.
func (f *FileSystem) AllocData() (uint32, bool) {
	bit, ok := f.dataBitmap.Alloc(f.store)
	if !ok {
		return 0, false
	}
	if bit >= f.geo.Super.DataAreaBlocks {
		f.dataBitmap.Dealloc(f.store, bit)
		return 0, false
	}
	return f.geo.DataAreaStart() + bit, true
}

// DeallocData frees a data block: clears the bitmap bit and zeroes the
// block's contents so a future reader never sees stale data.
func (f *FileSystem) DeallocData(id uint32) {
	bit := id - f.geo.DataAreaStart()
	f.dataBitmap.Dealloc(f.store, bit)
	f.store.WithBlock(id, true, func(buf *[blockdev.BlockSize]byte) {
		*buf = [blockdev.BlockSize]byte{}
	})
}

// DiskInodePos maps an inode id to its (block id, in-block offset).
func (f *FileSystem) DiskInodePos(id uint32) (uint32, int) {
	return f.geo.DiskInodePos(id)
}

// DiskInodeID is the inverse of DiskInodePos.
func (f *FileSystem) DiskInodeID(blockID uint32, offset int) uint32 {
	return f.geo.DiskInodeID(blockID, offset)
}

// SyncAll flushes the block cache. Required after any directory-mutating
// VFS op.
func (f *FileSystem) SyncAll() {
	f.store.SyncAll()
}

// Lock/Unlock expose the filesystem's own exclusive-access cell to the
// VFS inode operations defined in dir.go/file.go: all mutating operations
// acquire it for their entire body.
func (f *FileSystem) Lock()   { f.mu.Lock() }
func (f *FileSystem) Unlock() { f.mu.Unlock() }

// RootInode returns a fresh handle to the root directory (inode id 0).
func (f *FileSystem) RootInode() *Inode {
	blockID, offset := f.geo.DiskInodePos(0)
	return &Inode{fs: f, blockID: blockID, blockOffset: offset}
}
