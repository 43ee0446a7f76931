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

package fs

import "github.com/LearningOS/2024a-rcore-Carbrevo/fs/diskinode"

// growTo grows the inode's block map to cover newSize bytes, allocating
// exactly as many data/index blocks as diskinode.BlocksNumNeeded reports
// before touching the on-disk record — an out-of-space failure here
// leaves the inode untouched (all-or-nothing growth).
func (i *Inode) growTo(newSize uint32) error {
	var needed uint32
	i.readDisk(func(di *diskinode.DiskInode) { needed = di.BlocksNumNeeded(newSize) })
	if needed == 0 {
		return nil
	}

	pool := make([]uint32, 0, needed)
	for uint32(len(pool)) < needed {
		id, ok := i.fs.AllocData()
		if !ok {
			for _, b := range pool {
				i.fs.DeallocData(b)
			}
			return ErrNoSpace
		}
		pool = append(pool, id)
	}

	i.modifyDisk(func(di *diskinode.DiskInode) {
		di.IncreaseSize(i.fs.store, newSize, pool)
	})
	return nil
}

// ReadAt reads into buf starting at offset, returning the number of bytes
// read (0 at or past EOF).
func (i *Inode) ReadAt(offset int, buf []byte) int {
	i.fs.Lock()
	defer i.fs.Unlock()

	var n int
	i.readDisk(func(di *diskinode.DiskInode) {
		n = di.ReadAt(i.fs.store, offset, buf)
	})
	return n
}

// WriteAt writes buf at offset, growing the file first if needed, and
// flushes the cache afterward.
func (i *Inode) WriteAt(offset int, buf []byte) (int, error) {
	i.fs.Lock()
	defer i.fs.Unlock()

	newSize := uint32(offset + len(buf))
	var curSize uint32
	i.readDisk(func(di *diskinode.DiskInode) { curSize = di.Size })
	if newSize > curSize {
		if err := i.growTo(newSize); err != nil {
			return 0, err
		}
	}

	var n int
	i.modifyDisk(func(di *diskinode.DiskInode) {
		n = di.WriteAt(i.fs.store, offset, buf)
	})
	i.fs.SyncAll()
	return n, nil
}

// Clear truncates the inode to zero length, returning every data and
// index block it held to the allocator, and flushes the cache.
func (i *Inode) Clear() {
	i.fs.Lock()
	defer i.fs.Unlock()

	var freed []uint32
	i.modifyDisk(func(di *diskinode.DiskInode) {
		freed = di.ClearSize(i.fs.store)
	})
	for _, b := range freed {
		i.fs.DeallocData(b)
	}
	i.fs.SyncAll()
}

// Truncate shrinks the inode to newSize bytes, returning every data and
// index block the shrink frees to the allocator. It is the general form
// of Clear (on a file, Clear has the effect of Truncate(0); unlike
// Truncate, Clear does not refuse a directory); it only ever shrinks — growth belongs
// to WriteAt, which allocates on demand. Fails with ErrInvalidTruncate if
// i names a directory (directories are sized only by appendEntryLocked/
// Unlink's compaction, never truncated directly) or if newSize exceeds
// the inode's current size.
func (i *Inode) Truncate(newSize int) error {
	i.fs.Lock()
	defer i.fs.Unlock()

	if i.Mode() != ModeFile {
		return ErrInvalidTruncate
	}

	var curSize uint32
	i.readDisk(func(di *diskinode.DiskInode) { curSize = di.Size })
	if newSize < 0 || uint32(newSize) > curSize {
		return ErrInvalidTruncate
	}

	var freed []uint32
	i.modifyDisk(func(di *diskinode.DiskInode) {
		freed = di.DecreaseSize(i.fs.store, uint32(newSize))
	})
	for _, b := range freed {
		i.fs.DeallocData(b)
	}
	i.fs.SyncAll()
	return nil
}
