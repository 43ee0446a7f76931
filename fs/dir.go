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

import (
	"github.com/LearningOS/2024a-rcore-Carbrevo/fs/diskinode"
	"github.com/LearningOS/2024a-rcore-Carbrevo/fs/layout"
)

// Find looks up name by a linear scan of this directory's entries,
// returning a fresh handle on the target inode, or ok=false if absent.
func (i *Inode) Find(name string) (*Inode, bool) {
	i.fs.Lock()
	defer i.fs.Unlock()
	return i.findLocked(name)
}

func (i *Inode) findLocked(name string) (*Inode, bool) {
	n := i.dirEntryCount()
	for idx := 0; idx < n; idx++ {
		e := i.readDirEntry(idx)
		if e.Name() == name {
			return i.fs.inodeAt(e.InodeID), true
		}
	}
	return nil, false
}

// Create allocates a new file inode and appends a directory entry naming
// it, failing with ErrNotDirectory if i is not itself a directory, or
// ErrExists if name is already present.
func (i *Inode) Create(name string) (*Inode, error) {
	i.fs.Lock()
	defer i.fs.Unlock()

	if i.Mode() != ModeDirectory {
		return nil, ErrNotDirectory
	}
	if _, ok := i.findLocked(name); ok {
		return nil, ErrExists
	}

	id, ok := i.fs.AllocInode()
	if !ok {
		return nil, ErrNoSpace
	}
	child := i.fs.inodeAt(id)
	child.modifyDisk(func(di *diskinode.DiskInode) {
		di.Initialize(diskinode.TypeFile)
	})

	if err := i.appendEntryLocked(name, id); err != nil {
		i.fs.DeallocInode(id)
		return nil, err
	}
	i.fs.SyncAll()
	return child, nil
}

// appendEntryLocked grows the directory by one slot and writes the entry.
// Called with the filesystem lock already held.
func (i *Inode) appendEntryLocked(name string, inodeID uint32) error {
	n := i.dirEntryCount()
	newSize := uint32((n + 1) * layout.DirEntrySize)
	if err := i.growTo(newSize); err != nil {
		return err
	}
	i.writeDirEntry(n, layout.NewDirEntry(name, inodeID))
	return nil
}

// Link appends a new directory entry (new, old's inode id) without
// allocating an inode — the hard-link operation. Fails with
// ErrNotDirectory if i is not itself a directory, or ErrNotFound if old
// does not resolve.
func (i *Inode) Link(old, new string) error {
	i.fs.Lock()
	defer i.fs.Unlock()

	if i.Mode() != ModeDirectory {
		return ErrNotDirectory
	}

	target, ok := i.findLocked(old)
	if !ok {
		return ErrNotFound
	}
	if err := i.appendEntryLocked(new, target.InodeID()); err != nil {
		return err
	}
	i.fs.SyncAll()
	return nil
}

// Unlink removes name's directory entry. If name was the last entry
// referencing its inode, the inode's data and the inode itself are freed.
// The directory is then compacted: the last entry is moved into the freed
// slot (unless it was already last) and the directory shrinks by one
// entry. Fails with ErrNotDirectory if i is not itself a directory.
func (i *Inode) Unlink(name string) error {
	i.fs.Lock()
	defer i.fs.Unlock()

	if i.Mode() != ModeDirectory {
		return ErrNotDirectory
	}

	n := i.dirEntryCount()
	slot := -1
	var targetID uint32
	refs := 0
	for idx := 0; idx < n; idx++ {
		e := i.readDirEntry(idx)
		if e.Name() == name {
			slot = idx
			targetID = e.InodeID
		}
	}
	if slot == -1 {
		return ErrNotFound
	}
	for idx := 0; idx < n; idx++ {
		if i.readDirEntry(idx).InodeID == targetID {
			refs++
		}
	}

	if refs == 1 {
		target := i.fs.inodeAt(targetID)
		var freed []uint32
		target.modifyDisk(func(di *diskinode.DiskInode) {
			freed = di.ClearSize(i.fs.store)
		})
		for _, b := range freed {
			i.fs.DeallocData(b)
		}
		i.fs.DeallocInode(targetID)
	}

	last := n - 1
	if slot != last {
		lastEntry := i.readDirEntry(last)
		i.writeDirEntry(slot, lastEntry)
	}
	i.modifyDisk(func(di *diskinode.DiskInode) {
		di.Size -= layout.DirEntrySize
	})

	i.fs.SyncAll()
	return nil
}

// Ls returns a snapshot of this directory's entry names, in directory
// order.
func (i *Inode) Ls() []string {
	i.fs.Lock()
	defer i.fs.Unlock()

	n := i.dirEntryCount()
	names := make([]string, 0, n)
	for idx := 0; idx < n; idx++ {
		names = append(names, i.readDirEntry(idx).Name())
	}
	return names
}

// FindByID returns every name in this directory that maps to inode id —
// used to compute a hard-link count.
func (i *Inode) FindByID(id uint32) []string {
	i.fs.Lock()
	defer i.fs.Unlock()

	n := i.dirEntryCount()
	var names []string
	for idx := 0; idx < n; idx++ {
		e := i.readDirEntry(idx)
		if e.InodeID == id {
			names = append(names, e.Name())
		}
	}
	return names
}
