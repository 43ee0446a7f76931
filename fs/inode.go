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
	"github.com/LearningOS/2024a-rcore-Carbrevo/fs/blockdev"
	"github.com/LearningOS/2024a-rcore-Carbrevo/fs/diskinode"
	"github.com/LearningOS/2024a-rcore-Carbrevo/fs/layout"
)

// Mode is the inode kind exposed to stat-like callers.
type Mode int

const (
	ModeNull Mode = iota
	ModeFile
	ModeDirectory
)

// Inode is a transient handle onto a disk inode: its (block id, in-block
// offset) plus a shared reference to the owning filesystem. Multiple
// handles may name the same disk inode — hard links and reopening both
// produce independent Inode values with identical (blockID, blockOffset).
type Inode struct {
	fs          *FileSystem
	blockID     uint32
	blockOffset int
}

// InodeID recovers the inode id this handle addresses.
func (i *Inode) InodeID() uint32 {
	return i.fs.DiskInodeID(i.blockID, i.blockOffset)
}

// readDisk runs fn over the current on-disk inode record without writing
// it back.
func (i *Inode) readDisk(fn func(*diskinode.DiskInode)) {
	i.fs.store.WithBlock(i.blockID, false, func(buf *[blockdev.BlockSize]byte) {
		var di diskinode.DiskInode
		di.UnmarshalBinary(buf[i.blockOffset : i.blockOffset+diskinode.Size])
		fn(&di)
	})
}

// modifyDisk runs fn over the current on-disk inode record and writes the
// (possibly mutated) result back.
func (i *Inode) modifyDisk(fn func(*diskinode.DiskInode)) {
	i.fs.store.WithBlock(i.blockID, true, func(buf *[blockdev.BlockSize]byte) {
		var di diskinode.DiskInode
		di.UnmarshalBinary(buf[i.blockOffset : i.blockOffset+diskinode.Size])
		fn(&di)
		enc := di.MarshalBinary()
		copy(buf[i.blockOffset:i.blockOffset+diskinode.Size], enc[:])
	})
}

// Mode reports whether this handle names a file or a directory.
func (i *Inode) Mode() Mode {
	var m Mode
	i.readDisk(func(di *diskinode.DiskInode) {
		if di.IsDir() {
			m = ModeDirectory
		} else {
			m = ModeFile
		}
	})
	return m
}

// inodeAt builds a handle for inode id, without taking the filesystem lock.
func (f *FileSystem) inodeAt(id uint32) *Inode {
	blockID, offset := f.DiskInodePos(id)
	return &Inode{fs: f, blockID: blockID, blockOffset: offset}
}

// dirEntryCount returns the directory's current entry count (size/32).
func (i *Inode) dirEntryCount() int {
	var size uint32
	i.readDisk(func(di *diskinode.DiskInode) { size = di.Size })
	return int(size) / layout.DirEntrySize
}

// readDirEntry reads the n-th directory entry (0-based).
func (i *Inode) readDirEntry(n int) layout.DirEntry {
	buf := make([]byte, layout.DirEntrySize)
	i.readDisk(func(di *diskinode.DiskInode) {
		di.ReadAt(i.fs.store, n*layout.DirEntrySize, buf)
	})
	return layout.UnmarshalDirEntry(buf)
}

// writeDirEntry writes a directory entry at slot n. It does not grow the
// directory: slot n must already lie within its size (appendEntryLocked
// grows the directory before calling it).
func (i *Inode) writeDirEntry(n int, e layout.DirEntry) {
	enc := e.MarshalBinary()
	i.modifyDisk(func(di *diskinode.DiskInode) {
		di.WriteAt(i.fs.store, n*layout.DirEntrySize, enc[:])
	})
}
