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

// Package kernsys unifies the filesystem and synchronization syscall
// surfaces behind a single per-process file-descriptor table and
// synchronization-object table.
package kernsys

import (
	"sync"

	"github.com/LearningOS/2024a-rcore-Carbrevo/fs"
)

const (
	// ReadOnly, WriteOnly and ReadWrite mirror the open() flag vocabulary
	// the syscall layer exposes.
	ReadOnly = iota
	WriteOnly
	ReadWrite
)

type fileDescriptor struct {
	inode    *fs.Inode
	readable bool
	writable bool
}

// FileTable is a per-process table of open files, all resolved against a
// single flat root directory (no pathname traversal beyond it).
type FileTable struct {
	root *fs.Inode

	mu      sync.Mutex
	entries map[int]*fileDescriptor
	next    int
}

// NewFileTable returns an empty table rooted at the filesystem's root
// directory.
func NewFileTable(fsys *fs.FileSystem) *FileTable {
	return &FileTable{root: fsys.RootInode(), entries: make(map[int]*fileDescriptor)}
}

// Open resolves path against the root directory, creating it first if it
// does not exist (for every flags value; flags only set readability and
// writability). Returns -1 on failure.
func (t *FileTable) Open(path string, flags int) int {
	inode, ok := t.root.Find(path)
	if !ok {
		var err error
		inode, err = t.root.Create(path)
		if err != nil {
			return -1
		}
	}

	readable := flags != WriteOnly
	writable := flags != ReadOnly

	t.mu.Lock()
	defer t.mu.Unlock()
	fd := t.next
	t.next++
	t.entries[fd] = &fileDescriptor{inode: inode, readable: readable, writable: writable}
	return fd
}

func (t *FileTable) get(fd int) (*fileDescriptor, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	f, ok := t.entries[fd]
	return f, ok
}

// Close removes fd from the table. Returns -1 if fd is not open.
func (t *FileTable) Close(fd int) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.entries[fd]; !ok {
		return -1
	}
	delete(t.entries, fd)
	return 0
}

// Read reads into buf from fd at offset (this table does not track a
// cursor across calls — callers pass the offset they want via a
// higher-level wrapper if sequential semantics are needed). Returns -1 on
// a bad or write-only fd.
func (t *FileTable) Read(fd int, offset int, buf []byte) int {
	f, ok := t.get(fd)
	if !ok || !f.readable {
		return -1
	}
	return f.inode.ReadAt(offset, buf)
}

// Write writes buf to fd at offset. Returns -1 on a bad or read-only fd,
// or on out-of-space.
func (t *FileTable) Write(fd int, offset int, buf []byte) int {
	f, ok := t.get(fd)
	if !ok || !f.writable {
		return -1
	}
	n, err := f.inode.WriteAt(offset, buf)
	if err != nil {
		return -1
	}
	return n
}

// Stat mirrors the syscall surface's fstat record.
type Stat struct {
	Dev   uint64
	Ino   uint64
	Mode  uint32
	Nlink uint32
}

const (
	StatModeDir  = 0o040000
	StatModeFile = 0o100000
)

// Fstat fills out with fd's metadata, computing Nlink by scanning the
// root directory for every entry naming the same inode id. Returns -1 on
// a bad fd.
func (t *FileTable) Fstat(fd int, out *Stat) int {
	f, ok := t.get(fd)
	if !ok {
		return -1
	}

	id := f.inode.InodeID()
	mode := uint32(StatModeFile)
	if f.inode.Mode() == fs.ModeDirectory {
		mode = StatModeDir
	}

	*out = Stat{
		Ino:   uint64(id),
		Mode:  mode,
		Nlink: uint32(len(t.root.FindByID(id))),
	}
	return 0
}

// Linkat creates a new name referencing old's inode. Returns -1 if old is
// missing or old == new.
func Linkat(root *fs.Inode, old, new string) int {
	if old == new {
		return -1
	}
	if err := root.Link(old, new); err != nil {
		return -1
	}
	return 0
}

// Unlinkat removes name from the root directory. Returns -1 if missing.
func Unlinkat(root *fs.Inode, name string) int {
	if err := root.Unlink(name); err != nil {
		return -1
	}
	return 0
}

// Root exposes the table's root directory handle, for Linkat/Unlinkat
// callers that operate outside any single fd.
func (t *FileTable) Root() *fs.Inode { return t.root }
