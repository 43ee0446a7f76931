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

import "encoding/binary"

// NameMaxLen is the longest name a directory entry can hold.
const NameMaxLen = 27

// DirEntrySize is the fixed on-disk size of a directory entry: a
// 27-byte NUL-padded name, a little-endian u32 inode id, and one pad byte.
const DirEntrySize = 32

// DirEntry is a single (name, inode id) pair stored contiguously in a
// directory's data. The empty name is reserved as a free-slot marker and
// never appears live in a mounted directory.
type DirEntry struct {
	name    [NameMaxLen]byte
	InodeID uint32
}

// NewDirEntry builds a directory entry, panicking if name overflows the
// fixed name field — callers at the syscall boundary are expected to
// reject overlong names before reaching here.
func NewDirEntry(name string, inodeID uint32) DirEntry {
	if len(name) > NameMaxLen {
		panic("layout: directory entry name too long")
	}
	var d DirEntry
	copy(d.name[:], name)
	d.InodeID = inodeID
	return d
}

// Name returns the entry's name with NUL padding trimmed.
func (d DirEntry) Name() string {
	n := 0
	for n < NameMaxLen && d.name[n] != 0 {
		n++
	}
	return string(d.name[:n])
}

// Empty reports whether this is a free-slot marker.
func (d DirEntry) Empty() bool {
	return d.name[0] == 0
}

// MarshalBinary encodes the entry to its fixed 32-byte wire form.
func (d DirEntry) MarshalBinary() [DirEntrySize]byte {
	var buf [DirEntrySize]byte
	copy(buf[0:NameMaxLen], d.name[:])
	binary.LittleEndian.PutUint32(buf[NameMaxLen:NameMaxLen+4], d.InodeID)
	return buf
}

// UnmarshalDirEntry decodes a directory entry from its 32-byte wire form.
func UnmarshalDirEntry(buf []byte) DirEntry {
	var d DirEntry
	copy(d.name[:], buf[0:NameMaxLen])
	d.InodeID = binary.LittleEndian.Uint32(buf[NameMaxLen : NameMaxLen+4])
	return d
}
