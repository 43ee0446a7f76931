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

// Package layout defines the fixed, bit-exact on-disk formats: the
// superblock, bitmap geometry, and directory entries. Nothing here
// depends on the block cache or a live device — it is pure layout
// arithmetic and (de)serialization, with explicit little-endian field
// encoding rather than reflection since the field set never changes.
package layout

import (
	"encoding/binary"

	"github.com/LearningOS/2024a-rcore-Carbrevo/fs/blockdev"
)

// Magic identifies a formatted device (little-endian u32).
const Magic = 0x3b800001

// SuperblockSize is the on-disk size of the superblock record. It occupies
// block 0 in full; the remainder of the block is unused padding.
const SuperblockSize = 6 * 4

// BytesPerInode is the format-time policy: one inode slot per 4 KiB of
// device capacity.
const BytesPerInode = 0x1000

// DiskInodeSize is the fixed on-disk size of a disk inode.
const DiskInodeSize = 128

// InodesPerBlock is how many 128-byte disk inodes pack into one 512-byte
// block.
const InodesPerBlock = blockdev.BlockSize / DiskInodeSize

// BitsPerBlock is how many allocation bits one bitmap block tracks.
const BitsPerBlock = blockdev.BlockSize * 8

// Superblock is the immutable-after-format device header stored in block 0.
type Superblock struct {
	Magic             uint32
	TotalBlocks       uint32
	InodeBitmapBlocks uint32
	InodeAreaBlocks   uint32
	DataBitmapBlocks  uint32
	DataAreaBlocks    uint32
}

// MarshalBinary encodes the superblock little-endian into a fresh
// block-sized buffer.
func (s *Superblock) MarshalBinary() [blockdev.BlockSize]byte {
	var buf [blockdev.BlockSize]byte
	binary.LittleEndian.PutUint32(buf[0:4], s.Magic)
	binary.LittleEndian.PutUint32(buf[4:8], s.TotalBlocks)
	binary.LittleEndian.PutUint32(buf[8:12], s.InodeBitmapBlocks)
	binary.LittleEndian.PutUint32(buf[12:16], s.InodeAreaBlocks)
	binary.LittleEndian.PutUint32(buf[16:20], s.DataBitmapBlocks)
	binary.LittleEndian.PutUint32(buf[20:24], s.DataAreaBlocks)
	return buf
}

// UnmarshalBinary decodes a superblock from a block-sized buffer.
func (s *Superblock) UnmarshalBinary(buf *[blockdev.BlockSize]byte) {
	s.Magic = binary.LittleEndian.Uint32(buf[0:4])
	s.TotalBlocks = binary.LittleEndian.Uint32(buf[4:8])
	s.InodeBitmapBlocks = binary.LittleEndian.Uint32(buf[8:12])
	s.InodeAreaBlocks = binary.LittleEndian.Uint32(buf[12:16])
	s.DataBitmapBlocks = binary.LittleEndian.Uint32(buf[16:20])
	s.DataAreaBlocks = binary.LittleEndian.Uint32(buf[20:24])
}

// Valid reports whether the superblock carries the expected magic.
func (s *Superblock) Valid() bool {
	return s.Magic == Magic
}

// Geometry is the derived, fixed region layout computed once at format
// time: block 0 is the superblock, followed by the inode
// bitmap, the inode area, the data bitmap, then the data region filling
// the remainder of the device.
type Geometry struct {
	Super Superblock
}

// ceilDiv computes ceil(a/b) for non-negative integers without overflow
// for the block counts this package deals in.
func ceilDiv(a, b uint32) uint32 {
	if a == 0 {
		return 0
	}
	return (a + b - 1) / b
}

// ComputeGeometry derives the on-disk region layout for a device of
// totalBlocks blocks, following the format-time policy of one
// inode per 4 KiB, inode bitmap and inode area sized to match, data bitmap
// and data area filling what remains after the superblock.
//
// total blocks must be large enough to hold at least the superblock, one
// inode bitmap block, one inode block (four inodes, enough for the root
// directory), and at least one data bitmap block plus one data block; the
// caller should treat a returned zero DataAreaBlocks as "device too small".
func ComputeGeometry(totalBlocks uint32) Geometry {
	totalBytes := uint64(totalBlocks) * blockdev.BlockSize
	inodeCount := ceilDiv(uint32(ceilDivU64(totalBytes, BytesPerInode)), 1)

	inodeBitmapBlocks := ceilDiv(inodeCount, BitsPerBlock)
	inodeAreaBlocks := ceilDiv(inodeCount, InodesPerBlock)

	if totalBlocks <= 1+inodeBitmapBlocks+inodeAreaBlocks {
		return Geometry{Super: Superblock{
			Magic:             Magic,
			TotalBlocks:       totalBlocks,
			InodeBitmapBlocks: inodeBitmapBlocks,
			InodeAreaBlocks:   inodeAreaBlocks,
		}}
	}

	// Remaining blocks after the superblock and inode region are split
	// between the data bitmap and the data region it tracks. Because the
	// data bitmap's own size depends on how many data blocks it must
	// cover (which depends on its own size), solve by iterating: each
	// data bitmap block can track BitsPerBlock data blocks, so guess low
	// and grow until the bitmap is big enough to cover everything left.
	remaining := totalBlocks - 1 - inodeBitmapBlocks - inodeAreaBlocks
	dataBitmapBlocks := ceilDiv(remaining, BitsPerBlock+1)
	for dataBitmapBlocks*BitsPerBlock < remaining-dataBitmapBlocks {
		dataBitmapBlocks++
	}
	dataAreaBlocks := remaining - dataBitmapBlocks

	return Geometry{Super: Superblock{
		Magic:             Magic,
		TotalBlocks:       totalBlocks,
		InodeBitmapBlocks: inodeBitmapBlocks,
		InodeAreaBlocks:   inodeAreaBlocks,
		DataBitmapBlocks:  dataBitmapBlocks,
		DataAreaBlocks:    dataAreaBlocks,
	}}
}

func ceilDivU64(a, b uint64) uint64 {
	if a == 0 {
		return 0
	}
	return (a + b - 1) / b
}

// InodeBitmapStart is the first block of the inode bitmap region.
func (g Geometry) InodeBitmapStart() uint32 { return 1 }

// InodeAreaStart is the first block of the inode table.
func (g Geometry) InodeAreaStart() uint32 {
	return g.InodeBitmapStart() + g.Super.InodeBitmapBlocks
}

// DataBitmapStart is the first block of the data bitmap region.
func (g Geometry) DataBitmapStart() uint32 {
	return g.InodeAreaStart() + g.Super.InodeAreaBlocks
}

// DataAreaStart is the first block of the data region.
func (g Geometry) DataAreaStart() uint32 {
	return g.DataBitmapStart() + g.Super.DataBitmapBlocks
}

// DiskInodePos maps an inode id to its (block id, in-block byte offset).
// Inode id 0 is always the root directory.
func (g Geometry) DiskInodePos(inodeID uint32) (blockID uint32, offset int) {
	blockID = g.InodeAreaStart() + inodeID/InodesPerBlock
	offset = int(inodeID%InodesPerBlock) * DiskInodeSize
	return
}

// DiskInodeID is the inverse of DiskInodePos.
func (g Geometry) DiskInodeID(blockID uint32, offset int) uint32 {
	return (blockID-g.InodeAreaStart())*InodesPerBlock + uint32(offset/DiskInodeSize)
}
