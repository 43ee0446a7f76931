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

package blockdev

// MemDevice is an in-memory BlockDevice, used by tests in place of a real
// disk image.
type MemDevice struct {
	id     uint32
	blocks [][BlockSize]byte
}

// NewMemDevice allocates a zeroed in-memory device of totalBlocks blocks.
func NewMemDevice(id uint32, totalBlocks uint32) *MemDevice {
	return &MemDevice{id: id, blocks: make([][BlockSize]byte, totalBlocks)}
}

func (d *MemDevice) DeviceID() uint32 { return d.id }

func (d *MemDevice) ReadBlock(id uint32, buf *[BlockSize]byte) {
	if int(id) >= len(d.blocks) {
		panic("blockdev: fatal read past end of mem device")
	}
	*buf = d.blocks[id]
}

func (d *MemDevice) WriteBlock(id uint32, buf *[BlockSize]byte) {
	if int(id) >= len(d.blocks) {
		panic("blockdev: fatal write past end of mem device")
	}
	d.blocks[id] = *buf
}

// TotalBlocks reports the device's fixed block count.
func (d *MemDevice) TotalBlocks() uint32 { return uint32(len(d.blocks)) }
