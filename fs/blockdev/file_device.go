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

import (
	"fmt"
	"os"
)

// FileDevice backs a BlockDevice with a single regular file: block id i
// lives at byte offset i*BlockSize. This is the only real collaborator the
// core ships with; the trap/driver layer that would back it with an actual
// disk is out of scope.
type FileDevice struct {
	id uint32
	f  *os.File
}

// OpenFileDevice opens (creating if necessary) path as a block device image
// of at least totalBlocks blocks.
func OpenFileDevice(path string, id uint32, totalBlocks uint32) (*FileDevice, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, fmt.Errorf("blockdev: open %s: %w", path, err)
	}

	size := int64(totalBlocks) * BlockSize
	if err := f.Truncate(size); err != nil {
		f.Close()
		return nil, fmt.Errorf("blockdev: truncate %s: %w", path, err)
	}

	return &FileDevice{id: id, f: f}, nil
}

func (d *FileDevice) DeviceID() uint32 { return d.id }

func (d *FileDevice) ReadBlock(id uint32, buf *[BlockSize]byte) {
	if _, err := d.f.ReadAt(buf[:], int64(id)*BlockSize); err != nil {
		panic(fmt.Sprintf("blockdev: fatal read of block %d: %v", id, err))
	}
}

func (d *FileDevice) WriteBlock(id uint32, buf *[BlockSize]byte) {
	if _, err := d.f.WriteAt(buf[:], int64(id)*BlockSize); err != nil {
		panic(fmt.Sprintf("blockdev: fatal write of block %d: %v", id, err))
	}
}

// Close releases the underlying file handle.
func (d *FileDevice) Close() error {
	return d.f.Close()
}
