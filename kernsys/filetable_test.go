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

package kernsys

import (
	"testing"

	"github.com/LearningOS/2024a-rcore-Carbrevo/fs"
	"github.com/LearningOS/2024a-rcore-Carbrevo/fs/blockdev"
	"github.com/LearningOS/2024a-rcore-Carbrevo/fs/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTable(t *testing.T) *FileTable {
	t.Helper()
	dev := blockdev.NewMemDevice(0, 4096)
	c := cache.New(16)
	fsys, err := fs.Format(dev, 4096, c)
	require.NoError(t, err)
	return NewFileTable(fsys)
}

func TestOpen_CreatesMissingFileAndReturnsUsableFD(t *testing.T) {
	table := newTestTable(t)

	fd := table.Open("a.txt", ReadWrite)
	require.GreaterOrEqual(t, fd, 0)

	n := table.Write(fd, 0, []byte("hello"))
	assert.Equal(t, 5, n)

	buf := make([]byte, 5)
	n = table.Read(fd, 0, buf)
	assert.Equal(t, 5, n)
	assert.Equal(t, "hello", string(buf))
}

func TestOpen_ReadOnlyRejectsWrite(t *testing.T) {
	table := newTestTable(t)
	fd := table.Open("ro.txt", ReadOnly)
	assert.Equal(t, -1, table.Write(fd, 0, []byte("x")))
}

func TestOpen_WriteOnlyRejectsRead(t *testing.T) {
	table := newTestTable(t)
	fd := table.Open("wo.txt", WriteOnly)
	buf := make([]byte, 1)
	assert.Equal(t, -1, table.Read(fd, 0, buf))
}

func TestClose_InvalidatesFD(t *testing.T) {
	table := newTestTable(t)
	fd := table.Open("c.txt", ReadWrite)
	require.Equal(t, 0, table.Close(fd))

	assert.Equal(t, -1, table.Close(fd))
	assert.Equal(t, -1, table.Read(fd, 0, make([]byte, 1)))
}

func TestFstat_ReportsKindAndLinkCount(t *testing.T) {
	table := newTestTable(t)
	fd := table.Open("linked.txt", ReadWrite)

	require.Equal(t, 0, Linkat(table.Root(), "linked.txt", "alias.txt"))

	var st Stat
	require.Equal(t, 0, table.Fstat(fd, &st))
	assert.Equal(t, uint32(StatModeFile), st.Mode)
	assert.Equal(t, uint32(2), st.Nlink)
}

func TestFstat_InvalidFDFails(t *testing.T) {
	table := newTestTable(t)
	var st Stat
	assert.Equal(t, -1, table.Fstat(999, &st))
}

func TestLinkat_SameNameFails(t *testing.T) {
	table := newTestTable(t)
	table.Open("same.txt", ReadWrite)
	assert.Equal(t, -1, Linkat(table.Root(), "same.txt", "same.txt"))
}

func TestUnlinkat_RemovesName(t *testing.T) {
	table := newTestTable(t)
	table.Open("gone.txt", ReadWrite)

	require.Equal(t, 0, Unlinkat(table.Root(), "gone.txt"))
	assert.Equal(t, -1, Unlinkat(table.Root(), "gone.txt"))
}
