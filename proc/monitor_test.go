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

package proc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMonitor_AcquireReleaseBalanceAvail(t *testing.T) {
	m := NewMonitor()
	res := m.CreateRes(1)

	m.Acquire(1, res)
	assert.Equal(t, []int{0}, m.avail)
	_, unsafe := m.Check()
	assert.False(t, unsafe)

	m.Release(1, res)
	assert.Equal(t, []int{1}, m.avail)
	offender, unsafe := m.Check()
	assert.False(t, unsafe)
	assert.Zero(t, offender)
}

func TestMonitor_SafeStateWhenEachThreadCanFinish(t *testing.T) {
	m := NewMonitor()
	res := m.CreateRes(2)

	m.Acquire(1, res)
	m.Acquire(2, res)
	// Both threads hold one unit each of a 2-capacity resource and want
	// nothing further: trivially safe, everyone can finish immediately.
	_, unsafe := m.Check()
	assert.False(t, unsafe)
}

func TestMonitor_UnsafeCircularWait(t *testing.T) {
	m := NewMonitor()
	resA := m.CreateRes(1)
	resB := m.CreateRes(1)

	m.Acquire(1, resA)
	m.Acquire(2, resB)
	m.Need(1, resB) // thread 1 holds A, wants B
	m.Need(2, resA) // thread 2 holds B, wants A

	offender, unsafe := m.Check()
	assert.True(t, unsafe)
	assert.Contains(t, []int{1, 2}, offender)
}

func TestMonitor_ClearNeedUndoesRejectedRequest(t *testing.T) {
	m := NewMonitor()
	res := m.CreateRes(1)

	m.Acquire(1, res)
	m.Need(2, res)
	m.ClearNeed(2, res)

	_, unsafe := m.Check()
	assert.False(t, unsafe, "a cleared need must not be treated as outstanding")
}

func TestMonitor_CreateResGrowsExistingThreadRows(t *testing.T) {
	m := NewMonitor()
	first := m.CreateRes(1)
	m.Acquire(1, first)

	second := m.CreateRes(3)
	m.Acquire(1, second)
	m.Release(1, second)

	_, unsafe := m.Check()
	assert.False(t, unsafe)
}
