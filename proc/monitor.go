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

import "sync"

// Monitor is a per-process Banker's-algorithm bookkeeper: declared
// capacities, per-thread allocations, and per-thread outstanding needs for
// a growing set of resources (mutexes and semaphores share the same
// numbering). It is guarded by its own mutex, the process's
// exclusive-access cell.
type Monitor struct {
	mu sync.Mutex

	avail []int       // avail[r]
	alloc map[int][]int // alloc[tid][r]
	need  map[int][]int // need[tid][r]
}

// NewMonitor returns an empty monitor with no resources declared yet.
func NewMonitor() *Monitor {
	return &Monitor{
		alloc: make(map[int][]int),
		need:  make(map[int][]int),
	}
}

// CreateRes declares a new resource of the given capacity and returns its
// index, appending a column to avail/alloc/need.
func (m *Monitor) CreateRes(capacity int) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := len(m.avail)
	m.avail = append(m.avail, capacity)
	for tid := range m.alloc {
		m.alloc[tid] = append(m.alloc[tid], 0)
		m.need[tid] = append(m.need[tid], 0)
	}
	return id
}

func (m *Monitor) ensureThreadLocked(tid int) {
	if _, ok := m.alloc[tid]; ok {
		return
	}
	m.alloc[tid] = make([]int, len(m.avail))
	m.need[tid] = make([]int, len(m.avail))
}

// Need records that tid wants one unit of resid, unless it already has an
// outstanding need recorded (idempotent). Call immediately before a thread
// would block on resid.
func (m *Monitor) Need(tid, resid int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ensureThreadLocked(tid)
	if m.need[tid][resid] > 0 {
		return
	}
	m.need[tid][resid] = 1
}

// ClearNeed cancels a previously recorded Need without granting it — used
// to undo a Need when a deadlock check rejects the acquisition.
func (m *Monitor) ClearNeed(tid, resid int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ensureThreadLocked(tid)
	m.need[tid][resid] = 0
}

// Acquire grants one unit of resid to tid: avail decreases, alloc
// increases, any outstanding need is cleared.
func (m *Monitor) Acquire(tid, resid int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ensureThreadLocked(tid)
	m.avail[resid]--
	m.alloc[tid][resid]++
	m.need[tid][resid] = 0
}

// Release returns one unit of resid held by tid to the available pool.
func (m *Monitor) Release(tid, resid int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ensureThreadLocked(tid)
	m.avail[resid]++
	m.alloc[tid][resid]--
}

// Check runs the Banker's safety test: would granting every outstanding
// need still leave a terminating schedule for all threads? Returns the tid
// of an offending (unfinishable) thread, or unsafe=false if the state is
// safe.
func (m *Monitor) Check() (offender int, unsafe bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	work := make([]int, len(m.avail))
	copy(work, m.avail)

	finish := make(map[int]bool, len(m.alloc))
	for tid := range m.alloc {
		finish[tid] = false
	}

	for {
		progressed := false
		for tid, need := range m.need {
			if finish[tid] {
				continue
			}
			canFinish := true
			for r, n := range need {
				if n > work[r] {
					canFinish = false
					break
				}
			}
			if !canFinish {
				continue
			}
			for r, a := range m.alloc[tid] {
				work[r] += a
			}
			finish[tid] = true
			progressed = true
		}
		if !progressed {
			break
		}
	}

	for tid, done := range finish {
		if !done {
			return tid, true
		}
	}
	return 0, false
}
