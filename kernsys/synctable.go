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
	"context"
	"sync"

	"github.com/LearningOS/2024a-rcore-Carbrevo/ksync"
	"github.com/LearningOS/2024a-rcore-Carbrevo/proc"
)

// mutex is the narrow shape both SpinMutex and BlockingMutex share, so
// SyncTable can hold either behind one interface.
type mutex interface {
	Lock(ctx context.Context) int
	Unlock(ctx context.Context)
}

// SyncTable is a per-process table of synchronization objects (both mutex
// flavors and semaphores), numbered by a single shared id space the way
// the syscall surface expects.
type SyncTable struct {
	sched   proc.Scheduler
	process proc.Process

	mu      sync.Mutex
	mutexes map[int]mutex
	sems    map[int]*ksync.Semaphore
	next    int
}

// NewSyncTable returns an empty table bound to sched and process.
func NewSyncTable(sched proc.Scheduler, process proc.Process) *SyncTable {
	return &SyncTable{
		sched:   sched,
		process: process,
		mutexes: make(map[int]mutex),
		sems:    make(map[int]*ksync.Semaphore),
	}
}

// MutexCreate registers a new mutex, spin or blocking per the flag, and
// returns its id.
func (t *SyncTable) MutexCreate(blocking bool) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	id := t.next
	t.next++
	if blocking {
		t.mutexes[id] = ksync.NewBlockingMutex(t.sched, t.process)
	} else {
		t.mutexes[id] = ksync.NewSpinMutex(t.sched, t.process)
	}
	return id
}

// MutexLock locks mutex id, returning 0 or ksync.DeadlockErr.
func (t *SyncTable) MutexLock(ctx context.Context, id int) int {
	t.mu.Lock()
	m, ok := t.mutexes[id]
	t.mu.Unlock()
	if !ok {
		return -1
	}
	return m.Lock(ctx)
}

// MutexUnlock unlocks mutex id.
func (t *SyncTable) MutexUnlock(ctx context.Context, id int) int {
	t.mu.Lock()
	m, ok := t.mutexes[id]
	t.mu.Unlock()
	if !ok {
		return -1
	}
	m.Unlock(ctx)
	return 0
}

// SemaphoreCreate registers a new counting semaphore of initial value k,
// returning its id.
func (t *SyncTable) SemaphoreCreate(k int) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	id := t.next
	t.next++
	t.sems[id] = ksync.NewSemaphore(t.sched, t.process, k)
	return id
}

// SemaphoreUp increments semaphore id, waking a waiter if one is queued.
func (t *SyncTable) SemaphoreUp(ctx context.Context, id int) int {
	t.mu.Lock()
	s, ok := t.sems[id]
	t.mu.Unlock()
	if !ok {
		return -1
	}
	s.Up(ctx)
	return 0
}

// SemaphoreDown decrements semaphore id, returning 0 or ksync.DeadlockErr.
func (t *SyncTable) SemaphoreDown(ctx context.Context, id int) int {
	t.mu.Lock()
	s, ok := t.sems[id]
	t.mu.Unlock()
	if !ok {
		return -1
	}
	return s.Down(ctx)
}

// EnableDeadlockDetect toggles the owning process's Banker's-algorithm
// safety check.
func EnableDeadlockDetect(process proc.Process, enabled bool) {
	process.SetDetectDeadlock(enabled)
}
