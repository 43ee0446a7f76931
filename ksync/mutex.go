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

package ksync

import (
	"context"
	"sync"

	"github.com/LearningOS/2024a-rcore-Carbrevo/common"
	"github.com/LearningOS/2024a-rcore-Carbrevo/proc"
)

// SpinMutex is the busy-wait mutex flavor: contended callers yield to the
// scheduler and retry rather than parking.
type SpinMutex struct {
	res
	mu     sync.Mutex
	locked bool
}

// NewSpinMutex registers a capacity-1 resource with process and returns a
// mutex bound to it.
func NewSpinMutex(sched proc.Scheduler, process proc.Process) *SpinMutex {
	resID := process.Monitor().CreateRes(1)
	return &SpinMutex{res: res{sched: sched, resID: resID}}
}

// Lock acquires the mutex, returning 0 on success or DeadlockErr if taking
// it would leave the process's resource monitor unsafe.
func (m *SpinMutex) Lock(ctx context.Context) int {
	for {
		m.mu.Lock()
		if !m.locked {
			m.locked = true
			m.mu.Unlock()
			m.acquire(ctx)
			return 0
		}
		m.mu.Unlock()

		m.need(ctx)
		if _, unsafe := m.check(ctx); unsafe {
			m.clearNeed(ctx)
			return DeadlockErr
		}
		m.sched.Suspend(ctx)
	}
}

// Unlock releases the mutex. Panics if called while not held.
func (m *SpinMutex) Unlock(ctx context.Context) {
	m.mu.Lock()
	if !m.locked {
		m.mu.Unlock()
		panic("ksync: unlock of unlocked spin mutex")
	}
	m.locked = false
	m.mu.Unlock()
	m.release(ctx)
}

// BlockingMutex is the parking mutex flavor: a contended caller is queued
// FIFO and parked via the scheduler instead of spinning.
type BlockingMutex struct {
	res
	mu      sync.Mutex
	locked  bool
	waiters common.Queue[proc.Thread]
}

// NewBlockingMutex registers a capacity-1 resource with process and
// returns a mutex bound to it.
func NewBlockingMutex(sched proc.Scheduler, process proc.Process) *BlockingMutex {
	resID := process.Monitor().CreateRes(1)
	return &BlockingMutex{
		res:     res{sched: sched, resID: resID},
		waiters: common.NewLinkedListQueue[proc.Thread](),
	}
}

// Lock acquires the mutex, returning 0 on success or DeadlockErr. Unlike
// the literal source this implementation runs the deadlock check before
// joining the wait queue: a rejected caller must never become a waiter,
// so the check-then-enqueue order is load-bearing, not cosmetic (see
// DESIGN.md).
func (m *BlockingMutex) Lock(ctx context.Context) int {
	m.mu.Lock()
	if !m.locked {
		m.locked = true
		m.mu.Unlock()
		m.acquire(ctx)
		return 0
	}
	m.mu.Unlock()

	m.need(ctx)
	if _, unsafe := m.check(ctx); unsafe {
		m.clearNeed(ctx)
		return DeadlockErr
	}

	t := m.sched.CurrentTask(ctx)
	m.mu.Lock()
	m.waiters.Push(t)
	m.mu.Unlock()

	m.sched.Block(ctx)
	// Woken by Unlock's handoff: ownership transferred without the
	// releasing side calling acquire on our behalf, so we record it now.
	m.acquire(ctx)
	return 0
}

// Unlock releases the mutex. If a waiter is queued, ownership is handed
// off directly to it (locked stays true) instead of being cleared.
func (m *BlockingMutex) Unlock(ctx context.Context) {
	m.mu.Lock()
	if !m.locked {
		m.mu.Unlock()
		panic("ksync: unlock of unlocked blocking mutex")
	}

	var wake proc.Thread
	if !m.waiters.IsEmpty() {
		wake = m.waiters.Pop()
	} else {
		m.locked = false
	}
	m.mu.Unlock()

	m.release(ctx)
	if wake != nil {
		m.sched.Wakeup(wake)
	}
}
