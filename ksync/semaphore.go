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

// Semaphore is a counting semaphore with a FIFO wait queue, backed by the
// same Banker's-bookkeeping every primitive in this package shares.
type Semaphore struct {
	res
	mu      sync.Mutex
	count   int
	waiters common.Queue[proc.Thread]
}

// NewSemaphore registers a capacity-k resource with process and returns a
// semaphore initialized to k.
func NewSemaphore(sched proc.Scheduler, process proc.Process, k int) *Semaphore {
	resID := process.Monitor().CreateRes(k)
	return &Semaphore{
		res:     res{sched: sched, resID: resID},
		count:   k,
		waiters: common.NewLinkedListQueue[proc.Thread](),
	}
}

// Down decrements the count, returning 0 on success or DeadlockErr. A
// decrement that drives count negative blocks the caller (after a
// successful safety check); a decrement that stays non-negative is an
// immediate acquire.
func (s *Semaphore) Down(ctx context.Context) int {
	s.mu.Lock()
	s.count--
	negative := s.count < 0
	s.mu.Unlock()

	if !negative {
		s.acquire(ctx)
		return 0
	}

	s.need(ctx)
	if _, unsafe := s.check(ctx); unsafe {
		s.clearNeed(ctx)
		s.mu.Lock()
		s.count++
		s.mu.Unlock()
		return DeadlockErr
	}

	t := s.sched.CurrentTask(ctx)
	s.mu.Lock()
	s.waiters.Push(t)
	s.mu.Unlock()

	s.sched.Block(ctx)
	s.acquire(ctx)
	return 0
}

// Up increments the count. Preserves the source behavior of calling
// acquire (not release) on up: the monitor treats an up as producing a
// unit a future down will consume, which is what keeps
// avail + sum(alloc) == capacity consistent across both primitive
// flavors (see DESIGN.md).
func (s *Semaphore) Up(ctx context.Context) {
	s.mu.Lock()
	s.count++
	wake := s.count <= 0
	var t proc.Thread
	if wake && !s.waiters.IsEmpty() {
		t = s.waiters.Pop()
	}
	s.mu.Unlock()

	s.acquire(ctx)
	if t != nil {
		s.sched.Wakeup(t)
	}
}
