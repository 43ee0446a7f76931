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
	"sync"
	"testing"
	"time"

	"github.com/LearningOS/2024a-rcore-Carbrevo/proc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSemaphore_DownSucceedsImmediatelyWhenAvailable(t *testing.T) {
	sched := proc.NewGoroutineScheduler()
	process := proc.NewGoroutineProcess()
	sem := NewSemaphore(sched, process, 1)

	ctx := ctxFor(process, 1)
	assert.Equal(t, 0, sem.Down(ctx))
}

func TestSemaphore_DownBlocksUntilUp(t *testing.T) {
	sched := proc.NewGoroutineScheduler()
	process := proc.NewGoroutineProcess()
	sem := NewSemaphore(sched, process, 0)

	done := make(chan int, 1)
	go func() {
		done <- sem.Down(ctxFor(process, 1))
	}()

	time.Sleep(20 * time.Millisecond)
	sem.Up(ctxFor(process, 2))

	select {
	case result := <-done:
		assert.Equal(t, 0, result)
	case <-time.After(time.Second):
		t.Fatal("semaphore never woke the waiting thread")
	}
}

func TestSemaphore_WakesWaitersInFIFOOrder(t *testing.T) {
	sched := proc.NewGoroutineScheduler()
	process := proc.NewGoroutineProcess()
	sem := NewSemaphore(sched, process, 0)

	const waiters = 4
	var mu sync.Mutex
	var order []int
	var wg sync.WaitGroup
	wg.Add(waiters)

	for i := 1; i <= waiters; i++ {
		tid := i
		go func() {
			defer wg.Done()
			sem.Down(ctxFor(process, tid))
			mu.Lock()
			order = append(order, tid)
			mu.Unlock()
		}()
		// Stagger starts so threads join the wait queue in a known order.
		time.Sleep(10 * time.Millisecond)
	}

	for i := 0; i < waiters; i++ {
		time.Sleep(10 * time.Millisecond)
		sem.Up(ctxFor(process, 0))
	}

	wg.Wait()
	assert.Equal(t, []int{1, 2, 3, 4}, order)
}

func TestSemaphore_DeadlockRejectionRestoresCount(t *testing.T) {
	sched := proc.NewGoroutineScheduler()
	process := proc.NewGoroutineProcess()
	process.SetDetectDeadlock(true)
	sem := NewSemaphore(sched, process, 0)

	// Thread 1 holds some other mutex and also wants the semaphore's unit
	// (simulated directly on the monitor, since driving it there for real
	// would need a second blocked goroutine). With nobody ever positioned
	// to produce that unit, thread 2 blocking on it too is unsafe.
	other := NewBlockingMutex(sched, process)
	ctx1 := ctxFor(process, 1)
	require.Equal(t, 0, other.Lock(ctx1))
	process.Monitor().Need(1, 0) // thread 1 also wants the semaphore's resource (id 0)

	result := sem.Down(ctxFor(process, 2))
	assert.Equal(t, DeadlockErr, result)

	// A later Down by a fresh thread should still see the original count:
	// the rejected Down must not have left count permanently decremented
	// beyond what a real acquire would do.
	sem.Up(ctxFor(process, 3))
	assert.Equal(t, 0, sem.Down(ctxFor(process, 4)))
}
