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
	"context"
	"runtime"
	"sync"
)

// goroutineThread is a Thread identity backed by a plain integer tid; real
// goroutines carry it via context, never by inspecting runtime state.
type goroutineThread int

func (t goroutineThread) TID() int { return int(t) }

// goroutineProcess is a reference Process: one shared Monitor and a
// deadlock-detection toggle, guarded by its own mutex.
type goroutineProcess struct {
	mu             sync.Mutex
	monitor        *Monitor
	detectDeadlock bool
}

// NewGoroutineProcess returns a Process suitable for tests and the demo
// CLI: a fresh Monitor, detection off by default.
func NewGoroutineProcess() Process {
	return &goroutineProcess{monitor: NewMonitor()}
}

func (p *goroutineProcess) Monitor() *Monitor { return p.monitor }

func (p *goroutineProcess) DetectDeadlock() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.detectDeadlock
}

func (p *goroutineProcess) SetDetectDeadlock(v bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.detectDeadlock = v
}

// GoroutineScheduler is a reference Scheduler: each logical thread is a Go
// goroutine, Suspend cooperatively yields via runtime.Gosched, and
// Block/Wakeup park/unpark through a per-thread unbuffered channel (each
// Wakeup sends from its own goroutine). It makes
// no attempt at real preemption — good enough to drive blocking/wakeup and
// deadlock detection deterministically in tests.
type GoroutineScheduler struct {
	mu      sync.Mutex
	parking map[int]chan struct{}
}

// NewGoroutineScheduler returns an empty scheduler ready to park threads.
func NewGoroutineScheduler() *GoroutineScheduler {
	return &GoroutineScheduler{parking: make(map[int]chan struct{})}
}

func (s *GoroutineScheduler) CurrentTask(ctx context.Context) Thread {
	return ThreadFromContext(ctx)
}

func (s *GoroutineScheduler) CurrentProcess(ctx context.Context) Process {
	return ProcessFromContext(ctx)
}

func (s *GoroutineScheduler) Suspend(ctx context.Context) {
	runtime.Gosched()
}

func (s *GoroutineScheduler) parkChanFor(tid int) chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch, ok := s.parking[tid]
	if !ok {
		ch = make(chan struct{})
		s.parking[tid] = ch
	}
	return ch
}

// Block parks the current thread until Wakeup(t) is called for the same
// tid. The wait queue the caller pushed itself onto before calling Block
// is what makes Wakeup findable; this method only handles the park itself.
func (s *GoroutineScheduler) Block(ctx context.Context) {
	tid := s.CurrentTask(ctx).TID()
	ch := s.parkChanFor(tid)
	<-ch
}

// Wakeup unblocks the thread identified by t.TID(), if and when it is
// parked. Safe to call before the target has reached Block: the channel
// send blocks until a receiver is parked, matching "wakeups grant the
// resource directly" — the caller is expected to have already handed off
// ownership before calling Wakeup.
func (s *GoroutineScheduler) Wakeup(t Thread) {
	ch := s.parkChanFor(t.TID())
	go func() { ch <- struct{}{} }()
}
