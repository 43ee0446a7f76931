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

// Package ksync implements the in-kernel synchronization primitives: two
// mutex flavors and a counting semaphore, all sharing Banker's-algorithm
// bookkeeping through the process's proc.Monitor.
package ksync

import (
	"context"

	"github.com/LearningOS/2024a-rcore-Carbrevo/proc"
)

// DeadlockErr is the sentinel a lock/down call returns when granting it
// would leave the process's resource monitor in an unsafe state.
const DeadlockErr = -0xDEAD

// res is the shared Banker's-bookkeeping glue every primitive embeds: the
// idiomatic-Go analogue of a trait with default method bodies. It holds no
// state of its own beyond which resource index it was assigned at
// creation; the monitor it calls into lives on the process reached via
// the scheduler.
type res struct {
	sched proc.Scheduler
	resID int
}

func (r *res) monitor(ctx context.Context) *proc.Monitor {
	return r.sched.CurrentProcess(ctx).Monitor()
}

func (r *res) tid(ctx context.Context) int {
	return r.sched.CurrentTask(ctx).TID()
}

func (r *res) acquire(ctx context.Context) {
	r.monitor(ctx).Acquire(r.tid(ctx), r.resID)
}

func (r *res) release(ctx context.Context) {
	r.monitor(ctx).Release(r.tid(ctx), r.resID)
}

func (r *res) need(ctx context.Context) {
	r.monitor(ctx).Need(r.tid(ctx), r.resID)
}

func (r *res) clearNeed(ctx context.Context) {
	r.monitor(ctx).ClearNeed(r.tid(ctx), r.resID)
}

// check runs the safety test only when the owning process has deadlock
// detection enabled; otherwise it reports no offender unconditionally.
func (r *res) check(ctx context.Context) (offender int, unsafe bool) {
	p := r.sched.CurrentProcess(ctx)
	if !p.DetectDeadlock() {
		return 0, false
	}
	return r.monitor(ctx).Check()
}
