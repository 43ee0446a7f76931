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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeThread int

func (t fakeThread) TID() int { return int(t) }

func TestGoroutineProcess_DeadlockToggleDefaultsOff(t *testing.T) {
	p := NewGoroutineProcess()
	assert.False(t, p.DetectDeadlock())
	p.SetDetectDeadlock(true)
	assert.True(t, p.DetectDeadlock())
}

func TestThreadFromContext_PanicsWithoutIdentity(t *testing.T) {
	assert.Panics(t, func() {
		ThreadFromContext(context.Background())
	})
}

func TestProcessFromContext_PanicsWithoutIdentity(t *testing.T) {
	assert.Panics(t, func() {
		ProcessFromContext(context.Background())
	})
}

func TestWithThread_RoundTrip(t *testing.T) {
	ctx := WithThread(context.Background(), fakeThread(7))
	assert.Equal(t, 7, ThreadFromContext(ctx).TID())
}

func TestGoroutineScheduler_BlockThenWakeup(t *testing.T) {
	sched := NewGoroutineScheduler()
	process := NewGoroutineProcess()
	ctx := WithThread(WithProcess(context.Background(), process), fakeThread(1))

	woken := make(chan struct{})
	go func() {
		sched.Block(ctx)
		close(woken)
	}()

	time.Sleep(20 * time.Millisecond)
	select {
	case <-woken:
		t.Fatal("Block returned before Wakeup was called")
	default:
	}

	sched.Wakeup(fakeThread(1))

	select {
	case <-woken:
	case <-time.After(time.Second):
		t.Fatal("Wakeup never unblocked the parked thread")
	}
}

func TestGoroutineScheduler_SuspendDoesNotBlock(t *testing.T) {
	sched := NewGoroutineScheduler()
	ctx := WithThread(context.Background(), fakeThread(1))

	done := make(chan struct{})
	go func() {
		sched.Suspend(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Suspend should return promptly without an external Wakeup")
	}
}

func TestGoroutineScheduler_CurrentTaskAndProcess(t *testing.T) {
	sched := NewGoroutineScheduler()
	process := NewGoroutineProcess()
	ctx := WithThread(WithProcess(context.Background(), process), fakeThread(3))

	require.Equal(t, 3, sched.CurrentTask(ctx).TID())
	assert.Same(t, process, sched.CurrentProcess(ctx))
}
