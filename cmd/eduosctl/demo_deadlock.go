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

package main

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/LearningOS/2024a-rcore-Carbrevo/kernsys"
	"github.com/LearningOS/2024a-rcore-Carbrevo/ksync"
	"github.com/LearningOS/2024a-rcore-Carbrevo/proc"
	"github.com/spf13/cobra"
)

var demoDeadlockCmd = &cobra.Command{
	Use:   "demo-deadlock",
	Short: "Run two threads that lock a pair of mutexes in opposite order",
	RunE: func(cmd *cobra.Command, args []string) error {
		applyLogConfig()

		sched := proc.NewGoroutineScheduler()
		process := proc.NewGoroutineProcess()
		process.SetDetectDeadlock(true)
		table := kernsys.NewSyncTable(sched, process)

		mutexA := table.MutexCreate(true)
		mutexB := table.MutexCreate(true)

		ctxFor := func(tid int) context.Context {
			ctx := proc.WithProcess(context.Background(), process)
			return proc.WithThread(ctx, threadID(tid))
		}

		results := make([]int, 2)
		var wg sync.WaitGroup
		wg.Add(2)

		go func() {
			defer wg.Done()
			ctx := ctxFor(1)
			table.MutexLock(ctx, mutexA)
			time.Sleep(20 * time.Millisecond)
			results[0] = table.MutexLock(ctx, mutexB)
			if results[0] == 0 {
				table.MutexUnlock(ctx, mutexB)
			}
			table.MutexUnlock(ctx, mutexA)
		}()

		go func() {
			defer wg.Done()
			ctx := ctxFor(2)
			table.MutexLock(ctx, mutexB)
			time.Sleep(20 * time.Millisecond)
			results[1] = table.MutexLock(ctx, mutexA)
			if results[1] == 0 {
				table.MutexUnlock(ctx, mutexA)
			}
			table.MutexUnlock(ctx, mutexB)
		}()

		wg.Wait()

		fmt.Println("thread 1 second-lock result:", describeResult(results[0]))
		fmt.Println("thread 2 second-lock result:", describeResult(results[1]))
		if results[0] == ksync.DeadlockErr || results[1] == ksync.DeadlockErr {
			fmt.Println("deadlock avoided: at least one acquisition was rejected before it could block forever")
		} else {
			fmt.Println("no deadlock: the two threads never actually contended on both mutexes at once")
		}
		return nil
	},
}

func describeResult(r int) string {
	if r == ksync.DeadlockErr {
		return "rejected (would deadlock)"
	}
	return "granted"
}

type threadID int

func (t threadID) TID() int { return int(t) }
