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
	"github.com/LearningOS/2024a-rcore-Carbrevo/proc"
	"github.com/spf13/cobra"
)

var demoFIFOCmd = &cobra.Command{
	Use:   "demo-fifo",
	Short: "Run several threads waiting on a semaphore and print their wake order",
	RunE: func(cmd *cobra.Command, args []string) error {
		applyLogConfig()

		const waiters = 4

		sched := proc.NewGoroutineScheduler()
		process := proc.NewGoroutineProcess()
		table := kernsys.NewSyncTable(sched, process)

		sem := table.SemaphoreCreate(0)

		ctxFor := func(tid int) context.Context {
			ctx := proc.WithProcess(context.Background(), process)
			return proc.WithThread(ctx, threadID(tid))
		}

		var mu sync.Mutex
		var order []int
		var wg sync.WaitGroup
		wg.Add(waiters)

		for i := 1; i <= waiters; i++ {
			tid := i
			go func() {
				defer wg.Done()
				table.SemaphoreDown(ctxFor(tid), sem)
				mu.Lock()
				order = append(order, tid)
				mu.Unlock()
			}()
			// Stagger thread start so the wait queue fills in a
			// deterministic, known order before any Up is issued.
			time.Sleep(5 * time.Millisecond)
		}

		for i := 0; i < waiters; i++ {
			time.Sleep(5 * time.Millisecond)
			table.SemaphoreUp(ctxFor(0), sem)
		}

		wg.Wait()
		fmt.Println("wake order:", order)
		return nil
	},
}
