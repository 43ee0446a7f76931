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
	"fmt"

	"github.com/LearningOS/2024a-rcore-Carbrevo/fs"
	"github.com/LearningOS/2024a-rcore-Carbrevo/fs/blockdev"
	"github.com/LearningOS/2024a-rcore-Carbrevo/fs/cache"
	"github.com/LearningOS/2024a-rcore-Carbrevo/kernsys"
	"github.com/spf13/cobra"
)

var fsckCmd = &cobra.Command{
	Use:   "fsck",
	Short: "Mount an existing image and report basic consistency info",
	RunE: func(cmd *cobra.Command, args []string) error {
		applyLogConfig()

		dev, err := blockdev.OpenFileDevice(config.Device.ImagePath, 0, config.Device.TotalBlocks)
		if err != nil {
			return err
		}
		defer dev.Close()

		c := cache.New(config.Cache.CapacityBlocks)
		fsys, err := fs.Open(dev, c)
		if err != nil {
			return fmt.Errorf("fsck: %w", err)
		}

		table := kernsys.NewFileTable(fsys)
		root := table.Root()
		names := root.Ls()

		fmt.Printf("mounted %s: root directory has %d entries\n", config.Device.ImagePath, len(names))
		for _, name := range names {
			child, ok := root.Find(name)
			if !ok {
				fmt.Printf("  %s: MISSING (dangling directory entry)\n", name)
				continue
			}
			nlink := len(root.FindByID(child.InodeID()))
			kind := "file"
			if child.Mode() == fs.ModeDirectory {
				kind = "dir"
			}
			fmt.Printf("  %s: inode=%d kind=%s nlink=%d\n", name, child.InodeID(), kind, nlink)
		}
		return nil
	},
}
