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
	"github.com/LearningOS/2024a-rcore-Carbrevo/internal/logger"
	"github.com/spf13/cobra"
)

var formatCmd = &cobra.Command{
	Use:   "format",
	Short: "Format a block-device image with a fresh filesystem",
	RunE: func(cmd *cobra.Command, args []string) error {
		applyLogConfig()

		dev, err := blockdev.OpenFileDevice(config.Device.ImagePath, 0, config.Device.TotalBlocks)
		if err != nil {
			return err
		}
		defer dev.Close()

		c := cache.New(config.Cache.CapacityBlocks)
		if _, err := fs.Format(dev, config.Device.TotalBlocks, c); err != nil {
			return fmt.Errorf("format: %w", err)
		}

		fmt.Printf("formatted %s: %d blocks, %d-block cache\n",
			config.Device.ImagePath, config.Device.TotalBlocks, config.Cache.CapacityBlocks)
		return nil
	},
}

func applyLogConfig() {
	if config.Log.FilePath != "" {
		rc := logger.RotateConfig{
			MaxFileSizeMB:   config.Log.MaxFileSizeMB,
			BackupFileCount: config.Log.BackupFileCount,
			Compress:        config.Log.Compress,
		}
		if err := logger.InitLogFile(config.Log.FilePath, config.Log.Severity, config.Log.Format, rc); err != nil {
			fmt.Println("logger: falling back to stderr:", err)
		}
		return
	}
	logger.SetLogFormat(config.Log.Format)
	logger.SetLogLevel(config.Log.Severity)
}
