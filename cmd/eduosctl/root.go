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

// Package main implements eduosctl, a command-line frontend over the
// filesystem and synchronization subsystems: format/fsck a device image
// and run small interactive demonstrations of deadlock detection and
// FIFO wakeup ordering.
package main

import (
	"fmt"
	"os"

	"github.com/LearningOS/2024a-rcore-Carbrevo/cfg"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	config  cfg.Config
)

var rootCmd = &cobra.Command{
	Use:   "eduosctl",
	Short: "Format, check, and demonstrate the teaching filesystem and synchronization subsystems",
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config-file", "", "Path to a YAML config file.")
	if err := cfg.BindFlags(rootCmd.PersistentFlags()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	rootCmd.AddCommand(formatCmd, fsckCmd, demoDeadlockCmd, demoFIFOCmd)
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		viper.SetConfigType("yaml")
		if err := viper.ReadInConfig(); err != nil {
			fmt.Fprintln(os.Stderr, "reading config file:", err)
			os.Exit(1)
		}
	}
	if err := viper.Unmarshal(&config); err != nil {
		fmt.Fprintln(os.Stderr, "unmarshaling config:", err)
		os.Exit(1)
	}
}

func main() {
	Execute()
}
