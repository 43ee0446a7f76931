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

// Package cfg binds the mountable knobs of the filesystem core to pflag/
// viper, in the same Config-struct-plus-BindFlags shape used elsewhere in
// the ecosystem for generated CLI configuration.
package cfg

import (
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config is the full set of runtime-tunable knobs.
type Config struct {
	Cache  CacheConfig  `yaml:"cache"`
	Device DeviceConfig `yaml:"device"`
	Sync   SyncConfig   `yaml:"sync"`
	Log    LogConfig    `yaml:"log"`
}

// CacheConfig controls the block cache.
type CacheConfig struct {
	CapacityBlocks int `yaml:"capacity-blocks" mapstructure:"capacity-blocks"`
}

// DeviceConfig names the backing block-device image.
type DeviceConfig struct {
	ImagePath   string `yaml:"image-path" mapstructure:"image-path"`
	TotalBlocks uint32 `yaml:"total-blocks" mapstructure:"total-blocks"`
}

// SyncConfig controls the synchronization subsystem's default policy.
type SyncConfig struct {
	DeadlockDetectByDefault bool `yaml:"deadlock-detect-by-default" mapstructure:"deadlock-detect-by-default"`
}

// LogConfig controls logging destination, level and rotation.
type LogConfig struct {
	FilePath        string `yaml:"file-path" mapstructure:"file-path"`
	Severity        string `yaml:"severity"`
	Format          string `yaml:"format"`
	MaxFileSizeMB   int    `yaml:"max-file-size-mb" mapstructure:"max-file-size-mb"`
	BackupFileCount int    `yaml:"backup-file-count" mapstructure:"backup-file-count"`
	Compress        bool   `yaml:"compress"`
}

// BindFlags registers every knob on flagSet and binds it into viper under
// the matching dotted key.
func BindFlags(flagSet *pflag.FlagSet) error {
	var err error

	flagSet.IntP("cache-capacity-blocks", "", 16, "Number of resident blocks the block cache holds.")
	if err = viper.BindPFlag("cache.capacity-blocks", flagSet.Lookup("cache-capacity-blocks")); err != nil {
		return err
	}

	flagSet.StringP("device-image-path", "", "", "Path to the block-device image file.")
	if err = viper.BindPFlag("device.image-path", flagSet.Lookup("device-image-path")); err != nil {
		return err
	}

	flagSet.Uint32P("device-total-blocks", "", 8192, "Total blocks to format the device image with.")
	if err = viper.BindPFlag("device.total-blocks", flagSet.Lookup("device-total-blocks")); err != nil {
		return err
	}

	flagSet.BoolP("sync-deadlock-detect", "", false, "Enable Banker's-algorithm deadlock detection by default.")
	if err = viper.BindPFlag("sync.deadlock-detect-by-default", flagSet.Lookup("sync-deadlock-detect")); err != nil {
		return err
	}

	flagSet.StringP("log-file-path", "", "", "Path to the log file; empty logs to stderr.")
	if err = viper.BindPFlag("log.file-path", flagSet.Lookup("log-file-path")); err != nil {
		return err
	}

	flagSet.StringP("log-severity", "", "INFO", "Minimum severity logged: TRACE|DEBUG|INFO|WARNING|ERROR|OFF.")
	if err = viper.BindPFlag("log.severity", flagSet.Lookup("log-severity")); err != nil {
		return err
	}

	flagSet.StringP("log-format", "", "text", "Log output format: text or json.")
	if err = viper.BindPFlag("log.format", flagSet.Lookup("log-format")); err != nil {
		return err
	}

	flagSet.IntP("log-max-file-size-mb", "", 10, "Log file size in MB before rotation.")
	if err = viper.BindPFlag("log.max-file-size-mb", flagSet.Lookup("log-max-file-size-mb")); err != nil {
		return err
	}

	flagSet.IntP("log-backup-file-count", "", 5, "Number of rotated log files to retain.")
	if err = viper.BindPFlag("log.backup-file-count", flagSet.Lookup("log-backup-file-count")); err != nil {
		return err
	}

	flagSet.BoolP("log-compress", "", false, "Gzip-compress rotated log files.")
	if err = viper.BindPFlag("log.compress", flagSet.Lookup("log-compress")); err != nil {
		return err
	}

	return nil
}

// Load reads bound flags/environment/config file into a Config via viper's
// active instance.
func Load() (Config, error) {
	var c Config
	if err := viper.Unmarshal(&c); err != nil {
		return Config{}, err
	}
	return c, nil
}
