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

package fs

import "errors"

// Package-specific sentinel errors: logical filesystem failures that the
// kernsys syscall layer translates into its own -1/errno-style contract.
var (
	// ErrNotFound is returned when name resolution fails (open/link/
	// unlink/stat).
	ErrNotFound = errors.New("fs: name not found")

	// ErrExists is returned by create on an existing name. Link does not
	// check old == new; kernsys.Linkat rejects that case itself.
	ErrExists = errors.New("fs: name already exists")

	// ErrInvalidTruncate is returned by clear-style truncation that
	// would violate the disk inode's invariants.
	ErrInvalidTruncate = errors.New("fs: invalid truncate")

	// ErrNoSpace is returned when the inode or data bitmap is exhausted.
	ErrNoSpace = errors.New("fs: out of space")

	// ErrNotDirectory is returned when a directory operation targets a
	// file inode.
	ErrNotDirectory = errors.New("fs: not a directory")
)
