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

package logger

import (
	"bytes"
	"os"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withCapturedOutput(t *testing.T, fn func()) string {
	t.Helper()
	var buf bytes.Buffer
	old := defaultLoggerFactory.sysWriter
	defaultLoggerFactory.sysWriter = &buf
	defer func() { defaultLoggerFactory.sysWriter = old }()

	fn()
	return buf.String()
}

func TestInfof_TextFormatMatchesExpectedShape(t *testing.T) {
	SetLogFormat("text")
	SetLogLevel(LevelInfoName)

	out := withCapturedOutput(t, func() {
		Infof("hello %s", "world")
	})

	re := regexp.MustCompile(`^time="[^"]+" severity=INFO message="hello world"\n$`)
	assert.Regexp(t, re, out)
}

func TestInfof_JSONFormatMatchesExpectedShape(t *testing.T) {
	SetLogFormat("json")
	SetLogLevel(LevelInfoName)

	out := withCapturedOutput(t, func() {
		Infof("count=%d", 3)
	})

	re := regexp.MustCompile(`^\{"timestamp":\{"seconds":\d+,"nanos":\d+\},"severity":"INFO","message":"count=3"\}\n$`)
	assert.Regexp(t, re, out)

	SetLogFormat("text")
}

func TestSetLogLevel_SuppressesBelowThreshold(t *testing.T) {
	SetLogFormat("text")
	SetLogLevel(LevelWarningName)

	out := withCapturedOutput(t, func() {
		Infof("should not appear")
		Warnf("should appear")
	})

	assert.NotContains(t, out, "should not appear")
	assert.Contains(t, out, "should appear")

	SetLogLevel(LevelInfoName)
}

func TestSetLogLevel_OffSuppressesEverything(t *testing.T) {
	SetLogFormat("text")
	SetLogLevel(LevelOffName)

	out := withCapturedOutput(t, func() {
		Errorf("should not appear even at error severity")
	})

	assert.Empty(t, out)
	SetLogLevel(LevelInfoName)
}

func TestInitLogFile_RejectsEmptyPath(t *testing.T) {
	err := InitLogFile("", LevelInfoName, "text", DefaultRotateConfig())
	require.Error(t, err)
}

func TestInitLogFile_RedirectsAwayFromStderr(t *testing.T) {
	defer func() {
		defaultLoggerFactory.file = nil
		defaultLoggerFactory.sysWriter = os.Stderr
	}()

	path := t.TempDir() + "/out.log"
	require.NoError(t, InitLogFile(path, LevelInfoName, "text", DefaultRotateConfig()))
	assert.NotNil(t, defaultLoggerFactory.file)
}

func TestSeverityName_OrdersLowToHigh(t *testing.T) {
	assert.Equal(t, LevelTraceName, severityName(LevelTrace))
	assert.Equal(t, LevelDebugName, severityName(LevelDebug))
	assert.Equal(t, LevelInfoName, severityName(LevelInfo))
	assert.Equal(t, LevelWarningName, severityName(LevelWarn))
	assert.Equal(t, LevelErrorName, severityName(LevelError))
}
