// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// Tests for logger construction

package logging

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"debug", LevelDebug},
		{"DEBUG", LevelDebug},
		{"info", LevelInfo},
		{"warn", LevelWarn},
		{"warning", LevelWarn},
		{"error", LevelError},
		{"", LevelInfo},
		{"verbose", LevelInfo},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, ParseLevel(tc.in), tc.in)
	}
}

func TestNew_FileLogging(t *testing.T) {
	dir := t.TempDir()
	logger, closeFn, err := New(Config{
		Level:   LevelInfo,
		Service: "testsvc",
		JSON:    true,
		LogDir:  dir,
	})
	require.NoError(t, err)
	defer closeFn()

	logger.Info("hello", "k", "v")
	logger.Debug("filtered out")
	closeFn()

	name := "testsvc_" + time.Now().Format("2006-01-02") + ".log"
	data, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"hello"`)
	assert.NotContains(t, string(data), "filtered out")
}

func TestNew_CreatesLogDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "logs")
	_, closeFn, err := New(Config{Service: "testsvc", LogDir: dir})
	require.NoError(t, err)
	defer closeFn()

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestDefault_NeverNil(t *testing.T) {
	assert.NotNil(t, Default())
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "logs"), expandPath("~/logs"))
	assert.Equal(t, "/var/log", expandPath("/var/log"))
}
