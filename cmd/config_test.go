package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	t.Setenv(DictCliHisFileEnv, "/tmp/dict_history")
	t.Setenv(DictCliLogLevelEnv, "info")

	cfg := DefaultConfig()
	assert.Equal(t, "/tmp/dict_history", cfg.HistoryFile)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, defaultPrompt, cfg.Prompt)
	assert.Zero(t, cfg.MaxMemory)
}

func TestGetDotfilePath(t *testing.T) {
	t.Setenv(DictCliHisFileEnv, "/dev/null")
	assert.Empty(t, getDotfilePath(DictCliHisFileEnv, DictCliHisFileDefault))

	t.Setenv(DictCliHisFileEnv, "")
	t.Setenv("HOME", "/home/dict")
	assert.Equal(t, "/home/dict/.dictcli_history", getDotfilePath(DictCliHisFileEnv, DictCliHisFileDefault))
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfig(t *testing.T) {
	t.Setenv(DictCliLogLevelEnv, "")
	path := writeFile(t, "dict.yaml", "logLevel: debug\nmaxMemory: 4096\nprompt: \"> \"\nhistoryFile: /tmp/h\n")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, &Config{LogLevel: "debug", MaxMemory: 4096, Prompt: "> ", HistoryFile: "/tmp/h"}, cfg)

	require.NoError(t, cfg.override(&Options{LogLevel: "error"}))
	assert.Equal(t, "error", cfg.LogLevel)
	assert.Equal(t, int64(4096), cfg.MaxMemory)

	limit := int64(1 << 20)
	require.NoError(t, cfg.override(&Options{MaxMemory: &limit}))
	assert.Equal(t, int64(1<<20), cfg.MaxMemory)

	unbounded := int64(0)
	require.NoError(t, cfg.override(&Options{MaxMemory: &unbounded}))
	assert.Zero(t, cfg.MaxMemory, "an explicit 0 lifts the file limit")

	negative := int64(-5)
	assert.Error(t, cfg.override(&Options{MaxMemory: &negative}))
	assert.Zero(t, cfg.MaxMemory)
}

func TestLoadConfigEmptyPath(t *testing.T) {
	t.Setenv(DictCliLogLevelEnv, "")
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestLoadConfigErrors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = LoadConfig(writeFile(t, "bad.yaml", "logLevel: [unclosed\n"))
	assert.Error(t, err)

	_, err = LoadConfig(writeFile(t, "neg.yaml", "maxMemory: -1\n"))
	assert.Error(t, err)
}
