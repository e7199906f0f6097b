package main

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/sonnik/internal/testutil"
)

func TestSetupLogger(t *testing.T) {
	tests := []struct {
		name      string
		debugMode bool
		wantLevel slog.Level
	}{
		{
			name:      "debug mode enabled",
			debugMode: true,
			wantLevel: slog.LevelDebug,
		},
		{
			name:      "debug mode disabled",
			debugMode: false,
			wantLevel: slog.LevelInfo,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupLogger(tt.debugMode)
			logger := slog.Default()
			assert.NotNil(t, logger)
			assert.Equal(t, tt.wantLevel <= slog.LevelDebug, logger.Enabled(context.Background(), slog.LevelDebug))
		})
	}
}

func TestNewRootCommand(t *testing.T) {
	cmd := newRootCommand()

	assert.Equal(t, "sonnik", cmd.Use)
	assert.True(t, cmd.SilenceUsage)
	assert.True(t, cmd.SilenceErrors)
	assert.NotNil(t, cmd.PersistentFlags().Lookup("config"))
	assert.NotNil(t, cmd.PersistentFlags().Lookup("debug"))

	var names []string
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	assert.ElementsMatch(t, []string{"serve", "chat", "analyze", "interpret", "stats", "history", "migrate"}, names)
}

func TestNewMigrateCommand(t *testing.T) {
	cmd := newMigrateCommand()

	assert.Equal(t, "migrate", cmd.Use)
	assert.Equal(t, "Create the database schema", cmd.Short)
	assert.NotNil(t, cmd.RunE)
}

func TestNewMigrateCommand_RunE(t *testing.T) {
	tmpDir := t.TempDir()
	setConfigFile(t, testutil.SetupTestConfig(t, tmpDir))

	out, err := executeCommand(t, newMigrateCommand(), nil)
	require.NoError(t, err)
	assert.Contains(t, out, "sqlite")

	_, err = os.Stat(filepath.Join(tmpDir, "sonnik.db"))
	assert.NoError(t, err)

	// running it again keeps the existing schema
	_, err = executeCommand(t, newMigrateCommand(), nil)
	assert.NoError(t, err)
}

func TestRootCommand_ConfigFlag(t *testing.T) {
	tmpDir := t.TempDir()
	cfgPath := testutil.SetupTestConfig(t, tmpDir)
	setConfigFile(t, "")

	out, err := executeCommand(t, newRootCommand(), nil, "--config", cfgPath, "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "Database schema is up to date")
}

func TestCommands_InvalidConfig(t *testing.T) {
	cfgPath := setupBrokenConfigFile(t)
	setConfigFile(t, "")

	tests := []struct {
		name string
		args []string
	}{
		{name: "migrate", args: []string{"migrate"}},
		{name: "serve", args: []string{"serve"}},
		{name: "chat", args: []string{"chat"}},
		{name: "analyze", args: []string{"analyze", "мне снилась вода"}},
		{name: "interpret", args: []string{"interpret", "вода"}},
		{name: "stats", args: []string{"stats"}},
		{name: "history show", args: []string{"history", "show", "вода"}},
		{name: "history export", args: []string{"history", "export"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"--config", cfgPath}, tt.args...)
			_, err := executeCommand(t, newRootCommand(), nil, args...)
			assert.Error(t, err)
			assert.Contains(t, err.Error(), "configuration")
		})
	}
}
