package tui

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/handiism/soundcloud-downloader/internal/config"
	"github.com/handiism/soundcloud-downloader/internal/download"
)

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

func TestModel_Options(t *testing.T) {
	m := NewModel(config.DefaultSettings(), zerolog.Nop())

	m = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlN})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlP})
	assert.True(t, m.dryRun)
	assert.True(t, m.playlist)

	s := m.runSettings()
	assert.True(t, s.DryRun)
	assert.True(t, s.CreatePlaylist)
	assert.False(t, m.settings.DryRun, "base settings must not change")
}

func TestModel_VerboseFilter(t *testing.T) {
	m := NewModel(config.DefaultSettings(), zerolog.Nop())

	m = update(t, m, ProgressMsg{Event: download.ProgressEvent{Message: "debug", Level: download.LevelVerbose}})
	assert.Empty(t, m.logs)

	m = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlV})
	m = update(t, m, ProgressMsg{Event: download.ProgressEvent{Message: "debug", Level: download.LevelVerbose}})
	assert.Len(t, m.logs, 1)

	for range maxLogs + 5 {
		m = update(t, m, ProgressMsg{Event: download.ProgressEvent{Message: "info", Level: download.LevelInfo}})
	}
	assert.Len(t, m.logs, maxLogs)
}

func TestModel_DoneStates(t *testing.T) {
	m := NewModel(config.DefaultSettings(), zerolog.Nop())
	m.state = StateDownloading

	done := update(t, m, DownloadDoneMsg{Summary: download.Summary{Downloaded: 2, Failed: 1, Flagged: 1}, Files: 3, TotalF: 3})
	assert.Equal(t, StateComplete, done.state)
	assert.Contains(t, done.View(), "Downloaded: 2")
	assert.Contains(t, done.View(), "Tagging failed: 1")

	failed := update(t, m, DownloadDoneMsg{Err: errors.New("disk full")})
	assert.Equal(t, StateError, failed.state)
	assert.Contains(t, failed.View(), "disk full")

	reset := update(t, failed, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	assert.Equal(t, StateInput, reset.state)
	assert.Nil(t, reset.err)
}
