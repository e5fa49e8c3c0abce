package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/handiism/soundcloud-downloader/internal/audio"
)

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	t.Setenv(EnvClientID, "")

	got, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultSettings(), got)
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scdl.yaml")
	data := []byte(`
num_tracks: 200
page_cap: 5
request_timeout: 15s
create_playlist: true
playlist_format: pls
`)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	t.Setenv(EnvClientID, "from-env")

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 200, got.NumTracks)
	assert.Equal(t, 5, got.PageCap)
	assert.Equal(t, 15*time.Second, got.RequestTimeout)
	assert.Equal(t, "from-env", got.ClientID)
	assert.Equal(t, "downloads", got.OutputDir)

	creator := got.ToPlaylistCreator()
	require.NotNil(t, creator)
	assert.Equal(t, audio.FormatPLS, creator.Format())
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv(EnvClientID, "")
	dir := t.TempDir()

	tests := map[string]string{
		"syntax":          "num_tracks: [",
		"page cap":        "page_cap: 0",
		"negative tracks": "num_tracks: -1",
		"format":          "playlist_format: xspf",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name+".yaml")
			require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}

func TestSettings_SaveRoundTrip(t *testing.T) {
	t.Setenv(EnvClientID, "")
	path := filepath.Join(t.TempDir(), "nested", "scdl.yaml")

	want := DefaultSettings()
	want.NumTracks = 7
	want.CoverArtInTagsResize = true
	require.NoError(t, want.Save(path))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.Equal(t, want.CoverArtInTagsMaxSize, got.CoverMaxSize())
}

func TestSettings_Conversions(t *testing.T) {
	s := DefaultSettings()
	assert.Nil(t, s.ToPlaylistCreator())
	assert.Zero(t, s.CoverMaxSize())

	s.ModifyTags = false
	assert.False(t, s.ToTagConfig().ModifyTags)
}
