package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/handiism/soundcloud-downloader/internal/audio"
	ioutils "github.com/handiism/soundcloud-downloader/internal/io"
	"github.com/handiism/soundcloud-downloader/internal/pager"
	"github.com/handiism/soundcloud-downloader/internal/soundcloud"
)

// EnvClientID overrides Settings.ClientID when set.
const EnvClientID = "SCDL_CLIENT_ID"

// DefaultClientID is the public client id used when none is configured.
const DefaultClientID = "9f37d30eaf2f7205b29d1e7409f8e4a7"

// Settings holds all configuration options.
type Settings struct {
	// API settings
	ClientID       string        `yaml:"client_id"`
	APIBaseURL     string        `yaml:"api_base_url"`
	UserAgent      string        `yaml:"user_agent"`
	RequestTimeout time.Duration `yaml:"request_timeout"`

	// Collection settings
	NumTracks int `yaml:"num_tracks"`
	PageCap   int `yaml:"page_cap"`

	// Download settings
	OutputDir  string `yaml:"output_dir"`
	LedgerFile string `yaml:"ledger_file"`
	DryRun     bool   `yaml:"dry_run"`

	// Cover art settings
	SaveCoverArtInTags    bool `yaml:"save_cover_art_in_tags"`
	CoverArtInTagsResize  bool `yaml:"cover_art_in_tags_resize"`
	CoverArtInTagsMaxSize int  `yaml:"cover_art_in_tags_max_size"`
	ConvertCoverArtToJPG  bool `yaml:"convert_cover_art_to_jpg"`

	// Playlist settings
	CreatePlaylist bool   `yaml:"create_playlist"`
	PlaylistFormat string `yaml:"playlist_format"` // m3u, pls, wpl, zpl
	M3UExtended    bool   `yaml:"m3u_extended"`

	// Tag settings
	ModifyTags bool `yaml:"modify_tags"`
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	return &Settings{
		ClientID:       DefaultClientID,
		APIBaseURL:     soundcloud.DefaultAPIBaseURL,
		UserAgent:      "soundcloud-downloader",
		RequestTimeout: 60 * time.Second,

		NumTracks: 50,
		PageCap:   pager.DefaultPageCap,

		OutputDir:  "downloads",
		LedgerFile: "dl_data.json",
		DryRun:     false,

		SaveCoverArtInTags:    true,
		CoverArtInTagsResize:  false,
		CoverArtInTagsMaxSize: 500,
		ConvertCoverArtToJPG:  true,

		CreatePlaylist: false,
		PlaylistFormat: "m3u",
		M3UExtended:    true,

		ModifyTags: true,
	}
}

// Load reads settings from a YAML file on top of the defaults.
//
// A missing file yields the defaults. Environment overrides are applied and
// the result is validated.
func Load(path string) (*Settings, error) {
	settings := DefaultSettings()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("failed to read config file %q: %v", path, err)
	default:
		if err := yaml.Unmarshal(data, settings); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config file %q: %v", path, err)
		}
	}

	settings.ApplyEnv()
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %v", err)
	}
	return settings, nil
}

// ApplyEnv overrides settings from environment variables.
func (s *Settings) ApplyEnv() {
	if v := os.Getenv(EnvClientID); v != "" {
		s.ClientID = v
	}
}

// Validate reports the first invalid field.
func (s *Settings) Validate() error {
	if s.ClientID == "" {
		return errors.New("client id is empty")
	}
	if s.NumTracks < 0 {
		return fmt.Errorf("num tracks must not be negative, got %d", s.NumTracks)
	}
	if s.PageCap <= 0 {
		return fmt.Errorf("page cap must be positive, got %d", s.PageCap)
	}
	if s.OutputDir == "" {
		return errors.New("output dir is empty")
	}
	if s.LedgerFile == "" {
		return errors.New("ledger file is empty")
	}
	if _, ok := audio.ParsePlaylistFormat(s.PlaylistFormat); !ok {
		return fmt.Errorf("unknown playlist format %q", s.PlaylistFormat)
	}
	if s.CoverArtInTagsResize && s.CoverArtInTagsMaxSize <= 0 {
		return fmt.Errorf("cover art max size must be positive, got %d", s.CoverArtInTagsMaxSize)
	}
	return nil
}

// Save writes settings to a YAML file.
func (s *Settings) Save(path string) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return err
	}
	return ioutils.WriteFileAtomic(path, data)
}

// CoverMaxSize returns the bounding box for embedded covers, or 0 when
// covers are embedded as downloaded.
func (s *Settings) CoverMaxSize() int {
	if !s.CoverArtInTagsResize {
		return 0
	}
	return s.CoverArtInTagsMaxSize
}

// ToTagConfig converts settings to the tagger configuration.
func (s *Settings) ToTagConfig() *audio.TagConfig {
	cfg := audio.DefaultTagConfig()
	cfg.ModifyTags = s.ModifyTags
	return cfg
}

// ToPlaylistCreator returns the playlist writer, or nil when playlists are
// disabled.
func (s *Settings) ToPlaylistCreator() *audio.PlaylistCreator {
	if !s.CreatePlaylist {
		return nil
	}
	format, _ := audio.ParsePlaylistFormat(s.PlaylistFormat)
	return audio.NewPlaylistCreator(format, s.M3UExtended)
}
