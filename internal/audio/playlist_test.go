package audio

import (
	"strings"
	"testing"

	"github.com/handiism/soundcloud-downloader/internal/model"
)

func TestPlaylistCreator_M3U(t *testing.T) {
	creator := NewPlaylistCreator(FormatM3U, false)

	content := creator.CreatePlaylist("likes", createTestTracks())

	if content != "artist-track1.mp3\nartist-track2.mp3\n" {
		t.Errorf("unexpected M3U content: %q", content)
	}
}

func TestPlaylistCreator_M3UExtended(t *testing.T) {
	creator := NewPlaylistCreator(FormatM3U, true)

	content := creator.CreatePlaylist("likes", createTestTracks())

	if !strings.HasPrefix(content, "#EXTM3U") {
		t.Error("Extended M3U should start with #EXTM3U")
	}
	if !strings.Contains(content, "#EXTINF:-1,Artist - track1\n") {
		t.Error("Extended M3U should contain #EXTINF with artist and title")
	}
}

func TestPlaylistCreator_PLS(t *testing.T) {
	creator := NewPlaylistCreator(FormatPLS, false)

	content := creator.CreatePlaylist("likes", createTestTracks())

	if !strings.HasPrefix(content, "[playlist]") {
		t.Error("PLS should start with [playlist]")
	}
	if !strings.Contains(content, "File1=artist-track1.mp3") {
		t.Error("PLS should contain File1=")
	}
	if !strings.Contains(content, "NumberOfEntries=2") {
		t.Error("PLS should contain NumberOfEntries")
	}
}

func TestPlaylistCreator_WPL(t *testing.T) {
	creator := NewPlaylistCreator(FormatWPL, false)

	content := creator.CreatePlaylist("likes", createTestTracks())

	if !strings.Contains(content, "<?wpl") {
		t.Error("WPL should contain XML declaration")
	}
	if !strings.Contains(content, "<media src=\"artist-track1.mp3\"/>") {
		t.Error("WPL should contain media elements")
	}
}

func TestPlaylistCreator_ZPL(t *testing.T) {
	creator := NewPlaylistCreator(FormatZPL, false)

	content := creator.CreatePlaylist("likes", createTestTracks())

	if !strings.Contains(content, "<?zpl") {
		t.Error("ZPL should contain XML declaration")
	}
	if !strings.Contains(content, "trackArtist=\"Artist\"") {
		t.Error("ZPL should contain trackArtist attribute")
	}
}

func TestPlaylistCreator_XMLEscape(t *testing.T) {
	tracks := []*model.TrackItem{{Username: "Artist & Co", Title: "Track \"Quote\"", Filename: "artist-co-track-quote"}}

	content := NewPlaylistCreator(FormatZPL, false).CreatePlaylist("Mix <Special>", tracks)

	if strings.Contains(content, "<Special>") {
		t.Error("ZPL should escape < and >")
	}
	if !strings.Contains(content, "Artist &amp; Co") {
		t.Error("ZPL should escape & as &amp;")
	}
}

func TestParsePlaylistFormat(t *testing.T) {
	tests := []struct {
		input  string
		want   PlaylistFormat
		wantOK bool
		ext    string
	}{
		{"m3u", FormatM3U, true, ".m3u"},
		{"PLS", FormatPLS, true, ".pls"},
		{"wpl", FormatWPL, true, ".wpl"},
		{"zpl", FormatZPL, true, ".zpl"},
		{"xspf", FormatM3U, false, ".m3u"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParsePlaylistFormat(tt.input)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("ParsePlaylistFormat(%q) = %v, %v; want %v, %v", tt.input, got, ok, tt.want, tt.wantOK)
			}
			if got.Extension() != tt.ext {
				t.Errorf("Extension() = %q, want %q", got.Extension(), tt.ext)
			}
		})
	}
}

func createTestTracks() []*model.TrackItem {
	return []*model.TrackItem{
		{Username: "Artist", Title: "track1", Filename: "artist-track1"},
		{Username: "Artist", Title: "track2", Filename: "artist-track2"},
	}
}
