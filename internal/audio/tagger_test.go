package audio

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/bogem/id3v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/handiism/soundcloud-downloader/internal/model"
)

func writeFakeMP3(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "track.mp3")
	// An MPEG frame header followed by padding is enough for the tag writer.
	data := append([]byte{0xFF, 0xFB, 0x90, 0x64}, make([]byte, 512)...)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestTagger_SaveTags(t *testing.T) {
	path := writeFakeMP3(t)
	desc := "recorded live"
	track := &model.TrackItem{Username: "Artist", Title: "Song", Description: &desc}
	cover := []byte{0xFF, 0xD8, 0xFF, 0xE0, 1, 2, 3}

	require.NoError(t, NewTagger(nil).SaveTags(path, track, cover))

	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	require.NoError(t, err)
	defer tag.Close()

	assert.Equal(t, "Song", tag.Title())
	assert.Equal(t, "Artist", tag.Artist())

	lyrics := tag.GetFrames(tag.CommonID("Unsynchronised lyrics/text transcription"))
	require.Len(t, lyrics, 1)
	uslt, ok := lyrics[0].(id3v2.UnsynchronisedLyricsFrame)
	require.True(t, ok)
	assert.Equal(t, "recorded live", uslt.Lyrics)
	assert.Equal(t, "desc", uslt.ContentDescriptor)
	assert.Equal(t, "eng", uslt.Language)

	pictures := tag.GetFrames(tag.CommonID("Attached picture"))
	require.Len(t, pictures, 1)
	pic, ok := pictures[0].(id3v2.PictureFrame)
	require.True(t, ok)
	assert.Equal(t, cover, pic.Picture)
	assert.Equal(t, byte(id3v2.PTFrontCover), pic.PictureType)
}

func TestTagger_NoDescriptionNoCover(t *testing.T) {
	path := writeFakeMP3(t)
	track := &model.TrackItem{Username: "Artist", Title: "Song"}

	require.NoError(t, NewTagger(DefaultTagConfig()).SaveTags(path, track, nil))

	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	require.NoError(t, err)
	defer tag.Close()

	assert.Equal(t, "Song", tag.Title())
	assert.Empty(t, tag.GetFrames(tag.CommonID("Unsynchronised lyrics/text transcription")))
	assert.Empty(t, tag.GetFrames(tag.CommonID("Attached picture")))
}

func TestTagger_MissingFile(t *testing.T) {
	track := &model.TrackItem{Username: "Artist", Title: "Song"}
	err := NewTagger(nil).SaveTags(filepath.Join(t.TempDir(), "nope.mp3"), track, nil)
	require.Error(t, err)
}
