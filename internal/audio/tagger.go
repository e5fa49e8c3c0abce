package audio

import (
	"fmt"

	"github.com/bogem/id3v2"

	"github.com/handiism/soundcloud-downloader/internal/model"
)

// TagEditAction defines how to handle individual ID3 tags.
type TagEditAction int

const (
	// TagEmpty clears the tag value.
	TagEmpty TagEditAction = iota

	// TagModify updates the tag with the value from SoundCloud.
	TagModify

	// TagDoNotModify leaves the existing tag value unchanged.
	TagDoNotModify
)

const (
	lyricsLanguage   = "eng"
	lyricsDescriptor = "desc"
	coverDescription = "Cover"
)

// TagConfig holds tagging configuration for each ID3 field written to
// stream downloads.
type TagConfig struct {
	// ModifyTags is a master switch. If false, no text tags are modified.
	ModifyTags bool

	// Artist controls the TPE1 (Lead artist) frame.
	Artist TagEditAction

	// TrackTitle controls the TIT2 (Title) frame.
	TrackTitle TagEditAction

	// Description controls the USLT frame that carries the track
	// description.
	Description TagEditAction
}

// DefaultTagConfig returns a configuration that writes every supported tag.
func DefaultTagConfig() *TagConfig {
	return &TagConfig{
		ModifyTags:  true,
		Artist:      TagModify,
		TrackTitle:  TagModify,
		Description: TagModify,
	}
}

// Tagger writes ID3 tags to MP3 files.
//
// Stream downloads arrive untagged; Tagger fills in:
//   - Title (TIT2) and Artist (TPE1)
//   - The track description as unsynchronised lyrics (USLT)
//   - Cover art (APIC, front cover)
//
// Example:
//
//	tagger := NewTagger(DefaultTagConfig())
//	if err := tagger.SaveTags(mp3Path, track, jpegBytes); err != nil {
//	    log.Printf("Failed to tag %s: %v", mp3Path, err)
//	}
type Tagger struct {
	config *TagConfig
}

// NewTagger creates a new Tagger with the given configuration.
//
// If config is nil, DefaultTagConfig() is used.
func NewTagger(config *TagConfig) *Tagger {
	if config == nil {
		config = DefaultTagConfig()
	}
	return &Tagger{config: config}
}

// SaveTags writes ID3 tags for track to the MP3 file at path.
//
// artwork holds JPEG bytes for the cover; nil skips the cover.
//
// Returns an error if the file cannot be opened or saved.
func (t *Tagger) SaveTags(path string, track *model.TrackItem, artwork []byte) error {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer tag.Close()

	tag.SetDefaultEncoding(id3v2.EncodingUTF8)

	if t.config.ModifyTags {
		t.updateStringTags(tag, track)
	}

	if artwork != nil {
		t.updateArtwork(tag, artwork)
	}

	if err := tag.Save(); err != nil {
		return fmt.Errorf("save tags to %s: %w", path, err)
	}
	return nil
}

func (t *Tagger) updateStringTags(tag *id3v2.Tag, track *model.TrackItem) {
	switch t.config.TrackTitle {
	case TagEmpty:
		tag.SetTitle("")
	case TagModify:
		tag.SetTitle(track.Title)
	}

	switch t.config.Artist {
	case TagEmpty:
		tag.SetArtist("")
	case TagModify:
		tag.SetArtist(track.Username)
	}

	lyricsID := tag.CommonID("Unsynchronised lyrics/text transcription")
	switch t.config.Description {
	case TagEmpty:
		tag.DeleteFrames(lyricsID)
	case TagModify:
		if track.Description != nil && *track.Description != "" {
			tag.DeleteFrames(lyricsID)
			tag.AddUnsynchronisedLyricsFrame(id3v2.UnsynchronisedLyricsFrame{
				Encoding:          id3v2.EncodingUTF8,
				Language:          lyricsLanguage,
				ContentDescriptor: lyricsDescriptor,
				Lyrics:            *track.Description,
			})
		}
	}
}

// updateArtwork replaces any attached pictures with a single front cover.
func (t *Tagger) updateArtwork(tag *id3v2.Tag, artwork []byte) {
	tag.DeleteFrames(tag.CommonID("Attached picture"))

	tag.AddAttachedPicture(id3v2.PictureFrame{
		Encoding:    id3v2.EncodingUTF8,
		MimeType:    "image/jpeg",
		PictureType: id3v2.PTFrontCover,
		Description: coverDescription,
		Picture:     artwork,
	})
}
