package dto

import (
	"github.com/tidwall/gjson"
)

// Mapping adapts a raw JSON track object to model.TrackSource.
//
// It reads fields by path, so it works on records that were never decoded
// into JSONTrack, such as the track arrays embedded in playlist resources.
// A null value reports the field as absent, like a nil pointer in JSONTrack.
type Mapping struct {
	raw gjson.Result
}

// NewMapping wraps an already parsed gjson value.
func NewMapping(raw gjson.Result) *Mapping {
	return &Mapping{raw: raw}
}

// ParseMapping parses a JSON document. It reports false if data is not a
// JSON object.
func ParseMapping(data []byte) (*Mapping, bool) {
	if !gjson.ValidBytes(data) {
		return nil, false
	}
	raw := gjson.ParseBytes(data)
	if !raw.IsObject() {
		return nil, false
	}
	return &Mapping{raw: raw}, true
}

func (m *Mapping) str(path string) (string, bool) {
	v := m.raw.Get(path)
	if !v.Exists() || v.Type == gjson.Null {
		return "", false
	}
	return v.String(), true
}

func (m *Mapping) Username() (string, bool)     { return m.str("user.username") }
func (m *Mapping) Title() (string, bool)        { return m.str("title") }
func (m *Mapping) PermalinkURL() (string, bool) { return m.str("permalink_url") }
func (m *Mapping) Description() (string, bool)  { return m.str("description") }
func (m *Mapping) StreamURL() (string, bool)    { return m.str("stream_url") }
func (m *Mapping) DownloadURL() (string, bool)  { return m.str("download_url") }
func (m *Mapping) ArtworkURL() (string, bool)   { return m.str("artwork_url") }
func (m *Mapping) AvatarURL() (string, bool)    { return m.str("user.avatar_url") }
