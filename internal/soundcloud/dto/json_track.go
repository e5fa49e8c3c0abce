package dto

// JSONUser is the uploader embedded in track and playlist resources.
type JSONUser struct {
	ID        int64   `json:"id"`
	Username  *string `json:"username"`
	Permalink string  `json:"permalink"`
	AvatarURL *string `json:"avatar_url"`
}

// JSONTrack is a track resource as returned by the favorites endpoint.
//
// Optional fields are pointers: nil means the API omitted the field or sent
// null. They carry a Raw prefix because the unprefixed names are the
// accessors read by the normalizer.
type JSONTrack struct {
	ID              int64     `json:"id"`
	Kind            string    `json:"kind"`
	RawTitle        *string   `json:"title"`
	RawPermalinkURL *string   `json:"permalink_url"`
	RawDescription  *string   `json:"description"`
	RawStreamURL    *string   `json:"stream_url"`
	RawDownloadURL  *string   `json:"download_url"`
	RawArtworkURL   *string   `json:"artwork_url"`
	User            *JSONUser `json:"user"`
}

func value(s *string) (string, bool) {
	if s == nil {
		return "", false
	}
	return *s, true
}

func (t *JSONTrack) Username() (string, bool) {
	if t.User == nil {
		return "", false
	}
	return value(t.User.Username)
}

func (t *JSONTrack) Title() (string, bool)        { return value(t.RawTitle) }
func (t *JSONTrack) PermalinkURL() (string, bool) { return value(t.RawPermalinkURL) }
func (t *JSONTrack) Description() (string, bool)  { return value(t.RawDescription) }
func (t *JSONTrack) StreamURL() (string, bool)    { return value(t.RawStreamURL) }
func (t *JSONTrack) DownloadURL() (string, bool)  { return value(t.RawDownloadURL) }
func (t *JSONTrack) ArtworkURL() (string, bool)   { return value(t.RawArtworkURL) }

func (t *JSONTrack) AvatarURL() (string, bool) {
	if t.User == nil {
		return "", false
	}
	return value(t.User.AvatarURL)
}
