package model

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

var (
	// ErrUnsupportedInputKind is returned when a raw API record is neither a
	// typed resource nor a key-value mapping.
	ErrUnsupportedInputKind = errors.New("unsupported input kind")

	// ErrMissingField is returned when a required field (username, title or
	// permalink) is absent from the source record.
	ErrMissingField = errors.New("missing required field")
)

// TrackSource exposes the fields a TrackItem is built from.
//
// Each accessor reports whether the field exists in the underlying record.
// A field that is present but null reports false, so "no download link" and
// "empty download link" stay distinguishable.
//
// Implementations live next to the API code (see soundcloud/dto), one per
// record shape, and all feed the single NewTrackItem constructor.
type TrackSource interface {
	Username() (string, bool)
	Title() (string, bool)
	PermalinkURL() (string, bool)
	Description() (string, bool)
	StreamURL() (string, bool)
	DownloadURL() (string, bool)
	ArtworkURL() (string, bool)
	AvatarURL() (string, bool)
}

// TrackItem is the canonical, ASCII-normalized description of a remote track.
//
// A TrackItem is created by NewTrackItem and must be treated as read-only:
// Filename is derived from Username and Title at construction time and is
// never recomputed.
//
// Optional links are pointers; nil means the source did not provide them.
type TrackItem struct {
	// Username is the uploader's display name.
	Username string

	// Title is the track title.
	Title string

	// OriginalTitle holds the title as received when ASCII folding changed
	// it. Empty otherwise.
	OriginalTitle string

	// Permalink is the track's canonical URL and the ledger key.
	Permalink string

	// Description is the track description, if any.
	Description *string

	// StreamURL is the low quality, untagged stream.
	StreamURL *string

	// DownloadURL is the high quality, pre-tagged original upload.
	DownloadURL *string

	// ArtworkURL points at the 500x500 artwork (or the uploader avatar).
	ArtworkURL *string

	// Filename is slug(Username) + "-" + slug(Title), without extension.
	// A part that slugs to nothing is taken from the permalink path instead.
	Filename string
}

const (
	thumbnailSuffix = "-large"
	fullSizeSuffix  = "-t500x500"
)

// NewTrackItem builds a TrackItem from src.
//
// Username, title and permalink are required. Artwork falls back to the
// uploader avatar, and in both cases the "-large" thumbnail suffix is
// rewritten to request the 500x500 asset.
//
// Returns an error wrapping ErrMissingField if a required field is absent.
func NewTrackItem(src TrackSource) (*TrackItem, error) {
	if src == nil {
		return nil, ErrUnsupportedInputKind
	}

	username, ok := src.Username()
	if !ok {
		return nil, fmt.Errorf("%w: user.username", ErrMissingField)
	}
	title, ok := src.Title()
	if !ok {
		return nil, fmt.Errorf("%w: title", ErrMissingField)
	}
	permalink, ok := src.PermalinkURL()
	if !ok || permalink == "" {
		return nil, fmt.Errorf("%w: permalink_url", ErrMissingField)
	}

	item := &TrackItem{
		Username:  ToASCII(username),
		Title:     ToASCII(title),
		Permalink: permalink,
	}
	if item.Title != title {
		item.OriginalTitle = title
	}

	if v, ok := src.Description(); ok {
		item.Description = ptr(ToASCII(v))
	}
	if v, ok := src.StreamURL(); ok {
		item.StreamURL = ptr(v)
	}
	if v, ok := src.DownloadURL(); ok {
		item.DownloadURL = ptr(v)
	}

	artwork, ok := src.ArtworkURL()
	if !ok {
		artwork, ok = src.AvatarURL()
	}
	if ok && artwork != "" {
		item.ArtworkURL = ptr(strings.ReplaceAll(artwork, thumbnailSuffix, fullSizeSuffix))
	}

	item.Filename = fileName(item)

	return item, nil
}

// HasLink reports whether the track can be downloaded at all.
func (t *TrackItem) HasLink() bool {
	return t.StreamURL != nil || t.DownloadURL != nil
}

// IsPreTagged reports whether the preferred link is the original upload,
// which already carries its own tags.
func (t *TrackItem) IsPreTagged() bool {
	return t.DownloadURL != nil
}

// HasArtwork reports whether an artwork link is available.
func (t *TrackItem) HasArtwork() bool {
	return t.ArtworkURL != nil
}

// String renders the track on multiple lines for debug logging.
func (t *TrackItem) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "username: %s\n", t.Username)
	fmt.Fprintf(&sb, "title: %s\n", t.Title)
	fmt.Fprintf(&sb, "filename: %s\n", t.Filename)
	fmt.Fprintf(&sb, "permalink: %s\n", t.Permalink)
	fmt.Fprintf(&sb, "stream_url: %s\n", deref(t.StreamURL))
	fmt.Fprintf(&sb, "download_url: %s\n", deref(t.DownloadURL))
	fmt.Fprintf(&sb, "artwork_url: %s\n", deref(t.ArtworkURL))
	fmt.Fprintf(&sb, "description: %s", deref(t.Description))
	return sb.String()
}

// fileName derives the file name of item. A part that slugs to "" is
// replaced by the matching permalink segment.
func fileName(item *TrackItem) string {
	user, title := Slugify(item.Username), Slugify(item.Title)
	if user != "" && title != "" {
		return user + "-" + title
	}

	owner, slug := permalinkSegments(item.Permalink)
	if user == "" {
		user = owner
	}
	if title == "" {
		title = slug
	}
	return user + "-" + title
}

// permalinkSegments returns the slugged owner and track segments of a
// "https://soundcloud.com/<owner>/<track>" permalink.
func permalinkSegments(permalink string) (string, string) {
	p := permalink
	if u, err := url.Parse(permalink); err == nil {
		p = u.Path
	}
	segments := strings.Split(strings.Trim(p, "/"), "/")
	track := Slugify(segments[len(segments)-1])
	var owner string
	if len(segments) > 1 {
		owner = Slugify(segments[len(segments)-2])
	}
	return owner, track
}

func ptr(s string) *string {
	return &s
}

func deref(s *string) string {
	if s == nil {
		return "<none>"
	}
	return *s
}
