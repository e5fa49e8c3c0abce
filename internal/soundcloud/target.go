package soundcloud

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// BaseSiteURL is prepended to bare usernames.
const BaseSiteURL = "https://soundcloud.com"

// Kind is the kind of collection a target URL points at.
type Kind int

const (
	// KindFavorites is a user's liked tracks.
	KindFavorites Kind = iota

	// KindPlaylist is a single playlist ("set").
	KindPlaylist

	// KindAllPlaylists is every playlist of a user (a ".../sets" URL).
	KindAllPlaylists
)

func (k Kind) String() string {
	switch k {
	case KindFavorites:
		return "favorites"
	case KindPlaylist:
		return "playlist"
	case KindAllPlaylists:
		return "all playlists"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ErrInvalidTarget is returned for input that is neither a SoundCloud URL nor
// a username.
var ErrInvalidTarget = errors.New("invalid target")

// Target is a parsed command line input.
type Target struct {
	// URL is the page URL passed to the resolve endpoint.
	URL  string
	Kind Kind
}

// ParseTarget classifies a URL or bare username.
//
// A username maps to that user's favorites. A URL ending in "/sets" selects
// all playlists of the user, one containing "/sets/" a single playlist, and
// anything else the user's favorites. A trailing "/likes" or "/favorites"
// is dropped since only the user page resolves.
//
//	ParseTarget("someone")                                 // favorites
//	ParseTarget("https://soundcloud.com/someone/sets/")    // all playlists
//	ParseTarget("https://soundcloud.com/someone/sets/mix") // playlist
func ParseTarget(input string) (Target, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return Target{}, fmt.Errorf("%w: empty input", ErrInvalidTarget)
	}

	if !strings.Contains(s, "/") {
		return Target{URL: BaseSiteURL + "/" + s, Kind: KindFavorites}, nil
	}

	if !strings.Contains(s, "://") {
		s = "https://" + s
	}
	u, err := url.Parse(s)
	if err != nil || u.Host == "" {
		return Target{}, fmt.Errorf("%w: %q", ErrInvalidTarget, input)
	}

	path := strings.TrimSuffix(u.Path, "/")
	switch {
	case path == "":
		return Target{}, fmt.Errorf("%w: %q has no user", ErrInvalidTarget, input)
	case strings.HasSuffix(path, "/sets"):
		return Target{URL: s, Kind: KindAllPlaylists}, nil
	case strings.Contains(path, "/sets/"):
		return Target{URL: s, Kind: KindPlaylist}, nil
	}

	for _, suffix := range []string{"/likes", "/favorites"} {
		path = strings.TrimSuffix(path, suffix)
	}
	u.Path = path
	u.RawQuery = ""
	u.Fragment = ""
	return Target{URL: u.String(), Kind: KindFavorites}, nil
}
