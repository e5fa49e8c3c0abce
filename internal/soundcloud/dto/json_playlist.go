package dto

// JSONPlaylist is a playlist ("set") resource.
//
// The embedded track list of the resolve response is truncated by the API and
// is not decoded; full track lists are paged through /playlists/{id}/tracks.
type JSONPlaylist struct {
	ID         int64     `json:"id"`
	Kind       string    `json:"kind"`
	Title      string    `json:"title"`
	Permalink  string    `json:"permalink"`
	TrackCount int       `json:"track_count"`
	User       *JSONUser `json:"user"`
}

// Owner returns the permalink of the playlist's creator, or "" if the API
// did not embed the user.
func (p *JSONPlaylist) Owner() string {
	if p.User == nil {
		return ""
	}
	return p.User.Permalink
}
