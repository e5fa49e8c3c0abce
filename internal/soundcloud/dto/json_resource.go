package dto

// Resource kinds reported by the resolve endpoint.
const (
	KindUser     = "user"
	KindPlaylist = "playlist"
)

// JSONResource is the common header of any resolved resource.
//
// The resolve endpoint answers with a single object for user, playlist and
// track URLs and with an array of playlists for a ".../sets" URL.
type JSONResource struct {
	ID        int64  `json:"id"`
	Kind      string `json:"kind"`
	Permalink string `json:"permalink"`
}
