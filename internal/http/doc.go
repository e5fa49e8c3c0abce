// Package http provides the HTTP client used for SoundCloud API requests and
// file downloads.
//
// The Client in this package handles:
//   - User-Agent headers
//   - Timeout handling
//   - Streaming downloads to disk with progress tracking
//   - Typed errors (FetchError) for non-2xx responses and broken transfers
//
// # Basic Usage
//
//	client := http.NewClient(60*time.Second, "soundcloud-downloader")
//
//	// Fetch an API response
//	body, err := client.Get(ctx, "https://api.soundcloud.com/resolve?url=...")
//
//	// Download a track
//	err = client.DownloadFile(ctx, streamURL, "/downloads/artist-song.mp3", nil)
//	var fetchErr *http.FetchError
//	if errors.As(err, &fetchErr) {
//	    fmt.Println(fetchErr.StatusCode)
//	}
package http
