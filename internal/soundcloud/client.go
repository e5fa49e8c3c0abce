package soundcloud

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"
	"github.com/xeptore/flaw/v8"

	schttp "github.com/handiism/soundcloud-downloader/internal/http"
	"github.com/handiism/soundcloud-downloader/internal/soundcloud/dto"
)

// DefaultAPIBaseURL is the public SoundCloud API root.
const DefaultAPIBaseURL = "https://api.soundcloud.com"

// ResolutionError reports a target URL the API could not resolve. It is
// fatal for the whole run.
type ResolutionError struct {
	URL string
	Err error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("resolve %s: %v", e.URL, e.Err)
}

func (e *ResolutionError) Unwrap() error {
	return e.Err
}

// ErrUnexpectedKind is wrapped by ResolutionError when a URL resolves to a
// resource of the wrong kind, e.g. a track where a user was expected.
var ErrUnexpectedKind = errors.New("unexpected resource kind")

// Client talks to the two API surfaces the downloader needs: resolving a
// page URL to a resource and listing a collection by offset.
//
// Example:
//
//	c := soundcloud.NewClient(httpClient, soundcloud.DefaultAPIBaseURL, clientID, logger)
//	user, err := c.ResolveUser(ctx, "https://soundcloud.com/someone")
//	page, err := c.FavoritesPage(ctx, user.ID, 50, 0)
type Client struct {
	http     *schttp.Client
	baseURL  string
	clientID string
	logger   zerolog.Logger
}

// NewClient creates a Client. An empty baseURL means DefaultAPIBaseURL.
func NewClient(http *schttp.Client, baseURL, clientID string, logger zerolog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultAPIBaseURL
	}
	return &Client{
		http:     http,
		baseURL:  baseURL,
		clientID: clientID,
		logger:   logger.With().Str("module", "soundcloud").Logger(),
	}
}

// ClientID returns the API credential appended to every request.
func (c *Client) ClientID() string {
	return c.clientID
}

// WithClientID returns link with the client_id query parameter set.
//
// Links the API hands out for audio (stream_url, download_url) require the
// credential as well.
func WithClientID(link, clientID string) (string, error) {
	u, err := url.Parse(link)
	if err != nil {
		return "", fmt.Errorf("parse link %q: %w", link, err)
	}
	q := u.Query()
	q.Set("client_id", clientID)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func (c *Client) endpoint(path string, query url.Values) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", flaw.From(fmt.Errorf("failed to parse API base URL: %v", err)).Append(flaw.P{"base_url": c.baseURL})
	}
	u = u.JoinPath(path)
	if query == nil {
		query = url.Values{}
	}
	query.Set("client_id", c.clientID)
	u.RawQuery = query.Encode()
	return u.String(), nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	endpoint, err := c.endpoint(path, query)
	if err != nil {
		return nil, err
	}
	c.logger.Debug().Str("url", endpoint).Msg("Requesting API")
	return c.http.Get(ctx, endpoint)
}

func (c *Client) resolve(ctx context.Context, pageURL string) ([]byte, error) {
	body, err := c.get(ctx, "resolve", url.Values{"url": {pageURL}})
	if err != nil {
		return nil, &ResolutionError{URL: pageURL, Err: err}
	}
	if !gjson.ValidBytes(body) {
		return nil, &ResolutionError{URL: pageURL, Err: errors.New("response is not valid JSON")}
	}
	return body, nil
}

// ResolveUser resolves a user page URL.
//
// Returns a *ResolutionError if the request fails or the URL is not a user.
func (c *Client) ResolveUser(ctx context.Context, pageURL string) (*dto.JSONResource, error) {
	body, err := c.resolve(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	var user dto.JSONResource
	if err := json.Unmarshal(body, &user); err != nil {
		return nil, &ResolutionError{URL: pageURL, Err: err}
	}
	if user.Kind != dto.KindUser {
		return nil, &ResolutionError{URL: pageURL, Err: fmt.Errorf("%w: got %q, want %q", ErrUnexpectedKind, user.Kind, dto.KindUser)}
	}
	return &user, nil
}

// ResolvePlaylist resolves a single playlist URL.
func (c *Client) ResolvePlaylist(ctx context.Context, pageURL string) (*dto.JSONPlaylist, error) {
	body, err := c.resolve(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	var pl dto.JSONPlaylist
	if err := json.Unmarshal(body, &pl); err != nil {
		return nil, &ResolutionError{URL: pageURL, Err: err}
	}
	if pl.Kind != dto.KindPlaylist {
		return nil, &ResolutionError{URL: pageURL, Err: fmt.Errorf("%w: got %q, want %q", ErrUnexpectedKind, pl.Kind, dto.KindPlaylist)}
	}
	return &pl, nil
}

// ResolvePlaylists resolves a ".../sets" URL to every playlist of the user.
//
// The endpoint answers either with a bare array or with a
// {"collection": [...]} envelope; both are accepted.
func (c *Client) ResolvePlaylists(ctx context.Context, pageURL string) ([]dto.JSONPlaylist, error) {
	body, err := c.resolve(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	list := collection(body)
	if !list.IsArray() {
		return nil, &ResolutionError{URL: pageURL, Err: fmt.Errorf("%w: expected a playlist list", ErrUnexpectedKind)}
	}

	var playlists []dto.JSONPlaylist
	if err := json.Unmarshal([]byte(list.Raw), &playlists); err != nil {
		return nil, &ResolutionError{URL: pageURL, Err: err}
	}
	return playlists, nil
}

// FavoritesPage returns up to limit tracks liked by the user, newest first,
// starting at offset. The API may return fewer than limit.
func (c *Client) FavoritesPage(ctx context.Context, userID int64, limit, offset int) ([]dto.JSONTrack, error) {
	path := "users/" + strconv.FormatInt(userID, 10) + "/favorites"
	body, err := c.page(ctx, path, limit, offset)
	if err != nil {
		return nil, err
	}

	var tracks []dto.JSONTrack
	if err := json.Unmarshal([]byte(collection(body).Raw), &tracks); err != nil {
		flawP := flaw.P{"path": path, "limit": limit, "offset": offset, "response_body": string(body)}
		return nil, flaw.From(fmt.Errorf("failed to decode favorites page: %v", err)).Append(flawP)
	}
	return tracks, nil
}

// PlaylistTracksPage returns up to limit raw track objects of the playlist
// in playlist order, starting at offset.
func (c *Client) PlaylistTracksPage(ctx context.Context, playlistID int64, limit, offset int) ([]gjson.Result, error) {
	path := "playlists/" + strconv.FormatInt(playlistID, 10) + "/tracks"
	body, err := c.page(ctx, path, limit, offset)
	if err != nil {
		return nil, err
	}

	list := collection(body)
	if !list.IsArray() {
		flawP := flaw.P{"path": path, "limit": limit, "offset": offset, "response_body": string(body)}
		return nil, flaw.From(errors.New("playlist tracks page is not a list")).Append(flawP)
	}
	return list.Array(), nil
}

func (c *Client) page(ctx context.Context, path string, limit, offset int) ([]byte, error) {
	query := url.Values{
		"limit":  {strconv.Itoa(limit)},
		"offset": {strconv.Itoa(offset)},
	}
	body, err := c.get(ctx, path, query)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		var fetchErr *schttp.FetchError
		flawP := flaw.P{"path": path, "limit": limit, "offset": offset}
		if errors.As(err, &fetchErr) {
			flawP["status_code"] = fetchErr.StatusCode
		}
		return nil, flaw.From(fmt.Errorf("failed to fetch collection page: %v", err)).Append(flawP)
	}
	if !gjson.ValidBytes(body) {
		flawP := flaw.P{"path": path, "response_body": string(body)}
		return nil, flaw.From(errors.New("collection page is not valid JSON")).Append(flawP)
	}
	return body, nil
}

// collection unwraps a linked-partitioning envelope if present.
func collection(body []byte) gjson.Result {
	res := gjson.ParseBytes(body)
	if res.IsObject() {
		if inner := res.Get("collection"); inner.Exists() {
			return inner
		}
	}
	return res
}
