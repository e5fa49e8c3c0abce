package soundcloud_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	schttp "github.com/handiism/soundcloud-downloader/internal/http"
	"github.com/handiism/soundcloud-downloader/internal/model"
	"github.com/handiism/soundcloud-downloader/internal/soundcloud"
	"github.com/handiism/soundcloud-downloader/internal/soundcloud/dto"
)

const trackJSON = `{
	"kind": "track",
	"title": "Déjà Vu!!",
	"permalink_url": "https://soundcloud.com/padraig/deja-vu",
	"description": "first line",
	"stream_url": "https://api.soundcloud.com/tracks/1/stream",
	"artwork_url": null,
	"user": {"username": "Pádraig Ó", "avatar_url": "https://i1.sndcdn.com/avatars-1-large.jpg"}
}`

func TestParseTarget(t *testing.T) {
	tests := []struct {
		input string
		want  soundcloud.Target
	}{
		{"someone", soundcloud.Target{URL: "https://soundcloud.com/someone", Kind: soundcloud.KindFavorites}},
		{"https://soundcloud.com/someone/likes", soundcloud.Target{URL: "https://soundcloud.com/someone", Kind: soundcloud.KindFavorites}},
		{"soundcloud.com/someone", soundcloud.Target{URL: "https://soundcloud.com/someone", Kind: soundcloud.KindFavorites}},
		{"https://soundcloud.com/someone/sets/", soundcloud.Target{URL: "https://soundcloud.com/someone/sets/", Kind: soundcloud.KindAllPlaylists}},
		{"https://soundcloud.com/someone/sets", soundcloud.Target{URL: "https://soundcloud.com/someone/sets", Kind: soundcloud.KindAllPlaylists}},
		{" https://soundcloud.com/someone/sets/mix ", soundcloud.Target{URL: "https://soundcloud.com/someone/sets/mix", Kind: soundcloud.KindPlaylist}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := soundcloud.ParseTarget(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	for _, bad := range []string{"", "   ", "https://soundcloud.com/"} {
		_, err := soundcloud.ParseTarget(bad)
		assert.ErrorIs(t, err, soundcloud.ErrInvalidTarget, "input %q", bad)
	}
}

func TestNormalize_ShapesAgree(t *testing.T) {
	var typed dto.JSONTrack
	require.NoError(t, json.Unmarshal([]byte(trackJSON), &typed))

	var asMap map[string]any
	require.NoError(t, json.Unmarshal([]byte(trackJSON), &asMap))

	want, err := soundcloud.Normalize(&typed)
	require.NoError(t, err)
	assert.Equal(t, "padraig-o-deja-vu", want.Filename)
	assert.Equal(t, "https://i1.sndcdn.com/avatars-1-t500x500.jpg", *want.ArtworkURL)
	assert.Nil(t, want.DownloadURL)

	inputs := map[string]any{
		"value":   typed,
		"raw":     json.RawMessage(trackJSON),
		"bytes":   []byte(trackJSON),
		"gjson":   gjson.Parse(trackJSON),
		"map":     asMap,
		"mapping": dto.NewMapping(gjson.Parse(trackJSON)),
	}
	for name, in := range inputs {
		t.Run(name, func(t *testing.T) {
			got, err := soundcloud.Normalize(in)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestNormalize_Unsupported(t *testing.T) {
	for _, in := range []any{nil, 42, "string", []byte("[1,2]"), gjson.Parse("3"), (*dto.JSONTrack)(nil)} {
		_, err := soundcloud.Normalize(in)
		assert.ErrorIs(t, err, model.ErrUnsupportedInputKind, "input %#v", in)
	}
}

func TestWithClientID(t *testing.T) {
	got, err := soundcloud.WithClientID("https://api.soundcloud.com/tracks/1/stream?foo=bar", "abc")
	require.NoError(t, err)
	assert.Equal(t, "https://api.soundcloud.com/tracks/1/stream?client_id=abc&foo=bar", got)
}

func track(name string) map[string]any {
	return map[string]any{
		"kind":          "track",
		"title":         name,
		"permalink_url": "https://soundcloud.com/u/" + name,
		"stream_url":    "https://api.soundcloud.com/tracks/" + name + "/stream",
		"user":          map[string]any{"username": "u", "avatar_url": nil},
	}
}

// fakeAPI serves a user with favorites A, B, C (newest first) and a playlist
// with tracks A, B, C in playlist order. Each page returns at most two
// items regardless of the requested limit.
func fakeAPI(t *testing.T) *httptest.Server {
	t.Helper()
	records := []map[string]any{track("A"), track("B"), track("C")}

	page := func(w http.ResponseWriter, r *http.Request, envelope bool) {
		assert.Equal(t, "cid", r.URL.Query().Get("client_id"))
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
		end := min(offset+min(limit, 2), len(records))
		var out any = records[min(offset, len(records)):end]
		if envelope {
			out = map[string]any{"collection": out}
		}
		b, err := json.Marshal(out)
		require.NoError(t, err)
		_, _ = w.Write(b)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/resolve", func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("url") {
		case "https://soundcloud.com/u":
			fmt.Fprint(w, `{"id": 1, "kind": "user", "permalink": "u"}`)
		case "https://soundcloud.com/u/sets/mix":
			fmt.Fprint(w, `{"id": 2, "kind": "playlist", "title": "Mix", "permalink": "mix", "track_count": 3, "user": {"permalink": "u"}}`)
		case "https://soundcloud.com/u/sets/":
			fmt.Fprint(w, `[{"id": 2, "kind": "playlist", "permalink": "mix", "user": {"permalink": "u"}},
				{"id": 3, "kind": "playlist", "permalink": "other", "user": {"permalink": "u"}}]`)
		case "https://soundcloud.com/u/track":
			fmt.Fprint(w, `{"id": 9, "kind": "track"}`)
		default:
			http.NotFound(w, r)
		}
	})
	mux.HandleFunc("/users/1/favorites", func(w http.ResponseWriter, r *http.Request) { page(w, r, false) })
	mux.HandleFunc("/playlists/2/tracks", func(w http.ResponseWriter, r *http.Request) { page(w, r, true) })

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newClient(srv *httptest.Server) *soundcloud.Client {
	return soundcloud.NewClient(schttp.NewClient(0, "test"), srv.URL, "cid", zerolog.Nop())
}

func titles(items []*model.TrackItem) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Title)
	}
	return out
}

func TestClient_CollectionOrdering(t *testing.T) {
	t.Parallel()
	c := newClient(fakeAPI(t))
	ctx := context.Background()

	likes, err := c.Collections(ctx, soundcloud.Target{URL: "https://soundcloud.com/u", Kind: soundcloud.KindFavorites})
	require.NoError(t, err)
	require.Len(t, likes, 1)
	assert.Equal(t, "u/!_likes", likes[0].Dir(""))

	items, skipped, err := c.Tracks(ctx, likes[0], 10, 100, nil)
	require.NoError(t, err)
	assert.Empty(t, skipped)
	assert.Equal(t, []string{"C", "B", "A"}, titles(items))

	pl, err := c.Collections(ctx, soundcloud.Target{URL: "https://soundcloud.com/u/sets/mix", Kind: soundcloud.KindPlaylist})
	require.NoError(t, err)
	require.Len(t, pl, 1)
	assert.Equal(t, "u/mix", pl[0].Dir(""))
	assert.Equal(t, "playlist Mix", pl[0].Title)
	assert.Equal(t, 3, pl[0].Listed)

	items, _, err = c.Tracks(ctx, pl[0], 10, 100, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C"}, titles(items))
}

func TestClient_TracksStopsAtTotal(t *testing.T) {
	t.Parallel()
	c := newClient(fakeAPI(t))
	coll := soundcloud.Collection{Kind: soundcloud.KindPlaylist, ID: 2}

	var offsets []int
	items, _, err := c.Tracks(context.Background(), coll, 3, 100, func(offset, _, _ int) {
		offsets = append(offsets, offset)
	})
	require.NoError(t, err)
	assert.Len(t, items, 3)
	assert.Equal(t, []int{0, 2}, offsets)
}

func TestClient_AllPlaylists(t *testing.T) {
	t.Parallel()
	c := newClient(fakeAPI(t))

	colls, err := c.Collections(context.Background(), soundcloud.Target{URL: "https://soundcloud.com/u/sets/", Kind: soundcloud.KindAllPlaylists})
	require.NoError(t, err)
	require.Len(t, colls, 2)
	assert.Equal(t, "mix", colls[0].Name)
	assert.Equal(t, "other", colls[1].Name)
	assert.Equal(t, "u", colls[1].Owner)
	assert.Equal(t, "playlist other", colls[1].Title)
	assert.Zero(t, colls[1].Listed)
}

func TestClient_ResolutionErrors(t *testing.T) {
	t.Parallel()
	c := newClient(fakeAPI(t))
	ctx := context.Background()

	_, err := c.Collections(ctx, soundcloud.Target{URL: "https://soundcloud.com/nobody", Kind: soundcloud.KindFavorites})
	var resErr *soundcloud.ResolutionError
	require.ErrorAs(t, err, &resErr)
	var fetchErr *schttp.FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, http.StatusNotFound, fetchErr.StatusCode)

	_, err = c.Collections(ctx, soundcloud.Target{URL: "https://soundcloud.com/u/track", Kind: soundcloud.KindFavorites})
	require.ErrorAs(t, err, &resErr)
	assert.True(t, errors.Is(err, soundcloud.ErrUnexpectedKind))
}

func TestNormalizeAll_SkipsBadRecords(t *testing.T) {
	items, skipped := soundcloud.NormalizeAll([]any{
		[]byte(trackJSON),
		[]byte(`{"title": "no user"}`),
		17,
	})
	assert.Len(t, items, 1)
	require.Len(t, skipped, 2)
	assert.Equal(t, 1, skipped[0].Index)
	assert.ErrorIs(t, skipped[0].Err, model.ErrMissingField)
	assert.ErrorIs(t, skipped[1].Err, model.ErrUnsupportedInputKind)
}
