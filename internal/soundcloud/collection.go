package soundcloud

import (
	"context"
	"errors"
	"path/filepath"

	"github.com/tidwall/gjson"

	ioutils "github.com/handiism/soundcloud-downloader/internal/io"
	"github.com/handiism/soundcloud-downloader/internal/model"
	"github.com/handiism/soundcloud-downloader/internal/pager"
	"github.com/handiism/soundcloud-downloader/internal/soundcloud/dto"
)

// LikesDirName is the directory name used for a user's favorites.
const LikesDirName = "!_likes"

// Collection is a resolved list of tracks to download.
type Collection struct {
	Kind Kind

	// ID is the user id for favorites and the playlist id otherwise.
	ID int64

	// Owner is the permalink of the user the collection belongs to.
	Owner string

	// Name is LikesDirName for favorites and the playlist permalink
	// otherwise.
	Name string

	// Title is a human readable label for progress output.
	Title string

	// Listed is the track count the API reports for a playlist. Zero when
	// unknown, which is always the case for favorites.
	Listed int
}

// Dir returns the directory under root where the collection's files go:
// <root>/<owner>/<name>.
func (c Collection) Dir(root string) string {
	return filepath.Join(root, ioutils.SanitizeFileName(c.Owner), ioutils.SanitizeFileName(c.Name))
}

// Order returns how the API sorts the collection's tracks.
func (c Collection) Order() pager.Order {
	if c.Kind == KindFavorites {
		return pager.OrderNewestFirst
	}
	return pager.OrderAsIs
}

// Collections resolves target into the collections it denotes. Favorites and
// single playlists yield one collection; a ".../sets" target yields one per
// playlist.
//
// Returns a *ResolutionError if the target cannot be resolved.
func (c *Client) Collections(ctx context.Context, target Target) ([]Collection, error) {
	switch target.Kind {
	case KindPlaylist:
		pl, err := c.ResolvePlaylist(ctx, target.URL)
		if err != nil {
			return nil, err
		}
		return []Collection{playlistCollection(pl)}, nil

	case KindAllPlaylists:
		playlists, err := c.ResolvePlaylists(ctx, target.URL)
		if err != nil {
			return nil, err
		}
		out := make([]Collection, 0, len(playlists))
		for i := range playlists {
			out = append(out, playlistCollection(&playlists[i]))
		}
		return out, nil

	default:
		user, err := c.ResolveUser(ctx, target.URL)
		if err != nil {
			return nil, err
		}
		return []Collection{{
			Kind:  KindFavorites,
			ID:    user.ID,
			Owner: user.Permalink,
			Name:  LikesDirName,
			Title: "likes of " + user.Permalink,
		}}, nil
	}
}

func playlistCollection(pl *dto.JSONPlaylist) Collection {
	title := pl.Title
	if title == "" {
		title = pl.Permalink
	}
	return Collection{
		Kind:   KindPlaylist,
		ID:     pl.ID,
		Owner:  pl.Owner(),
		Name:   pl.Permalink,
		Title:  "playlist " + title,
		Listed: pl.TrackCount,
	}
}

// Skipped describes a record that could not be turned into a TrackItem.
type Skipped struct {
	Index int
	Err   error
}

// Tracks collects up to total tracks of coll in processing order (oldest
// first for favorites, playlist order for playlists).
//
// Records that fail normalization are left out and reported in the second
// return value. onPage may be nil.
func (c *Client) Tracks(ctx context.Context, coll Collection, total, pageCap int, onPage pager.PageFunc) ([]*model.TrackItem, []Skipped, error) {
	if onPage == nil {
		onPage = func(offset, requested, received int) {
			c.logger.Debug().
				Int64("collection_id", coll.ID).
				Int("offset", offset).
				Int("requested", requested).
				Int("received", received).
				Msg("Fetched page")
		}
	}

	var raw []any
	switch coll.Kind {
	case KindFavorites:
		fetch := func(ctx context.Context, limit, offset int) ([]dto.JSONTrack, error) {
			return c.FavoritesPage(ctx, coll.ID, limit, offset)
		}
		tracks, err := pager.NewCollector(fetch, pageCap, onPage).Collect(ctx, total)
		if err != nil {
			return nil, nil, err
		}
		for i := range tracks {
			raw = append(raw, &tracks[i])
		}
	case KindPlaylist:
		fetch := func(ctx context.Context, limit, offset int) ([]gjson.Result, error) {
			return c.PlaylistTracksPage(ctx, coll.ID, limit, offset)
		}
		tracks, err := pager.NewCollector(fetch, pageCap, onPage).Collect(ctx, total)
		if err != nil {
			return nil, nil, err
		}
		for _, t := range tracks {
			raw = append(raw, t)
		}
	default:
		return nil, nil, errors.New("collection kind cannot be paged: " + coll.Kind.String())
	}

	items, skipped := NormalizeAll(raw)
	return pager.Arrange(items, coll.Order()), skipped, nil
}

// NormalizeAll normalizes records in order, collecting failures instead of
// stopping at the first one.
func NormalizeAll(raw []any) ([]*model.TrackItem, []Skipped) {
	items := make([]*model.TrackItem, 0, len(raw))
	var skipped []Skipped
	for i, r := range raw {
		item, err := Normalize(r)
		if err != nil {
			skipped = append(skipped, Skipped{Index: i, Err: err})
			continue
		}
		items = append(items, item)
	}
	return items, skipped
}
