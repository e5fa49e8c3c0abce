package dto_test

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/handiism/soundcloud-downloader/internal/model"
	"github.com/handiism/soundcloud-downloader/internal/soundcloud/dto"
)

const favoritesPage = `[
	{
		"id": 7,
		"kind": "track",
		"title": "Night Drive",
		"permalink_url": "https://soundcloud.com/artist/night-drive",
		"description": null,
		"stream_url": "https://api.soundcloud.com/tracks/7/stream",
		"download_url": "https://api.soundcloud.com/tracks/7/download",
		"artwork_url": "https://i1.sndcdn.com/artworks-7-large.jpg",
		"user": {"id": 1, "username": "Artist", "permalink": "artist", "avatar_url": null}
	}
]`

func TestJSONTrack_DecodeAndNormalize(t *testing.T) {
	var page []dto.JSONTrack
	require.NoError(t, json.Unmarshal([]byte(favoritesPage), &page))
	require.Len(t, page, 1)

	track := &page[0]
	assert.Equal(t, int64(7), track.ID)
	require.NotNil(t, track.RawTitle)
	assert.Nil(t, track.RawDescription)

	title, ok := track.Title()
	assert.True(t, ok)
	assert.Equal(t, "Night Drive", title)
	_, ok = track.Description()
	assert.False(t, ok)

	item, err := model.NewTrackItem(track)
	require.NoError(t, err)
	assert.Equal(t, "artist-night-drive", item.Filename)
	assert.Equal(t, "https://soundcloud.com/artist/night-drive", item.Permalink)
	assert.Nil(t, item.Description)
	require.NotNil(t, item.ArtworkURL)
	assert.Equal(t, "https://i1.sndcdn.com/artworks-7-t500x500.jpg", *item.ArtworkURL)
	assert.True(t, item.IsPreTagged())
}

func TestJSONTrack_MissingUser(t *testing.T) {
	track := &dto.JSONTrack{RawTitle: new(string)}
	_, ok := track.Username()
	assert.False(t, ok)
	_, ok = track.AvatarURL()
	assert.False(t, ok)

	_, err := model.NewTrackItem(track)
	assert.ErrorIs(t, err, model.ErrMissingField)
}

func TestMapping_AgreesWithJSONTrack(t *testing.T) {
	var page []dto.JSONTrack
	require.NoError(t, json.Unmarshal([]byte(favoritesPage), &page))
	typed, err := model.NewTrackItem(&page[0])
	require.NoError(t, err)

	mapped, err := model.NewTrackItem(dto.NewMapping(gjson.Parse(favoritesPage).Get("0")))
	require.NoError(t, err)
	assert.Equal(t, typed, mapped)

	_, ok := dto.ParseMapping([]byte(`[1]`))
	assert.False(t, ok)
}
