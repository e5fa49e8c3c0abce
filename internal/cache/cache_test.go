package cache

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArtworkCache_Fetch(t *testing.T) {
	c := New(10)
	t.Cleanup(c.Stop)

	calls := 0
	fetch := func() ([]byte, error) {
		calls++
		return []byte("jpeg"), nil
	}

	for range 3 {
		got, err := c.Fetch("https://i1.sndcdn.com/a-t500x500.jpg", fetch)
		require.NoError(t, err)
		assert.Equal(t, []byte("jpeg"), got)
	}
	assert.Equal(t, 1, calls)
}

func TestArtworkCache_ErrorsNotCached(t *testing.T) {
	c := New(10)
	t.Cleanup(c.Stop)

	boom := errors.New("boom")
	_, err := c.Fetch("u", func() ([]byte, error) { return nil, boom })
	require.ErrorIs(t, err, boom)

	got, err := c.Fetch("u", func() ([]byte, error) { return []byte("ok"), nil })
	require.NoError(t, err)
	assert.Equal(t, []byte("ok"), got)
}
