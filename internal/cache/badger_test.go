package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBadgerStore(t *testing.T) {
	ctx := context.Background()
	db, err := OpenBadger("", nil)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	s := NewBadgerStore(db, "pages:")

	_, ok, err := s.Get(ctx, Key("index", 1))
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set(ctx, Key("index", 1), []byte("page one"), time.Minute))
	require.NoError(t, s.Set(ctx, Key("index", 2), []byte("page two"), time.Minute))

	v, ok, err := s.Get(ctx, Key("index", 1))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "page one", string(v))

	require.NoError(t, s.Flush(ctx))
	for _, page := range []int{1, 2} {
		_, ok, err = s.Get(ctx, Key("index", page))
		require.NoError(t, err)
		assert.False(t, ok)
	}
}
