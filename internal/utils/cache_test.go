package utils

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONHelpers(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()
	ctx := context.Background()

	type record struct {
		Name string `json:"name"`
	}

	var got record
	found, err := GetJSON(ctx, rdb, "k", &got)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, SetJSON(ctx, rdb, "k", record{Name: "alice"}, time.Minute))
	found, err = GetJSON(ctx, rdb, "k", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "alice", got.Name)
	assert.Equal(t, time.Minute, mr.TTL("k"))

	require.NoError(t, DeleteKeys(ctx, rdb, "k"))
	assert.False(t, mr.Exists("k"))
	assert.NoError(t, DeleteKeys(ctx, rdb))
}
