package app

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vietanh2810/eventsplus-api/internal/config"
	"github.com/vietanh2810/eventsplus-api/internal/pkg/sessionstore"
)

func TestOpenSessionStore(t *testing.T) {
	ctx := context.Background()

	store, err := OpenSessionStore(ctx, &config.RedisConfig{})
	require.NoError(t, err)
	assert.IsType(t, &sessionstore.MemoryStore{}, store)

	mr := miniredis.RunT(t)
	store, err = OpenSessionStore(ctx, &config.RedisConfig{Addr: mr.Addr()})
	require.NoError(t, err)
	assert.IsType(t, &sessionstore.RedisStore{}, store)

	_, err = OpenSessionStore(ctx, &config.RedisConfig{Addr: "127.0.0.1:1"})
	assert.Error(t, err)
}
