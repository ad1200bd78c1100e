package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vietanh2810/eventsplus-api/internal/domain"
)

func TestLocationService_Resolve(t *testing.T) {
	repo := &memoryLocationRepo{}
	svc := NewLocationService(repo)
	ctx := context.Background()

	first, err := svc.Resolve(ctx, "  Rua X ", 41.0, -8.0)
	require.NoError(t, err)
	assert.Equal(t, "Rua X", first.Name)

	again, err := svc.Resolve(ctx, "Somewhere else", 41.0, -8.0)
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)

	other, err := svc.Resolve(ctx, "Rua X", 41.0000001, -8.0)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, other.ID)

	assert.Len(t, repo.locations, 2)
}

func TestLocationService_CreateLocation(t *testing.T) {
	repo := &memoryLocationRepo{}
	svc := NewLocationService(repo)
	ctx := context.Background()

	created, err := svc.CreateLocation(ctx, domain.Location{Address: " Praça 1 ", City: "Porto", Latitude: 41.1, Longitude: -8.6})
	require.NoError(t, err)
	assert.Equal(t, "Praça 1", created.Name)
	assert.Equal(t, domain.SourceManual, created.Source)

	_, err = svc.CreateLocation(ctx, domain.Location{Address: "Praça 1", Latitude: 0, Longitude: 0})
	assert.ErrorIs(t, err, ErrLocationAddressExists)
}

func TestLocationService_UpdateDelete(t *testing.T) {
	repo := &memoryLocationRepo{}
	svc := NewLocationService(repo)
	ctx := context.Background()

	created, err := svc.CreateLocation(ctx, domain.Location{Address: "Old", Source: domain.SourceOSM})
	require.NoError(t, err)

	updated, err := svc.UpdateLocation(ctx, domain.Location{ID: created.ID, Address: "New", Latitude: 1, Longitude: 2, Source: domain.SourceManual})
	require.NoError(t, err)
	assert.Equal(t, "New", updated.Name)

	_, err = svc.UpdateLocation(ctx, domain.Location{ID: 99, Address: "x"})
	assert.ErrorIs(t, err, ErrLocationNotFound)

	require.NoError(t, svc.DeleteLocation(ctx, created.ID))
	assert.ErrorIs(t, svc.DeleteLocation(ctx, created.ID), ErrLocationNotFound)
}
