package token

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_CreateAndFind(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()

	created, err := s.Create(ctx, Token{
		Verb:           "ListRecords",
		MetadataPrefix: "oai_dc",
		Cursor:         50,
		Set:            "itemset_1",
		Expiration:     time.Now().Add(10 * time.Minute),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	found, err := s.Find(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, created, *found)

	found, err = s.Find(ctx, "unknown")
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestMemory_FindNeverReturnsExpired(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()

	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	s.Now = func() time.Time { return now }

	created, err := s.Create(ctx, Token{
		Verb:       "ListIdentifiers",
		Expiration: now.Add(10 * time.Minute),
	})
	require.NoError(t, err)

	now = now.Add(5 * time.Minute)
	found, err := s.Find(ctx, created.ID)
	require.NoError(t, err)
	assert.NotNil(t, found)

	// Expiration itself is already invalid.
	now = now.Add(5 * time.Minute)
	found, err = s.Find(ctx, created.ID)
	require.NoError(t, err)
	assert.Nil(t, found)
	assert.Equal(t, 1, s.Len())
}

func TestMemory_PurgeExpired(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()

	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	s.Now = func() time.Time { return now }

	_, err := s.Create(ctx, Token{Verb: "ListRecords", Expiration: now.Add(time.Minute)})
	require.NoError(t, err)
	live, err := s.Create(ctx, Token{Verb: "ListRecords", Expiration: now.Add(time.Hour)})
	require.NoError(t, err)

	now = now.Add(30 * time.Minute)
	require.NoError(t, s.PurgeExpired(ctx))

	assert.Equal(t, 1, s.Len())
	found, err := s.Find(ctx, live.ID)
	require.NoError(t, err)
	assert.NotNil(t, found)
}
