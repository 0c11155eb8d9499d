package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nezumiya/chat/internal/domain"
)

func TestFeedProfileUpsertLastWriteWins(t *testing.T) {
	ctx := context.Background()
	r := NewFeed(openTestDB(t))

	require.NoError(t, r.UpsertProfile(ctx, domain.Profile{ID: "A", Name: "Alice"}))
	require.NoError(t, r.UpsertProfile(ctx, domain.Profile{ID: "A", Name: "Alicia", Bio: "hi"}))

	got, err := r.ListProfiles(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Alicia", got[0].Name)
	assert.Equal(t, "hi", got[0].Bio)
}

func TestFeedPostsNewestFirstWindow(t *testing.T) {
	ctx := context.Background()
	r := NewFeed(openTestDB(t))

	for i := 1; i <= 4; i++ {
		require.NoError(t, r.CreatePost(ctx, domain.Post{
			ID:     string(rune('a' + i)),
			Text:   "post",
			Author: domain.Author{ID: "A", Name: "Alice"},
			TS:     int64(i * 10),
		}))
	}

	got, err := r.ListPosts(ctx, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, int64(40), got[0].TS)
	assert.Equal(t, int64(30), got[1].TS)
	assert.Equal(t, "Alice", got[0].Author.Name)
}

func TestFeedGroupMembersRoundTrip(t *testing.T) {
	ctx := context.Background()
	r := NewFeed(openTestDB(t))

	require.NoError(t, r.CreateGroup(ctx, domain.Group{ID: "g1", Name: "gophers", Members: []string{"A", "B"}, TS: 1}))
	require.NoError(t, r.CreateGroup(ctx, domain.Group{ID: "g2", Name: "empty", TS: 2}))

	got, err := r.ListGroups(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, []string{"A", "B"}, got[0].Members)
	assert.Empty(t, got[1].Members)
}
