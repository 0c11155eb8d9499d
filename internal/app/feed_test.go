package app

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nezumiya/chat/internal/core"
	"github.com/nezumiya/chat/internal/domain"
)

// memFeed is an in-memory FeedStore.
type memFeed struct {
	profiles map[string]domain.Profile
	posts    []domain.Post
	groups   []domain.Group
	failWith error
}

func newMemFeed() *memFeed {
	return &memFeed{profiles: make(map[string]domain.Profile)}
}

func (f *memFeed) UpsertProfile(_ context.Context, p domain.Profile) error {
	if f.failWith != nil {
		return f.failWith
	}
	f.profiles[p.ID] = p
	return nil
}

func (f *memFeed) ListProfiles(_ context.Context) ([]domain.Profile, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	out := make([]domain.Profile, 0, len(f.profiles))
	for _, p := range f.profiles {
		out = append(out, p)
	}
	return out, nil
}

func (f *memFeed) CreatePost(_ context.Context, p domain.Post) error {
	if f.failWith != nil {
		return f.failWith
	}
	f.posts = append(f.posts, p)
	return nil
}

func (f *memFeed) ListPosts(_ context.Context, limit int) ([]domain.Post, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	out := make([]domain.Post, 0, limit)
	for i := len(f.posts) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, f.posts[i])
	}
	return out, nil
}

func (f *memFeed) CreateGroup(_ context.Context, g domain.Group) error {
	if f.failWith != nil {
		return f.failWith
	}
	f.groups = append(f.groups, g)
	return nil
}

func (f *memFeed) ListGroups(_ context.Context) ([]domain.Group, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	return f.groups, nil
}

type feedFixture struct {
	svc      *FeedService
	store    *memFeed
	presence *Presence
}

func newFeedFixture() *feedFixture {
	presence := NewPresence()
	store := newMemFeed()
	return &feedFixture{
		svc: &FeedService{
			Store:     store,
			Gateway:   NewGateway(presence),
			PostLimit: 200,
		},
		store:    store,
		presence: presence,
	}
}

func (f *feedFixture) connect(sid core.SessionID) *fakeConn {
	c := &fakeConn{}
	f.presence.Bind(sid, c)
	return c
}

func TestFeedCreateProfile(t *testing.T) {
	ctx := context.Background()
	f := newFeedFixture()
	c := f.connect("s1")

	f.svc.CreateProfile(ctx, "s1", alice)

	created := c.eventsOfType(t, core.EventProfileCreated)
	require.Len(t, created, 1)
	assert.Equal(t, alice, f.store.profiles["A"])
}

func TestFeedCreateProfileMalformed(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		profile domain.Profile
	}{
		{name: "missing id", profile: domain.Profile{Name: "NoID"}},
		{name: "missing name", profile: domain.Profile{ID: "x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFeedFixture()
			requester := f.connect("s1")
			bystander := f.connect("s2")

			f.svc.CreateProfile(ctx, "s1", tt.profile)

			require.Len(t, requester.eventsOfType(t, core.EventError), 1)
			assert.Empty(t, bystander.events(t), "malformed requests must not broadcast")
			assert.Empty(t, f.store.profiles)
		})
	}
}

func TestFeedCreatePostBroadcastsToAll(t *testing.T) {
	ctx := context.Background()
	f := newFeedFixture()
	author := f.connect("s1")
	other := f.connect("s2")

	f.svc.CreatePost(ctx, "s1", domain.Author{ID: "A", Name: "Alice"}, "first!")

	for _, c := range []*fakeConn{author, other} {
		posts := c.eventsOfType(t, core.EventNewPost)
		require.Len(t, posts, 1)
		post := posts[0]["post"].(map[string]any)
		assert.Equal(t, "first!", post["text"])
		assert.NotEmpty(t, post["id"])
	}
	require.Len(t, f.store.posts, 1)
}

func TestFeedCreatePostEmptyText(t *testing.T) {
	ctx := context.Background()
	f := newFeedFixture()
	c := f.connect("s1")

	f.svc.CreatePost(ctx, "s1", domain.Author{ID: "A"}, "")

	require.Len(t, c.eventsOfType(t, core.EventError), 1)
	assert.Empty(t, f.store.posts)
}

func TestFeedCreatePostStoreFailure(t *testing.T) {
	ctx := context.Background()
	f := newFeedFixture()
	f.store.failWith = errors.New("db down")
	requester := f.connect("s1")
	bystander := f.connect("s2")

	f.svc.CreatePost(ctx, "s1", domain.Author{ID: "A"}, "hello")

	require.Len(t, requester.eventsOfType(t, core.EventError), 1)
	assert.Empty(t, bystander.events(t), "failed posts must not broadcast")
}

func TestFeedListPostsWindow(t *testing.T) {
	ctx := context.Background()
	f := newFeedFixture()
	f.svc.PostLimit = 3
	for i := 0; i < 5; i++ {
		f.store.posts = append(f.store.posts, domain.Post{ID: "p", TS: int64(i)})
	}
	c := f.connect("s1")

	f.svc.ListPosts(ctx, "s1")

	lists := c.eventsOfType(t, core.EventPosts)
	require.Len(t, lists, 1)
	assert.Len(t, lists[0]["posts"], 3)
}

func TestFeedListFailuresReplyEmpty(t *testing.T) {
	ctx := context.Background()
	f := newFeedFixture()
	f.store.failWith = errors.New("db down")
	c := f.connect("s1")

	f.svc.ListPosts(ctx, "s1")
	f.svc.ListProfiles(ctx, "s1")
	f.svc.ListGroups(ctx, "s1")

	posts := c.eventsOfType(t, core.EventPosts)
	require.Len(t, posts, 1)
	assert.Empty(t, posts[0]["posts"])
	profiles := c.eventsOfType(t, core.EventProfiles)
	require.Len(t, profiles, 1)
	assert.Empty(t, profiles[0]["profiles"])
	groups := c.eventsOfType(t, core.EventGroups)
	require.Len(t, groups, 1)
	assert.Empty(t, groups[0]["groups"])
}

func TestFeedCreateGroup(t *testing.T) {
	ctx := context.Background()
	f := newFeedFixture()
	creator := f.connect("s1")
	other := f.connect("s2")

	f.svc.CreateGroup(ctx, "s1", "gophers", []string{"A", "B"})

	for _, c := range []*fakeConn{creator, other} {
		created := c.eventsOfType(t, core.EventGroupCreated)
		require.Len(t, created, 1)
		group := created[0]["group"].(map[string]any)
		assert.Equal(t, "gophers", group["name"])
	}
	require.Len(t, f.store.groups, 1)
	assert.Equal(t, []string{"A", "B"}, f.store.groups[0].Members)
}

func TestFeedCreateGroupRequiresName(t *testing.T) {
	ctx := context.Background()
	f := newFeedFixture()
	c := f.connect("s1")

	f.svc.CreateGroup(ctx, "s1", "", nil)

	require.Len(t, c.eventsOfType(t, core.EventError), 1)
	assert.Empty(t, f.store.groups)
}
