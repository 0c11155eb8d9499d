package core

import "github.com/nezumiya/chat/internal/domain"

// Event names shared with the browser client. Some carry spaces for
// compatibility with the original socket protocol.
const (
	EventJoin          = "join"
	EventJoinError     = "join_error"
	EventChatMessage   = "chat message"
	EventHistory       = "previous-messages"
	EventTyping        = "typing"
	EventProfileUpdate = "profile update"
	EventClearChat     = "clear chat"
	EventCleared       = "cleared"
	EventUsers         = "users"

	EventCreateProfile  = "create_profile"
	EventListProfiles   = "list_profiles"
	EventProfileCreated = "profile_created"
	EventProfiles       = "profiles"
	EventCreatePost     = "create_post"
	EventListPosts      = "list_posts"
	EventNewPost        = "new_post"
	EventPosts          = "posts"
	EventCreateGroup    = "create_group"
	EventListGroups     = "list_groups"
	EventGroupCreated   = "group_created"
	EventGroups         = "groups"

	EventError = "error"
	EventPing  = "ping"
	EventPong  = "pong"
)

// Envelope is the decoded head of every inbound frame.
type Envelope struct {
	Type string `json:"type"`
}

// Server-to-client payloads. Each carries its own event name so the
// gateway can marshal them without extra wrapping.

type UsersEvent struct {
	Type  string           `json:"type"`
	Users []domain.Profile `json:"users"`
}

type ChatEvent struct {
	Type string `json:"type"`
	domain.Message
}

type HistoryEvent struct {
	Type     string           `json:"type"`
	Messages []domain.Message `json:"messages"`
}

// TypingEvent relays a profile, or null for "stopped typing".
type TypingEvent struct {
	Type    string          `json:"type"`
	Profile *domain.Profile `json:"profile"`
}

type ClearedEvent struct {
	Type string `json:"type"`
}

type ErrorEvent struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}

type ProfileEvent struct {
	Type    string         `json:"type"`
	Profile domain.Profile `json:"profile"`
}

type ProfilesEvent struct {
	Type     string           `json:"type"`
	Profiles []domain.Profile `json:"profiles"`
}

type PostEvent struct {
	Type string      `json:"type"`
	Post domain.Post `json:"post"`
}

type PostsEvent struct {
	Type  string        `json:"type"`
	Posts []domain.Post `json:"posts"`
}

type GroupEvent struct {
	Type  string       `json:"type"`
	Group domain.Group `json:"group"`
}

type GroupsEvent struct {
	Type   string         `json:"type"`
	Groups []domain.Group `json:"groups"`
}
