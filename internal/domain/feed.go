package domain

import "errors"

const (
	MaxPostLen      = 2000
	MaxGroupNameLen = 64
)

var (
	ErrPostTextEmpty   = errors.New("post text empty")
	ErrPostTextTooLong = errors.New("post text too long")
	ErrGroupNameEmpty  = errors.New("group name empty")
)

// Author is the slim identity attached to a post.
type Author struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Post is one entry in the social feed. The feed shares the event
// transport with chat but is otherwise independent of rooms.
type Post struct {
	ID     string `json:"id"`
	Text   string `json:"text"`
	Author Author `json:"author"`
	TS     int64  `json:"ts"`
}

// Group is a named collection of member ids. Joining a group means
// joining the room keyed by the group id.
type Group struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Members []string `json:"members,omitempty"`
	TS      int64    `json:"ts"`
}
