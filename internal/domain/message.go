package domain

// Message is one chat message as it travels on the wire. The room it
// belongs to is resolved from the sender's session, not carried in the
// payload. Immutable once stored.
type Message struct {
	Text   string `json:"text"`
	Sender string `json:"sender"`
	Name   string `json:"name"`
	TS     int64  `json:"ts"` // epoch milliseconds
}
