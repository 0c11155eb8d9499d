package core

// Frame is a marshaled event payload ready for the wire.
type Frame []byte

// SessionID identifies one live transport session.
type SessionID string

// SignalConnection abstracts the system messaging transport.
// Owned by the adapter; the adapter must Close() it.
type SignalConnection interface {
	TrySend(Frame) error
	Close()
}
