package domain

// RoomKey is an opaque client-supplied room identifier.
type RoomKey string

// DefaultRoom is used whenever a client does not name a room.
const DefaultRoom RoomKey = "default"

// NormalizeRoom applies the default for an empty key. Any non-empty key
// is taken verbatim; a reshaped key would silently name a different
// room, with that room's password and history. Frame size is bounded at
// the transport instead.
func NormalizeRoom(raw string) RoomKey {
	if raw == "" {
		return DefaultRoom
	}
	return RoomKey(raw)
}
