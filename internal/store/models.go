package store

// MessageRecord is one durable chat message. Rows are append-only;
// Clear is the only delete path.
type MessageRecord struct {
	ID     uint   `gorm:"primaryKey"`
	Room   string `gorm:"index:idx_messages_room_ts,priority:1"`
	Sender string
	Name   string
	Text   string
	TS     int64 `gorm:"index:idx_messages_room_ts,priority:2"`
}

// RoomPassword maps a room to the password that gates it. The primary
// key makes set-if-absent a single conflict-ignoring insert.
type RoomPassword struct {
	Room     string `gorm:"primaryKey"`
	Password string
}

type ProfileRecord struct {
	ID     string `gorm:"primaryKey"`
	Name   string
	Avatar string
	Bio    string
}

type PostRecord struct {
	ID         string `gorm:"primaryKey"`
	AuthorID   string
	AuthorName string
	Text       string
	TS         int64 `gorm:"index"`
}

type GroupRecord struct {
	ID      string `gorm:"primaryKey"`
	Name    string
	Members string // JSON-encoded member ids
	TS      int64
}
