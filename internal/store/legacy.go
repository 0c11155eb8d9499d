package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/nezumiya/chat/internal/domain"
)

// legacyData mirrors the flat file the previous deployment wrote to
// data/rooms.json.
type legacyData struct {
	Messages  map[string][]domain.Message `json:"messages"`
	Passwords map[string]string           `json:"passwords"`
}

// ImportLegacy loads the legacy flat-file history into the database,
// then renames the file with an .imported suffix so the import runs at
// most once. A missing file is a no-op.
func ImportLegacy(ctx context.Context, messages *Messages, passwords *Passwords, path string) error {
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("legacy import: read %s: %w", path, err)
	}

	var data legacyData
	if err := json.Unmarshal(raw, &data); err != nil {
		return fmt.Errorf("legacy import: parse %s: %w", path, err)
	}

	var imported int
	for room, msgs := range data.Messages {
		key := domain.NormalizeRoom(room)
		for _, m := range msgs {
			if err := messages.Append(ctx, key, m); err != nil {
				return fmt.Errorf("legacy import: room %q: %w", room, err)
			}
			imported++
		}
	}
	for room, pw := range data.Passwords {
		if pw == "" {
			continue
		}
		if _, err := passwords.SetIfAbsent(ctx, domain.NormalizeRoom(room), pw); err != nil {
			return fmt.Errorf("legacy import: password for %q: %w", room, err)
		}
	}

	if err := os.Rename(path, path+".imported"); err != nil {
		return fmt.Errorf("legacy import: rename %s: %w", path, err)
	}
	log.Info().Str("module", "store.legacy").Str("file", path).
		Int("messages", imported).Int("passwords", len(data.Passwords)).
		Msg("imported legacy data")
	return nil
}
