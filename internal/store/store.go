// Package store persists progression snapshots. A Store is the port the
// game depends on; SnapshotStore implements it over any raw key/value
// backend with a primary and a backup copy of every save.
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/csquest/api/internal/csquest"
)

//go:generate go tool mockgen -destination=./mocks/store_mock.go -package=mocks . Store,Blobs

var (
	ErrNotFound = errors.New("not found")
	ErrCorrupt  = errors.New("save corrupt")
)

const (
	KeyPrefix    = "csquest_game_state:"
	BackupSuffix = "_backup"
)

func Key(playerID string) string       { return KeyPrefix + playerID }
func BackupKey(playerID string) string { return KeyPrefix + playerID + BackupSuffix }

type Store interface {
	Load(ctx context.Context, playerID string) (csquest.Snapshot, error)
	Save(ctx context.Context, playerID string, s csquest.Snapshot) error
}

// Blobs is a raw key/value backend. Get returns ErrNotFound for a missing
// key.
type Blobs interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, data []byte) error
}

type SnapshotStore struct {
	blobs  Blobs
	logger *slog.Logger
}

func New(blobs Blobs, logger *slog.Logger) *SnapshotStore {
	return &SnapshotStore{blobs: blobs, logger: logger}
}

// Save overwrites the primary copy, then the backup. The primary is
// authoritative, so a failed backup write is logged and not returned.
func (st *SnapshotStore) Save(ctx context.Context, playerID string, s csquest.Snapshot) error {
	data, err := encode(s)
	if err != nil {
		return fmt.Errorf("encoding save %q: %w", playerID, err)
	}
	if err := st.blobs.Put(ctx, Key(playerID), data); err != nil {
		return fmt.Errorf("writing save %q: %w", playerID, err)
	}
	if err := st.blobs.Put(ctx, BackupKey(playerID), data); err != nil {
		st.logger.Warn("writing backup save failed", "player", playerID, "error", err)
	}
	return nil
}

// Load reads the primary copy and falls back to the backup when the
// primary is missing or unreadable. ErrNotFound means neither is usable.
func (st *SnapshotStore) Load(ctx context.Context, playerID string) (csquest.Snapshot, error) {
	s, perr := st.read(ctx, Key(playerID))
	if perr == nil {
		return s, nil
	}
	if !errors.Is(perr, ErrNotFound) {
		st.logger.Warn("primary save unreadable", "player", playerID, "error", perr)
	}

	s, berr := st.read(ctx, BackupKey(playerID))
	if berr == nil {
		st.logger.Info("save restored from backup", "player", playerID)
		return s, nil
	}
	if !errors.Is(berr, ErrNotFound) {
		st.logger.Warn("backup save unreadable", "player", playerID, "error", berr)
	}

	for _, err := range []error{perr, berr} {
		if !errors.Is(err, ErrNotFound) && !errors.Is(err, ErrCorrupt) {
			return csquest.Snapshot{}, fmt.Errorf("loading save %q: %w", playerID, err)
		}
	}
	return csquest.Snapshot{}, fmt.Errorf("loading save %q: %w", playerID, ErrNotFound)
}

func (st *SnapshotStore) read(ctx context.Context, key string) (csquest.Snapshot, error) {
	data, err := st.blobs.Get(ctx, key)
	if err != nil {
		return csquest.Snapshot{}, err
	}
	return decode(data)
}
