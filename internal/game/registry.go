package game

import (
	"context"
	"fmt"
	"sync"

	"github.com/csquest/api/internal/battle"
	"github.com/csquest/api/internal/csquest"
	"github.com/csquest/api/internal/store"
)

// session is the single writer for one player's save. mu guards every
// field below it. While mu is held only Close and Closed may be called on
// the engine: its callbacks take mu.
type session struct {
	id string

	mu         sync.Mutex
	snap       csquest.Snapshot
	battle     *battle.Engine
	battleDone bool
}

// inBattle reports whether an unfinished encounter is running.
func (s *session) inBattle() bool {
	return s.battle != nil && !s.battleDone
}

// registry caches one session per player, loading the save on first use.
type registry struct {
	store    store.Store
	onLoad   func(playerID string, s csquest.Snapshot) csquest.Snapshot
	mu       sync.RWMutex
	sessions map[string]*session
}

func newRegistry(st store.Store, onLoad func(string, csquest.Snapshot) csquest.Snapshot) *registry {
	return &registry{
		store:    st,
		onLoad:   onLoad,
		sessions: make(map[string]*session),
	}
}

// Get returns the player's session. It returns store.ErrNotFound when the
// player has no usable save.
func (r *registry) Get(ctx context.Context, playerID string) (*session, error) {
	r.mu.RLock()
	s, ok := r.sessions[playerID]
	r.mu.RUnlock()
	if ok {
		return s, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Double-check after acquiring write lock.
	if s, ok := r.sessions[playerID]; ok {
		return s, nil
	}

	snap, err := r.store.Load(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("loading player %q: %w", playerID, err)
	}
	if r.onLoad != nil {
		snap = r.onLoad(playerID, snap)
	}
	s = &session{id: playerID, snap: snap}
	r.sessions[playerID] = s
	return s, nil
}

// Create saves a new snapshot and caches its session, replacing any
// existing one.
func (r *registry) Create(ctx context.Context, playerID string, snap csquest.Snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.store.Save(ctx, playerID, snap); err != nil {
		return err
	}
	if old, ok := r.sessions[playerID]; ok {
		old.mu.Lock()
		if old.battle != nil {
			old.battle.Close()
		}
		old.mu.Unlock()
	}
	r.sessions[playerID] = &session{id: playerID, snap: snap}
	return nil
}

// Close abandons all running battles and drops the cache.
func (r *registry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, s := range r.sessions {
		s.mu.Lock()
		if s.battle != nil {
			s.battle.Close()
			s.battle = nil
		}
		s.mu.Unlock()
		delete(r.sessions, id)
	}
	return nil
}
