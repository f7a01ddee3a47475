// Package game orchestrates players: it loads and saves snapshots, runs
// battles and quests, and applies progression rules. It is the only
// writer of saves.
package game

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/csquest/api/internal/battle"
	"github.com/csquest/api/internal/catalog"
	"github.com/csquest/api/internal/csquest"
	"github.com/csquest/api/internal/progression"
	"github.com/csquest/api/internal/store"
)

var (
	ErrBattleInProgress = errors.New("battle already in progress")
	ErrNoBattle         = errors.New("no battle")
	ErrInvalidSlot      = errors.New("invalid equipment slot")
	ErrAnswerCount      = errors.New("wrong number of answers")
)

// DemoPlayerID is the fixed id of the seeded demo save.
const DemoPlayerID = "demo"

// Event types published to a player's stream.
const (
	EventState          = "state"
	EventBattle         = "battle"
	EventBattleComplete = "battle_complete"
	EventAppearance     = "appearance"
)

type Event struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// Publisher delivers events to a player's subscribers. Publish must not
// block.
type Publisher interface {
	Publish(playerID string, ev Event)
}

type nopPublisher struct{}

func (nopPublisher) Publish(string, Event) {}

type Options struct {
	Publisher  Publisher
	Scheduler  battle.Scheduler
	Pacing     battle.Pacing
	Difficulty int
	// NewRand returns the randomness source for one battle.
	NewRand func() battle.Rand
	// SaveTimeout bounds saves triggered by battle timers.
	SaveTimeout time.Duration
}

type Service struct {
	store    store.Store
	catalog  *catalog.Catalog
	updater  progression.Updater
	logger   *slog.Logger
	opts     Options
	sessions *registry
}

func New(st store.Store, cat *catalog.Catalog, logger *slog.Logger, opts Options) *Service {
	if opts.Publisher == nil {
		opts.Publisher = nopPublisher{}
	}
	if opts.Scheduler == nil {
		opts.Scheduler = battle.TimerScheduler{}
	}
	if opts.Pacing == (battle.Pacing{}) {
		opts.Pacing = battle.DefaultPacing
	}
	if opts.NewRand == nil {
		opts.NewRand = func() battle.Rand {
			return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
		}
	}
	if opts.SaveTimeout <= 0 {
		opts.SaveTimeout = 5 * time.Second
	}

	s := &Service{
		store:   st,
		catalog: cat,
		updater: progression.New(cat.Achievements, cat.Pets),
		logger:  logger,
		opts:    opts,
	}
	s.sessions = newRegistry(st, s.sanitize)
	return s
}

func (s *Service) Catalog() *catalog.Catalog { return s.catalog }

// Close abandons every running battle.
func (s *Service) Close() error {
	return s.sessions.Close()
}

// CreatePlayer starts a new character under a fresh id.
func (s *Service) CreatePlayer(ctx context.Context, username, character string) (string, csquest.Snapshot, error) {
	id := uuid.NewString()
	snap, err := s.create(ctx, id, username, character)
	if err != nil {
		return "", csquest.Snapshot{}, err
	}
	s.logger.Info("player created", "player", id, "username", snap.PlayerStats.Username)
	return id, snap, nil
}

// EnsurePlayer creates the save for playerID unless one already exists.
// It reports whether a save was created.
func (s *Service) EnsurePlayer(ctx context.Context, playerID, username, character string) (bool, error) {
	_, err := s.store.Load(ctx, playerID)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return false, err
	}
	if _, err := s.create(ctx, playerID, username, character); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Service) create(ctx context.Context, playerID, username, character string) (csquest.Snapshot, error) {
	if username == "" {
		username = csquest.DefaultUsername
	}
	if character == "" {
		character = csquest.DefaultCharacter
	}
	starter, ok := s.catalog.StarterPet()
	if !ok {
		return csquest.Snapshot{}, fmt.Errorf("starter pet: %w", catalog.ErrUnknown)
	}
	snap := csquest.NewSnapshot(username, character, starter)
	if err := s.sessions.Create(ctx, playerID, snap); err != nil {
		return csquest.Snapshot{}, fmt.Errorf("creating player: %w", err)
	}
	return snap, nil
}

// mutate applies fn to the player's snapshot under the session lock and
// persists the result. The cached snapshot only changes once the save
// succeeded.
func (s *Service) mutate(ctx context.Context, playerID string, fn func(csquest.Snapshot) (csquest.Snapshot, error)) (StateView, error) {
	sess, err := s.sessions.Get(ctx, playerID)
	if err != nil {
		return StateView{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	snap, err := s.mutateLocked(ctx, sess, fn)
	if err != nil {
		return StateView{}, err
	}
	return s.view(playerID, snap, sess.inBattle()), nil
}

func (s *Service) mutateLocked(ctx context.Context, sess *session, fn func(csquest.Snapshot) (csquest.Snapshot, error)) (csquest.Snapshot, error) {
	next, err := fn(sess.snap.Clone())
	if err != nil {
		return csquest.Snapshot{}, err
	}
	next.PlayerStats.Clamp()
	if err := s.store.Save(ctx, sess.id, next); err != nil {
		return csquest.Snapshot{}, fmt.Errorf("saving player %q: %w", sess.id, err)
	}
	s.logNewAchievements(sess.id, sess.snap, next)
	sess.snap = next
	return next, nil
}

func (s *Service) logNewAchievements(playerID string, before, after csquest.Snapshot) {
	for _, id := range after.Achievements {
		if !before.HasAchievement(id) {
			s.logger.Info("achievement unlocked", "player", playerID, "achievement", id)
		}
	}
	if after.PlayerStats.Level > before.PlayerStats.Level {
		s.logger.Info("level up", "player", playerID, "level", after.PlayerStats.Level)
	}
}

func (s *Service) publishState(v StateView) {
	s.opts.Publisher.Publish(v.PlayerID, Event{Type: EventState, Data: v})
}
