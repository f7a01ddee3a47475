package game

import (
	"context"
	"fmt"

	"github.com/csquest/api/internal/battle"
	"github.com/csquest/api/internal/csquest"
)

// BattleResult is published when an encounter ends.
type BattleResult struct {
	Won   bool      `json:"won"`
	Enemy string    `json:"enemy"`
	State StateView `json:"state"`
}

// StartBattle samples an enemy and opens an encounter. A finished
// encounter is replaced; a running one is an error.
func (s *Service) StartBattle(ctx context.Context, playerID string) (battle.View, error) {
	sess, err := s.sessions.Get(ctx, playerID)
	if err != nil {
		return battle.View{}, err
	}

	sess.mu.Lock()
	if sess.inBattle() {
		sess.mu.Unlock()
		return battle.View{}, ErrBattleInProgress
	}

	rng := s.opts.NewRand()
	enemy := s.catalog.Enemies.Sample(rng)
	ps := sess.snap.PlayerStats

	var eng *battle.Engine
	eng, err = battle.New(battle.Config{
		Player: battle.Combatant{
			Name:      ps.Username,
			Health:    ps.Health,
			MaxHealth: ps.MaxHealth,
			Mana:      ps.Mana,
			MaxMana:   ps.MaxMana,
		},
		Enemy: enemy,
		NextQuestion: func() csquest.Question {
			return s.catalog.Questions.Sample(rng, s.opts.Difficulty)
		},
		Rand:       rng,
		Scheduler:  s.opts.Scheduler,
		Pacing:     s.opts.Pacing,
		OnAnswer:   func(correct bool) { s.onAnswer(sess, correct) },
		OnComplete: func(won bool) { s.onComplete(sess, eng, enemy.Name, won) },
		OnChange: func(v battle.View) {
			s.opts.Publisher.Publish(playerID, Event{Type: EventBattle, Data: v})
		},
	})
	if err != nil {
		sess.mu.Unlock()
		return battle.View{}, fmt.Errorf("starting battle: %w", err)
	}
	if sess.battle != nil {
		sess.battle.Close()
	}
	sess.battle = eng
	sess.battleDone = false
	sess.mu.Unlock()

	s.logger.Info("battle started", "player", playerID, "enemy", enemy.Name)
	v := eng.View()
	s.opts.Publisher.Publish(playerID, Event{Type: EventBattle, Data: v})
	return v, nil
}

// onAnswer applies the reward for a judged answer. Rewards stand even if
// the battle is later abandoned.
func (s *Service) onAnswer(sess *session, correct bool) {
	ctx, cancel := context.WithTimeout(context.Background(), s.opts.SaveTimeout)
	defer cancel()

	sess.mu.Lock()
	snap, err := s.mutateLocked(ctx, sess, func(snap csquest.Snapshot) (csquest.Snapshot, error) {
		return s.updater.OnQuestionAnswered(snap, correct), nil
	})
	inBattle := sess.inBattle()
	sess.mu.Unlock()
	if err != nil {
		s.logger.Error("saving answer reward", "player", sess.id, "error", err)
		return
	}
	s.publishState(s.view(sess.id, snap, inBattle))
}

func (s *Service) onComplete(sess *session, eng *battle.Engine, enemy string, won bool) {
	ctx, cancel := context.WithTimeout(context.Background(), s.opts.SaveTimeout)
	defer cancel()

	sess.mu.Lock()
	if sess.battle != eng || eng.Closed() {
		sess.mu.Unlock()
		return
	}
	sess.battleDone = true
	snap, err := s.mutateLocked(ctx, sess, func(snap csquest.Snapshot) (csquest.Snapshot, error) {
		if won {
			return s.updater.OnBattleWon(snap), nil
		}
		return s.updater.OnBattleLost(snap), nil
	})
	sess.mu.Unlock()
	if err != nil {
		s.logger.Error("saving battle outcome", "player", sess.id, "won", won, "error", err)
		return
	}

	s.logger.Info("battle finished", "player", sess.id, "enemy", enemy, "won", won)
	state := s.view(sess.id, snap, false)
	s.publishState(state)
	s.opts.Publisher.Publish(sess.id, Event{Type: EventBattleComplete, Data: BattleResult{
		Won:   won,
		Enemy: enemy,
		State: state,
	}})
}

func (s *Service) engine(ctx context.Context, playerID string) (*battle.Engine, error) {
	sess, err := s.sessions.Get(ctx, playerID)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.battle == nil {
		return nil, ErrNoBattle
	}
	return sess.battle, nil
}

// Battle returns the current or last finished encounter.
func (s *Service) Battle(ctx context.Context, playerID string) (battle.View, error) {
	eng, err := s.engine(ctx, playerID)
	if err != nil {
		return battle.View{}, err
	}
	return eng.View(), nil
}

// SelectAnswer records a pending answer. Outside the answering phase it
// is ignored and the unchanged view is returned with accepted false.
func (s *Service) SelectAnswer(ctx context.Context, playerID string, a csquest.Answer) (battle.View, bool, error) {
	eng, err := s.engine(ctx, playerID)
	if err != nil {
		return battle.View{}, false, err
	}
	ok := eng.Select(a)
	return eng.View(), ok, nil
}

// Submit judges the pending answer.
func (s *Service) Submit(ctx context.Context, playerID string) (battle.View, bool, error) {
	eng, err := s.engine(ctx, playerID)
	if err != nil {
		return battle.View{}, false, err
	}
	ok := eng.Submit()
	return eng.View(), ok, nil
}

// Answer selects and submits in one step.
func (s *Service) Answer(ctx context.Context, playerID string, a csquest.Answer) (battle.View, bool, error) {
	eng, err := s.engine(ctx, playerID)
	if err != nil {
		return battle.View{}, false, err
	}
	ok := eng.SubmitAnswer(a)
	return eng.View(), ok, nil
}

// Abandon closes the encounter without a terminal reward.
func (s *Service) Abandon(ctx context.Context, playerID string) error {
	sess, err := s.sessions.Get(ctx, playerID)
	if err != nil {
		return err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.battle == nil {
		return ErrNoBattle
	}
	sess.battle.Close()
	sess.battle = nil
	sess.battleDone = false
	s.logger.Info("battle abandoned", "player", playerID)
	return nil
}
