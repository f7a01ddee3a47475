// Package battle runs a single turn-based quiz encounter between a player
// and an enemy. The engine owns the transient encounter state only; the
// persisted progression is updated by the caller through the callbacks.
package battle

import (
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/csquest/api/internal/csquest"
)

type Phase string

const (
	AwaitingAnswer Phase = "awaiting_answer"
	Judging        Phase = "judging"
	EnemyTurn      Phase = "enemy_turn"
	Victory        Phase = "victory"
	Defeat         Phase = "defeat"
)

// Terminal reports whether the encounter is over.
func (p Phase) Terminal() bool {
	return p == Victory || p == Defeat
}

// Damage and regeneration rolls.
const (
	PlayerDamageMin   = 10
	PlayerDamageRange = 20
	EnemyDamageMin    = 5
	EnemyDamageRange  = 15
	ManaRegen         = 5
)

// Rand is the randomness source for damage rolls. *math/rand/v2.Rand
// satisfies it.
type Rand interface {
	IntN(n int) int
}

// Pacing holds the narrative delays between turns.
type Pacing struct {
	Counter time.Duration // correct answer, enemy survives
	Miss    time.Duration // incorrect answer
	Outcome time.Duration // before victory or defeat is announced
}

var DefaultPacing = Pacing{
	Counter: 2 * time.Second,
	Miss:    1500 * time.Millisecond,
	Outcome: 1500 * time.Millisecond,
}

// Combatant is the player's side of the encounter.
type Combatant struct {
	Name      string
	Health    int
	MaxHealth int
	Mana      int
	MaxMana   int
}

type Config struct {
	Player Combatant
	Enemy  csquest.Enemy

	// NextQuestion supplies the question for each round. It is called
	// with the engine lock held and must not call back into the engine.
	NextQuestion func() csquest.Question

	Rand      Rand
	Scheduler Scheduler
	Pacing    Pacing

	// Callbacks run outside the engine lock, one at a time and in the
	// order the transitions happened. They may call Close and Closed but
	// no other engine method.
	OnAnswer   func(correct bool)
	OnComplete func(won bool)
	OnChange   func(View)
}

type Engine struct {
	cfg Config

	// cbMu serialises callback delivery. It is taken before mu is
	// released so later transitions cannot overtake earlier callbacks.
	cbMu sync.Mutex

	mu          sync.Mutex
	phase       Phase
	enemyHealth int
	health      int
	mana        int
	question    csquest.Question
	selected    *csquest.Answer
	feedback    *Feedback
	log         []string
	round       int

	// timerMu guards pending and closed. It is never held while waiting
	// on another lock, so Close is safe to call from anywhere.
	timerMu sync.Mutex
	pending Timer
	closed  bool
}

// New starts an encounter in AwaitingAnswer with the first question.
func New(cfg Config) (*Engine, error) {
	if cfg.NextQuestion == nil {
		return nil, fmt.Errorf("battle: NextQuestion is required")
	}
	if cfg.Enemy.MaxHealth <= 0 {
		return nil, fmt.Errorf("battle: enemy %q has no health", cfg.Enemy.Name)
	}
	if cfg.Rand == nil {
		cfg.Rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if cfg.Scheduler == nil {
		cfg.Scheduler = TimerScheduler{}
	}
	if cfg.Pacing == (Pacing{}) {
		cfg.Pacing = DefaultPacing
	}
	if cfg.Player.MaxHealth < 1 {
		cfg.Player.MaxHealth = 1
	}
	if cfg.Player.MaxMana < 1 {
		cfg.Player.MaxMana = 1
	}

	e := &Engine{
		cfg:         cfg,
		phase:       AwaitingAnswer,
		enemyHealth: cfg.Enemy.MaxHealth,
		health:      min(max(cfg.Player.Health, 0), cfg.Player.MaxHealth),
		mana:        min(max(cfg.Player.Mana, 0), cfg.Player.MaxMana),
		question:    cfg.NextQuestion(),
		round:       1,
		log:         []string{},
	}
	return e, nil
}

// Select records the pending answer. It is ignored outside AwaitingAnswer.
func (e *Engine) Select(a csquest.Answer) bool {
	e.mu.Lock()
	if e.Closed() || e.phase != AwaitingAnswer {
		e.mu.Unlock()
		return false
	}
	e.selected = &a
	v := e.viewLocked()
	e.cbMu.Lock()
	e.mu.Unlock()
	defer e.cbMu.Unlock()

	e.emit(v)
	return true
}

// Submit judges the selected answer and schedules the next step. Without a
// selection, or outside AwaitingAnswer, it does nothing and returns false.
func (e *Engine) Submit() bool {
	e.mu.Lock()
	if e.Closed() || e.phase != AwaitingAnswer || e.selected == nil {
		e.mu.Unlock()
		return false
	}

	correct := e.question.Judge(*e.selected)
	e.phase = Judging
	e.feedback = &Feedback{
		Correct:       correct,
		CorrectAnswer: e.question.CorrectAnswer(),
		Explanation:   e.question.Explanation,
	}

	if correct {
		dmg := PlayerDamageMin + e.cfg.Rand.IntN(PlayerDamageRange)
		e.enemyHealth = max(0, e.enemyHealth-dmg)
		e.mana = min(e.cfg.Player.MaxMana, e.mana+ManaRegen)
		e.log = append(e.log, fmt.Sprintf("%s dealt %d damage!", e.cfg.Player.Name, dmg))
		if e.enemyHealth == 0 {
			e.schedule(e.cfg.Pacing.Outcome, func() { e.finish(true) })
		} else {
			e.schedule(e.cfg.Pacing.Counter, e.enemyTurn)
		}
	} else {
		e.schedule(e.cfg.Pacing.Miss, e.enemyTurn)
	}

	v := e.viewLocked()
	e.cbMu.Lock()
	e.mu.Unlock()
	defer e.cbMu.Unlock()

	if e.cfg.OnAnswer != nil {
		e.cfg.OnAnswer(correct)
	}
	e.emit(v)
	return true
}

// SubmitAnswer is Select followed by Submit.
func (e *Engine) SubmitAnswer(a csquest.Answer) bool {
	if !e.Select(a) {
		return false
	}
	return e.Submit()
}

func (e *Engine) enemyTurn() {
	e.mu.Lock()
	if e.Closed() || e.phase != Judging {
		e.mu.Unlock()
		return
	}
	e.phase = EnemyTurn

	dmg := EnemyDamageMin + e.cfg.Rand.IntN(EnemyDamageRange)
	e.health = max(0, e.health-dmg)
	e.log = append(e.log, fmt.Sprintf("%s dealt %d damage!", e.cfg.Enemy.Name, dmg))

	if e.health == 0 {
		e.schedule(e.cfg.Pacing.Outcome, func() { e.finish(false) })
	} else {
		e.question = e.cfg.NextQuestion()
		e.selected = nil
		e.feedback = nil
		e.round++
		e.phase = AwaitingAnswer
	}

	v := e.viewLocked()
	e.cbMu.Lock()
	e.mu.Unlock()
	defer e.cbMu.Unlock()

	e.emit(v)
}

func (e *Engine) finish(won bool) {
	e.mu.Lock()
	if e.Closed() || e.phase.Terminal() {
		e.mu.Unlock()
		return
	}
	if won {
		e.phase = Victory
	} else {
		e.phase = Defeat
	}

	v := e.viewLocked()
	e.cbMu.Lock()
	e.mu.Unlock()
	defer e.cbMu.Unlock()

	if e.cfg.OnComplete != nil {
		e.cfg.OnComplete(won)
	}
	e.emit(v)
}

// Close abandons the encounter. Pending continuations are cancelled and no
// completion callback fires afterwards.
func (e *Engine) Close() {
	e.timerMu.Lock()
	defer e.timerMu.Unlock()

	e.closed = true
	if e.pending != nil {
		e.pending.Stop()
		e.pending = nil
	}
}

// Closed reports whether Close was called.
func (e *Engine) Closed() bool {
	e.timerMu.Lock()
	defer e.timerMu.Unlock()
	return e.closed
}

func (e *Engine) Phase() Phase {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.phase
}

func (e *Engine) View() View {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.viewLocked()
}

func (e *Engine) schedule(d time.Duration, f func()) {
	e.timerMu.Lock()
	defer e.timerMu.Unlock()
	if e.closed {
		return
	}
	e.pending = e.cfg.Scheduler.AfterFunc(d, f)
}

func (e *Engine) emit(v View) {
	if e.cfg.OnChange != nil {
		e.cfg.OnChange(v)
	}
}
