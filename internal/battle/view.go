package battle

import (
	"slices"

	"github.com/csquest/api/internal/csquest"
)

// Feedback is the judged outcome of the last submitted answer.
type Feedback struct {
	Correct       bool   `json:"correct"`
	CorrectAnswer string `json:"correctAnswer"`
	Explanation   string `json:"explanation,omitempty"`
}

type EnemyView struct {
	Name      string `json:"name"`
	Icon      string `json:"emoji"`
	Level     int    `json:"level"`
	Health    int    `json:"health"`
	MaxHealth int    `json:"maxHealth"`
}

type PlayerView struct {
	Health    int `json:"health"`
	MaxHealth int `json:"maxHealth"`
	Mana      int `json:"mana"`
	MaxMana   int `json:"maxMana"`
}

// View is a read-only copy of the encounter. While an answer is awaited it
// carries no feedback and the question's explanation is withheld.
type View struct {
	Phase    Phase            `json:"phase"`
	Round    int              `json:"round"`
	Enemy    EnemyView        `json:"enemy"`
	Player   PlayerView       `json:"player"`
	Question csquest.Question `json:"question"`
	Selected *csquest.Answer  `json:"selected,omitempty"`
	Feedback *Feedback        `json:"feedback,omitempty"`
	Log      []string         `json:"log"`
}

// Won reports whether the encounter ended in victory.
func (v View) Won() bool { return v.Phase == Victory }

func (e *Engine) viewLocked() View {
	q := e.question
	q.Choices = slices.Clone(q.Choices)
	if e.phase == AwaitingAnswer {
		q.Explanation = ""
	}
	v := View{
		Phase: e.phase,
		Round: e.round,
		Enemy: EnemyView{
			Name:      e.cfg.Enemy.Name,
			Icon:      e.cfg.Enemy.Icon,
			Level:     e.cfg.Enemy.Level,
			Health:    e.enemyHealth,
			MaxHealth: e.cfg.Enemy.MaxHealth,
		},
		Player: PlayerView{
			Health:    e.health,
			MaxHealth: e.cfg.Player.MaxHealth,
			Mana:      e.mana,
			MaxMana:   e.cfg.Player.MaxMana,
		},
		Question: q,
		Log:      slices.Clone(e.log),
	}
	if e.selected != nil {
		a := *e.selected
		v.Selected = &a
	}
	if e.feedback != nil && e.phase != AwaitingAnswer {
		f := *e.feedback
		v.Feedback = &f
	}
	return v
}
