// Package progression holds every rule that changes a player's persisted
// progression. Each method takes a snapshot and returns a new one; inputs
// are never mutated.
package progression

import (
	"errors"

	"github.com/csquest/api/internal/csquest"
)

// Reward and level-up constants.
const (
	XPPerCorrectAnswer    = 50
	CoinsPerCorrectAnswer = 10
	XPPerBattleWon        = 100
	CoinsPerBattleWon     = 25

	LevelUpThreshold  = 1000
	MaxHealthPerLevel = 20
	MaxManaPerLevel   = 10
	DefaultPotionHeal = 50
	DefaultPotionMana = 30
)

var (
	ErrInsufficientFunds = errors.New("not enough coins")
	ErrNotOwned          = errors.New("item not owned")
	ErrAlreadyOwned      = errors.New("item already owned")
	ErrNotEquippable     = errors.New("item cannot be equipped")
	ErrNotConsumable     = errors.New("item is not a consumable")
	ErrPetLocked         = errors.New("pet is locked")
	ErrQuestLocked       = errors.New("quest requirements not met")
	ErrQuestCompleted    = errors.New("quest already completed")
)

// Updater applies progression rules. The zero value has no achievements
// and no level-gated pets.
type Updater struct {
	Achievements []csquest.Achievement
	Pets         []csquest.PetTemplate
}

func New(achievements []csquest.Achievement, pets []csquest.PetTemplate) Updater {
	return Updater{Achievements: achievements, Pets: pets}
}

// OnQuestionAnswered rewards a correct answer. Incorrect answers change
// nothing.
func (u Updater) OnQuestionAnswered(s csquest.Snapshot, correct bool) csquest.Snapshot {
	s = s.Clone()
	if !correct {
		return s
	}
	s.PlayerStats.Experience += XPPerCorrectAnswer
	s.PlayerStats.Coins += CoinsPerCorrectAnswer
	s.Stats.QuestionsCorrect++
	s.Stats.CoinsEarned += CoinsPerCorrectAnswer
	return u.EvaluateAchievements(s)
}

// OnBattleWon rewards a victory and applies the level-up rule.
func (u Updater) OnBattleWon(s csquest.Snapshot) csquest.Snapshot {
	s = s.Clone()
	s.PlayerStats.Experience += XPPerBattleWon
	s.PlayerStats.Coins += CoinsPerBattleWon
	s.Stats.BattlesWon++
	s.Stats.CoinsEarned += CoinsPerBattleWon
	s = u.levelUp(s)
	return u.EvaluateAchievements(s)
}

// OnBattleLost restores health to full. There is no other penalty.
func (u Updater) OnBattleLost(s csquest.Snapshot) csquest.Snapshot {
	s = s.Clone()
	s.PlayerStats.Health = s.PlayerStats.MaxHealth
	s.PlayerStats.Clamp()
	return s
}

// levelUp grants one level once experience reaches the threshold. The
// threshold is fixed and experience is not reset.
func (u Updater) levelUp(s csquest.Snapshot) csquest.Snapshot {
	if s.PlayerStats.Experience < LevelUpThreshold {
		return s
	}
	ps := &s.PlayerStats
	ps.Level++
	ps.MaxHealth += MaxHealthPerLevel
	ps.MaxMana += MaxManaPerLevel
	ps.Health = ps.MaxHealth
	ps.Mana = ps.MaxMana
	return u.unlockPets(s)
}

// unlockPets grants every level-gated pet the player now qualifies for.
func (u Updater) unlockPets(s csquest.Snapshot) csquest.Snapshot {
	for _, t := range u.Pets {
		if t.UnlockLevel <= 0 || s.PlayerStats.Level < t.UnlockLevel {
			continue
		}
		if i := s.PetIndex(t.ID); i >= 0 {
			s.Pets[i].Unlocked = true
			continue
		}
		s.Pets = append(s.Pets, t.Owned())
	}
	return s
}

// EvaluateAchievements unlocks, in catalog order, every locked achievement
// whose threshold is met and applies its reward. One pass only: rewards
// granted here do not trigger further unlocks until the next evaluation.
func (u Updater) EvaluateAchievements(s csquest.Snapshot) csquest.Snapshot {
	s = s.Clone()
	for _, a := range u.Achievements {
		if s.HasAchievement(a.ID) || !met(s, a.Requirement) {
			continue
		}
		s.Achievements = append(s.Achievements, a.ID)
		s.PlayerStats.Coins += a.Reward.Coins
		s.PlayerStats.Experience += a.Reward.Experience
	}
	return s
}

func met(s csquest.Snapshot, r csquest.Requirement) bool {
	var v int
	switch r.Type {
	case csquest.RequireLevel:
		v = s.PlayerStats.Level
	case csquest.RequireBattlesWon:
		v = s.Stats.BattlesWon
	case csquest.RequireQuestionsCorrect:
		v = s.Stats.QuestionsCorrect
	case csquest.RequireCoinsEarned:
		v = s.Stats.CoinsEarned
	case csquest.RequireQuestsCompleted:
		v = len(s.CompletedQuests)
	case csquest.RequireItemsCollected:
		v = s.Stats.ItemsCollected
	default:
		return false
	}
	return v >= r.Threshold
}
