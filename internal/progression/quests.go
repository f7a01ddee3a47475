package progression

import (
	"fmt"

	"github.com/csquest/api/internal/csquest"
)

// CheckQuest reports whether the player may attempt a quest.
func CheckQuest(s csquest.Snapshot, q csquest.Quest) error {
	if s.HasCompletedQuest(q.ID) {
		return fmt.Errorf("quest %q: %w", q.ID, ErrQuestCompleted)
	}
	if s.PlayerStats.Level < q.Requirements.Level {
		return fmt.Errorf("quest %q needs level %d: %w", q.ID, q.Requirements.Level, ErrQuestLocked)
	}
	for _, id := range q.Requirements.CompletedQuests {
		if !s.HasCompletedQuest(id) {
			return fmt.Errorf("quest %q needs %q first: %w", q.ID, id, ErrQuestLocked)
		}
	}
	return nil
}

// CompleteQuest marks a quest done and grants its rewards once. items are
// the resolved catalog entries for q.Rewards.Items.
func (u Updater) CompleteQuest(s csquest.Snapshot, q csquest.Quest, items []csquest.Item) (csquest.Snapshot, error) {
	if err := CheckQuest(s, q); err != nil {
		return s, err
	}

	s = s.Clone()
	s.CompletedQuests = append(s.CompletedQuests, q.ID)
	s.PlayerStats.Experience += q.Rewards.Experience
	s.PlayerStats.Coins += q.Rewards.Coins
	s.Stats.CoinsEarned += q.Rewards.Coins
	for _, it := range items {
		grant(&s, it)
	}
	s = u.levelUp(s)
	return u.EvaluateAchievements(s), nil
}

// SelectPet makes an owned, unlocked pet the active one.
func (u Updater) SelectPet(s csquest.Snapshot, petID string) (csquest.Snapshot, error) {
	i := s.PetIndex(petID)
	if i < 0 || !s.Pets[i].Unlocked {
		return s, fmt.Errorf("selecting pet %q: %w", petID, ErrPetLocked)
	}
	s = s.Clone()
	s.ActivePet = petID
	return s, nil
}
