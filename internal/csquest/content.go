package csquest

import "strings"

type QuestionKind string

const (
	KindMultipleChoice QuestionKind = "multiple-choice"
	KindFillBlank      QuestionKind = "fill-blank"
	KindTrace          QuestionKind = "trace"
	KindCodeExecution  QuestionKind = "code-execution"
)

type Question struct {
	ID            string       `json:"id" yaml:"id"`
	Kind          QuestionKind `json:"type" yaml:"type"`
	Prompt        string       `json:"question" yaml:"question"`
	Code          string       `json:"codeBlock,omitempty" yaml:"codeBlock"`
	Choices       []string     `json:"choices,omitempty" yaml:"choices"`
	CorrectChoice int          `json:"-" yaml:"correctChoice"`
	CorrectText   string       `json:"-" yaml:"correctText"`
	Explanation   string       `json:"explanation,omitempty" yaml:"explanation"`
	Difficulty    int          `json:"difficulty" yaml:"difficulty"`
	Topic         string       `json:"topic" yaml:"topic"`
}

// FreeText reports whether the question expects a typed answer instead of
// a choice index.
func (q Question) FreeText() bool {
	return q.Kind == KindFillBlank
}

// Answer is a player's response. Choice is used for choice questions and
// Text for fill-in-the-blank ones.
type Answer struct {
	Choice int    `json:"choice"`
	Text   string `json:"text,omitempty"`
}

// Judge compares an answer to the expected one. Text answers are compared
// trimmed and case-insensitively.
func (q Question) Judge(a Answer) bool {
	if q.FreeText() {
		return strings.EqualFold(strings.TrimSpace(a.Text), strings.TrimSpace(q.CorrectText))
	}
	return a.Choice == q.CorrectChoice
}

// CorrectAnswer renders the expected answer for feedback.
func (q Question) CorrectAnswer() string {
	if q.FreeText() {
		return q.CorrectText
	}
	if q.CorrectChoice >= 0 && q.CorrectChoice < len(q.Choices) {
		return q.Choices[q.CorrectChoice]
	}
	return ""
}

type Enemy struct {
	Name      string `json:"name" yaml:"name"`
	Icon      string `json:"emoji" yaml:"emoji"`
	Level     int    `json:"level" yaml:"level"`
	MaxHealth int    `json:"maxHealth" yaml:"maxHealth"`
}

type PetStats struct {
	Attack  int `json:"attack" yaml:"attack"`
	Defense int `json:"defense" yaml:"defense"`
	Health  int `json:"health" yaml:"health"`
}

// PetTemplate is a pet catalog entry.
type PetTemplate struct {
	ID          string   `json:"id" yaml:"id"`
	Name        string   `json:"name" yaml:"name"`
	Icon        string   `json:"emoji" yaml:"emoji"`
	Description string   `json:"description" yaml:"description"`
	Rarity      string   `json:"rarity" yaml:"rarity"`
	Stats       PetStats `json:"stats" yaml:"stats"`
	Starter     bool     `json:"starter,omitempty" yaml:"starter"`
	UnlockLevel int      `json:"unlockLevel,omitempty" yaml:"unlockLevel"`
}

// Owned returns the level-1 owned form of the template.
func (t PetTemplate) Owned() Pet {
	return Pet{ID: t.ID, Name: t.Name, Icon: t.Icon, Level: 1, Unlocked: true}
}

// PetBonus scales the template's base stats by the pet's level:
// floor(base * (1 + 0.2*(level-1))), computed as base*(level+4)/5 to stay
// in integer arithmetic.
func PetBonus(t PetTemplate, level int) PetStats {
	if level < 1 {
		level = 1
	}
	scale := func(base int) int { return base * (level + 4) / 5 }
	return PetStats{
		Attack:  scale(t.Stats.Attack),
		Defense: scale(t.Stats.Defense),
		Health:  scale(t.Stats.Health),
	}
}

type RequirementType string

const (
	RequireLevel            RequirementType = "level"
	RequireBattlesWon       RequirementType = "battles_won"
	RequireQuestionsCorrect RequirementType = "questions_correct"
	RequireCoinsEarned      RequirementType = "coins_earned"
	RequireQuestsCompleted  RequirementType = "quests_completed"
	RequireItemsCollected   RequirementType = "items_collected"
)

type Requirement struct {
	Type      RequirementType `json:"type" yaml:"type"`
	Threshold int             `json:"value" yaml:"value"`
}

type Reward struct {
	Coins      int `json:"coins,omitempty" yaml:"coins"`
	Experience int `json:"experience,omitempty" yaml:"experience"`
}

type Achievement struct {
	ID          string      `json:"id" yaml:"id"`
	Name        string      `json:"name" yaml:"name"`
	Description string      `json:"description" yaml:"description"`
	Icon        string      `json:"emoji" yaml:"emoji"`
	Requirement Requirement `json:"requirement" yaml:"requirement"`
	Reward      Reward      `json:"reward" yaml:"reward"`
}

type QuestRequirements struct {
	Level           int      `json:"level,omitempty" yaml:"level"`
	CompletedQuests []string `json:"completedQuests,omitempty" yaml:"completedQuests"`
}

type QuestRewards struct {
	Experience int      `json:"experience" yaml:"experience"`
	Coins      int      `json:"coins" yaml:"coins"`
	Items      []string `json:"items,omitempty" yaml:"items"`
}

type Quest struct {
	ID           string            `json:"id" yaml:"id"`
	Title        string            `json:"title" yaml:"title"`
	Description  string            `json:"description" yaml:"description"`
	NPC          string            `json:"npcId" yaml:"npcId"`
	Requirements QuestRequirements `json:"requirements" yaml:"requirements"`
	Rewards      QuestRewards      `json:"rewards" yaml:"rewards"`
	Questions    []string          `json:"questions" yaml:"questions"`
}

type Dialogue struct {
	Greeting       string `json:"greeting" yaml:"greeting"`
	QuestAvailable string `json:"questAvailable" yaml:"questAvailable"`
	QuestCompleted string `json:"questCompleted" yaml:"questCompleted"`
	Default        string `json:"default" yaml:"default"`
}

type NPC struct {
	ID          string   `json:"id" yaml:"id"`
	Name        string   `json:"name" yaml:"name"`
	Icon        string   `json:"emoji" yaml:"emoji"`
	Description string   `json:"description" yaml:"description"`
	Location    string   `json:"location" yaml:"location"`
	Dialogue    Dialogue `json:"dialogue" yaml:"dialogue"`
	Quests      []string `json:"quests" yaml:"quests"`
}
