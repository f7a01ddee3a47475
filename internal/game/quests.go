package game

import (
	"context"
	"fmt"

	"github.com/csquest/api/internal/catalog"
	"github.com/csquest/api/internal/csquest"
	"github.com/csquest/api/internal/progression"
)

type AnswerResult struct {
	QuestionID    string `json:"questionId"`
	Correct       bool   `json:"correct"`
	CorrectAnswer string `json:"correctAnswer"`
	Explanation   string `json:"explanation,omitempty"`
}

type QuestResult struct {
	QuestID     string         `json:"questId"`
	Score       int            `json:"score"`
	Total       int            `json:"total"`
	Completed   bool           `json:"completed"`
	XPGained    int            `json:"xpGained"`
	CoinsGained int            `json:"coinsGained"`
	Answers     []AnswerResult `json:"answers"`
	State       StateView      `json:"state"`
}

// AttemptQuest judges one answer per quest question. Each correct answer
// is rewarded like a battle answer; a perfect score completes the quest.
func (s *Service) AttemptQuest(ctx context.Context, playerID, questID string, answers []csquest.Answer) (QuestResult, error) {
	q, ok := s.catalog.Quest(questID)
	if !ok {
		return QuestResult{}, fmt.Errorf("quest %q: %w", questID, catalog.ErrUnknown)
	}
	questions, err := s.catalog.QuestQuestions(q)
	if err != nil {
		return QuestResult{}, err
	}
	if len(answers) != len(questions) {
		return QuestResult{}, fmt.Errorf("quest %q has %d questions, got %d answers: %w",
			questID, len(questions), len(answers), ErrAnswerCount)
	}
	rewardItems := make([]csquest.Item, 0, len(q.Rewards.Items))
	for _, id := range q.Rewards.Items {
		it, ok := s.catalog.Item(id)
		if !ok {
			return QuestResult{}, fmt.Errorf("quest %q reward %q: %w", questID, id, catalog.ErrUnknown)
		}
		rewardItems = append(rewardItems, it)
	}

	res := QuestResult{QuestID: questID, Total: len(questions)}
	v, err := s.mutate(ctx, playerID, func(snap csquest.Snapshot) (csquest.Snapshot, error) {
		if err := progression.CheckQuest(snap, q); err != nil {
			return snap, err
		}
		for i, qq := range questions {
			correct := qq.Judge(answers[i])
			res.Answers = append(res.Answers, AnswerResult{
				QuestionID:    qq.ID,
				Correct:       correct,
				CorrectAnswer: qq.CorrectAnswer(),
				Explanation:   qq.Explanation,
			})
			if correct {
				res.Score++
			}
			snap = s.updater.OnQuestionAnswered(snap, correct)
		}
		res.XPGained = res.Score * progression.XPPerCorrectAnswer
		res.CoinsGained = res.Score * progression.CoinsPerCorrectAnswer
		if res.Score < res.Total {
			return snap, nil
		}

		snap, err := s.updater.CompleteQuest(snap, q, rewardItems)
		if err != nil {
			return snap, err
		}
		res.Completed = true
		res.XPGained += q.Rewards.Experience
		res.CoinsGained += q.Rewards.Coins
		return snap, nil
	})
	if err != nil {
		return QuestResult{}, err
	}

	s.logger.Info("quest attempted", "player", playerID, "quest", questID,
		"score", res.Score, "total", res.Total, "completed", res.Completed)
	res.State = v
	s.publishState(v)
	return res, nil
}
