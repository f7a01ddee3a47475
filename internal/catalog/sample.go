package catalog

import "github.com/csquest/api/internal/csquest"

type QuestionBank []csquest.Question

// Sample picks uniformly among questions of the given difficulty. A
// difficulty of 0 or one with no questions samples the whole bank.
func (b QuestionBank) Sample(rng Rand, difficulty int) csquest.Question {
	pool := []csquest.Question(b)
	if difficulty > 0 {
		var filtered []csquest.Question
		for _, q := range b {
			if q.Difficulty == difficulty {
				filtered = append(filtered, q)
			}
		}
		if len(filtered) > 0 {
			pool = filtered
		}
	}
	return pool[rng.IntN(len(pool))]
}

func (b QuestionBank) ByID(id string) (csquest.Question, bool) {
	return find(b, func(q csquest.Question) bool { return q.ID == id })
}

type Enemies []csquest.Enemy

// Sample picks an enemy uniformly. Enemies are not scaled to the player.
func (e Enemies) Sample(rng Rand) csquest.Enemy {
	return e[rng.IntN(len(e))]
}
