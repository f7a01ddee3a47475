// Package catalog loads the static game content: questions, enemies, shop
// items, pets, achievements, quests and NPCs. Tables are read once at
// start-up and never mutated afterwards.
package catalog

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/csquest/api/internal/csquest"
)

//go:embed data/*.yaml
var embedded embed.FS

// Rand is the randomness source used for sampling. *math/rand/v2.Rand
// satisfies it.
type Rand interface {
	IntN(n int) int
}

var ErrUnknown = errors.New("unknown catalog entry")

type Catalog struct {
	Questions    QuestionBank
	Enemies      Enemies
	Items        []csquest.Item
	Pets         []csquest.PetTemplate
	Achievements []csquest.Achievement
	Quests       []csquest.Quest
	NPCs         []csquest.NPC
}

// Default returns the catalog compiled into the binary.
func Default() (*Catalog, error) {
	sub, err := fs.Sub(embedded, "data")
	if err != nil {
		return nil, err
	}
	return Load(sub)
}

// MustDefault is Default for tests and static initialisation.
func MustDefault() *Catalog {
	c, err := Default()
	if err != nil {
		panic(err)
	}
	return c
}

// Load reads every table from fsys and validates cross references.
func Load(fsys fs.FS) (*Catalog, error) {
	var c Catalog
	tables := []struct {
		file string
		dst  any
	}{
		{"questions.yaml", &c.Questions},
		{"enemies.yaml", &c.Enemies},
		{"items.yaml", &c.Items},
		{"pets.yaml", &c.Pets},
		{"achievements.yaml", &c.Achievements},
		{"quests.yaml", &c.Quests},
		{"npcs.yaml", &c.NPCs},
	}
	for _, t := range tables {
		b, err := fs.ReadFile(fsys, t.file)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", t.file, err)
		}
		if err := yaml.Unmarshal(b, t.dst); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", t.file, err)
		}
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Catalog) validate() error {
	if len(c.Questions) == 0 {
		return errors.New("question bank is empty")
	}
	if len(c.Enemies) == 0 {
		return errors.New("enemy catalog is empty")
	}
	if _, ok := c.StarterPet(); !ok {
		return fmt.Errorf("starter pet %q missing", csquest.StarterPetID)
	}

	seen := make(map[string]bool)
	for _, q := range c.Questions {
		if seen[q.ID] {
			return fmt.Errorf("duplicate question %q", q.ID)
		}
		seen[q.ID] = true
		if !q.FreeText() && (q.CorrectChoice < 0 || q.CorrectChoice >= len(q.Choices)) {
			return fmt.Errorf("question %q: correct choice %d out of range", q.ID, q.CorrectChoice)
		}
		if q.FreeText() && q.CorrectText == "" {
			return fmt.Errorf("question %q: missing expected text", q.ID)
		}
	}
	for _, e := range c.Enemies {
		if e.MaxHealth <= 0 {
			return fmt.Errorf("enemy %q: maxHealth must be positive", e.Name)
		}
	}

	if err := unique("item", c.Items, func(it csquest.Item) string { return it.ID }); err != nil {
		return err
	}
	for _, it := range c.Items {
		if it.Price < 0 {
			return fmt.Errorf("item %q: negative price", it.ID)
		}
	}
	if err := unique("pet", c.Pets, func(p csquest.PetTemplate) string { return p.ID }); err != nil {
		return err
	}
	if err := unique("achievement", c.Achievements, func(a csquest.Achievement) string { return a.ID }); err != nil {
		return err
	}
	if err := unique("quest", c.Quests, func(q csquest.Quest) string { return q.ID }); err != nil {
		return err
	}
	if err := unique("npc", c.NPCs, func(n csquest.NPC) string { return n.ID }); err != nil {
		return err
	}

	for _, q := range c.Quests {
		if len(q.Questions) == 0 {
			return fmt.Errorf("quest %q has no questions", q.ID)
		}
		for _, id := range q.Questions {
			if !seen[id] {
				return fmt.Errorf("quest %q: unknown question %q", q.ID, id)
			}
		}
		for _, id := range q.Rewards.Items {
			if _, ok := c.Item(id); !ok {
				return fmt.Errorf("quest %q: unknown reward item %q", q.ID, id)
			}
		}
	}
	for _, n := range c.NPCs {
		for _, id := range n.Quests {
			if _, ok := c.Quest(id); !ok {
				return fmt.Errorf("npc %q: unknown quest %q", n.ID, id)
			}
		}
	}
	return nil
}

func unique[T any](kind string, xs []T, id func(T) string) error {
	seen := make(map[string]bool, len(xs))
	for _, x := range xs {
		k := id(x)
		if k == "" {
			return fmt.Errorf("%s with empty id", kind)
		}
		if seen[k] {
			return fmt.Errorf("duplicate %s %q", kind, k)
		}
		seen[k] = true
	}
	return nil
}

func find[T any](xs []T, match func(T) bool) (T, bool) {
	i := slices.IndexFunc(xs, match)
	if i < 0 {
		var zero T
		return zero, false
	}
	return xs[i], true
}

func (c *Catalog) Item(id string) (csquest.Item, bool) {
	return find(c.Items, func(it csquest.Item) bool { return it.ID == id })
}

func (c *Catalog) Pet(id string) (csquest.PetTemplate, bool) {
	return find(c.Pets, func(p csquest.PetTemplate) bool { return p.ID == id })
}

func (c *Catalog) Quest(id string) (csquest.Quest, bool) {
	return find(c.Quests, func(q csquest.Quest) bool { return q.ID == id })
}

func (c *Catalog) NPC(id string) (csquest.NPC, bool) {
	return find(c.NPCs, func(n csquest.NPC) bool { return n.ID == id })
}

// StarterPet is the pet every new character owns.
func (c *Catalog) StarterPet() (csquest.PetTemplate, bool) {
	return c.Pet(csquest.StarterPetID)
}

// QuestQuestions resolves a quest's question ids in order.
func (c *Catalog) QuestQuestions(q csquest.Quest) ([]csquest.Question, error) {
	out := make([]csquest.Question, 0, len(q.Questions))
	for _, id := range q.Questions {
		qq, ok := c.Questions.ByID(id)
		if !ok {
			return nil, fmt.Errorf("quest %q question %q: %w", q.ID, id, ErrUnknown)
		}
		out = append(out, qq)
	}
	return out, nil
}
