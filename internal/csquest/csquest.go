// Package csquest defines the core domain types of the game: the persisted
// progression snapshot and the static content it refers to.
// It has no external dependencies.
package csquest

// Default values for a freshly created character.
const (
	StartingLevel    = 1
	StartingCoins    = 150
	StartingHealth   = 100
	StartingMana     = 50
	StarterPetID     = "code-cat"
	DefaultUsername  = "Player"
	DefaultCharacter = "wizard"
)

type PlayerStats struct {
	Level      int    `json:"level"`
	Experience int    `json:"experience"`
	Username   string `json:"username"`
	Coins      int    `json:"coins"`
	Health     int    `json:"health"`
	MaxHealth  int    `json:"maxHealth"`
	Mana       int    `json:"mana"`
	MaxMana    int    `json:"maxMana"`
	Character  string `json:"character,omitempty"`
}

// Clamp restores 0 <= health <= maxHealth and 0 <= mana <= maxMana.
// Max values never drop below 1.
func (p *PlayerStats) Clamp() {
	if p.MaxHealth < 1 {
		p.MaxHealth = 1
	}
	if p.MaxMana < 1 {
		p.MaxMana = 1
	}
	p.Health = clamp(p.Health, 0, p.MaxHealth)
	p.Mana = clamp(p.Mana, 0, p.MaxMana)
	if p.Coins < 0 {
		p.Coins = 0
	}
	if p.Experience < 0 {
		p.Experience = 0
	}
	if p.Level < 1 {
		p.Level = 1
	}
}

type Category string

const (
	CategoryWeapon     Category = "weapon"
	CategoryArmor      Category = "armor"
	CategoryConsumable Category = "consumable"
	CategoryCosmetic   Category = "cosmetic"
)

// Equippable reports whether items of the category occupy an equipment slot.
func (c Category) Equippable() bool {
	return c == CategoryWeapon || c == CategoryArmor
}

type StatModifiers struct {
	Attack  int `json:"attack,omitempty" yaml:"attack"`
	Defense int `json:"defense,omitempty" yaml:"defense"`
	Health  int `json:"health,omitempty" yaml:"health"`
	Mana    int `json:"mana,omitempty" yaml:"mana"`
}

// Item is a shop catalog entry.
type Item struct {
	ID          string        `json:"id" yaml:"id"`
	Name        string        `json:"name" yaml:"name"`
	Category    Category      `json:"type" yaml:"type"`
	Icon        string        `json:"emoji" yaml:"emoji"`
	Description string        `json:"description" yaml:"description"`
	Appearance  string        `json:"appearance,omitempty" yaml:"appearance"`
	Price       int           `json:"price" yaml:"price"`
	Stats       StatModifiers `json:"stats" yaml:"stats"`
}

// InventoryItem is an owned copy of a catalog item. Quantity is only
// meaningful for consumables.
type InventoryItem struct {
	Item
	Quantity int `json:"quantity,omitempty"`
}

type Slot string

const (
	SlotWeapon Slot = "weapon"
	SlotArmor  Slot = "armor"
)

// Equipment references inventory items by id. Empty means the slot is free.
type Equipment struct {
	Weapon string `json:"weapon,omitempty"`
	Armor  string `json:"armor,omitempty"`
}

func (e Equipment) Get(slot Slot) string {
	if slot == SlotArmor {
		return e.Armor
	}
	return e.Weapon
}

func (e *Equipment) Set(slot Slot, itemID string) {
	if slot == SlotArmor {
		e.Armor = itemID
		return
	}
	e.Weapon = itemID
}

// SlotFor maps an equippable category to its slot.
func SlotFor(c Category) (Slot, bool) {
	switch c {
	case CategoryWeapon:
		return SlotWeapon, true
	case CategoryArmor:
		return SlotArmor, true
	default:
		return "", false
	}
}

// Pet is an owned companion.
type Pet struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Icon       string `json:"emoji"`
	Level      int    `json:"level"`
	Experience int    `json:"experience"`
	Unlocked   bool   `json:"unlocked"`
}

type CumulativeStats struct {
	BattlesWon       int `json:"battlesWon"`
	QuestionsCorrect int `json:"questionsCorrect"`
	CoinsEarned      int `json:"coinsEarned"`
	ItemsCollected   int `json:"itemsCollected"`
}

// Snapshot is the full persisted progression state of one player.
type Snapshot struct {
	PlayerStats     PlayerStats     `json:"playerStats"`
	Inventory       []InventoryItem `json:"inventory"`
	Equipped        Equipment       `json:"equipped"`
	Achievements    []string        `json:"achievements"`
	CompletedQuests []string        `json:"completedQuests"`
	ActivePet       string          `json:"activePet,omitempty"`
	Pets            []Pet           `json:"pets"`
	Stats           CumulativeStats `json:"stats"`
}

// Appearance is the cosmetic look of the equipped items, consumed by the
// sprite renderer.
type Appearance struct {
	WeaponTag string `json:"weaponTag,omitempty"`
	ArmorTag  string `json:"armorTag,omitempty"`
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
