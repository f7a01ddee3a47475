package csquest

import (
	"encoding/json"
	"slices"
)

// NewSnapshot returns the initial state for a newly created character.
func NewSnapshot(username, character string, starter PetTemplate) Snapshot {
	pet := starter.Owned()
	return Snapshot{
		PlayerStats: PlayerStats{
			Level:     StartingLevel,
			Username:  username,
			Coins:     StartingCoins,
			Health:    StartingHealth,
			MaxHealth: StartingHealth,
			Mana:      StartingMana,
			MaxMana:   StartingMana,
			Character: character,
		},
		Inventory:       []InventoryItem{},
		Achievements:    []string{},
		CompletedQuests: []string{},
		ActivePet:       pet.ID,
		Pets:            []Pet{pet},
	}
}

// Clone returns a deep copy so callers can mutate the result freely.
func (s Snapshot) Clone() Snapshot {
	cp := s
	cp.Inventory = slices.Clone(s.Inventory)
	cp.Achievements = slices.Clone(s.Achievements)
	cp.CompletedQuests = slices.Clone(s.CompletedQuests)
	cp.Pets = slices.Clone(s.Pets)
	return cp
}

// Normalize fills in fields that older saves lack and re-establishes the
// stat invariants. It is applied to every loaded snapshot.
func (s Snapshot) Normalize() Snapshot {
	s = s.Clone()
	if s.PlayerStats.MaxHealth <= 0 {
		s.PlayerStats.MaxHealth = StartingHealth
	}
	if s.PlayerStats.MaxMana <= 0 {
		s.PlayerStats.MaxMana = StartingMana
	}
	if s.PlayerStats.Username == "" {
		s.PlayerStats.Username = DefaultUsername
	}
	s.PlayerStats.Clamp()

	if s.Inventory == nil {
		s.Inventory = []InventoryItem{}
	}
	if s.Achievements == nil {
		s.Achievements = []string{}
	}
	if s.CompletedQuests == nil {
		s.CompletedQuests = []string{}
	}
	if s.Pets == nil {
		s.Pets = []Pet{}
	}
	for i := range s.Inventory {
		if s.Inventory[i].Category == CategoryConsumable && s.Inventory[i].Quantity < 1 {
			s.Inventory[i].Quantity = 1
		}
	}
	for i := range s.Pets {
		if s.Pets[i].Level < 1 {
			s.Pets[i].Level = 1
		}
	}
	return s
}

// ref is an id written either as a bare string or as an object carrying an
// id field. Browser-era saves store the whole item or pet object.
type ref string

func (r *ref) UnmarshalJSON(data []byte) error {
	var id string
	if err := json.Unmarshal(data, &id); err == nil {
		*r = ref(id)
		return nil
	}
	var obj struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	*r = ref(obj.ID)
	return nil
}

func (e *Equipment) UnmarshalJSON(data []byte) error {
	var aux struct {
		Weapon ref `json:"weapon"`
		Armor  ref `json:"armor"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	e.Weapon, e.Armor = string(aux.Weapon), string(aux.Armor)
	return nil
}

// DecodeSnapshot parses a saved snapshot. The active pet and equipped
// items may be stored as ids or as whole objects.
func DecodeSnapshot(data []byte) (Snapshot, error) {
	var s Snapshot
	aux := struct {
		*Snapshot
		ActivePet ref `json:"activePet"`
	}{Snapshot: &s}
	if err := json.Unmarshal(data, &aux); err != nil {
		return Snapshot{}, err
	}
	s.ActivePet = string(aux.ActivePet)
	return s, nil
}

// ItemIndex returns the inventory position of itemID, or -1.
func (s Snapshot) ItemIndex(itemID string) int {
	return slices.IndexFunc(s.Inventory, func(it InventoryItem) bool { return it.ID == itemID })
}

// Owns reports whether itemID is in the inventory.
func (s Snapshot) Owns(itemID string) bool {
	return s.ItemIndex(itemID) >= 0
}

// EquippedItem resolves a slot to its inventory item.
func (s Snapshot) EquippedItem(slot Slot) (InventoryItem, bool) {
	id := s.Equipped.Get(slot)
	if id == "" {
		return InventoryItem{}, false
	}
	i := s.ItemIndex(id)
	if i < 0 {
		return InventoryItem{}, false
	}
	return s.Inventory[i], true
}

func (s Snapshot) HasAchievement(id string) bool {
	return slices.Contains(s.Achievements, id)
}

func (s Snapshot) HasCompletedQuest(id string) bool {
	return slices.Contains(s.CompletedQuests, id)
}

// PetIndex returns the position of petID in the owned pets, or -1.
func (s Snapshot) PetIndex(petID string) int {
	return slices.IndexFunc(s.Pets, func(p Pet) bool { return p.ID == petID })
}

// Pet returns the active pet, if any.
func (s Snapshot) Pet() (Pet, bool) {
	if s.ActivePet == "" {
		return Pet{}, false
	}
	i := s.PetIndex(s.ActivePet)
	if i < 0 {
		return Pet{}, false
	}
	return s.Pets[i], true
}

// Appearance returns the sprite tags of the equipped weapon and armor.
func (s Snapshot) Appearance() Appearance {
	var a Appearance
	if it, ok := s.EquippedItem(SlotWeapon); ok {
		a.WeaponTag = it.Appearance
	}
	if it, ok := s.EquippedItem(SlotArmor); ok {
		a.ArmorTag = it.Appearance
	}
	return a
}
