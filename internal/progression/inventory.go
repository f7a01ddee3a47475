package progression

import (
	"fmt"

	"github.com/csquest/api/internal/csquest"
)

// Equip puts an owned weapon or armor into its slot. The slot's previous
// item is unequipped first. Current health and mana are clamped to the
// new maxima, never refilled.
func (u Updater) Equip(s csquest.Snapshot, itemID string) (csquest.Snapshot, error) {
	i := s.ItemIndex(itemID)
	if i < 0 {
		return s, fmt.Errorf("equipping %q: %w", itemID, ErrNotOwned)
	}
	it := s.Inventory[i]
	slot, ok := csquest.SlotFor(it.Category)
	if !ok {
		return s, fmt.Errorf("equipping %q: %w", itemID, ErrNotEquippable)
	}
	if s.Equipped.Get(slot) == itemID {
		return s.Clone(), nil
	}

	s = u.Unequip(s, slot)
	applyModifiers(&s.PlayerStats, it.Stats, 1)
	s.Equipped.Set(slot, itemID)
	return s, nil
}

// Unequip frees a slot and removes the item's modifiers. Unequipping an
// empty slot returns an unchanged copy.
func (u Updater) Unequip(s csquest.Snapshot, slot csquest.Slot) csquest.Snapshot {
	s = s.Clone()
	if prev, ok := s.EquippedItem(slot); ok {
		applyModifiers(&s.PlayerStats, prev.Stats, -1)
	}
	s.Equipped.Set(slot, "")
	return s
}

func applyModifiers(ps *csquest.PlayerStats, m csquest.StatModifiers, sign int) {
	ps.MaxHealth += sign * m.Health
	ps.MaxMana += sign * m.Mana
	ps.Clamp()
}

// UseConsumable applies a consumable's restoration and removes one from
// the stack. Zero modifiers fall back to the potion defaults.
func (u Updater) UseConsumable(s csquest.Snapshot, itemID string) (csquest.Snapshot, error) {
	i := s.ItemIndex(itemID)
	if i < 0 {
		return s, fmt.Errorf("using %q: %w", itemID, ErrNotOwned)
	}
	if s.Inventory[i].Category != csquest.CategoryConsumable {
		return s, fmt.Errorf("using %q: %w", itemID, ErrNotConsumable)
	}

	s = s.Clone()
	it := &s.Inventory[i]
	heal, mana := it.Stats.Health, it.Stats.Mana
	if heal == 0 {
		heal = DefaultPotionHeal
	}
	if mana == 0 {
		mana = DefaultPotionMana
	}
	s.PlayerStats.Health += heal
	s.PlayerStats.Mana += mana
	s.PlayerStats.Clamp()

	it.Quantity--
	if it.Quantity <= 0 {
		s.Inventory = append(s.Inventory[:i], s.Inventory[i+1:]...)
	}
	return s, nil
}

// Purchase buys one unit of a catalog item. The returned snapshot is the
// unchanged input when the player cannot afford it or already holds a
// non-stacking item.
func (u Updater) Purchase(s csquest.Snapshot, item csquest.Item) (csquest.Snapshot, error) {
	if item.Category != csquest.CategoryConsumable && s.Owns(item.ID) {
		return s, fmt.Errorf("buying %q: %w", item.ID, ErrAlreadyOwned)
	}
	if s.PlayerStats.Coins < item.Price {
		return s, fmt.Errorf("buying %q for %d: %w", item.ID, item.Price, ErrInsufficientFunds)
	}

	s = s.Clone()
	s.PlayerStats.Coins -= item.Price
	grant(&s, item)
	return u.EvaluateAchievements(s), nil
}

// grant adds one unit of item. Consumables stack; other items are held
// once. itemsCollected counts first acquisitions only.
func grant(s *csquest.Snapshot, item csquest.Item) {
	if i := s.ItemIndex(item.ID); i >= 0 {
		if item.Category == csquest.CategoryConsumable {
			s.Inventory[i].Quantity++
		}
		return
	}
	owned := csquest.InventoryItem{Item: item}
	if item.Category == csquest.CategoryConsumable {
		owned.Quantity = 1
	}
	s.Inventory = append(s.Inventory, owned)
	s.Stats.ItemsCollected++
}
