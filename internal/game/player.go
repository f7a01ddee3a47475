package game

import (
	"context"
	"fmt"
	"io"

	"github.com/csquest/api/internal/catalog"
	"github.com/csquest/api/internal/csquest"
	"github.com/csquest/api/internal/progression"
	"github.com/csquest/api/internal/report"
)

// Derived holds values computed from a snapshot and the catalogs. They are
// never persisted.
type Derived struct {
	Attack     int                `json:"attack"`
	Defense    int                `json:"defense"`
	PetBonus   *csquest.PetStats  `json:"petBonus,omitempty"`
	XPToNext   int                `json:"xpToNext"`
	Appearance csquest.Appearance `json:"appearance"`
}

// StateView is a player's snapshot with its derived values.
type StateView struct {
	PlayerID string `json:"playerId"`
	csquest.Snapshot
	Derived  Derived `json:"derived"`
	InBattle bool    `json:"inBattle"`
}

func (s *Service) view(playerID string, snap csquest.Snapshot, inBattle bool) StateView {
	d := Derived{
		XPToNext:   max(0, progression.LevelUpThreshold-snap.PlayerStats.Experience),
		Appearance: snap.Appearance(),
	}
	for _, slot := range []csquest.Slot{csquest.SlotWeapon, csquest.SlotArmor} {
		if it, ok := snap.EquippedItem(slot); ok {
			d.Attack += it.Stats.Attack
			d.Defense += it.Stats.Defense
		}
	}
	if pet, ok := snap.Pet(); ok {
		if t, ok := s.catalog.Pet(pet.ID); ok {
			bonus := csquest.PetBonus(t, pet.Level)
			d.PetBonus = &bonus
			d.Attack += bonus.Attack
			d.Defense += bonus.Defense
		}
	}
	return StateView{PlayerID: playerID, Snapshot: snap, Derived: d, InBattle: inBattle}
}

// State returns the player's current snapshot and derived values.
func (s *Service) State(ctx context.Context, playerID string) (StateView, error) {
	sess, err := s.sessions.Get(ctx, playerID)
	if err != nil {
		return StateView{}, err
	}
	sess.mu.Lock()
	snap := sess.snap.Clone()
	inBattle := sess.inBattle()
	sess.mu.Unlock()
	return s.view(playerID, snap, inBattle), nil
}

func (s *Service) Appearance(ctx context.Context, playerID string) (csquest.Appearance, error) {
	sess, err := s.sessions.Get(ctx, playerID)
	if err != nil {
		return csquest.Appearance{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.snap.Appearance(), nil
}

func (s *Service) Purchase(ctx context.Context, playerID, itemID string) (StateView, error) {
	item, ok := s.catalog.Item(itemID)
	if !ok {
		return StateView{}, fmt.Errorf("item %q: %w", itemID, catalog.ErrUnknown)
	}
	v, err := s.mutate(ctx, playerID, func(snap csquest.Snapshot) (csquest.Snapshot, error) {
		return s.updater.Purchase(snap, item)
	})
	if err != nil {
		return StateView{}, err
	}
	s.logger.Info("item purchased", "player", playerID, "item", itemID, "price", item.Price)
	s.publishState(v)
	return v, nil
}

func (s *Service) Equip(ctx context.Context, playerID, itemID string) (StateView, error) {
	v, err := s.mutate(ctx, playerID, func(snap csquest.Snapshot) (csquest.Snapshot, error) {
		return s.updater.Equip(snap, itemID)
	})
	if err != nil {
		return StateView{}, err
	}
	s.publishAppearance(v)
	return v, nil
}

func (s *Service) Unequip(ctx context.Context, playerID string, slot csquest.Slot) (StateView, error) {
	if slot != csquest.SlotWeapon && slot != csquest.SlotArmor {
		return StateView{}, fmt.Errorf("slot %q: %w", slot, ErrInvalidSlot)
	}
	v, err := s.mutate(ctx, playerID, func(snap csquest.Snapshot) (csquest.Snapshot, error) {
		return s.updater.Unequip(snap, slot), nil
	})
	if err != nil {
		return StateView{}, err
	}
	s.publishAppearance(v)
	return v, nil
}

func (s *Service) UseItem(ctx context.Context, playerID, itemID string) (StateView, error) {
	v, err := s.mutate(ctx, playerID, func(snap csquest.Snapshot) (csquest.Snapshot, error) {
		return s.updater.UseConsumable(snap, itemID)
	})
	if err != nil {
		return StateView{}, err
	}
	s.publishState(v)
	return v, nil
}

func (s *Service) SelectPet(ctx context.Context, playerID, petID string) (StateView, error) {
	if _, ok := s.catalog.Pet(petID); !ok {
		return StateView{}, fmt.Errorf("pet %q: %w", petID, catalog.ErrUnknown)
	}
	v, err := s.mutate(ctx, playerID, func(snap csquest.Snapshot) (csquest.Snapshot, error) {
		return s.updater.SelectPet(snap, petID)
	})
	if err != nil {
		return StateView{}, err
	}
	s.publishState(v)
	return v, nil
}

// publishAppearance notifies the sprite renderer. Delivery is best effort.
func (s *Service) publishAppearance(v StateView) {
	s.opts.Publisher.Publish(v.PlayerID, Event{Type: EventAppearance, Data: v.Derived.Appearance})
	s.publishState(v)
}

// sanitize makes a loaded save consistent with the current catalogs.
// Unknown items keep their place in the inventory but lose their
// modifiers, including the maxima they granted while equipped; dangling
// references are cleared.
func (s *Service) sanitize(playerID string, snap csquest.Snapshot) csquest.Snapshot {
	snap = snap.Normalize()
	for i := range snap.Inventory {
		it := &snap.Inventory[i]
		if _, ok := s.catalog.Item(it.ID); ok {
			continue
		}
		s.logger.Warn("unknown item in save", "player", playerID, "item", it.ID)
		if slot, ok := csquest.SlotFor(it.Category); ok && snap.Equipped.Get(slot) == it.ID {
			snap.PlayerStats.MaxHealth -= it.Stats.Health
			snap.PlayerStats.MaxMana -= it.Stats.Mana
			snap.PlayerStats.Clamp()
		}
		it.Stats = csquest.StatModifiers{}
	}
	for _, slot := range []csquest.Slot{csquest.SlotWeapon, csquest.SlotArmor} {
		id := snap.Equipped.Get(slot)
		if id == "" {
			continue
		}
		it, ok := snap.EquippedItem(slot)
		if want, _ := csquest.SlotFor(it.Category); !ok || want != slot {
			s.logger.Warn("dangling equipment slot", "player", playerID, "slot", slot, "item", id)
			snap.Equipped.Set(slot, "")
		}
	}
	for _, p := range snap.Pets {
		if _, ok := s.catalog.Pet(p.ID); !ok {
			s.logger.Warn("unknown pet in save", "player", playerID, "pet", p.ID)
		}
	}
	if snap.ActivePet != "" {
		_, known := s.catalog.Pet(snap.ActivePet)
		if _, owned := snap.Pet(); !owned || !known {
			s.logger.Warn("unknown active pet", "player", playerID, "pet", snap.ActivePet)
			snap.ActivePet = ""
		}
	}
	return snap
}

// Report writes the player's PDF character sheet to w.
func (s *Service) Report(ctx context.Context, playerID string, w io.Writer) error {
	v, err := s.State(ctx, playerID)
	if err != nil {
		return err
	}
	sheet := report.Sheet{
		Snapshot: v.Snapshot,
		Attack:   v.Derived.Attack,
		Defense:  v.Derived.Defense,
	}
	if err := report.Write(w, sheet, s.catalog); err != nil {
		return fmt.Errorf("rendering report: %w", err)
	}
	return nil
}
