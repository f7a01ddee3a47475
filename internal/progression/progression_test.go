package progression

import (
	"errors"
	"testing"

	"github.com/csquest/api/internal/catalog"
	"github.com/csquest/api/internal/csquest"
)

var cat = catalog.MustDefault()

func newUpdater() Updater {
	return New(cat.Achievements, cat.Pets)
}

func fresh(t *testing.T) csquest.Snapshot {
	t.Helper()
	starter, ok := cat.StarterPet()
	if !ok {
		t.Fatal("no starter pet")
	}
	return csquest.NewSnapshot("ada", "wizard", starter)
}

func item(t *testing.T, id string) csquest.Item {
	t.Helper()
	it, ok := cat.Item(id)
	if !ok {
		t.Fatalf("item %q missing", id)
	}
	return it
}

func TestOnQuestionAnswered(t *testing.T) {
	u := newUpdater()
	s := fresh(t)

	got := u.OnQuestionAnswered(s, true)
	if got.PlayerStats.Experience != 50 || got.PlayerStats.Coins != 160 {
		t.Errorf("xp/coins = %d/%d, want 50/160", got.PlayerStats.Experience, got.PlayerStats.Coins)
	}
	if got.Stats.QuestionsCorrect != 1 || got.Stats.CoinsEarned != 10 {
		t.Errorf("stats = %+v", got.Stats)
	}
	if s.PlayerStats.Experience != 0 {
		t.Error("input snapshot was mutated")
	}

	wrong := u.OnQuestionAnswered(s, false)
	if wrong.PlayerStats != s.PlayerStats || wrong.Stats != s.Stats {
		t.Errorf("incorrect answer changed state: %+v", wrong.PlayerStats)
	}
}

func TestOnBattleWonLevelsUp(t *testing.T) {
	u := newUpdater()
	s := fresh(t)
	s.PlayerStats.Experience = 950
	s.PlayerStats.Health = 40

	got := u.OnBattleWon(s)

	ps := got.PlayerStats
	if ps.Level != 2 {
		t.Fatalf("level = %d, want 2", ps.Level)
	}
	if ps.MaxHealth != s.PlayerStats.MaxHealth+20 {
		t.Errorf("maxHealth = %d, want %d", ps.MaxHealth, s.PlayerStats.MaxHealth+20)
	}
	if ps.Health != ps.MaxHealth {
		t.Errorf("health = %d, want snapped to %d", ps.Health, ps.MaxHealth)
	}
	if ps.MaxMana != 60 || ps.Mana != 60 {
		t.Errorf("mana = %d/%d, want 60/60", ps.Mana, ps.MaxMana)
	}
	if got.Stats.BattlesWon != 1 || got.Stats.CoinsEarned != 25 {
		t.Errorf("stats = %+v", got.Stats)
	}
	// Level 2 unlocks first-steps (+50 coins).
	if !got.HasAchievement("first-steps") {
		t.Error("first-steps not unlocked")
	}
	if ps.Coins != 150+25+50 {
		t.Errorf("coins = %d, want 225", ps.Coins)
	}
}

func TestOnBattleWonBelowThreshold(t *testing.T) {
	u := newUpdater()
	s := fresh(t)
	s.PlayerStats.Health = 40

	got := u.OnBattleWon(s)
	if got.PlayerStats.Level != 1 {
		t.Errorf("level = %d, want 1", got.PlayerStats.Level)
	}
	if got.PlayerStats.Health != 40 {
		t.Errorf("health = %d, want unchanged 40", got.PlayerStats.Health)
	}
}

func TestLevelGatedPetUnlocks(t *testing.T) {
	u := newUpdater()
	s := fresh(t)
	s.PlayerStats.Level = 2
	s.PlayerStats.Experience = 1200

	got := u.OnBattleWon(s)
	if got.PlayerStats.Level != 3 {
		t.Fatalf("level = %d, want 3", got.PlayerStats.Level)
	}
	i := got.PetIndex("python-snake")
	if i < 0 || !got.Pets[i].Unlocked {
		t.Fatalf("python-snake not unlocked: %+v", got.Pets)
	}
	if got.PetIndex("bug-hunter") >= 0 {
		t.Error("bug-hunter unlocked too early")
	}
}

func TestOnBattleLost(t *testing.T) {
	u := newUpdater()
	s := fresh(t)
	s.PlayerStats.Health = 0
	s.PlayerStats.Experience = 300

	got := u.OnBattleLost(s)
	if got.PlayerStats.Health != got.PlayerStats.MaxHealth {
		t.Errorf("health = %d, want %d", got.PlayerStats.Health, got.PlayerStats.MaxHealth)
	}
	if got.PlayerStats.Experience != 300 || got.PlayerStats.Coins != 150 {
		t.Error("defeat applied a penalty")
	}
}

func TestEvaluateAchievementsIdempotent(t *testing.T) {
	u := newUpdater()
	s := fresh(t)
	s.Stats.BattlesWon = 10
	s.Stats.QuestionsCorrect = 50

	once := u.EvaluateAchievements(s)
	if !once.HasAchievement("warrior") || !once.HasAchievement("scholar") {
		t.Fatalf("achievements = %v", once.Achievements)
	}
	if once.PlayerStats.Coins != 150+100+150 || once.PlayerStats.Experience != 200+300 {
		t.Errorf("rewards = %d coins / %d xp", once.PlayerStats.Coins, once.PlayerStats.Experience)
	}

	twice := u.EvaluateAchievements(once)
	if len(twice.Achievements) != len(once.Achievements) || twice.PlayerStats != once.PlayerStats {
		t.Errorf("second evaluation changed state: %v %+v", twice.Achievements, twice.PlayerStats)
	}
}

func TestEquipUnequipRoundTrip(t *testing.T) {
	u := newUpdater()
	s := fresh(t)
	s.PlayerStats.Coins = 1000
	s, _ = u.Purchase(s, item(t, "leather-armor"))
	s, _ = u.Purchase(s, item(t, "iron-armor"))
	s.PlayerStats.Health = 90

	equipped, err := u.Equip(s, "leather-armor")
	if err != nil {
		t.Fatalf("Equip: %v", err)
	}
	if equipped.PlayerStats.MaxHealth != 120 {
		t.Errorf("maxHealth = %d, want 120", equipped.PlayerStats.MaxHealth)
	}
	if equipped.PlayerStats.Health != 90 {
		t.Errorf("health = %d, want 90 (clamped, not reset)", equipped.PlayerStats.Health)
	}

	// Replacing removes the old modifiers first.
	swapped, err := u.Equip(equipped, "iron-armor")
	if err != nil {
		t.Fatalf("Equip: %v", err)
	}
	if swapped.PlayerStats.MaxHealth != 150 || swapped.Equipped.Armor != "iron-armor" {
		t.Errorf("after swap maxHealth = %d, armor = %q", swapped.PlayerStats.MaxHealth, swapped.Equipped.Armor)
	}

	back := u.Unequip(swapped, csquest.SlotArmor)
	if back.PlayerStats.MaxHealth != s.PlayerStats.MaxHealth || back.PlayerStats.MaxMana != s.PlayerStats.MaxMana {
		t.Errorf("round trip maxima = %d/%d", back.PlayerStats.MaxHealth, back.PlayerStats.MaxMana)
	}
	if back.Equipped.Armor != "" {
		t.Errorf("armor slot = %q, want empty", back.Equipped.Armor)
	}
}

func TestUnequipClampsHealthDown(t *testing.T) {
	u := newUpdater()
	s := fresh(t)
	s.PlayerStats.Coins = 1000
	s, _ = u.Purchase(s, item(t, "iron-armor"))
	s, _ = u.Equip(s, "iron-armor")
	s.PlayerStats.Health = s.PlayerStats.MaxHealth

	got := u.Unequip(s, csquest.SlotArmor)
	if got.PlayerStats.Health != 100 || got.PlayerStats.MaxHealth != 100 {
		t.Errorf("health = %d/%d, want 100/100", got.PlayerStats.Health, got.PlayerStats.MaxHealth)
	}
}

func TestEquipErrors(t *testing.T) {
	u := newUpdater()
	s := fresh(t)
	s, _ = u.Purchase(s, item(t, "health-potion"))

	if _, err := u.Equip(s, "iron-sword"); !errors.Is(err, ErrNotOwned) {
		t.Errorf("unowned: err = %v", err)
	}
	if _, err := u.Equip(s, "health-potion"); !errors.Is(err, ErrNotEquippable) {
		t.Errorf("consumable: err = %v", err)
	}
}

func TestPurchaseDeclined(t *testing.T) {
	u := newUpdater()
	s := fresh(t)
	s.PlayerStats.Coins = 30

	got, err := u.Purchase(s, item(t, "wooden-sword"))
	if !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("err = %v, want ErrInsufficientFunds", err)
	}
	if got.PlayerStats.Coins != 30 || len(got.Inventory) != 0 || got.Stats.ItemsCollected != 0 {
		t.Errorf("snapshot changed: %+v", got)
	}
}

func TestPurchaseStacksConsumables(t *testing.T) {
	u := newUpdater()
	s := fresh(t)

	s, _ = u.Purchase(s, item(t, "health-potion"))
	s, _ = u.Purchase(s, item(t, "health-potion"))

	if len(s.Inventory) != 1 || s.Inventory[0].Quantity != 2 {
		t.Fatalf("inventory = %+v", s.Inventory)
	}
	if s.Stats.ItemsCollected != 1 {
		t.Errorf("itemsCollected = %d, want 1", s.Stats.ItemsCollected)
	}
	if s.PlayerStats.Coins != 100 {
		t.Errorf("coins = %d, want 100", s.PlayerStats.Coins)
	}

	s, _ = u.Purchase(s, item(t, "wooden-sword"))
	if i := s.ItemIndex("wooden-sword"); i < 0 || s.Inventory[i].Quantity != 0 {
		t.Errorf("wooden-sword entry = %+v", s.Inventory)
	}
	if len(s.Inventory) != 2 || s.Stats.ItemsCollected != 2 {
		t.Errorf("inventory: %d entries, collected %d", len(s.Inventory), s.Stats.ItemsCollected)
	}
}

func TestPurchaseOwnedGearDeclined(t *testing.T) {
	u := newUpdater()
	s := fresh(t)
	s, _ = u.Purchase(s, item(t, "wooden-sword"))
	coins := s.PlayerStats.Coins

	got, err := u.Purchase(s, item(t, "wooden-sword"))
	if !errors.Is(err, ErrAlreadyOwned) {
		t.Fatalf("err = %v, want ErrAlreadyOwned", err)
	}
	if got.PlayerStats.Coins != coins || len(got.Inventory) != 1 || got.Stats.ItemsCollected != 1 {
		t.Errorf("snapshot changed: coins %d inventory %d collected %d", got.PlayerStats.Coins, len(got.Inventory), got.Stats.ItemsCollected)
	}
}

func TestUseConsumableDepletes(t *testing.T) {
	u := newUpdater()
	s := fresh(t)
	s, _ = u.Purchase(s, item(t, "health-potion"))
	s.PlayerStats.Health = 20
	s.PlayerStats.Mana = 45

	got, err := u.UseConsumable(s, "health-potion")
	if err != nil {
		t.Fatalf("UseConsumable: %v", err)
	}
	if got.PlayerStats.Health != 70 {
		t.Errorf("health = %d, want 70", got.PlayerStats.Health)
	}
	if got.PlayerStats.Mana != 50 {
		t.Errorf("mana = %d, want capped at 50", got.PlayerStats.Mana)
	}
	if got.Owns("health-potion") {
		t.Error("depleted potion still in inventory")
	}

	if _, err := u.UseConsumable(got, "health-potion"); !errors.Is(err, ErrNotOwned) {
		t.Errorf("err = %v, want ErrNotOwned", err)
	}
}

func TestUseConsumableUsesModifiers(t *testing.T) {
	u := newUpdater()
	s := fresh(t)
	s, _ = u.Purchase(s, item(t, "energy-drink"))
	s, _ = u.Purchase(s, item(t, "energy-drink"))
	s.PlayerStats.Health = 10
	s.PlayerStats.Mana = 10

	got, err := u.UseConsumable(s, "energy-drink")
	if err != nil {
		t.Fatalf("UseConsumable: %v", err)
	}
	if got.PlayerStats.Health != 40 || got.PlayerStats.Mana != 30 {
		t.Errorf("health/mana = %d/%d, want 40/30", got.PlayerStats.Health, got.PlayerStats.Mana)
	}
	if got.Inventory[got.ItemIndex("energy-drink")].Quantity != 1 {
		t.Error("quantity not decremented")
	}

	s, _ = u.Purchase(s, item(t, "wooden-sword"))
	if _, err := u.UseConsumable(s, "wooden-sword"); !errors.Is(err, ErrNotConsumable) {
		t.Errorf("err = %v, want ErrNotConsumable", err)
	}
}

func TestSelectPet(t *testing.T) {
	u := newUpdater()
	s := fresh(t)

	if _, err := u.SelectPet(s, "code-dragon"); !errors.Is(err, ErrPetLocked) {
		t.Errorf("err = %v, want ErrPetLocked", err)
	}
	s.Pets = append(s.Pets, csquest.Pet{ID: "python-snake", Level: 1, Unlocked: true})
	got, err := u.SelectPet(s, "python-snake")
	if err != nil {
		t.Fatalf("SelectPet: %v", err)
	}
	if got.ActivePet != "python-snake" || s.ActivePet != "code-cat" {
		t.Errorf("active = %q (input %q)", got.ActivePet, s.ActivePet)
	}
}

func TestCompleteQuest(t *testing.T) {
	u := newUpdater()
	s := fresh(t)
	s.PlayerStats.Level = 3

	q, _ := cat.Quest("quest-3")
	got, err := u.CompleteQuest(s, q, []csquest.Item{item(t, "iron-sword")})
	if err != nil {
		t.Fatalf("CompleteQuest: %v", err)
	}
	if !got.HasCompletedQuest("quest-3") {
		t.Error("quest not recorded")
	}
	// Level 3 also satisfies first-steps, whose 50 coins land on top of the
	// quest reward without counting as earned.
	if got.PlayerStats.Experience != 500 || got.PlayerStats.Coins != 300 || got.Stats.CoinsEarned != 100 {
		t.Errorf("rewards: xp %d coins %d earned %d", got.PlayerStats.Experience, got.PlayerStats.Coins, got.Stats.CoinsEarned)
	}
	if !got.HasAchievement("first-steps") {
		t.Errorf("achievements = %v, want first-steps", got.Achievements)
	}
	if !got.Owns("iron-sword") || got.Stats.ItemsCollected != 1 {
		t.Errorf("reward item missing: %+v", got.Inventory)
	}

	if _, err := u.CompleteQuest(got, q, nil); !errors.Is(err, ErrQuestCompleted) {
		t.Errorf("repeat: err = %v", err)
	}
}

func TestCheckQuestRequirements(t *testing.T) {
	s := fresh(t)
	q2, _ := cat.Quest("quest-2")

	s.PlayerStats.Level = 1
	if err := CheckQuest(s, q2); !errors.Is(err, ErrQuestLocked) {
		t.Errorf("low level: err = %v", err)
	}
	s.PlayerStats.Level = 2
	if err := CheckQuest(s, q2); !errors.Is(err, ErrQuestLocked) {
		t.Errorf("missing prerequisite: err = %v", err)
	}
	s.CompletedQuests = append(s.CompletedQuests, "quest-1")
	if err := CheckQuest(s, q2); err != nil {
		t.Errorf("unlocked: err = %v", err)
	}
}
