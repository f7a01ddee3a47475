package csquest

import "testing"

var codeCat = PetTemplate{
	ID: "code-cat", Name: "Code Cat", Icon: "🐱",
	Stats: PetStats{Attack: 5, Defense: 3, Health: 20}, Starter: true,
}

func TestNewSnapshot(t *testing.T) {
	s := NewSnapshot("ada", "knight", codeCat)

	ps := s.PlayerStats
	if ps.Level != 1 || ps.Experience != 0 {
		t.Errorf("level/xp = %d/%d, want 1/0", ps.Level, ps.Experience)
	}
	if ps.Coins != 150 {
		t.Errorf("coins = %d, want 150", ps.Coins)
	}
	if ps.Health != 100 || ps.MaxHealth != 100 {
		t.Errorf("health = %d/%d, want 100/100", ps.Health, ps.MaxHealth)
	}
	if ps.Mana != 50 || ps.MaxMana != 50 {
		t.Errorf("mana = %d/%d, want 50/50", ps.Mana, ps.MaxMana)
	}
	if ps.Username != "ada" || ps.Character != "knight" {
		t.Errorf("identity = %q/%q", ps.Username, ps.Character)
	}
	if len(s.Inventory) != 0 {
		t.Errorf("inventory = %v, want empty", s.Inventory)
	}
	pet, ok := s.Pet()
	if !ok || pet.ID != "code-cat" || !pet.Unlocked || pet.Level != 1 {
		t.Errorf("active pet = %+v (ok=%v)", pet, ok)
	}
}

func TestCloneIsDeep(t *testing.T) {
	s := NewSnapshot("ada", "knight", codeCat)
	s.Inventory = append(s.Inventory, InventoryItem{Item: Item{ID: "health-potion", Category: CategoryConsumable}, Quantity: 2})
	s.Achievements = append(s.Achievements, "first-steps")

	cp := s.Clone()
	cp.Inventory[0].Quantity = 9
	cp.Achievements[0] = "changed"
	cp.Pets[0].Level = 7

	if s.Inventory[0].Quantity != 2 {
		t.Errorf("original inventory mutated: %d", s.Inventory[0].Quantity)
	}
	if s.Achievements[0] != "first-steps" {
		t.Errorf("original achievements mutated: %v", s.Achievements)
	}
	if s.Pets[0].Level != 1 {
		t.Errorf("original pets mutated: %v", s.Pets)
	}
}

func TestNormalizeDefaultsOldSaves(t *testing.T) {
	// A save written before maxMana, pets and quests existed.
	old := Snapshot{PlayerStats: PlayerStats{Level: 0, Health: 250, MaxHealth: 120, Mana: 10}}

	s := old.Normalize()

	if s.PlayerStats.Level != 1 {
		t.Errorf("level = %d, want 1", s.PlayerStats.Level)
	}
	if s.PlayerStats.MaxMana != StartingMana {
		t.Errorf("maxMana = %d, want %d", s.PlayerStats.MaxMana, StartingMana)
	}
	if s.PlayerStats.Health != 120 {
		t.Errorf("health = %d, want clamped to 120", s.PlayerStats.Health)
	}
	if s.PlayerStats.Username != DefaultUsername {
		t.Errorf("username = %q", s.PlayerStats.Username)
	}
	if s.Inventory == nil || s.Achievements == nil || s.CompletedQuests == nil || s.Pets == nil {
		t.Error("expected nil collections to be defaulted")
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		name string
		in   PlayerStats
		want PlayerStats
	}{
		{"over max", PlayerStats{Level: 1, Health: 130, MaxHealth: 100, Mana: 70, MaxMana: 50},
			PlayerStats{Level: 1, Health: 100, MaxHealth: 100, Mana: 50, MaxMana: 50}},
		{"negative", PlayerStats{Level: 1, Health: -4, MaxHealth: 100, Mana: -1, MaxMana: 50},
			PlayerStats{Level: 1, Health: 0, MaxHealth: 100, Mana: 0, MaxMana: 50}},
		{"zero max", PlayerStats{Level: 1, Health: 5, MaxHealth: 0, Mana: 5, MaxMana: -3},
			PlayerStats{Level: 1, Health: 1, MaxHealth: 1, Mana: 1, MaxMana: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.in
			got.Clamp()
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestJudge(t *testing.T) {
	mc := Question{Kind: KindMultipleChoice, Choices: []string{"20", "14", "24", "Error"}, CorrectChoice: 1}
	for i := range mc.Choices {
		if got := mc.Judge(Answer{Choice: i}); got != (i == 1) {
			t.Errorf("choice %d judged %v", i, got)
		}
	}

	fill := Question{Kind: KindFillBlank, CorrectText: "print"}
	if !fill.Judge(Answer{Text: "  Print "}) {
		t.Error("expected trimmed case-insensitive match")
	}
	if fill.Judge(Answer{Text: "echo"}) {
		t.Error("expected mismatch")
	}
	if got := mc.CorrectAnswer(); got != "14" {
		t.Errorf("correct answer = %q, want 14", got)
	}
}

func TestPetBonus(t *testing.T) {
	tests := []struct {
		level int
		want  PetStats
	}{
		{1, PetStats{Attack: 5, Defense: 3, Health: 20}},
		{2, PetStats{Attack: 6, Defense: 3, Health: 24}},
		{3, PetStats{Attack: 7, Defense: 4, Health: 28}},
		{0, PetStats{Attack: 5, Defense: 3, Health: 20}},
	}
	for _, tt := range tests {
		if got := PetBonus(codeCat, tt.level); got != tt.want {
			t.Errorf("level %d: got %+v, want %+v", tt.level, got, tt.want)
		}
	}
}

func TestAppearance(t *testing.T) {
	s := NewSnapshot("ada", "knight", codeCat)
	s.Inventory = []InventoryItem{
		{Item: Item{ID: "wooden-sword", Category: CategoryWeapon, Appearance: "sword-wood"}},
		{Item: Item{ID: "leather-armor", Category: CategoryArmor, Appearance: "armor-leather"}},
	}
	s.Equipped = Equipment{Weapon: "wooden-sword", Armor: "missing"}

	got := s.Appearance()
	if got.WeaponTag != "sword-wood" || got.ArmorTag != "" {
		t.Errorf("appearance = %+v", got)
	}
}

func TestSnapshotDecodesObjectRefs(t *testing.T) {
	tests := []struct {
		name   string
		json   string
		pet    string
		weapon string
		armor  string
	}{
		{"ids", `{"activePet":"code-cat","equipped":{"weapon":"wooden-sword"}}`, "code-cat", "wooden-sword", ""},
		{"objects", `{"activePet":{"id":"bug-hunter","name":"Bug Hunter"},"equipped":{"armor":{"id":"leather-armor","price":80}}}`, "bug-hunter", "", "leather-armor"},
		{"empty", `{"equipped":{}}`, "", "", ""},
		{"nulls", `{"activePet":null,"equipped":{"weapon":null}}`, "", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := DecodeSnapshot([]byte(tt.json))
			if err != nil {
				t.Fatalf("DecodeSnapshot: %v", err)
			}
			if s.ActivePet != tt.pet || s.Equipped.Weapon != tt.weapon || s.Equipped.Armor != tt.armor {
				t.Errorf("got pet=%q weapon=%q armor=%q", s.ActivePet, s.Equipped.Weapon, s.Equipped.Armor)
			}
		})
	}
}
