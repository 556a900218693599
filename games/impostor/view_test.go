package impostor

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestViewHidesSecretsDuringRound(t *testing.T) {
	c := fruitCatalog()
	s := revealAll(t, started(t, 1, 1))

	v := NewView(s, c)
	if v.Word != "" || v.ImpostorIDs != nil || v.ImpostorCount != 0 {
		t.Errorf("secrets leaked: %+v", v)
	}
	for _, p := range v.Players {
		if p.Impostor {
			t.Errorf("player %d marked impostor before results", p.ID)
		}
	}

	raw, err := json.Marshal(v)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(raw), "Manzana") {
		t.Errorf("word in serialized view: %s", raw)
	}
	if v.Category != "Fruta" {
		t.Errorf("category = %q, want shown to all", v.Category)
	}
	if !v.AllRevealed || v.Revealed != 4 {
		t.Errorf("reveal progress = %d/%v", v.Revealed, v.AllRevealed)
	}
}

func TestViewHidesCategoryWhenDisabled(t *testing.T) {
	c := fruitCatalog()
	s := NewState(c)
	s = must(t)(s.SetShowCategory(false))
	s = must(t)(s.StartRound(c, script(t, 0, 0, 0)))

	if v := NewView(s, c); v.Category != "" {
		t.Errorf("category = %q, want hidden", v.Category)
	}

	card, err := NewCard(must(t)(s.RevealRole(2)), 2)
	if err != nil {
		t.Fatal(err)
	}
	if card.Category != "" {
		t.Errorf("card category = %q, want hidden", card.Category)
	}
}

func TestViewDisclosure(t *testing.T) {
	c := fruitCatalog()
	s := revealAll(t, started(t, 1, 1))

	s = must(t)(s.RevealImpostors())
	s = must(t)(s.RevealStarter())
	v := NewView(s, c)
	if v.ImpostorCount != 1 || v.StartingPlayerID != 1 {
		t.Errorf("count/starter = %d/%d", v.ImpostorCount, v.StartingPlayerID)
	}

	s = must(t)(s.Eliminate(1))
	v = NewView(s, c)
	if v.Players[0].Impostor || !v.Players[0].Eliminated {
		t.Errorf("eliminated innocent = %+v", v.Players[0])
	}

	s = must(t)(s.AdvanceToResults())
	v = NewView(s, c)
	if v.Word != "Manzana" || len(v.ImpostorIDs) != 1 || !v.Players[1].Impostor {
		t.Errorf("results view = %+v", v)
	}
}

func TestViewCategories(t *testing.T) {
	c := fruitCatalog()
	s := must(t)(NewState(c).ToggleCategory(c, "Animal"))

	v := NewView(s, c)
	if len(v.Categories) != 3 {
		t.Fatalf("categories = %+v", v.Categories)
	}
	if a := v.Categories[0]; a.Name != "Animal" || a.Count != 2 || a.Active {
		t.Errorf("animal = %+v", a)
	}
	if v.MaxImpostors != 3 || v.MinPlayers != MinPlayers {
		t.Errorf("bounds = %d/%d", v.MaxImpostors, v.MinPlayers)
	}
}

func TestNewCard(t *testing.T) {
	s := started(t, 1, 1)

	card, err := NewCard(s, 1)
	if err != nil {
		t.Fatal(err)
	}
	if card.Role != RoleNone || card.Word != "" {
		t.Errorf("unrevealed card = %+v", card)
	}

	s = must(t)(s.RevealRole(1))
	s = must(t)(s.RevealRole(2))

	if card, _ := NewCard(s, 1); card.Role != RoleWord || card.Word != "Manzana" {
		t.Errorf("word card = %+v", card)
	}
	if card, _ := NewCard(s, 2); card.Role != RoleImpostor || card.Word != "" || card.Category != "Fruta" {
		t.Errorf("impostor card = %+v", card)
	}

	if _, err := NewCard(NewState(fruitCatalog()), 1); err == nil {
		t.Error("expected error without a round")
	}
}
