package impostor

import (
	"fmt"
	"slices"
)

// PlayerView is what the shared screen may show about a player. Impostor is
// only set once that player's role is public.
type PlayerView struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	Clicked    bool   `json:"clicked"`
	Eliminated bool   `json:"eliminated"`
	Impostor   bool   `json:"impostor,omitempty"`
	Points     int    `json:"points"`
	LastGain   int    `json:"last_gain"`
}

type CategoryView struct {
	Name   string `json:"name"`
	Count  int    `json:"count"`
	Active bool   `json:"active"`
}

// View is a read-only snapshot of the session, safe to show to the whole
// table. Secrets appear only once they have been made public.
type View struct {
	Phase        Phase          `json:"phase"`
	Winner       Team           `json:"winner,omitempty"`
	Players      []PlayerView   `json:"players"`
	Settings     Settings       `json:"settings"`
	Categories   []CategoryView `json:"categories"`
	MinPlayers   int            `json:"min_players"`
	MaxImpostors int            `json:"max_impostors"`
	Revealed     int            `json:"revealed"`
	AllRevealed  bool           `json:"all_revealed"`
	ResultsShown bool           `json:"results_shown"`

	Word               string `json:"word,omitempty"`
	Category           string `json:"category,omitempty"`
	ImpostorCount      int    `json:"impostor_count,omitempty"`
	RemainingImpostors int    `json:"remaining_impostors,omitempty"`
	ImpostorIDs        []int  `json:"impostor_ids,omitempty"`
	StartingPlayerID   int    `json:"starting_player_id,omitempty"`
}

// disclosed reports whether the round's secrets are public.
func (s State) disclosed() bool {
	return s.Round != nil && (s.Round.ResultsShown || s.Phase.Terminal())
}

func NewView(s State, c *Catalog) View {
	active := make(map[string]bool, len(s.Settings.Categories))
	for _, cat := range s.Settings.Categories {
		active[cat] = true
	}

	counts := c.Counts()
	cats := make([]CategoryView, 0, len(counts))
	for _, name := range c.Categories() {
		cats = append(cats, CategoryView{Name: name, Count: counts[name], Active: active[name]})
	}

	v := View{
		Phase:        s.Phase,
		Winner:       s.Winner(),
		Players:      make([]PlayerView, 0, len(s.Players)),
		Settings:     s.clone().Settings,
		Categories:   cats,
		MinPlayers:   MinPlayers,
		MaxImpostors: MaxImpostors(len(s.Players)),
	}

	disclosed := s.disclosed()
	for _, p := range s.Players {
		pv := PlayerView{
			ID:       p.ID,
			Name:     p.Name,
			Points:   p.Points,
			LastGain: p.LastGain,
		}
		if s.Round != nil {
			pv.Clicked = p.Clicked
			pv.Eliminated = s.Round.IsEliminated(p.ID)
			if disclosed || pv.Eliminated {
				pv.Impostor = s.Round.IsImpostor(p.ID)
			}
		}
		v.Players = append(v.Players, pv)
	}

	r := s.Round
	if r == nil {
		return v
	}

	v.Revealed = s.Revealed()
	v.AllRevealed = s.AllRevealed()
	v.ResultsShown = r.ResultsShown

	if s.Settings.ShowCategory || disclosed {
		v.Category = r.Word.Category
	}
	if r.ImpostorsRevealed || disclosed {
		v.ImpostorCount = len(r.ImpostorIDs)
		v.RemainingImpostors = r.RemainingImpostors
	}
	if r.StarterRevealed {
		v.StartingPlayerID = r.StartingPlayerID
	}
	if disclosed {
		v.Word = r.Word.Word
		v.ImpostorIDs = slices.Clone(r.ImpostorIDs)
	}

	return v
}

// Card is the private view a single player gets of their own role.
type Card struct {
	PlayerID int    `json:"player_id"`
	Name     string `json:"name"`
	Role     Role   `json:"role"`
	Word     string `json:"word,omitempty"`
	Category string `json:"category,omitempty"`
}

// NewCard returns the player's card. Role is RoleNone until the player has
// revealed; the word is never on an impostor's card.
func NewCard(s State, id int) (Card, error) {
	if s.Round == nil {
		return Card{}, ErrNoRound
	}

	i := s.Players.Index(id)
	if i < 0 {
		return Card{}, fmt.Errorf("%w: %d", ErrUnknownPlayer, id)
	}

	p := s.Players[i]
	card := Card{
		PlayerID: p.ID,
		Name:     p.Name,
		Role:     p.RoleRevealed,
	}
	if s.Settings.ShowCategory {
		card.Category = s.Round.Word.Category
	}
	if p.RoleRevealed == RoleWord {
		card.Word = s.Round.Word.Word
	}

	return card, nil
}
