package impostor

import (
	"fmt"
	"slices"
)

// Round is the secret state of a single play cycle. It is replaced wholesale
// on every start.
type Round struct {
	Word                  WordEntry `json:"word"`
	ImpostorIDs           []int     `json:"impostor_ids"`
	RemainingImpostors    int       `json:"remaining_impostors"`
	// ImpostorsToReveal counts impostors who have not yet looked at their
	// card; it is the counter an impostor's reveal decrements, leaving
	// RemainingImpostors to elimination alone.
	ImpostorsToReveal     int       `json:"impostors_to_reveal"`
	EliminatedPlayerIDs   []int     `json:"eliminated_player_ids"`
	EliminatedImpostorIDs []int     `json:"eliminated_impostor_ids"`
	StartingPlayerID      int       `json:"starting_player_id"`
	ResultsShown          bool      `json:"results_shown"`
	ImpostorsRevealed     bool      `json:"impostors_revealed"`
	StarterRevealed       bool      `json:"starter_revealed"`
}

func (r *Round) clone() *Round {
	c := *r
	c.ImpostorIDs = slices.Clone(r.ImpostorIDs)
	c.EliminatedPlayerIDs = slices.Clone(r.EliminatedPlayerIDs)
	c.EliminatedImpostorIDs = slices.Clone(r.EliminatedImpostorIDs)

	return &c
}

func (r *Round) IsImpostor(id int) bool {
	return slices.Contains(r.ImpostorIDs, id)
}

func (r *Round) IsEliminated(id int) bool {
	return slices.Contains(r.EliminatedPlayerIDs, id)
}

// drawImpostors picks count distinct ids by repeatedly drawing from a
// shrinking candidate pool.
func drawImpostors(ids []int, count int, src Source) []int {
	pool := slices.Clone(ids)
	chosen := make([]int, 0, count)
	for len(chosen) < count && len(pool) > 0 {
		i := src.IntN(len(pool))
		chosen = append(chosen, pool[i])
		pool = slices.Delete(pool, i, i+1)
	}

	return chosen
}

// StartRound deals a new round: a secret word from the active categories, a
// set of impostors and a starting player. Every precondition is checked
// before anything is drawn, so a rejected start leaves s as it was.
//
// Random draws happen in a fixed order: word, impostor count (random policy
// only), each impostor, starter.
func (s State) StartRound(c *Catalog, src Source) (State, error) {
	if s.Phase == PhaseRound {
		return s, ErrRoundActive
	}

	n := len(s.Players)
	if n < MinPlayers {
		return s, fmt.Errorf("%w: need at least %d, have %d", ErrInsufficientPlayers, MinPlayers, n)
	}

	policy := s.Settings.Impostors
	if err := policy.Validate(n); err != nil {
		return s, err
	}

	pool := c.Pool(s.Settings.Categories, s.Settings.ContentFilter)
	if len(pool) == 0 {
		return s, ErrEmptyWordPool
	}

	word := pool[src.IntN(len(pool))]
	count := policy.draw(src)
	ids := s.Players.IDs()
	impostors := drawImpostors(ids, count, src)
	starter := ids[src.IntN(len(ids))]

	next := s.clone()
	for i := range next.Players {
		next.Players[i].Clicked = false
		next.Players[i].RoleRevealed = RoleNone
	}
	next.Phase = PhaseRound
	next.Round = &Round{
		Word:                  word,
		ImpostorIDs:           impostors,
		RemainingImpostors:    len(impostors),
		ImpostorsToReveal:     len(impostors),
		EliminatedPlayerIDs:   []int{},
		EliminatedImpostorIDs: []int{},
		StartingPlayerID:      starter,
	}

	return next, nil
}

// RevealImpostors discloses how many impostors are in play.
func (s State) RevealImpostors() (State, error) {
	if s.Round == nil {
		return s, ErrNoRound
	}

	next := s.clone()
	next.Round.ImpostorsRevealed = true

	return next, nil
}

// RevealStarter discloses who opens the discussion.
func (s State) RevealStarter() (State, error) {
	if s.Round == nil {
		return s, ErrNoRound
	}

	next := s.clone()
	next.Round.StarterRevealed = true

	return next, nil
}
