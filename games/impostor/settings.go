package impostor

import (
	"fmt"
	"slices"
)

// ImpostorPolicy decides how many impostors a round gets: Count when Random
// is unset, otherwise a uniform draw from [Min, Max].
type ImpostorPolicy struct {
	Random bool `json:"random"`
	Count  int  `json:"count"`
	Min    int  `json:"min"`
	Max    int  `json:"max"`
}

// Clamp bounds every field to [1, MaxImpostors(n)] and keeps Min <= Max.
func (p ImpostorPolicy) Clamp(n int) ImpostorPolicy {
	hi := MaxImpostors(n)
	p.Count = min(max(p.Count, 1), hi)
	p.Min = min(max(p.Min, 1), hi)
	p.Max = min(max(p.Max, p.Min), hi)

	return p
}

// Validate checks the policy against a roster of n players.
func (p ImpostorPolicy) Validate(n int) error {
	hi := n - 1
	if p.Random {
		if p.Min < 1 || p.Min > p.Max || p.Max > hi {
			return fmt.Errorf("%w: range [%d, %d] with %d players", ErrInvalidImpostorCount, p.Min, p.Max, n)
		}

		return nil
	}

	if p.Count < 1 || p.Count > hi {
		return fmt.Errorf("%w: %d with %d players", ErrInvalidImpostorCount, p.Count, n)
	}

	return nil
}

func (p ImpostorPolicy) draw(src Source) int {
	if !p.Random {
		return p.Count
	}

	return p.Min + src.IntN(p.Max-p.Min+1)
}

// SetImpostorCount switches to a fixed impostor count.
func (s State) SetImpostorCount(k int) (State, error) {
	if err := s.requireLobby(); err != nil {
		return s, err
	}

	policy := s.Settings.Impostors
	policy.Random = false
	policy.Count = k
	if k < 1 || k > MaxImpostors(len(s.Players)) {
		return s, fmt.Errorf("%w: %d", ErrInvalidImpostorCount, k)
	}

	next := s.clone()
	next.Settings.Impostors = policy

	return next, nil
}

// SetImpostorRange switches to a random impostor count drawn from [lo, hi].
func (s State) SetImpostorRange(lo, hi int) (State, error) {
	if err := s.requireLobby(); err != nil {
		return s, err
	}
	if lo < 1 || lo > hi || hi > MaxImpostors(len(s.Players)) {
		return s, fmt.Errorf("%w: range [%d, %d]", ErrInvalidImpostorCount, lo, hi)
	}

	next := s.clone()
	next.Settings.Impostors.Random = true
	next.Settings.Impostors.Min = lo
	next.Settings.Impostors.Max = hi

	return next, nil
}

// ToggleCategory adds the category to the active set, or removes it if it
// is already active. Categories unknown to the catalog are rejected.
func (s State) ToggleCategory(c *Catalog, category string) (State, error) {
	if err := s.requireLobby(); err != nil {
		return s, err
	}
	if !slices.Contains(c.Categories(), category) {
		return s, fmt.Errorf("%w: %q", ErrUnknownCategory, category)
	}

	next := s.clone()
	if i := slices.Index(next.Settings.Categories, category); i >= 0 {
		next.Settings.Categories = slices.Delete(next.Settings.Categories, i, i+1)
	} else {
		next.Settings.Categories = append(next.Settings.Categories, category)
		slices.Sort(next.Settings.Categories)
	}

	return next, nil
}

func (s State) SelectAllCategories(c *Catalog) (State, error) {
	if err := s.requireLobby(); err != nil {
		return s, err
	}

	next := s.clone()
	next.Settings.Categories = c.Categories()

	return next, nil
}

func (s State) ClearCategories() (State, error) {
	if err := s.requireLobby(); err != nil {
		return s, err
	}

	next := s.clone()
	next.Settings.Categories = []string{}

	return next, nil
}

func (s State) SetContentFilter(enabled bool) (State, error) {
	if err := s.requireLobby(); err != nil {
		return s, err
	}

	next := s.clone()
	next.Settings.ContentFilter = enabled

	return next, nil
}

// SetShowCategory controls whether the word's category is shown on every
// card, impostors included.
func (s State) SetShowCategory(enabled bool) (State, error) {
	if err := s.requireLobby(); err != nil {
		return s, err
	}

	next := s.clone()
	next.Settings.ShowCategory = enabled

	return next, nil
}
