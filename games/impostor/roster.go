package impostor

import (
	"fmt"
	"slices"
)

// Roster is the ordered list of players. Its methods return a new Roster and
// leave the receiver untouched.
type Roster []Player

// Index returns the position of the player with the given id, or -1.
func (r Roster) Index(id int) int {
	return slices.IndexFunc(r, func(p Player) bool { return p.ID == id })
}

func (r Roster) IDs() []int {
	ids := make([]int, len(r))
	for i, p := range r {
		ids[i] = p.ID
	}

	return ids
}

func (r Roster) nextID() int {
	next := 1
	for _, p := range r {
		if p.ID >= next {
			next = p.ID + 1
		}
	}

	return next
}

// Add appends a player with a fresh id.
func (r Roster) Add() Roster {
	id := r.nextID()

	return append(slices.Clone(r), Player{
		ID:   id,
		Name: defaultName(id),
	})
}

// Remove drops the player with the given id. Absent ids are ignored.
func (r Roster) Remove(id int) Roster {
	return slices.DeleteFunc(slices.Clone(r), func(p Player) bool { return p.ID == id })
}

func (r Roster) Rename(id int, name string) Roster {
	next := slices.Clone(r)
	if i := next.Index(id); i >= 0 {
		next[i].Name = name
	}

	return next
}

// ResetNames renames every player after their position in the roster.
func (r Roster) ResetNames() Roster {
	next := slices.Clone(r)
	for i := range next {
		next[i].Name = defaultName(i + 1)
	}

	return next
}

// MaxImpostors is the largest impostor count a roster of n players allows.
func MaxImpostors(n int) int {
	return max(1, n-1)
}

func (s State) withPlayers(players Roster) State {
	next := s.clone()
	next.Players = players
	next.Settings.Impostors = next.Settings.Impostors.Clamp(len(players))

	return next
}

func (s State) AddPlayer() (State, error) {
	if err := s.requireLobby(); err != nil {
		return s, err
	}

	return s.withPlayers(s.Players.Add()), nil
}

// RemovePlayer drops a player, refusing to shrink the roster below
// MinPlayers. Removing an absent id is a no-op.
func (s State) RemovePlayer(id int) (State, error) {
	if err := s.requireLobby(); err != nil {
		return s, err
	}
	if s.Players.Index(id) < 0 {
		return s, nil
	}
	if len(s.Players) <= MinPlayers {
		return s, fmt.Errorf("%w: at least %d are required", ErrInsufficientPlayers, MinPlayers)
	}

	return s.withPlayers(s.Players.Remove(id)), nil
}

func (s State) RenamePlayer(id int, name string) (State, error) {
	if err := s.requireLobby(); err != nil {
		return s, err
	}
	if err := s.requirePlayer(id); err != nil {
		return s, err
	}

	return s.withPlayers(s.Players.Rename(id, name)), nil
}

func (s State) ResetNames() (State, error) {
	if err := s.requireLobby(); err != nil {
		return s, err
	}

	return s.withPlayers(s.Players.ResetNames()), nil
}

// TrimRoster drops every player beyond the first MinPlayers.
func (s State) TrimRoster() (State, error) {
	if err := s.requireLobby(); err != nil {
		return s, err
	}
	if len(s.Players) <= MinPlayers {
		return s, nil
	}

	return s.withPlayers(slices.Clone(s.Players[:MinPlayers])), nil
}
