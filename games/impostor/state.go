// Package impostor implements the pass-the-device impostor word game.
//
// One device is handed from player to player. Each player privately reveals
// either the secret word or the impostor role, then the group debates and
// eliminates suspects until every impostor is out or only impostors remain.
//
// All transitions are methods on State that return a new State; the receiver
// is never modified, so a caller can keep any earlier snapshot for replay.
package impostor

import (
	"fmt"
	"slices"
)

const (
	// MinPlayers is the smallest roster a round can start with.
	MinPlayers = 3

	// DefaultPlayers is the size of a fresh roster.
	DefaultPlayers = 4

	PlayersWinPoints   = 200
	ImpostorsWinPoints = 500
)

// Phase is the session's position in the round lifecycle.
type Phase string

const (
	PhaseLobby        Phase = "lobby"
	PhaseRound        Phase = "round"
	PhasePlayersWin   Phase = "players_win"
	PhaseImpostorsWin Phase = "impostors_win"
)

// Terminal reports whether the round has been decided.
func (p Phase) Terminal() bool {
	return p == PhasePlayersWin || p == PhaseImpostorsWin
}

// Role is what a player saw when they revealed their card.
type Role string

const (
	RoleNone     Role = ""
	RoleImpostor Role = "impostor"
	RoleWord     Role = "word"
)

type Player struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	Clicked      bool   `json:"clicked"`
	RoleRevealed Role   `json:"role_revealed,omitempty"`
	Points       int    `json:"points"`
	LastGain     int    `json:"last_gain"`
}

func defaultName(n int) string {
	return fmt.Sprintf("Player %d", n)
}

// Settings are the lobby options. They survive from round to round.
type Settings struct {
	Impostors     ImpostorPolicy `json:"impostors"`
	Categories    []string       `json:"categories"`
	ContentFilter bool           `json:"content_filter"`
	ShowCategory  bool           `json:"show_category"`
}

// State is the whole session: roster, options and the current round, if any.
type State struct {
	Phase    Phase    `json:"phase"`
	Players  Roster   `json:"players"`
	Settings Settings `json:"settings"`
	Round    *Round   `json:"round,omitempty"`
}

// NewState returns a lobby with the default roster and every category of
// the catalog selected.
func NewState(c *Catalog) State {
	var players Roster
	for range DefaultPlayers {
		players = players.Add()
	}

	return State{
		Phase:   PhaseLobby,
		Players: players,
		Settings: Settings{
			Impostors:    ImpostorPolicy{Count: 1, Min: 1, Max: 1},
			Categories:   c.Categories(),
			ShowCategory: true,
		},
	}
}

func (s State) clone() State {
	next := s
	next.Players = slices.Clone(s.Players)
	next.Settings.Categories = slices.Clone(s.Settings.Categories)
	if s.Round != nil {
		next.Round = s.Round.clone()
	}

	return next
}

// Alive reports whether the player has not been eliminated this round.
func (s State) Alive(id int) bool {
	if s.Round == nil {
		return true
	}

	return !s.Round.IsEliminated(id)
}

func (s State) requireLobby() error {
	if s.Phase != PhaseLobby {
		return ErrRoundActive
	}

	return nil
}

func (s State) requireRound() error {
	switch {
	case s.Phase == PhaseLobby || s.Round == nil:
		return ErrNoRound
	case s.Phase.Terminal():
		return ErrRoundOver
	}

	return nil
}

func (s State) requirePlayer(id int) error {
	if s.Players.Index(id) < 0 {
		return fmt.Errorf("%w: %d", ErrUnknownPlayer, id)
	}

	return nil
}

// NewRound returns to the lobby after a round, keeping roster, scores and
// options so they can be adjusted before the next start. The round must be
// decided or have its results on screen.
func (s State) NewRound() (State, error) {
	if s.Round == nil {
		return s, ErrNoRound
	}
	if !s.Phase.Terminal() && !s.Round.ResultsShown {
		return s, ErrRoundActive
	}

	next := s.clone()
	next.Phase = PhaseLobby
	next.Round = nil

	return next, nil
}

// ExitToLobby abandons the current round, if any. The roster is retained.
func (s State) ExitToLobby() State {
	next := s.clone()
	next.Phase = PhaseLobby
	next.Round = nil

	return next
}
