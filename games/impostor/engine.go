package impostor

import "slices"

// Team identifies the winning side of a round.
type Team string

const (
	TeamNone      Team = ""
	TeamPlayers   Team = "players"
	TeamImpostors Team = "impostors"
)

func (t Team) phase() Phase {
	switch t {
	case TeamPlayers:
		return PhasePlayersWin
	case TeamImpostors:
		return PhaseImpostorsWin
	}

	return PhaseRound
}

// Winner returns the side that won the round, or TeamNone while undecided.
func (s State) Winner() Team {
	switch s.Phase {
	case PhasePlayersWin:
		return TeamPlayers
	case PhaseImpostorsWin:
		return TeamImpostors
	}

	return TeamNone
}

// outcome decides the round from counts that already include the latest
// elimination. Impostors win once every survivor is an impostor; players win
// once no impostor remains.
func (r *Round) outcome(rosterSize int) Team {
	alive := rosterSize - len(r.EliminatedPlayerIDs)
	if r.RemainingImpostors > 0 && alive == r.RemainingImpostors {
		return TeamImpostors
	}
	if r.RemainingImpostors == 0 {
		return TeamPlayers
	}

	return TeamNone
}

// Eliminate votes a player out. Eliminating someone twice is a no-op. If the
// elimination decides the round, the phase becomes terminal and points are
// awarded in the same step.
func (s State) Eliminate(id int) (State, error) {
	if err := s.requireRound(); err != nil {
		return s, err
	}
	if err := s.requirePlayer(id); err != nil {
		return s, err
	}
	if s.Round.IsEliminated(id) {
		return s, nil
	}

	next := s.clone()
	r := next.Round
	r.EliminatedPlayerIDs = append(r.EliminatedPlayerIDs, id)
	if r.IsImpostor(id) {
		r.EliminatedImpostorIDs = append(r.EliminatedImpostorIDs, id)
		r.RemainingImpostors--
	}

	if winner := r.outcome(len(next.Players)); winner != TeamNone {
		next.Phase = winner.phase()
		next.Players = ApplyPoints(next.Players, r.ImpostorIDs, winner)
	}

	return next, nil
}

// ApplyPoints gives every player exactly one gain for the round: 200 to each
// non-impostor when the players win, 500 to each impostor when the impostors
// win, and 0 to everyone else.
func ApplyPoints(players Roster, impostorIDs []int, winner Team) Roster {
	next := make(Roster, len(players))
	for i, p := range players {
		gain := 0
		switch impostor := slices.Contains(impostorIDs, p.ID); {
		case winner == TeamPlayers && !impostor:
			gain = PlayersWinPoints
		case winner == TeamImpostors && impostor:
			gain = ImpostorsWinPoints
		}
		p.LastGain = gain
		p.Points += gain
		next[i] = p
	}

	return next
}
