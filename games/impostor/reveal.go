package impostor

// RevealRole records a player's one-time look at their card. A player who
// has already looked is left as is, so repeated calls are harmless.
func (s State) RevealRole(id int) (State, error) {
	if err := s.requireRound(); err != nil {
		return s, err
	}

	i := s.Players.Index(id)
	if i < 0 {
		return s, s.requirePlayer(id)
	}
	if s.Players[i].Clicked {
		return s, nil
	}

	next := s.clone()
	next.Players[i].Clicked = true
	if next.Round.IsImpostor(id) {
		next.Players[i].RoleRevealed = RoleImpostor
		next.Round.ImpostorsToReveal--
	} else {
		next.Players[i].RoleRevealed = RoleWord
	}

	return next, nil
}

// AllRevealed reports whether every player has seen their card.
func (s State) AllRevealed() bool {
	for _, p := range s.Players {
		if !p.Clicked {
			return false
		}
	}

	return true
}

// Revealed counts the players who have seen their card.
func (s State) Revealed() int {
	n := 0
	for _, p := range s.Players {
		if p.Clicked {
			n++
		}
	}

	return n
}

// AdvanceToResults shows the word and the impostors to everyone. It is
// refused until every player has seen their card.
func (s State) AdvanceToResults() (State, error) {
	if s.Round == nil {
		return s, ErrNoRound
	}
	if !s.AllRevealed() {
		return s, ErrPrematureResults
	}

	next := s.clone()
	next.Round.ResultsShown = true

	return next, nil
}
