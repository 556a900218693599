package impostor

import "errors"

var (
	ErrInsufficientPlayers  = errors.New("not enough players")
	ErrEmptyWordPool        = errors.New("no words match the selected categories")
	ErrPrematureResults     = errors.New("every player must see their role before results are shown")
	ErrInvalidImpostorCount = errors.New("invalid impostor count")
	ErrRoundActive          = errors.New("a round is in progress")
	ErrNoRound              = errors.New("no round in progress")
	ErrRoundOver            = errors.New("the round is already over")
	ErrUnknownPlayer        = errors.New("unknown player")
	ErrUnknownCategory      = errors.New("unknown category")
	ErrUnknownAction        = errors.New("unknown action")
)
