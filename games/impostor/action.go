package impostor

import "fmt"

type ActionType string

const (
	ActionAddPlayer           ActionType = "add_player"
	ActionRemovePlayer        ActionType = "remove_player"
	ActionRenamePlayer        ActionType = "rename_player"
	ActionResetNames          ActionType = "reset_names"
	ActionTrimRoster          ActionType = "trim_roster"
	ActionSetImpostors        ActionType = "set_impostors"
	ActionSetImpostorRange    ActionType = "set_impostor_range"
	ActionToggleCategory      ActionType = "toggle_category"
	ActionSelectAllCategories ActionType = "select_all_categories"
	ActionClearCategories     ActionType = "clear_categories"
	ActionSetContentFilter    ActionType = "set_content_filter"
	ActionSetShowCategory     ActionType = "set_show_category"
	ActionStartRound          ActionType = "start_round"
	ActionRevealRole          ActionType = "reveal_role"
	ActionRevealImpostors     ActionType = "reveal_impostors"
	ActionRevealStarter       ActionType = "reveal_starter"
	ActionEliminate           ActionType = "eliminate"
	ActionAdvanceToResults    ActionType = "advance_to_results"
	ActionNewRound            ActionType = "new_round"
	ActionExitToLobby         ActionType = "exit_to_lobby"
)

// Action is a single user input, as sent by the presentation layer.
type Action struct {
	Type     ActionType `json:"type"`
	PlayerID int        `json:"player_id,omitempty"`
	Name     string     `json:"name,omitempty"`
	Count    int        `json:"count,omitempty"`
	Min      int        `json:"min,omitempty"`
	Max      int        `json:"max,omitempty"`
	Category string     `json:"category,omitempty"`
	Enabled  bool       `json:"enabled,omitempty"`
}

// Rules binds the read-only collaborators a session needs to apply actions.
type Rules struct {
	Catalog *Catalog
	Source  Source
}

// Apply performs a, returning the next state. On error the returned state is
// s itself.
func (r Rules) Apply(s State, a Action) (State, error) {
	var (
		next State
		err  error
	)

	switch a.Type {
	case ActionAddPlayer:
		next, err = s.AddPlayer()
	case ActionRemovePlayer:
		next, err = s.RemovePlayer(a.PlayerID)
	case ActionRenamePlayer:
		next, err = s.RenamePlayer(a.PlayerID, a.Name)
	case ActionResetNames:
		next, err = s.ResetNames()
	case ActionTrimRoster:
		next, err = s.TrimRoster()
	case ActionSetImpostors:
		next, err = s.SetImpostorCount(a.Count)
	case ActionSetImpostorRange:
		next, err = s.SetImpostorRange(a.Min, a.Max)
	case ActionToggleCategory:
		next, err = s.ToggleCategory(r.Catalog, a.Category)
	case ActionSelectAllCategories:
		next, err = s.SelectAllCategories(r.Catalog)
	case ActionClearCategories:
		next, err = s.ClearCategories()
	case ActionSetContentFilter:
		next, err = s.SetContentFilter(a.Enabled)
	case ActionSetShowCategory:
		next, err = s.SetShowCategory(a.Enabled)
	case ActionStartRound:
		next, err = s.StartRound(r.Catalog, r.Source)
	case ActionRevealRole:
		next, err = s.RevealRole(a.PlayerID)
	case ActionRevealImpostors:
		next, err = s.RevealImpostors()
	case ActionRevealStarter:
		next, err = s.RevealStarter()
	case ActionEliminate:
		next, err = s.Eliminate(a.PlayerID)
	case ActionAdvanceToResults:
		next, err = s.AdvanceToResults()
	case ActionNewRound:
		next, err = s.NewRound()
	case ActionExitToLobby:
		next = s.ExitToLobby()
	default:
		err = fmt.Errorf("%w: %q", ErrUnknownAction, a.Type)
	}

	if err != nil {
		return s, err
	}

	return next, nil
}
