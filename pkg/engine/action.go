package engine

import (
	"encoding/json"
	"fmt"
	"piratepoker-server/pkg/model"
)

// Action is something a seat can do on its turn
type Action string

// action constants
const (
	ActionFold  Action = "fold"
	ActionCheck Action = "check"
	ActionCall  Action = "call"
	ActionBet   Action = "bet"
	ActionRaise Action = "raise"
)

var allowedActions = map[Action]bool{
	ActionFold:  true,
	ActionCheck: true,
	ActionCall:  true,
	ActionBet:   true,
	ActionRaise: true,
}

// ParseAction returns the action for the identifier
func ParseAction(s string) (Action, error) {
	if a := Action(s); allowedActions[a] {
		return a, nil
	}

	return "", fmt.Errorf("unknown action for identifier: %s", s)
}

func (a Action) String() string {
	switch a {
	case ActionFold:
		return "Fold"
	case ActionCheck:
		return "Check"
	case ActionCall:
		return "Call"
	case ActionBet:
		return "Bet"
	case ActionRaise:
		return "Raise"
	}

	return "Unknown"
}

// MarshalJSON encodes the action as its identifier and display name
func (a Action) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}{
		ID:   string(a),
		Name: a.String(),
	})
}

// LogMessage returns a message formatted for the log
func (a Action) LogMessage(amount int) string {
	switch a {
	case ActionFold:
		return "folded"
	case ActionCheck:
		return "checked"
	case ActionCall:
		return fmt.Sprintf("called %d", amount)
	case ActionBet:
		return fmt.Sprintf("bet %d", amount)
	case ActionRaise:
		return fmt.Sprintf("raised to %d", amount)
	}

	return ""
}

// legalActions returns what the seat may do right now. Empty unless it is the seat's turn
func (h *hand) legalActions(seat *model.Seat) []Action {
	if seat == nil || h.table.Status != model.TableStatusPlaying || seat.Status != model.SeatStatusActive {
		return []Action{}
	}

	if turn := h.turn(); turn == nil || turn.Identity != seat.Identity {
		return []Action{}
	}

	if seat.RoundBet >= h.table.CurrentBet {
		if h.table.CurrentBet == 0 {
			return []Action{ActionCheck, ActionBet, ActionFold}
		}

		return []Action{ActionCheck, ActionRaise, ActionFold}
	}

	return []Action{ActionCall, ActionRaise, ActionFold}
}
