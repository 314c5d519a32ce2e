package domain

import (
	"fmt"
	"time"
)

// TradeAction is the closed set of order actions. The validator
// switches over it exhaustively; adding an action is a compile-time
// visible change, not a string fallthrough.
type TradeAction string

const (
	ActionBuy    TradeAction = "buy"
	ActionSell   TradeAction = "sell"
	ActionRights TradeAction = "rights"
)

// ParseTradeAction converts a wire string into a TradeAction. Unknown
// actions are ErrInvalidOrder.
func ParseTradeAction(s string) (TradeAction, error) {
	switch TradeAction(s) {
	case ActionBuy, ActionSell, ActionRights:
		return TradeAction(s), nil
	}
	return "", fmt.Errorf("%w: unknown action %q", ErrInvalidOrder, s)
}

// TradeOrder is a single atomic trade request against a room.
type TradeOrder struct {
	PlayerID string
	Stock    string
	Action   TradeAction
	Quantity int64
}

// TradeNotification is the immutable record of an accepted order. It is
// appended to the room's bounded history and broadcast to all sessions;
// it is never mutated after creation.
type TradeNotification struct {
	ID         string
	PlayerName string
	Action     TradeAction
	Stock      string
	Quantity   int64
	Price      int64 // execution price in paise
	Timestamp  time.Time
}
