package engine

import "github.com/stockparty/stockparty/internal/domain"

// TradeHistory keeps a room's most recent trade notifications, oldest
// evicted first. Dropping old entries is the load-shedding policy: it
// never fails. Serialization is provided by the owning room.
type TradeHistory struct {
	limit   int
	entries []domain.TradeNotification
}

// NewTradeHistory creates a history bounded at limit entries.
func NewTradeHistory(limit int) *TradeHistory {
	return &TradeHistory{
		limit:   limit,
		entries: make([]domain.TradeNotification, 0, limit),
	}
}

// Append records a notification, silently evicting the oldest entry
// once the cap is reached.
func (h *TradeHistory) Append(n domain.TradeNotification) {
	if len(h.entries) == h.limit {
		copy(h.entries, h.entries[1:])
		h.entries[len(h.entries)-1] = n
		return
	}
	h.entries = append(h.entries, n)
}

// Recent returns a copy of the history, oldest first.
func (h *TradeHistory) Recent() []domain.TradeNotification {
	out := make([]domain.TradeNotification, len(h.entries))
	copy(out, h.entries)
	return out
}

// Len returns the number of retained notifications.
func (h *TradeHistory) Len() int {
	return len(h.entries)
}
