package engine

import (
	"fmt"
	"testing"

	"github.com/stockparty/stockparty/internal/domain"
)

func notif(i int) domain.TradeNotification {
	return domain.TradeNotification{
		ID:         fmt.Sprintf("n%d", i),
		PlayerName: "p",
		Action:     domain.ActionBuy,
		Stock:      "WOCKHARDT",
		Quantity:   int64(i),
		Price:      2000,
	}
}

func TestTradeHistoryAppendBelowCap(t *testing.T) {
	h := NewTradeHistory(50)
	for i := 0; i < 10; i++ {
		h.Append(notif(i))
	}
	if h.Len() != 10 {
		t.Fatalf("Len = %d, want 10", h.Len())
	}
	recent := h.Recent()
	if recent[0].ID != "n0" || recent[9].ID != "n9" {
		t.Errorf("order wrong: first=%s last=%s", recent[0].ID, recent[9].ID)
	}
}

func TestTradeHistoryEvictsOldest(t *testing.T) {
	h := NewTradeHistory(50)
	for i := 0; i < 75; i++ {
		h.Append(notif(i))
	}
	if h.Len() != 50 {
		t.Fatalf("Len = %d, want 50", h.Len())
	}
	recent := h.Recent()
	if recent[0].ID != "n25" {
		t.Errorf("oldest retained = %s, want n25", recent[0].ID)
	}
	if recent[49].ID != "n74" {
		t.Errorf("newest retained = %s, want n74", recent[49].ID)
	}
}

func TestTradeHistoryRecentIsACopy(t *testing.T) {
	h := NewTradeHistory(5)
	h.Append(notif(1))
	recent := h.Recent()
	recent[0].ID = "mutated"
	if h.Recent()[0].ID != "n1" {
		t.Error("mutating Recent() leaked into history")
	}
}
