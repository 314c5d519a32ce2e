package ws

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stockparty/stockparty/internal/domain"
	"github.com/stockparty/stockparty/internal/engine"
)

func TestDecodeInbound(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
		check   func(t *testing.T, in Inbound)
	}{
		{
			name: "join-room",
			raw:  `{"type":"join-room","payload":{"room_code":"123456","player_id":"p1"}}`,
			check: func(t *testing.T, in Inbound) {
				if in.Join.RoomCode != "123456" || in.Join.PlayerID != "p1" {
					t.Errorf("join = %+v", in.Join)
				}
			},
		},
		{
			name: "trade",
			raw:  `{"type":"trade","payload":{"room_code":"123456","player_id":"p1","stock":"HDFC","action":"buy","quantity":500}}`,
			check: func(t *testing.T, in Inbound) {
				if in.Trade.Stock != "HDFC" || in.Trade.Action != "buy" || in.Trade.Quantity != 500 {
					t.Errorf("trade = %+v", in.Trade)
				}
			},
		},
		{
			name: "price-change with fractional delta",
			raw:  `{"type":"price-change","payload":{"room_code":"123456","player_id":"p1","stock":"TISCO","delta":-0.5}}`,
			check: func(t *testing.T, in Inbound) {
				if in.PriceChange.Stock != "TISCO" || in.PriceChange.Delta != -0.5 {
					t.Errorf("price-change = %+v", in.PriceChange)
				}
			},
		},
		{"unknown type", `{"type":"room-updated","payload":{}}`, true, nil},
		{"malformed json", `{"type":`, true, nil},
		{"payload type mismatch", `{"type":"trade","payload":{"quantity":"many"}}`, true, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in, err := DecodeInbound([]byte(tt.raw))
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error, got %+v", in)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			tt.check(t, in)
		})
	}
}

func TestMarshalEnvelope(t *testing.T) {
	msg, err := MarshalEnvelope(TypeError, ErrorPayload{Code: "room_full", Message: "room is full"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var env Envelope
	if err := json.Unmarshal(msg, &env); err != nil {
		t.Fatalf("envelope not valid JSON: %v", err)
	}
	if env.Type != TypeError {
		t.Errorf("type = %q", env.Type)
	}
	if env.Timestamp.IsZero() {
		t.Error("timestamp not stamped")
	}

	var p ErrorPayload
	if err := json.Unmarshal(env.Payload, &p); err != nil {
		t.Fatalf("payload not valid JSON: %v", err)
	}
	if p.Code != "room_full" {
		t.Errorf("code = %q", p.Code)
	}
}

// The wire view converts paise to rupees everywhere a price or balance
// appears.
func TestRoomPayloadFromSnapshot(t *testing.T) {
	snap := engine.Snapshot{
		Code:  "123456",
		State: engine.RoomOpen,
		Stocks: []engine.StockSnapshot{
			{Name: "WOCKHARDT", Price: 2050, SharesAvailable: 199_000},
		},
		Players: []engine.PlayerSnapshot{
			{
				PlayerID: "p1", Name: "Bo", Role: domain.RolePlayer,
				Cash: 98_000_000, NetWorth: 100_050_000,
				Holdings: map[string]int64{"WOCKHARDT": 1000},
			},
		},
		Leaderboard: []engine.LeaderboardEntry{
			{Rank: 1, PlayerID: "p1", Name: "Bo", NetWorth: 100_050_000},
		},
		RecentTrades: []domain.TradeNotification{
			{ID: "n1", PlayerName: "Bo", Action: domain.ActionBuy, Stock: "WOCKHARDT",
				Quantity: 1000, Price: 2000, Timestamp: time.Now()},
		},
		AsOf: time.Now(),
	}

	p := RoomPayloadFromSnapshot(snap)
	if p.Stocks[0].Price != 20.50 {
		t.Errorf("stock price = %v, want 20.50", p.Stocks[0].Price)
	}
	if p.Players[0].Cash != 980_000 {
		t.Errorf("cash = %v, want 980000", p.Players[0].Cash)
	}
	if p.Players[0].NetWorth != 1_000_500 {
		t.Errorf("net worth = %v, want 1000500", p.Players[0].NetWorth)
	}
	if p.Leaderboard[0].NetWorth != 1_000_500 {
		t.Errorf("leaderboard net worth = %v", p.Leaderboard[0].NetWorth)
	}
	if p.RecentTrades[0].Price != 20 {
		t.Errorf("trade price = %v, want 20", p.RecentTrades[0].Price)
	}
	if p.State != "open" {
		t.Errorf("state = %q", p.State)
	}
}
