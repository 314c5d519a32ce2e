package ws

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/stockparty/stockparty/internal/domain"
	"github.com/stockparty/stockparty/internal/engine"
)

// Message types carried in envelopes over the room channel.
const (
	TypeJoinRoom          = "join-room"
	TypeTrade             = "trade"
	TypePriceChange       = "price-change"
	TypeRoomUpdated       = "room-updated"
	TypeTradeNotification = "trade-notification"
	TypeError             = "error"
)

// Envelope is the wire format for all messages on the room channel.
type Envelope struct {
	Type      string          `json:"type"`
	Timestamp time.Time       `json:"ts"`
	Payload   json.RawMessage `json:"payload"`
}

// JoinRoomPayload binds a session to a room and player.
type JoinRoomPayload struct {
	RoomCode string `json:"room_code"`
	PlayerID string `json:"player_id"`
}

// TradePayload is an inbound trade order.
type TradePayload struct {
	RoomCode string `json:"room_code"`
	PlayerID string `json:"player_id"`
	Stock    string `json:"stock"`
	Action   string `json:"action"`
	Quantity int64  `json:"quantity"`
}

// PriceChangePayload is an inbound banker price command. Delta is in
// rupees and may be fractional.
type PriceChangePayload struct {
	RoomCode string  `json:"room_code"`
	PlayerID string  `json:"player_id"`
	Stock    string  `json:"stock"`
	Delta    float64 `json:"delta"`
}

// ErrorPayload is sent only to the session whose request was rejected.
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Inbound is a decoded client message; exactly one payload field is
// set, per Type.
type Inbound struct {
	Type        string
	Join        JoinRoomPayload
	Trade       TradePayload
	PriceChange PriceChangePayload
}

// DecodeInbound deserializes a JSON envelope from a client into a
// typed Inbound message.
func DecodeInbound(data []byte) (Inbound, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return Inbound{}, fmt.Errorf("unmarshal envelope: %w", err)
	}

	in := Inbound{Type: env.Type}
	switch env.Type {
	case TypeJoinRoom:
		if err := json.Unmarshal(env.Payload, &in.Join); err != nil {
			return Inbound{}, fmt.Errorf("unmarshal join-room: %w", err)
		}
	case TypeTrade:
		if err := json.Unmarshal(env.Payload, &in.Trade); err != nil {
			return Inbound{}, fmt.Errorf("unmarshal trade: %w", err)
		}
	case TypePriceChange:
		if err := json.Unmarshal(env.Payload, &in.PriceChange); err != nil {
			return Inbound{}, fmt.Errorf("unmarshal price-change: %w", err)
		}
	default:
		return Inbound{}, fmt.Errorf("unknown message type: %s", env.Type)
	}
	return in, nil
}

// MarshalEnvelope serializes a payload into a JSON envelope of the
// given type, stamped with the current time.
func MarshalEnvelope(msgType string, payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}
	return json.Marshal(Envelope{
		Type:      msgType,
		Timestamp: time.Now().UTC(),
		Payload:   raw,
	})
}

// StockPayload is one instrument row in the room wire view. Prices are
// rupees on the wire, paise internally.
type StockPayload struct {
	Name            string  `json:"name"`
	Price           float64 `json:"price"`
	SharesAvailable int64   `json:"shares_available"`
}

// PlayerPayload is one player row in the room wire view.
type PlayerPayload struct {
	PlayerID string           `json:"player_id"`
	Name     string           `json:"name"`
	Role     string           `json:"role"`
	Cash     float64          `json:"cash"`
	NetWorth float64          `json:"net_worth"`
	Holdings map[string]int64 `json:"holdings"`
}

// LeaderboardRowPayload is one ranked row in the room wire view.
type LeaderboardRowPayload struct {
	Rank     int     `json:"rank"`
	PlayerID string  `json:"player_id"`
	Name     string  `json:"name"`
	NetWorth float64 `json:"net_worth"`
}

// NotificationPayload is the wire form of a trade notification.
type NotificationPayload struct {
	ID         string    `json:"id"`
	PlayerName string    `json:"player_name"`
	Action     string    `json:"action"`
	Stock      string    `json:"stock"`
	Quantity   int64     `json:"quantity"`
	Price      float64   `json:"price"`
	Timestamp  time.Time `json:"ts"`
}

// RoomPayload is the full room snapshot as sent in room-updated
// messages and REST responses, so resync over either path yields the
// same view.
type RoomPayload struct {
	Code         string                  `json:"code"`
	State        string                  `json:"state"`
	Stocks       []StockPayload          `json:"stocks"`
	Players      []PlayerPayload         `json:"players"`
	Leaderboard  []LeaderboardRowPayload `json:"leaderboard"`
	RecentTrades []NotificationPayload   `json:"recent_trades"`
	AsOf         time.Time               `json:"as_of"`
}

// RoomPayloadFromSnapshot converts an engine snapshot to its wire form.
func RoomPayloadFromSnapshot(s engine.Snapshot) RoomPayload {
	stocks := make([]StockPayload, len(s.Stocks))
	for i, st := range s.Stocks {
		stocks[i] = StockPayload{
			Name:            st.Name,
			Price:           domain.PaiseToRupees(st.Price),
			SharesAvailable: st.SharesAvailable,
		}
	}

	players := make([]PlayerPayload, len(s.Players))
	for i, p := range s.Players {
		players[i] = PlayerPayload{
			PlayerID: p.PlayerID,
			Name:     p.Name,
			Role:     string(p.Role),
			Cash:     domain.PaiseToRupees(p.Cash),
			NetWorth: domain.PaiseToRupees(p.NetWorth),
			Holdings: p.Holdings,
		}
	}

	leaderboard := make([]LeaderboardRowPayload, len(s.Leaderboard))
	for i, e := range s.Leaderboard {
		leaderboard[i] = LeaderboardRowPayload{
			Rank:     e.Rank,
			PlayerID: e.PlayerID,
			Name:     e.Name,
			NetWorth: domain.PaiseToRupees(e.NetWorth),
		}
	}

	trades := make([]NotificationPayload, len(s.RecentTrades))
	for i, n := range s.RecentTrades {
		trades[i] = NotificationPayloadFrom(n)
	}

	return RoomPayload{
		Code:         s.Code,
		State:        string(s.State),
		Stocks:       stocks,
		Players:      players,
		Leaderboard:  leaderboard,
		RecentTrades: trades,
		AsOf:         s.AsOf,
	}
}

// NotificationPayloadFrom converts a trade notification to its wire form.
func NotificationPayloadFrom(n domain.TradeNotification) NotificationPayload {
	return NotificationPayload{
		ID:         n.ID,
		PlayerName: n.PlayerName,
		Action:     string(n.Action),
		Stock:      n.Stock,
		Quantity:   n.Quantity,
		Price:      domain.PaiseToRupees(n.Price),
		Timestamp:  n.Timestamp,
	}
}
