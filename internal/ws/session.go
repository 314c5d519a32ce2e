package ws

import (
	"errors"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"

	"github.com/stockparty/stockparty/internal/domain"
	"github.com/stockparty/stockparty/internal/service"
)

const (
	sessionSendBuf = 256
	writeDeadline  = 5 * time.Second
	pongWait       = 30 * time.Second
	pingInterval   = 20 * time.Second
)

// Session is one connected client. roomCode and playerID are guarded
// by the hub's mutex; they are empty until a join-room message binds
// the session.
type Session struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
	done chan struct{}

	roomCode string
	playerID string
}

// writePump drains the session's send channel and writes to the
// connection. It owns the session lifecycle: on exit it removes the
// session from the hub (so broadcast never sends to a stale channel)
// and closes the connection.
func (s *Session) writePump() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		s.hub.removeSession(s)
		s.conn.Close()
	}()

	for {
		select {
		case msg := <-s.send:
			s.conn.SetWriteDeadline(time.Now().Add(writeDeadline))
			if err := s.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-s.done:
			return
		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(writeDeadline))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump decodes inbound envelopes and relays them to the room
// service. Rejections go back to this session only; accepted mutations
// reach every bound session through the engine's broadcast hook. On
// exit it signals writePump via s.done (never closes s.send).
func (s *Session) readPump() {
	defer close(s.done)

	s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		s.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			return
		}
		s.conn.SetReadDeadline(time.Now().Add(pongWait))

		in, err := DecodeInbound(data)
		if err != nil {
			s.sendError("invalid_message", err.Error())
			continue
		}
		s.dispatch(in)
	}
}

func (s *Session) dispatch(in Inbound) {
	switch in.Type {
	case TypeJoinRoom:
		snap, err := s.hub.commands.GetRoom(in.Join.RoomCode)
		if err != nil {
			s.sendError(errorCode(err), err.Error())
			return
		}
		s.hub.bind(s, snap.Code, in.Join.PlayerID)
		s.hub.logger.Info("session bound",
			slog.String("room", snap.Code),
			slog.String("player_id", in.Join.PlayerID),
		)
		// Resync the joining session immediately.
		msg, err := MarshalEnvelope(TypeRoomUpdated, RoomPayloadFromSnapshot(snap))
		if err != nil {
			return
		}
		s.enqueue(msg)

	case TypeTrade:
		_, err := s.hub.commands.SubmitTrade(service.TradeRequest{
			Code:     in.Trade.RoomCode,
			PlayerID: in.Trade.PlayerID,
			Stock:    in.Trade.Stock,
			Action:   in.Trade.Action,
			Quantity: in.Trade.Quantity,
		})
		if err != nil {
			s.sendError(errorCode(err), err.Error())
		}

	case TypePriceChange:
		_, err := s.hub.commands.ChangePrice(service.PriceChangeRequest{
			Code:     in.PriceChange.RoomCode,
			PlayerID: in.PriceChange.PlayerID,
			Stock:    in.PriceChange.Stock,
			Delta:    in.PriceChange.Delta,
		})
		if err != nil {
			s.sendError(errorCode(err), err.Error())
		}
	}
}

// sendError delivers an error envelope to this session only.
func (s *Session) sendError(code, message string) {
	msg, err := MarshalEnvelope(TypeError, ErrorPayload{Code: code, Message: message})
	if err != nil {
		return
	}
	s.enqueue(msg)
}

func (s *Session) enqueue(msg []byte) {
	select {
	case s.send <- msg:
	default:
	}
}

// errorCode maps domain errors to stable wire error codes.
func errorCode(err error) string {
	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		return "validation_error"
	}

	switch {
	case errors.Is(err, domain.ErrInsufficientFunds):
		return "insufficient_funds"
	case errors.Is(err, domain.ErrPoolExhausted):
		return "pool_exhausted"
	case errors.Is(err, domain.ErrExceedsSellCapacity):
		return "exceeds_sell_capacity"
	case errors.Is(err, domain.ErrRoomNotFound):
		return "room_not_found"
	case errors.Is(err, domain.ErrRoomFull):
		return "room_full"
	case errors.Is(err, domain.ErrRoleConflict):
		return "role_conflict"
	case errors.Is(err, domain.ErrInvalidOrder):
		return "invalid_order"
	default:
		return "internal_error"
	}
}
