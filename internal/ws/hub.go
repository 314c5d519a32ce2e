package ws

import (
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/stockparty/stockparty/internal/domain"
	"github.com/stockparty/stockparty/internal/engine"
	"github.com/stockparty/stockparty/internal/service"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(_ *http.Request) bool { return true },
}

// Commands is the slice of the room service the hub relays inbound
// messages to.
type Commands interface {
	GetRoom(code string) (engine.Snapshot, error)
	SubmitTrade(req service.TradeRequest) (domain.TradeNotification, error)
	ChangePrice(req service.PriceChangeRequest) (int64, error)
}

// Hub fans room events out to connected sessions and relays inbound
// commands to the room service. It implements engine.Broadcaster: the
// rooms call RoomUpdated/TradeExecuted while holding their write lock,
// so both methods only enqueue to per-session buffered channels,
// preserving applied order without blocking the engine.
type Hub struct {
	logger   *slog.Logger
	commands Commands

	mu       sync.Mutex
	sessions map[*Session]struct{}
}

// NewHub creates a Hub with no bound sessions. Commands are attached
// separately because the room service itself needs the hub as its
// broadcaster.
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		logger:   logger,
		sessions: make(map[*Session]struct{}),
	}
}

// SetCommands attaches the room service. Must be called before the
// first connection is accepted.
func (h *Hub) SetCommands(c Commands) {
	h.commands = c
}

// RoomUpdated broadcasts the post-mutation snapshot to every session
// bound to the room.
func (h *Hub) RoomUpdated(code string, snap engine.Snapshot) {
	msg, err := MarshalEnvelope(TypeRoomUpdated, RoomPayloadFromSnapshot(snap))
	if err != nil {
		h.logger.Warn("marshal room-updated", slog.String("error", err.Error()))
		return
	}
	h.broadcast(code, msg)
}

// TradeExecuted broadcasts an accepted trade to every session bound to
// the room.
func (h *Hub) TradeExecuted(code string, n domain.TradeNotification) {
	msg, err := MarshalEnvelope(TypeTradeNotification, NotificationPayloadFrom(n))
	if err != nil {
		h.logger.Warn("marshal trade-notification", slog.String("error", err.Error()))
		return
	}
	h.broadcast(code, msg)
}

// broadcast enqueues a message to all sessions bound to the room,
// non-blocking: a slow session drops the message rather than stalling
// the caller, which may be inside a room's serialized section.
func (h *Hub) broadcast(code string, msg []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for s := range h.sessions {
		if s.roomCode != code {
			continue
		}
		select {
		case s.send <- msg:
		default:
			h.logger.Warn("dropping message for slow session",
				slog.String("room", code),
				slog.String("player_id", s.playerID),
			)
		}
	}
}

// HandleWS is the HTTP handler for WebSocket upgrade requests. The
// session belongs to no room until it sends join-room.
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", slog.String("error", err.Error()))
		return
	}

	s := &Session{
		hub:  h,
		conn: conn,
		send: make(chan []byte, sessionSendBuf),
		done: make(chan struct{}),
	}

	h.mu.Lock()
	h.sessions[s] = struct{}{}
	h.mu.Unlock()

	h.logger.Info("session connected", slog.String("remote", conn.RemoteAddr().String()))

	go s.writePump()
	go s.readPump()
}

// bind associates a session with a room and player after a join-room
// message. Rebinding is allowed: a reconnecting client joins again.
func (h *Hub) bind(s *Session, roomCode, playerID string) {
	h.mu.Lock()
	s.roomCode = roomCode
	s.playerID = playerID
	h.mu.Unlock()
}

// removeSession drops the binding so no further events are delivered.
// The player's room membership is untouched; they can rejoin. The
// binding fields are read under the mutex: a join-room rebind on the
// read pump can race the write pump's deferred removal.
func (h *Hub) removeSession(s *Session) {
	h.mu.Lock()
	delete(h.sessions, s)
	roomCode, playerID := s.roomCode, s.playerID
	h.mu.Unlock()
	h.logger.Info("session disconnected",
		slog.String("room", roomCode),
		slog.String("player_id", playerID),
	)
}

// SessionCount returns the number of connected sessions.
func (h *Hub) SessionCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.sessions)
}

// CloseAll closes every connected session. Used during shutdown, since
// hijacked connections are not drained by http.Server.Shutdown.
func (h *Hub) CloseAll() {
	h.mu.Lock()
	sessions := make([]*Session, 0, len(h.sessions))
	for s := range h.sessions {
		sessions = append(sessions, s)
	}
	h.sessions = make(map[*Session]struct{})
	h.mu.Unlock()

	for _, s := range sessions {
		s.conn.Close()
	}
}
