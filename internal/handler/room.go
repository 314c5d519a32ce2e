package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/stockparty/stockparty/internal/domain"
	"github.com/stockparty/stockparty/internal/service"
	"github.com/stockparty/stockparty/internal/ws"
)

// RoomHandler handles HTTP requests for room endpoints.
type RoomHandler struct {
	svc *service.RoomService
}

// NewRoomHandler creates a new RoomHandler.
func NewRoomHandler(svc *service.RoomService) *RoomHandler {
	return &RoomHandler{svc: svc}
}

// createRoomRequest is the JSON request body for POST /rooms.
type createRoomRequest struct {
	Name string `json:"name"`
	Role string `json:"role"`
}

// joinRoomRequest is the JSON request body for POST /rooms/{code}/join.
// role is optional and defaults to player.
type joinRoomRequest struct {
	Name string `json:"name"`
	Role string `json:"role,omitempty"`
}

// roomResponse is the JSON response for room creation and join. The
// room field is the same payload sent in room-updated messages, so
// clients resync identically over REST and the socket.
type roomResponse struct {
	Room     ws.RoomPayload `json:"room"`
	PlayerID string         `json:"player_id"`
}

// Create handles POST /rooms.
func (h *RoomHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRoomRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	snap, banker, err := h.svc.CreateRoom(service.CreateRoomRequest{
		Name: req.Name,
		Role: req.Role,
	})
	if err != nil {
		mapRoomError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, roomResponse{
		Room:     ws.RoomPayloadFromSnapshot(snap),
		PlayerID: banker.ID,
	})
}

// Join handles POST /rooms/{code}/join.
func (h *RoomHandler) Join(w http.ResponseWriter, r *http.Request) {
	var req joinRoomRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	snap, player, err := h.svc.JoinRoom(service.JoinRoomRequest{
		Code: chi.URLParam(r, "code"),
		Name: req.Name,
		Role: req.Role,
	})
	if err != nil {
		mapRoomError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, roomResponse{
		Room:     ws.RoomPayloadFromSnapshot(snap),
		PlayerID: player.ID,
	})
}

// Get handles GET /rooms/{code}. Idempotent; used on reconnect to
// resync before rebinding the socket.
func (h *RoomHandler) Get(w http.ResponseWriter, r *http.Request) {
	snap, err := h.svc.GetRoom(chi.URLParam(r, "code"))
	if err != nil {
		mapRoomError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, ws.RoomPayloadFromSnapshot(snap))
}

// mapRoomError maps domain errors to HTTP responses.
func mapRoomError(w http.ResponseWriter, err error) {
	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		WriteError(w, http.StatusBadRequest, "validation_error", validationErr.Message)
		return
	}

	switch {
	case errors.Is(err, domain.ErrRoomNotFound):
		WriteError(w, http.StatusNotFound, "room_not_found", err.Error())
	case errors.Is(err, domain.ErrRoomFull):
		WriteError(w, http.StatusConflict, "room_full", err.Error())
	case errors.Is(err, domain.ErrRoleConflict):
		WriteError(w, http.StatusConflict, "role_conflict", err.Error())
	case errors.Is(err, domain.ErrInvalidOrder):
		WriteError(w, http.StatusBadRequest, "invalid_order", err.Error())
	case errors.Is(err, domain.ErrInsufficientFunds):
		WriteError(w, http.StatusUnprocessableEntity, "insufficient_funds", err.Error())
	case errors.Is(err, domain.ErrPoolExhausted):
		WriteError(w, http.StatusUnprocessableEntity, "pool_exhausted", err.Error())
	case errors.Is(err, domain.ErrExceedsSellCapacity):
		WriteError(w, http.StatusUnprocessableEntity, "exceeds_sell_capacity", err.Error())
	default:
		WriteError(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
	}
}
