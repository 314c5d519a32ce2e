package service

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/stockparty/stockparty/internal/domain"
	"github.com/stockparty/stockparty/internal/engine"
	"github.com/stockparty/stockparty/internal/store"
)

var (
	playerNameRegex = regexp.MustCompile(`^[a-zA-Z0-9 ._-]{1,32}$`)
	roomCodeRegex   = regexp.MustCompile(`^[0-9]{6}$`)
)

// maxPriceDelta caps a single banker price move, in rupees. The board
// moves prices in small steps; this also keeps the rupee→paise
// conversion inside int64 range.
const maxPriceDelta = 10.0

// CreateRoomRequest represents the input for room creation.
type CreateRoomRequest struct {
	Name string
	Role string
}

// JoinRoomRequest represents the input for joining a room. Role is
// optional and defaults to player; a banker join attempt is a role
// conflict since the banker is fixed at creation.
type JoinRoomRequest struct {
	Code string
	Name string
	Role string
}

// TradeRequest represents the input for a trade submission.
type TradeRequest struct {
	Code     string
	PlayerID string
	Stock    string
	Action   string
	Quantity int64
}

// PriceChangeRequest represents the input for a banker price command.
// Delta is in rupees and may be fractional in half-rupee steps.
type PriceChangeRequest struct {
	Code     string
	PlayerID string
	Stock    string
	Delta    float64
}

// RoomService validates requests and orchestrates the room registry
// and per-room engines. All authoritative checks happen inside the
// room under its serialization; this layer only normalizes and
// pre-validates shapes.
type RoomService struct {
	registry     *store.RoomRegistry
	historyLimit int
	broadcaster  engine.Broadcaster
}

// NewRoomService creates a new RoomService.
func NewRoomService(registry *store.RoomRegistry, historyLimit int, b engine.Broadcaster) *RoomService {
	return &RoomService{
		registry:     registry,
		historyLimit: historyLimit,
		broadcaster:  b,
	}
}

// CreateRoom validates the request and creates a room with its banker.
// Only a banker can create a room.
func (s *RoomService) CreateRoom(req CreateRoomRequest) (engine.Snapshot, *domain.Player, error) {
	if !playerNameRegex.MatchString(req.Name) {
		return engine.Snapshot{}, nil, &domain.ValidationError{
			Message: "name must match ^[a-zA-Z0-9 ._-]{1,32}$",
		}
	}
	if req.Role != string(domain.RoleBanker) {
		return engine.Snapshot{}, nil, &domain.ValidationError{
			Message: "rooms are created by the banker; role must be \"banker\"",
		}
	}

	room, err := s.registry.Create(req.Name, s.historyLimit, s.broadcaster)
	if err != nil {
		return engine.Snapshot{}, nil, err
	}
	return room.Snapshot(), room.Banker(), nil
}

// JoinRoom validates the request and adds a player to an existing room.
func (s *RoomService) JoinRoom(req JoinRoomRequest) (engine.Snapshot, *domain.Player, error) {
	code, err := normalizeCode(req.Code)
	if err != nil {
		return engine.Snapshot{}, nil, err
	}
	if !playerNameRegex.MatchString(req.Name) {
		return engine.Snapshot{}, nil, &domain.ValidationError{
			Message: "name must match ^[a-zA-Z0-9 ._-]{1,32}$",
		}
	}
	if req.Role == string(domain.RoleBanker) {
		return engine.Snapshot{}, nil, fmt.Errorf("%w: the banker was assigned at room creation",
			domain.ErrRoleConflict)
	}
	if req.Role != "" && req.Role != string(domain.RolePlayer) {
		return engine.Snapshot{}, nil, &domain.ValidationError{
			Message: fmt.Sprintf("unknown role %q", req.Role),
		}
	}

	room, err := s.registry.Get(code)
	if err != nil {
		return engine.Snapshot{}, nil, err
	}
	player, err := room.Join(req.Name)
	if err != nil {
		return engine.Snapshot{}, nil, err
	}
	return room.Snapshot(), player, nil
}

// GetRoom returns a consistent snapshot of the room, used by clients
// to resync on reconnect.
func (s *RoomService) GetRoom(code string) (engine.Snapshot, error) {
	normalized, err := normalizeCode(code)
	if err != nil {
		return engine.Snapshot{}, err
	}
	room, err := s.registry.Get(normalized)
	if err != nil {
		return engine.Snapshot{}, err
	}
	return room.Snapshot(), nil
}

// SubmitTrade parses and forwards a trade order to its room. The room
// re-validates against authoritative state regardless of anything the
// client precomputed.
func (s *RoomService) SubmitTrade(req TradeRequest) (domain.TradeNotification, error) {
	code, err := normalizeCode(req.Code)
	if err != nil {
		return domain.TradeNotification{}, err
	}
	action, err := domain.ParseTradeAction(req.Action)
	if err != nil {
		return domain.TradeNotification{}, err
	}

	room, err := s.registry.Get(code)
	if err != nil {
		return domain.TradeNotification{}, err
	}
	return room.SubmitTrade(domain.TradeOrder{
		PlayerID: req.PlayerID,
		Stock:    req.Stock,
		Action:   action,
		Quantity: req.Quantity,
	})
}

// ChangePrice forwards a banker price command to its room. Returns the
// new price in paise.
func (s *RoomService) ChangePrice(req PriceChangeRequest) (int64, error) {
	code, err := normalizeCode(req.Code)
	if err != nil {
		return 0, err
	}
	if req.Delta == 0 {
		return 0, &domain.ValidationError{Message: "delta must be non-zero"}
	}
	if req.Delta < -maxPriceDelta || req.Delta > maxPriceDelta {
		return 0, &domain.ValidationError{
			Message: fmt.Sprintf("delta must be between -%v and %v rupees", maxPriceDelta, maxPriceDelta),
		}
	}
	deltaPaise, err := domain.RupeesToPaise(req.Delta)
	if err != nil {
		return 0, &domain.ValidationError{Message: "delta must have at most 2 decimal places"}
	}

	room, err := s.registry.Get(code)
	if err != nil {
		return 0, err
	}
	return room.ChangePrice(req.PlayerID, req.Stock, deltaPaise)
}

// normalizeCode uppercases and validates a room code.
func normalizeCode(code string) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if !roomCodeRegex.MatchString(code) {
		return "", &domain.ValidationError{
			Message: "room code must be exactly 6 digits",
		}
	}
	return code, nil
}
