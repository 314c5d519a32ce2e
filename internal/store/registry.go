package store

import (
	"crypto/rand"
	"fmt"
	"sync"

	"github.com/stockparty/stockparty/internal/domain"
	"github.com/stockparty/stockparty/internal/engine"
)

// codeLength is the fixed room code length. Codes are digits only in
// the current format; lookups case-normalize so alphanumeric codes
// could be adopted later without changing callers.
const codeLength = 6

// RoomRegistry is a thread-safe registry of live rooms keyed by room
// code. Its lock guards only the code→room map; mutations on a room go
// through the room's own serialization, so rooms stay fully
// independent of one another.
type RoomRegistry struct {
	mu    sync.RWMutex
	rooms map[string]*engine.Room
}

// NewRoomRegistry creates an empty RoomRegistry.
func NewRoomRegistry() *RoomRegistry {
	return &RoomRegistry{
		rooms: make(map[string]*engine.Room),
	}
}

// Create generates a fresh unique code, builds the room with its
// banker, and registers it.
func (s *RoomRegistry) Create(bankerName string, historyLimit int, b engine.Broadcaster) (*engine.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	code, err := s.freshCodeLocked()
	if err != nil {
		return nil, err
	}
	room := engine.NewRoom(code, bankerName, historyLimit, b)
	s.rooms[code] = room
	return room, nil
}

// Get retrieves a room by code. It returns domain.ErrRoomNotFound if
// the code is unknown.
func (s *RoomRegistry) Get(code string) (*engine.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	room, ok := s.rooms[code]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrRoomNotFound, code)
	}
	return room, nil
}

// Count returns the number of live rooms.
func (s *RoomRegistry) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rooms)
}

// freshCodeLocked draws random codes until one is unused. The code
// space is 10^6; collisions are retried a bounded number of times so a
// near-full registry fails loudly instead of spinning.
func (s *RoomRegistry) freshCodeLocked() (string, error) {
	const maxAttempts = 1000
	for i := 0; i < maxAttempts; i++ {
		code, err := randomCode()
		if err != nil {
			return "", err
		}
		if _, taken := s.rooms[code]; !taken {
			return code, nil
		}
	}
	return "", fmt.Errorf("room code space exhausted after %d attempts", maxAttempts)
}

// randomCode returns codeLength random decimal digits.
func randomCode() (string, error) {
	buf := make([]byte, codeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate room code: %w", err)
	}
	digits := make([]byte, codeLength)
	for i, b := range buf {
		digits[i] = '0' + b%10
	}
	return string(digits), nil
}
