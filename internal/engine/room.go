package engine

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/stockparty/stockparty/internal/domain"
)

// RoomState is the room's lifecycle state. Rooms never close; a full
// room still accepts trades, only joins are rejected.
type RoomState string

const (
	RoomOpen RoomState = "open"
	RoomFull RoomState = "full"
)

// Broadcaster receives room events in the exact order they were
// applied. Implementations must only enqueue: both methods are called
// while the room's write lock is held.
type Broadcaster interface {
	RoomUpdated(code string, snap Snapshot)
	TradeExecuted(code string, n domain.TradeNotification)
}

// StockSnapshot is one instrument's row in a room snapshot.
type StockSnapshot struct {
	Name            string
	Price           int64 // paise
	SharesAvailable int64
}

// PlayerSnapshot is one player's row in a room snapshot.
type PlayerSnapshot struct {
	PlayerID string
	Name     string
	Role     domain.Role
	Cash     int64 // paise
	NetWorth int64 // paise
	Holdings map[string]int64
}

// Snapshot is an internally consistent view of a room: it always
// reflects a prefix of the applied mutation sequence, never a
// partially applied order.
type Snapshot struct {
	Code         string
	State        RoomState
	Stocks       []StockSnapshot
	Players      []PlayerSnapshot
	Leaderboard  []LeaderboardEntry
	RecentTrades []domain.TradeNotification
	AsOf         time.Time
}

// Room is the authoritative aggregate for one game session. All
// mutations (join, trade, price change) are serialized by its write
// lock; snapshot reads run concurrently under the read lock. Rooms are
// fully independent of one another.
type Room struct {
	code string

	mu       sync.RWMutex
	ledger   *domain.StockLedger
	players  []*domain.Player // join order; players[0] is the banker
	history  *TradeHistory
	netWorth map[string]int64 // player id → paise, refreshed eagerly

	broadcaster Broadcaster
	createdAt   time.Time
}

// NewRoom creates a room with its banker, a fresh ledger, and an empty
// bounded history. The banker role is assigned here and is immutable
// for the life of the room.
func NewRoom(code, bankerName string, historyLimit int, b Broadcaster) *Room {
	banker := &domain.Player{
		ID:        uuid.New().String(),
		Name:      bankerName,
		Role:      domain.RoleBanker,
		Portfolio: domain.NewPortfolio(domain.StartingCash),
		JoinedAt:  time.Now(),
	}
	return &Room{
		code:        code,
		ledger:      domain.NewStockLedger(),
		players:     []*domain.Player{banker},
		history:     NewTradeHistory(historyLimit),
		netWorth:    map[string]int64{banker.ID: domain.StartingCash},
		broadcaster: b,
		createdAt:   banker.JoinedAt,
	}
}

// Code returns the room's join code.
func (r *Room) Code() string {
	return r.code
}

// Banker returns the room's banker.
func (r *Room) Banker() *domain.Player {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.players[0]
}

// Player returns the player with the given id, if present.
func (r *Room) Player(id string) (*domain.Player, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.findPlayer(id)
}

func (r *Room) findPlayer(id string) (*domain.Player, bool) {
	for _, p := range r.players {
		if p.ID == id {
			return p, true
		}
	}
	return nil, false
}

// Join adds a player to the room. It returns ErrRoomFull at capacity.
// New joins always get the player role; the banker was fixed at
// creation.
func (r *Room) Join(name string) (*domain.Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.players) >= domain.MaxPlayers {
		return nil, fmt.Errorf("%w: room %s has %d players", domain.ErrRoomFull, r.code, len(r.players))
	}

	p := &domain.Player{
		ID:        uuid.New().String(),
		Name:      name,
		Role:      domain.RolePlayer,
		Portfolio: domain.NewPortfolio(domain.StartingCash),
		JoinedAt:  time.Now(),
	}
	r.players = append(r.players, p)
	r.netWorth[p.ID] = domain.StartingCash

	r.broadcastUpdateLocked()
	return p, nil
}

// SubmitTrade validates the order against current authoritative state
// and, on acceptance, applies its effect atomically: cash, holding, and
// pool all move before the lock is released, and the trading player's
// net worth is recomputed. The resulting notification is appended to
// the bounded history and broadcast after the snapshot update.
//
// A rejection has no side effect: the room snapshot is identical to the
// pre-order snapshot.
func (r *Room) SubmitTrade(order domain.TradeOrder) (domain.TradeNotification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	player, ok := r.findPlayer(order.PlayerID)
	if !ok {
		return domain.TradeNotification{}, fmt.Errorf("%w: unknown player %q",
			domain.ErrInvalidOrder, order.PlayerID)
	}
	if player.Role == domain.RoleBanker {
		return domain.TradeNotification{}, fmt.Errorf("%w: the banker does not trade",
			domain.ErrRoleConflict)
	}

	effect, err := Validate(r.ledger, player.Portfolio, order)
	if err != nil {
		return domain.TradeNotification{}, err
	}

	r.apply(player, effect)

	n := domain.TradeNotification{
		ID:         uuid.New().String(),
		PlayerName: player.Name,
		Action:     effect.Action,
		Stock:      effect.Stock,
		Quantity:   effect.Quantity,
		Price:      effect.Price,
		Timestamp:  time.Now(),
	}
	r.history.Append(n)

	r.broadcastUpdateLocked()
	if r.broadcaster != nil {
		r.broadcaster.TradeExecuted(r.code, n)
	}
	return n, nil
}

// apply mutates ledger and portfolio per a validated effect. The
// validator already proved every step succeeds, so failures here are
// programming errors.
func (r *Room) apply(player *domain.Player, effect TradeEffect) {
	if effect.CashDelta < 0 {
		if err := player.Portfolio.Debit(-effect.CashDelta); err != nil {
			panic(fmt.Sprintf("validated debit failed: %v", err))
		}
	} else if effect.CashDelta > 0 {
		player.Portfolio.Credit(effect.CashDelta)
	}

	player.Portfolio.AdjustHolding(effect.Stock, effect.HoldingDelta)

	if effect.ReserveQty > 0 {
		if err := r.ledger.Reserve(effect.Stock, effect.ReserveQty); err != nil {
			panic(fmt.Sprintf("validated reserve failed: %v", err))
		}
	}
	if effect.ReleaseQty > 0 {
		r.ledger.Release(effect.Stock, effect.ReleaseQty)
	}

	// Only the trading player's net worth moved: prices shift solely
	// through banker commands.
	r.netWorth[player.ID] = player.Portfolio.NetWorth(r.ledger)
}

// ChangePrice applies a banker price command: the price moves by delta
// paise, clamped at the floor, and every player's net worth is
// recomputed eagerly since the move revalues all holdings. Returns the
// new price.
func (r *Room) ChangePrice(playerID, stock string, delta int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	player, ok := r.findPlayer(playerID)
	if !ok {
		return 0, fmt.Errorf("%w: unknown player %q", domain.ErrInvalidOrder, playerID)
	}
	if player.Role != domain.RoleBanker {
		return 0, fmt.Errorf("%w: only the banker changes prices", domain.ErrRoleConflict)
	}
	if !domain.InCatalog(stock) {
		return 0, fmt.Errorf("%w: unknown instrument %q", domain.ErrInvalidOrder, stock)
	}

	newPrice := r.ledger.ApplyPriceChange(stock, delta)
	for _, p := range r.players {
		r.netWorth[p.ID] = p.Portfolio.NetWorth(r.ledger)
	}

	r.broadcastUpdateLocked()
	return newPrice, nil
}

// Snapshot returns a consistent copy of the room state.
func (r *Room) Snapshot() Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snapshotLocked()
}

func (r *Room) snapshotLocked() Snapshot {
	state := RoomOpen
	if len(r.players) >= domain.MaxPlayers {
		state = RoomFull
	}

	stocks := make([]StockSnapshot, 0, len(domain.Catalog))
	for _, inst := range domain.Catalog {
		stocks = append(stocks, StockSnapshot{
			Name:            inst.Name,
			Price:           r.ledger.Price(inst.Name),
			SharesAvailable: r.ledger.Available(inst.Name),
		})
	}

	players := make([]PlayerSnapshot, 0, len(r.players))
	for _, p := range r.players {
		players = append(players, PlayerSnapshot{
			PlayerID: p.ID,
			Name:     p.Name,
			Role:     p.Role,
			Cash:     p.Portfolio.Cash(),
			NetWorth: r.netWorth[p.ID],
			Holdings: p.Portfolio.Holdings(),
		})
	}

	return Snapshot{
		Code:         r.code,
		State:        state,
		Stocks:       stocks,
		Players:      players,
		Leaderboard:  rankPlayers(r.players, r.netWorth),
		RecentTrades: r.history.Recent(),
		AsOf:         time.Now(),
	}
}

// broadcastUpdateLocked pushes the post-mutation snapshot while the
// write lock is still held, so sessions observe updates in applied
// order.
func (r *Room) broadcastUpdateLocked() {
	if r.broadcaster == nil {
		return
	}
	r.broadcaster.RoomUpdated(r.code, r.snapshotLocked())
}
