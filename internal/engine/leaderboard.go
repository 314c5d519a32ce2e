package engine

import (
	"github.com/google/btree"

	"github.com/stockparty/stockparty/internal/domain"
)

// LeaderboardEntry is one ranked row in a room snapshot.
type LeaderboardEntry struct {
	Rank     int
	PlayerID string
	Name     string
	NetWorth int64 // paise
}

// leaderboardLess orders entries by net worth descending, then name
// ascending, then player id ascending, so iteration from Min() walks
// the ranking top-down deterministically.
func leaderboardLess(a, b LeaderboardEntry) bool {
	if a.NetWorth != b.NetWorth {
		return a.NetWorth > b.NetWorth
	}
	if a.Name != b.Name {
		return a.Name < b.Name
	}
	return a.PlayerID < b.PlayerID
}

// rankPlayers builds the leaderboard for a set of players using their
// already-computed net worths.
func rankPlayers(players []*domain.Player, netWorth map[string]int64) []LeaderboardEntry {
	const degree = 4
	tree := btree.NewG[LeaderboardEntry](degree, leaderboardLess)
	for _, p := range players {
		tree.ReplaceOrInsert(LeaderboardEntry{
			PlayerID: p.ID,
			Name:     p.Name,
			NetWorth: netWorth[p.ID],
		})
	}

	out := make([]LeaderboardEntry, 0, tree.Len())
	tree.Ascend(func(e LeaderboardEntry) bool {
		e.Rank = len(out) + 1
		out = append(out, e)
		return true
	})
	return out
}
