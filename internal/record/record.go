// Package record keeps each player's best results across games.
package record

import (
	"cmp"
	"slices"
	"time"
)

// Record is a player's best results.
type Record struct {
	Player    string    `json:"player"`
	BestLevel int       `json:"best_level"` // Highest level reached
	BestScore int       `json:"best_score"` // Most pops in a single round
	Rounds    int       `json:"rounds"`     // Completed rounds
	UpdatedAt time.Time `json:"updated_at"`
}

// Result is the outcome of one round.
type Result struct {
	Player    string
	Level     int // Level reached after the round
	Score     int
	Completed bool
	At        time.Time
}

// Store persists records. Implementations are safe for concurrent use.
type Store interface {
	// Get returns the player's record, or a zero record if there is none.
	Get(player string) (Record, error)
	// Submit folds a round result into the player's record. improved is
	// true when the best level or best score went up.
	Submit(res Result) (rec Record, improved bool, err error)
	// Top returns up to n records, best first.
	Top(n int) ([]Record, error)
}

// merge applies res to rec.
func merge(rec Record, res Result) (Record, bool) {
	rec.Player = res.Player
	improved := false
	if res.Level > rec.BestLevel {
		rec.BestLevel = res.Level
		improved = true
	}
	if res.Score > rec.BestScore {
		rec.BestScore = res.Score
		improved = true
	}
	if res.Completed {
		rec.Rounds++
	}
	rec.UpdatedAt = res.At
	return rec, improved
}

// rank sorts records best first: level, then score, then name.
func rank(recs []Record) {
	slices.SortFunc(recs, func(a, b Record) int {
		if c := cmp.Compare(b.BestLevel, a.BestLevel); c != 0 {
			return c
		}
		if c := cmp.Compare(b.BestScore, a.BestScore); c != 0 {
			return c
		}
		return cmp.Compare(a.Player, b.Player)
	})
}

func top(recs []Record, n int) []Record {
	rank(recs)
	if n >= 0 && len(recs) > n {
		recs = recs[:n]
	}
	return recs
}
