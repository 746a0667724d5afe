package score

import "fmt"

// Score holds both teams' counters.
type Score struct {
	Team1 uint32 `json:"team1"`
	Team2 uint32 `json:"team2"`
}

// Snapshot is the published value. It is passed by value and never mutated
// after creation.
type Snapshot struct {
	Score Score `json:"score"`
}

func (s Snapshot) String() string {
	return fmt.Sprintf("%d-%d", s.Score.Team1, s.Score.Team2)
}

// Store holds the latest Snapshot. It is not synchronized; only the
// producer goroutine may use it.
type Store struct {
	current Snapshot
}

// NewStore creates a store holding initial.
func NewStore(initial Snapshot) *Store {
	return &Store{current: initial}
}

// Load returns the latest snapshot.
func (s *Store) Load() Snapshot { return s.current }

// Save replaces the latest snapshot.
func (s *Store) Save(v Snapshot) { s.current = v }
