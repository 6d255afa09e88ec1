package main

import (
	"sync"
)

// Scoreboard tracks every connected client's score. All methods are safe
// for concurrent use; adjustments are atomic with respect to snapshots, so
// a snapshot always reflects whole deltas.
type Scoreboard struct {
	mu     sync.Mutex
	scores map[int]int
}

// Scoring deltas, applied per candidate turn.
const (
	deltaCorrect = 10
	deltaWrong   = -10
	deltaTimeout = -20
)

func newScoreboard() *Scoreboard {
	return &Scoreboard{
		scores: make(map[int]int),
	}
}

// Init registers a client at zero. Reconnecting ids keep their score, but
// ids are never reused, so in practice each id is initialized once.
func (s *Scoreboard) Init(clientID int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.scores[clientID]; !ok {
		s.scores[clientID] = 0
	}
}

// Adjust applies a signed delta and returns the new total. Adjusting an
// unknown or removed client is a no-op; the second return reports whether
// the delta was applied.
func (s *Scoreboard) Adjust(clientID, delta int) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.scores[clientID]; !ok {
		return 0, false
	}
	s.scores[clientID] += delta
	return s.scores[clientID], true
}

// Snapshot returns a point-in-time copy of all scores.
func (s *Scoreboard) Snapshot() map[int]int {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := make(map[int]int, len(s.scores))
	for id, score := range s.scores {
		snapshot[id] = score
	}
	return snapshot
}

// Remove drops a departed client's entry.
func (s *Scoreboard) Remove(clientID int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.scores, clientID)
}
