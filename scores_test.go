package main

import (
	"sync"
	"testing"
)

func TestScoreboardAdjust(t *testing.T) {
	scores := newScoreboard()

	scores.Init(1)

	if got, ok := scores.Adjust(1, deltaCorrect); !ok || got != 10 {
		t.Errorf("Adjust(+10) = (%d, %t), want (10, true)", got, ok)
	}
	if got, ok := scores.Adjust(1, deltaTimeout); !ok || got != -10 {
		t.Errorf("Adjust(-20) = (%d, %t), want (-10, true)", got, ok)
	}

	// Unknown ids are no-ops.
	if got, ok := scores.Adjust(99, deltaCorrect); ok || got != 0 {
		t.Errorf("Adjust(unknown) = (%d, %t), want (0, false)", got, ok)
	}
}

func TestScoreboardRemove(t *testing.T) {
	scores := newScoreboard()

	scores.Init(1)
	scores.Adjust(1, deltaCorrect)
	scores.Remove(1)

	if _, ok := scores.Snapshot()[1]; ok {
		t.Error("removed client still present in snapshot")
	}
	if _, ok := scores.Adjust(1, deltaCorrect); ok {
		t.Error("adjust after remove should be a no-op")
	}
}

func TestScoreboardSnapshotIsCopy(t *testing.T) {
	scores := newScoreboard()

	scores.Init(1)
	snapshot := scores.Snapshot()
	snapshot[1] = 1000

	if got := scores.Snapshot()[1]; got != 0 {
		t.Errorf("mutating a snapshot leaked into the scoreboard: %d", got)
	}
}

// Snapshot totals must equal the sum of applied deltas, with no partial
// delta ever visible, under concurrent adjustment.
func TestScoreboardConcurrentAdjust(t *testing.T) {
	scores := newScoreboard()

	scores.Init(1)
	scores.Init(2)

	const rounds = 200

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < rounds; j++ {
				scores.Adjust(1, deltaCorrect)
				scores.Adjust(2, deltaWrong)
			}
		}()
	}
	wg.Wait()

	snapshot := scores.Snapshot()
	if want := 4 * rounds * deltaCorrect; snapshot[1] != want {
		t.Errorf("client 1 score = %d, want %d", snapshot[1], want)
	}
	if want := 4 * rounds * deltaWrong; snapshot[2] != want {
		t.Errorf("client 2 score = %d, want %d", snapshot[2], want)
	}
}
