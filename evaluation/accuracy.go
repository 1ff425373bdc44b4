package evaluation

import (
	"sort"

	"github.com/pkg/errors"
)

// ErrNoScore is returned when no image has a valid score.
var ErrNoScore = errors.New("no valid image scores")

// Tracker keeps the latest valid accuracy per image identity.
type Tracker struct {
	scores map[string]float64
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{scores: make(map[string]float64)}
}

// Record stores a valid score for identity, replacing any earlier one.
// Invalid scores are ignored so an earlier valid score is kept.
//
// Returns:
//   - bool: True if the score was stored.
func (t *Tracker) Record(identity string, score ImageScore) bool {
	if !score.Valid {
		return false
	}
	t.scores[identity] = score.Accuracy
	return true
}

// Score returns the recorded accuracy for identity.
func (t *Tracker) Score(identity string) (float64, bool) {
	acc, ok := t.scores[identity]
	return acc, ok
}

// Len returns the number of scored identities.
func (t *Tracker) Len() int {
	return len(t.scores)
}

// Identities returns the scored identities in sorted order.
func (t *Tracker) Identities() []string {
	ids := make([]string, 0, len(t.scores))
	for id := range t.scores {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Accuracy returns the mean over scored identities, each counted once no
// matter how often it was visited.
//
// Returns:
//   - float64: The dataset accuracy.
//   - error: ErrNoScore if nothing has been scored.
func (t *Tracker) Accuracy() (float64, error) {
	if len(t.scores) == 0 {
		return 0, ErrNoScore
	}

	// Sum in identity order so the result does not depend on map order.
	var sum float64
	for _, id := range t.Identities() {
		sum += t.scores[id]
	}
	return sum / float64(len(t.scores)), nil
}
