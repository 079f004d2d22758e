package scores

import (
	"context"
	"errors"
	"strings"
)

var ErrEmptyName = errors.New("score name is required")

// Board ties the typed store to the aggregator and stamps new records with
// the injected clock.
type Board struct {
	store *Store
	clock Clock
}

func NewBoard(store *Store, clock Clock) *Board {
	if clock == nil {
		clock = SystemClock
	}
	return &Board{store: store, clock: clock}
}

func (b *Board) Store() *Store {
	return b.store
}

// Record appends a finished attempt and returns what was stored.
func (b *Board) Record(ctx context.Context, name string, correct, total int) (Record, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Record{}, ErrEmptyName
	}
	if correct < 0 {
		correct = 0
	}
	if total < correct {
		total = correct
	}

	record := Record{
		Name:      name,
		Correct:   correct,
		Total:     total,
		Timestamp: b.clock.Now().UnixMilli(),
	}
	if err := b.store.AppendScore(ctx, record); err != nil {
		return Record{}, err
	}
	return record, nil
}

// View rebuilds the scoreboard from what is stored right now.
func (b *Board) View(ctx context.Context) View {
	return BuildView(b.store.GetScores(ctx), b.store.SortMode(ctx), b.store.Filter(ctx))
}

func (b *Board) Clear(ctx context.Context) error {
	return b.store.ClearScores(ctx)
}
