package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"journal_bot/internal/models"
	"journal_bot/internal/store"
)

// Store is an in-memory implementation of store.Store. It backs tests and
// runs without a database path configured; state is lost on restart.
type Store struct {
	mu        sync.RWMutex
	trades    map[int64][]models.TradeRecord // keyed by user id, append order
	snapshots []models.ResetSnapshot         // append order
}

func New() *Store {
	return &Store{
		trades: make(map[int64][]models.TradeRecord),
	}
}

func (s *Store) Append(_ context.Context, t *models.TradeRecord) (string, error) {
	if err := store.ValidateGeometry(t.Entry, t.StopLoss, t.TakeProfit); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec := *t
	rec.ID = store.NewID()
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now()
	}
	s.trades[rec.UserID] = append(s.trades[rec.UserID], rec)
	return rec.ID, nil
}

func (s *Store) ListByUser(_ context.Context, userID int64, includeArchived bool) ([]models.TradeRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.TradeRecord, 0, len(s.trades[userID]))
	for _, t := range s.trades[userID] {
		if !includeArchived && t.Archived {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func (s *Store) RemoveLast(_ context.Context, userID int64) (*models.TradeRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	recs := s.trades[userID]
	for i := len(recs) - 1; i >= 0; i-- {
		if recs[i].Archived {
			continue
		}
		removed := recs[i]
		s.trades[userID] = append(recs[:i], recs[i+1:]...)
		return &removed, nil
	}
	return nil, store.ErrNoTrades
}

func (s *Store) SetArchived(_ context.Context, userID int64, archived bool) error {
	if !archived {
		// Archiving is monotonic.
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	recs := s.trades[userID]
	for i := range recs {
		recs[i].Archived = true
	}
	return nil
}

func (s *Store) ListAll(_ context.Context) (map[int64][]models.TradeRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[int64][]models.TradeRecord, len(s.trades))
	for userID, recs := range s.trades {
		if len(recs) == 0 {
			continue
		}
		cp := make([]models.TradeRecord, len(recs))
		copy(cp, recs)
		out[userID] = cp
	}
	return out, nil
}

func (s *Store) AppendSnapshot(_ context.Context, snap *models.ResetSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshots = append(s.snapshots, *snap)
	return nil
}

func (s *Store) LatestSnapshot(_ context.Context, userID int64) (*models.ResetSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := len(s.snapshots) - 1; i >= 0; i-- {
		if s.snapshots[i].UserID == userID {
			snap := s.snapshots[i]
			return &snap, nil
		}
	}
	return nil, store.ErrNoSnapshot
}

func (s *Store) AllSnapshots(_ context.Context) ([]models.ResetSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.ResetSnapshot, len(s.snapshots))
	copy(out, s.snapshots)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ResetAt.After(out[j].ResetAt)
	})
	return out, nil
}

func (s *Store) ClearAll(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.trades = make(map[int64][]models.TradeRecord)
	s.snapshots = nil
	return nil
}

func (s *Store) Close() error { return nil }
