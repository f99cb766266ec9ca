package journal

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"journal_bot/internal/metrics"
	"journal_bot/internal/models"
	"journal_bot/internal/period"
	"journal_bot/internal/store"
)

var (
	// ErrNothingToReset is returned when a reset finds zero active trades.
	// No snapshot is written in that case.
	ErrNothingToReset = errors.New("no current trades to reset")

	// ErrPermissionDenied is returned when an admin-gated operation is
	// attempted without the admin flag.
	ErrPermissionDenied = errors.New("permission denied")
)

const (
	DefaultJournalLimit = 10
	DefaultTopN         = 5
)

// Service is the trade journal core: it owns the statistics, streak,
// leaderboard and reset logic over a Store. Mutations for a given user are
// serialized through a per-user mutex so a trade log and a reset can never
// race into a lost update.
type Service struct {
	store store.Store
	now   func() time.Time

	mu        sync.Mutex
	userLocks map[int64]*sync.Mutex
}

func NewService(st store.Store) *Service {
	return &Service{
		store:     st,
		now:       time.Now,
		userLocks: make(map[int64]*sync.Mutex),
	}
}

func (s *Service) userLock(userID int64) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.userLocks[userID]
	if !ok {
		l = &sync.Mutex{}
		s.userLocks[userID] = l
	}
	return l
}

// LogTrade validates, derives the trade metrics and persists the record.
// Returns store.ErrInvalidGeometry on bad prices; nothing is written then.
func (s *Service) LogTrade(ctx context.Context, userID int64, entry, stopLoss, takeProfit, exit float64) (models.TradeRecord, error) {
	l := s.userLock(userID)
	l.Lock()
	defer l.Unlock()

	profit := metrics.Profit(entry, exit)
	rec := models.TradeRecord{
		UserID:     userID,
		Timestamp:  s.now(),
		Entry:      entry,
		StopLoss:   stopLoss,
		TakeProfit: takeProfit,
		Exit:       exit,
		Profit:     profit,
		IsWin:      profit > 0,
	}
	rr := metrics.ComputeRR(entry, stopLoss, takeProfit)
	rec.RiskReward = metrics.SignRR(rr, metrics.Classify(rec))

	id, err := s.store.Append(ctx, &rec)
	if err != nil {
		return models.TradeRecord{}, err
	}
	rec.ID = id
	return rec, nil
}

// RecentTrades returns up to limit active trades, newest first.
func (s *Service) RecentTrades(ctx context.Context, userID int64, limit int) ([]models.TradeRecord, error) {
	if limit <= 0 {
		limit = DefaultJournalLimit
	}
	trades, err := s.activeNewestFirst(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(trades) > limit {
		trades = trades[:limit]
	}
	return trades, nil
}

// BestTrade returns the active trade with the highest signed profit.
func (s *Service) BestTrade(ctx context.Context, userID int64) (*models.TradeRecord, error) {
	trades, err := s.store.ListByUser(ctx, userID, false)
	if err != nil {
		return nil, err
	}
	best := metrics.BestTrade(trades)
	if best == nil {
		return nil, store.ErrNoTrades
	}
	return best, nil
}

// WorstTrade returns the active trade with the lowest signed profit.
func (s *Service) WorstTrade(ctx context.Context, userID int64) (*models.TradeRecord, error) {
	trades, err := s.store.ListByUser(ctx, userID, false)
	if err != nil {
		return nil, err
	}
	worst := metrics.WorstTrade(trades)
	if worst == nil {
		return nil, store.ErrNoTrades
	}
	return worst, nil
}

// Stats summarizes the user's active trades, optionally restricted to a
// period window ending now.
func (s *Service) Stats(ctx context.Context, userID int64, p models.Period) (models.Summary, error) {
	trades, err := s.store.ListByUser(ctx, userID, false)
	if err != nil {
		return models.Summary{}, err
	}
	if p != models.PeriodNone {
		trades = period.Filter(trades, period.Cutoff(p, s.now()))
	}
	return metrics.Summarize(trades), nil
}

// LifetimeStats summarizes everything the user ever logged, archived
// trades included.
func (s *Service) LifetimeStats(ctx context.Context, userID int64) (models.Summary, error) {
	trades, err := s.store.ListByUser(ctx, userID, true)
	if err != nil {
		return models.Summary{}, err
	}
	return metrics.Summarize(trades), nil
}

// Streak counts consecutive wins ending at the user's most recent active
// trade.
func (s *Service) Streak(ctx context.Context, userID int64) (int, error) {
	trades, err := s.activeNewestFirst(ctx, userID)
	if err != nil {
		return 0, err
	}
	return metrics.CurrentStreak(trades), nil
}

// Leaderboard ranks all users by the chosen lifetime aggregate, descending.
// Equal values are ordered by ascending user id so the cut is deterministic.
func (s *Service) Leaderboard(ctx context.Context, metric models.LeaderboardMetric, topN int) ([]models.LeaderboardEntry, error) {
	if topN <= 0 {
		topN = DefaultTopN
	}
	all, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	entries := make([]models.LeaderboardEntry, 0, len(all))
	for userID, trades := range all {
		sum := metrics.Summarize(trades)
		value := sum.TotalProfit
		if metric == models.MetricTotalRR {
			value = sum.TotalRR
		}
		entries = append(entries, models.LeaderboardEntry{UserID: userID, Value: value})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Value != entries[j].Value {
			return entries[i].Value > entries[j].Value
		}
		return entries[i].UserID < entries[j].UserID
	})
	if len(entries) > topN {
		entries = entries[:topN]
	}
	return entries, nil
}

// ResetStats snapshots the user's current aggregate and archives the
// active trades, starting a fresh period. A second reset with no new
// trades fails with ErrNothingToReset.
func (s *Service) ResetStats(ctx context.Context, userID int64) (models.ResetSnapshot, error) {
	l := s.userLock(userID)
	l.Lock()
	defer l.Unlock()

	trades, err := s.store.ListByUser(ctx, userID, false)
	if err != nil {
		return models.ResetSnapshot{}, err
	}
	if len(trades) == 0 {
		return models.ResetSnapshot{}, ErrNothingToReset
	}

	sum := metrics.Summarize(trades)
	snap := models.ResetSnapshot{
		UserID:      userID,
		ResetAt:     s.now(),
		Wins:        sum.Wins,
		Losses:      sum.Losses,
		TotalProfit: sum.TotalProfit,
		AvgRR:       sum.AvgRR,
	}
	if err := s.store.AppendSnapshot(ctx, &snap); err != nil {
		return models.ResetSnapshot{}, err
	}
	if err := s.store.SetArchived(ctx, userID, true); err != nil {
		return models.ResetSnapshot{}, err
	}
	return snap, nil
}

// ResetAll wipes every user's trades and snapshots. Destructive; gated on
// the caller-resolved admin flag and a confirmation step at the chat
// boundary.
func (s *Service) ResetAll(ctx context.Context, requesterIsAdmin bool) error {
	if !requesterIsAdmin {
		return ErrPermissionDenied
	}
	return s.store.ClearAll(ctx)
}

// PreviousReset returns the user's most recent reset snapshot.
func (s *Service) PreviousReset(ctx context.Context, userID int64) (*models.ResetSnapshot, error) {
	return s.store.LatestSnapshot(ctx, userID)
}

// AllResets returns every reset snapshot, newest first. Admin only.
func (s *Service) AllResets(ctx context.Context, requesterIsAdmin bool) ([]models.ResetSnapshot, error) {
	if !requesterIsAdmin {
		return nil, ErrPermissionDenied
	}
	return s.store.AllSnapshots(ctx)
}

// RemoveLastTrade deletes the user's most recently logged active trade.
func (s *Service) RemoveLastTrade(ctx context.Context, userID int64) (*models.TradeRecord, error) {
	l := s.userLock(userID)
	l.Lock()
	defer l.Unlock()

	return s.store.RemoveLast(ctx, userID)
}

// TotalTrades counts every stored trade across all users.
func (s *Service) TotalTrades(ctx context.Context) (int, error) {
	all, err := s.store.ListAll(ctx)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, trades := range all {
		n += len(trades)
	}
	return n, nil
}

func (s *Service) activeNewestFirst(ctx context.Context, userID int64) ([]models.TradeRecord, error) {
	trades, err := s.store.ListByUser(ctx, userID, false)
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(trades)-1; i < j; i, j = i+1, j-1 {
		trades[i], trades[j] = trades[j], trades[i]
	}
	return trades, nil
}
