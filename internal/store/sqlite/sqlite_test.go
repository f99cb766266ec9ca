package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"journal_bot/internal/models"
	"journal_bot/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSqliteRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	rec := &models.TradeRecord{
		UserID:     1,
		Timestamp:  time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC),
		Entry:      100,
		StopLoss:   90,
		TakeProfit: 130,
		Exit:       115,
		Profit:     15,
		RiskReward: 3,
		IsWin:      true,
	}
	id, err := s.Append(ctx, rec)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	trades, err := s.ListByUser(ctx, 1, false)
	require.NoError(t, err)
	require.Len(t, trades, 1)

	got := trades[0]
	assert.Equal(t, id, got.ID)
	assert.Equal(t, rec.Entry, got.Entry)
	assert.Equal(t, rec.Profit, got.Profit)
	assert.Equal(t, rec.RiskReward, got.RiskReward)
	assert.True(t, got.Timestamp.Equal(rec.Timestamp))
	assert.True(t, got.IsWin)
	assert.False(t, got.Archived)
}

func TestSqliteAppend_RejectsInvalidGeometry(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, err := s.Append(ctx, &models.TradeRecord{UserID: 1, Entry: 100, StopLoss: 110, TakeProfit: 130})
	require.ErrorIs(t, err, store.ErrInvalidGeometry)

	trades, err := s.ListByUser(ctx, 1, true)
	require.NoError(t, err)
	assert.Empty(t, trades)
}

func TestSqliteRemoveLastAndArchive(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		_, err := s.Append(ctx, &models.TradeRecord{
			UserID:     1,
			Timestamp:  base.Add(time.Duration(i) * time.Minute),
			Entry:      100,
			StopLoss:   90,
			TakeProfit: 130,
			Exit:       100 + float64(i+1),
			Profit:     float64(i + 1),
		})
		require.NoError(t, err)
	}

	removed, err := s.RemoveLast(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 3.0, removed.Profit)

	require.NoError(t, s.SetArchived(ctx, 1, true))
	require.NoError(t, s.SetArchived(ctx, 1, true))  // idempotent
	require.NoError(t, s.SetArchived(ctx, 1, false)) // monotonic no-op

	active, err := s.ListByUser(ctx, 1, false)
	require.NoError(t, err)
	assert.Empty(t, active)

	all, err := s.ListByUser(ctx, 1, true)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = s.RemoveLast(ctx, 1)
	require.ErrorIs(t, err, store.ErrNoTrades)
}

func TestSqliteSnapshotsAndClearAll(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, err := s.LatestSnapshot(ctx, 1)
	require.ErrorIs(t, err, store.ErrNoSnapshot)

	t0 := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, s.AppendSnapshot(ctx, &models.ResetSnapshot{UserID: 1, ResetAt: t0, Wins: 1}))
	require.NoError(t, s.AppendSnapshot(ctx, &models.ResetSnapshot{UserID: 1, ResetAt: t0.Add(time.Hour), Wins: 2}))

	latest, err := s.LatestSnapshot(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, latest.Wins)

	all, err := s.AllSnapshots(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, 2, all[0].Wins, "newest first")

	_, err = s.Append(ctx, &models.TradeRecord{UserID: 1, Entry: 100, StopLoss: 90, TakeProfit: 130})
	require.NoError(t, err)

	require.NoError(t, s.ClearAll(ctx))

	trades, err := s.ListByUser(ctx, 1, true)
	require.NoError(t, err)
	assert.Empty(t, trades)
	snaps, err := s.AllSnapshots(ctx)
	require.NoError(t, err)
	assert.Empty(t, snaps)
}

func TestSqliteListAll(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, err := s.Append(ctx, &models.TradeRecord{UserID: 1, Entry: 100, StopLoss: 90, TakeProfit: 130})
	require.NoError(t, err)
	_, err = s.Append(ctx, &models.TradeRecord{UserID: 2, Entry: 100, StopLoss: 90, TakeProfit: 130})
	require.NoError(t, err)
	require.NoError(t, s.SetArchived(ctx, 2, true))

	all, err := s.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Len(t, all[1], 1)
	assert.Len(t, all[2], 1, "archived trades included")
}
