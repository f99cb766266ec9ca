package period

import (
	"testing"
	"time"

	"journal_bot/internal/models"
)

func TestCutoff(t *testing.T) {
	now := time.Date(2026, 3, 15, 14, 30, 45, 0, time.UTC)

	daily := Cutoff(models.PeriodDaily, now)
	if !daily.Equal(time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("expected start of day, got %v", daily)
	}

	weekly := Cutoff(models.PeriodWeekly, now)
	if !weekly.Equal(now.AddDate(0, 0, -7)) {
		t.Errorf("expected now-7d, got %v", weekly)
	}

	monthly := Cutoff(models.PeriodMonthly, now)
	if !monthly.Equal(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("expected start of month, got %v", monthly)
	}

	if !Cutoff(models.PeriodNone, now).IsZero() {
		t.Error("expected zero cutoff for no period")
	}
}

func TestFilter_StrictlyAfterCutoff(t *testing.T) {
	cutoff := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	trades := []models.TradeRecord{
		{ID: "before", Timestamp: cutoff.Add(-time.Second)},
		{ID: "exact", Timestamp: cutoff}, // exactly at the cutoff is excluded
		{ID: "after", Timestamp: cutoff.Add(time.Second)},
		{ID: "later", Timestamp: cutoff.Add(time.Hour)},
	}

	got := Filter(trades, cutoff)
	if len(got) != 2 {
		t.Fatalf("expected 2 trades, got %d", len(got))
	}
	if got[0].ID != "after" || got[1].ID != "later" {
		t.Errorf("expected order preserved [after later], got [%s %s]", got[0].ID, got[1].ID)
	}
}
