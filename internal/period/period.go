package period

import (
	"time"

	"journal_bot/internal/models"
)

// Cutoff maps a period tag to the timestamp a trade must be strictly after
// to count.
//
// Daily means the current calendar day in now's location, not a rolling
// 24h window. Weekly is a rolling 7 days. Monthly is the start of the
// current calendar month.
func Cutoff(p models.Period, now time.Time) time.Time {
	switch p {
	case models.PeriodDaily:
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	case models.PeriodWeekly:
		return now.AddDate(0, 0, -7)
	case models.PeriodMonthly:
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	default:
		return time.Time{}
	}
}

// Filter keeps trades with timestamp strictly after cutoff, preserving
// order. A trade exactly at the cutoff instant is excluded.
func Filter(trades []models.TradeRecord, cutoff time.Time) []models.TradeRecord {
	out := make([]models.TradeRecord, 0, len(trades))
	for _, t := range trades {
		if t.Timestamp.After(cutoff) {
			out = append(out, t)
		}
	}
	return out
}
