package metrics

import (
	"journal_bot/internal/models"

	"github.com/shopspring/decimal"
)

// ComputeRR returns the planned risk/reward magnitude
// |takeProfit-entry| / |entry-stopLoss|, rounded to 2 decimal places.
// Returns 0 when entry == stopLoss; zero risk is a defined edge case,
// not an error.
func ComputeRR(entry, stopLoss, takeProfit float64) float64 {
	risk := decimal.NewFromFloat(entry).Sub(decimal.NewFromFloat(stopLoss)).Abs()
	if risk.IsZero() {
		return 0
	}
	reward := decimal.NewFromFloat(takeProfit).Sub(decimal.NewFromFloat(entry)).Abs()
	return reward.Div(risk).Round(2).InexactFloat64()
}

// Profit returns exit - entry, rounded to 2 decimal places.
func Profit(entry, exit float64) float64 {
	return decimal.NewFromFloat(exit).Sub(decimal.NewFromFloat(entry)).Round(2).InexactFloat64()
}

// Classify buckets a trade by signed profit.
func Classify(t models.TradeRecord) models.Outcome {
	switch {
	case t.Profit > 0:
		return models.OutcomeWin
	case t.Profit < 0:
		return models.OutcomeLoss
	default:
		return models.OutcomeNeutral
	}
}

// SignRR applies the sign convention to an RR magnitude: positive on a win,
// negative on a loss, zero when the trade is neutral.
func SignRR(rr float64, outcome models.Outcome) float64 {
	switch outcome {
	case models.OutcomeWin:
		return rr
	case models.OutcomeLoss:
		return -rr
	default:
		return 0
	}
}

// Summarize aggregates a sequence of trades. An empty input yields the zero
// Summary; win rate excludes neutral trades from the denominator.
func Summarize(trades []models.TradeRecord) models.Summary {
	var s models.Summary
	s.Total = len(trades)
	if s.Total == 0 {
		return s
	}

	profit := decimal.Zero
	totalRR := decimal.Zero
	for _, t := range trades {
		switch Classify(t) {
		case models.OutcomeWin:
			s.Wins++
		case models.OutcomeLoss:
			s.Losses++
		default:
			s.Neutral++
		}
		profit = profit.Add(decimal.NewFromFloat(t.Profit))
		totalRR = totalRR.Add(decimal.NewFromFloat(t.RiskReward))
	}

	s.TotalProfit = profit.Round(2).InexactFloat64()
	s.TotalRR = totalRR.Round(2).InexactFloat64()
	s.AvgRR = totalRR.Div(decimal.NewFromInt(int64(s.Total))).Round(2).InexactFloat64()
	if decided := s.Wins + s.Losses; decided > 0 {
		s.WinRate = decimal.NewFromInt(int64(s.Wins)).
			Div(decimal.NewFromInt(int64(decided))).
			Mul(decimal.NewFromInt(100)).
			Round(1).InexactFloat64()
	}
	return s
}

// BestTrade returns the trade with the highest signed profit, or nil on
// empty input. Ties go to the earliest timestamp.
func BestTrade(trades []models.TradeRecord) *models.TradeRecord {
	return pick(trades, func(candidate, best models.TradeRecord) bool {
		return candidate.Profit > best.Profit
	})
}

// WorstTrade returns the trade with the lowest signed profit, or nil on
// empty input. Ties go to the earliest timestamp.
func WorstTrade(trades []models.TradeRecord) *models.TradeRecord {
	return pick(trades, func(candidate, best models.TradeRecord) bool {
		return candidate.Profit < best.Profit
	})
}

// pick replaces the running best only on a strictly better candidate, or
// on an equal-profit candidate with an earlier timestamp, so the result is
// deterministic regardless of input order.
func pick(trades []models.TradeRecord, better func(candidate, best models.TradeRecord) bool) *models.TradeRecord {
	if len(trades) == 0 {
		return nil
	}
	best := trades[0]
	for _, t := range trades[1:] {
		if better(t, best) {
			best = t
			continue
		}
		if t.Profit == best.Profit && t.Timestamp.Before(best.Timestamp) {
			best = t
		}
	}
	out := best
	return &out
}

// CurrentStreak counts consecutive wins from the front of a
// most-recent-first sequence, stopping at the first non-win.
func CurrentStreak(trades []models.TradeRecord) int {
	streak := 0
	for _, t := range trades {
		if Classify(t) != models.OutcomeWin {
			break
		}
		streak++
	}
	return streak
}
