package metrics

import (
	"testing"
	"time"

	"journal_bot/internal/models"
)

func TestComputeRR(t *testing.T) {
	// |130-100| / |100-90| = 3.00
	if rr := ComputeRR(100, 90, 130); rr != 3.00 {
		t.Errorf("expected RR 3.00, got %f", rr)
	}

	// Rounded to 2 decimal places: |110-100| / |100-97| = 3.333... -> 3.33
	if rr := ComputeRR(100, 97, 110); rr != 3.33 {
		t.Errorf("expected RR 3.33, got %f", rr)
	}

	// Division-by-zero guard: entry == stopLoss
	if rr := ComputeRR(100, 100, 130); rr != 0 {
		t.Errorf("expected RR 0 when entry == stopLoss, got %f", rr)
	}

	// Valid geometry never yields a negative magnitude
	if rr := ComputeRR(50, 45, 60); rr < 0 {
		t.Errorf("expected non-negative RR, got %f", rr)
	}
}

func TestProfit(t *testing.T) {
	if p := Profit(100, 115); p != 15 {
		t.Errorf("expected profit 15, got %f", p)
	}
	if p := Profit(100, 85); p != -15 {
		t.Errorf("expected profit -15, got %f", p)
	}
	// Float subtraction that would drift without decimal: 0.3 - 0.1
	if p := Profit(0.1, 0.3); p != 0.2 {
		t.Errorf("expected profit 0.2, got %f", p)
	}
}

func TestClassify(t *testing.T) {
	cases := []struct {
		profit float64
		want   models.Outcome
	}{
		{15, models.OutcomeWin},
		{-15, models.OutcomeLoss},
		{0, models.OutcomeNeutral},
	}
	for _, c := range cases {
		got := Classify(models.TradeRecord{Profit: c.profit})
		if got != c.want {
			t.Errorf("profit %f: expected outcome %v, got %v", c.profit, c.want, got)
		}
	}
}

func TestSignRR(t *testing.T) {
	if rr := SignRR(3.0, models.OutcomeWin); rr != 3.0 {
		t.Errorf("expected +3.0 on win, got %f", rr)
	}
	if rr := SignRR(3.0, models.OutcomeLoss); rr != -3.0 {
		t.Errorf("expected -3.0 on loss, got %f", rr)
	}
	if rr := SignRR(3.0, models.OutcomeNeutral); rr != 0 {
		t.Errorf("expected 0 on neutral, got %f", rr)
	}
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil)
	if s.Total != 0 || s.Wins != 0 || s.Losses != 0 || s.Neutral != 0 ||
		s.TotalRR != 0 || s.AvgRR != 0 || s.WinRate != 0 {
		t.Errorf("expected zero summary for empty input, got %+v", s)
	}
}

func TestSummarize_NeutralExcludedFromWinRate(t *testing.T) {
	trades := []models.TradeRecord{
		{Profit: 10, RiskReward: 2},
		{Profit: -5, RiskReward: -1},
		{Profit: 0, RiskReward: 0}, // neutral, not in the winrate denominator
	}
	s := Summarize(trades)

	if s.Total != 3 || s.Wins != 1 || s.Losses != 1 || s.Neutral != 1 {
		t.Fatalf("unexpected counts: %+v", s)
	}
	if s.WinRate != 50.0 {
		t.Errorf("expected winrate 50.0, got %f", s.WinRate)
	}
	if s.TotalProfit != 5 {
		t.Errorf("expected total profit 5, got %f", s.TotalProfit)
	}
	// avgRR = (2 + -1 + 0) / 3 = 0.33
	if s.AvgRR != 0.33 {
		t.Errorf("expected avg RR 0.33, got %f", s.AvgRR)
	}
}

func TestBestWorstTrade(t *testing.T) {
	t0 := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	trades := []models.TradeRecord{
		{ID: "a", Profit: 5, Timestamp: t0},
		{ID: "b", Profit: 20, Timestamp: t0.Add(time.Hour)},
		{ID: "c", Profit: -8, Timestamp: t0.Add(2 * time.Hour)},
	}

	if best := BestTrade(trades); best == nil || best.ID != "b" {
		t.Errorf("expected best trade b, got %+v", best)
	}
	if worst := WorstTrade(trades); worst == nil || worst.ID != "c" {
		t.Errorf("expected worst trade c, got %+v", worst)
	}
	if BestTrade(nil) != nil {
		t.Error("expected nil best trade on empty input")
	}
	if WorstTrade(nil) != nil {
		t.Error("expected nil worst trade on empty input")
	}
}

func TestBestTrade_TieBrokenByEarliestTimestamp(t *testing.T) {
	t0 := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	trades := []models.TradeRecord{
		{ID: "later", Profit: 20, Timestamp: t0.Add(time.Hour)},
		{ID: "earlier", Profit: 20, Timestamp: t0},
	}

	if best := BestTrade(trades); best == nil || best.ID != "earlier" {
		t.Errorf("expected earlier trade on tie, got %+v", best)
	}
	if worst := WorstTrade(trades); worst == nil || worst.ID != "earlier" {
		t.Errorf("expected earlier trade on tie, got %+v", worst)
	}
}

func TestCurrentStreak(t *testing.T) {
	win := models.TradeRecord{Profit: 1}
	loss := models.TradeRecord{Profit: -1}

	// Most-recent-first: loss, win, win, win -> streak broken immediately
	if s := CurrentStreak([]models.TradeRecord{loss, win, win, win}); s != 0 {
		t.Errorf("expected streak 0, got %d", s)
	}
	// Most-recent-first: win, win, win, loss -> 3 consecutive wins
	if s := CurrentStreak([]models.TradeRecord{win, win, win, loss}); s != 3 {
		t.Errorf("expected streak 3, got %d", s)
	}
	if s := CurrentStreak(nil); s != 0 {
		t.Errorf("expected streak 0 on empty input, got %d", s)
	}
}
