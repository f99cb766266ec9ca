package models

import "time"

// TradeRecord is a single logged trade. Prices are immutable once logged;
// the only field that ever changes afterwards is Archived, and only from
// false to true.
type TradeRecord struct {
	ID         string
	UserID     int64
	Timestamp  time.Time
	Entry      float64
	StopLoss   float64
	TakeProfit float64
	Exit       float64
	Profit     float64 // Exit - Entry, signed
	RiskReward float64 // signed: +RR on win, -RR on loss, 0 on neutral
	IsWin      bool
	Archived   bool // true = counts toward lifetime stats only
}

// ResetSnapshot is a point-in-time copy of a user's current-period
// aggregate, written once per reset and never mutated.
type ResetSnapshot struct {
	UserID      int64
	ResetAt     time.Time
	Wins        int
	Losses      int
	TotalProfit float64
	AvgRR       float64
}

// Summary is an aggregate over a sequence of trades.
type Summary struct {
	Total       int
	Wins        int
	Losses      int
	Neutral     int
	TotalProfit float64
	TotalRR     float64
	AvgRR       float64
	WinRate     float64 // percent; neutral trades excluded from the denominator
}

// Outcome classifies a single trade.
type Outcome int

const (
	OutcomeNeutral Outcome = iota
	OutcomeWin
	OutcomeLoss
)

// Period selects a stats window.
type Period string

const (
	PeriodNone    Period = ""
	PeriodDaily   Period = "daily"
	PeriodWeekly  Period = "weekly"
	PeriodMonthly Period = "monthly"
)

// LeaderboardMetric selects the aggregate the leaderboard ranks by.
type LeaderboardMetric string

const (
	MetricProfit  LeaderboardMetric = "profit"
	MetricTotalRR LeaderboardMetric = "rr"
)

// LeaderboardEntry is one ranked row.
type LeaderboardEntry struct {
	UserID int64
	Value  float64
}
