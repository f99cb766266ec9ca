package sqlite

import (
	"time"

	"journal_bot/internal/models"
)

type tradeModel struct {
	RowID      int64   `gorm:"column:row_id;primaryKey;autoIncrement"`
	TradeID    string  `gorm:"column:trade_id;uniqueIndex"`
	UserID     int64   `gorm:"column:user_id;index"`
	Timestamp  int64   `gorm:"column:timestamp"` // unix millis
	Entry      float64 `gorm:"column:entry"`
	StopLoss   float64 `gorm:"column:stop_loss"`
	TakeProfit float64 `gorm:"column:take_profit"`
	Exit       float64 `gorm:"column:exit"`
	Profit     float64 `gorm:"column:profit"`
	RiskReward float64 `gorm:"column:risk_reward"`
	IsWin      bool    `gorm:"column:is_win"`
	Archived   bool    `gorm:"column:archived;index"`
}

func (tradeModel) TableName() string { return "trades" }

type snapshotModel struct {
	ID          int64   `gorm:"column:id;primaryKey;autoIncrement"`
	UserID      int64   `gorm:"column:user_id;index"`
	ResetAt     int64   `gorm:"column:reset_at"` // unix millis
	Wins        int     `gorm:"column:wins"`
	Losses      int     `gorm:"column:losses"`
	TotalProfit float64 `gorm:"column:total_profit"`
	AvgRR       float64 `gorm:"column:avg_rr"`
}

func (snapshotModel) TableName() string { return "reset_snapshots" }

func toTradeModel(t *models.TradeRecord) tradeModel {
	return tradeModel{
		TradeID:    t.ID,
		UserID:     t.UserID,
		Timestamp:  t.Timestamp.UnixMilli(),
		Entry:      t.Entry,
		StopLoss:   t.StopLoss,
		TakeProfit: t.TakeProfit,
		Exit:       t.Exit,
		Profit:     t.Profit,
		RiskReward: t.RiskReward,
		IsWin:      t.IsWin,
		Archived:   t.Archived,
	}
}

func fromTradeModel(m tradeModel) models.TradeRecord {
	return models.TradeRecord{
		ID:         m.TradeID,
		UserID:     m.UserID,
		Timestamp:  time.UnixMilli(m.Timestamp),
		Entry:      m.Entry,
		StopLoss:   m.StopLoss,
		TakeProfit: m.TakeProfit,
		Exit:       m.Exit,
		Profit:     m.Profit,
		RiskReward: m.RiskReward,
		IsWin:      m.IsWin,
		Archived:   m.Archived,
	}
}

func fromSnapshotModel(m snapshotModel) models.ResetSnapshot {
	return models.ResetSnapshot{
		UserID:      m.UserID,
		ResetAt:     time.UnixMilli(m.ResetAt),
		Wins:        m.Wins,
		Losses:      m.Losses,
		TotalProfit: m.TotalProfit,
		AvgRR:       m.AvgRR,
	}
}
