package sqlite

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"journal_bot/internal/models"
	"journal_bot/internal/store"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Store is the sqlite-backed store.Store implementation.
type Store struct {
	db *gorm.DB
}

// Open creates the database file if needed and migrates the schema.
func Open(path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("database path cannot be empty")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", path)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	return newStore(db)
}

func newStore(db *gorm.DB) (*Store, error) {
	if err := db.AutoMigrate(&tradeModel{}, &snapshotModel{}); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(2)
		sqlDB.SetMaxIdleConns(2)
	}
	return &Store{db: db}, nil
}

func (s *Store) Append(ctx context.Context, t *models.TradeRecord) (string, error) {
	if err := store.ValidateGeometry(t.Entry, t.StopLoss, t.TakeProfit); err != nil {
		return "", err
	}

	rec := *t
	rec.ID = store.NewID()
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now()
	}
	m := toTradeModel(&rec)
	if err := s.db.WithContext(ctx).Create(&m).Error; err != nil {
		return "", fmt.Errorf("append trade: %w", err)
	}
	return rec.ID, nil
}

func (s *Store) ListByUser(ctx context.Context, userID int64, includeArchived bool) ([]models.TradeRecord, error) {
	q := s.db.WithContext(ctx).Where("user_id = ?", userID)
	if !includeArchived {
		q = q.Where("archived = ?", false)
	}
	var rows []tradeModel
	if err := q.Order("timestamp ASC, row_id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list trades: %w", err)
	}
	out := make([]models.TradeRecord, 0, len(rows))
	for _, m := range rows {
		out = append(out, fromTradeModel(m))
	}
	return out, nil
}

func (s *Store) RemoveLast(ctx context.Context, userID int64) (*models.TradeRecord, error) {
	var removed *models.TradeRecord
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var m tradeModel
		err := tx.Where("user_id = ? AND archived = ?", userID, false).
			Order("timestamp DESC, row_id DESC").
			First(&m).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return store.ErrNoTrades
		}
		if err != nil {
			return err
		}
		if err := tx.Delete(&tradeModel{}, "row_id = ?", m.RowID).Error; err != nil {
			return err
		}
		rec := fromTradeModel(m)
		removed = &rec
		return nil
	})
	if err != nil {
		if errors.Is(err, store.ErrNoTrades) {
			return nil, store.ErrNoTrades
		}
		return nil, fmt.Errorf("remove last trade: %w", err)
	}
	return removed, nil
}

func (s *Store) SetArchived(ctx context.Context, userID int64, archived bool) error {
	if !archived {
		// Archiving is monotonic.
		return nil
	}
	err := s.db.WithContext(ctx).Model(&tradeModel{}).
		Where("user_id = ? AND archived = ?", userID, false).
		Update("archived", true).Error
	if err != nil {
		return fmt.Errorf("archive trades: %w", err)
	}
	return nil
}

func (s *Store) ListAll(ctx context.Context) (map[int64][]models.TradeRecord, error) {
	var rows []tradeModel
	if err := s.db.WithContext(ctx).Order("timestamp ASC, row_id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list all trades: %w", err)
	}
	out := make(map[int64][]models.TradeRecord)
	for _, m := range rows {
		out[m.UserID] = append(out[m.UserID], fromTradeModel(m))
	}
	return out, nil
}

func (s *Store) AppendSnapshot(ctx context.Context, snap *models.ResetSnapshot) error {
	m := snapshotModel{
		UserID:      snap.UserID,
		ResetAt:     snap.ResetAt.UnixMilli(),
		Wins:        snap.Wins,
		Losses:      snap.Losses,
		TotalProfit: snap.TotalProfit,
		AvgRR:       snap.AvgRR,
	}
	if err := s.db.WithContext(ctx).Create(&m).Error; err != nil {
		return fmt.Errorf("append snapshot: %w", err)
	}
	return nil
}

func (s *Store) LatestSnapshot(ctx context.Context, userID int64) (*models.ResetSnapshot, error) {
	var m snapshotModel
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).
		Order("reset_at DESC, id DESC").
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, store.ErrNoSnapshot
	}
	if err != nil {
		return nil, fmt.Errorf("latest snapshot: %w", err)
	}
	snap := fromSnapshotModel(m)
	return &snap, nil
}

func (s *Store) AllSnapshots(ctx context.Context) ([]models.ResetSnapshot, error) {
	var rows []snapshotModel
	if err := s.db.WithContext(ctx).Order("reset_at DESC, id DESC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("all snapshots: %w", err)
	}
	out := make([]models.ResetSnapshot, 0, len(rows))
	for _, m := range rows {
		out = append(out, fromSnapshotModel(m))
	}
	return out, nil
}

func (s *Store) ClearAll(ctx context.Context) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM trades").Error; err != nil {
			return err
		}
		return tx.Exec("DELETE FROM reset_snapshots").Error
	})
	if err != nil {
		return fmt.Errorf("clear all: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
