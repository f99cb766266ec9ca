package store

import (
	"context"

	"journal_bot/internal/models"

	"github.com/google/uuid"
)

// Store is the persistence boundary for trades and reset snapshots.
// Implementations must be safe for concurrent use and must apply each
// mutation atomically; readers never observe a partially written record.
type Store interface {
	// Append validates the trade geometry, assigns a new unique id and
	// persists the record. Returns ErrInvalidGeometry without writing
	// anything when stopLoss < entry < takeProfit does not hold.
	Append(ctx context.Context, t *models.TradeRecord) (string, error)

	// ListByUser returns the user's trades in ascending creation order.
	// Archived trades are included only when includeArchived is set.
	// A user with no trades yields an empty slice, not an error.
	ListByUser(ctx context.Context, userID int64, includeArchived bool) ([]models.TradeRecord, error)

	// RemoveLast deletes and returns the most recently created active
	// record for the user. Returns ErrNoTrades when none exist.
	RemoveLast(ctx context.Context, userID int64) (*models.TradeRecord, error)

	// SetArchived flips the archive flag on all currently active records
	// of the user. Idempotent. Archiving is monotonic, so archived=false
	// is a no-op rather than an un-archive.
	SetArchived(ctx context.Context, userID int64, archived bool) error

	// ListAll returns every user's full trade set (archived included),
	// each in ascending creation order.
	ListAll(ctx context.Context) (map[int64][]models.TradeRecord, error)

	// AppendSnapshot persists a reset snapshot. Snapshots are append-only.
	AppendSnapshot(ctx context.Context, s *models.ResetSnapshot) error

	// LatestSnapshot returns the user's most recent reset snapshot, or
	// ErrNoSnapshot when the user has never reset.
	LatestSnapshot(ctx context.Context, userID int64) (*models.ResetSnapshot, error)

	// AllSnapshots returns every reset snapshot, newest first.
	AllSnapshots(ctx context.Context) ([]models.ResetSnapshot, error)

	// ClearAll deletes all trades and all snapshots.
	ClearAll(ctx context.Context) error

	Close() error
}

// ValidateGeometry rejects any trade whose prices do not describe a valid
// long position: stopLoss < entry < takeProfit. Invalid geometry is never
// persisted.
func ValidateGeometry(entry, stopLoss, takeProfit float64) error {
	if entry <= stopLoss || takeProfit <= entry {
		return ErrInvalidGeometry
	}
	return nil
}

// NewID returns a fresh trade record id.
func NewID() string {
	return uuid.NewString()
}
