package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/backup-auth-server/internal/model"
)

var _ model.RedemptionLedger = (*RedeemedReceiptRepository)(nil)

type RedeemedReceiptRepository struct {
	db *Connection
}

func NewRedeemedReceiptRepository(db *Connection) *RedeemedReceiptRepository {
	return &RedeemedReceiptRepository{db: db}
}

// Put claims serial. It returns false when the serial has been claimed before.
func (r *RedeemedReceiptRepository) Put(
	ctx context.Context,
	serial []byte,
	expirationEpochSeconds int64,
	receiptLevel int64,
	accountID uuid.UUID,
) (bool, error) {
	const query = `
        INSERT INTO redeemed_receipts (serial, account_id, receipt_level, expires_at, redeemed_at)
        VALUES ($1, $2, $3, $4, NOW())
        ON CONFLICT (serial) DO NOTHING
    `
	tag, err := r.db.Exec(ctx, query, serial, accountID, receiptLevel, time.Unix(expirationEpochSeconds, 0).UTC())
	if err != nil {
		return false, fmt.Errorf("failed to put redeemed receipt: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// DeleteExpired removes receipts that expired before cutoff. Expired receipts are
// rejected before the ledger is consulted, so they no longer need to be tracked.
func (r *RedeemedReceiptRepository) DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	const query = `DELETE FROM redeemed_receipts WHERE expires_at < $1`
	tag, err := r.db.Exec(ctx, query, cutoff.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired receipts: %w", err)
	}
	return tag.RowsAffected(), nil
}
