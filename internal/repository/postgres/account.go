package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dtroode/backup-auth-server/internal/model"
)

// maxUpdateAttempts bounds the optimistic read-modify-write loop in Update.
const maxUpdateAttempts = 10

var _ model.AccountStore = (*AccountRepository)(nil)

type AccountRepository struct {
	db *Connection
}

func NewAccountRepository(db *Connection) *AccountRepository {
	return &AccountRepository{db: db}
}

// Create inserts an empty account, or returns the existing one with the same id.
func (r *AccountRepository) Create(ctx context.Context, id uuid.UUID) (model.Account, error) {
	const query = `
        INSERT INTO accounts (id, version, created_at, updated_at)
        VALUES ($1, 0, NOW(), NOW())
        ON CONFLICT (id) DO NOTHING
    `
	if _, err := r.db.Exec(ctx, query, id); err != nil {
		return model.Account{}, fmt.Errorf("failed to create account: %w", err)
	}
	return r.GetByID(ctx, id)
}

func (r *AccountRepository) GetByID(ctx context.Context, id uuid.UUID) (model.Account, error) {
	const query = `
        SELECT id, version, messages_backup_request, media_backup_request,
               backup_voucher_level, backup_voucher_expiration
        FROM accounts WHERE id = $1
    `
	var (
		a          model.Account
		level      *int32
		expiration *time.Time
	)
	err := r.db.QueryRow(ctx, query, id).Scan(
		&a.ID, &a.Version, &a.MessagesBackupRequest, &a.MediaBackupRequest, &level, &expiration,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Account{}, model.ErrNotFound
		}
		return model.Account{}, fmt.Errorf("failed to get account by id: %w", err)
	}
	if level != nil && expiration != nil {
		a.BackupVoucher = &model.Voucher{Level: model.BackupLevel(*level), Expiration: expiration.UTC()}
	}
	return a, nil
}

// Update applies mutate to the account and stores the result if nobody wrote the account
// in between. On a version mismatch it reloads the account and applies mutate again.
func (r *AccountRepository) Update(ctx context.Context, account model.Account, mutate func(*model.Account)) (model.Account, error) {
	const query = `
        UPDATE accounts
        SET messages_backup_request = $3,
            media_backup_request = $4,
            backup_voucher_level = $5,
            backup_voucher_expiration = $6,
            version = version + 1,
            updated_at = NOW()
        WHERE id = $1 AND version = $2
        RETURNING version
    `
	current := account
	for attempt := 0; attempt < maxUpdateAttempts; attempt++ {
		next := cloneAccount(current)
		mutate(&next)

		var (
			level      *int32
			expiration *time.Time
		)
		if v := next.BackupVoucher; v != nil {
			l := int32(v.Level)
			e := v.Expiration.UTC()
			level, expiration = &l, &e
		}

		var version int64
		err := r.db.QueryRow(ctx, query,
			current.ID, current.Version, next.MessagesBackupRequest, next.MediaBackupRequest, level, expiration,
		).Scan(&version)
		if err == nil {
			next.Version = version
			return next, nil
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return model.Account{}, fmt.Errorf("failed to update account: %w", err)
		}

		current, err = r.GetByID(ctx, account.ID)
		if err != nil {
			return model.Account{}, err
		}
	}
	return model.Account{}, model.ErrConflict
}

func cloneAccount(a model.Account) model.Account {
	if a.BackupVoucher != nil {
		v := *a.BackupVoucher
		a.BackupVoucher = &v
	}
	return a
}
