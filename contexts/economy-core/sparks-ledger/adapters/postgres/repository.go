package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"taleforge/contexts/economy-core/sparks-ledger/domain/entities"
	domainerrors "taleforge/contexts/economy-core/sparks-ledger/domain/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

func (r *Repository) CreateAccount(ctx context.Context, account entities.Account) (entities.Account, bool, error) {
	row := accountModelFromEntity(account)
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "owner_id"}},
			DoNothing: true,
		}).
		Create(&row)
	if result.Error != nil {
		return entities.Account{}, false, result.Error
	}
	if result.RowsAffected == 0 {
		existing, err := r.GetAccount(ctx, account.OwnerID)
		if err != nil {
			return entities.Account{}, false, err
		}
		return existing, false, nil
	}
	return account, true, nil
}

func (r *Repository) GetAccount(ctx context.Context, ownerID string) (entities.Account, error) {
	var row accountModel
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", strings.TrimSpace(ownerID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Account{}, domainerrors.ErrAccountNotFound
		}
		return entities.Account{}, err
	}
	return row.toEntity(), nil
}

// ApplyDelta relies on a guarded conditional UPDATE so the non-negative
// balance check and the write are one atomic statement; unlimited accounts
// match the guard but keep their balance on debits.
func (r *Repository) ApplyDelta(ctx context.Context, ownerID string, delta int64, now time.Time) (entities.Account, error) {
	ownerID = strings.TrimSpace(ownerID)
	result := r.db.WithContext(ctx).Exec(
		`UPDATE spark_accounts
		 SET balance = CASE WHEN unlimited AND ? < 0 THEN balance ELSE balance + ? END,
		     updated_at = ?
		 WHERE owner_id = ? AND (unlimited OR balance + ? >= 0)`,
		delta, delta, now, ownerID, delta,
	)
	if result.Error != nil {
		return entities.Account{}, result.Error
	}
	if result.RowsAffected == 0 {
		account, err := r.GetAccount(ctx, ownerID)
		if err != nil {
			return entities.Account{}, err
		}
		return entities.Account{}, domainerrors.NewInsufficientSparks(ownerID, -delta, account.Balance)
	}
	return r.GetAccount(ctx, ownerID)
}

func (r *Repository) AppendEntry(ctx context.Context, entry entities.Entry) error {
	row := entryModelFromEntity(entry)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return nil
		}
		return err
	}
	return nil
}

func (r *Repository) ListEntries(ctx context.Context, ownerID string) ([]entities.Entry, error) {
	var rows []entryModel
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", strings.TrimSpace(ownerID)).
		Order("created_at ASC").
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}
	items := make([]entities.Entry, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) HasEntry(ctx context.Context, ownerID string, reason string, reference string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entryModel{}).
		Where("owner_id = ? AND reason = ? AND reference = ?", strings.TrimSpace(ownerID), reason, reference).
		Count(&count).
		Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

type accountModel struct {
	OwnerID   string    `gorm:"column:owner_id;primaryKey"`
	Balance   int64     `gorm:"column:balance"`
	Unlimited bool      `gorm:"column:unlimited"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (accountModel) TableName() string {
	return "spark_accounts"
}

func accountModelFromEntity(account entities.Account) accountModel {
	return accountModel{
		OwnerID:   account.OwnerID,
		Balance:   account.Balance,
		Unlimited: account.Unlimited,
		CreatedAt: account.CreatedAt,
		UpdatedAt: account.UpdatedAt,
	}
}

func (m accountModel) toEntity() entities.Account {
	return entities.Account{
		OwnerID:   m.OwnerID,
		Balance:   m.Balance,
		Unlimited: m.Unlimited,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

type entryModel struct {
	EntryID      string    `gorm:"column:entry_id;primaryKey"`
	OwnerID      string    `gorm:"column:owner_id"`
	Delta        int64     `gorm:"column:delta"`
	BalanceAfter int64     `gorm:"column:balance_after"`
	Reason       string    `gorm:"column:reason"`
	Reference    string    `gorm:"column:reference"`
	CreatedAt    time.Time `gorm:"column:created_at"`
}

func (entryModel) TableName() string {
	return "spark_ledger_entries"
}

func entryModelFromEntity(entry entities.Entry) entryModel {
	return entryModel{
		EntryID:      entry.EntryID,
		OwnerID:      entry.OwnerID,
		Delta:        entry.Delta,
		BalanceAfter: entry.BalanceAfter,
		Reason:       entry.Reason,
		Reference:    entry.Reference,
		CreatedAt:    entry.CreatedAt,
	}
}

func (m entryModel) toEntity() entities.Entry {
	return entities.Entry{
		EntryID:      m.EntryID,
		OwnerID:      m.OwnerID,
		Delta:        m.Delta,
		BalanceAfter: m.BalanceAfter,
		Reason:       m.Reason,
		Reference:    m.Reference,
		CreatedAt:    m.CreatedAt,
	}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// SystemClock is the default runtime clock implementation.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}
