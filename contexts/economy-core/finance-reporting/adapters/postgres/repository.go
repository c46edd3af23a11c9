package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"taleforge/contexts/economy-core/finance-reporting/domain/entities"
	domainerrors "taleforge/contexts/economy-core/finance-reporting/domain/errors"
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

func (r *Repository) AppendTransaction(ctx context.Context, transaction entities.Transaction) error {
	row := transactionModelFromEntity(transaction)
	return r.db.WithContext(ctx).Create(&row).Error
}

func (r *Repository) GetTransaction(ctx context.Context, transactionID string) (entities.Transaction, error) {
	var row transactionModel
	err := r.db.WithContext(ctx).
		Where("transaction_id = ?", strings.TrimSpace(transactionID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Transaction{}, domainerrors.ErrTransactionNotFound
		}
		return entities.Transaction{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) ListTransactions(ctx context.Context, from time.Time, to time.Time) ([]entities.Transaction, error) {
	var rows []transactionModel
	err := r.db.WithContext(ctx).
		Where("date >= ? AND date < ?", from, to).
		Order("date ASC").
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}
	items := make([]entities.Transaction, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

type transactionModel struct {
	TransactionID  string    `gorm:"column:transaction_id;primaryKey"`
	Date           time.Time `gorm:"column:date;index"`
	Type           string    `gorm:"column:type"`
	Category       string    `gorm:"column:category"`
	Description    string    `gorm:"column:description"`
	AmountCents    int64     `gorm:"column:amount_cents"`
	TaxCents       int64     `gorm:"column:tax_cents"`
	NetCents       int64     `gorm:"column:net_cents"`
	Reference      string    `gorm:"column:reference"`
	CorrelatesTo   string    `gorm:"column:correlates_to"`
	Account        string    `gorm:"column:account"`
	CounterpartyID string    `gorm:"column:counterparty_id"`
}

func (transactionModel) TableName() string {
	return "financial_transactions"
}

func transactionModelFromEntity(transaction entities.Transaction) transactionModel {
	return transactionModel{
		TransactionID:  transaction.TransactionID,
		Date:           transaction.Date,
		Type:           string(transaction.Type),
		Category:       transaction.Category,
		Description:    transaction.Description,
		AmountCents:    transaction.AmountCents,
		TaxCents:       transaction.TaxCents,
		NetCents:       transaction.NetCents,
		Reference:      transaction.Reference,
		CorrelatesTo:   transaction.CorrelatesTo,
		Account:        transaction.Account,
		CounterpartyID: transaction.CounterpartyID,
	}
}

func (m transactionModel) toEntity() entities.Transaction {
	return entities.Transaction{
		TransactionID:  m.TransactionID,
		Date:           m.Date,
		Type:           entities.TransactionType(m.Type),
		Category:       m.Category,
		Description:    m.Description,
		AmountCents:    m.AmountCents,
		TaxCents:       m.TaxCents,
		NetCents:       m.NetCents,
		Reference:      m.Reference,
		CorrelatesTo:   m.CorrelatesTo,
		Account:        m.Account,
		CounterpartyID: m.CounterpartyID,
	}
}

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

type UUIDGenerator struct{}

func (UUIDGenerator) NewID() string {
	return uuid.NewString()
}
