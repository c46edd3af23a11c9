package postgresadapter

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"taleforge/contexts/economy-core/purchase-audit/domain/entities"
	domainerrors "taleforge/contexts/economy-core/purchase-audit/domain/errors"
	"taleforge/contexts/economy-core/purchase-audit/ports"
	"taleforge/internal/shared/events"
)

const (
	outboxStatusPending   = "pending"
	outboxStatusPublished = "published"
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

func (r *Repository) CreateAttempt(ctx context.Context, attempt entities.PurchaseAttempt) error {
	row := attemptModelFromEntity(attempt)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return nil
		}
		return err
	}
	return nil
}

func (r *Repository) GetAttempt(ctx context.Context, attemptID string) (entities.PurchaseAttempt, error) {
	var row attemptModel
	err := r.db.WithContext(ctx).
		Where("attempt_id = ?", strings.TrimSpace(attemptID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.PurchaseAttempt{}, domainerrors.ErrAttemptNotFound
		}
		return entities.PurchaseAttempt{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) UpdateAttempt(ctx context.Context, attempt entities.PurchaseAttempt) error {
	row := attemptModelFromEntity(attempt)
	result := r.db.WithContext(ctx).
		Model(&attemptModel{}).
		Where("attempt_id = ?", attempt.AttemptID).
		Updates(&row)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrAttemptNotFound
	}
	return nil
}

func (r *Repository) ListAttemptsByAccount(ctx context.Context, accountID string) ([]entities.PurchaseAttempt, error) {
	var rows []attemptModel
	err := r.db.WithContext(ctx).
		Where("account_id = ?", strings.TrimSpace(accountID)).
		Order("created_at ASC").
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}
	return attemptsFromModels(rows), nil
}

func (r *Repository) ListAttempts(ctx context.Context) ([]entities.PurchaseAttempt, error) {
	var rows []attemptModel
	err := r.db.WithContext(ctx).
		Order("created_at ASC").
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}
	return attemptsFromModels(rows), nil
}

func (r *Repository) AppendOutbox(ctx context.Context, envelope events.Envelope) error {
	payload, err := json.Marshal(envelope)
	if err != nil {
		return err
	}
	row := outboxModel{
		OutboxID:  uuid.NewString(),
		EventType: envelope.EventType,
		Payload:   payload,
		Status:    outboxStatusPending,
		CreatedAt: envelope.OccurredAtUTC,
	}
	return r.db.WithContext(ctx).Create(&row).Error
}

func (r *Repository) ListPendingOutbox(ctx context.Context, limit int) ([]ports.OutboxMessage, error) {
	if limit <= 0 {
		limit = 100
	}
	var rows []outboxModel
	err := r.db.WithContext(ctx).
		Where("status = ?", outboxStatusPending).
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}
	items := make([]ports.OutboxMessage, 0, len(rows))
	for _, row := range rows {
		items = append(items, ports.OutboxMessage{
			OutboxID:  row.OutboxID,
			EventType: row.EventType,
			Payload:   row.Payload,
			CreatedAt: row.CreatedAt,
		})
	}
	return items, nil
}

func (r *Repository) MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error {
	return r.db.WithContext(ctx).
		Model(&outboxModel{}).
		Where("outbox_id = ?", outboxID).
		Updates(map[string]any{
			"status":       outboxStatusPublished,
			"published_at": publishedAt,
		}).
		Error
}

type attemptModel struct {
	AttemptID    string     `gorm:"column:attempt_id;primaryKey"`
	AccountID    string     `gorm:"column:account_id;index"`
	PackageID    string     `gorm:"column:package_id"`
	SparksAmount int64      `gorm:"column:sparks_amount"`
	PriceCents   int64      `gorm:"column:price_cents"`
	Currency     string     `gorm:"column:currency"`
	Status       string     `gorm:"column:status"`
	ErrorReason  string     `gorm:"column:error_reason"`
	ErrorCode    string     `gorm:"column:error_code"`
	ExternalRef  string     `gorm:"column:external_ref"`
	RetryCount   int        `gorm:"column:retry_count"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
	UpdatedAt    time.Time  `gorm:"column:updated_at"`
	CompletedAt  *time.Time `gorm:"column:completed_at"`
}

func (attemptModel) TableName() string {
	return "purchase_attempts"
}

func attemptModelFromEntity(attempt entities.PurchaseAttempt) attemptModel {
	return attemptModel{
		AttemptID:    attempt.AttemptID,
		AccountID:    attempt.AccountID,
		PackageID:    attempt.PackageID,
		SparksAmount: attempt.SparksAmount,
		PriceCents:   attempt.PriceCents,
		Currency:     attempt.Currency,
		Status:       string(attempt.Status),
		ErrorReason:  attempt.ErrorReason,
		ErrorCode:    attempt.ErrorCode,
		ExternalRef:  attempt.ExternalRef,
		RetryCount:   attempt.RetryCount,
		CreatedAt:    attempt.CreatedAt,
		UpdatedAt:    attempt.UpdatedAt,
		CompletedAt:  attempt.CompletedAt,
	}
}

func (m attemptModel) toEntity() entities.PurchaseAttempt {
	return entities.PurchaseAttempt{
		AttemptID:    m.AttemptID,
		AccountID:    m.AccountID,
		PackageID:    m.PackageID,
		SparksAmount: m.SparksAmount,
		PriceCents:   m.PriceCents,
		Currency:     m.Currency,
		Status:       entities.Status(m.Status),
		ErrorReason:  m.ErrorReason,
		ErrorCode:    m.ErrorCode,
		ExternalRef:  m.ExternalRef,
		RetryCount:   m.RetryCount,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
		CompletedAt:  m.CompletedAt,
	}
}

func attemptsFromModels(rows []attemptModel) []entities.PurchaseAttempt {
	items := make([]entities.PurchaseAttempt, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items
}

type outboxModel struct {
	OutboxID    string     `gorm:"column:outbox_id;primaryKey"`
	EventType   string     `gorm:"column:event_type"`
	Payload     []byte     `gorm:"column:payload;type:jsonb"`
	Status      string     `gorm:"column:status"`
	CreatedAt   time.Time  `gorm:"column:created_at"`
	PublishedAt *time.Time `gorm:"column:published_at"`
}

func (outboxModel) TableName() string {
	return "purchase_outbox"
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

type UUIDGenerator struct{}

func (UUIDGenerator) NewID() string {
	return uuid.NewString()
}
