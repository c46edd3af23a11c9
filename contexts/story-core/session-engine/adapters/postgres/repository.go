package postgresadapter

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"taleforge/contexts/story-core/session-engine/domain/entities"
	domainerrors "taleforge/contexts/story-core/session-engine/domain/errors"
	"taleforge/contexts/story-core/session-engine/ports"
	"taleforge/internal/shared/events"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
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

func (r *Repository) CreateSession(ctx context.Context, session entities.Session) error {
	row, err := sessionModelFromEntity(session)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrInvalidStateTransition
		}
		return err
	}
	return nil
}

func (r *Repository) UpdateSession(ctx context.Context, session entities.Session) error {
	row, err := sessionModelFromEntity(session)
	if err != nil {
		return err
	}
	result := r.db.WithContext(ctx).
		Model(&sessionModel{}).
		Where("session_id = ?", session.SessionID).
		Updates(map[string]any{
			"status":             row.Status,
			"participants":       row.Participants,
			"current_turn_index": row.CurrentTurnIndex,
			"responses":          row.Responses,
			"updated_at":         row.UpdatedAt,
			"started_at":         row.StartedAt,
			"paused_at":          row.PausedAt,
			"resumed_at":         row.ResumedAt,
			"completed_at":       row.CompletedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrSessionNotFound
	}
	return nil
}

func (r *Repository) GetSession(ctx context.Context, sessionID string) (entities.Session, error) {
	var row sessionModel
	err := r.db.WithContext(ctx).
		Where("session_id = ?", strings.TrimSpace(sessionID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Session{}, domainerrors.ErrSessionNotFound
		}
		return entities.Session{}, err
	}
	return row.toEntity()
}

func (r *Repository) ListSessions(ctx context.Context, filter ports.SessionFilter) ([]entities.Session, error) {
	tx := r.db.WithContext(ctx).Model(&sessionModel{})
	if filter.HostID != "" {
		tx = tx.Where("host_id = ?", filter.HostID)
	}
	if filter.Status != "" {
		tx = tx.Where("status = ?", string(filter.Status))
	}

	var rows []sessionModel
	if err := tx.Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}

	items := make([]entities.Session, 0, len(rows))
	for _, row := range rows {
		session, err := row.toEntity()
		if err != nil {
			return nil, err
		}
		items = append(items, session)
	}
	return items, nil
}

func (r *Repository) UpsertDeadline(ctx context.Context, deadline entities.TurnDeadline) error {
	row := deadlineModel{
		SessionID: deadline.SessionID,
		TurnIndex: deadline.TurnIndex,
		ExpiresAt: deadline.ExpiresAt,
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "session_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"turn_index", "expires_at"}),
		}).
		Create(&row).
		Error
}

func (r *Repository) DeleteDeadline(ctx context.Context, sessionID string) error {
	return r.db.WithContext(ctx).
		Where("session_id = ?", strings.TrimSpace(sessionID)).
		Delete(&deadlineModel{}).
		Error
}

func (r *Repository) ListExpiredDeadlines(ctx context.Context, now time.Time, limit int) ([]entities.TurnDeadline, error) {
	if limit <= 0 {
		limit = 100
	}
	var rows []deadlineModel
	err := r.db.WithContext(ctx).
		Where("expires_at <= ?", now).
		Order("expires_at ASC").
		Limit(limit).
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}
	items := make([]entities.TurnDeadline, 0, len(rows))
	for _, row := range rows {
		items = append(items, entities.TurnDeadline{
			SessionID: row.SessionID,
			TurnIndex: row.TurnIndex,
			ExpiresAt: row.ExpiresAt,
		})
	}
	return items, nil
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

type sessionModel struct {
	SessionID        string     `gorm:"column:session_id;primaryKey"`
	HostID           string     `gorm:"column:host_id"`
	Title            string     `gorm:"column:title"`
	Genre            string     `gorm:"column:genre"`
	TemplateID       string     `gorm:"column:template_id"`
	Status           string     `gorm:"column:status"`
	Participants     []string   `gorm:"column:participants;type:text[]"`
	CurrentTurnIndex int        `gorm:"column:current_turn_index"`
	TotalTurns       int        `gorm:"column:total_turns"`
	Responses        []byte     `gorm:"column:responses;type:jsonb"`
	TurnSeconds      int        `gorm:"column:turn_seconds"`
	CreatedAt        time.Time  `gorm:"column:created_at"`
	UpdatedAt        time.Time  `gorm:"column:updated_at"`
	StartedAt        *time.Time `gorm:"column:started_at"`
	PausedAt         *time.Time `gorm:"column:paused_at"`
	ResumedAt        *time.Time `gorm:"column:resumed_at"`
	CompletedAt      *time.Time `gorm:"column:completed_at"`
}

func (sessionModel) TableName() string {
	return "story_sessions"
}

type responseRecord struct {
	BlankIndex    int       `json:"blank_index"`
	Tag           string    `json:"tag"`
	Text          string    `json:"text"`
	ContributorID string    `json:"contributor_id"`
	SubmittedAt   time.Time `json:"submitted_at"`
	Origin        string    `json:"origin"`
}

func sessionModelFromEntity(session entities.Session) (sessionModel, error) {
	records := make([]responseRecord, 0, len(session.Responses))
	for _, response := range session.Responses {
		records = append(records, responseRecord{
			BlankIndex:    response.BlankIndex,
			Tag:           response.Tag,
			Text:          response.Text,
			ContributorID: response.ContributorID,
			SubmittedAt:   response.SubmittedAt,
			Origin:        string(response.Origin),
		})
	}
	responses, err := json.Marshal(records)
	if err != nil {
		return sessionModel{}, err
	}
	return sessionModel{
		SessionID:        session.SessionID,
		HostID:           session.HostID,
		Title:            session.Title,
		Genre:            session.Genre,
		TemplateID:       session.TemplateID,
		Status:           string(session.Status),
		Participants:     append([]string(nil), session.Participants...),
		CurrentTurnIndex: session.CurrentTurnIndex,
		TotalTurns:       session.TotalTurns,
		Responses:        responses,
		TurnSeconds:      session.TurnSeconds,
		CreatedAt:        session.CreatedAt,
		UpdatedAt:        session.UpdatedAt,
		StartedAt:        session.StartedAt,
		PausedAt:         session.PausedAt,
		ResumedAt:        session.ResumedAt,
		CompletedAt:      session.CompletedAt,
	}, nil
}

func (m sessionModel) toEntity() (entities.Session, error) {
	var records []responseRecord
	if len(m.Responses) > 0 {
		if err := json.Unmarshal(m.Responses, &records); err != nil {
			return entities.Session{}, err
		}
	}
	responses := make([]entities.TurnResponse, 0, len(records))
	for _, record := range records {
		responses = append(responses, entities.TurnResponse{
			BlankIndex:    record.BlankIndex,
			Tag:           record.Tag,
			Text:          record.Text,
			ContributorID: record.ContributorID,
			SubmittedAt:   record.SubmittedAt,
			Origin:        entities.ResponseOrigin(record.Origin),
		})
	}
	return entities.Session{
		SessionID:        m.SessionID,
		HostID:           m.HostID,
		Title:            m.Title,
		Genre:            m.Genre,
		TemplateID:       m.TemplateID,
		Status:           entities.SessionStatus(m.Status),
		Participants:     append([]string(nil), m.Participants...),
		CurrentTurnIndex: m.CurrentTurnIndex,
		TotalTurns:       m.TotalTurns,
		Responses:        responses,
		TurnSeconds:      m.TurnSeconds,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
		StartedAt:        m.StartedAt,
		PausedAt:         m.PausedAt,
		ResumedAt:        m.ResumedAt,
		CompletedAt:      m.CompletedAt,
	}, nil
}

type deadlineModel struct {
	SessionID string    `gorm:"column:session_id;primaryKey"`
	TurnIndex int       `gorm:"column:turn_index"`
	ExpiresAt time.Time `gorm:"column:expires_at"`
}

func (deadlineModel) TableName() string {
	return "story_turn_deadlines"
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
	return "story_session_outbox"
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

// UUIDGenerator creates stable UUIDv4 identifiers for sessions and events.
type UUIDGenerator struct{}

func (UUIDGenerator) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}
