package ports

import (
	"context"
	"time"

	"taleforge/contexts/story-core/session-engine/domain/entities"
	"taleforge/internal/shared/events"
)

type SessionFilter struct {
	HostID string
	Status entities.SessionStatus
}

type SessionRepository interface {
	CreateSession(ctx context.Context, session entities.Session) error
	UpdateSession(ctx context.Context, session entities.Session) error
	GetSession(ctx context.Context, sessionID string) (entities.Session, error)
	ListSessions(ctx context.Context, filter SessionFilter) ([]entities.Session, error)
}

// DeadlineRepository persists the current turn's countdown so a sweep can
// expire turns the in-process scheduler missed across restarts.
type DeadlineRepository interface {
	UpsertDeadline(ctx context.Context, deadline entities.TurnDeadline) error
	DeleteDeadline(ctx context.Context, sessionID string) error
	ListExpiredDeadlines(ctx context.Context, now time.Time, limit int) ([]entities.TurnDeadline, error)
}

// TemplateCatalog reads templates from the library context as engine-local
// snapshots.
type TemplateCatalog interface {
	GetTemplate(ctx context.Context, templateID string) (entities.TemplateSnapshot, error)
}

// TurnScheduler owns at most one pending countdown per session: Schedule
// replaces any earlier countdown, Cancel drops it.
type TurnScheduler interface {
	Schedule(sessionID string, turnIndex int, fireIn time.Duration)
	Cancel(sessionID string)
}

// AssistGenerator produces a single fill for a blank's semantic tag.
type AssistGenerator interface {
	GenerateWord(ctx context.Context, tag string, genre string) (string, error)
}

// SparksAccounts is the engine's narrow view of the ledger: debit before an
// assisted fill, credit back when generation fails after payment.
type SparksAccounts interface {
	Debit(ctx context.Context, ownerID string, amount int64, reason string, reference string) error
	Credit(ctx context.Context, ownerID string, amount int64, reason string, reference string) error
}

type OutboxMessage struct {
	OutboxID  string
	EventType string
	Payload   []byte
	CreatedAt time.Time
}

type OutboxWriter interface {
	AppendOutbox(ctx context.Context, envelope events.Envelope) error
}

type OutboxRepository interface {
	ListPendingOutbox(ctx context.Context, limit int) ([]OutboxMessage, error)
	MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error
}

type EventPublisher interface {
	Publish(ctx context.Context, topic string, event events.Envelope) error
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
