package ports

import (
	"context"
	"time"

	"taleforge/contexts/story-core/conversion-pipeline/domain/entities"
)

type ConversionRepository interface {
	CreateConversion(ctx context.Context, conversion entities.Conversion) error
	ListConversionsBySession(ctx context.Context, sessionID string) ([]entities.Conversion, error)
}

// StoryProvider hands the pipeline a completed story snapshot. Sessions that
// are not completed yet surface ErrStoryNotReady.
type StoryProvider interface {
	CompletedStory(ctx context.Context, sessionID string) (entities.Story, error)
}

// SparksAccounts is the pipeline's narrow view of the ledger: debit before a
// transform, credit back when the transform or persist fails after payment.
type SparksAccounts interface {
	Debit(ctx context.Context, ownerID string, amount int64, reason string, reference string) error
	Credit(ctx context.Context, ownerID string, amount int64, reason string, reference string) error
}

// TemplateSeeder registers the bracket template a generative transformer
// emits and returns the new template id.
type TemplateSeeder interface {
	SeedTemplate(ctx context.Context, title string, genre string, text string) (string, error)
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID() string
}
