package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"taleforge/contexts/story-core/conversion-pipeline/domain/entities"
	domainerrors "taleforge/contexts/story-core/conversion-pipeline/domain/errors"
	"taleforge/contexts/story-core/conversion-pipeline/domain/services"
	"taleforge/contexts/story-core/conversion-pipeline/ports"
)

const (
	reasonConversion = "story_conversion"
	reasonRefund     = "conversion_refund"
)

type Service struct {
	Conversions ports.ConversionRepository
	Stories     ports.StoryProvider
	Sparks      ports.SparksAccounts
	Seeder      ports.TemplateSeeder
	Clock       ports.Clock
	IDGen       ports.IDGenerator
	Logger      *slog.Logger
}

// RequestConversion debits the account, runs the transformer, and persists
// the output. Any failure after the debit is compensated with a refund
// entry before the error is surfaced.
func (s Service) RequestConversion(ctx context.Context, sessionID string, transformerID string, accountID string) (entities.Conversion, error) {
	logger := ResolveLogger(s.Logger)
	sessionID = strings.TrimSpace(sessionID)
	accountID = strings.TrimSpace(accountID)

	transformer, ok := services.Lookup(transformerID)
	if !ok {
		return entities.Conversion{}, domainerrors.ErrTransformerNotFound
	}
	story, err := s.Stories.CompletedStory(ctx, sessionID)
	if err != nil {
		return entities.Conversion{}, err
	}

	if err := s.Sparks.Debit(ctx, accountID, transformer.Cost, reasonConversion, sessionID); err != nil {
		return entities.Conversion{}, err
	}

	output, err := transformer.Transform(story)
	if err != nil {
		s.refund(ctx, accountID, transformer.Cost, sessionID, logger)
		return entities.Conversion{}, fmt.Errorf("%w: %v", domainerrors.ErrConversionFailed, err)
	}

	seededTemplateID := ""
	if transformer.Kind == services.KindGenerative {
		seededTemplateID, err = s.Seeder.SeedTemplate(ctx, services.SeedTitle(transformer.ID, story.Title), story.Genre, output)
		if err != nil {
			s.refund(ctx, accountID, transformer.Cost, sessionID, logger)
			return entities.Conversion{}, fmt.Errorf("%w: %v", domainerrors.ErrConversionFailed, err)
		}
	}

	conversion := entities.Conversion{
		ConversionID:     s.IDGen.NewID(),
		SessionID:        sessionID,
		TransformerID:    transformer.ID,
		AccountID:        accountID,
		Output:           output,
		SeededTemplateID: seededTemplateID,
		Cost:             transformer.Cost,
		CreatedAt:        s.Clock.Now().UTC(),
	}
	if err := s.Conversions.CreateConversion(ctx, conversion); err != nil {
		s.refund(ctx, accountID, transformer.Cost, sessionID, logger)
		return entities.Conversion{}, fmt.Errorf("%w: %v", domainerrors.ErrConversionFailed, err)
	}

	logger.Info("story converted",
		"event", "story_converted",
		"module", "story-core/conversion-pipeline",
		"layer", "application",
		"conversion_id", conversion.ConversionID,
		"session_id", sessionID,
		"transformer_id", transformer.ID,
		"account_id", accountID,
		"cost", transformer.Cost,
		"seeded_template_id", seededTemplateID,
	)
	return conversion, nil
}

func (s Service) refund(ctx context.Context, accountID string, amount int64, sessionID string, logger *slog.Logger) {
	if err := s.Sparks.Credit(ctx, accountID, amount, reasonRefund, sessionID); err != nil {
		logger.Error("conversion refund failed",
			"event", "conversion_refund_failed",
			"module", "story-core/conversion-pipeline",
			"layer", "application",
			"account_id", accountID,
			"session_id", sessionID,
			"amount", amount,
			"error", err.Error(),
		)
	}
}

// ListTransformers returns the purchasable catalog sorted by id.
func (s Service) ListTransformers() []services.Transformer {
	return services.Catalog()
}

func (s Service) ListConversions(ctx context.Context, sessionID string) ([]entities.Conversion, error) {
	return s.Conversions.ListConversionsBySession(ctx, strings.TrimSpace(sessionID))
}
