package templatelibrary

import (
	"context"
	"errors"
	"testing"

	"taleforge/contexts/story-core/template-library/domain/entities"
	domainerrors "taleforge/contexts/story-core/template-library/domain/errors"
	httptransport "taleforge/contexts/story-core/template-library/transport/http"
)

func TestParseSegmentsOrdersBlanks(t *testing.T) {
	segments := entities.ParseSegments("It was a [ADJECTIVE] night at the [PLACE].")
	if len(segments) != 5 {
		t.Fatalf("expected 5 segments, got %d", len(segments))
	}
	if segments[0].Literal != "It was a " {
		t.Fatalf("unexpected leading literal %q", segments[0].Literal)
	}
	if segments[1].Tag != "ADJECTIVE" || segments[1].BlankIndex != 0 {
		t.Fatalf("unexpected first blank %+v", segments[1])
	}
	if segments[3].Tag != "PLACE" || segments[3].BlankIndex != 1 {
		t.Fatalf("unexpected second blank %+v", segments[3])
	}
	if segments[4].Literal != "." {
		t.Fatalf("unexpected trailing literal %q", segments[4].Literal)
	}
}

func TestParseSegmentsRoundTripsThroughText(t *testing.T) {
	source := "The [ADJECTIVE] [NOUN] decided to [VERB] at [PLACE]."
	template := entities.Template{Segments: entities.ParseSegments(source)}
	if template.Text() != source {
		t.Fatalf("round trip mismatch: %q", template.Text())
	}
	if template.BlankCount() != 4 {
		t.Fatalf("expected 4 blanks, got %d", template.BlankCount())
	}
}

func TestParseSegmentsTreatsEmptyBracketsAsLiteral(t *testing.T) {
	segments := entities.ParseSegments("array[] access with a [NOUN]")
	if len(segments) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(segments))
	}
	if segments[0].Literal != "array[] access with a " {
		t.Fatalf("unexpected literal %q", segments[0].Literal)
	}
	if segments[1].Tag != "NOUN" {
		t.Fatalf("unexpected tag %q", segments[1].Tag)
	}
}

func TestRegisterTemplateValidation(t *testing.T) {
	module := NewInMemoryModule(nil)

	_, err := module.Handler.RegisterTemplateHandler(context.Background(), httptransport.RegisterTemplateRequest{
		Title: "No Blanks",
		Genre: "comedy",
		Text:  "A story with no blanks at all.",
	})
	if !errors.Is(err, domainerrors.ErrNoBlanks) {
		t.Fatalf("expected no-blanks error, got %v", err)
	}

	_, err = module.Handler.RegisterTemplateHandler(context.Background(), httptransport.RegisterTemplateRequest{
		Title: "Bad Genre",
		Genre: "tax-law",
		Text:  "The [NOUN] objected.",
	})
	if !errors.Is(err, domainerrors.ErrUnsupportedGenre) {
		t.Fatalf("expected unsupported genre error, got %v", err)
	}
}

func TestRegisterAndFetchTemplate(t *testing.T) {
	module := NewInMemoryModule(nil)

	created, err := module.Handler.RegisterTemplateHandler(context.Background(), httptransport.RegisterTemplateRequest{
		Title:      "The Lost Sandwich",
		Genre:      "Comedy",
		Difficulty: "easy",
		Text:       "Someone left a [ADJECTIVE] sandwich in the [PLACE].",
		Tags:       []string{"office"},
	})
	if err != nil {
		t.Fatalf("register template failed: %v", err)
	}
	if created.Template.BlankCount != 2 {
		t.Fatalf("expected 2 blanks, got %d", created.Template.BlankCount)
	}
	if created.Template.Genre != "comedy" {
		t.Fatalf("expected normalized genre, got %q", created.Template.Genre)
	}

	fetched, err := module.Handler.GetTemplateHandler(context.Background(), created.Template.TemplateID)
	if err != nil {
		t.Fatalf("get template failed: %v", err)
	}
	if fetched.Template.Title != "The Lost Sandwich" {
		t.Fatalf("unexpected title %q", fetched.Template.Title)
	}
}

func TestListTemplatesFiltersPrebuiltCatalog(t *testing.T) {
	module := NewInMemoryModule(nil)

	all, err := module.Handler.ListTemplatesHandler(context.Background(), "", "")
	if err != nil {
		t.Fatalf("list templates failed: %v", err)
	}
	if len(all.Items) == 0 {
		t.Fatalf("expected prebuilt catalog to be seeded")
	}

	mysteries, err := module.Handler.ListTemplatesHandler(context.Background(), "mystery", "")
	if err != nil {
		t.Fatalf("list mystery templates failed: %v", err)
	}
	for _, item := range mysteries.Items {
		if item.Genre != "mystery" {
			t.Fatalf("filter leaked genre %q", item.Genre)
		}
	}
	if len(mysteries.Items) == 0 {
		t.Fatalf("expected at least one mystery template")
	}
}

func TestGetMissingTemplate(t *testing.T) {
	module := NewInMemoryModule(nil)

	_, err := module.Handler.GetTemplateHandler(context.Background(), "tmpl-missing")
	if !errors.Is(err, domainerrors.ErrTemplateNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
