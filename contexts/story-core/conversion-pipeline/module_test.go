package conversionpipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	sparksledger "taleforge/contexts/economy-core/sparks-ledger"
	sparkserrors "taleforge/contexts/economy-core/sparks-ledger/domain/errors"
	sparkstransport "taleforge/contexts/economy-core/sparks-ledger/transport/http"
	"taleforge/contexts/story-core/conversion-pipeline/adapters/ledger"
	"taleforge/contexts/story-core/conversion-pipeline/adapters/seeder"
	"taleforge/contexts/story-core/conversion-pipeline/adapters/story"
	"taleforge/contexts/story-core/conversion-pipeline/domain/entities"
	domainerrors "taleforge/contexts/story-core/conversion-pipeline/domain/errors"
	httptransport "taleforge/contexts/story-core/conversion-pipeline/transport/http"
	sessionengine "taleforge/contexts/story-core/session-engine"
	sessioncatalog "taleforge/contexts/story-core/session-engine/adapters/catalog"
	sessionledger "taleforge/contexts/story-core/session-engine/adapters/ledger"
	sessiontransport "taleforge/contexts/story-core/session-engine/transport/http"
	templatelibrary "taleforge/contexts/story-core/template-library"
	templatetransport "taleforge/contexts/story-core/template-library/transport/http"
)

type testEnv struct {
	templates templatelibrary.Module
	sparks    sparksledger.Module
	engine    sessionengine.Module
	pipeline  Module
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	templates := templatelibrary.NewInMemoryModule(nil)
	sparks := sparksledger.NewInMemoryModule(nil)
	engine := sessionengine.NewInMemoryModule(
		sessioncatalog.LibraryCatalog{Templates: templates.Store},
		sessionledger.SparksAccounts{Service: sparks.Service},
		10,
		nil,
	)
	pipeline := NewInMemoryModule(
		story.EngineStories{Assemble: engine.Handler.AssembleStory},
		ledger.SparksAccounts{Service: sparks.Service},
		seeder.LibrarySeeder{Register: templates.Handler.RegisterTemplate},
		nil,
	)
	return &testEnv{templates: templates, sparks: sparks, engine: engine, pipeline: pipeline}
}

func (env *testEnv) openAccount(t *testing.T, ownerID string, opening int64) {
	t.Helper()
	if _, err := env.sparks.Handler.OpenAccountHandler(context.Background(), sparkstransport.OpenAccountRequest{
		OwnerID: ownerID,
		Opening: opening,
	}); err != nil {
		t.Fatalf("open account failed: %v", err)
	}
}

// completedSession runs a full game over a two-blank template and returns
// the session id of the completed story "The brave pirate greeted a friend."
func (env *testEnv) completedSession(t *testing.T) string {
	t.Helper()
	template, err := env.templates.Handler.RegisterTemplateHandler(context.Background(), templatetransport.RegisterTemplateRequest{
		Title: "Dockside Tales",
		Genre: "adventure",
		Text:  "The [ADJECTIVE] pirate greeted a [NOUN].",
	})
	if err != nil {
		t.Fatalf("register template failed: %v", err)
	}
	turnSeconds := 0
	created, err := env.engine.Handler.CreateSessionHandler(context.Background(), "host-1", sessiontransport.CreateSessionRequest{
		Title:       "Dockside Tales",
		TemplateID:  template.Template.TemplateID,
		TurnSeconds: &turnSeconds,
	})
	if err != nil {
		t.Fatalf("create session failed: %v", err)
	}
	sessionID := created.Session.SessionID
	if _, err := env.engine.Handler.StartSessionHandler(context.Background(), sessionID); err != nil {
		t.Fatalf("start session failed: %v", err)
	}
	for i, word := range []string{"brave", "friend"} {
		if _, err := env.engine.Handler.SubmitTurnHandler(context.Background(), sessionID, sessiontransport.SubmitTurnRequest{
			ContributorID: "alice",
			Text:          word,
			TurnIndex:     i,
		}); err != nil {
			t.Fatalf("submit %q failed: %v", word, err)
		}
	}
	return sessionID
}

func TestListTransformersSortedByID(t *testing.T) {
	env := newTestEnv(t)
	catalog := env.pipeline.Handler.ListTransformersHandler(context.Background())
	if len(catalog.Items) != 15 {
		t.Fatalf("expected 15 transformers, got %d", len(catalog.Items))
	}
	for i := 1; i < len(catalog.Items); i++ {
		if catalog.Items[i-1].TransformerID >= catalog.Items[i].TransformerID {
			t.Fatalf("catalog not sorted at %d: %s >= %s", i, catalog.Items[i-1].TransformerID, catalog.Items[i].TransformerID)
		}
	}
	costs := map[string]int64{}
	kinds := map[string]string{}
	for _, item := range catalog.Items {
		costs[item.TransformerID] = item.Cost
		kinds[item.TransformerID] = item.Kind
	}
	if costs["haiku"] != 25 || costs["shakespeare"] != 80 || costs["sequel"] != 100 {
		t.Fatalf("unexpected costs %v", costs)
	}
	if kinds["pirate"] != "rewrite" || kinds["alternate"] != "generative" {
		t.Fatalf("unexpected kinds %v", kinds)
	}
}

func TestRequestConversionDebitsAndPersists(t *testing.T) {
	env := newTestEnv(t)
	env.openAccount(t, "bob", 100)
	sessionID := env.completedSession(t)

	converted, err := env.pipeline.Handler.RequestConversionHandler(context.Background(), sessionID, httptransport.RequestConversionRequest{
		TransformerID: "pirate",
		AccountID:     "bob",
	})
	if err != nil {
		t.Fatalf("conversion failed: %v", err)
	}
	if !strings.HasPrefix(converted.Conversion.Output, "Ahoy! ") || !strings.Contains(converted.Conversion.Output, "matey") {
		t.Fatalf("unexpected pirate output %q", converted.Conversion.Output)
	}
	if converted.Conversion.Cost != 45 || converted.Conversion.SeededTemplateID != "" {
		t.Fatalf("unexpected conversion %+v", converted.Conversion)
	}

	account, err := env.sparks.Handler.GetAccountHandler(context.Background(), "bob")
	if err != nil {
		t.Fatalf("get account failed: %v", err)
	}
	if account.Account.Balance != 55 {
		t.Fatalf("expected balance 55 after debit, got %d", account.Account.Balance)
	}

	listed, err := env.pipeline.Handler.ListConversionsHandler(context.Background(), sessionID)
	if err != nil {
		t.Fatalf("list conversions failed: %v", err)
	}
	if len(listed.Items) != 1 || listed.Items[0].ConversionID != converted.Conversion.ConversionID {
		t.Fatalf("unexpected conversion list %+v", listed.Items)
	}
}

func TestRequestConversionValidation(t *testing.T) {
	env := newTestEnv(t)
	env.openAccount(t, "bob", 500)
	sessionID := env.completedSession(t)

	_, err := env.pipeline.Handler.RequestConversionHandler(context.Background(), sessionID, httptransport.RequestConversionRequest{
		TransformerID: "interpretive_dance",
		AccountID:     "bob",
	})
	if !errors.Is(err, domainerrors.ErrTransformerNotFound) {
		t.Fatalf("expected transformer not found, got %v", err)
	}

	_, err = env.pipeline.Handler.RequestConversionHandler(context.Background(), "sess-missing", httptransport.RequestConversionRequest{
		TransformerID: "pirate",
		AccountID:     "bob",
	})
	if !errors.Is(err, domainerrors.ErrSessionNotFound) {
		t.Fatalf("expected session not found, got %v", err)
	}

	// An in-flight session has no story to convert yet.
	template, err := env.templates.Handler.RegisterTemplateHandler(context.Background(), templatetransport.RegisterTemplateRequest{
		Title: "Unfinished",
		Genre: "comedy",
		Text:  "A [NOUN].",
	})
	if err != nil {
		t.Fatalf("register template failed: %v", err)
	}
	turnSeconds := 0
	created, err := env.engine.Handler.CreateSessionHandler(context.Background(), "host-1", sessiontransport.CreateSessionRequest{
		Title:       "Unfinished",
		TemplateID:  template.Template.TemplateID,
		TurnSeconds: &turnSeconds,
	})
	if err != nil {
		t.Fatalf("create session failed: %v", err)
	}
	_, err = env.pipeline.Handler.RequestConversionHandler(context.Background(), created.Session.SessionID, httptransport.RequestConversionRequest{
		TransformerID: "pirate",
		AccountID:     "bob",
	})
	if !errors.Is(err, domainerrors.ErrStoryNotReady) {
		t.Fatalf("expected story not ready, got %v", err)
	}
}

func TestRequestConversionInsufficientSparks(t *testing.T) {
	env := newTestEnv(t)
	env.openAccount(t, "bob", 10)
	sessionID := env.completedSession(t)

	_, err := env.pipeline.Handler.RequestConversionHandler(context.Background(), sessionID, httptransport.RequestConversionRequest{
		TransformerID: "pirate",
		AccountID:     "bob",
	})
	shortfall, ok := sparkserrors.IsInsufficientSparks(err)
	if !ok {
		t.Fatalf("expected insufficient sparks, got %v", err)
	}
	if shortfall.AmountNeeded != 35 {
		t.Fatalf("expected shortfall 35, got %d", shortfall.AmountNeeded)
	}

	account, err := env.sparks.Handler.GetAccountHandler(context.Background(), "bob")
	if err != nil {
		t.Fatalf("get account failed: %v", err)
	}
	if account.Account.Balance != 10 {
		t.Fatalf("declined conversion must not touch the balance, got %d", account.Account.Balance)
	}
	listed, err := env.pipeline.Handler.ListConversionsHandler(context.Background(), sessionID)
	if err != nil {
		t.Fatalf("list conversions failed: %v", err)
	}
	if len(listed.Items) != 0 {
		t.Fatalf("declined conversion must not persist, got %+v", listed.Items)
	}
}

func TestConversionIsDeterministic(t *testing.T) {
	env := newTestEnv(t)
	env.openAccount(t, "bob", 500)
	sessionID := env.completedSession(t)

	first, err := env.pipeline.Handler.RequestConversionHandler(context.Background(), sessionID, httptransport.RequestConversionRequest{
		TransformerID: "shakespeare",
		AccountID:     "bob",
	})
	if err != nil {
		t.Fatalf("first conversion failed: %v", err)
	}
	second, err := env.pipeline.Handler.RequestConversionHandler(context.Background(), sessionID, httptransport.RequestConversionRequest{
		TransformerID: "shakespeare",
		AccountID:     "bob",
	})
	if err != nil {
		t.Fatalf("second conversion failed: %v", err)
	}
	if first.Conversion.Output != second.Conversion.Output {
		t.Fatalf("rewrite transformers must be pure:\n%q\n%q", first.Conversion.Output, second.Conversion.Output)
	}
}

func TestGenerativeConversionSeedsTemplate(t *testing.T) {
	env := newTestEnv(t)
	env.openAccount(t, "bob", 200)
	sessionID := env.completedSession(t)

	converted, err := env.pipeline.Handler.RequestConversionHandler(context.Background(), sessionID, httptransport.RequestConversionRequest{
		TransformerID: "sequel",
		AccountID:     "bob",
	})
	if err != nil {
		t.Fatalf("sequel conversion failed: %v", err)
	}
	if converted.Conversion.SeededTemplateID == "" {
		t.Fatalf("sequel must seed a library template, got %+v", converted.Conversion)
	}

	seeded, err := env.templates.Handler.GetTemplateHandler(context.Background(), converted.Conversion.SeededTemplateID)
	if err != nil {
		t.Fatalf("seeded template lookup failed: %v", err)
	}
	if seeded.Template.Title != "Dockside Tales: The Sequel" || seeded.Template.Genre != "adventure" {
		t.Fatalf("unexpected seeded template %+v", seeded.Template)
	}
	if seeded.Template.BlankCount == 0 {
		t.Fatalf("seeded template must contain blanks")
	}

	account, err := env.sparks.Handler.GetAccountHandler(context.Background(), "bob")
	if err != nil {
		t.Fatalf("get account failed: %v", err)
	}
	if account.Account.Balance != 100 {
		t.Fatalf("expected balance 100 after sequel, got %d", account.Account.Balance)
	}
}

type failingConversionRepo struct{}

func (failingConversionRepo) CreateConversion(context.Context, entities.Conversion) error {
	return fmt.Errorf("disk full")
}

func (failingConversionRepo) ListConversionsBySession(context.Context, string) ([]entities.Conversion, error) {
	return nil, nil
}

type fixedIDs struct{}

func (fixedIDs) NewID() string { return "conv-1" }

func TestRequestConversionRefundsOnPersistFailure(t *testing.T) {
	env := newTestEnv(t)
	env.openAccount(t, "bob", 100)
	sessionID := env.completedSession(t)

	broken := NewModule(Dependencies{
		Conversions: failingConversionRepo{},
		Stories:     story.EngineStories{Assemble: env.engine.Handler.AssembleStory},
		Sparks:      ledger.SparksAccounts{Service: env.sparks.Service},
		Seeder:      seeder.LibrarySeeder{Register: env.templates.Handler.RegisterTemplate},
		Clock:       env.pipeline.Store,
		IDGen:       fixedIDs{},
	})

	_, err := broken.Handler.RequestConversionHandler(context.Background(), sessionID, httptransport.RequestConversionRequest{
		TransformerID: "pirate",
		AccountID:     "bob",
	})
	if !errors.Is(err, domainerrors.ErrConversionFailed) {
		t.Fatalf("expected conversion failure, got %v", err)
	}

	account, err := env.sparks.Handler.GetAccountHandler(context.Background(), "bob")
	if err != nil {
		t.Fatalf("get account failed: %v", err)
	}
	if account.Account.Balance != 100 {
		t.Fatalf("expected refunded balance 100, got %d", account.Account.Balance)
	}
	entries, err := env.sparks.Handler.ListEntriesHandler(context.Background(), "bob")
	if err != nil {
		t.Fatalf("list entries failed: %v", err)
	}
	last := entries.Items[len(entries.Items)-1]
	if last.Reason != "conversion_refund" || last.Delta != 45 {
		t.Fatalf("expected refund entry, got %+v", last)
	}
}
