package sessionengine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	sparksledger "taleforge/contexts/economy-core/sparks-ledger"
	sparkserrors "taleforge/contexts/economy-core/sparks-ledger/domain/errors"
	sparkstransport "taleforge/contexts/economy-core/sparks-ledger/transport/http"
	"taleforge/contexts/story-core/session-engine/adapters/catalog"
	"taleforge/contexts/story-core/session-engine/adapters/ledger"
	"taleforge/contexts/story-core/session-engine/adapters/memory"
	"taleforge/contexts/story-core/session-engine/domain/entities"
	domainerrors "taleforge/contexts/story-core/session-engine/domain/errors"
	httptransport "taleforge/contexts/story-core/session-engine/transport/http"
	templatelibrary "taleforge/contexts/story-core/template-library"
	templatetransport "taleforge/contexts/story-core/template-library/transport/http"
)

type testEnv struct {
	templates templatelibrary.Module
	sparks    sparksledger.Module
	engine    Module
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	templates := templatelibrary.NewInMemoryModule(nil)
	sparks := sparksledger.NewInMemoryModule(nil)
	engine := NewInMemoryModule(
		catalog.LibraryCatalog{Templates: templates.Store},
		ledger.SparksAccounts{Service: sparks.Service},
		10,
		nil,
	)
	return &testEnv{templates: templates, sparks: sparks, engine: engine}
}

func (env *testEnv) registerTemplate(t *testing.T, text string) string {
	t.Helper()
	created, err := env.templates.Handler.RegisterTemplateHandler(context.Background(), templatetransport.RegisterTemplateRequest{
		Title: "Test Template",
		Genre: "comedy",
		Text:  text,
	})
	if err != nil {
		t.Fatalf("register template failed: %v", err)
	}
	return created.Template.TemplateID
}

func (env *testEnv) createActiveSession(t *testing.T, templateID string, turnSeconds int) httptransport.SessionDTO {
	t.Helper()
	created, err := env.engine.Handler.CreateSessionHandler(context.Background(), "host-1", httptransport.CreateSessionRequest{
		Title:       "Game Night",
		TemplateID:  templateID,
		TurnSeconds: &turnSeconds,
	})
	if err != nil {
		t.Fatalf("create session failed: %v", err)
	}
	started, err := env.engine.Handler.StartSessionHandler(context.Background(), created.Session.SessionID)
	if err != nil {
		t.Fatalf("start session failed: %v", err)
	}
	return started.Session
}

func TestSessionLifecycleAssemblesStory(t *testing.T) {
	env := newTestEnv(t)
	templateID := env.registerTemplate(t, "The [ADJECTIVE] chef dropped the [NOUN].")
	session := env.createActiveSession(t, templateID, 0)

	if session.Status != "active" || session.TotalTurns != 2 {
		t.Fatalf("unexpected started session %+v", session)
	}

	first, err := env.engine.Handler.SubmitTurnHandler(context.Background(), session.SessionID, httptransport.SubmitTurnRequest{
		ContributorID: "alice",
		Text:          "frantic",
	})
	if err != nil {
		t.Fatalf("first submit failed: %v", err)
	}
	if first.Session.CurrentTurnIndex != 1 || len(first.Session.Responses) != 1 {
		t.Fatalf("responses must track the turn index, got %+v", first.Session)
	}
	if first.Session.Responses[0].Tag != "ADJECTIVE" {
		t.Fatalf("unexpected tag %q", first.Session.Responses[0].Tag)
	}

	last, err := env.engine.Handler.SubmitTurnHandler(context.Background(), session.SessionID, httptransport.SubmitTurnRequest{
		ContributorID: "bob",
		Text:          "soup tureen",
		TurnIndex:     1,
	})
	if err != nil {
		t.Fatalf("last submit failed: %v", err)
	}
	if last.Session.Status != "completed" || last.Session.CompletedAt == nil {
		t.Fatalf("expected completed session, got %+v", last.Session)
	}

	story, err := env.engine.Handler.GetStoryHandler(context.Background(), session.SessionID)
	if err != nil {
		t.Fatalf("get story failed: %v", err)
	}
	want := "The frantic chef dropped the soup tureen."
	if story.Text != want {
		t.Fatalf("assembled story mismatch: %q", story.Text)
	}
	again, err := env.engine.Handler.GetStoryHandler(context.Background(), session.SessionID)
	if err != nil || again.Text != story.Text {
		t.Fatalf("assembly must be stable, got %q (%v)", again.Text, err)
	}

	// Contributors joined on first submission, host first.
	if len(story.Contributors) != 3 || story.Contributors[0] != "host-1" {
		t.Fatalf("unexpected contributors %v", story.Contributors)
	}

	// Completed sessions are immutable.
	if _, err := env.engine.Handler.SubmitTurnHandler(context.Background(), session.SessionID, httptransport.SubmitTurnRequest{
		ContributorID: "carol",
		Text:          "late",
	}); !errors.Is(err, domainerrors.ErrInvalidStateTransition) {
		t.Fatalf("expected invalid transition on completed session, got %v", err)
	}

	pending, err := env.engine.Store.ListPendingOutbox(context.Background(), 0)
	if err != nil {
		t.Fatalf("list outbox failed: %v", err)
	}
	counts := map[string]int{}
	for _, row := range pending {
		counts[row.EventType]++
	}
	if counts["session.started"] != 1 || counts["session.turnSubmitted"] != 2 || counts["session.completed"] != 1 {
		t.Fatalf("unexpected outbox event counts %v", counts)
	}
}

func TestCreateSessionValidation(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.engine.Handler.CreateSessionHandler(context.Background(), "host-1", httptransport.CreateSessionRequest{
		Title:      "Missing",
		TemplateID: "tmpl-unknown",
	})
	if !errors.Is(err, domainerrors.ErrTemplateNotFound) {
		t.Fatalf("expected template not found, got %v", err)
	}

	templateID := env.registerTemplate(t, "A [NOUN].")
	badSeconds := 45
	_, err = env.engine.Handler.CreateSessionHandler(context.Background(), "host-1", httptransport.CreateSessionRequest{
		Title:       "Bad Timer",
		TemplateID:  templateID,
		TurnSeconds: &badSeconds,
	})
	if !errors.Is(err, domainerrors.ErrUnsupportedTurnSeconds) {
		t.Fatalf("expected unsupported turn duration, got %v", err)
	}
}

func TestSubmitRequiresActiveSessionAndText(t *testing.T) {
	env := newTestEnv(t)
	templateID := env.registerTemplate(t, "A [NOUN].")

	created, err := env.engine.Handler.CreateSessionHandler(context.Background(), "host-1", httptransport.CreateSessionRequest{
		Title:      "Draft Only",
		TemplateID: templateID,
	})
	if err != nil {
		t.Fatalf("create session failed: %v", err)
	}

	_, err = env.engine.Handler.SubmitTurnHandler(context.Background(), created.Session.SessionID, httptransport.SubmitTurnRequest{
		ContributorID: "alice",
		Text:          "word",
	})
	if !errors.Is(err, domainerrors.ErrInvalidStateTransition) {
		t.Fatalf("expected invalid transition for draft submit, got %v", err)
	}

	started, err := env.engine.Handler.StartSessionHandler(context.Background(), created.Session.SessionID)
	if err != nil {
		t.Fatalf("start session failed: %v", err)
	}
	_, err = env.engine.Handler.SubmitTurnHandler(context.Background(), started.Session.SessionID, httptransport.SubmitTurnRequest{
		ContributorID: "alice",
		Text:          "   ",
	})
	if !errors.Is(err, domainerrors.ErrEmptyResponseText) {
		t.Fatalf("expected empty text error, got %v", err)
	}
}

func TestTimerExpireIsIdempotentPerTurn(t *testing.T) {
	env := newTestEnv(t)
	templateID := env.registerTemplate(t, "A [NOUN] and a [VERB].")
	session := env.createActiveSession(t, templateID, 0)

	if _, err := env.engine.Handler.SubmitTurnHandler(context.Background(), session.SessionID, httptransport.SubmitTurnRequest{
		ContributorID: "alice",
		Text:          "kettle",
	}); err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	// The countdown for turn 0 lost the race with alice's submission.
	_, err := env.engine.TimerExpire.Execute(context.Background(), session.SessionID, 0)
	if !errors.Is(err, domainerrors.ErrAlreadySubmitted) {
		t.Fatalf("expected already submitted, got %v", err)
	}

	after, err := env.engine.Handler.GetSessionHandler(context.Background(), session.SessionID)
	if err != nil {
		t.Fatalf("get session failed: %v", err)
	}
	if after.Session.CurrentTurnIndex != 1 {
		t.Fatalf("stale expiry must not advance the session, got %d", after.Session.CurrentTurnIndex)
	}

	expired, err := env.engine.TimerExpire.Execute(context.Background(), session.SessionID, 1)
	if err != nil {
		t.Fatalf("expire current turn failed: %v", err)
	}
	if expired.Status != "completed" {
		t.Fatalf("expected completion via auto-fill, got %s", expired.Status)
	}
	if expired.Responses[1].Origin != "timer_auto" || expired.Responses[1].Text == "" {
		t.Fatalf("expected timer_auto fill, got %+v", expired.Responses[1])
	}
}

func TestSubmitRejectsStaleTurnIndex(t *testing.T) {
	env := newTestEnv(t)
	templateID := env.registerTemplate(t, "A [NOUN] and a [VERB].")
	session := env.createActiveSession(t, templateID, 0)

	if _, err := env.engine.Handler.SubmitTurnHandler(context.Background(), session.SessionID, httptransport.SubmitTurnRequest{
		ContributorID: "alice",
		Text:          "kettle",
	}); err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	// Bob typed for blank 0 but alice got there first; his text must not
	// land in blank 1.
	_, err := env.engine.Handler.SubmitTurnHandler(context.Background(), session.SessionID, httptransport.SubmitTurnRequest{
		ContributorID: "bob",
		Text:          "whistle",
		TurnIndex:     0,
	})
	if !errors.Is(err, domainerrors.ErrOutOfTurnSequence) {
		t.Fatalf("expected out-of-sequence error, got %v", err)
	}

	after, err := env.engine.Handler.GetSessionHandler(context.Background(), session.SessionID)
	if err != nil {
		t.Fatalf("get session failed: %v", err)
	}
	if after.Session.CurrentTurnIndex != 1 || len(after.Session.Responses) != 1 {
		t.Fatalf("rejected submission must leave no trace, got %+v", after.Session)
	}
}

func TestSubmitAndTimerExpireRaceFillsOneBlank(t *testing.T) {
	env := newTestEnv(t)
	templateID := env.registerTemplate(t, "A [NOUN] and a [VERB].")
	session := env.createActiveSession(t, templateID, 0)

	var wg sync.WaitGroup
	var submitErr, expireErr error
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, submitErr = env.engine.Handler.SubmitTurnHandler(context.Background(), session.SessionID, httptransport.SubmitTurnRequest{
			ContributorID: "alice",
			Text:          "kettle",
			TurnIndex:     0,
		})
	}()
	go func() {
		defer wg.Done()
		_, expireErr = env.engine.TimerExpire.Execute(context.Background(), session.SessionID, 0)
	}()
	wg.Wait()

	// Exactly one filler wins turn 0; the loser observes a conflict and
	// leaves no side effect.
	winners := 0
	if submitErr == nil {
		winners++
	} else if !errors.Is(submitErr, domainerrors.ErrOutOfTurnSequence) {
		t.Fatalf("unexpected submit error: %v", submitErr)
	}
	if expireErr == nil {
		winners++
	} else if !errors.Is(expireErr, domainerrors.ErrAlreadySubmitted) {
		t.Fatalf("unexpected expire error: %v", expireErr)
	}
	if winners != 1 {
		t.Fatalf("expected exactly one winner for turn 0, got %d", winners)
	}

	after, err := env.engine.Handler.GetSessionHandler(context.Background(), session.SessionID)
	if err != nil {
		t.Fatalf("get session failed: %v", err)
	}
	if after.Session.CurrentTurnIndex != 1 || len(after.Session.Responses) != 1 {
		t.Fatalf("race must fill exactly one blank, got index %d with %d responses",
			after.Session.CurrentTurnIndex, len(after.Session.Responses))
	}
}

func TestPauseAndResume(t *testing.T) {
	env := newTestEnv(t)
	templateID := env.registerTemplate(t, "A [NOUN] and a [VERB].")
	session := env.createActiveSession(t, templateID, 30)

	paused, err := env.engine.Handler.PauseSessionHandler(context.Background(), session.SessionID)
	if err != nil {
		t.Fatalf("pause failed: %v", err)
	}
	if paused.Session.Status != "paused" || paused.Session.PausedAt == nil {
		t.Fatalf("unexpected paused session %+v", paused.Session)
	}

	// Paused sessions reject submissions and double pause.
	if _, err := env.engine.Handler.SubmitTurnHandler(context.Background(), session.SessionID, httptransport.SubmitTurnRequest{
		ContributorID: "alice",
		Text:          "word",
	}); !errors.Is(err, domainerrors.ErrInvalidStateTransition) {
		t.Fatalf("expected invalid transition on paused submit, got %v", err)
	}
	if _, err := env.engine.Handler.PauseSessionHandler(context.Background(), session.SessionID); !errors.Is(err, domainerrors.ErrInvalidStateTransition) {
		t.Fatalf("expected invalid transition on double pause, got %v", err)
	}

	// The persisted countdown is gone while paused.
	deadlines, err := env.engine.Store.ListExpiredDeadlines(context.Background(), time.Now().UTC().Add(time.Hour), 0)
	if err != nil {
		t.Fatalf("list deadlines failed: %v", err)
	}
	if len(deadlines) != 0 {
		t.Fatalf("pause must delete the pending deadline, got %v", deadlines)
	}

	resumed, err := env.engine.Handler.ResumeSessionHandler(context.Background(), session.SessionID)
	if err != nil {
		t.Fatalf("resume failed: %v", err)
	}
	if resumed.Session.Status != "active" || resumed.Session.ResumedAt == nil {
		t.Fatalf("unexpected resumed session %+v", resumed.Session)
	}
}

func TestAIAssistDebitsSparks(t *testing.T) {
	env := newTestEnv(t)
	if _, err := env.sparks.Handler.OpenAccountHandler(context.Background(), sparkstransport.OpenAccountRequest{
		OwnerID: "alice",
		Opening: 15,
	}); err != nil {
		t.Fatalf("open account failed: %v", err)
	}

	templateID := env.registerTemplate(t, "A [NOUN] and a [VERB].")
	session := env.createActiveSession(t, templateID, 0)

	assisted, err := env.engine.Handler.AIAssistHandler(context.Background(), session.SessionID, httptransport.AIAssistRequest{
		ContributorID: "alice",
	})
	if err != nil {
		t.Fatalf("assist failed: %v", err)
	}
	if assisted.Session.Responses[0].Origin != "ai_assist" || assisted.Session.Responses[0].Text == "" {
		t.Fatalf("expected ai_assist fill, got %+v", assisted.Session.Responses[0])
	}

	account, err := env.sparks.Handler.GetAccountHandler(context.Background(), "alice")
	if err != nil {
		t.Fatalf("get account failed: %v", err)
	}
	if account.Account.Balance != 5 {
		t.Fatalf("expected balance 5 after assist, got %d", account.Account.Balance)
	}

	// Second assist cannot cover the cost; the session must be untouched.
	_, err = env.engine.Handler.AIAssistHandler(context.Background(), session.SessionID, httptransport.AIAssistRequest{
		ContributorID: "alice",
	})
	shortfall, ok := sparkserrors.IsInsufficientSparks(err)
	if !ok {
		t.Fatalf("expected insufficient sparks, got %v", err)
	}
	if shortfall.AmountNeeded != 5 {
		t.Fatalf("expected shortfall 5, got %d", shortfall.AmountNeeded)
	}
	after, err := env.engine.Handler.GetSessionHandler(context.Background(), session.SessionID)
	if err != nil {
		t.Fatalf("get session failed: %v", err)
	}
	if after.Session.CurrentTurnIndex != 1 {
		t.Fatalf("failed assist must not advance the session, got %d", after.Session.CurrentTurnIndex)
	}
}

type noopScheduler struct{}

func (noopScheduler) Schedule(string, int, time.Duration) {}
func (noopScheduler) Cancel(string)                       {}

type failingGenerator struct{}

func (failingGenerator) GenerateWord(context.Context, string, string) (string, error) {
	return "", fmt.Errorf("model unavailable")
}

type fixedGenerator struct{}

func (fixedGenerator) GenerateWord(context.Context, string, string) (string, error) {
	return "kazoo", nil
}

func TestAIAssistRefundsOnGeneratorFailure(t *testing.T) {
	templates := templatelibrary.NewInMemoryModule(nil)
	sparks := sparksledger.NewInMemoryModule(nil)
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Sessions:   store,
		Deadlines:  store,
		Catalog:    catalog.LibraryCatalog{Templates: templates.Store},
		Scheduler:  noopScheduler{},
		Generator:  failingGenerator{},
		Sparks:     ledger.SparksAccounts{Service: sparks.Service},
		Outbox:     store,
		OutboxRepo: store,
		AssistCost: 10,
		Clock:      store,
		IDGen:      store,
	})

	if _, err := sparks.Handler.OpenAccountHandler(context.Background(), sparkstransport.OpenAccountRequest{
		OwnerID: "alice",
		Opening: 50,
	}); err != nil {
		t.Fatalf("open account failed: %v", err)
	}
	created, err := templates.Handler.RegisterTemplateHandler(context.Background(), templatetransport.RegisterTemplateRequest{
		Title: "Refund",
		Genre: "comedy",
		Text:  "A [NOUN].",
	})
	if err != nil {
		t.Fatalf("register template failed: %v", err)
	}
	turnSeconds := 0
	session, err := module.Handler.CreateSessionHandler(context.Background(), "host-1", httptransport.CreateSessionRequest{
		Title:       "Refund Game",
		TemplateID:  created.Template.TemplateID,
		TurnSeconds: &turnSeconds,
	})
	if err != nil {
		t.Fatalf("create session failed: %v", err)
	}
	if _, err := module.Handler.StartSessionHandler(context.Background(), session.Session.SessionID); err != nil {
		t.Fatalf("start session failed: %v", err)
	}

	_, err = module.Handler.AIAssistHandler(context.Background(), session.Session.SessionID, httptransport.AIAssistRequest{
		ContributorID: "alice",
	})
	if !errors.Is(err, domainerrors.ErrAssistFailed) {
		t.Fatalf("expected assist failure, got %v", err)
	}

	account, err := sparks.Handler.GetAccountHandler(context.Background(), "alice")
	if err != nil {
		t.Fatalf("get account failed: %v", err)
	}
	if account.Account.Balance != 50 {
		t.Fatalf("expected refunded balance 50, got %d", account.Account.Balance)
	}
	entries, err := sparks.Handler.ListEntriesHandler(context.Background(), "alice")
	if err != nil {
		t.Fatalf("list entries failed: %v", err)
	}
	if len(entries.Items) != 3 || entries.Items[2].Reason != "ai_assist_refund" {
		t.Fatalf("expected debit plus refund entries, got %+v", entries.Items)
	}
}

// brokenWriteStore rejects session updates once the session is live,
// simulating a storage fault mid-command.
type brokenWriteStore struct {
	*memory.Store
	failWrites bool
}

func (s *brokenWriteStore) UpdateSession(ctx context.Context, session entities.Session) error {
	if s.failWrites {
		return fmt.Errorf("connection reset")
	}
	return s.Store.UpdateSession(ctx, session)
}

func TestAIAssistRefundsWhenPersistFails(t *testing.T) {
	templates := templatelibrary.NewInMemoryModule(nil)
	sparks := sparksledger.NewInMemoryModule(nil)
	store := &brokenWriteStore{Store: memory.NewStore()}
	module := NewModule(Dependencies{
		Sessions:   store,
		Deadlines:  store.Store,
		Catalog:    catalog.LibraryCatalog{Templates: templates.Store},
		Scheduler:  noopScheduler{},
		Generator:  fixedGenerator{},
		Sparks:     ledger.SparksAccounts{Service: sparks.Service},
		Outbox:     store.Store,
		OutboxRepo: store.Store,
		AssistCost: 10,
		Clock:      store.Store,
		IDGen:      store.Store,
	})

	if _, err := sparks.Handler.OpenAccountHandler(context.Background(), sparkstransport.OpenAccountRequest{
		OwnerID: "alice",
		Opening: 50,
	}); err != nil {
		t.Fatalf("open account failed: %v", err)
	}
	created, err := templates.Handler.RegisterTemplateHandler(context.Background(), templatetransport.RegisterTemplateRequest{
		Title: "Storage Fault",
		Genre: "comedy",
		Text:  "A [NOUN].",
	})
	if err != nil {
		t.Fatalf("register template failed: %v", err)
	}
	turnSeconds := 0
	session, err := module.Handler.CreateSessionHandler(context.Background(), "host-1", httptransport.CreateSessionRequest{
		Title:       "Fault Game",
		TemplateID:  created.Template.TemplateID,
		TurnSeconds: &turnSeconds,
	})
	if err != nil {
		t.Fatalf("create session failed: %v", err)
	}
	if _, err := module.Handler.StartSessionHandler(context.Background(), session.Session.SessionID); err != nil {
		t.Fatalf("start session failed: %v", err)
	}

	store.failWrites = true
	if _, err := module.Handler.AIAssistHandler(context.Background(), session.Session.SessionID, httptransport.AIAssistRequest{
		ContributorID: "alice",
	}); err == nil {
		t.Fatalf("expected assist to surface the storage fault")
	}

	account, err := sparks.Handler.GetAccountHandler(context.Background(), "alice")
	if err != nil {
		t.Fatalf("get account failed: %v", err)
	}
	if account.Account.Balance != 50 {
		t.Fatalf("failed persist must refund the debit, got balance %d", account.Account.Balance)
	}
}

func TestStoryNotReadyBeforeCompletion(t *testing.T) {
	env := newTestEnv(t)
	templateID := env.registerTemplate(t, "A [NOUN] and a [VERB].")
	session := env.createActiveSession(t, templateID, 0)

	_, err := env.engine.Handler.GetStoryHandler(context.Background(), session.SessionID)
	if !errors.Is(err, domainerrors.ErrStoryNotReady) {
		t.Fatalf("expected not ready, got %v", err)
	}
}

type fixedClock struct {
	now time.Time
}

func (c *fixedClock) Now() time.Time {
	return c.now
}

func TestTurnSweeperFillsOverdueTurns(t *testing.T) {
	templates := templatelibrary.NewInMemoryModule(nil)
	sparks := sparksledger.NewInMemoryModule(nil)
	store := memory.NewStore()
	clock := &fixedClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	module := NewModule(Dependencies{
		Sessions:   store,
		Deadlines:  store,
		Catalog:    catalog.LibraryCatalog{Templates: templates.Store},
		Scheduler:  noopScheduler{},
		Generator:  failingGenerator{},
		Sparks:     ledger.SparksAccounts{Service: sparks.Service},
		Outbox:     store,
		OutboxRepo: store,
		AssistCost: 10,
		Clock:      clock,
		IDGen:      store,
	})

	created, err := templates.Handler.RegisterTemplateHandler(context.Background(), templatetransport.RegisterTemplateRequest{
		Title: "Sweep",
		Genre: "comedy",
		Text:  "A [NOUN].",
	})
	if err != nil {
		t.Fatalf("register template failed: %v", err)
	}
	session, err := module.Handler.CreateSessionHandler(context.Background(), "host-1", httptransport.CreateSessionRequest{
		Title:      "Sweep Game",
		TemplateID: created.Template.TemplateID,
	})
	if err != nil {
		t.Fatalf("create session failed: %v", err)
	}
	if _, err := module.Handler.StartSessionHandler(context.Background(), session.Session.SessionID); err != nil {
		t.Fatalf("start session failed: %v", err)
	}

	// Before the deadline nothing expires.
	if err := module.TurnSweeper.RunOnce(context.Background()); err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	before, _ := module.Handler.GetSessionHandler(context.Background(), session.Session.SessionID)
	if before.Session.CurrentTurnIndex != 0 {
		t.Fatalf("sweep before deadline must not fill, got %d", before.Session.CurrentTurnIndex)
	}

	clock.now = clock.now.Add(31 * time.Second)
	if err := module.TurnSweeper.RunOnce(context.Background()); err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	after, err := module.Handler.GetSessionHandler(context.Background(), session.Session.SessionID)
	if err != nil {
		t.Fatalf("get session failed: %v", err)
	}
	if after.Session.Status != "completed" || after.Session.Responses[0].Origin != "timer_auto" {
		t.Fatalf("expected swept auto-fill completion, got %+v", after.Session)
	}

	// Re-running the sweep is a no-op: the deadline is gone.
	if err := module.TurnSweeper.RunOnce(context.Background()); err != nil {
		t.Fatalf("repeat sweep failed: %v", err)
	}
}
