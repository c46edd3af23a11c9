package purchaseaudit

import (
	"context"
	"errors"
	"testing"
	"time"

	financereporting "taleforge/contexts/economy-core/finance-reporting"
	financeadapter "taleforge/contexts/economy-core/purchase-audit/adapters/finance"
	ledgeradapter "taleforge/contexts/economy-core/purchase-audit/adapters/ledger"
	domainerrors "taleforge/contexts/economy-core/purchase-audit/domain/errors"
	httptransport "taleforge/contexts/economy-core/purchase-audit/transport/http"
	sparksledger "taleforge/contexts/economy-core/sparks-ledger"
	sparksapp "taleforge/contexts/economy-core/sparks-ledger/application"
	"taleforge/internal/shared/events"
)

type testEnv struct {
	purchases Module
	sparks    sparksledger.Module
	finance   financereporting.Module
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()
	sparks := sparksledger.NewInMemoryModule(nil)
	finance := financereporting.NewInMemoryModule(nil)
	purchases := NewInMemoryModule(
		ledgeradapter.SparksAccounts{Service: sparks.Service},
		financeadapter.FinanceBooks{Service: finance.Service},
		nil,
	)
	return testEnv{purchases: purchases, sparks: sparks, finance: finance}
}

func (env testEnv) openAccount(t *testing.T, ownerID string) {
	t.Helper()
	ctx := context.Background()
	if _, err := env.sparks.Service.OpenAccount(ctx, sparksapp.OpenAccountInput{OwnerID: ownerID}); err != nil {
		t.Fatalf("open account: %v", err)
	}
}

func (env testEnv) balance(t *testing.T, ownerID string) int64 {
	t.Helper()
	account, err := env.sparks.Service.GetAccount(context.Background(), ownerID)
	if err != nil {
		t.Fatalf("get account: %v", err)
	}
	return account.Balance
}

func (env testEnv) initiate(t *testing.T, accountID string, packageID string) string {
	t.Helper()
	resp, err := env.purchases.Handler.InitiatePurchaseHandler(context.Background(), httptransport.InitiatePurchaseRequest{
		AccountID: accountID,
		PackageID: packageID,
	})
	if err != nil {
		t.Fatalf("initiate purchase: %v", err)
	}
	return resp.Attempt.AttemptID
}

func (env testEnv) outboxEventTypes(t *testing.T) []string {
	t.Helper()
	pending, err := env.purchases.Store.ListPendingOutbox(context.Background(), 0)
	if err != nil {
		t.Fatalf("list pending outbox: %v", err)
	}
	types := make([]string, 0, len(pending))
	for _, msg := range pending {
		types = append(types, msg.EventType)
	}
	return types
}

// flakySparks drops the first credit delivery, then delegates.
type flakySparks struct {
	inner    ledgeradapter.SparksAccounts
	failures int
	calls    int
}

func (f *flakySparks) Credit(ctx context.Context, ownerID string, amount int64, reason string, reference string) error {
	f.calls++
	if f.failures > 0 {
		f.failures--
		return errors.New("ledger unavailable")
	}
	return f.inner.Credit(ctx, ownerID, amount, reason, reference)
}

func TestCompletionStaysRetryableUntilCreditLands(t *testing.T) {
	sparks := sparksledger.NewInMemoryModule(nil)
	finance := financereporting.NewInMemoryModule(nil)
	credit := &flakySparks{inner: ledgeradapter.SparksAccounts{Service: sparks.Service}, failures: 1}
	purchases := NewInMemoryModule(credit, financeadapter.FinanceBooks{Service: finance.Service}, nil)
	env := testEnv{purchases: purchases, sparks: sparks, finance: finance}
	ctx := context.Background()

	env.openAccount(t, "acct-retry")
	attemptID := env.initiate(t, "acct-retry", "starter")
	if _, err := purchases.Handler.MarkProcessingHandler(ctx, attemptID); err != nil {
		t.Fatalf("mark processing: %v", err)
	}

	if _, err := purchases.Handler.MarkCompletedHandler(ctx, attemptID, httptransport.CompletePurchaseRequest{ExternalRef: "txn-9001"}); err == nil {
		t.Fatalf("expected first settlement to surface the ledger failure")
	}
	pending, err := purchases.Handler.GetAttemptHandler(ctx, attemptID)
	if err != nil {
		t.Fatalf("get attempt: %v", err)
	}
	if pending.Attempt.Status != "processing" {
		t.Fatalf("failed settlement must leave the attempt retryable, status %q", pending.Attempt.Status)
	}
	if got := env.balance(t, "acct-retry"); got != 0 {
		t.Fatalf("balance = %d after failed settlement, want 0", got)
	}

	retried, err := purchases.Handler.MarkCompletedHandler(ctx, attemptID, httptransport.CompletePurchaseRequest{ExternalRef: "txn-9001"})
	if err != nil {
		t.Fatalf("retry settlement: %v", err)
	}
	if retried.Attempt.Status != "completed" {
		t.Fatalf("retry status = %q, want completed", retried.Attempt.Status)
	}
	if got := env.balance(t, "acct-retry"); got != 100 {
		t.Fatalf("balance = %d after retry, want 100", got)
	}
	if credit.calls != 2 {
		t.Fatalf("credit calls = %d, want 2 (one failed, one landed)", credit.calls)
	}

	// A redelivery of the settled attempt only bumps the retry counter.
	replayed, err := purchases.Handler.MarkCompletedHandler(ctx, attemptID, httptransport.CompletePurchaseRequest{ExternalRef: "txn-9001"})
	if err != nil {
		t.Fatalf("replay settlement: %v", err)
	}
	if replayed.Attempt.RetryCount != 1 {
		t.Fatalf("retry count = %d, want 1", replayed.Attempt.RetryCount)
	}
	if got := env.balance(t, "acct-retry"); got != 100 {
		t.Fatalf("balance = %d after replay, want 100", got)
	}
	if credit.calls != 2 {
		t.Fatalf("replay must not re-credit, credit calls = %d", credit.calls)
	}
}

func TestCompletedPurchaseCreditsSparksAndBooksIncome(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.openAccount(t, "acct-sam")

	attemptID := env.initiate(t, "acct-sam", "popular")

	if _, err := env.purchases.Handler.MarkProcessingHandler(ctx, attemptID); err != nil {
		t.Fatalf("mark processing: %v", err)
	}
	resp, err := env.purchases.Handler.MarkCompletedHandler(ctx, attemptID, httptransport.CompletePurchaseRequest{ExternalRef: "txn-1001"})
	if err != nil {
		t.Fatalf("mark completed: %v", err)
	}
	if resp.Attempt.Status != "completed" {
		t.Fatalf("status = %q, want completed", resp.Attempt.Status)
	}
	if resp.Attempt.SparksAmount != 550 {
		t.Fatalf("sparks amount = %d, want 550 (500 + 50 bonus)", resp.Attempt.SparksAmount)
	}
	if resp.Attempt.CompletedAt == "" {
		t.Fatalf("completed attempt has no completion time")
	}

	if got := env.balance(t, "acct-sam"); got != 550 {
		t.Fatalf("balance = %d, want 550", got)
	}

	rows, err := env.finance.Store.ListTransactions(ctx, time.Time{}, time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("list transactions: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("finance rows = %d, want income plus fee", len(rows))
	}
	var sawIncome, sawFee bool
	for _, row := range rows {
		switch string(row.Type) {
		case "income":
			sawIncome = true
			if row.AmountCents != 1999 {
				t.Fatalf("income gross = %d, want 1999", row.AmountCents)
			}
			if row.Reference != attemptID {
				t.Fatalf("income reference = %q, want attempt id", row.Reference)
			}
			if row.CounterpartyID != "acct-sam" {
				t.Fatalf("income counterparty = %q", row.CounterpartyID)
			}
		case "fee":
			sawFee = true
		}
	}
	if !sawIncome || !sawFee {
		t.Fatalf("missing income or fee row: income=%v fee=%v", sawIncome, sawFee)
	}

	types := env.outboxEventTypes(t)
	if len(types) != 1 || types[0] != events.TypePurchaseCompleted {
		t.Fatalf("outbox events = %v, want one %s", types, events.TypePurchaseCompleted)
	}
}

func TestCompletedReplayDoesNotDoubleCredit(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.openAccount(t, "acct-replay")

	attemptID := env.initiate(t, "acct-replay", "starter")
	if _, err := env.purchases.Handler.MarkProcessingHandler(ctx, attemptID); err != nil {
		t.Fatalf("mark processing: %v", err)
	}
	if _, err := env.purchases.Handler.MarkCompletedHandler(ctx, attemptID, httptransport.CompletePurchaseRequest{ExternalRef: "txn-dup"}); err != nil {
		t.Fatalf("first delivery: %v", err)
	}

	resp, err := env.purchases.Handler.MarkCompletedHandler(ctx, attemptID, httptransport.CompletePurchaseRequest{ExternalRef: "txn-dup"})
	if err != nil {
		t.Fatalf("identical re-delivery should be absorbed: %v", err)
	}
	if resp.Attempt.RetryCount != 1 {
		t.Fatalf("retry count = %d, want 1", resp.Attempt.RetryCount)
	}
	if got := env.balance(t, "acct-replay"); got != 100 {
		t.Fatalf("balance = %d, want 100 (credited once)", got)
	}
	rows, err := env.finance.Store.ListTransactions(ctx, time.Time{}, time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("list transactions: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("finance rows = %d, want 2 (booked once)", len(rows))
	}
	if types := env.outboxEventTypes(t); len(types) != 1 {
		t.Fatalf("outbox events = %v, want exactly one", types)
	}

	// A different reference against a settled attempt is a conflict, not a
	// replay.
	_, err = env.purchases.Handler.MarkCompletedHandler(ctx, attemptID, httptransport.CompletePurchaseRequest{ExternalRef: "txn-other"})
	if !errors.Is(err, domainerrors.ErrInvalidTransition) {
		t.Fatalf("conflicting external ref: err = %v, want ErrInvalidTransition", err)
	}
}

func TestDeclinedAndFailedNeverCredit(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.openAccount(t, "acct-dec")

	declinedID := env.initiate(t, "acct-dec", "pro")
	if _, err := env.purchases.Handler.MarkProcessingHandler(ctx, declinedID); err != nil {
		t.Fatalf("mark processing: %v", err)
	}
	resp, err := env.purchases.Handler.MarkDeclinedHandler(ctx, declinedID, httptransport.DeclinePurchaseRequest{Reason: "card_declined", Code: "51"})
	if err != nil {
		t.Fatalf("mark declined: %v", err)
	}
	if resp.Attempt.Status != "declined" || resp.Attempt.ErrorCode != "51" {
		t.Fatalf("attempt = %+v, want declined with code 51", resp.Attempt)
	}

	failedID := env.initiate(t, "acct-dec", "mega")
	if _, err := env.purchases.Handler.MarkProcessingHandler(ctx, failedID); err != nil {
		t.Fatalf("mark processing: %v", err)
	}
	if _, err := env.purchases.Handler.MarkFailedHandler(ctx, failedID, httptransport.DeclinePurchaseRequest{Reason: "gateway_timeout", Code: "504"}); err != nil {
		t.Fatalf("mark failed: %v", err)
	}

	if got := env.balance(t, "acct-dec"); got != 0 {
		t.Fatalf("balance = %d, want 0", got)
	}
	rows, err := env.finance.Store.ListTransactions(ctx, time.Time{}, time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("list transactions: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("finance rows = %d, want none", len(rows))
	}

	for _, eventType := range env.outboxEventTypes(t) {
		if eventType != events.TypePurchaseDeclined {
			t.Fatalf("unexpected outbox event %q", eventType)
		}
	}

	// Identical declined re-delivery is absorbed; a different reason is not.
	replay, err := env.purchases.Handler.MarkDeclinedHandler(ctx, declinedID, httptransport.DeclinePurchaseRequest{Reason: "card_declined", Code: "51"})
	if err != nil {
		t.Fatalf("declined replay: %v", err)
	}
	if replay.Attempt.RetryCount != 1 {
		t.Fatalf("retry count = %d, want 1", replay.Attempt.RetryCount)
	}
	_, err = env.purchases.Handler.MarkDeclinedHandler(ctx, declinedID, httptransport.DeclinePurchaseRequest{Reason: "insufficient_funds", Code: "51"})
	if !errors.Is(err, domainerrors.ErrInvalidTransition) {
		t.Fatalf("conflicting decline: err = %v, want ErrInvalidTransition", err)
	}
}

func TestCancelOnlyBeforeProcessing(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.openAccount(t, "acct-can")

	abandoned := env.initiate(t, "acct-can", "starter")
	resp, err := env.purchases.Handler.CancelAttemptHandler(ctx, abandoned)
	if err != nil {
		t.Fatalf("cancel initiated attempt: %v", err)
	}
	if resp.Attempt.Status != "cancelled" {
		t.Fatalf("status = %q, want cancelled", resp.Attempt.Status)
	}

	inFlight := env.initiate(t, "acct-can", "starter")
	if _, err := env.purchases.Handler.MarkProcessingHandler(ctx, inFlight); err != nil {
		t.Fatalf("mark processing: %v", err)
	}
	_, err = env.purchases.Handler.CancelAttemptHandler(ctx, inFlight)
	if !errors.Is(err, domainerrors.ErrInvalidTransition) {
		t.Fatalf("cancel processing attempt: err = %v, want ErrInvalidTransition", err)
	}
}

func TestInitiateValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.purchases.Handler.InitiatePurchaseHandler(ctx, httptransport.InitiatePurchaseRequest{AccountID: "acct-x", PackageID: "platinum"})
	if !errors.Is(err, domainerrors.ErrPackageNotFound) {
		t.Fatalf("unknown package: err = %v, want ErrPackageNotFound", err)
	}
	_, err = env.purchases.Handler.InitiatePurchaseHandler(ctx, httptransport.InitiatePurchaseRequest{AccountID: "  ", PackageID: "starter"})
	if !errors.Is(err, domainerrors.ErrAccountRequired) {
		t.Fatalf("blank account: err = %v, want ErrAccountRequired", err)
	}
	_, err = env.purchases.Handler.GetAttemptHandler(ctx, "nope")
	if !errors.Is(err, domainerrors.ErrAttemptNotFound) {
		t.Fatalf("missing attempt: err = %v, want ErrAttemptNotFound", err)
	}
}

func TestListPackagesCheapestFirst(t *testing.T) {
	env := newTestEnv(t)
	resp := env.purchases.Handler.ListPackagesHandler(context.Background())
	if len(resp.Items) != 4 {
		t.Fatalf("packages = %d, want 4", len(resp.Items))
	}
	wantOrder := []string{"starter", "popular", "pro", "mega"}
	for i, want := range wantOrder {
		if resp.Items[i].PackageID != want {
			t.Fatalf("packages[%d] = %q, want %q", i, resp.Items[i].PackageID, want)
		}
	}
	popular := resp.Items[1]
	if popular.Sparks != 500 || popular.BonusSparks != 50 || popular.TotalSparks != 550 || popular.PriceCents != 1999 {
		t.Fatalf("popular package = %+v", popular)
	}
	mega := resp.Items[3]
	if mega.TotalSparks != 3000 || mega.PriceCents != 8999 || mega.Currency != "USD" {
		t.Fatalf("mega package = %+v", mega)
	}
}

func TestDashboardAggregatesAttempts(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.openAccount(t, "acct-dash")

	won := env.initiate(t, "acct-dash", "popular")
	if _, err := env.purchases.Handler.MarkProcessingHandler(ctx, won); err != nil {
		t.Fatalf("mark processing: %v", err)
	}
	if _, err := env.purchases.Handler.MarkCompletedHandler(ctx, won, httptransport.CompletePurchaseRequest{ExternalRef: "txn-w"}); err != nil {
		t.Fatalf("mark completed: %v", err)
	}
	// Replay bumps the retry counter the dashboard surfaces.
	if _, err := env.purchases.Handler.MarkCompletedHandler(ctx, won, httptransport.CompletePurchaseRequest{ExternalRef: "txn-w"}); err != nil {
		t.Fatalf("replay: %v", err)
	}

	lost := env.initiate(t, "acct-dash", "starter")
	if _, err := env.purchases.Handler.MarkProcessingHandler(ctx, lost); err != nil {
		t.Fatalf("mark processing: %v", err)
	}
	if _, err := env.purchases.Handler.MarkDeclinedHandler(ctx, lost, httptransport.DeclinePurchaseRequest{Reason: "card_declined", Code: "05"}); err != nil {
		t.Fatalf("mark declined: %v", err)
	}

	abandoned := env.initiate(t, "acct-dash", "starter")
	if _, err := env.purchases.Handler.CancelAttemptHandler(ctx, abandoned); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	stats, err := env.purchases.Handler.DashboardHandler(ctx)
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if stats.TotalAttempts != 3 {
		t.Fatalf("total attempts = %d, want 3", stats.TotalAttempts)
	}
	if stats.CountsByStatus["completed"] != 1 || stats.CountsByStatus["declined"] != 1 || stats.CountsByStatus["cancelled"] != 1 {
		t.Fatalf("counts by status = %v", stats.CountsByStatus)
	}
	if stats.CompletedRevenueCents != 1999 {
		t.Fatalf("completed revenue = %d, want 1999", stats.CompletedRevenueCents)
	}
	if stats.SparksSold != 550 {
		t.Fatalf("sparks sold = %d, want 550", stats.SparksSold)
	}
	if stats.TotalRetries != 1 {
		t.Fatalf("total retries = %d, want 1", stats.TotalRetries)
	}
	if diff := stats.ConversionRate - 100.0/3; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("conversion rate = %v", stats.ConversionRate)
	}

	attempts, err := env.purchases.Handler.ListAttemptsHandler(ctx, "acct-dash")
	if err != nil {
		t.Fatalf("list attempts: %v", err)
	}
	if len(attempts.Items) != 3 {
		t.Fatalf("account attempts = %d, want 3", len(attempts.Items))
	}
}

type capturePublisher struct {
	published []events.Envelope
}

func (p *capturePublisher) Publish(_ context.Context, _ string, event events.Envelope) error {
	p.published = append(p.published, event)
	return nil
}

func TestOutboxRelayDrainsPending(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.openAccount(t, "acct-relay")

	attemptID := env.initiate(t, "acct-relay", "starter")
	if _, err := env.purchases.Handler.MarkProcessingHandler(ctx, attemptID); err != nil {
		t.Fatalf("mark processing: %v", err)
	}
	if _, err := env.purchases.Handler.MarkCompletedHandler(ctx, attemptID, httptransport.CompletePurchaseRequest{ExternalRef: "txn-r"}); err != nil {
		t.Fatalf("mark completed: %v", err)
	}

	publisher := &capturePublisher{}
	relay := env.purchases.OutboxRelay
	relay.Publisher = publisher
	if err := relay.RunOnce(ctx); err != nil {
		t.Fatalf("relay run: %v", err)
	}
	if len(publisher.published) != 1 {
		t.Fatalf("published = %d, want 1", len(publisher.published))
	}
	event := publisher.published[0]
	if event.EventType != events.TypePurchaseCompleted || event.EntityID != attemptID {
		t.Fatalf("published event = %+v", event)
	}

	pending, err := env.purchases.Store.ListPendingOutbox(ctx, 0)
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("pending after relay = %d, want 0", len(pending))
	}
}
