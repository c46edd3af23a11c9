package sparksledger

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	domainerrors "taleforge/contexts/economy-core/sparks-ledger/domain/errors"
	httptransport "taleforge/contexts/economy-core/sparks-ledger/transport/http"
)

func openAccount(t *testing.T, module Module, ownerID string, opening int64) {
	t.Helper()
	result, err := module.Handler.OpenAccountHandler(context.Background(), httptransport.OpenAccountRequest{
		OwnerID: ownerID,
		Opening: opening,
	})
	if err != nil {
		t.Fatalf("open account failed: %v", err)
	}
	if !result.Created {
		t.Fatalf("expected account to be created")
	}
}

func TestOpenAccountIsIdempotent(t *testing.T) {
	module := NewInMemoryModule(nil)
	openAccount(t, module, "user-1", 100)

	second, err := module.Handler.OpenAccountHandler(context.Background(), httptransport.OpenAccountRequest{
		OwnerID: "user-1",
		Opening: 500,
	})
	if err != nil {
		t.Fatalf("reopen account failed: %v", err)
	}
	if second.Created {
		t.Fatalf("expected existing account on reopen")
	}
	if second.Account.Balance != 100 {
		t.Fatalf("reopen must not apply a second opening grant, balance %d", second.Account.Balance)
	}
}

func TestDebitBelowZeroCarriesShortfall(t *testing.T) {
	module := NewInMemoryModule(nil)
	openAccount(t, module, "user-2", 30)

	_, err := module.Handler.DebitHandler(context.Background(), "user-2", httptransport.AdjustBalanceRequest{
		Amount: 50,
		Reason: "conversion",
	})
	shortfall, ok := domainerrors.IsInsufficientSparks(err)
	if !ok {
		t.Fatalf("expected insufficient sparks error, got %v", err)
	}
	if shortfall.AmountNeeded != 20 {
		t.Fatalf("expected shortfall of 20, got %d", shortfall.AmountNeeded)
	}

	account, err := module.Handler.GetAccountHandler(context.Background(), "user-2")
	if err != nil {
		t.Fatalf("get account failed: %v", err)
	}
	if account.Account.Balance != 30 {
		t.Fatalf("failed debit must not change balance, got %d", account.Account.Balance)
	}
}

func TestInvalidAmountsRejected(t *testing.T) {
	module := NewInMemoryModule(nil)
	openAccount(t, module, "user-3", 10)

	_, err := module.Handler.DebitHandler(context.Background(), "user-3", httptransport.AdjustBalanceRequest{Amount: 0})
	if !errors.Is(err, domainerrors.ErrInvalidAmount) {
		t.Fatalf("expected invalid amount for zero debit, got %v", err)
	}
	_, err = module.Handler.CreditHandler(context.Background(), "user-3", httptransport.AdjustBalanceRequest{Amount: -5})
	if !errors.Is(err, domainerrors.ErrInvalidAmount) {
		t.Fatalf("expected invalid amount for negative credit, got %v", err)
	}
}

func TestUnlimitedAccountNeverDecrements(t *testing.T) {
	module := NewInMemoryModule(nil)
	result, err := module.Handler.OpenAccountHandler(context.Background(), httptransport.OpenAccountRequest{
		OwnerID:   "admin-1",
		Opening:   0,
		Unlimited: true,
	})
	if err != nil || !result.Created {
		t.Fatalf("open unlimited account failed: %v", err)
	}

	after, err := module.Handler.DebitHandler(context.Background(), "admin-1", httptransport.AdjustBalanceRequest{
		Amount: 1000,
		Reason: "conversion",
	})
	if err != nil {
		t.Fatalf("unlimited debit failed: %v", err)
	}
	if after.Account.Balance != 0 {
		t.Fatalf("unlimited account balance must not move, got %d", after.Account.Balance)
	}

	entries, err := module.Handler.ListEntriesHandler(context.Background(), "admin-1")
	if err != nil {
		t.Fatalf("list entries failed: %v", err)
	}
	if len(entries.Items) != 1 || entries.Items[0].Delta != 0 {
		t.Fatalf("expected one zero-amount usage entry, got %+v", entries.Items)
	}
}

func TestJournalRecordsEveryChange(t *testing.T) {
	module := NewInMemoryModule(nil)
	openAccount(t, module, "user-4", 100)

	if _, err := module.Handler.DebitHandler(context.Background(), "user-4", httptransport.AdjustBalanceRequest{Amount: 40, Reason: "conversion", Reference: "conv-1"}); err != nil {
		t.Fatalf("debit failed: %v", err)
	}
	if _, err := module.Handler.CreditHandler(context.Background(), "user-4", httptransport.AdjustBalanceRequest{Amount: 15, Reason: "refund", Reference: "conv-1"}); err != nil {
		t.Fatalf("credit failed: %v", err)
	}

	entries, err := module.Handler.ListEntriesHandler(context.Background(), "user-4")
	if err != nil {
		t.Fatalf("list entries failed: %v", err)
	}
	if len(entries.Items) != 3 {
		t.Fatalf("expected 3 journal entries, got %d", len(entries.Items))
	}
	if entries.Items[0].Reason != "opening_grant" || entries.Items[0].BalanceAfter != 100 {
		t.Fatalf("unexpected opening entry %+v", entries.Items[0])
	}
	if entries.Items[1].Delta != -40 || entries.Items[1].BalanceAfter != 60 {
		t.Fatalf("unexpected debit entry %+v", entries.Items[1])
	}
	if entries.Items[2].Delta != 15 || entries.Items[2].BalanceAfter != 75 {
		t.Fatalf("unexpected credit entry %+v", entries.Items[2])
	}
}

func TestCreditOnceSkipsDuplicateReference(t *testing.T) {
	module := NewInMemoryModule(nil)
	openAccount(t, module, "user-7", 0)

	account, applied, err := module.Service.CreditOnce(context.Background(), "user-7", 100, "spark_purchase", "attempt-1")
	if err != nil || !applied {
		t.Fatalf("first credit failed: applied=%v err=%v", applied, err)
	}
	if account.Balance != 100 {
		t.Fatalf("expected balance 100, got %d", account.Balance)
	}

	account, applied, err = module.Service.CreditOnce(context.Background(), "user-7", 100, "spark_purchase", "attempt-1")
	if err != nil {
		t.Fatalf("duplicate credit errored: %v", err)
	}
	if applied {
		t.Fatalf("duplicate reference must not apply")
	}
	if account.Balance != 100 {
		t.Fatalf("duplicate credit moved the balance to %d", account.Balance)
	}

	// A different reference is a distinct settlement.
	account, applied, err = module.Service.CreditOnce(context.Background(), "user-7", 50, "spark_purchase", "attempt-2")
	if err != nil || !applied {
		t.Fatalf("second settlement failed: applied=%v err=%v", applied, err)
	}
	if account.Balance != 150 {
		t.Fatalf("expected balance 150, got %d", account.Balance)
	}

	if _, _, err := module.Service.CreditOnce(context.Background(), "user-7", 10, "spark_purchase", ""); !errors.Is(err, domainerrors.ErrReferenceRequired) {
		t.Fatalf("expected reference required, got %v", err)
	}

	entries, err := module.Handler.ListEntriesHandler(context.Background(), "user-7")
	if err != nil {
		t.Fatalf("list entries failed: %v", err)
	}
	if len(entries.Items) != 2 {
		t.Fatalf("expected 2 journal entries, got %d", len(entries.Items))
	}
}

func TestDistinctAccountsMutateIndependently(t *testing.T) {
	module := NewInMemoryModule(nil)
	const owners = 8
	for i := 0; i < owners; i++ {
		openAccount(t, module, fmt.Sprintf("owner-%d", i), 1000)
	}

	var wg sync.WaitGroup
	for i := 0; i < owners; i++ {
		ownerID := fmt.Sprintf("owner-%d", i)
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				if _, err := module.Service.Debit(context.Background(), ownerID, 10, "conversion", ""); err != nil {
					t.Errorf("debit %s: %v", ownerID, err)
					return
				}
				if _, err := module.Service.Credit(context.Background(), ownerID, 5, "refund", ""); err != nil {
					t.Errorf("credit %s: %v", ownerID, err)
					return
				}
			}
		}()
	}
	wg.Wait()

	for i := 0; i < owners; i++ {
		account, err := module.Service.GetAccount(context.Background(), fmt.Sprintf("owner-%d", i))
		if err != nil {
			t.Fatalf("get account failed: %v", err)
		}
		if account.Balance != 900 {
			t.Fatalf("owner-%d balance = %d, want 900", i, account.Balance)
		}
	}
}

func TestBalanceNotifierObservesChanges(t *testing.T) {
	module := NewInMemoryModule(nil)
	changes := module.Notifier.Subscribe()
	openAccount(t, module, "user-5", 50)

	if _, err := module.Handler.DebitHandler(context.Background(), "user-5", httptransport.AdjustBalanceRequest{Amount: 10, Reason: "conversion"}); err != nil {
		t.Fatalf("debit failed: %v", err)
	}

	opening := <-changes
	if opening.Reason != "opening_grant" || opening.BalanceAfter != 50 {
		t.Fatalf("unexpected opening change %+v", opening)
	}
	debit := <-changes
	if debit.Delta != -10 || debit.BalanceAfter != 40 {
		t.Fatalf("unexpected debit change %+v", debit)
	}
}

func TestConcurrentDebitsEndAtSequentialBalance(t *testing.T) {
	module := NewInMemoryModule(nil)
	openAccount(t, module, "user-6", 100)

	const workers = 50
	var wg sync.WaitGroup
	successes := make(chan struct{}, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := module.Service.Debit(context.Background(), "user-6", 10, "conversion", "")
			if err == nil {
				successes <- struct{}{}
				return
			}
			if _, ok := domainerrors.IsInsufficientSparks(err); !ok {
				t.Errorf("unexpected debit error: %v", err)
			}
		}()
	}
	wg.Wait()
	close(successes)

	granted := 0
	for range successes {
		granted++
	}
	if granted != 10 {
		t.Fatalf("expected exactly 10 debits to succeed, got %d", granted)
	}
	account, err := module.Service.GetAccount(context.Background(), "user-6")
	if err != nil {
		t.Fatalf("get account failed: %v", err)
	}
	if account.Balance != 0 {
		t.Fatalf("expected drained balance, got %d", account.Balance)
	}
}
