package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"taleforge/contexts/economy-core/sparks-ledger/application"
	"taleforge/contexts/economy-core/sparks-ledger/domain/entities"
	httptransport "taleforge/contexts/economy-core/sparks-ledger/transport/http"
)

type Handler struct {
	Service application.Service
	Logger  *slog.Logger
}

func (h Handler) OpenAccountHandler(ctx context.Context, req httptransport.OpenAccountRequest) (httptransport.OpenAccountResponse, error) {
	result, err := h.Service.OpenAccount(ctx, application.OpenAccountInput{
		OwnerID:   req.OwnerID,
		Opening:   req.Opening,
		Unlimited: req.Unlimited,
	})
	if err != nil {
		return httptransport.OpenAccountResponse{}, err
	}
	return httptransport.OpenAccountResponse{
		Account: mapAccount(result.Account),
		Created: result.Created,
	}, nil
}

func (h Handler) GetAccountHandler(ctx context.Context, ownerID string) (httptransport.GetAccountResponse, error) {
	account, err := h.Service.GetAccount(ctx, ownerID)
	if err != nil {
		return httptransport.GetAccountResponse{}, err
	}
	return httptransport.GetAccountResponse{Account: mapAccount(account)}, nil
}

func (h Handler) DebitHandler(ctx context.Context, ownerID string, req httptransport.AdjustBalanceRequest) (httptransport.AdjustBalanceResponse, error) {
	account, err := h.Service.Debit(ctx, ownerID, req.Amount, req.Reason, req.Reference)
	if err != nil {
		return httptransport.AdjustBalanceResponse{}, err
	}
	return httptransport.AdjustBalanceResponse{Account: mapAccount(account)}, nil
}

func (h Handler) CreditHandler(ctx context.Context, ownerID string, req httptransport.AdjustBalanceRequest) (httptransport.AdjustBalanceResponse, error) {
	account, err := h.Service.Credit(ctx, ownerID, req.Amount, req.Reason, req.Reference)
	if err != nil {
		return httptransport.AdjustBalanceResponse{}, err
	}
	return httptransport.AdjustBalanceResponse{Account: mapAccount(account)}, nil
}

func (h Handler) ListEntriesHandler(ctx context.Context, ownerID string) (httptransport.ListEntriesResponse, error) {
	entries, err := h.Service.ListEntries(ctx, ownerID)
	if err != nil {
		return httptransport.ListEntriesResponse{}, err
	}
	items := make([]httptransport.EntryDTO, 0, len(entries))
	for _, entry := range entries {
		items = append(items, mapEntry(entry))
	}
	return httptransport.ListEntriesResponse{Items: items}, nil
}

func mapAccount(account entities.Account) httptransport.AccountDTO {
	return httptransport.AccountDTO{
		OwnerID:   account.OwnerID,
		Balance:   account.Balance,
		Unlimited: account.Unlimited,
		CreatedAt: account.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: account.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func mapEntry(entry entities.Entry) httptransport.EntryDTO {
	return httptransport.EntryDTO{
		EntryID:      entry.EntryID,
		OwnerID:      entry.OwnerID,
		Delta:        entry.Delta,
		BalanceAfter: entry.BalanceAfter,
		Reason:       entry.Reason,
		Reference:    entry.Reference,
		CreatedAt:    entry.CreatedAt.UTC().Format(time.RFC3339),
	}
}
