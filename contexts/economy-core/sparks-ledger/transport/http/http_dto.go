package httptransport

type AccountDTO struct {
	OwnerID   string `json:"owner_id"`
	Balance   int64  `json:"balance"`
	Unlimited bool   `json:"unlimited"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

type EntryDTO struct {
	EntryID      string `json:"entry_id"`
	OwnerID      string `json:"owner_id"`
	Delta        int64  `json:"delta"`
	BalanceAfter int64  `json:"balance_after"`
	Reason       string `json:"reason"`
	Reference    string `json:"reference,omitempty"`
	CreatedAt    string `json:"created_at"`
}

type OpenAccountRequest struct {
	OwnerID   string `json:"owner_id"`
	Opening   int64  `json:"opening"`
	Unlimited bool   `json:"unlimited"`
}

type OpenAccountResponse struct {
	Account AccountDTO `json:"account"`
	Created bool       `json:"created"`
}

type GetAccountResponse struct {
	Account AccountDTO `json:"account"`
}

type AdjustBalanceRequest struct {
	Amount    int64  `json:"amount"`
	Reason    string `json:"reason"`
	Reference string `json:"reference"`
}

type AdjustBalanceResponse struct {
	Account AccountDTO `json:"account"`
}

type ListEntriesResponse struct {
	Items []EntryDTO `json:"items"`
}

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
