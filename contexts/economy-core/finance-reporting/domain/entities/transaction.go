package entities

import "time"

type TransactionType string

const (
	TypeIncome  TransactionType = "income"
	TypeExpense TransactionType = "expense"
	TypeRefund  TransactionType = "refund"
	TypeFee     TransactionType = "fee"
)

// Transaction is one ledger row. All money is integer cents; refunds carry
// negative amounts. CorrelatesTo links a fee or refund row back to the
// income row it belongs to.
type Transaction struct {
	TransactionID  string
	Date           time.Time
	Type           TransactionType
	Category       string
	Description    string
	AmountCents    int64
	TaxCents       int64
	NetCents       int64
	Reference      string
	CorrelatesTo   string
	Account        string
	CounterpartyID string
}

// AccountForCategory maps internal categories to bookkeeping account names.
func AccountForCategory(category string) string {
	switch category {
	case "product_sales":
		return "Sales:Digital Products"
	case "payment_processing":
		return "Expenses:Bank Charges"
	case "refund":
		return "Refunds"
	case "marketing":
		return "Expenses:Advertising"
	case "hosting":
		return "Expenses:Computer and Internet"
	case "development":
		return "Expenses:Contract Labor"
	default:
		return "Uncategorized"
	}
}
