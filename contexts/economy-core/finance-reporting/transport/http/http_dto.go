package httptransport

type TransactionDTO struct {
	TransactionID  string `json:"transaction_id"`
	Date           string `json:"date"`
	Type           string `json:"type"`
	Category       string `json:"category"`
	Description    string `json:"description"`
	AmountCents    int64  `json:"amount_cents"`
	TaxCents       int64  `json:"tax_cents"`
	NetCents       int64  `json:"net_cents"`
	Reference      string `json:"reference,omitempty"`
	CorrelatesTo   string `json:"correlates_to,omitempty"`
	Account        string `json:"account"`
	CounterpartyID string `json:"counterparty_id,omitempty"`
}

type RecordIncomeRequest struct {
	GrossCents     int64  `json:"gross_cents"`
	Description    string `json:"description"`
	Reference      string `json:"reference"`
	CounterpartyID string `json:"counterparty_id"`
}

type RecordExpenseRequest struct {
	AmountCents int64  `json:"amount_cents"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

type RecordRefundRequest struct {
	OriginalID  string `json:"original_id"`
	AmountCents int64  `json:"amount_cents"`
	Reason      string `json:"reason"`
}

type TransactionResponse struct {
	Transaction TransactionDTO `json:"transaction"`
}

type MetricsResponse struct {
	TotalRevenueCents            int64   `json:"total_revenue_cents"`
	TotalExpensesCents           int64   `json:"total_expenses_cents"`
	NetProfitCents               int64   `json:"net_profit_cents"`
	ProfitMargin                 float64 `json:"profit_margin"`
	TaxCollectedCents            int64   `json:"tax_collected_cents"`
	RefundsIssuedCents           int64   `json:"refunds_issued_cents"`
	AverageTransactionValueCents int64   `json:"average_transaction_value_cents"`
	GrowthRate                   float64 `json:"growth_rate"`
}

type ExportRowDTO struct {
	Date      string `json:"date"`
	Type      string `json:"type"`
	Reference string `json:"reference"`
	Name      string `json:"name"`
	Memo      string `json:"memo"`
	Account   string `json:"account"`
	Debit     string `json:"debit"`
	Credit    string `json:"credit"`
	Balance   string `json:"balance"`
	TaxAmount string `json:"tax_amount"`
	TaxCode   string `json:"tax_code"`
}

type ExportResponse struct {
	Rows []ExportRowDTO `json:"rows"`
}

type TaxReportResponse struct {
	From                string `json:"from"`
	To                  string `json:"to"`
	GrossRevenueCents   int64  `json:"gross_revenue_cents"`
	TaxableRevenueCents int64  `json:"taxable_revenue_cents"`
	SalesTaxCents       int64  `json:"sales_tax_cents"`
	DeductionsCents     int64  `json:"deductions_cents"`
	NetTaxableCents     int64  `json:"net_taxable_cents"`
	EstimatedTaxCents   int64  `json:"estimated_tax_cents"`
}

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
