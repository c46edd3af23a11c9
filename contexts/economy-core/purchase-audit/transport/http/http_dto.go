package httptransport

type SparkPackageDTO struct {
	PackageID   string `json:"package_id"`
	Sparks      int64  `json:"sparks"`
	BonusSparks int64  `json:"bonus_sparks"`
	TotalSparks int64  `json:"total_sparks"`
	PriceCents  int64  `json:"price_cents"`
	Currency    string `json:"currency"`
}

type PurchaseAttemptDTO struct {
	AttemptID    string `json:"attempt_id"`
	AccountID    string `json:"account_id"`
	PackageID    string `json:"package_id"`
	SparksAmount int64  `json:"sparks_amount"`
	PriceCents   int64  `json:"price_cents"`
	Currency     string `json:"currency"`
	Status       string `json:"status"`
	ErrorReason  string `json:"error_reason,omitempty"`
	ErrorCode    string `json:"error_code,omitempty"`
	ExternalRef  string `json:"external_ref,omitempty"`
	RetryCount   int    `json:"retry_count"`
	CreatedAt    string `json:"created_at"`
	UpdatedAt    string `json:"updated_at"`
	CompletedAt  string `json:"completed_at,omitempty"`
}

type InitiatePurchaseRequest struct {
	AccountID string `json:"account_id"`
	PackageID string `json:"package_id"`
}

type CompletePurchaseRequest struct {
	ExternalRef string `json:"external_ref"`
}

type DeclinePurchaseRequest struct {
	Reason string `json:"reason"`
	Code   string `json:"code"`
}

type AttemptResponse struct {
	Attempt PurchaseAttemptDTO `json:"attempt"`
}

type ListAttemptsResponse struct {
	Items []PurchaseAttemptDTO `json:"items"`
}

type ListPackagesResponse struct {
	Items []SparkPackageDTO `json:"items"`
}

type DashboardResponse struct {
	TotalAttempts         int            `json:"total_attempts"`
	CountsByStatus        map[string]int `json:"counts_by_status"`
	CompletedRevenueCents int64          `json:"completed_revenue_cents"`
	SparksSold            int64          `json:"sparks_sold"`
	ConversionRate        float64        `json:"conversion_rate"`
	TotalRetries          int            `json:"total_retries"`
}

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
