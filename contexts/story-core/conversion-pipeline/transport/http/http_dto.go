package httptransport

type TransformerDTO struct {
	TransformerID string `json:"transformer_id"`
	Label         string `json:"label"`
	Description   string `json:"description"`
	Cost          int64  `json:"cost"`
	Kind          string `json:"kind"`
}

type ConversionDTO struct {
	ConversionID     string `json:"conversion_id"`
	SessionID        string `json:"session_id"`
	TransformerID    string `json:"transformer_id"`
	AccountID        string `json:"account_id"`
	Output           string `json:"output"`
	SeededTemplateID string `json:"seeded_template_id,omitempty"`
	Cost             int64  `json:"cost"`
	CreatedAt        string `json:"created_at"`
}

type RequestConversionRequest struct {
	TransformerID string `json:"transformer_id"`
	AccountID     string `json:"account_id"`
}

type RequestConversionResponse struct {
	Conversion ConversionDTO `json:"conversion"`
}

type ListTransformersResponse struct {
	Items []TransformerDTO `json:"items"`
}

type ListConversionsResponse struct {
	Items []ConversionDTO `json:"items"`
}

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
