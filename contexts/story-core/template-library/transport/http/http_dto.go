package httptransport

type SegmentDTO struct {
	Literal    string `json:"literal,omitempty"`
	Tag        string `json:"tag,omitempty"`
	BlankIndex *int   `json:"blank_index,omitempty"`
}

type TemplateDTO struct {
	TemplateID string       `json:"template_id"`
	Title      string       `json:"title"`
	Genre      string       `json:"genre"`
	Difficulty string       `json:"difficulty"`
	Segments   []SegmentDTO `json:"segments"`
	BlankCount int          `json:"blank_count"`
	Tags       []string     `json:"tags"`
	CreatedAt  string       `json:"created_at"`
}

type RegisterTemplateRequest struct {
	Title      string   `json:"title"`
	Genre      string   `json:"genre"`
	Difficulty string   `json:"difficulty"`
	Text       string   `json:"text"`
	Tags       []string `json:"tags"`
}

type RegisterTemplateResponse struct {
	Template TemplateDTO `json:"template"`
}

type GetTemplateResponse struct {
	Template TemplateDTO `json:"template"`
}

type ListTemplatesResponse struct {
	Items []TemplateDTO `json:"items"`
}

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
