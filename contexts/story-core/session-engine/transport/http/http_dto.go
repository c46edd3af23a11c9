package httptransport

type ResponseDTO struct {
	BlankIndex    int    `json:"blank_index"`
	Tag           string `json:"tag"`
	Text          string `json:"text"`
	ContributorID string `json:"contributor_id,omitempty"`
	SubmittedAt   string `json:"submitted_at"`
	Origin        string `json:"origin"`
}

type SessionDTO struct {
	SessionID        string        `json:"session_id"`
	HostID           string        `json:"host_id"`
	Title            string        `json:"title"`
	Genre            string        `json:"genre"`
	TemplateID       string        `json:"template_id"`
	Status           string        `json:"status"`
	Participants     []string      `json:"participants"`
	CurrentTurnIndex int           `json:"current_turn_index"`
	TotalTurns       int           `json:"total_turns"`
	Responses        []ResponseDTO `json:"responses"`
	TurnSeconds      int           `json:"turn_seconds"`
	CreatedAt        string        `json:"created_at"`
	UpdatedAt        string        `json:"updated_at"`
	StartedAt        *string       `json:"started_at,omitempty"`
	PausedAt         *string       `json:"paused_at,omitempty"`
	ResumedAt        *string       `json:"resumed_at,omitempty"`
	CompletedAt      *string       `json:"completed_at,omitempty"`
}

type CreateSessionRequest struct {
	Title        string   `json:"title"`
	Genre        string   `json:"genre"`
	TemplateID   string   `json:"template_id"`
	TurnSeconds  *int     `json:"turn_seconds"`
	Participants []string `json:"participants"`
}

type SessionResponse struct {
	Session SessionDTO `json:"session"`
}

type ListSessionsResponse struct {
	Items []SessionDTO `json:"items"`
}

type SubmitTurnRequest struct {
	ContributorID string `json:"contributor_id"`
	Text          string `json:"text"`
	TurnIndex     int    `json:"turn_index"`
}

type AIAssistRequest struct {
	ContributorID string `json:"contributor_id"`
}

type StoryResponse struct {
	SessionID    string   `json:"session_id"`
	Title        string   `json:"title"`
	Genre        string   `json:"genre"`
	Text         string   `json:"text"`
	Contributors []string `json:"contributors"`
}

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
