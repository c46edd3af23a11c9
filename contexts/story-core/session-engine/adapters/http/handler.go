package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"taleforge/contexts/story-core/session-engine/application/commands"
	"taleforge/contexts/story-core/session-engine/application/queries"
	"taleforge/contexts/story-core/session-engine/domain/entities"
	httptransport "taleforge/contexts/story-core/session-engine/transport/http"
)

type Handler struct {
	CreateSession commands.CreateSessionUseCase
	StartSession  commands.StartSessionUseCase
	SubmitTurn    commands.SubmitTurnUseCase
	ChangeStatus  commands.ChangeStatusUseCase
	AIAssist      commands.AIAssistUseCase
	GetSession    queries.GetSessionUseCase
	ListSessions  queries.ListSessionsUseCase
	AssembleStory queries.AssembleStoryUseCase
	Logger        *slog.Logger
}

func (h Handler) CreateSessionHandler(ctx context.Context, hostID string, req httptransport.CreateSessionRequest) (httptransport.SessionResponse, error) {
	session, err := h.CreateSession.Execute(ctx, commands.CreateSessionCommand{
		HostID:       hostID,
		Title:        req.Title,
		Genre:        req.Genre,
		TemplateID:   req.TemplateID,
		TurnSeconds:  req.TurnSeconds,
		Participants: append([]string(nil), req.Participants...),
	})
	if err != nil {
		return httptransport.SessionResponse{}, err
	}
	return httptransport.SessionResponse{Session: mapSession(session)}, nil
}

func (h Handler) StartSessionHandler(ctx context.Context, sessionID string) (httptransport.SessionResponse, error) {
	session, err := h.StartSession.Execute(ctx, sessionID)
	if err != nil {
		return httptransport.SessionResponse{}, err
	}
	return httptransport.SessionResponse{Session: mapSession(session)}, nil
}

func (h Handler) SubmitTurnHandler(ctx context.Context, sessionID string, req httptransport.SubmitTurnRequest) (httptransport.SessionResponse, error) {
	session, err := h.SubmitTurn.Execute(ctx, commands.SubmitTurnCommand{
		SessionID:     sessionID,
		ContributorID: req.ContributorID,
		Text:          req.Text,
		TurnIndex:     req.TurnIndex,
	})
	if err != nil {
		return httptransport.SessionResponse{}, err
	}
	return httptransport.SessionResponse{Session: mapSession(session)}, nil
}

func (h Handler) PauseSessionHandler(ctx context.Context, sessionID string) (httptransport.SessionResponse, error) {
	session, err := h.ChangeStatus.Execute(ctx, sessionID, commands.StatusActionPause)
	if err != nil {
		return httptransport.SessionResponse{}, err
	}
	return httptransport.SessionResponse{Session: mapSession(session)}, nil
}

func (h Handler) ResumeSessionHandler(ctx context.Context, sessionID string) (httptransport.SessionResponse, error) {
	session, err := h.ChangeStatus.Execute(ctx, sessionID, commands.StatusActionResume)
	if err != nil {
		return httptransport.SessionResponse{}, err
	}
	return httptransport.SessionResponse{Session: mapSession(session)}, nil
}

func (h Handler) AIAssistHandler(ctx context.Context, sessionID string, req httptransport.AIAssistRequest) (httptransport.SessionResponse, error) {
	session, err := h.AIAssist.Execute(ctx, sessionID, req.ContributorID)
	if err != nil {
		return httptransport.SessionResponse{}, err
	}
	return httptransport.SessionResponse{Session: mapSession(session)}, nil
}

func (h Handler) GetSessionHandler(ctx context.Context, sessionID string) (httptransport.SessionResponse, error) {
	session, err := h.GetSession.Execute(ctx, sessionID)
	if err != nil {
		return httptransport.SessionResponse{}, err
	}
	return httptransport.SessionResponse{Session: mapSession(session)}, nil
}

func (h Handler) ListSessionsHandler(ctx context.Context, hostID string, status string) (httptransport.ListSessionsResponse, error) {
	items, err := h.ListSessions.Execute(ctx, queries.ListSessionsQuery{
		HostID: hostID,
		Status: status,
	})
	if err != nil {
		return httptransport.ListSessionsResponse{}, err
	}
	result := make([]httptransport.SessionDTO, 0, len(items))
	for _, item := range items {
		result = append(result, mapSession(item))
	}
	return httptransport.ListSessionsResponse{Items: result}, nil
}

func (h Handler) GetStoryHandler(ctx context.Context, sessionID string) (httptransport.StoryResponse, error) {
	story, err := h.AssembleStory.Execute(ctx, sessionID)
	if err != nil {
		return httptransport.StoryResponse{}, err
	}
	return httptransport.StoryResponse{
		SessionID:    story.SessionID,
		Title:        story.Title,
		Genre:        story.Genre,
		Text:         story.Text,
		Contributors: story.Contributors,
	}, nil
}

func mapSession(session entities.Session) httptransport.SessionDTO {
	responses := make([]httptransport.ResponseDTO, 0, len(session.Responses))
	for _, response := range session.Responses {
		responses = append(responses, httptransport.ResponseDTO{
			BlankIndex:    response.BlankIndex,
			Tag:           response.Tag,
			Text:          response.Text,
			ContributorID: response.ContributorID,
			SubmittedAt:   response.SubmittedAt.UTC().Format(time.RFC3339),
			Origin:        string(response.Origin),
		})
	}
	return httptransport.SessionDTO{
		SessionID:        session.SessionID,
		HostID:           session.HostID,
		Title:            session.Title,
		Genre:            session.Genre,
		TemplateID:       session.TemplateID,
		Status:           string(session.Status),
		Participants:     append([]string(nil), session.Participants...),
		CurrentTurnIndex: session.CurrentTurnIndex,
		TotalTurns:       session.TotalTurns,
		Responses:        responses,
		TurnSeconds:      session.TurnSeconds,
		CreatedAt:        session.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:        session.UpdatedAt.UTC().Format(time.RFC3339),
		StartedAt:        formatOptional(session.StartedAt),
		PausedAt:         formatOptional(session.PausedAt),
		ResumedAt:        formatOptional(session.ResumedAt),
		CompletedAt:      formatOptional(session.CompletedAt),
	}
}

func formatOptional(value *time.Time) *string {
	if value == nil {
		return nil
	}
	formatted := value.UTC().Format(time.RFC3339)
	return &formatted
}
