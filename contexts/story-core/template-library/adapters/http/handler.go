package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"taleforge/contexts/story-core/template-library/application/commands"
	"taleforge/contexts/story-core/template-library/application/queries"
	"taleforge/contexts/story-core/template-library/domain/entities"
	httptransport "taleforge/contexts/story-core/template-library/transport/http"
)

type Handler struct {
	RegisterTemplate commands.RegisterTemplateUseCase
	GetTemplate      queries.GetTemplateUseCase
	ListTemplates    queries.ListTemplatesUseCase
	Logger           *slog.Logger
}

func (h Handler) RegisterTemplateHandler(ctx context.Context, req httptransport.RegisterTemplateRequest) (httptransport.RegisterTemplateResponse, error) {
	template, err := h.RegisterTemplate.Execute(ctx, commands.RegisterTemplateCommand{
		Title:      req.Title,
		Genre:      req.Genre,
		Difficulty: req.Difficulty,
		Text:       req.Text,
		Tags:       append([]string(nil), req.Tags...),
	})
	if err != nil {
		return httptransport.RegisterTemplateResponse{}, err
	}
	return httptransport.RegisterTemplateResponse{Template: mapTemplate(template)}, nil
}

func (h Handler) GetTemplateHandler(ctx context.Context, templateID string) (httptransport.GetTemplateResponse, error) {
	template, err := h.GetTemplate.Execute(ctx, templateID)
	if err != nil {
		return httptransport.GetTemplateResponse{}, err
	}
	return httptransport.GetTemplateResponse{Template: mapTemplate(template)}, nil
}

func (h Handler) ListTemplatesHandler(ctx context.Context, genre string, difficulty string) (httptransport.ListTemplatesResponse, error) {
	items, err := h.ListTemplates.Execute(ctx, queries.ListTemplatesQuery{
		Genre:      genre,
		Difficulty: difficulty,
	})
	if err != nil {
		return httptransport.ListTemplatesResponse{}, err
	}
	result := make([]httptransport.TemplateDTO, 0, len(items))
	for _, item := range items {
		result = append(result, mapTemplate(item))
	}
	return httptransport.ListTemplatesResponse{Items: result}, nil
}

func mapTemplate(template entities.Template) httptransport.TemplateDTO {
	segments := make([]httptransport.SegmentDTO, 0, len(template.Segments))
	for _, segment := range template.Segments {
		dto := httptransport.SegmentDTO{Literal: segment.Literal, Tag: segment.Tag}
		if segment.IsBlank() {
			index := segment.BlankIndex
			dto.BlankIndex = &index
		}
		segments = append(segments, dto)
	}
	return httptransport.TemplateDTO{
		TemplateID: template.TemplateID,
		Title:      template.Title,
		Genre:      template.Genre,
		Difficulty: string(template.Difficulty),
		Segments:   segments,
		BlankCount: template.BlankCount(),
		Tags:       append([]string(nil), template.Tags...),
		CreatedAt:  template.CreatedAt.UTC().Format(time.RFC3339),
	}
}
