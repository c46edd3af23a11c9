package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"taleforge/contexts/story-core/conversion-pipeline/application"
	"taleforge/contexts/story-core/conversion-pipeline/domain/entities"
	httptransport "taleforge/contexts/story-core/conversion-pipeline/transport/http"
)

type Handler struct {
	Service application.Service
	Logger  *slog.Logger
}

func (h Handler) RequestConversionHandler(ctx context.Context, sessionID string, req httptransport.RequestConversionRequest) (httptransport.RequestConversionResponse, error) {
	conversion, err := h.Service.RequestConversion(ctx, sessionID, req.TransformerID, req.AccountID)
	if err != nil {
		return httptransport.RequestConversionResponse{}, err
	}
	return httptransport.RequestConversionResponse{Conversion: mapConversion(conversion)}, nil
}

func (h Handler) ListTransformersHandler(_ context.Context) httptransport.ListTransformersResponse {
	catalog := h.Service.ListTransformers()
	items := make([]httptransport.TransformerDTO, 0, len(catalog))
	for _, transformer := range catalog {
		items = append(items, httptransport.TransformerDTO{
			TransformerID: transformer.ID,
			Label:         transformer.Label,
			Description:   transformer.Description,
			Cost:          transformer.Cost,
			Kind:          string(transformer.Kind),
		})
	}
	return httptransport.ListTransformersResponse{Items: items}
}

func (h Handler) ListConversionsHandler(ctx context.Context, sessionID string) (httptransport.ListConversionsResponse, error) {
	conversions, err := h.Service.ListConversions(ctx, sessionID)
	if err != nil {
		return httptransport.ListConversionsResponse{}, err
	}
	items := make([]httptransport.ConversionDTO, 0, len(conversions))
	for _, conversion := range conversions {
		items = append(items, mapConversion(conversion))
	}
	return httptransport.ListConversionsResponse{Items: items}, nil
}

func mapConversion(conversion entities.Conversion) httptransport.ConversionDTO {
	return httptransport.ConversionDTO{
		ConversionID:     conversion.ConversionID,
		SessionID:        conversion.SessionID,
		TransformerID:    conversion.TransformerID,
		AccountID:        conversion.AccountID,
		Output:           conversion.Output,
		SeededTemplateID: conversion.SeededTemplateID,
		Cost:             conversion.Cost,
		CreatedAt:        conversion.CreatedAt.UTC().Format(time.RFC3339),
	}
}
