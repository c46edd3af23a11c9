package postgresadapter

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"taleforge/contexts/story-core/conversion-pipeline/domain/entities"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

func (r *Repository) CreateConversion(ctx context.Context, conversion entities.Conversion) error {
	row := conversionModelFromEntity(conversion)
	return r.db.WithContext(ctx).Create(&row).Error
}

func (r *Repository) ListConversionsBySession(ctx context.Context, sessionID string) ([]entities.Conversion, error) {
	var rows []conversionModel
	err := r.db.WithContext(ctx).
		Where("session_id = ?", strings.TrimSpace(sessionID)).
		Order("created_at ASC").
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}
	items := make([]entities.Conversion, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

type conversionModel struct {
	ConversionID     string    `gorm:"column:conversion_id;primaryKey"`
	SessionID        string    `gorm:"column:session_id;index"`
	TransformerID    string    `gorm:"column:transformer_id"`
	AccountID        string    `gorm:"column:account_id"`
	Output           string    `gorm:"column:output"`
	SeededTemplateID string    `gorm:"column:seeded_template_id"`
	Cost             int64     `gorm:"column:cost"`
	CreatedAt        time.Time `gorm:"column:created_at"`
}

func (conversionModel) TableName() string {
	return "story_conversions"
}

func conversionModelFromEntity(conversion entities.Conversion) conversionModel {
	return conversionModel{
		ConversionID:     conversion.ConversionID,
		SessionID:        conversion.SessionID,
		TransformerID:    conversion.TransformerID,
		AccountID:        conversion.AccountID,
		Output:           conversion.Output,
		SeededTemplateID: conversion.SeededTemplateID,
		Cost:             conversion.Cost,
		CreatedAt:        conversion.CreatedAt,
	}
}

func (m conversionModel) toEntity() entities.Conversion {
	return entities.Conversion{
		ConversionID:     m.ConversionID,
		SessionID:        m.SessionID,
		TransformerID:    m.TransformerID,
		AccountID:        m.AccountID,
		Output:           m.Output,
		SeededTemplateID: m.SeededTemplateID,
		Cost:             m.Cost,
		CreatedAt:        m.CreatedAt,
	}
}

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

type UUIDGenerator struct{}

func (UUIDGenerator) NewID() string {
	return uuid.NewString()
}
