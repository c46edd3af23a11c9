package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"taleforge/contexts/story-core/template-library/domain/entities"
	domainerrors "taleforge/contexts/story-core/template-library/domain/errors"
	"taleforge/contexts/story-core/template-library/ports"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
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

func (r *Repository) CreateTemplate(ctx context.Context, template entities.Template) error {
	row := templateModelFromEntity(template)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrTemplateAlreadyExists
		}
		return err
	}
	return nil
}

func (r *Repository) GetTemplate(ctx context.Context, templateID string) (entities.Template, error) {
	var row templateModel
	err := r.db.WithContext(ctx).
		Where("template_id = ?", strings.TrimSpace(templateID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Template{}, domainerrors.ErrTemplateNotFound
		}
		return entities.Template{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) ListTemplates(ctx context.Context, filter ports.TemplateFilter) ([]entities.Template, error) {
	tx := r.db.WithContext(ctx).Model(&templateModel{})
	if filter.Genre != "" {
		tx = tx.Where("genre = ?", filter.Genre)
	}
	if filter.Difficulty != "" {
		tx = tx.Where("difficulty = ?", string(filter.Difficulty))
	}

	var rows []templateModel
	if err := tx.Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}

	items := make([]entities.Template, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

// Templates persist as bracket-syntax text and round-trip through the parser
// on load, so the database never holds a second encoding of the segments.
type templateModel struct {
	TemplateID string    `gorm:"column:template_id;primaryKey"`
	Title      string    `gorm:"column:title"`
	Genre      string    `gorm:"column:genre"`
	Difficulty string    `gorm:"column:difficulty"`
	Text       string    `gorm:"column:text"`
	Tags       []string  `gorm:"column:tags;type:text[]"`
	CreatedAt  time.Time `gorm:"column:created_at"`
}

func (templateModel) TableName() string {
	return "story_templates"
}

func templateModelFromEntity(template entities.Template) templateModel {
	return templateModel{
		TemplateID: template.TemplateID,
		Title:      template.Title,
		Genre:      template.Genre,
		Difficulty: string(template.Difficulty),
		Text:       template.Text(),
		Tags:       append([]string(nil), template.Tags...),
		CreatedAt:  template.CreatedAt,
	}
}

func (m templateModel) toEntity() entities.Template {
	return entities.Template{
		TemplateID: m.TemplateID,
		Title:      m.Title,
		Genre:      m.Genre,
		Difficulty: entities.Difficulty(m.Difficulty),
		Segments:   entities.ParseSegments(m.Text),
		Tags:       append([]string(nil), m.Tags...),
		CreatedAt:  m.CreatedAt,
	}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
