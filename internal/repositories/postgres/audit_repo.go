package postgres

import (
	"context"

	"github.com/yoockh/volunteerhub/internal/models"
	"gorm.io/gorm"
)

type ScreeningEventRepository interface {
	Insert(ctx context.Context, e *models.ScreeningEvent) error
	ListByVolunteer(ctx context.Context, volunteerID string, limit int) ([]models.ScreeningEvent, error)
}

type screeningEventRepo struct {
	db *gorm.DB
}

func NewScreeningEventRepo(db *gorm.DB) ScreeningEventRepository {
	return &screeningEventRepo{db: db}
}

func (r *screeningEventRepo) Insert(ctx context.Context, e *models.ScreeningEvent) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *screeningEventRepo) ListByVolunteer(ctx context.Context, volunteerID string, limit int) ([]models.ScreeningEvent, error) {
	if limit <= 0 {
		limit = 50
	}
	var rows []models.ScreeningEvent
	err := r.db.WithContext(ctx).
		Where("volunteer_id = ?", volunteerID).
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}
