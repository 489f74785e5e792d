package postgres

import (
	"context"

	"github.com/yoockh/volunteerhub/internal/models"
	"gorm.io/gorm"
)

type EmailDispatchRepository interface {
	Insert(ctx context.Context, d *models.EmailDispatch) error
	ListRecent(ctx context.Context, limit int) ([]models.EmailDispatch, error)
}

type emailDispatchRepo struct {
	db *gorm.DB
}

func NewEmailDispatchRepo(db *gorm.DB) EmailDispatchRepository {
	return &emailDispatchRepo{db: db}
}

func (r *emailDispatchRepo) Insert(ctx context.Context, d *models.EmailDispatch) error {
	return r.db.WithContext(ctx).Create(d).Error
}

func (r *emailDispatchRepo) ListRecent(ctx context.Context, limit int) ([]models.EmailDispatch, error) {
	if limit <= 0 {
		limit = 20
	}
	var rows []models.EmailDispatch
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}
