package postgres

import (
	"github.com/yoockh/volunteerhub/internal/models"
	"gorm.io/gorm"
)

// AutoMigrate creates or updates the audit tables.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&models.ScreeningEvent{}, &models.EmailDispatch{})
}
