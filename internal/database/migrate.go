package database

import (
	"gorm.io/gorm"

	"github.com/noah-isme/gema-assessment-api/internal/models"
)

// Migrate creates or updates the assessment schema.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Student{},
		&models.Exam{},
		&models.Question{},
		&models.Submission{},
		&models.Answer{},
	)
}
