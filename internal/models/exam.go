package models

import (
	"time"

	"gorm.io/datatypes"

	"github.com/noah-isme/gema-assessment-api/internal/grading"
)

// Exam is a timed collection of ordered questions. Exams are read-only to the
// grading pipeline.
type Exam struct {
	ID              uint              `gorm:"primaryKey" json:"id"`
	Title           string            `gorm:"size:255;not null" json:"title"`
	Description     string            `gorm:"type:text" json:"description"`
	Course          string            `gorm:"size:255;not null;index" json:"course"`
	DurationMinutes uint              `gorm:"not null;check:duration_minutes >= 1" json:"duration_minutes"`
	Metadata        datatypes.JSONMap `gorm:"type:json" json:"metadata"`
	CreatedAt       time.Time         `json:"created_at"`
	Questions       []Question        `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"questions,omitempty"`
}

// Question is a single gradable item of an exam.
type Question struct {
	ID             uint                 `gorm:"primaryKey" json:"id"`
	ExamID         uint                 `gorm:"not null;index:idx_question_exam_order,priority:1" json:"exam_id"`
	QuestionType   grading.QuestionType `gorm:"size:16;not null" json:"question_type"`
	Text           string               `gorm:"type:text;not null" json:"text"`
	ExpectedAnswer string               `gorm:"type:text;not null" json:"expected_answer"`
	Weight         float64              `gorm:"not null;default:1;check:weight > 0" json:"weight"`
	Order          uint                 `gorm:"column:display_order;not null;default:0;index:idx_question_exam_order,priority:2" json:"order"`
}
