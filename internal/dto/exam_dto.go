package dto

import (
	"time"

	"github.com/noah-isme/gema-assessment-api/internal/models"
)

// PaginationMeta captures pagination metadata for list responses.
type PaginationMeta struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalItems int64 `json:"total_items"`
	TotalPages int   `json:"total_pages"`
}

// ExamListRequest describes query string filters for listing exams.
type ExamListRequest struct {
	Course   string `query:"course" validate:"omitempty,max=255"`
	Page     int    `query:"page" validate:"omitempty,gte=1"`
	PageSize int    `query:"page_size" validate:"omitempty,gte=1,lte=100"`
}

// ExamSummary is the list projection of an exam.
type ExamSummary struct {
	ID              uint      `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	Course          string    `json:"course"`
	DurationMinutes uint      `json:"duration_minutes"`
	CreatedAt       time.Time `json:"created_at"`
}

// ExamListResponse wraps a paginated exam listing.
type ExamListResponse struct {
	Items      []ExamSummary  `json:"items"`
	Pagination PaginationMeta `json:"pagination"`
}

// QuestionResponse exposes a question to students. The expected answer is withheld.
type QuestionResponse struct {
	ID           uint    `json:"id"`
	QuestionType string  `json:"question_type"`
	Text         string  `json:"text"`
	Weight       float64 `json:"weight"`
	Order        uint    `json:"order"`
}

// ExamDetailResponse is the detail projection of an exam.
type ExamDetailResponse struct {
	ID              uint                   `json:"id"`
	Title           string                 `json:"title"`
	Description     string                 `json:"description"`
	Course          string                 `json:"course"`
	DurationMinutes uint                   `json:"duration_minutes"`
	Metadata        map[string]interface{} `json:"metadata"`
	Questions       []QuestionResponse     `json:"questions"`
}

// NewExamSummary converts an Exam model into its list projection.
func NewExamSummary(model models.Exam) ExamSummary {
	return ExamSummary{
		ID:              model.ID,
		Title:           model.Title,
		Description:     model.Description,
		Course:          model.Course,
		DurationMinutes: model.DurationMinutes,
		CreatedAt:       model.CreatedAt,
	}
}

// NewExamDetailResponse converts an Exam with preloaded questions into a DTO.
func NewExamDetailResponse(model models.Exam) ExamDetailResponse {
	metadata := map[string]interface{}{}
	for key, value := range model.Metadata {
		metadata[key] = value
	}

	questions := make([]QuestionResponse, 0, len(model.Questions))
	for _, question := range model.Questions {
		questions = append(questions, QuestionResponse{
			ID:           question.ID,
			QuestionType: string(question.QuestionType),
			Text:         question.Text,
			Weight:       question.Weight,
			Order:        question.Order,
		})
	}

	return ExamDetailResponse{
		ID:              model.ID,
		Title:           model.Title,
		Description:     model.Description,
		Course:          model.Course,
		DurationMinutes: model.DurationMinutes,
		Metadata:        metadata,
		Questions:       questions,
	}
}
