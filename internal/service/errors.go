package service

import (
	"errors"
	"fmt"
)

var (
	// ErrExamNotFound indicates the exam could not be located.
	ErrExamNotFound = errors.New("exam not found")
	// ErrSubmissionNotFound indicates the submission could not be located or is not visible to the caller.
	ErrSubmissionNotFound = errors.New("submission not found")
	// ErrDuplicateSubmission indicates the student already submitted the exam.
	ErrDuplicateSubmission = errors.New("exam already submitted by student")
	// ErrQuestionNotInExam indicates an answer references a question of another exam.
	ErrQuestionNotInExam = errors.New("question does not belong to exam")
	// ErrDuplicateAnswer indicates a question was answered more than once in one
	// payload. Intake rejects repeats on purpose so a question's weight is never
	// counted twice in the aggregate.
	ErrDuplicateAnswer = errors.New("question answered more than once")
)

// QuestionNotInExamError reports the offending question id. It matches ErrQuestionNotInExam.
type QuestionNotInExamError struct {
	QuestionID uint
	ExamID     uint
}

func (e *QuestionNotInExamError) Error() string {
	return fmt.Sprintf("question %d does not belong to exam %d", e.QuestionID, e.ExamID)
}

// Is lets errors.Is match the sentinel.
func (e *QuestionNotInExamError) Is(target error) bool {
	return target == ErrQuestionNotInExam
}
