package grading

import (
	"context"
	"errors"
	"fmt"
)

// ErrUnknownQuestionType indicates a question type with no registered strategy.
// It signals a data or configuration inconsistency, never a user input error.
var ErrUnknownQuestionType = errors.New("unknown question type")

// QuestionType identifies how a question is graded.
type QuestionType string

const (
	// QuestionTypeMCQ is a multiple choice question graded by exact match.
	QuestionTypeMCQ QuestionType = "MCQ"
	// QuestionTypeShortAnswer is a free text question graded by cosine similarity.
	QuestionTypeShortAnswer QuestionType = "SHORT_ANSWER"
)

// QuestionTypes lists every question type the registry must cover.
func QuestionTypes() []QuestionType {
	return []QuestionType{QuestionTypeMCQ, QuestionTypeShortAnswer}
}

// ParseQuestionType maps a stored type to its QuestionType. Only the exact
// stored spellings are accepted; "SA" is the legacy short answer code.
func ParseQuestionType(value string) (QuestionType, error) {
	switch value {
	case string(QuestionTypeMCQ):
		return QuestionTypeMCQ, nil
	case string(QuestionTypeShortAnswer), "SA":
		return QuestionTypeShortAnswer, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownQuestionType, value)
	}
}

// StrategyKind names a grading strategy variant.
type StrategyKind string

const (
	StrategyExactMatch       StrategyKind = "exact_match"
	StrategyCosineSimilarity StrategyKind = "cosine_similarity"
)

// Input is everything a strategy needs to score one answer.
type Input struct {
	QuestionID     uint
	QuestionType   QuestionType
	Response       string
	ExpectedAnswer string
}

// Result is the outcome of scoring one answer. Score is in [0,1].
type Result struct {
	Score    float64
	Feedback string
}

// Strategy scores a single answer against its question.
type Strategy interface {
	Kind() StrategyKind
	Score(ctx context.Context, input Input) (Result, error)
}

// ExactMatchStrategy grades multiple choice answers.
type ExactMatchStrategy struct{}

// Kind implements Strategy.
func (ExactMatchStrategy) Kind() StrategyKind { return StrategyExactMatch }

// Score implements Strategy.
func (ExactMatchStrategy) Score(_ context.Context, input Input) (Result, error) {
	score := ExactMatchScore(input.Response, input.ExpectedAnswer)
	feedback := "no match"
	if IsCorrect(score) {
		feedback = "exact match"
	}
	return Result{Score: score, Feedback: feedback}, nil
}

// CosineSimilarityStrategy grades short free text answers.
type CosineSimilarityStrategy struct{}

// Kind implements Strategy.
func (CosineSimilarityStrategy) Kind() StrategyKind { return StrategyCosineSimilarity }

// Score implements Strategy.
func (CosineSimilarityStrategy) Score(_ context.Context, input Input) (Result, error) {
	score := CosineSimilarityScore(input.Response, input.ExpectedAnswer)
	return Result{Score: score, Feedback: fmt.Sprintf("similarity %.2f", score)}, nil
}

// Registry maps every question type to exactly one strategy.
type Registry struct {
	strategies map[QuestionType]Strategy
}

// NewRegistry builds a registry and fails when a known question type is left
// without a strategy.
func NewRegistry(strategies map[QuestionType]Strategy) (*Registry, error) {
	mapped := make(map[QuestionType]Strategy, len(strategies))
	for questionType, strategy := range strategies {
		if strategy == nil {
			return nil, fmt.Errorf("nil strategy for question type %s", questionType)
		}
		mapped[questionType] = strategy
	}

	for _, questionType := range QuestionTypes() {
		if _, ok := mapped[questionType]; !ok {
			return nil, fmt.Errorf("no strategy registered for question type %s", questionType)
		}
	}

	return &Registry{strategies: mapped}, nil
}

// DefaultRegistry wires the built-in strategies.
func DefaultRegistry() *Registry {
	registry, err := NewRegistry(map[QuestionType]Strategy{
		QuestionTypeMCQ:         ExactMatchStrategy{},
		QuestionTypeShortAnswer: CosineSimilarityStrategy{},
	})
	if err != nil {
		panic(err)
	}
	return registry
}

// For returns the strategy registered for the question type.
func (r *Registry) For(questionType QuestionType) (Strategy, error) {
	strategy, ok := r.strategies[questionType]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownQuestionType, questionType)
	}
	return strategy, nil
}

// Score dispatches the input to the strategy for its question type.
func (r *Registry) Score(ctx context.Context, input Input) (Result, error) {
	strategy, err := r.For(input.QuestionType)
	if err != nil {
		return Result{}, err
	}

	result, err := strategy.Score(ctx, input)
	if err != nil {
		return Result{}, fmt.Errorf("score question %d with %s: %w", input.QuestionID, strategy.Kind(), err)
	}
	return result, nil
}
