package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/gema-assessment-api/internal/dto"
	"github.com/noah-isme/gema-assessment-api/internal/observability"
	"github.com/noah-isme/gema-assessment-api/internal/repository"
)

const (
	defaultExamPageSize = 20
	examCachePrefix     = "exams"
)

// ExamService serves read-only exam projections.
type ExamService interface {
	List(ctx context.Context, request dto.ExamListRequest) (dto.ExamListResponse, error)
	Get(ctx context.Context, id uint) (dto.ExamDetailResponse, error)
}

type examService struct {
	exams     repository.ExamRepository
	cache     *redis.Client
	cacheTTL  time.Duration
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewExamService builds the exam projection service. cache may be nil.
func NewExamService(repo repository.ExamRepository, cache *redis.Client, ttl time.Duration, validate *validator.Validate, logger zerolog.Logger) ExamService {
	return &examService{
		exams:     repo,
		cache:     cache,
		cacheTTL:  ttl,
		validator: validate,
		logger:    logger.With().Str("component", "exam_service").Logger(),
	}
}

func (s *examService) List(ctx context.Context, request dto.ExamListRequest) (dto.ExamListResponse, error) {
	if err := s.validator.Struct(request); err != nil {
		return dto.ExamListResponse{}, err
	}

	page := request.Page
	if page <= 0 {
		page = 1
	}
	pageSize := request.PageSize
	if pageSize <= 0 {
		pageSize = defaultExamPageSize
	}
	course := strings.TrimSpace(request.Course)

	cacheKey := fmt.Sprintf("%s:list:%s:%d:%d", examCachePrefix, course, page, pageSize)
	var response dto.ExamListResponse
	if s.readCache(ctx, cacheKey, &response) {
		return response, nil
	}

	exams, total, err := s.exams.List(ctx, repository.ExamFilter{Course: course, Page: page, PageSize: pageSize})
	if err != nil {
		return dto.ExamListResponse{}, err
	}

	items := make([]dto.ExamSummary, 0, len(exams))
	for _, exam := range exams {
		items = append(items, dto.NewExamSummary(exam))
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	response = dto.ExamListResponse{
		Items: items,
		Pagination: dto.PaginationMeta{
			Page:       page,
			PageSize:   pageSize,
			TotalItems: total,
			TotalPages: totalPages,
		},
	}

	s.writeCache(ctx, cacheKey, response)
	return response, nil
}

func (s *examService) Get(ctx context.Context, id uint) (dto.ExamDetailResponse, error) {
	cacheKey := fmt.Sprintf("%s:detail:%d", examCachePrefix, id)
	var response dto.ExamDetailResponse
	if s.readCache(ctx, cacheKey, &response) {
		return response, nil
	}

	exam, err := s.exams.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ExamDetailResponse{}, ErrExamNotFound
		}
		return dto.ExamDetailResponse{}, err
	}

	response = dto.NewExamDetailResponse(exam)
	s.writeCache(ctx, cacheKey, response)
	return response, nil
}

func (s *examService) readCache(ctx context.Context, key string, target interface{}) bool {
	if s.cache == nil {
		return false
	}

	cached, err := s.cache.Get(ctx, key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.logger.Warn().Err(err).Str("key", key).Msg("failed to read exam cache")
		}
		observability.ExamCacheLookups().WithLabelValues("miss").Inc()
		return false
	}

	if err := json.Unmarshal([]byte(cached), target); err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("discarding malformed exam cache entry")
		observability.ExamCacheLookups().WithLabelValues("miss").Inc()
		return false
	}

	observability.ExamCacheLookups().WithLabelValues("hit").Inc()
	return true
}

func (s *examService) writeCache(ctx context.Context, key string, value interface{}) {
	if s.cache == nil {
		return
	}

	payload, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, payload, s.cacheTTL).Err(); err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("failed to store exam cache")
	}
}
