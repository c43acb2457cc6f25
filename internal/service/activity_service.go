package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/datatypes"

	"github.com/noah-isme/school-console/internal/dto"
	"github.com/noah-isme/school-console/internal/models"
	"github.com/noah-isme/school-console/internal/observability"
	"github.com/noah-isme/school-console/internal/repository"
)

// ActivitySubject is the NATS subject activity entries are broadcast on.
const ActivitySubject = "school.console.activity"

// ActivityEntry captures the details required to persist an audit entry.
type ActivityEntry struct {
	Actor         string
	Action        string
	EntityType    string
	EntityID      string
	CorrelationID string
	Metadata      map[string]interface{}
}

// ActivityPublisher broadcasts recorded entries. *nats.Conn satisfies it.
type ActivityPublisher interface {
	Publish(subject string, data []byte) error
}

// ActivityRecorder defines behaviour for recording activity logs.
type ActivityRecorder interface {
	Record(ctx context.Context, entry ActivityEntry) (dto.ActivityResponse, error)
}

// ActivityService exposes methods to query and persist the console audit trail.
type ActivityService interface {
	ActivityRecorder
	List(ctx context.Context, req dto.ActivityListRequest) (dto.ActivityListResponse, error)
	Recent(ctx context.Context, limit int) ([]dto.ActivityResponse, error)
}

type activityService struct {
	repo      repository.ActivityLogRepository
	publisher ActivityPublisher
	logger    zerolog.Logger
}

// NewActivityService constructs the activity log service. publisher may be nil.
func NewActivityService(repo repository.ActivityLogRepository, publisher ActivityPublisher, logger zerolog.Logger) ActivityService {
	return &activityService{
		repo:      repo,
		publisher: publisher,
		logger:    logger.With().Str("component", "activity_service").Logger(),
	}
}

func (s *activityService) Record(ctx context.Context, entry ActivityEntry) (dto.ActivityResponse, error) {
	if strings.TrimSpace(entry.Action) == "" {
		return dto.ActivityResponse{}, fmt.Errorf("action is required")
	}
	if strings.TrimSpace(entry.EntityType) == "" {
		return dto.ActivityResponse{}, fmt.Errorf("entity type is required")
	}

	model := models.ActivityLog{
		Actor:         normalizeActor(entry.Actor),
		Action:        strings.ToLower(strings.TrimSpace(entry.Action)),
		EntityType:    strings.ToLower(strings.TrimSpace(entry.EntityType)),
		EntityID:      strings.TrimSpace(entry.EntityID),
		CorrelationID: entry.CorrelationID,
		Metadata:      sanitizeMetadata(entry.Metadata),
		CreatedAt:     time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, &model); err != nil {
		s.logger.Error().Err(err).Msg("failed to persist activity log")
		return dto.ActivityResponse{}, err
	}
	observability.ActivityRecords().WithLabelValues(model.Action).Inc()

	response := dto.NewActivityResponse(model)
	s.broadcast(response)
	return response, nil
}

func (s *activityService) List(ctx context.Context, req dto.ActivityListRequest) (dto.ActivityListResponse, error) {
	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}
	page := maxInt(req.Page, 1)

	entries, total, err := s.repo.List(ctx, repository.ActivityLogFilter{
		Page:       page,
		PageSize:   pageSize,
		Actor:      strings.TrimSpace(req.Actor),
		Action:     strings.TrimSpace(req.Action),
		EntityType: strings.TrimSpace(req.EntityType),
	})
	if err != nil {
		return dto.ActivityListResponse{}, err
	}

	responses := make([]dto.ActivityResponse, 0, len(entries))
	for _, entry := range entries {
		responses = append(responses, dto.NewActivityResponse(entry))
	}

	pagination := dto.Pagination{Page: page, Limit: pageSize, Total: total}
	pagination.TotalPages = pagination.PageCount()
	return dto.ActivityListResponse{Items: responses, Pagination: pagination}, nil
}

func (s *activityService) Recent(ctx context.Context, limit int) ([]dto.ActivityResponse, error) {
	if limit <= 0 {
		limit = 5
	}
	list, err := s.List(ctx, dto.ActivityListRequest{Page: 1, PageSize: limit})
	if err != nil {
		return nil, err
	}
	return list.Items, nil
}

func (s *activityService) broadcast(entry dto.ActivityResponse) {
	if s.publisher == nil {
		return
	}
	payload, err := json.Marshal(entry)
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to encode activity event")
		return
	}
	if err := s.publisher.Publish(ActivitySubject, payload); err != nil {
		s.logger.Warn().Err(err).Msg("failed to publish activity event")
	}
}

func sanitizeMetadata(metadata map[string]interface{}) datatypes.JSONMap {
	if metadata == nil {
		return datatypes.JSONMap{}
	}

	sanitized := datatypes.JSONMap{}
	for key, value := range metadata {
		lower := strings.ToLower(key)
		if strings.Contains(lower, "email") || strings.Contains(lower, "cnic") || strings.Contains(lower, "token") {
			sanitized[key] = "***"
			continue
		}
		sanitized[key] = value
	}
	return sanitized
}

func normalizeActor(actor string) string {
	a := strings.TrimSpace(actor)
	if a == "" {
		return "console"
	}
	return a
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
