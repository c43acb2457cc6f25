package service

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/noah-isme/school-console/internal/dto"
	"github.com/noah-isme/school-console/internal/models"
	"github.com/noah-isme/school-console/internal/observability"
	"github.com/noah-isme/school-console/internal/repository"
)

const (
	dashboardCacheKey       = "school-console:dashboard:stats"
	dashboardAttendanceSize = 100
)

// DashboardService aggregates the headline numbers of the dashboard.
type DashboardService interface {
	Stats(ctx context.Context) (dto.DashboardStats, error)
	Invalidate(ctx context.Context)
}

type dashboardService struct {
	students   repository.StudentRepository
	classes    repository.ClassRepository
	attendance repository.AttendanceRepository
	cache      *redis.Client
	cacheTTL   time.Duration
	logger     zerolog.Logger
	now        func() time.Time
}

// NewDashboardService constructs the dashboard service. cache may be nil.
func NewDashboardService(students repository.StudentRepository, classes repository.ClassRepository, attendance repository.AttendanceRepository, cache *redis.Client, ttl time.Duration, logger zerolog.Logger) DashboardService {
	return &dashboardService{
		students:   students,
		classes:    classes,
		attendance: attendance,
		cache:      cache,
		cacheTTL:   ttl,
		logger:     logger.With().Str("component", "dashboard_service").Logger(),
		now:        time.Now,
	}
}

func (s *dashboardService) Stats(ctx context.Context) (dto.DashboardStats, error) {
	tracer := otel.Tracer("github.com/noah-isme/school-console/internal/service/dashboard")
	ctx, span := tracer.Start(ctx, "dashboard.stats")
	defer span.End()

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, dashboardCacheKey).Result()
		if err == nil {
			var stats dto.DashboardStats
			if unmarshalErr := json.Unmarshal([]byte(cached), &stats); unmarshalErr == nil {
				observability.DashboardCache().WithLabelValues("hit").Inc()
				span.SetAttributes(attribute.Bool("dashboard.cache_hit", true))
				return stats, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			s.logger.Warn().Err(err).Msg("failed to read dashboard cache")
			span.RecordError(err)
		}
		observability.DashboardCache().WithLabelValues("miss").Inc()
	}

	students, err := s.students.List(ctx, 1, "")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "list_students_failed")
		return dto.DashboardStats{}, err
	}

	classes, err := s.classes.List(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "list_classes_failed")
		return dto.DashboardStats{}, err
	}

	records, err := s.attendanceRecords(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "list_attendance_failed")
		return dto.DashboardStats{}, err
	}

	stats := s.buildStats(students, classes, records)
	span.SetAttributes(
		attribute.Int64("dashboard.total_students", stats.TotalStudents),
		attribute.Int("dashboard.active_classes", stats.ActiveClasses),
	)

	if s.cache != nil {
		payload, err := json.Marshal(stats)
		if err == nil {
			if err := s.cache.Set(ctx, dashboardCacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store dashboard cache")
				span.RecordError(err)
			}
		}
	}

	return stats, nil
}

// attendanceRecords walks every attendance page so today's rate covers the
// whole day, not just the first page.
func (s *dashboardService) attendanceRecords(ctx context.Context) ([]models.AttendanceRecord, error) {
	var records []models.AttendanceRecord
	for page := 1; page <= maxPageWalk; page++ {
		result, err := s.attendance.List(ctx, page, dashboardAttendanceSize)
		if err != nil {
			return nil, err
		}
		records = append(records, result.Items...)
		if page >= result.Pagination.PageCount() || len(result.Items) == 0 {
			break
		}
	}
	return records, nil
}

// Invalidate drops the cached statistics after a mutation.
func (s *dashboardService) Invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, dashboardCacheKey).Err(); err != nil {
		s.logger.Warn().Err(err).Msg("failed to invalidate dashboard cache")
	}
}

func (s *dashboardService) buildStats(students dto.Page[models.Student], classes dto.Page[models.Class], records []models.AttendanceRecord) dto.DashboardStats {
	now := s.now()
	total := students.Pagination.Total
	if total == 0 {
		total = int64(len(students.Items))
	}

	today := now.Format("2006-01-02")
	recorded, present := 0, 0
	for _, record := range records {
		date, ok := models.ParseDate(record.AttendanceDate)
		if !ok || date.Format("2006-01-02") != today {
			continue
		}
		recorded++
		if record.Status == models.AttendancePresent {
			present++
		}
	}

	percentage := 0.0
	if recorded > 0 {
		percentage = math.Round(float64(present)/float64(recorded)*1000) / 10
	}

	return dto.DashboardStats{
		TotalStudents:      total,
		ActiveClasses:      len(classes.Items),
		AttendanceToday:    percentage,
		AttendanceRecorded: recorded,
		GeneratedAt:        now.UTC(),
	}
}
