package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/noah-isme/school-console/internal/models"
)

type auditKey struct{}

// Audit identifies who triggered a mutation.
type Audit struct {
	Actor         string
	CorrelationID string
}

// WithAudit attaches audit details to ctx.
func WithAudit(ctx context.Context, audit Audit) context.Context {
	return context.WithValue(ctx, auditKey{}, audit)
}

// AuditFrom reads audit details from ctx.
func AuditFrom(ctx context.Context) Audit {
	audit, _ := ctx.Value(auditKey{}).(Audit)
	return audit
}

// Auditor is told about every successful console mutation.
type Auditor interface {
	Mutated(ctx context.Context, entityType, action string, id models.ID, metadata map[string]interface{})
}

type mutationAuditor struct {
	activity  ActivityRecorder
	dashboard DashboardService
	logger    zerolog.Logger
}

// NewMutationAuditor records mutations in the activity trail and drops the
// cached dashboard statistics. Either dependency may be nil.
func NewMutationAuditor(activity ActivityRecorder, dashboard DashboardService, logger zerolog.Logger) Auditor {
	return &mutationAuditor{
		activity:  activity,
		dashboard: dashboard,
		logger:    logger.With().Str("component", "mutation_auditor").Logger(),
	}
}

func (a *mutationAuditor) Mutated(ctx context.Context, entityType, action string, id models.ID, metadata map[string]interface{}) {
	if a.dashboard != nil {
		a.dashboard.Invalidate(ctx)
	}
	if a.activity == nil {
		return
	}

	audit := AuditFrom(ctx)
	_, err := a.activity.Record(ctx, ActivityEntry{
		Actor:         audit.Actor,
		Action:        entityType + "." + action,
		EntityType:    entityType,
		EntityID:      id.String(),
		CorrelationID: audit.CorrelationID,
		Metadata:      metadata,
	})
	if err != nil {
		a.logger.Warn().Err(err).Str("entity_type", entityType).Str("action", action).Msg("failed to record activity")
	}
}

type noopAuditor struct{}

func (noopAuditor) Mutated(context.Context, string, string, models.ID, map[string]interface{}) {}

// NoopAuditor discards mutations.
func NoopAuditor() Auditor {
	return noopAuditor{}
}
