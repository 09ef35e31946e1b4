package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"shepherd/internal/authz"
	"shepherd/internal/services"
	"shepherd/internal/tasks/rate"
	"shepherd/internal/utils/logger"

	"github.com/hibiken/asynq"
	"gorm.io/gorm"
)

// TaskHandler handles task processing with improved error handling and logging
type TaskHandler struct {
	db         *gorm.DB
	logger     *logger.Logger
	taskClient *TaskClient
	reports    *services.ReportService
	resolver   *authz.Resolver
	limiter    *rate.QueueRateLimiter
}

// NewTaskHandler creates a new TaskHandler
func NewTaskHandler(db *gorm.DB, taskClient *TaskClient, reports *services.ReportService, resolver *authz.Resolver) *TaskHandler {
	limiter := rate.NewQueueRateLimiter(taskClient.GetRedisClient(), rate.QueueConfig{
		Name: "reports",
		RateLimit: rate.RateLimit{
			Window:  time.Minute,
			MaxJobs: 10,
		},
	})

	return &TaskHandler{
		db:         db,
		logger:     logger.New("task_handler"),
		taskClient: taskClient,
		reports:    reports,
		resolver:   resolver,
		limiter:    limiter,
	}
}

// HandleAttendanceReport builds the attendance CSV for one event with the
// requesting actor's scope applied, then stores it for download.
func (h *TaskHandler) HandleAttendanceReport(ctx context.Context, t *asynq.Task) error {
	var payload AttendanceReportPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("invalid attendance report payload: %w", err)
	}

	allowed, err := h.limiter.Allow(ctx, payload.EventID)
	if err != nil {
		return err
	}
	if !allowed {
		// Let asynq retry once the window has moved on.
		return fmt.Errorf("report rate limit reached for event %s", payload.EventID)
	}

	role := authz.Role(payload.Role)
	scope, err := h.resolver.ResolveScope(ctx, payload.ActorID, role)
	if err != nil {
		return err
	}

	actor := services.Actor{ID: payload.ActorID, Role: role}
	url, err := h.reports.ExportAttendanceCSV(ctx, payload.EventID, scope, actor)
	if err != nil {
		return h.logger.Error("attendance report export failed", err)
	}

	h.logger.Success("attendance report ready for event %s: %s", payload.EventID, url)
	return nil
}

// HandleWeeklyDigest exports the attendance CSV for every event that ended
// in the last seven days, then reschedules itself.
func (h *TaskHandler) HandleWeeklyDigest(ctx context.Context, t *asynq.Task) error {
	var payload WeeklyDigestPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("invalid digest payload: %w", err)
	}

	var eventIDs []string
	since := time.Now().AddDate(0, 0, -7)
	if err := h.db.WithContext(ctx).
		Table("events").
		Where("ends_at >= ? AND is_deleted = ?", since, false).
		Pluck("id", &eventIDs).Error; err != nil {
		return err
	}

	for _, eventID := range eventIDs {
		if err := h.taskClient.EnqueueAttendanceReport(AttendanceReportPayload{
			EventID: eventID,
			ActorID: "system",
			Role:    string(authz.RoleSuperAdmin),
		}); err != nil {
			h.logger.Warn("failed to enqueue digest export for event %s: %v", eventID, err)
		}
	}

	if payload.Reschedule != "" {
		if err := h.taskClient.EnqueueWeeklyDigest(payload.Reschedule); err != nil {
			return err
		}
	}

	h.logger.Info("weekly digest queued %d event exports", len(eventIDs))
	return nil
}
