package tasks

import (
	"encoding/json"
	"fmt"

	"shepherd/internal/utils/logger"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
)

// TaskClient handles task enqueuing with improved error handling and context support
type TaskClient struct {
	client       *asynq.Client
	logger       *logger.Logger
	redisOptions *redis.Options
	redisClient  *redis.Client
}

func (c *TaskClient) GetClient() *asynq.Client {
	return c.client
}

func (c *TaskClient) GetRedisClient() *redis.Client {
	return c.redisClient
}

// NewTaskClient creates a new TaskClient with the given Redis configuration
func NewTaskClient(redisAddr, username, password string, db int) *TaskClient {
	redisOpt := asynq.RedisClientOpt{
		Addr:     redisAddr,
		Username: username,
		Password: password,
		DB:       db,
	}

	redisClient := redis.NewClient(
		&redis.Options{
			Addr:     redisAddr,
			Username: username,
			Password: password,
			DB:       db,
		},
	)

	return &TaskClient{
		client: asynq.NewClient(redisOpt),
		redisOptions: &redis.Options{
			Addr:     redisAddr,
			Username: username,
			Password: password,
			DB:       db,
		},
		redisClient: redisClient,
		logger:      logger.New("TASKS"),
	}
}

// Close closes the underlying asynq client
func (c *TaskClient) Close() error {
	return c.client.Close()
}

// EnqueueAttendanceReport queues a background CSV export for an event.
func (c *TaskClient) EnqueueAttendanceReport(payload AttendanceReportPayload) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal report payload: %w", err)
	}

	task := asynq.NewTask(TaskTypeAttendanceReport, data,
		asynq.Queue(QueueDefault),
		asynq.MaxRetry(RetryDefault),
		asynq.Timeout(TimeoutMedium),
	)
	info, err := c.client.Enqueue(task)
	if err != nil {
		return fmt.Errorf("failed to enqueue attendance report: %w", err)
	}

	c.logger.Info("enqueued attendance report for event %s (task %s)", payload.EventID, info.ID)
	return nil
}

// EnqueueWeeklyDigest schedules the next digest run at the cron spec's next
// activation.
func (c *TaskClient) EnqueueWeeklyDigest(spec string) error {
	data, err := json.Marshal(WeeklyDigestPayload{Reschedule: spec})
	if err != nil {
		return fmt.Errorf("failed to marshal digest payload: %w", err)
	}

	task := asynq.NewTask(TaskTypeWeeklyDigest, data,
		asynq.Queue(QueueLow),
		asynq.MaxRetry(RetryMin),
		asynq.Timeout(TimeoutLong),
		CronSchedule(spec),
	)
	if _, err := c.client.Enqueue(task); err != nil {
		return fmt.Errorf("failed to enqueue weekly digest: %w", err)
	}
	return nil
}
