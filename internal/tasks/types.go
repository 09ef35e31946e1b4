package tasks

import "time"

// Task Types
const (
	// Report related tasks
	TaskTypeAttendanceReport = "report:attendance"
	TaskTypeWeeklyDigest     = "report:weekly_digest"
)

// Task Queues
const (
	QueueCritical = "critical" // For time-sensitive tasks
	QueueDefault  = "default"  // For regular tasks
	QueueLow      = "low"      // For background tasks like report digests
)

// Task Priorities (1-10, higher is more important)
const (
	PriorityCritical = 10
	PriorityHigh     = 8
	PriorityNormal   = 5
	PriorityLow      = 3
	PriorityBG       = 1
)

// Task Timeouts
const (
	TimeoutShort  = 1 * time.Minute
	TimeoutMedium = 5 * time.Minute
	TimeoutLong   = 30 * time.Minute
)

// Task Retry Settings
const (
	RetryMax     = 5
	RetryDefault = 3
	RetryMin     = 1
)

// AttendanceReportPayload asks the worker to build and store the attendance
// CSV for an event on behalf of an actor.
type AttendanceReportPayload struct {
	EventID string `json:"eventId"`
	ActorID string `json:"actorId"`
	Role    string `json:"role"`
}

// WeeklyDigestPayload drives the recurring attendance digest.
type WeeklyDigestPayload struct {
	// Cron spec used to reschedule the digest after each run.
	Reschedule string `json:"reschedule"`
}
