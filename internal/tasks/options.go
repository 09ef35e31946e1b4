package tasks

import (
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/robfig/cron/v3"
)

type cronSchedule struct {
	expr string
}

func (s cronSchedule) String() string {
	return fmt.Sprintf("cron=%s", s.expr)
}

func (s cronSchedule) Type() asynq.OptionType {
	return asynq.ProcessAtOpt
}

func (s cronSchedule) Value() interface{} {
	schedule, err := cron.ParseStandard(s.expr)
	if err != nil {
		// Fall back to a fixed delay if the expression does not parse.
		return time.Now().Add(1 * time.Hour)
	}
	return schedule.Next(time.Now())
}

// CronSchedule returns an option that processes the task at the cron
// expression's next activation. Recurring tasks re-enqueue themselves with
// the same option after each run.
func CronSchedule(expr string) asynq.Option {
	return cronSchedule{expr: expr}
}
