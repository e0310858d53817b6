package tasks

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"

	"medibook/models"
)

const (
	TypeBookingConfirmed = "booking:confirmed"
	TypeBookingReminder  = "booking:reminder"
)

// NewBookingConfirmedTask builds the immediate post-commit confirmation task.
func NewBookingConfirmedTask(payload models.ReminderPayload) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeBookingConfirmed, b)
	opts := []asynq.Option{asynq.MaxRetry(5)}

	return task, opts, nil
}

// NewBookingReminderTask builds a reminder scheduled to fire before the
// appointment.
func NewBookingReminderTask(payload models.ReminderPayload, fireAt time.Time) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeBookingReminder, b)
	opts := []asynq.Option{asynq.ProcessAt(fireAt), asynq.MaxRetry(5)}

	return task, opts, nil
}
