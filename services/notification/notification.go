package notification

import (
	"context"

	"go.uber.org/zap"

	"medibook/models"
	"medibook/utils"
)

// NotificationService delivers booking lifecycle messages to users.
type NotificationService interface {
	SendBookingNotification(ctx context.Context, payload models.ReminderPayload) error
}

// Sender is the outbound channel (email, push). Wired at startup; the default
// logs the message, real transports slot in behind this interface.
type Sender interface {
	Send(ctx context.Context, recipient, title, body string) error
}

// DefaultNotificationService implements NotificationService.
type DefaultNotificationService struct {
	Sender Sender
}

func (s *DefaultNotificationService) SendBookingNotification(ctx context.Context, payload models.ReminderPayload) error {
	if s.Sender == nil {
		return nil
	}
	return s.Sender.Send(ctx, payload.Email, payload.Title, payload.Body)
}

// LogSender writes notifications to the application log.
type LogSender struct{}

func (LogSender) Send(ctx context.Context, recipient, title, body string) error {
	utils.GetLogger().Info("notification sent",
		zap.String("recipient", recipient),
		zap.String("title", title),
		zap.String("body", body))
	return nil
}
