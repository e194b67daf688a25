package service

import (
	"context"

	"renthub-backend/internal/domain"
	"renthub-backend/internal/logger"
	"renthub-backend/internal/repository"
)

type notificationService struct {
	notes repository.NotificationRepository
	users repository.UserRepository
	email EmailService
}

func NewNotificationService(notes repository.NotificationRepository, users repository.UserRepository, email EmailService) NotificationService {
	return &notificationService{notes: notes, users: users, email: email}
}

// Notify persists the notification and mirrors it to email. Both legs
// are best effort: a delivery failure is logged and never propagates to
// the state transition that triggered it.
func (s *notificationService) Notify(ctx context.Context, userID int64, title, message string, attrs map[string]string) {
	note := &domain.Notification{
		UserID:     userID,
		Title:      title,
		Message:    message,
		Attributes: attrs,
	}
	if err := s.notes.Create(ctx, note); err != nil {
		logger.ErrorContext(ctx, "persist notification failed", "user_id", userID, "title", title, "error", err)
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		logger.WarnContext(ctx, "notification email skipped, user lookup failed", "user_id", userID, "error", err)
		return
	}
	if err := s.email.Send(ctx, user.Email, user.Name, title, message); err != nil {
		logger.WarnContext(ctx, "notification email failed", "user_id", userID, "error", err)
	}
}

func (s *notificationService) List(ctx context.Context, userID int64, page, pageSize int32) ([]domain.Notification, int32, error) {
	return s.notes.List(ctx, userID, page, pageSize)
}

func (s *notificationService) MarkAsRead(ctx context.Context, userID, notificationID int64) error {
	return s.notes.MarkAsRead(ctx, notificationID, userID)
}
