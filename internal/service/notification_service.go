package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/krasavchik01/rbbb-sub002/internal/auth"
	"github.com/krasavchik01/rbbb-sub002/internal/domain"
	"github.com/krasavchik01/rbbb-sub002/internal/store"
	"go.uber.org/zap"
)

// ErrNotificationNotFound is returned when a notification is not found
var ErrNotificationNotFound = errors.New("notification not found")

// ErrNotificationNotOwned is returned when trying to access a notification owned by another user
var ErrNotificationNotOwned = errors.New("notification does not belong to current user")

// NotificationService handles business logic for notifications
type NotificationService struct {
	store  *store.Store
	logger *zap.Logger
}

// NewNotificationService creates a new NotificationService instance
func NewNotificationService(st *store.Store, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		store:  st,
		logger: logger,
	}
}

// CreateForUser creates a notification for a specific user
func (s *NotificationService) CreateForUser(
	ctx context.Context,
	userID string,
	notificationType domain.NotificationType,
	title string,
	message string,
	actionURL string,
) (*domain.Notification, error) {
	if !notificationType.IsValid() {
		notificationType = domain.NotificationTypeInfo
	}
	n, err := s.store.CreateNotification(ctx, domain.Notification{
		UserID:    userID,
		Type:      notificationType,
		Title:     title,
		Message:   message,
		ActionURL: actionURL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create notification: %w", err)
	}

	s.logger.Info("notification created",
		zap.String("notificationID", n.ID),
		zap.String("userID", userID),
		zap.String("type", string(notificationType)),
	)
	return &n, nil
}

// CreateBatch creates one notification per distinct user. Failures are
// logged and skipped.
func (s *NotificationService) CreateBatch(
	ctx context.Context,
	userIDs []string,
	notificationType domain.NotificationType,
	title string,
	message string,
	actionURL string,
) []domain.Notification {
	results := make([]domain.Notification, 0, len(userIDs))
	seen := make(map[string]bool, len(userIDs))
	var failedCount int

	for _, userID := range userIDs {
		if userID == "" || seen[userID] {
			continue
		}
		seen[userID] = true

		n, err := s.CreateForUser(ctx, userID, notificationType, title, message, actionURL)
		if err != nil {
			s.logger.Warn("failed to create notification for user",
				zap.String("userID", userID),
				zap.Error(err),
			)
			failedCount++
			continue
		}
		results = append(results, *n)
	}

	if failedCount > 0 {
		s.logger.Warn("batch notification creation completed with failures",
			zap.Int("total", len(seen)),
			zap.Int("failed", failedCount),
		)
	}
	return results
}

// NotifyTeam notifies every member of the project's team with a deep link
// to the project
func (s *NotificationService) NotifyTeam(
	ctx context.Context,
	p domain.Project,
	notificationType domain.NotificationType,
	title string,
	message string,
) []domain.Notification {
	userIDs := make([]string, 0, len(p.Team))
	for _, m := range p.Team {
		userIDs = append(userIDs, m.EmployeeID)
	}
	return s.CreateBatch(ctx, userIDs, notificationType, title, message, domain.ProjectLink(p.ID))
}

// ListForUser returns a user's notifications, newest first
func (s *NotificationService) ListForUser(ctx context.Context, userID string, unreadOnly bool) []domain.Notification {
	result := []domain.Notification{}
	for _, n := range s.store.GetNotifications(ctx) {
		if n.UserID != userID || (unreadOnly && n.Read) {
			continue
		}
		result = append(result, n)
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result
}

// Refresh reloads notifications from the remote mirror into the cache and
// returns how many are held
func (s *NotificationService) Refresh(ctx context.Context) int {
	return len(s.store.GetNotifications(ctx))
}

// GetForCurrentUser returns notifications for the current user
func (s *NotificationService) GetForCurrentUser(ctx context.Context, unreadOnly bool) ([]domain.Notification, error) {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUserContextRequired
	}
	return s.ListForUser(ctx, userCtx.UserID, unreadOnly), nil
}

// GetUnreadCount returns the count of unread notifications for the current user
func (s *NotificationService) GetUnreadCount(ctx context.Context) (*domain.UnreadCountDTO, error) {
	unread, err := s.GetForCurrentUser(ctx, true)
	if err != nil {
		return nil, err
	}
	return &domain.UnreadCountDTO{Count: len(unread)}, nil
}

// MarkAsRead marks one of the current user's notifications as read
func (s *NotificationService) MarkAsRead(ctx context.Context, id string) (*domain.Notification, error) {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUserContextRequired
	}

	var owned domain.Notification
	found := false
	for _, n := range s.store.GetNotifications(ctx) {
		if n.ID == id {
			owned, found = n, true
			break
		}
	}
	if !found {
		return nil, ErrNotificationNotFound
	}
	if owned.UserID != userCtx.UserID {
		return nil, ErrNotificationNotOwned
	}
	if owned.Read {
		return &owned, nil
	}

	n, err := s.store.MarkNotificationRead(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotificationNotFound
		}
		return nil, fmt.Errorf("failed to mark notification as read: %w", err)
	}
	return &n, nil
}

// MarkAllAsRead marks all of the current user's notifications as read
func (s *NotificationService) MarkAllAsRead(ctx context.Context) (int, error) {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return 0, ErrUserContextRequired
	}
	marked, err := s.store.MarkAllNotificationsRead(ctx, userCtx.UserID)
	if err != nil {
		return marked, fmt.Errorf("failed to mark notifications as read: %w", err)
	}
	s.logger.Info("notifications marked as read",
		zap.String("userID", userCtx.UserID),
		zap.Int("count", marked),
	)
	return marked, nil
}
