package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/MaxRocco/csc3094-c1016489-projectRepository/models"
	"github.com/MaxRocco/csc3094-c1016489-projectRepository/utils"
)

// Notice is one notification to deliver. Subject and Body, when set, are also
// mailed to the recipient.
type Notice struct {
	UserID  uint
	Kind    string
	Message string
	ActorID *uint
	RefID   uint
	Subject string
	Body    string
}

// NotificationService stores notifications and fans them out to open
// websockets, mobile push and email. Only the database write can fail the call.
type NotificationService struct {
	db     *gorm.DB
	hub    *RealtimeHub
	push   *PushService
	mailer utils.Mailer
	log    *zap.Logger
	now    func() time.Time
}

// NewNotificationService takes optional hub, push and mailer; nil disables that channel.
func NewNotificationService(db *gorm.DB, hub *RealtimeHub, push *PushService, mailer utils.Mailer, log *zap.Logger) *NotificationService {
	return &NotificationService{db: db, hub: hub, push: push, mailer: mailer, log: log, now: time.Now}
}

func (s *NotificationService) Notify(ctx context.Context, n Notice) (*models.Notification, error) {
	rec := &models.Notification{
		UserID:    n.UserID,
		Kind:      n.Kind,
		Message:   n.Message,
		ActorID:   n.ActorID,
		RefID:     n.RefID,
		CreatedAt: s.now(),
	}
	if err := s.db.WithContext(ctx).Create(rec).Error; err != nil {
		return nil, err
	}

	if s.hub != nil {
		s.hub.Publish(n.UserID, map[string]any{
			"kind":         "notification.created",
			"notification": rec,
		})
	}
	if s.push != nil {
		s.push.PushToUser(ctx, n.UserID, "Vegan Quest", n.Message, map[string]string{
			"type":           n.Kind,
			"notificationId": fmt.Sprintf("%d", rec.ID),
		})
	}
	if s.mailer != nil && n.Subject != "" {
		var user models.User
		if err := s.db.WithContext(ctx).Select("id", "email").First(&user, n.UserID).Error; err != nil {
			s.log.Warn("notification email lookup", zap.Uint("user_id", n.UserID), zap.Error(err))
		} else if err := s.mailer.Send(ctx, user.Email, n.Subject, n.Body); err != nil {
			s.log.Warn("notification email", zap.Uint("user_id", n.UserID), zap.Error(err))
		}
	}
	return rec, nil
}

// List returns the newest notifications first, optionally only unread ones.
func (s *NotificationService) List(ctx context.Context, userID uint, unreadOnly bool, limit int) ([]models.Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	q := s.db.WithContext(ctx).Where("user_id = ?", userID)
	if unreadOnly {
		q = q.Where("read = ?", false)
	}
	var out []models.Notification
	err := q.Order("created_at DESC, id DESC").Limit(limit).Find(&out).Error
	return out, err
}

// MarkRead flags one of the user's notifications as read.
func (s *NotificationService) MarkRead(ctx context.Context, userID, notificationID uint) error {
	var n models.Notification
	if err := s.db.WithContext(ctx).First(&n, notificationID).Error; err != nil {
		if isNotFound(err) {
			return fmt.Errorf("%w: notification %d", ErrNotFound, notificationID)
		}
		return err
	}
	if n.UserID != userID {
		return ErrForbidden
	}
	return s.db.WithContext(ctx).Model(&n).Update("read", true).Error
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID uint) (int64, error) {
	res := s.db.WithContext(ctx).Model(&models.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Update("read", true)
	return res.RowsAffected, res.Error
}
