package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/MaxRocco/csc3094-c1016489-projectRepository/models"
	"github.com/MaxRocco/csc3094-c1016489-projectRepository/utils"
)

// FriendshipService drives friend requests through pending, accepted and declined.
type FriendshipService struct {
	db       *gorm.DB
	notifier *NotificationService
	log      *zap.Logger
	now      func() time.Time
}

// NewFriendshipService takes an optional notifier.
func NewFriendshipService(db *gorm.DB, notifier *NotificationService, log *zap.Logger) *FriendshipService {
	return &FriendshipService{db: db, notifier: notifier, log: log, now: time.Now}
}

// FriendRequestView is a pending request together with the other party.
type FriendRequestView struct {
	ID        uint                    `json:"id"`
	Status    models.FriendshipStatus `json:"status"`
	User      UserSummary             `json:"user"`
	CreatedAt time.Time               `json:"created_at"`
}

type FriendView struct {
	FriendshipID uint        `json:"friendship_id"`
	User         UserSummary `json:"user"`
	Since        *time.Time  `json:"since,omitempty"`
}

// UserSummary is the public face of a user shown to other users.
type UserSummary struct {
	ID               uint   `json:"id"`
	FirstName        string `json:"first_name"`
	LastName         string `json:"last_name"`
	ExperiencePoints int    `json:"experience_points"`
	Level            int    `json:"level"`
	Streak           int    `json:"streak"`
}

func summarize(u models.User) UserSummary {
	return UserSummary{
		ID:               u.ID,
		FirstName:        u.FirstName,
		LastName:         u.LastName,
		ExperiencePoints: u.ExperiencePoints,
		Level:            u.Level(),
		Streak:           u.Streak,
	}
}

// SendRequest creates a pending request from requesterID to targetID. Any
// existing record between the two users, in either direction and any status,
// blocks a new one.
func (s *FriendshipService) SendRequest(ctx context.Context, requesterID, targetID uint) (*models.Friendship, error) {
	if requesterID == targetID {
		return nil, ErrSelfReference
	}

	var requester models.User
	f := &models.Friendship{RequesterID: requesterID, RequestedID: targetID, Status: models.FriendshipPending}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&requester, requesterID).Error; err != nil {
			if isNotFound(err) {
				return fmt.Errorf("%w: user %d", ErrNotFound, requesterID)
			}
			return err
		}
		var target models.User
		if err := tx.Select("id").First(&target, targetID).Error; err != nil {
			if isNotFound(err) {
				return fmt.Errorf("%w: user %d", ErrNotFound, targetID)
			}
			return err
		}

		var existing int64
		if err := tx.Model(&models.Friendship{}).
			Where("pair_key = ?", models.FriendshipPairKey(requesterID, targetID)).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return ErrDuplicateRequest
		}
		return tx.Create(f).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, ErrDuplicateRequest
	}
	if err != nil {
		return nil, err
	}

	s.log.Info("friend request sent",
		zap.Uint("friendship_id", f.ID),
		zap.Uint("requester_id", requesterID),
		zap.Uint("requested_id", targetID),
	)
	subject, body := utils.FriendRequestEmail(requester.DisplayName())
	s.notify(ctx, Notice{
		UserID:  targetID,
		Kind:    models.NotificationFriendRequest,
		Message: fmt.Sprintf("%s sent you a friend request", requester.DisplayName()),
		ActorID: &requester.ID,
		RefID:   f.ID,
		Subject: subject,
		Body:    body,
	})
	return f, nil
}

// AcceptRequest moves a pending request addressed to actingUserID to accepted.
func (s *FriendshipService) AcceptRequest(ctx context.Context, requestID, actingUserID uint) (*models.Friendship, error) {
	f, err := s.respond(ctx, requestID, actingUserID, models.FriendshipAccepted)
	if err != nil {
		return nil, err
	}

	var accepter models.User
	if err := s.db.WithContext(ctx).First(&accepter, actingUserID).Error; err != nil {
		s.log.Warn("load accepting user", zap.Uint("user_id", actingUserID), zap.Error(err))
		return f, nil
	}
	subject, body := utils.FriendAcceptedEmail(accepter.DisplayName())
	s.notify(ctx, Notice{
		UserID:  f.RequesterID,
		Kind:    models.NotificationFriendAccepted,
		Message: fmt.Sprintf("%s accepted your friend request", accepter.DisplayName()),
		ActorID: &accepter.ID,
		RefID:   f.ID,
		Subject: subject,
		Body:    body,
	})
	return f, nil
}

// DeclineRequest moves a pending request addressed to actingUserID to declined.
// The requester is not notified.
func (s *FriendshipService) DeclineRequest(ctx context.Context, requestID, actingUserID uint) (*models.Friendship, error) {
	return s.respond(ctx, requestID, actingUserID, models.FriendshipDeclined)
}

func (s *FriendshipService) respond(ctx context.Context, requestID, actingUserID uint, to models.FriendshipStatus) (*models.Friendship, error) {
	var f models.Friendship
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockForUpdate(tx).First(&f, requestID).Error; err != nil {
			if isNotFound(err) {
				return fmt.Errorf("%w: friend request %d", ErrNotFound, requestID)
			}
			return err
		}
		if f.RequestedID != actingUserID {
			return ErrForbidden
		}
		if f.Status != models.FriendshipPending {
			return fmt.Errorf("%w: request is %s", ErrInvalidStateTransition, f.Status)
		}
		now := s.now()
		f.Status = to
		f.RespondedAt = &now
		return tx.Model(&f).Updates(map[string]any{"status": to, "responded_at": now}).Error
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("friend request answered",
		zap.Uint("friendship_id", f.ID),
		zap.String("status", string(f.Status)),
	)
	return &f, nil
}

// FindBetween returns the single record linking two users, in either direction.
func (s *FriendshipService) FindBetween(ctx context.Context, a, b uint) (*models.Friendship, error) {
	var f models.Friendship
	if err := s.db.WithContext(ctx).Where("pair_key = ?", models.FriendshipPairKey(a, b)).First(&f).Error; err != nil {
		if isNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &f, nil
}

// FriendIDs lists the users with an accepted friendship with userID.
func (s *FriendshipService) FriendIDs(ctx context.Context, userID uint) ([]uint, error) {
	return friendIDs(s.db.WithContext(ctx), userID)
}

func friendIDs(db *gorm.DB, userID uint) ([]uint, error) {
	var rows []models.Friendship
	if err := db.Where("status = ? AND (requester_id = ? OR requested_id = ?)", models.FriendshipAccepted, userID, userID).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	ids := make([]uint, 0, len(rows))
	for _, f := range rows {
		ids = append(ids, f.OtherParty(userID))
	}
	return ids, nil
}

func (s *FriendshipService) ListFriends(ctx context.Context, userID uint) ([]FriendView, error) {
	var rows []models.Friendship
	db := s.db.WithContext(ctx)
	if err := db.Where("status = ? AND (requester_id = ? OR requested_id = ?)", models.FriendshipAccepted, userID, userID).
		Order("responded_at DESC, id DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	users, err := usersByID(db, otherParties(rows, userID))
	if err != nil {
		return nil, err
	}
	out := make([]FriendView, 0, len(rows))
	for _, f := range rows {
		u, ok := users[f.OtherParty(userID)]
		if !ok {
			continue
		}
		out = append(out, FriendView{FriendshipID: f.ID, User: summarize(u), Since: f.RespondedAt})
	}
	return out, nil
}

// ListIncoming returns pending requests waiting on userID.
func (s *FriendshipService) ListIncoming(ctx context.Context, userID uint) ([]FriendRequestView, error) {
	return s.listPending(ctx, "requested_id", userID)
}

// ListOutgoing returns pending requests userID has sent.
func (s *FriendshipService) ListOutgoing(ctx context.Context, userID uint) ([]FriendRequestView, error) {
	return s.listPending(ctx, "requester_id", userID)
}

func (s *FriendshipService) listPending(ctx context.Context, column string, userID uint) ([]FriendRequestView, error) {
	var rows []models.Friendship
	db := s.db.WithContext(ctx)
	if err := db.Where(column+" = ? AND status = ?", userID, models.FriendshipPending).
		Order("created_at DESC, id DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	users, err := usersByID(db, otherParties(rows, userID))
	if err != nil {
		return nil, err
	}
	out := make([]FriendRequestView, 0, len(rows))
	for _, f := range rows {
		u, ok := users[f.OtherParty(userID)]
		if !ok {
			continue
		}
		out = append(out, FriendRequestView{ID: f.ID, Status: f.Status, User: summarize(u), CreatedAt: f.CreatedAt})
	}
	return out, nil
}

func (s *FriendshipService) notify(ctx context.Context, n Notice) {
	if s.notifier == nil {
		return
	}
	if _, err := s.notifier.Notify(ctx, n); err != nil {
		s.log.Warn("friendship notification", zap.Uint("user_id", n.UserID), zap.Error(err))
	}
}

func otherParties(rows []models.Friendship, userID uint) []uint {
	ids := make([]uint, 0, len(rows))
	for _, f := range rows {
		ids = append(ids, f.OtherParty(userID))
	}
	return ids
}

func usersByID(db *gorm.DB, ids []uint) (map[uint]models.User, error) {
	out := make(map[uint]models.User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var users []models.User
	if err := db.Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	for _, u := range users {
		out[u.ID] = u
	}
	return out, nil
}
