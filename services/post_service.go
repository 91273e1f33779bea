package services

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/MaxRocco/csc3094-c1016489-projectRepository/models"
)

type PostService struct{ db *gorm.DB }

func NewPostService(db *gorm.DB) *PostService { return &PostService{db: db} }

// FeedItem is a post with its author and meal resolved for display.
type FeedItem struct {
	models.Post
	Author   UserSummary `json:"author"`
	MealName string      `json:"meal_name,omitempty"`
}

func clampLimit(limit int) int {
	if limit <= 0 || limit > 100 {
		return 20
	}
	return limit
}

// ListUserPosts returns the user's own posts, private ones included, newest first.
func (s *PostService) ListUserPosts(ctx context.Context, userID uint, limit int) ([]FeedItem, error) {
	var posts []models.Post
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(clampLimit(limit)).
		Find(&posts).Error; err != nil {
		return nil, err
	}
	return s.decorate(ctx, posts)
}

// FriendFeed returns public posts by the user's accepted friends, newest
// first. before pages backwards through older posts.
func (s *PostService) FriendFeed(ctx context.Context, userID uint, before *time.Time, limit int) ([]FeedItem, error) {
	db := s.db.WithContext(ctx)
	ids, err := friendIDs(db, userID)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []FeedItem{}, nil
	}
	q := db.Where("user_id IN ? AND public = ?", ids, true)
	if before != nil {
		q = q.Where("created_at < ?", *before)
	}
	var posts []models.Post
	if err := q.Order("created_at DESC, id DESC").Limit(clampLimit(limit)).Find(&posts).Error; err != nil {
		return nil, err
	}
	return s.decorate(ctx, posts)
}

func (s *PostService) decorate(ctx context.Context, posts []models.Post) ([]FeedItem, error) {
	db := s.db.WithContext(ctx)
	userIDs := make([]uint, 0, len(posts))
	var mealIDs []uint
	for _, p := range posts {
		userIDs = append(userIDs, p.UserID)
		if p.MealID != nil {
			mealIDs = append(mealIDs, *p.MealID)
		}
	}
	users, err := usersByID(db, userIDs)
	if err != nil {
		return nil, err
	}
	mealNames := map[uint]string{}
	if len(mealIDs) > 0 {
		var meals []models.Meal
		if err := db.Select("id", "name").Where("id IN ?", mealIDs).Find(&meals).Error; err != nil {
			return nil, err
		}
		for _, m := range meals {
			mealNames[m.ID] = m.Name
		}
	}

	out := make([]FeedItem, 0, len(posts))
	for _, p := range posts {
		item := FeedItem{Post: p, Author: summarize(users[p.UserID])}
		if p.MealID != nil {
			item.MealName = mealNames[*p.MealID]
		}
		out = append(out, item)
	}
	return out, nil
}
