package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/MaxRocco/csc3094-c1016489-projectRepository/models"
)

func createPost(t *testing.T, db *gorm.DB, userID uint, meal *models.Meal, public bool, at time.Time) models.Post {
	t.Helper()
	p := models.Post{UserID: userID, Title: "post", Body: validReflection, Public: public, CreatedAt: at}
	if meal != nil {
		p.MealID = &meal.ID
	}
	require.NoError(t, db.Create(&p).Error)
	return p
}

func TestFriendFeed_OnlyFriendsPublicPosts(t *testing.T) {
	db := newTestDB(t)
	svc := NewPostService(db)
	me := createUser(t, db, "me")
	friend := createUser(t, db, "friend")
	stranger := createUser(t, db, "stranger")
	befriend(t, db, friend.ID, me.ID)
	meal := createMeal(t, db, "Curry", 1)

	base := time.Date(2024, 3, 4, 12, 0, 0, 0, time.UTC)
	older := createPost(t, db, friend.ID, meal, true, base)
	newer := createPost(t, db, friend.ID, nil, true, base.Add(time.Hour))
	createPost(t, db, friend.ID, nil, false, base.Add(2*time.Hour))
	createPost(t, db, stranger.ID, nil, true, base)
	createPost(t, db, me.ID, nil, true, base)

	feed, err := svc.FriendFeed(context.Background(), me.ID, nil, 0)
	require.NoError(t, err)
	require.Len(t, feed, 2)
	assert.Equal(t, newer.ID, feed[0].ID)
	assert.Equal(t, older.ID, feed[1].ID)
	assert.Equal(t, "Curry", feed[1].MealName)
	assert.Equal(t, friend.ID, feed[1].Author.ID)
	assert.Equal(t, "friend", feed[1].Author.FirstName)

	before := newer.CreatedAt
	page, err := svc.FriendFeed(context.Background(), me.ID, &before, 10)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, older.ID, page[0].ID)
}

func TestFriendFeed_NoFriends(t *testing.T) {
	db := newTestDB(t)
	me := createUser(t, db, "me")
	feed, err := NewPostService(db).FriendFeed(context.Background(), me.ID, nil, 10)
	require.NoError(t, err)
	assert.Empty(t, feed)
}

func TestListUserPosts_IncludesPrivate(t *testing.T) {
	db := newTestDB(t)
	me := createUser(t, db, "me")
	other := createUser(t, db, "other")
	base := time.Date(2024, 3, 4, 12, 0, 0, 0, time.UTC)
	createPost(t, db, me.ID, nil, false, base)
	createPost(t, db, me.ID, nil, true, base.Add(time.Minute))
	createPost(t, db, other.ID, nil, true, base)

	posts, err := NewPostService(db).ListUserPosts(context.Background(), me.ID, 0)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.True(t, posts[0].Public)
	assert.False(t, posts[1].Public)
}
