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

func befriend(t *testing.T, db *gorm.DB, a, b uint) {
	t.Helper()
	require.NoError(t, db.Create(&models.Friendship{RequesterID: a, RequestedID: b, Status: models.FriendshipAccepted}).Error)
}

func setXP(t *testing.T, db *gorm.DB, id uint, xp int) {
	t.Helper()
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", id).Update("experience_points", xp).Error)
}

func TestFriendLeaderboard(t *testing.T) {
	db := newTestDB(t)
	svc := NewLeaderboardService(db)
	me := createUser(t, db, "me")
	tie := createUser(t, db, "tie")
	top := createUser(t, db, "top")
	stranger := createUser(t, db, "stranger")
	pending := createUser(t, db, "pending")

	befriend(t, db, me.ID, tie.ID)
	befriend(t, db, top.ID, me.ID)
	require.NoError(t, db.Create(&models.Friendship{RequesterID: me.ID, RequestedID: pending.ID}).Error)

	setXP(t, db, me.ID, 50)
	setXP(t, db, tie.ID, 50)
	setXP(t, db, top.ID, 300)
	setXP(t, db, stranger.ID, 1000)
	setXP(t, db, pending.ID, 900)

	board, err := svc.FriendLeaderboard(context.Background(), me.ID)
	require.NoError(t, err)
	require.Len(t, board, 3)
	assert.Equal(t, top.ID, board[0].ID)
	assert.Equal(t, 1, board[0].Rank)
	assert.Equal(t, 4, board[0].Level)
	assert.Equal(t, me.ID, board[1].ID, "ties break on lower id")
	assert.True(t, board[1].IsSelf)
	assert.Equal(t, tie.ID, board[2].ID)
}

func TestFriendLeaderboard_NoFriends(t *testing.T) {
	db := newTestDB(t)
	me := createUser(t, db, "me")
	board, err := NewLeaderboardService(db).FriendLeaderboard(context.Background(), me.ID)
	require.NoError(t, err)
	require.Len(t, board, 1)
	assert.True(t, board[0].IsSelf)
}

func TestWeeklySummary(t *testing.T) {
	db := newTestDB(t)
	svc := NewLeaderboardService(db)
	prog := newProgression(db)
	ctx := context.Background()
	u := createUser(t, db, "wes")
	m := createMeal(t, db, "Curry", 2)
	vegan, meat := 1.2, 5.2
	m.VeganCO2Kg, m.MeatCO2Kg = &vegan, &meat
	require.NoError(t, db.Save(m).Error)

	// 2024-03-04 is a Monday.
	mon := time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)
	wed := mon.AddDate(0, 0, 2)
	nextMon := mon.AddDate(0, 0, 7)

	_, err := prog.DailyLoginReward(ctx, u.ID, mon)
	require.NoError(t, err)
	_, err = prog.DailyLoginReward(ctx, u.ID, wed)
	require.NoError(t, err)
	prog.now = fixedClock(wed)
	_, err = prog.AwardMealCompletion(ctx, u.ID, m.ID, MealCompletionInput{Reflection: validReflection})
	require.NoError(t, err)
	_, err = prog.DailyLoginReward(ctx, u.ID, nextMon)
	require.NoError(t, err)

	sum, err := svc.WeeklySummary(ctx, u.ID, wed.AddDate(0, 0, 3)) // Saturday
	require.NoError(t, err)
	assert.Equal(t, "2024-03-04", sum.WeekStart)
	assert.Equal(t, "2024-03-10", sum.WeekEnd)
	require.Len(t, sum.Days, 7)
	assert.Equal(t, 2, sum.Days[0].Experience)
	assert.Equal(t, 0, sum.Days[1].Experience)
	assert.Equal(t, 27, sum.Days[2].Experience)
	assert.Equal(t, 29, sum.Total)
	assert.Equal(t, 4, sum.BySource[models.ExperienceSourceLogin])
	assert.Equal(t, 25, sum.BySource[models.ExperienceSourceMeal])
	assert.Equal(t, 0, sum.BySource[models.ExperienceSourceQuiz])
	assert.Equal(t, 1, sum.MealsDone)
	assert.InDelta(t, 4.0, sum.CO2SavedKg, 1e-9)
}

func TestTopUsers(t *testing.T) {
	db := newTestDB(t)
	a := createUser(t, db, "a")
	b := createUser(t, db, "b")
	setXP(t, db, a.ID, 10)
	setXP(t, db, b.ID, 20)

	board, err := NewLeaderboardService(db).TopUsers(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, board, 1)
	assert.Equal(t, b.ID, board[0].ID)
}
