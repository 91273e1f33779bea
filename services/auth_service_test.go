package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/MaxRocco/csc3094-c1016489-projectRepository/models"
	"github.com/MaxRocco/csc3094-c1016489-projectRepository/utils"
)

func newAuth(db *gorm.DB, now time.Time) (*AuthService, *utils.TokenIssuer) {
	tokens := utils.NewTokenIssuer("test-secret", time.Hour)
	prog := newProgression(db)
	prog.now = fixedClock(now)
	auth := NewAuthService(db, tokens, prog, zap.NewNop())
	auth.now = fixedClock(now)
	return auth, tokens
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		pw string
		ok bool
	}{
		{"Abc1!x", true},
		{"Vegan123!", true},
		{"Ab1!", false},          // too short
		{"Abcdefgh123!!", false}, // too long
		{"abcdef1!", false},      // no upper
		{"ABCDEF1!", false},      // no lower
		{"Abcdefg!", false},      // no digit
		{"Abcdefg1", false},      // no special
	}
	for _, tt := range tests {
		t.Run(tt.pw, func(t *testing.T) {
			err := ValidatePassword(tt.pw)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidInput)
			}
		})
	}
}

func TestRegister(t *testing.T) {
	db := newTestDB(t)
	auth, _ := newAuth(db, time.Now())
	ctx := context.Background()

	u, err := auth.Register(ctx, RegisterInput{Email: " Max@Example.com ", Password: "Vegan123!", FirstName: "Max", LastName: "Ramage"})
	require.NoError(t, err)
	assert.Equal(t, "max@example.com", u.Email)
	assert.Equal(t, models.RoleUser, u.Role)
	assert.False(t, u.CompletedOnboarding)
	assert.NotEqual(t, "Vegan123!", u.Password)
	assert.True(t, utils.CheckPasswordHash("Vegan123!", u.Password))

	_, err = auth.Register(ctx, RegisterInput{Email: "max@example.com", Password: "Vegan123!", FirstName: "Max", LastName: "Again"})
	require.ErrorIs(t, err, ErrEmailTaken)

	_, err = auth.Register(ctx, RegisterInput{Email: "x@example.com", Password: "Vegan123!", FirstName: "M@x", LastName: "R"})
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = auth.Register(ctx, RegisterInput{Email: "not-an-email", Password: "Vegan123!", FirstName: "Max", LastName: "R"})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestLogin_OnboardedUserGetsDailyRewardOnce(t *testing.T) {
	db := newTestDB(t)
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	auth, tokens := newAuth(db, now)
	ctx := context.Background()

	u, err := auth.Register(ctx, RegisterInput{Email: "jane@example.com", Password: "Vegan123!", FirstName: "Jane", LastName: "Doe"})
	require.NoError(t, err)
	require.NoError(t, db.Model(u).Update("completed_onboarding", true).Error)

	res, err := auth.Login(ctx, "jane@example.com", "Vegan123!")
	require.NoError(t, err)
	assert.False(t, res.NeedsOnboarding)
	require.NotNil(t, res.DailyReward)
	assert.Equal(t, DailyLoginExperience, res.DailyReward.ExpAwarded)
	assert.Equal(t, DailyLoginExperience, res.User.ExperiencePoints)

	claims, err := tokens.Parse(res.Token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserID)
	assert.Equal(t, models.RoleUser, claims.Role)

	again, err := auth.Login(ctx, "JANE@example.com", "Vegan123!")
	require.NoError(t, err)
	assert.True(t, again.DailyReward.AlreadyClaimed)
	assert.Equal(t, DailyLoginExperience, again.User.ExperiencePoints)
}

func TestLogin_DailyRewardUsesUTCDate(t *testing.T) {
	db := newTestDB(t)
	sydney := time.FixedZone("UTC+10", 10*3600)
	// 08:00 on 1 May in UTC+10 is still 30 April in UTC.
	auth, _ := newAuth(db, time.Date(2024, 5, 1, 8, 0, 0, 0, sydney))
	ctx := context.Background()

	u, err := auth.Register(ctx, RegisterInput{Email: "kim@example.com", Password: "Vegan123!", FirstName: "Kim", LastName: "Lee"})
	require.NoError(t, err)
	require.NoError(t, db.Model(u).Update("completed_onboarding", true).Error)

	first, err := auth.Login(ctx, "kim@example.com", "Vegan123!")
	require.NoError(t, err)
	assert.Equal(t, DailyLoginExperience, first.DailyReward.ExpAwarded)
	require.NotNil(t, first.User.LastLogin)
	assert.True(t, utils.SameDate(time.Date(2024, 4, 30, 0, 0, 0, 0, time.UTC), *first.User.LastLogin))

	// Same local date, next UTC date.
	auth.now = fixedClock(time.Date(2024, 5, 1, 11, 0, 0, 0, sydney))
	second, err := auth.Login(ctx, "kim@example.com", "Vegan123!")
	require.NoError(t, err)
	assert.Equal(t, DailyLoginExperience, second.DailyReward.ExpAwarded)
	assert.Equal(t, 2, second.DailyReward.Streak)
}

func TestLogin_NotOnboardedSkipsReward(t *testing.T) {
	db := newTestDB(t)
	auth, _ := newAuth(db, time.Now())
	ctx := context.Background()

	_, err := auth.Register(ctx, RegisterInput{Email: "new@example.com", Password: "Vegan123!", FirstName: "New", LastName: "User"})
	require.NoError(t, err)

	res, err := auth.Login(ctx, "new@example.com", "Vegan123!")
	require.NoError(t, err)
	assert.True(t, res.NeedsOnboarding)
	assert.Nil(t, res.DailyReward)
	assert.Zero(t, res.User.ExperiencePoints)
}

func TestLogin_BadCredentials(t *testing.T) {
	db := newTestDB(t)
	auth, _ := newAuth(db, time.Now())
	ctx := context.Background()

	_, err := auth.Register(ctx, RegisterInput{Email: "jane@example.com", Password: "Vegan123!", FirstName: "Jane", LastName: "Doe"})
	require.NoError(t, err)

	_, err = auth.Login(ctx, "jane@example.com", "Wrong123!")
	require.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = auth.Login(ctx, "nobody@example.com", "Vegan123!")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}
