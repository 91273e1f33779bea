package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/MaxRocco/csc3094-c1016489-projectRepository/models"
)

func TestCompleteOnboarding(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db, zap.NewNop())
	ctx := context.Background()
	u := createUser(t, db, "olive")
	require.NoError(t, db.Model(u).Update("completed_onboarding", false).Error)

	got, err := svc.CompleteOnboarding(ctx, u.ID, []string{"peanuts", "tree_nuts", "peanuts"})
	require.NoError(t, err)
	assert.True(t, got.CompletedOnboarding)
	assert.Equal(t, models.NewAllergenSet(models.Peanuts, models.TreeNuts), got.Allergies)

	stored := reloadUser(t, db, u.ID)
	assert.True(t, stored.CompletedOnboarding)
	assert.True(t, stored.Allergies.Has(models.Peanuts))
	assert.False(t, stored.Allergies.Has(models.Gluten))

	_, err = svc.CompleteOnboarding(ctx, u.ID, nil)
	require.ErrorIs(t, err, ErrInvalidStateTransition)
}

func TestCompleteOnboarding_UnknownAllergen(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db, zap.NewNop())
	u := createUser(t, db, "olive")
	require.NoError(t, db.Model(u).Update("completed_onboarding", false).Error)

	_, err := svc.CompleteOnboarding(context.Background(), u.ID, []string{"shellfish"})
	require.ErrorIs(t, err, ErrInvalidInput)
	assert.False(t, reloadUser(t, db, u.ID).CompletedOnboarding)
}

func TestUpdateAllergies_ReplacesSet(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db, zap.NewNop())
	ctx := context.Background()
	u := createUser(t, db, "olive")

	_, err := svc.UpdateAllergies(ctx, u.ID, []string{"celery", "gluten"})
	require.NoError(t, err)
	got, err := svc.UpdateAllergies(ctx, u.ID, []string{"sesame"})
	require.NoError(t, err)
	assert.Equal(t, []string{"sesame"}, got.Allergies.Names())

	cleared, err := svc.UpdateAllergies(ctx, u.ID, []string{})
	require.NoError(t, err)
	assert.True(t, cleared.Allergies.Empty())
	assert.True(t, reloadUser(t, db, u.ID).Allergies.Empty())
}

func TestGetProfile(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db, zap.NewNop())
	now := time.Date(2024, 3, 4, 15, 0, 0, 0, time.UTC)
	svc.now = fixedClock(now)
	prog := newProgression(db)
	prog.now = fixedClock(now)
	ctx := context.Background()

	u := createUser(t, db, "pat")
	m := createMeal(t, db, "Curry", 2)
	_, err := prog.DailyLoginReward(ctx, u.ID, now)
	require.NoError(t, err)
	_, err = prog.AwardMealCompletion(ctx, u.ID, m.ID, MealCompletionInput{Reflection: validReflection})
	require.NoError(t, err)
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", u.ID).
		Update("experience_points", 250).Error)

	p, err := svc.GetProfile(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 250, p.ExperiencePoints)
	assert.Equal(t, 3, p.Level)
	assert.Equal(t, 27, p.DailyExperience)
	assert.Equal(t, 1, p.MealsCompleted)
	assert.Equal(t, 1, p.Streak)

	_, err = svc.GetProfile(ctx, 999)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestListUsers_Pages(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db, zap.NewNop())
	for _, n := range []string{"a", "b", "c"} {
		createUser(t, db, n)
	}

	users, total, err := svc.ListUsers(context.Background(), 2, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, users, 1)
	assert.Equal(t, "c@example.com", users[0].Email)
}
