package services

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/MaxRocco/csc3094-c1016489-projectRepository/config"
	"github.com/MaxRocco/csc3094-c1016489-projectRepository/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, config.Migrate(db))
	return db
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func createUser(t *testing.T, db *gorm.DB, name string) *models.User {
	t.Helper()
	u := &models.User{
		Email:               name + "@example.com",
		FirstName:           name,
		LastName:            "Tester",
		Password:            "x",
		Role:                models.RoleUser,
		CompletedOnboarding: true,
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

func createMeal(t *testing.T, db *gorm.DB, name string, difficulty int, allergens ...models.Allergen) *models.Meal {
	t.Helper()
	m := &models.Meal{
		Name:         name,
		Description:  "desc",
		Recipe:       "recipe",
		Instructions: "instructions",
		Difficulty:   difficulty,
		Allergens:    models.NewAllergenSet(allergens...),
	}
	require.NoError(t, db.Create(m).Error)
	return m
}

// createQuiz makes a quiz whose question i has correct answer "answer-i".
func createQuiz(t *testing.T, db *gorm.DB, name string, order, questions int) (*models.Quiz, []models.Question) {
	t.Helper()
	q := &models.Quiz{Name: name, Description: "quiz", DisplayOrder: order}
	require.NoError(t, db.Create(q).Error)
	qs := make([]models.Question, 0, questions)
	for i := 1; i <= questions; i++ {
		question := models.Question{
			QuizID:        q.ID,
			Position:      i,
			Text:          fmt.Sprintf("question %d", i),
			CorrectAnswer: fmt.Sprintf("answer-%d", i),
			OtherOptions:  datatypes.JSONSlice[string]{"wrong-a", "wrong-b", "wrong-c"},
		}
		require.NoError(t, db.Create(&question).Error)
		qs = append(qs, question)
	}
	return q, qs
}

func reloadUser(t *testing.T, db *gorm.DB, id uint) models.User {
	t.Helper()
	var u models.User
	require.NoError(t, db.First(&u, id).Error)
	return u
}

func newProgression(db *gorm.DB) *ProgressionService {
	return NewProgressionService(db, zap.NewNop())
}

const validReflection = "Loved the crunch of the peppers!" // 32 characters
