package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/MaxRocco/csc3094-c1016489-projectRepository/models"
	"github.com/MaxRocco/csc3094-c1016489-projectRepository/utils"
)

const (
	MealCompletionExperience = 25
	DailyLoginExperience     = 2
	QuizBaseExperience       = 2
	QuizExperiencePerCorrect = 2

	MinReflectionLength = 25
	MaxReflectionLength = 500

	maxPostTitleLength = 100
)

// ProgressionService applies experience awards. Each award runs in one
// transaction holding the user row, so counters never lose updates and
// completion records grant at most once.
type ProgressionService struct {
	db  *gorm.DB
	log *zap.Logger
	now func() time.Time
}

func NewProgressionService(db *gorm.DB, log *zap.Logger) *ProgressionService {
	return &ProgressionService{db: db, log: log, now: time.Now}
}

type MealCompletionInput struct {
	Reflection    string
	Title         string
	Public        bool
	PhotoURL      string
	PhotoVerified bool
}

type MealCompletionResult struct {
	MealID           uint `json:"meal_id"`
	ExpAwarded       int  `json:"exp_awarded"`
	AlreadyCompleted bool `json:"already_completed"`
	PostID           uint `json:"post_id"`
	ExperiencePoints int  `json:"experience_points"`
	MealsCompleted   int  `json:"meals_completed"`
}

type QuizCompletionResult struct {
	QuizID           uint           `json:"quiz_id"`
	CorrectCount     int            `json:"correct_count"`
	TotalQuestions   int            `json:"total_questions"`
	ExpAwarded       int            `json:"exp_awarded"`
	AlreadyCompleted bool           `json:"already_completed"`
	Review           []AnswerReview `json:"review"`
	ExperiencePoints int            `json:"experience_points"`
	QuizzesCompleted int            `json:"quizzes_completed"`
}

type DailyRewardResult struct {
	ExpAwarded       int  `json:"exp_awarded"`
	AlreadyClaimed   bool `json:"already_claimed"`
	Streak           int  `json:"streak"`
	LongestStreak    int  `json:"longest_streak"`
	ExperiencePoints int  `json:"experience_points"`
}

// ValidateReflection accepts 25 to 500 characters, counted after trimming surrounding space.
func ValidateReflection(text string) error {
	n := utf8.RuneCountInString(strings.TrimSpace(text))
	if n < MinReflectionLength || n > MaxReflectionLength {
		return fmt.Errorf("%w: reflection must be between %d and %d characters, got %d",
			ErrInvalidInput, MinReflectionLength, MaxReflectionLength, n)
	}
	return nil
}

// AwardMealCompletion marks a meal cooked and records the reflection post.
// The 25 point award and the meals counter move only on the first completion;
// later calls still record their post.
func (s *ProgressionService) AwardMealCompletion(ctx context.Context, userID, mealID uint, in MealCompletionInput) (*MealCompletionResult, error) {
	var res *MealCompletionResult
	err := retryOnDuplicate(func() error {
		var err error
		res, err = s.awardMeal(ctx, userID, mealID, in)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("meal completed",
		zap.Uint("user_id", userID),
		zap.Uint("meal_id", mealID),
		zap.Int("exp_awarded", res.ExpAwarded),
		zap.Uint("post_id", res.PostID),
	)
	return res, nil
}

func (s *ProgressionService) awardMeal(ctx context.Context, userID, mealID uint, in MealCompletionInput) (*MealCompletionResult, error) {
	var res *MealCompletionResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := lockUser(tx, userID); err != nil {
			return err
		}
		var meal models.Meal
		if err := tx.First(&meal, mealID).Error; err != nil {
			if isNotFound(err) {
				return fmt.Errorf("%w: meal %d", ErrNotFound, mealID)
			}
			return err
		}
		if err := ValidateReflection(in.Reflection); err != nil {
			return err
		}

		now := s.now()
		res = &MealCompletionResult{MealID: meal.ID}

		var um models.UserMeal
		err := tx.Where("user_id = ? AND meal_id = ?", userID, mealID).First(&um).Error
		switch {
		case err == nil && um.Completed:
			res.AlreadyCompleted = true
		case err == nil:
			um.Completed = true
			um.CompletedAt = &now
			if err := tx.Save(&um).Error; err != nil {
				return err
			}
		case isNotFound(err):
			um = models.UserMeal{UserID: userID, MealID: mealID, Completed: true, CompletedAt: &now}
			if err := tx.Create(&um).Error; err != nil {
				return err
			}
		default:
			return err
		}

		if !res.AlreadyCompleted {
			if err := grantExperience(tx, experienceAward{
				UserID:  userID,
				Points:  MealCompletionExperience,
				Counter: "meals_completed",
				Source:  models.ExperienceSourceMeal,
				RefID:   meal.ID,
				At:      now,
			}); err != nil {
				return err
			}
			res.ExpAwarded = MealCompletionExperience
		}

		title := strings.TrimSpace(in.Title)
		if title == "" {
			title = "Cooked " + meal.Name
		}
		post := models.Post{
			UserID:        userID,
			MealID:        &meal.ID,
			Title:         truncateRunes(title, maxPostTitleLength),
			Body:          strings.TrimSpace(in.Reflection),
			Public:        in.Public,
			PhotoURL:      in.PhotoURL,
			PhotoVerified: in.PhotoVerified,
			CreatedAt:     now,
		}
		if err := tx.Create(&post).Error; err != nil {
			return err
		}
		res.PostID = post.ID

		var after models.User
		if err := tx.First(&after, userID).Error; err != nil {
			return err
		}
		res.ExperiencePoints = after.ExperiencePoints
		res.MealsCompleted = after.MealsCompleted
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// AwardQuizCompletion scores the first submission for a quiz and awards
// 2 + 2*correct points. Later submissions return the stored score and award nothing.
func (s *ProgressionService) AwardQuizCompletion(ctx context.Context, userID, quizID uint, answers map[uint]string) (*QuizCompletionResult, error) {
	var res *QuizCompletionResult
	err := retryOnDuplicate(func() error {
		var err error
		res, err = s.awardQuiz(ctx, userID, quizID, answers)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("quiz completed",
		zap.Uint("user_id", userID),
		zap.Uint("quiz_id", quizID),
		zap.Int("correct", res.CorrectCount),
		zap.Int("total", res.TotalQuestions),
		zap.Int("exp_awarded", res.ExpAwarded),
	)
	return res, nil
}

func (s *ProgressionService) awardQuiz(ctx context.Context, userID, quizID uint, answers map[uint]string) (*QuizCompletionResult, error) {
	var res *QuizCompletionResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := lockUser(tx, userID); err != nil {
			return err
		}
		var quiz models.Quiz
		if err := tx.First(&quiz, quizID).Error; err != nil {
			if isNotFound(err) {
				return fmt.Errorf("%w: quiz %d", ErrNotFound, quizID)
			}
			return err
		}
		questions, err := quizQuestions(tx, quizID)
		if err != nil {
			return err
		}

		var uq models.UserQuiz
		err = tx.Where("user_id = ? AND quiz_id = ?", userID, quizID).First(&uq).Error
		if err != nil && !isNotFound(err) {
			return err
		}

		if err == nil && uq.Completed {
			review, err := storedReview(tx, uq.ID, questions)
			if err != nil {
				return err
			}
			res = &QuizCompletionResult{
				QuizID:           quizID,
				CorrectCount:     uq.CorrectCount,
				TotalQuestions:   uq.TotalQuestions,
				AlreadyCompleted: true,
				Review:           review,
			}
		} else {
			now := s.now()
			score := ScoreQuiz(questions, answers)
			exp := QuizExperience(score.Correct)

			uq.UserID = userID
			uq.QuizID = quizID
			uq.Completed = true
			uq.CompletedAt = &now
			uq.CorrectCount = score.Correct
			uq.TotalQuestions = score.Total
			uq.ExpAwarded = exp
			if err := tx.Save(&uq).Error; err != nil {
				return err
			}

			rows := make([]models.UserQuizAnswer, 0, len(score.Review))
			for _, r := range score.Review {
				rows = append(rows, models.UserQuizAnswer{
					UserQuizID: uq.ID,
					QuestionID: r.QuestionID,
					Submitted:  r.Submitted,
					Correct:    r.Correct,
				})
			}
			if len(rows) > 0 {
				if err := tx.Create(&rows).Error; err != nil {
					return err
				}
			}

			if err := grantExperience(tx, experienceAward{
				UserID:  userID,
				Points:  exp,
				Counter: "quizzes_completed",
				Source:  models.ExperienceSourceQuiz,
				RefID:   quizID,
				At:      now,
			}); err != nil {
				return err
			}
			res = &QuizCompletionResult{
				QuizID:         quizID,
				CorrectCount:   score.Correct,
				TotalQuestions: score.Total,
				ExpAwarded:     exp,
				Review:         score.Review,
			}
		}

		var after models.User
		if err := tx.First(&after, userID).Error; err != nil {
			return err
		}
		res.ExperiencePoints = after.ExperiencePoints
		res.QuizzesCompleted = after.QuizzesCompleted
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// DailyLoginReward grants 2 points the first time it runs on a calendar date.
// The streak grows on consecutive dates and restarts at 1 after a gap.
func (s *ProgressionService) DailyLoginReward(ctx context.Context, userID uint, today time.Time) (*DailyRewardResult, error) {
	date := utils.CalendarDate(today)
	var res *DailyRewardResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, err := lockUser(tx, userID)
		if err != nil {
			return err
		}

		if user.LastLogin != nil && utils.SameDate(utils.CalendarDate(*user.LastLogin), date) {
			res = &DailyRewardResult{
				AlreadyClaimed:   true,
				Streak:           user.Streak,
				LongestStreak:    user.LongestStreak,
				ExperiencePoints: user.ExperiencePoints,
			}
			return nil
		}

		streak := 1
		if user.LastLogin != nil && utils.SameDate(utils.CalendarDate(*user.LastLogin).AddDate(0, 0, 1), date) {
			streak = user.Streak + 1
		}
		longest := max(user.LongestStreak, streak)

		if err := grantExperience(tx, experienceAward{
			UserID: userID,
			Points: DailyLoginExperience,
			Source: models.ExperienceSourceLogin,
			At:     date,
			Extra: map[string]any{
				"last_login":     date,
				"streak":         streak,
				"longest_streak": longest,
			},
		}); err != nil {
			return err
		}
		res = &DailyRewardResult{
			ExpAwarded:       DailyLoginExperience,
			Streak:           streak,
			LongestStreak:    longest,
			ExperiencePoints: user.ExperiencePoints + DailyLoginExperience,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if res.ExpAwarded > 0 {
		s.log.Info("daily login reward", zap.Uint("user_id", userID), zap.Int("streak", res.Streak))
	}
	return res, nil
}

type experienceAward struct {
	UserID  uint
	Points  int
	Counter string // optional completion counter column to bump by one
	Source  string
	RefID   uint
	At      time.Time
	Extra   map[string]any
}

// grantExperience increments counters in SQL so concurrent awards cannot overwrite each other.
func grantExperience(tx *gorm.DB, a experienceAward) error {
	updates := map[string]any{
		"experience_points": gorm.Expr("experience_points + ?", a.Points),
	}
	if a.Counter != "" {
		updates[a.Counter] = gorm.Expr(a.Counter+" + ?", 1)
	}
	for k, v := range a.Extra {
		updates[k] = v
	}
	if err := tx.Model(&models.User{}).Where("id = ?", a.UserID).Updates(updates).Error; err != nil {
		return err
	}
	return tx.Create(&models.ExperienceLog{
		UserID: a.UserID,
		Date:   utils.CalendarDate(a.At.UTC()),
		Source: a.Source,
		RefID:  a.RefID,
		Points: a.Points,
	}).Error
}

func lockUser(tx *gorm.DB, userID uint) (*models.User, error) {
	var user models.User
	if err := lockForUpdate(tx).First(&user, userID).Error; err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%w: user %d", ErrNotFound, userID)
		}
		return nil, err
	}
	return &user, nil
}

func quizQuestions(tx *gorm.DB, quizID uint) ([]models.Question, error) {
	var questions []models.Question
	err := tx.Where("quiz_id = ?", quizID).Order("position ASC, id ASC").Find(&questions).Error
	return questions, err
}

func storedReview(tx *gorm.DB, userQuizID uint, questions []models.Question) ([]AnswerReview, error) {
	var rows []models.UserQuizAnswer
	if err := tx.Where("user_quiz_id = ?", userQuizID).Find(&rows).Error; err != nil {
		return nil, err
	}
	byQuestion := make(map[uint]models.UserQuizAnswer, len(rows))
	for _, r := range rows {
		byQuestion[r.QuestionID] = r
	}
	review := make([]AnswerReview, 0, len(questions))
	for _, q := range questions {
		r := byQuestion[q.ID]
		review = append(review, AnswerReview{
			QuestionID:   q.ID,
			QuestionText: q.Text,
			Submitted:    r.Submitted,
			Correct:      r.Correct,
		})
	}
	return review, nil
}

// retryOnDuplicate reruns fn once when a unique index rejected a concurrent
// insert; the rerun observes the winner's row and takes the no-award path.
func retryOnDuplicate(fn func() error) error {
	err := fn()
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		err = fn()
	}
	return err
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
