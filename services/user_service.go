package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/MaxRocco/csc3094-c1016489-projectRepository/models"
)

type UserService struct {
	db  *gorm.DB
	log *zap.Logger
	now func() time.Time
}

func NewUserService(db *gorm.DB, log *zap.Logger) *UserService {
	return &UserService{db: db, log: log, now: time.Now}
}

type Profile struct {
	ID                  uint               `json:"id"`
	Email               string             `json:"email"`
	FirstName           string             `json:"first_name"`
	LastName            string             `json:"last_name"`
	Role                string             `json:"role"`
	CompletedOnboarding bool               `json:"completed_onboarding"`
	ExperiencePoints    int                `json:"experience_points"`
	Level               int                `json:"level"`
	DailyExperience     int                `json:"daily_experience"`
	MealsCompleted      int                `json:"meals_completed"`
	QuizzesCompleted    int                `json:"quizzes_completed"`
	Streak              int                `json:"streak"`
	LongestStreak       int                `json:"longest_streak"`
	LastLogin           *time.Time         `json:"last_login,omitempty"`
	Allergies           models.AllergenSet `json:"allergies"`
}

func (s *UserService) FindUserByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%w: user %d", ErrNotFound, id)
		}
		return nil, err
	}
	return &user, nil
}

func (s *UserService) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", normalizeEmail(email)).First(&user).Error; err != nil {
		if isNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *UserService) GetProfile(ctx context.Context, userID uint) (*Profile, error) {
	user, err := s.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	today, err := experienceOn(s.db.WithContext(ctx), userID, s.now().UTC())
	if err != nil {
		return nil, err
	}
	return &Profile{
		ID:                  user.ID,
		Email:               user.Email,
		FirstName:           user.FirstName,
		LastName:            user.LastName,
		Role:                user.Role,
		CompletedOnboarding: user.CompletedOnboarding,
		ExperiencePoints:    user.ExperiencePoints,
		Level:               user.Level(),
		DailyExperience:     today,
		MealsCompleted:      user.MealsCompleted,
		QuizzesCompleted:    user.QuizzesCompleted,
		Streak:              user.Streak,
		LongestStreak:       user.LongestStreak,
		LastLogin:           user.LastLogin,
		Allergies:           user.Allergies,
	}, nil
}

// CompleteOnboarding records the user's allergies and finishes onboarding. It
// runs once per user.
func (s *UserService) CompleteOnboarding(ctx context.Context, userID uint, allergens []string) (*models.User, error) {
	set, err := parseAllergens(allergens)
	if err != nil {
		return nil, err
	}
	var user models.User
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockForUpdate(tx).First(&user, userID).Error; err != nil {
			if isNotFound(err) {
				return fmt.Errorf("%w: user %d", ErrNotFound, userID)
			}
			return err
		}
		if user.CompletedOnboarding {
			return fmt.Errorf("%w: onboarding already completed", ErrInvalidStateTransition)
		}
		user.Allergies = set
		user.CompletedOnboarding = true
		return tx.Model(&user).Updates(map[string]any{
			"allergies":            set,
			"completed_onboarding": true,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("onboarding completed", zap.Uint("user_id", userID), zap.Strings("allergies", set.Names()))
	return &user, nil
}

// History lists the awards the user earned on day.
func (s *UserService) History(ctx context.Context, userID uint, day time.Time) ([]models.ExperienceLog, error) {
	return ExperienceHistory(ctx, s.db, userID, day)
}

// UpdateAllergies replaces the user's allergy flags with exactly the given set.
func (s *UserService) UpdateAllergies(ctx context.Context, userID uint, allergens []string) (*models.User, error) {
	set, err := parseAllergens(allergens)
	if err != nil {
		return nil, err
	}
	user, err := s.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(user).Update("allergies", set).Error; err != nil {
		return nil, err
	}
	user.Allergies = set
	return user, nil
}

// ListUsers pages through all accounts for administrators.
func (s *UserService) ListUsers(ctx context.Context, page, pageSize int) ([]models.User, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	db := s.db.WithContext(ctx).Model(&models.User{})
	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var users []models.User
	err := s.db.WithContext(ctx).Order("id").Offset((page - 1) * pageSize).Limit(pageSize).Find(&users).Error
	return users, total, err
}

func parseAllergens(names []string) (models.AllergenSet, error) {
	set, err := models.ParseAllergenSet(names)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return set, nil
}
