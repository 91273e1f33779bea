package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/MaxRocco/csc3094-c1016489-projectRepository/models"
	"github.com/MaxRocco/csc3094-c1016489-projectRepository/utils"
)

var nameRe = regexp.MustCompile(`^[a-zA-Z0-9\s]+$`)

const (
	minPasswordLength = 6
	maxPasswordLength = 12
)

type AuthService struct {
	db          *gorm.DB
	tokens      *utils.TokenIssuer
	progression *ProgressionService
	log         *zap.Logger
	now         func() time.Time
}

func NewAuthService(db *gorm.DB, tokens *utils.TokenIssuer, progression *ProgressionService, log *zap.Logger) *AuthService {
	return &AuthService{db: db, tokens: tokens, progression: progression, log: log, now: time.Now}
}

type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

type LoginResult struct {
	Token           string             `json:"token"`
	User            *models.User       `json:"user"`
	NeedsOnboarding bool               `json:"needs_onboarding"`
	DailyReward     *DailyRewardResult `json:"daily_reward,omitempty"`
}

// ValidatePassword requires 6 to 12 characters with at least one digit,
// lowercase letter, uppercase letter and symbol.
func ValidatePassword(pw string) error {
	if n := len([]rune(pw)); n < minPasswordLength || n > maxPasswordLength {
		return fmt.Errorf("%w: password must be %d to %d characters", ErrInvalidInput, minPasswordLength, maxPasswordLength)
	}
	var digit, lower, upper, special bool
	for _, r := range pw {
		switch {
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			special = true
		}
	}
	if !digit || !lower || !upper || !special {
		return fmt.Errorf("%w: password needs a digit, a lowercase letter, an uppercase letter and a special character", ErrInvalidInput)
	}
	return nil
}

func validateName(field, v string) error {
	if !nameRe.MatchString(v) || len(v) > 50 {
		return fmt.Errorf("%w: %s may only contain letters, numbers and spaces", ErrInvalidInput, field)
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	email := normalizeEmail(in.Email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: a valid email is required", ErrInvalidInput)
	}
	first, last := strings.TrimSpace(in.FirstName), strings.TrimSpace(in.LastName)
	if err := validateName("first name", first); err != nil {
		return nil, err
	}
	if err := validateName("last name", last); err != nil {
		return nil, err
	}
	if err := ValidatePassword(in.Password); err != nil {
		return nil, err
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		Email:     email,
		FirstName: first,
		LastName:  last,
		Password:  hash,
		Role:      models.RoleUser,
	}
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			s.log.Warn("SECURITY - registration with existing email", zap.String("email", email))
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	s.log.Info("user registered", zap.Uint("user_id", user.ID))
	return user, nil
}

// Login checks credentials and issues a token. Users past onboarding also
// receive today's login reward.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = normalizeEmail(email)
	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if isNotFound(err) {
			s.log.Warn("SECURITY - login for unknown email", zap.String("email", email))
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !utils.CheckPasswordHash(password, user.Password) {
		s.log.Warn("SECURITY - failed login", zap.Uint("user_id", user.ID))
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	res := &LoginResult{Token: token, User: &user, NeedsOnboarding: !user.CompletedOnboarding}
	if user.CompletedOnboarding {
		reward, err := s.progression.DailyLoginReward(ctx, user.ID, s.now().UTC())
		if err != nil {
			return nil, err
		}
		res.DailyReward = reward
		if err := s.db.WithContext(ctx).First(&user, user.ID).Error; err != nil {
			return nil, err
		}
	}
	return res, nil
}
