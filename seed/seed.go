// Package seed loads the meal and quiz catalog, plus demo accounts, into the
// database. It runs only when invoked; importing it has no side effects.
package seed

import (
	"context"
	_ "embed"
	"fmt"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/MaxRocco/csc3094-c1016489-projectRepository/config"
	"github.com/MaxRocco/csc3094-c1016489-projectRepository/models"
	"github.com/MaxRocco/csc3094-c1016489-projectRepository/utils"
)

//go:embed catalog.yaml
var catalogYAML []byte

type Catalog struct {
	Meals   []MealSeed `yaml:"meals"`
	Quizzes []QuizSeed `yaml:"quizzes"`
	Users   []UserSeed `yaml:"users"`
}

type MealSeed struct {
	Name         string   `yaml:"name"`
	Difficulty   int      `yaml:"difficulty"`
	Description  string   `yaml:"description"`
	Recipe       string   `yaml:"recipe"`
	Instructions string   `yaml:"instructions"`
	ImageURL     string   `yaml:"image_url"`
	Allergens    []string `yaml:"allergens"`
	VeganCO2Kg   *float64 `yaml:"vegan_co2_kg"`
	MeatCO2Kg    *float64 `yaml:"meat_co2_kg"`
}

type QuizSeed struct {
	Name         string         `yaml:"name"`
	DisplayOrder int            `yaml:"display_order"`
	Description  string         `yaml:"description"`
	ImageURL     string         `yaml:"image_url"`
	Questions    []QuestionSeed `yaml:"questions"`
}

type QuestionSeed struct {
	Text    string   `yaml:"text"`
	Correct string   `yaml:"correct"`
	Others  []string `yaml:"others"`
}

type UserSeed struct {
	Email               string `yaml:"email"`
	FirstName           string `yaml:"first_name"`
	LastName            string `yaml:"last_name"`
	Password            string `yaml:"password"`
	Role                string `yaml:"role"`
	CompletedOnboarding bool   `yaml:"completed_onboarding"`
}

type Options struct {
	// Reset drops every table and recreates the schema before seeding.
	Reset bool
	// SkipUsers leaves accounts untouched.
	SkipUsers bool
}

type Result struct {
	Meals     int
	Quizzes   int
	Questions int
	Users     int
}

// LoadCatalog parses the embedded catalog.
func LoadCatalog() (*Catalog, error) {
	return ParseCatalog(catalogYAML)
}

func ParseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	for _, q := range c.Quizzes {
		for _, qs := range q.Questions {
			if qs.Correct == "" {
				return nil, fmt.Errorf("quiz %q: question %q has no correct answer", q.Name, qs.Text)
			}
		}
	}
	return &c, nil
}

// Run writes the catalog. Rows are matched by natural key (meal name, quiz
// name, question position, user email) so running it twice changes nothing.
// Existing users keep their passwords and progress.
func Run(ctx context.Context, db *gorm.DB, log *zap.Logger, opts Options) (*Result, error) {
	cat, err := LoadCatalog()
	if err != nil {
		return nil, err
	}
	db = db.WithContext(ctx)

	if opts.Reset {
		log.Warn("dropping all tables before seeding")
		if err := db.Migrator().DropTable(models.All()...); err != nil {
			return nil, fmt.Errorf("drop tables: %w", err)
		}
	}
	if err := config.Migrate(db); err != nil {
		return nil, err
	}

	res := &Result{}
	err = db.Transaction(func(tx *gorm.DB) error {
		for _, m := range cat.Meals {
			if err := upsertMeal(tx, m); err != nil {
				return err
			}
			res.Meals++
		}
		for _, q := range cat.Quizzes {
			n, err := upsertQuiz(tx, q)
			if err != nil {
				return err
			}
			res.Quizzes++
			res.Questions += n
		}
		if opts.SkipUsers {
			return nil
		}
		for _, u := range cat.Users {
			created, err := ensureUser(tx, u)
			if err != nil {
				return err
			}
			if created {
				res.Users++
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Info("catalog seeded",
		zap.Int("meals", res.Meals),
		zap.Int("quizzes", res.Quizzes),
		zap.Int("questions", res.Questions),
		zap.Int("users_created", res.Users),
	)
	return res, nil
}

func upsertMeal(tx *gorm.DB, m MealSeed) error {
	allergens, err := models.ParseAllergenSet(m.Allergens)
	if err != nil {
		return fmt.Errorf("meal %q: %w", m.Name, err)
	}
	var meal models.Meal
	return tx.Where(models.Meal{Name: m.Name}).
		Assign(map[string]any{
			"description":  m.Description,
			"recipe":       m.Recipe,
			"instructions": m.Instructions,
			"difficulty":   m.Difficulty,
			"image_url":    m.ImageURL,
			"allergens":    allergens,
			"vegan_co2_kg": m.VeganCO2Kg,
			"meat_co2_kg":  m.MeatCO2Kg,
		}).
		FirstOrCreate(&meal).Error
}

func upsertQuiz(tx *gorm.DB, q QuizSeed) (int, error) {
	var quiz models.Quiz
	if err := tx.Where(models.Quiz{Name: q.Name}).
		Assign(map[string]any{
			"description":   q.Description,
			"display_order": q.DisplayOrder,
			"image_url":     q.ImageURL,
		}).
		FirstOrCreate(&quiz).Error; err != nil {
		return 0, err
	}

	for i, qs := range q.Questions {
		var question models.Question
		if err := tx.Where(models.Question{QuizID: quiz.ID, Position: i + 1}).
			Assign(map[string]any{
				"text":           qs.Text,
				"correct_answer": qs.Correct,
				"other_options":  datatypes.JSONSlice[string](qs.Others),
			}).
			FirstOrCreate(&question).Error; err != nil {
			return 0, err
		}
	}
	if err := tx.Where("quiz_id = ? AND position > ?", quiz.ID, len(q.Questions)).
		Delete(&models.Question{}).Error; err != nil {
		return 0, err
	}
	return len(q.Questions), nil
}

func ensureUser(tx *gorm.DB, u UserSeed) (bool, error) {
	var existing int64
	if err := tx.Model(&models.User{}).Where("email = ?", u.Email).Count(&existing).Error; err != nil {
		return false, err
	}
	if existing > 0 {
		return false, nil
	}
	hash, err := utils.HashPassword(u.Password)
	if err != nil {
		return false, err
	}
	role := u.Role
	if role == "" {
		role = models.RoleUser
	}
	return true, tx.Create(&models.User{
		Email:               u.Email,
		FirstName:           u.FirstName,
		LastName:            u.LastName,
		Password:            hash,
		Role:                role,
		CompletedOnboarding: u.CompletedOnboarding,
	}).Error
}
