package services

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/MaxRocco/csc3094-c1016489-projectRepository/models"
	"github.com/MaxRocco/csc3094-c1016489-projectRepository/utils"
)

// ContentService serves the seeded catalog: the meal tree and the knowledge base.
type ContentService struct {
	db      *gorm.DB
	log     *zap.Logger
	shuffle func(n int, swap func(i, j int))
}

func NewContentService(db *gorm.DB, log *zap.Logger) *ContentService {
	return &ContentService{db: db, log: log, shuffle: rand.Shuffle}
}

type MealTreeItem struct {
	models.Meal
	Completed   bool            `json:"completed"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
	SafeForUser bool            `json:"safe_for_user"`
	Conflicts   []string        `json:"conflicts"`
	Warnings    []utils.Warning `json:"warnings,omitempty"`
	CO2SavedKg  *float64        `json:"co2_saved_kg,omitempty"`
}

type QuizListItem struct {
	models.Quiz
	QuestionCount int  `json:"question_count"`
	Completed     bool `json:"completed"`
	CorrectCount  int  `json:"correct_count"`
}

type QuestionView struct {
	ID       uint     `json:"id"`
	Position int      `json:"position"`
	Text     string   `json:"text"`
	Options  []string `json:"options"`
}

type QuizDetail struct {
	models.Quiz
	Questions []QuestionView        `json:"questions"`
	Completed bool                  `json:"completed"`
	Result    *QuizCompletionResult `json:"result,omitempty"`
}

// MealTree lists every meal by ascending difficulty, annotated for the user.
func (s *ContentService) MealTree(ctx context.Context, userID uint) ([]MealTreeItem, error) {
	db := s.db.WithContext(ctx)
	user, err := s.user(db, userID)
	if err != nil {
		return nil, err
	}
	var meals []models.Meal
	if err := db.Order("difficulty ASC, id ASC").Find(&meals).Error; err != nil {
		return nil, err
	}
	var done []models.UserMeal
	if err := db.Where("user_id = ? AND completed = ?", userID, true).Find(&done).Error; err != nil {
		return nil, err
	}
	byMeal := make(map[uint]models.UserMeal, len(done))
	for _, um := range done {
		byMeal[um.MealID] = um
	}

	out := make([]MealTreeItem, 0, len(meals))
	for _, m := range meals {
		out = append(out, s.annotate(m, user.Allergies, byMeal[m.ID]))
	}
	return out, nil
}

func (s *ContentService) MealDetail(ctx context.Context, userID, mealID uint) (*MealTreeItem, error) {
	db := s.db.WithContext(ctx)
	user, err := s.user(db, userID)
	if err != nil {
		return nil, err
	}
	var meal models.Meal
	if err := db.First(&meal, mealID).Error; err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%w: meal %d", ErrNotFound, mealID)
		}
		return nil, err
	}
	var um models.UserMeal
	if err := db.Where("user_id = ? AND meal_id = ? AND completed = ?", userID, mealID, true).First(&um).Error; err != nil && !isNotFound(err) {
		return nil, err
	}
	item := s.annotate(meal, user.Allergies, um)
	return &item, nil
}

func (s *ContentService) annotate(m models.Meal, allergies models.AllergenSet, um models.UserMeal) MealTreeItem {
	safety := utils.AssessMealSafety(m, allergies)
	return MealTreeItem{
		Meal:        m,
		Completed:   um.Completed,
		CompletedAt: um.CompletedAt,
		SafeForUser: safety.Safe,
		Conflicts:   safety.Conflicts,
		Warnings:    safety.Warnings,
		CO2SavedKg:  m.CO2SavedKg(),
	}
}

// KnowledgeBase lists quizzes by display order with the user's results.
func (s *ContentService) KnowledgeBase(ctx context.Context, userID uint) ([]QuizListItem, error) {
	db := s.db.WithContext(ctx)
	var quizzes []models.Quiz
	if err := db.Order("display_order ASC, id ASC").Find(&quizzes).Error; err != nil {
		return nil, err
	}

	type countRow struct {
		QuizID uint
		N      int
	}
	var counts []countRow
	if err := db.Model(&models.Question{}).Select("quiz_id, COUNT(*) AS n").Group("quiz_id").Scan(&counts).Error; err != nil {
		return nil, err
	}
	nByQuiz := make(map[uint]int, len(counts))
	for _, c := range counts {
		nByQuiz[c.QuizID] = c.N
	}

	var done []models.UserQuiz
	if err := db.Where("user_id = ? AND completed = ?", userID, true).Find(&done).Error; err != nil {
		return nil, err
	}
	byQuiz := make(map[uint]models.UserQuiz, len(done))
	for _, uq := range done {
		byQuiz[uq.QuizID] = uq
	}

	out := make([]QuizListItem, 0, len(quizzes))
	for _, q := range quizzes {
		uq := byQuiz[q.ID]
		out = append(out, QuizListItem{
			Quiz:          q,
			QuestionCount: nByQuiz[q.ID],
			Completed:     uq.Completed,
			CorrectCount:  uq.CorrectCount,
		})
	}
	return out, nil
}

// QuizDetail returns the questions with their options shuffled. The correct
// answer is never marked; a completed quiz also carries the stored review.
func (s *ContentService) QuizDetail(ctx context.Context, userID, quizID uint) (*QuizDetail, error) {
	db := s.db.WithContext(ctx)
	var quiz models.Quiz
	if err := db.First(&quiz, quizID).Error; err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%w: quiz %d", ErrNotFound, quizID)
		}
		return nil, err
	}
	questions, err := quizQuestions(db, quizID)
	if err != nil {
		return nil, err
	}

	detail := &QuizDetail{Quiz: quiz, Questions: make([]QuestionView, 0, len(questions))}
	for _, q := range questions {
		opts := make([]string, 0, len(q.OtherOptions)+1)
		opts = append(opts, q.CorrectAnswer)
		opts = append(opts, q.OtherOptions...)
		s.shuffle(len(opts), func(i, j int) { opts[i], opts[j] = opts[j], opts[i] })
		detail.Questions = append(detail.Questions, QuestionView{ID: q.ID, Position: q.Position, Text: q.Text, Options: opts})
	}

	var uq models.UserQuiz
	err = db.Where("user_id = ? AND quiz_id = ? AND completed = ?", userID, quizID, true).First(&uq).Error
	switch {
	case err == nil:
		review, err := storedReview(db, uq.ID, questions)
		if err != nil {
			return nil, err
		}
		detail.Completed = true
		detail.Result = &QuizCompletionResult{
			QuizID:           quizID,
			CorrectCount:     uq.CorrectCount,
			TotalQuestions:   uq.TotalQuestions,
			ExpAwarded:       uq.ExpAwarded,
			AlreadyCompleted: true,
			Review:           review,
		}
	case !isNotFound(err):
		return nil, err
	}
	return detail, nil
}

func (s *ContentService) user(db *gorm.DB, userID uint) (*models.User, error) {
	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%w: user %d", ErrNotFound, userID)
		}
		return nil, err
	}
	return &user, nil
}
