package services

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/MaxRocco/csc3094-c1016489-projectRepository/models"
	"github.com/MaxRocco/csc3094-c1016489-projectRepository/utils"
)

const dateLayout = "2006-01-02"

type LeaderboardService struct{ db *gorm.DB }

func NewLeaderboardService(db *gorm.DB) *LeaderboardService { return &LeaderboardService{db: db} }

// ---------- Leaderboard ----------

type LeaderboardEntry struct {
	Rank int `json:"rank"`
	UserSummary
	MealsCompleted   int  `json:"meals_completed"`
	QuizzesCompleted int  `json:"quizzes_completed"`
	IsSelf           bool `json:"is_self"`
}

// FriendLeaderboard ranks the user and their accepted friends by experience,
// highest first, ties broken by lower user id.
func (s *LeaderboardService) FriendLeaderboard(ctx context.Context, userID uint) ([]LeaderboardEntry, error) {
	db := s.db.WithContext(ctx)
	ids, err := friendIDs(db, userID)
	if err != nil {
		return nil, err
	}
	ids = append(ids, userID)

	var users []models.User
	if err := db.Where("id IN ?", ids).
		Order("experience_points DESC, id ASC").
		Find(&users).Error; err != nil {
		return nil, err
	}

	out := make([]LeaderboardEntry, 0, len(users))
	for i, u := range users {
		out = append(out, LeaderboardEntry{
			Rank:             i + 1,
			UserSummary:      summarize(u),
			MealsCompleted:   u.MealsCompleted,
			QuizzesCompleted: u.QuizzesCompleted,
			IsSelf:           u.ID == userID,
		})
	}
	return out, nil
}

// ---------- Weekly summary ----------

type DayExperience struct {
	Date       string `json:"date"`
	Experience int    `json:"experience"`
}

type WeeklySummary struct {
	WeekStart  string          `json:"week_start"`
	WeekEnd    string          `json:"week_end"`
	Days       []DayExperience `json:"days"`
	Total      int             `json:"total"`
	BySource   map[string]int  `json:"by_source"`
	MealsDone  int             `json:"meals_completed"`
	CO2SavedKg float64         `json:"co2_saved_kg"`
}

// WeeklySummary reports experience per day for the Monday to Sunday week containing day.
func (s *LeaderboardService) WeeklySummary(ctx context.Context, userID uint, day time.Time) (*WeeklySummary, error) {
	from := utils.StartOfWeek(day)
	to := from.AddDate(0, 0, 7)
	db := s.db.WithContext(ctx)

	var logs []models.ExperienceLog
	if err := db.Where("user_id = ? AND date >= ? AND date < ?", userID, from, to).
		Order("date ASC").
		Find(&logs).Error; err != nil {
		return nil, err
	}

	perDay := map[string]int{}
	out := &WeeklySummary{
		WeekStart: from.Format(dateLayout),
		WeekEnd:   from.AddDate(0, 0, 6).Format(dateLayout),
		BySource: map[string]int{
			models.ExperienceSourceMeal:  0,
			models.ExperienceSourceQuiz:  0,
			models.ExperienceSourceLogin: 0,
		},
	}
	var mealIDs []uint
	for _, l := range logs {
		perDay[utils.CalendarDate(l.Date).Format(dateLayout)] += l.Points
		out.BySource[l.Source] += l.Points
		out.Total += l.Points
		if l.Source == models.ExperienceSourceMeal {
			mealIDs = append(mealIDs, l.RefID)
		}
	}
	for i := 0; i < 7; i++ {
		key := from.AddDate(0, 0, i).Format(dateLayout)
		out.Days = append(out.Days, DayExperience{Date: key, Experience: perDay[key]})
	}

	out.MealsDone = len(mealIDs)
	if len(mealIDs) > 0 {
		var meals []models.Meal
		if err := db.Where("id IN ?", mealIDs).Find(&meals).Error; err != nil {
			return nil, err
		}
		for _, m := range meals {
			if saved := m.CO2SavedKg(); saved != nil {
				out.CO2SavedKg += *saved
			}
		}
	}
	return out, nil
}

// TopUsers is the global board used by administrators.
func (s *LeaderboardService) TopUsers(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	var users []models.User
	if err := s.db.WithContext(ctx).
		Order("experience_points DESC, id ASC").
		Limit(limit).
		Find(&users).Error; err != nil {
		return nil, err
	}
	out := make([]LeaderboardEntry, 0, len(users))
	for i, u := range users {
		out = append(out, LeaderboardEntry{
			Rank:             i + 1,
			UserSummary:      summarize(u),
			MealsCompleted:   u.MealsCompleted,
			QuizzesCompleted: u.QuizzesCompleted,
		})
	}
	return out, nil
}
