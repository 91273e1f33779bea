package utils

import (
	"fmt"

	"github.com/MaxRocco/csc3094-c1016489-projectRepository/models"
)

// WarningSeverity categorizes how serious the flag is.
type WarningSeverity string

const (
	Info WarningSeverity = "info"
	High WarningSeverity = "high"
)

// Warning is a structured finding shown next to a meal.
type Warning struct {
	Code     string          `json:"code"`
	Severity WarningSeverity `json:"severity"`
	Message  string          `json:"message"`
	Allergen string          `json:"allergen,omitempty"`
}

// MealSafety is the allergen assessment of one meal for one user.
type MealSafety struct {
	Safe      bool      `json:"safe"`
	Conflicts []string  `json:"conflicts"`
	Warnings  []Warning `json:"warnings,omitempty"`
}

// AssessMealSafety flags every allergen the meal contains that the user is allergic to.
// Allergens the meal contains but the user tolerates are reported at info level.
func AssessMealSafety(meal models.Meal, allergies models.AllergenSet) MealSafety {
	out := MealSafety{Safe: true, Conflicts: []string{}}
	for _, a := range meal.Allergens.List() {
		if allergies.Has(a) {
			out.Safe = false
			out.Conflicts = append(out.Conflicts, a.String())
			out.Warnings = append(out.Warnings, Warning{
				Code:     "ALLERGEN_CONFLICT",
				Severity: High,
				Message:  fmt.Sprintf("%s contains %s, which is on your allergy list", meal.Name, a),
				Allergen: a.String(),
			})
			continue
		}
		out.Warnings = append(out.Warnings, Warning{
			Code:     "CONTAINS_ALLERGEN",
			Severity: Info,
			Message:  fmt.Sprintf("contains %s", a),
			Allergen: a.String(),
		})
	}
	return out
}
