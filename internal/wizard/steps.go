package wizard

import (
	"strings"

	"github.com/Windi-Fikriyansyah/showme/internal/models"
)

// Rule decides whether the draft satisfies a step.
type Rule func(d *models.Draft) bool

// Step is one screen of the wizard. Required lists the gating fields the rule
// checks, in the order they are reported back to the user.
type Step struct {
	Number   int
	Key      string
	Title    string
	Required []string
	Rule     Rule
}

func always(*models.Draft) bool { return true }

func nonBlank(get func(d *models.Draft) string) Rule {
	return func(d *models.Draft) bool {
		return strings.TrimSpace(get(d)) != ""
	}
}

// DefaultSteps is the full 13 step wizard. Shorter wizards are built by
// passing a shorter list to NewController.
func DefaultSteps() []Step {
	return []Step{
		{Number: 1, Key: "name", Title: "What's your name?", Required: []string{"name"},
			Rule: nonBlank(func(d *models.Draft) string { return d.Name })},
		{Number: 2, Key: "bio", Title: "Tell us about yourself", Required: []string{"bio"},
			Rule: nonBlank(func(d *models.Draft) string { return d.Bio })},
		{Number: 3, Key: "services", Title: "What services do you offer?", Required: []string{"services"},
			Rule: nonBlank(func(d *models.Draft) string { return d.Services })},
		{Number: 4, Key: "skills", Title: "What are your skills?", Required: []string{"skills"},
			Rule: func(d *models.Draft) bool { return len(d.Skills) > 0 }},
		{Number: 5, Key: "location", Title: "Where are you located?", Required: []string{"location"},
			Rule: nonBlank(func(d *models.Draft) string { return d.Location })},
		{Number: 6, Key: "contact", Title: "How can clients reach you?", Required: []string{"email"},
			Rule: nonBlank(func(d *models.Draft) string { return d.Email })},
		{Number: 7, Key: "files", Title: "Show yourself", Rule: always},
		{Number: 8, Key: "links", Title: "Portfolio links", Rule: always},
		{Number: 9, Key: "experience", Title: "Work experience", Rule: always},
		{Number: 10, Key: "education", Title: "Education", Rule: always},
		{Number: 11, Key: "projects", Title: "Projects", Rule: always},
		{Number: 12, Key: "testimonials", Title: "Testimonials", Rule: always},
		{Number: 13, Key: "booking", Title: "Call booking preferences", Rule: always},
	}
}
