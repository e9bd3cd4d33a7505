package wizard

import (
	"errors"

	"github.com/Windi-Fikriyansyah/showme/internal/models"
)

var (
	ErrUnknownField    = errors.New("unknown field")
	ErrUnknownGroup    = errors.New("unknown group")
	ErrUnknownCategory = errors.New("unknown booking preference category")
	ErrIndexOutOfRange = errors.New("item index out of range")
)

// Field names a scalar text field of the draft.
type Field string

const (
	FieldName         Field = "name"
	FieldBio          Field = "bio"
	FieldServices     Field = "services"
	FieldLocation     Field = "location"
	FieldEmail        Field = "email"
	FieldPhone        Field = "phone"
	FieldWhatsApp     Field = "whatsapp"
	FieldHourlyRate   Field = "hourly_rate"
	FieldAvailability Field = "availability"
)

var personalFields = map[Field]func(d *models.Draft) *string{
	FieldName:         func(d *models.Draft) *string { return &d.Name },
	FieldBio:          func(d *models.Draft) *string { return &d.Bio },
	FieldServices:     func(d *models.Draft) *string { return &d.Services },
	FieldLocation:     func(d *models.Draft) *string { return &d.Location },
	FieldEmail:        func(d *models.Draft) *string { return &d.Email },
	FieldPhone:        func(d *models.Draft) *string { return &d.Phone },
	FieldWhatsApp:     func(d *models.Draft) *string { return &d.WhatsApp },
	FieldHourlyRate:   func(d *models.Draft) *string { return &d.HourlyRate },
	FieldAvailability: func(d *models.Draft) *string { return &d.Availability },
}

// LinkField names one of the portfolio link URLs.
type LinkField string

const (
	LinkWebsite   LinkField = "website"
	LinkLinkedIn  LinkField = "linkedin"
	LinkGitHub    LinkField = "github"
	LinkBehance   LinkField = "behance"
	LinkInstagram LinkField = "instagram"
)

var linkFields = map[LinkField]func(l *models.PortfolioLinks) *string{
	LinkWebsite:   func(l *models.PortfolioLinks) *string { return &l.Website },
	LinkLinkedIn:  func(l *models.PortfolioLinks) *string { return &l.LinkedIn },
	LinkGitHub:    func(l *models.PortfolioLinks) *string { return &l.GitHub },
	LinkBehance:   func(l *models.PortfolioLinks) *string { return &l.Behance },
	LinkInstagram: func(l *models.PortfolioLinks) *string { return &l.Instagram },
}

// PreferenceCategory names one of the toggleable booking preference sets.
type PreferenceCategory string

const (
	AvailableDays PreferenceCategory = "available_days"
	TimeSlots     PreferenceCategory = "time_slots"
	MeetingTypes  PreferenceCategory = "meeting_types"
)

var preferenceSets = map[PreferenceCategory]func(p *models.BookingPreferences) *[]string{
	AvailableDays: func(p *models.BookingPreferences) *[]string { return &p.AvailableDays },
	TimeSlots:     func(p *models.BookingPreferences) *[]string { return &p.TimeSlots },
	MeetingTypes:  func(p *models.BookingPreferences) *[]string { return &p.MeetingTypes },
}

// Group names a repeatable group of records.
type Group string

const (
	GroupExperience   Group = "experience"
	GroupEducation    Group = "education"
	GroupProjects     Group = "projects"
	GroupTestimonials Group = "testimonials"
)

type groupOps struct {
	add    func(d *models.Draft)
	remove func(d *models.Draft, i int)
	size   func(d *models.Draft) int
	fields map[string]func(d *models.Draft, i int) *string
}

var groups = map[Group]groupOps{
	GroupExperience: {
		add: func(d *models.Draft) { d.Experience = append(d.Experience, models.Experience{}) },
		remove: func(d *models.Draft, i int) {
			d.Experience = append(d.Experience[:i:i], d.Experience[i+1:]...)
		},
		size: func(d *models.Draft) int { return len(d.Experience) },
		fields: map[string]func(d *models.Draft, i int) *string{
			"title":       func(d *models.Draft, i int) *string { return &d.Experience[i].Title },
			"company":     func(d *models.Draft, i int) *string { return &d.Experience[i].Company },
			"start_date":  func(d *models.Draft, i int) *string { return &d.Experience[i].StartDate },
			"end_date":    func(d *models.Draft, i int) *string { return &d.Experience[i].EndDate },
			"description": func(d *models.Draft, i int) *string { return &d.Experience[i].Description },
		},
	},
	GroupEducation: {
		add: func(d *models.Draft) { d.Education = append(d.Education, models.Education{}) },
		remove: func(d *models.Draft, i int) {
			d.Education = append(d.Education[:i:i], d.Education[i+1:]...)
		},
		size: func(d *models.Draft) int { return len(d.Education) },
		fields: map[string]func(d *models.Draft, i int) *string{
			"institution": func(d *models.Draft, i int) *string { return &d.Education[i].Institution },
			"degree":      func(d *models.Draft, i int) *string { return &d.Education[i].Degree },
			"start_date":  func(d *models.Draft, i int) *string { return &d.Education[i].StartDate },
			"end_date":    func(d *models.Draft, i int) *string { return &d.Education[i].EndDate },
			"description": func(d *models.Draft, i int) *string { return &d.Education[i].Description },
		},
	},
	GroupProjects: {
		add: func(d *models.Draft) { d.Projects = append(d.Projects, models.Project{}) },
		remove: func(d *models.Draft, i int) {
			d.Projects = append(d.Projects[:i:i], d.Projects[i+1:]...)
		},
		size: func(d *models.Draft) int { return len(d.Projects) },
		fields: map[string]func(d *models.Draft, i int) *string{
			"name":        func(d *models.Draft, i int) *string { return &d.Projects[i].Name },
			"description": func(d *models.Draft, i int) *string { return &d.Projects[i].Description },
			"link":        func(d *models.Draft, i int) *string { return &d.Projects[i].Link },
		},
	},
	GroupTestimonials: {
		add: func(d *models.Draft) { d.Testimonials = append(d.Testimonials, models.Testimonial{}) },
		remove: func(d *models.Draft, i int) {
			d.Testimonials = append(d.Testimonials[:i:i], d.Testimonials[i+1:]...)
		},
		size: func(d *models.Draft) int { return len(d.Testimonials) },
		fields: map[string]func(d *models.Draft, i int) *string{
			"author": func(d *models.Draft, i int) *string { return &d.Testimonials[i].Author },
			"quote":  func(d *models.Draft, i int) *string { return &d.Testimonials[i].Quote },
		},
	},
}

// toggle adds v when absent and removes it when present. The result never
// shares a backing array with in.
func toggle(in []string, v string) []string {
	out := make([]string, 0, len(in)+1)
	found := false
	for _, s := range in {
		if s == v {
			found = true
			continue
		}
		out = append(out, s)
	}
	if !found {
		out = append(out, v)
	}
	return out
}
