package portfolio

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/Windi-Fikriyansyah/showme/internal/models"
)

const (
	DefaultTitle       = "Freelancer"
	GeneralServiceName = "General Services"
	DefaultPrice       = 50
)

// DefaultBookingPreferences is used when the draft carries no preferences.
func DefaultBookingPreferences() models.BookingPreferences {
	return models.BookingPreferences{
		AvailableDays: []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"},
		TimeSlots:     []string{"9:00 AM", "10:00 AM", "11:00 AM", "2:00 PM", "3:00 PM", "4:00 PM"},
		MeetingTypes:  []string{"Discovery Call", "Project Discussion", "Consultation"},
		Timezone:      "UTC",
	}
}

var priceRe = regexp.MustCompile(`\d[\d,]*`)

// ParsePrice reads the first number out of a free-text rate such as
// "$25/hour" or "1,500 per project". Decimals are truncated. Anything that
// yields no positive number falls back to DefaultPrice.
func ParsePrice(rate string) int64 {
	m := priceRe.FindString(rate)
	if m == "" {
		return DefaultPrice
	}
	n, err := strconv.ParseInt(strings.ReplaceAll(m, ",", ""), 10, 64)
	if err != nil || n <= 0 {
		return DefaultPrice
	}
	return n
}

// Transform maps a draft to the portfolio document. It has no side effects and
// returns the same document for the same draft.
func Transform(d models.Draft) models.Document {
	d = d.Clone()

	doc := models.Document{
		PersonalInfo: models.PersonalInfo{
			Name:     d.Name,
			Title:    DefaultTitle,
			Location: d.Location,
			Phone:    d.Phone,
			Email:    d.Email,
			Website:  d.PortfolioLinks.Website,
			About:    d.Bio,
		},
		Skills:       d.Skills,
		Experience:   d.Experience,
		Education:    d.Education,
		Projects:     d.Projects,
		Testimonials: d.Testimonials,
		Services:     []models.Service{},
		Booking:      models.BookingState{IsOpen: true},
	}

	if strings.TrimSpace(d.Services) != "" {
		doc.Services = append(doc.Services, models.Service{
			Name:        GeneralServiceName,
			Description: d.Services,
			Price:       ParsePrice(d.HourlyRate),
		})
	}

	if d.BookingPreferences.IsZero() {
		doc.BookingPreferences = DefaultBookingPreferences()
	} else {
		doc.BookingPreferences = d.BookingPreferences
	}
	return doc
}

// Empty is the document shown when nothing has been saved yet.
func Empty() models.Document {
	return models.Document{
		Skills:             []string{},
		Experience:         []models.Experience{},
		Education:          []models.Education{},
		Projects:           []models.Project{},
		Testimonials:       []models.Testimonial{},
		Services:           []models.Service{},
		BookingPreferences: models.BookingPreferences{AvailableDays: []string{}, TimeSlots: []string{}, MeetingTypes: []string{}},
	}
}
