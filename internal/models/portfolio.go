// internal/models/portfolio.go
package models

import "time"

type PersonalInfo struct {
	Name     string `json:"name"`
	Title    string `json:"title"`
	Location string `json:"location"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	Website  string `json:"website"`
	About    string `json:"about"`
}

type Service struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int64  `json:"price"`
}

type BookingState struct {
	IsOpen bool `json:"is_open"`
}

// Document is the normalized portfolio produced from a completed draft.
type Document struct {
	PersonalInfo       PersonalInfo       `json:"personal_info"`
	Skills             []string           `json:"skills"`
	Experience         []Experience       `json:"experience"`
	Education          []Education        `json:"education"`
	Projects           []Project          `json:"projects"`
	Testimonials       []Testimonial      `json:"testimonials"`
	Services           []Service          `json:"services"`
	Booking            BookingState       `json:"booking"`
	BookingPreferences BookingPreferences `json:"booking_preferences"`
}

// IsEmpty reports whether the document carries no freelancer at all.
func (d Document) IsEmpty() bool {
	return d.PersonalInfo.Name == "" && d.PersonalInfo.Email == ""
}

// SavedPortfolio is what gets persisted on completion: the document for the
// profile page and the draft it came from so the wizard can reopen it.
type SavedPortfolio struct {
	Draft    Draft     `json:"draft"`
	Document Document  `json:"document"`
	SavedAt  time.Time `json:"saved_at"`
}
