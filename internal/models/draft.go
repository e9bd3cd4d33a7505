// internal/models/draft.go
package models

// FileRef is the metadata of a user-selected local file. The handle itself lives
// with the file provider; contents are never read here.
type FileRef struct {
	Name        string `json:"name"`
	Size        int64  `json:"size"`
	ContentType string `json:"content_type"`
}

type PortfolioLinks struct {
	Website   string `json:"website"`
	LinkedIn  string `json:"linkedin"`
	GitHub    string `json:"github"`
	Behance   string `json:"behance"`
	Instagram string `json:"instagram"`
}

type BookingPreferences struct {
	AvailableDays []string `json:"available_days"`
	TimeSlots     []string `json:"time_slots"`
	MeetingTypes  []string `json:"meeting_types"`
	Timezone      string   `json:"timezone,omitempty"`
}

// IsZero reports whether no preference has been chosen yet.
func (p BookingPreferences) IsZero() bool {
	return len(p.AvailableDays) == 0 && len(p.TimeSlots) == 0 &&
		len(p.MeetingTypes) == 0 && p.Timezone == ""
}

type Experience struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	Description string `json:"description"`
}

type Education struct {
	Institution string `json:"institution"`
	Degree      string `json:"degree"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	Description string `json:"description"`
}

type Project struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Link        string `json:"link"`
}

type Testimonial struct {
	Author string `json:"author"`
	Quote  string `json:"quote"`
}

// Draft is the in-progress record a wizard session edits.
type Draft struct {
	// Steps 1-6 - personal info
	Name         string   `json:"name"`
	Bio          string   `json:"bio"`
	Services     string   `json:"services"`
	Skills       []string `json:"skills"`
	Location     string   `json:"location"`
	Email        string   `json:"email"`
	Phone        string   `json:"phone"`
	WhatsApp     string   `json:"whatsapp"`
	HourlyRate   string   `json:"hourly_rate"`
	Availability string   `json:"availability"`

	// Step 7 - files
	ProfilePhoto *FileRef `json:"profile_photo,omitempty"`
	IntroVideo   *FileRef `json:"intro_video,omitempty"`
	CVFile       *FileRef `json:"cv_file,omitempty"`

	// Step 8 - links
	PortfolioLinks PortfolioLinks `json:"portfolio_links"`

	// Steps 9-12 - repeatable groups
	Experience   []Experience  `json:"experience"`
	Education    []Education   `json:"education"`
	Projects     []Project     `json:"projects"`
	Testimonials []Testimonial `json:"testimonials"`

	// Step 13 - booking
	BookingPreferences BookingPreferences `json:"booking_preferences"`
}

// NewDraft returns an empty draft with every collection initialised.
func NewDraft() Draft {
	return Draft{
		Skills:       []string{},
		Experience:   []Experience{},
		Education:    []Education{},
		Projects:     []Project{},
		Testimonials: []Testimonial{},
		BookingPreferences: BookingPreferences{
			AvailableDays: []string{},
			TimeSlots:     []string{},
			MeetingTypes:  []string{},
		},
	}
}

// Clone returns a deep copy. Nil collections come back as empty slices.
func (d Draft) Clone() Draft {
	out := d
	out.Skills = append([]string{}, d.Skills...)
	out.Experience = append([]Experience{}, d.Experience...)
	out.Education = append([]Education{}, d.Education...)
	out.Projects = append([]Project{}, d.Projects...)
	out.Testimonials = append([]Testimonial{}, d.Testimonials...)
	out.BookingPreferences.AvailableDays = append([]string{}, d.BookingPreferences.AvailableDays...)
	out.BookingPreferences.TimeSlots = append([]string{}, d.BookingPreferences.TimeSlots...)
	out.BookingPreferences.MeetingTypes = append([]string{}, d.BookingPreferences.MeetingTypes...)
	out.ProfilePhoto = cloneFile(d.ProfilePhoto)
	out.IntroVideo = cloneFile(d.IntroVideo)
	out.CVFile = cloneFile(d.CVFile)
	return out
}

func cloneFile(f *FileRef) *FileRef {
	if f == nil {
		return nil
	}
	c := *f
	return &c
}
