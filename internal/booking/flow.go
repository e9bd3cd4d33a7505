package booking

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Windi-Fikriyansyah/showme/internal/models"
)

type State string

const (
	StateCalendar     State = "calendar"
	StateForm         State = "form"
	StateConfirmation State = "confirmation"
)

var (
	ErrWrongState     = errors.New("action not available in current state")
	ErrIncompleteForm = errors.New("name, email and message are required")
)

// Appender stores confirmed bookings.
type Appender interface {
	Append(ctx context.Context, b models.Booking) error
}

// Selection is what the client picked on the calendar.
type Selection struct {
	Date        time.Time `json:"date"`
	TimeSlot    string    `json:"time_slot"`
	MeetingType string    `json:"meeting_type"`
}

func (s Selection) Complete() bool {
	return !s.Date.IsZero() && s.TimeSlot != "" && s.MeetingType != ""
}

// Flow is the calendar -> form -> confirmation booking dialog for one
// freelancer. It is not safe for concurrent use.
type Flow struct {
	freelancer string
	prefs      models.BookingPreferences
	store      Appender

	state     State
	sel       Selection
	confirmed *models.Booking

	Now         func() time.Time
	NewID       func() (uuid.UUID, error)
	OnConfirmed func(b models.Booking)
}

func NewFlow(freelancer string, prefs models.BookingPreferences, store Appender) *Flow {
	return &Flow{
		freelancer: freelancer,
		prefs:      prefs,
		store:      store,
		state:      StateCalendar,
		Now:        time.Now,
		NewID:      uuid.NewV7,
	}
}

func (f *Flow) State() State                           { return f.state }
func (f *Flow) Selection() Selection                   { return f.sel }
func (f *Flow) Freelancer() string                     { return f.freelancer }
func (f *Flow) Preferences() models.BookingPreferences { return f.prefs }

// Confirmed returns the booking created by SubmitForm, if any.
func (f *Flow) Confirmed() (models.Booking, bool) {
	if f.confirmed == nil {
		return models.Booking{}, false
	}
	return *f.confirmed, true
}

// SelectDate picks a calendar day; unavailable days are refused.
func (f *Flow) SelectDate(date time.Time) bool {
	if f.state != StateCalendar {
		return false
	}
	now := f.Now()
	if !IsDateAvailable(date, f.prefs.AvailableDays, now) {
		return false
	}
	f.sel.Date = Midnight(date, now.Location())
	return true
}

func (f *Flow) SelectTimeSlot(slot string) bool {
	if f.state != StateCalendar || !slices.Contains(f.prefs.TimeSlots, slot) {
		return false
	}
	f.sel.TimeSlot = slot
	return true
}

func (f *Flow) SelectMeetingType(kind string) bool {
	if f.state != StateCalendar || !slices.Contains(f.prefs.MeetingTypes, kind) {
		return false
	}
	f.sel.MeetingType = kind
	return true
}

// Continue moves from the calendar to the contact form once date, slot and
// meeting type are all chosen.
func (f *Flow) Continue() bool {
	if f.state != StateCalendar || !f.sel.Complete() {
		return false
	}
	f.state = StateForm
	return true
}

// Back returns from the form to the calendar keeping the selection.
func (f *Flow) Back() bool {
	if f.state != StateForm {
		return false
	}
	f.state = StateCalendar
	return true
}

// Close resets the dialog. The next open starts on an empty calendar.
func (f *Flow) Close() {
	f.state = StateCalendar
	f.sel = Selection{}
	f.confirmed = nil
}

// MissingFields lists the blank required contact fields.
func MissingFields(c models.ClientContact) []string {
	missing := []string{}
	if strings.TrimSpace(c.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(c.Email) == "" {
		missing = append(missing, "email")
	}
	if strings.TrimSpace(c.Message) == "" {
		missing = append(missing, "message")
	}
	return missing
}

// SubmitForm validates the contact details, stores a pending booking and moves
// to the confirmation state. On any error the flow stays on the form.
func (f *Flow) SubmitForm(ctx context.Context, c models.ClientContact) (models.Booking, error) {
	if f.state != StateForm {
		return models.Booking{}, fmt.Errorf("%w: %s", ErrWrongState, f.state)
	}
	if missing := MissingFields(c); len(missing) > 0 {
		return models.Booking{}, fmt.Errorf("%w: missing %s", ErrIncompleteForm, strings.Join(missing, ", "))
	}

	id, err := f.NewID()
	if err != nil {
		return models.Booking{}, err
	}
	b := models.Booking{
		ID:         id,
		Freelancer: f.freelancer,
		Client: models.ClientContact{
			Name:    strings.TrimSpace(c.Name),
			Email:   strings.TrimSpace(c.Email),
			Phone:   strings.TrimSpace(c.Phone),
			Message: strings.TrimSpace(c.Message),
		},
		Date:        f.sel.Date.Format(DateLayout),
		TimeSlot:    f.sel.TimeSlot,
		MeetingType: f.sel.MeetingType,
		Status:      models.BookingPending,
		CreatedAt:   f.Now().UTC(),
	}
	if err := f.store.Append(ctx, b); err != nil {
		return models.Booking{}, fmt.Errorf("store booking: %w", err)
	}

	f.confirmed = &b
	f.state = StateConfirmation
	if f.OnConfirmed != nil {
		f.OnConfirmed(b)
	}
	return b, nil
}
