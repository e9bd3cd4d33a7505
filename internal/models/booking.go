// internal/models/booking.go
package models

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingPending BookingStatus = "pending"
)

type ClientContact struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone,omitempty"`
	Message string `json:"message"`
}

// Booking is a client's call request against a freelancer's availability.
// Records are never mutated after creation.
type Booking struct {
	ID          uuid.UUID     `json:"id"`
	Freelancer  string        `json:"freelancer"`
	Client      ClientContact `json:"client"`
	Date        string        `json:"date"` // YYYY-MM-DD, local wall clock
	TimeSlot    string        `json:"time_slot"`
	MeetingType string        `json:"meeting_type"`
	Status      BookingStatus `json:"status"`
	CreatedAt   time.Time     `json:"created_at"`
}
