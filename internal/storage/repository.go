package storage

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"github.com/Windi-Fikriyansyah/showme/internal/models"
)

// PortfolioRepository reads and writes the saved portfolio under KeyPortfolio.
type PortfolioRepository struct {
	KV KV
}

func NewPortfolioRepository(kv KV) *PortfolioRepository {
	return &PortfolioRepository{KV: kv}
}

// Load returns the saved portfolio. Missing, unreadable or malformed data all
// report false so the caller starts from defaults, as does a stored document
// with no freelancer (including a literal null). Absent collections load as
// empty ones.
func (r *PortfolioRepository) Load(ctx context.Context) (models.SavedPortfolio, bool) {
	raw, ok, err := r.KV.Get(ctx, KeyPortfolio)
	if err != nil {
		log.Printf("portfolio: read failed, starting from defaults: %v", err)
		return models.SavedPortfolio{}, false
	}
	if !ok {
		return models.SavedPortfolio{}, false
	}
	var p models.SavedPortfolio
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		log.Printf("portfolio: no valid saved data found: %v", err)
		return models.SavedPortfolio{}, false
	}
	if p.Document.IsEmpty() {
		log.Printf("portfolio: saved data has no freelancer, starting from defaults")
		return models.SavedPortfolio{}, false
	}
	p.Draft = p.Draft.Clone()
	fillDocument(&p.Document)
	return p, true
}

func fillDocument(d *models.Document) {
	if d.Skills == nil {
		d.Skills = []string{}
	}
	if d.Experience == nil {
		d.Experience = []models.Experience{}
	}
	if d.Education == nil {
		d.Education = []models.Education{}
	}
	if d.Projects == nil {
		d.Projects = []models.Project{}
	}
	if d.Testimonials == nil {
		d.Testimonials = []models.Testimonial{}
	}
	if d.Services == nil {
		d.Services = []models.Service{}
	}
	prefs := &d.BookingPreferences
	if prefs.AvailableDays == nil {
		prefs.AvailableDays = []string{}
	}
	if prefs.TimeSlots == nil {
		prefs.TimeSlots = []string{}
	}
	if prefs.MeetingTypes == nil {
		prefs.MeetingTypes = []string{}
	}
}

func (r *PortfolioRepository) Save(ctx context.Context, p models.SavedPortfolio) error {
	b, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return r.KV.Set(ctx, KeyPortfolio, string(b))
}

func (r *PortfolioRepository) Clear(ctx context.Context) error {
	return r.KV.Remove(ctx, KeyPortfolio)
}

// BookingRepository keeps the append-only booking list under KeyBookings.
type BookingRepository struct {
	KV KV
	mu sync.Mutex
}

func NewBookingRepository(kv KV) *BookingRepository {
	return &BookingRepository{KV: kv}
}

// List returns every stored booking in insertion order. A malformed list is
// treated as empty.
func (r *BookingRepository) List(ctx context.Context) ([]models.Booking, error) {
	raw, ok, err := r.KV.Get(ctx, KeyBookings)
	if err != nil {
		return nil, err
	}
	out := []models.Booking{}
	if !ok {
		return out, nil
	}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		log.Printf("bookings: ignoring malformed list: %v", err)
		return []models.Booking{}, nil
	}
	if out == nil {
		out = []models.Booking{}
	}
	return out, nil
}

// Append adds one booking with a read-modify-write of the whole list.
func (r *BookingRepository) Append(ctx context.Context, b models.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	list, err := r.List(ctx)
	if err != nil {
		return err
	}
	list = append(list, b)
	raw, err := json.Marshal(list)
	if err != nil {
		return err
	}
	return r.KV.Set(ctx, KeyBookings, string(raw))
}

// ListFor returns the bookings made against one freelancer.
func (r *BookingRepository) ListFor(ctx context.Context, freelancer string) ([]models.Booking, error) {
	all, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.Booking, 0, len(all))
	for _, b := range all {
		if b.Freelancer == freelancer {
			out = append(out, b)
		}
	}
	return out, nil
}
