package handlers

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/Windi-Fikriyansyah/showme/internal/booking"
	"github.com/Windi-Fikriyansyah/showme/internal/models"
	"github.com/Windi-Fikriyansyah/showme/internal/realtime"
	"github.com/Windi-Fikriyansyah/showme/internal/storage"
)

// calendarDays is how far ahead the dialog lists selectable dates.
const calendarDays = 30

type BookingHandler struct {
	Portfolios *storage.PortfolioRepository
	Bookings   *storage.BookingRepository
	Hub        *realtime.Hub
	Now        func() time.Time

	flows *sessions[*booking.Flow]
}

func NewBookingHandler(
	portfolios *storage.PortfolioRepository,
	bookings *storage.BookingRepository,
	hub *realtime.Hub,
) *BookingHandler {
	return &BookingHandler{
		Portfolios: portfolios,
		Bookings:   bookings,
		Hub:        hub,
		Now:        time.Now,
		flows:      newSessions[*booking.Flow](),
	}
}

func (h *BookingHandler) Routes(r fiber.Router) {
	g := r.Group("/bookings")
	g.Get("/", h.List)
	g.Post("/flows", h.Open)
	g.Get("/flows/:id", h.Get)
	g.Delete("/flows/:id", h.Close)
	g.Post("/flows/:id/date", h.SelectDate)
	g.Post("/flows/:id/time-slot", h.SelectTimeSlot)
	g.Post("/flows/:id/meeting-type", h.SelectMeetingType)
	g.Post("/flows/:id/continue", h.Continue)
	g.Post("/flows/:id/back", h.Back)
	g.Post("/flows/:id/submit", h.Submit)
}

func (h *BookingHandler) flowView(id string, f *booking.Flow) fiber.Map {
	sel := f.Selection()
	date := ""
	if !sel.Date.IsZero() {
		date = sel.Date.Format(booking.DateLayout)
	}
	dates := []string{}
	for _, d := range booking.AvailableDates(f.Preferences().AvailableDays, f.Now(), calendarDays) {
		dates = append(dates, d.Format(booking.DateLayout))
	}
	view := fiber.Map{
		"id":              id,
		"freelancer":      f.Freelancer(),
		"state":           f.State(),
		"preferences":     f.Preferences(),
		"available_dates": dates,
		"selection": fiber.Map{
			"date":         date,
			"time_slot":    sel.TimeSlot,
			"meeting_type": sel.MeetingType,
		},
	}
	if b, confirmed := f.Confirmed(); confirmed {
		view["booking"] = b
	}
	return view
}

// Open starts a booking dialog against the saved portfolio.
func (h *BookingHandler) Open(c *fiber.Ctx) error {
	saved, found := h.Portfolios.Load(c.UserContext())
	if !found || saved.Document.IsEmpty() {
		return fail200(c, "no portfolio to book")
	}
	doc := saved.Document
	if !doc.Booking.IsOpen {
		return fail200(c, "bookings are closed")
	}

	f := booking.NewFlow(doc.PersonalInfo.Name, doc.BookingPreferences, h.Bookings)
	if h.Now != nil {
		f.Now = h.Now
	}
	f.OnConfirmed = func(b models.Booking) {
		log.Printf("booking %s confirmed for %s on %s %s", b.ID, b.Freelancer, b.Date, b.TimeSlot)
		if h.Hub != nil {
			h.Hub.SendToFreelancer(b.Freelancer, fiber.Map{"type": "booking_confirmed", "data": b})
		}
	}
	id := h.flows.add(f)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    h.flowView(id, f),
	})
}

func (h *BookingHandler) Get(c *fiber.Ctx) error {
	return h.flows.with(c, func(id string, f *booking.Flow) error {
		return ok(c, h.flowView(id, f))
	})
}

// Close resets and discards the dialog.
func (h *BookingHandler) Close(c *fiber.Ctx) error {
	return h.flows.with(c, func(id string, f *booking.Flow) error {
		f.Close()
		h.flows.dropLocked(id)
		return ok(c, nil, "booking dialog closed")
	})
}

type dateReq struct {
	Date string `json:"date"`
}

func (h *BookingHandler) SelectDate(c *fiber.Ctx) error {
	var req dateReq
	if err := c.BodyParser(&req); err != nil {
		return fail200(c, "invalid body")
	}
	return h.flows.with(c, func(id string, f *booking.Flow) error {
		day, err := time.ParseInLocation(booking.DateLayout, strings.TrimSpace(req.Date), f.Now().Location())
		if err != nil {
			return fail200(c, "date must be YYYY-MM-DD", fiber.Map{"data": h.flowView(id, f)})
		}
		if !f.SelectDate(day) {
			return fail200(c, "date is not available", fiber.Map{"data": h.flowView(id, f)})
		}
		return ok(c, h.flowView(id, f))
	})
}

func (h *BookingHandler) SelectTimeSlot(c *fiber.Ctx) error {
	var req valueReq
	if err := c.BodyParser(&req); err != nil {
		return fail200(c, "invalid body")
	}
	return h.flows.with(c, func(id string, f *booking.Flow) error {
		if !f.SelectTimeSlot(req.Value) {
			return fail200(c, "time slot is not offered", fiber.Map{"data": h.flowView(id, f)})
		}
		return ok(c, h.flowView(id, f))
	})
}

func (h *BookingHandler) SelectMeetingType(c *fiber.Ctx) error {
	var req valueReq
	if err := c.BodyParser(&req); err != nil {
		return fail200(c, "invalid body")
	}
	return h.flows.with(c, func(id string, f *booking.Flow) error {
		if !f.SelectMeetingType(req.Value) {
			return fail200(c, "meeting type is not offered", fiber.Map{"data": h.flowView(id, f)})
		}
		return ok(c, h.flowView(id, f))
	})
}

func (h *BookingHandler) Continue(c *fiber.Ctx) error {
	return h.flows.with(c, func(id string, f *booking.Flow) error {
		if !f.Continue() {
			return fail200(c, "select a date, time slot and meeting type first", fiber.Map{"data": h.flowView(id, f)})
		}
		return ok(c, h.flowView(id, f))
	})
}

func (h *BookingHandler) Back(c *fiber.Ctx) error {
	return h.flows.with(c, func(id string, f *booking.Flow) error {
		if !f.Back() {
			return fail200(c, "nothing to go back to", fiber.Map{"data": h.flowView(id, f)})
		}
		return ok(c, h.flowView(id, f))
	})
}

func (h *BookingHandler) Submit(c *fiber.Ctx) error {
	var req models.ClientContact
	if err := c.BodyParser(&req); err != nil {
		return fail200(c, "invalid body")
	}
	return h.flows.with(c, func(id string, f *booking.Flow) error {
		_, err := f.SubmitForm(c.UserContext(), req)
		switch {
		case errors.Is(err, booking.ErrIncompleteForm):
			return fail200(c, err.Error(), fiber.Map{
				"missing_fields": booking.MissingFields(req),
				"data":           h.flowView(id, f),
			})
		case errors.Is(err, booking.ErrWrongState):
			return fail200(c, err.Error(), fiber.Map{"data": h.flowView(id, f)})
		case err != nil:
			log.Printf("booking %s: %v", id, err)
			return fail500(c, "failed to save booking")
		}
		return ok(c, h.flowView(id, f), "booking confirmed")
	})
}

// List returns stored bookings, optionally for one freelancer.
func (h *BookingHandler) List(c *fiber.Ctx) error {
	var (
		list []models.Booking
		err  error
	)
	if name := strings.TrimSpace(c.Query("freelancer")); name != "" {
		list, err = h.Bookings.ListFor(c.UserContext(), name)
	} else {
		list, err = h.Bookings.List(c.UserContext())
	}
	if err != nil {
		log.Printf("bookings: list failed: %v", err)
		return fail500(c, "failed to load bookings")
	}
	return ok(c, list)
}
