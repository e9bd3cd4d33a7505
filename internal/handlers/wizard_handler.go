package handlers

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/Windi-Fikriyansyah/showme/internal/models"
	"github.com/Windi-Fikriyansyah/showme/internal/portfolio"
	"github.com/Windi-Fikriyansyah/showme/internal/realtime"
	"github.com/Windi-Fikriyansyah/showme/internal/storage"
	"github.com/Windi-Fikriyansyah/showme/internal/wizard"
)

type WizardHandler struct {
	Portfolios *storage.PortfolioRepository
	Hub        *realtime.Hub
	Policies   map[wizard.FileSlot]wizard.UploadPolicy
	Steps      []wizard.Step
	Now        func() time.Time

	sessions *sessions[*wizard.Controller]
}

func NewWizardHandler(
	portfolios *storage.PortfolioRepository,
	hub *realtime.Hub,
	policies map[wizard.FileSlot]wizard.UploadPolicy,
) *WizardHandler {
	return &WizardHandler{
		Portfolios: portfolios,
		Hub:        hub,
		Policies:   policies,
		Now:        time.Now,
		sessions:   newSessions[*wizard.Controller](),
	}
}

func (h *WizardHandler) Routes(r fiber.Router) {
	g := r.Group("/wizard")
	g.Get("/catalog", h.Catalog)
	g.Post("/", h.Create)
	g.Get("/:id", h.Get)
	g.Delete("/:id", h.Discard)
	g.Patch("/:id/fields", h.SetField)
	g.Patch("/:id/links", h.SetLink)
	g.Patch("/:id/timezone", h.SetTimezone)
	g.Post("/:id/skills/toggle", h.ToggleSkill)
	g.Post("/:id/preferences/:category/toggle", h.TogglePreference)
	g.Post("/:id/items/:group", h.AddItem)
	g.Patch("/:id/items/:group/:index", h.UpdateItem)
	g.Delete("/:id/items/:group/:index", h.RemoveItem)
	g.Put("/:id/files/:slot", h.SetFile)
	g.Delete("/:id/files/:slot", h.ClearFile)
	g.Post("/:id/next", h.Next)
	g.Post("/:id/prev", h.Prev)
	g.Post("/:id/submit", h.Submit)
}

type stepView struct {
	Number   int      `json:"number"`
	Key      string   `json:"key"`
	Title    string   `json:"title"`
	Required []string `json:"required"`
}

func viewStep(s wizard.Step) stepView {
	req := s.Required
	if req == nil {
		req = []string{}
	}
	return stepView{Number: s.Number, Key: s.Key, Title: s.Title, Required: req}
}

func wizardView(id string, w *wizard.Controller) fiber.Map {
	return fiber.Map{
		"id":             id,
		"current_step":   w.CurrentStep(),
		"total_steps":    w.TotalSteps(),
		"step":           viewStep(w.Step()),
		"is_last":        w.IsLast(),
		"valid":          w.IsValid(w.CurrentStep()),
		"missing_fields": w.MissingFields(),
		"draft":          w.Draft(),
	}
}

// refused answers a rejected edit or transition with the current state.
func refused(c *fiber.Ctx, id string, w *wizard.Controller, message string) error {
	return fail200(c, message, fiber.Map{
		"missing_fields": w.MissingFields(),
		"data":           wizardView(id, w),
	})
}

func (h *WizardHandler) Catalog(c *fiber.Ctx) error {
	steps := h.Steps
	if len(steps) == 0 {
		steps = wizard.DefaultSteps()
	}
	views := make([]stepView, 0, len(steps))
	for _, s := range steps {
		views = append(views, viewStep(s))
	}
	return ok(c, fiber.Map{
		"steps":                       views,
		"skills":                      wizard.AvailableSkills,
		"week_days":                   wizard.WeekDays,
		"time_slots":                  wizard.TimeSlotOptions,
		"meeting_types":               wizard.MeetingTypeOptions,
		"default_booking_preferences": portfolio.DefaultBookingPreferences(),
	})
}

type createWizardReq struct {
	Resume bool `json:"resume"`
}

// Create opens a wizard session. With resume=true the saved draft, if any,
// is loaded for re-editing.
func (h *WizardHandler) Create(c *fiber.Ctx) error {
	var req createWizardReq
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid body")
		}
	}

	var initial *models.Draft
	if req.Resume {
		if saved, found := h.Portfolios.Load(c.UserContext()); found {
			initial = &saved.Draft
		}
	}

	w := wizard.NewController(h.Steps, initial)
	if h.Policies != nil {
		w.SetUploadPolicies(h.Policies)
	}
	id := h.sessions.add(w)
	w.OnStepChange = func(step int) {
		log.Printf("wizard %s: step %d", id, step)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    wizardView(id, w),
	})
}

func (h *WizardHandler) Get(c *fiber.Ctx) error {
	return h.sessions.with(c, func(id string, w *wizard.Controller) error {
		return ok(c, wizardView(id, w))
	})
}

func (h *WizardHandler) Discard(c *fiber.Ctx) error {
	if !h.sessions.remove(c.Params("id")) {
		return notFound(c, "session not found")
	}
	return ok(c, nil, "wizard discarded")
}

// edit applies one draft mutation and answers with the new state. Edits
// never move the step.
func (h *WizardHandler) edit(c *fiber.Ctx, fn func(w *wizard.Controller) error) error {
	return h.sessions.with(c, func(id string, w *wizard.Controller) error {
		if err := fn(w); err != nil {
			return refused(c, id, w, err.Error())
		}
		return ok(c, wizardView(id, w))
	})
}

func (h *WizardHandler) SetField(c *fiber.Ctx) error {
	var req fieldReq
	if err := c.BodyParser(&req); err != nil {
		return fail200(c, "invalid body")
	}
	return h.edit(c, func(w *wizard.Controller) error {
		return w.SetPersonalField(wizard.Field(strings.TrimSpace(req.Field)), string(req.Value))
	})
}

func (h *WizardHandler) SetLink(c *fiber.Ctx) error {
	var req fieldReq
	if err := c.BodyParser(&req); err != nil {
		return fail200(c, "invalid body")
	}
	return h.edit(c, func(w *wizard.Controller) error {
		return w.SetLink(wizard.LinkField(strings.TrimSpace(req.Field)), strings.TrimSpace(string(req.Value)))
	})
}

type timezoneReq struct {
	Timezone string `json:"timezone"`
}

func (h *WizardHandler) SetTimezone(c *fiber.Ctx) error {
	var req timezoneReq
	if err := c.BodyParser(&req); err != nil {
		return fail200(c, "invalid body")
	}
	tz := strings.TrimSpace(req.Timezone)
	return h.edit(c, func(w *wizard.Controller) error {
		if _, err := time.LoadLocation(tz); tz != "" && err != nil {
			return errors.New("unknown timezone: " + tz)
		}
		w.SetBookingTimezone(tz)
		return nil
	})
}

func (h *WizardHandler) ToggleSkill(c *fiber.Ctx) error {
	var req valueReq
	if err := c.BodyParser(&req); err != nil {
		return fail200(c, "invalid body")
	}
	skill := strings.TrimSpace(req.Value)
	return h.edit(c, func(w *wizard.Controller) error {
		if skill == "" {
			return errors.New("value is required")
		}
		w.ToggleSkill(skill)
		return nil
	})
}

func (h *WizardHandler) TogglePreference(c *fiber.Ctx) error {
	var req valueReq
	if err := c.BodyParser(&req); err != nil {
		return fail200(c, "invalid body")
	}
	cat := wizard.PreferenceCategory(c.Params("category"))
	return h.edit(c, func(w *wizard.Controller) error {
		return w.ToggleBookingPreference(cat, strings.TrimSpace(req.Value))
	})
}

func (h *WizardHandler) AddItem(c *fiber.Ctx) error {
	g := wizard.Group(c.Params("group"))
	return h.edit(c, func(w *wizard.Controller) error {
		return w.AddItem(g)
	})
}

func (h *WizardHandler) UpdateItem(c *fiber.Ctx) error {
	var req fieldReq
	if err := c.BodyParser(&req); err != nil {
		return fail200(c, "invalid body")
	}
	g := wizard.Group(c.Params("group"))
	idx, valid := paramIndex(c, "index")
	return h.edit(c, func(w *wizard.Controller) error {
		if !valid {
			return wizard.ErrIndexOutOfRange
		}
		return w.UpdateItem(g, idx, req.Field, string(req.Value))
	})
}

func (h *WizardHandler) RemoveItem(c *fiber.Ctx) error {
	g := wizard.Group(c.Params("group"))
	idx, valid := paramIndex(c, "index")
	return h.edit(c, func(w *wizard.Controller) error {
		if !valid {
			return wizard.ErrIndexOutOfRange
		}
		return w.RemoveItem(g, idx)
	})
}

// SetFile records attachment metadata. A multipart "file" part is inspected
// for name, size and type; otherwise the JSON body carries them.
func (h *WizardHandler) SetFile(c *fiber.Ctx) error {
	var ref models.FileRef
	if fh, err := c.FormFile("file"); err == nil {
		ref = models.FileRef{
			Name:        fh.Filename,
			Size:        fh.Size,
			ContentType: fh.Header.Get("Content-Type"),
		}
	} else if err := c.BodyParser(&ref); err != nil {
		return fail200(c, "file is required (multipart field: file)")
	}
	if strings.TrimSpace(ref.Name) == "" {
		return fail200(c, "file name is required")
	}

	slot := wizard.FileSlot(c.Params("slot"))
	return h.edit(c, func(w *wizard.Controller) error {
		return w.SetFile(slot, ref)
	})
}

func (h *WizardHandler) ClearFile(c *fiber.Ctx) error {
	slot := wizard.FileSlot(c.Params("slot"))
	return h.edit(c, func(w *wizard.Controller) error {
		return w.ClearFile(slot)
	})
}

func (h *WizardHandler) Next(c *fiber.Ctx) error {
	return h.sessions.with(c, func(id string, w *wizard.Controller) error {
		if w.IsLast() {
			return refused(c, id, w, "already on the last step")
		}
		if !w.Next() {
			return refused(c, id, w, "complete step "+w.Step().Key+" first")
		}
		return ok(c, wizardView(id, w))
	})
}

func (h *WizardHandler) Prev(c *fiber.Ctx) error {
	return h.sessions.with(c, func(id string, w *wizard.Controller) error {
		if !w.Prev() {
			return refused(c, id, w, "already on the first step")
		}
		return ok(c, wizardView(id, w))
	})
}

// Submit transforms the finished draft, saves it as the portfolio and ends
// the session.
func (h *WizardHandler) Submit(c *fiber.Ctx) error {
	return h.sessions.with(c, func(id string, w *wizard.Controller) error {
		var completed *models.Draft
		w.OnComplete = func(d models.Draft) { completed = &d }

		if !w.Submit() || completed == nil {
			msg := "complete step " + w.Step().Key + " first"
			if !w.IsLast() {
				msg = "submit is only available on the last step"
			}
			return refused(c, id, w, msg)
		}

		saved, etag, err := h.publish(c.UserContext(), *completed)
		if err != nil {
			log.Printf("wizard %s: save failed: %v", id, err)
			return fail500(c, "failed to save portfolio")
		}
		h.sessions.dropLocked(id)

		c.Set(fiber.HeaderETag, etag)
		return ok(c, saved, "portfolio saved")
	})
}

func (h *WizardHandler) publish(ctx context.Context, d models.Draft) (models.SavedPortfolio, string, error) {
	doc := portfolio.Transform(d)
	etag, err := portfolio.Fingerprint(doc)
	if err != nil {
		return models.SavedPortfolio{}, "", err
	}
	saved := models.SavedPortfolio{Draft: d, Document: doc, SavedAt: h.Now().UTC()}
	if err := h.Portfolios.Save(ctx, saved); err != nil {
		return models.SavedPortfolio{}, "", err
	}
	if h.Hub != nil {
		h.Hub.SendToFreelancer(doc.PersonalInfo.Name, fiber.Map{
			"type": "portfolio_published",
			"data": fiber.Map{"name": doc.PersonalInfo.Name, "etag": etag},
		})
	}
	return saved, quoteETag(etag), nil
}

func quoteETag(fp string) string { return `"` + fp + `"` }
