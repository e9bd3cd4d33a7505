package handlers

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/Windi-Fikriyansyah/showme/internal/invoice"
	"github.com/Windi-Fikriyansyah/showme/internal/models"
)

type InvoiceHandler struct {
	History *invoice.History
	Now     func() time.Time
	Numbers invoice.NumberGenerator

	forms *sessions[*invoice.Form]
}

func NewInvoiceHandler(history *invoice.History) *InvoiceHandler {
	h := &InvoiceHandler{
		History: history,
		Now:     time.Now,
		forms:   newSessions[*invoice.Form](),
	}
	h.Numbers = invoice.ClockNumbers(func() time.Time { return h.Now() })
	return h
}

func (h *InvoiceHandler) Routes(r fiber.Router) {
	g := r.Group("/invoices")
	g.Get("/", h.List)
	g.Get("/stats", h.Stats)
	g.Post("/forms", h.OpenForm)
	g.Get("/forms/:id", h.GetForm)
	g.Delete("/forms/:id", h.DiscardForm)
	g.Patch("/forms/:id", h.UpdateHeader)
	g.Post("/forms/:id/items", h.AddItem)
	g.Patch("/forms/:id/items/:item", h.UpdateItem)
	g.Delete("/forms/:id/items/:item", h.RemoveItem)
	g.Post("/forms/:id/build", h.Build)
	g.Get("/:id", h.Get)
	g.Patch("/:id/status", h.SetStatus)
	g.Delete("/:id", h.Delete)
}

func formView(id string, f *invoice.Form) fiber.Map {
	return fiber.Map{
		"id":      id,
		"editing": f.Editing(),
		"header":  f.Header,
		"items":   f.Items(),
		"totals":  f.Totals(),
	}
}

type openFormReq struct {
	InvoiceID string `json:"invoice_id"`
}

// OpenForm starts a new invoice, or edits a stored one when invoice_id is set.
func (h *InvoiceHandler) OpenForm(c *fiber.Ctx) error {
	var req openFormReq
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid body")
		}
	}

	var f *invoice.Form
	if id := strings.TrimSpace(req.InvoiceID); id != "" {
		inv, found := h.History.Get(id)
		if !found {
			return notFound(c, "invoice not found")
		}
		f = invoice.NewFormFrom(inv)
	} else {
		f = invoice.NewForm(h.Numbers, h.Now())
	}
	f.OnCreate = h.History.Save
	id := h.forms.add(f)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    formView(id, f),
	})
}

func (h *InvoiceHandler) GetForm(c *fiber.Ctx) error {
	return h.forms.with(c, func(id string, f *invoice.Form) error {
		return ok(c, formView(id, f))
	})
}

func (h *InvoiceHandler) DiscardForm(c *fiber.Ctx) error {
	if !h.forms.remove(c.Params("id")) {
		return notFound(c, "session not found")
	}
	return ok(c, nil, "form discarded")
}

// UpdateHeader merges the posted header fields; absent keys keep their value.
func (h *InvoiceHandler) UpdateHeader(c *fiber.Ctx) error {
	return h.forms.with(c, func(id string, f *invoice.Form) error {
		header := f.Header
		if err := c.BodyParser(&header); err != nil {
			return fail200(c, "invalid body")
		}
		if header.TaxRate < 0 {
			return fail200(c, "tax_rate must not be negative", fiber.Map{"data": formView(id, f)})
		}
		f.Header = header
		return ok(c, formView(id, f))
	})
}

func (h *InvoiceHandler) AddItem(c *fiber.Ctx) error {
	return h.forms.with(c, func(id string, f *invoice.Form) error {
		f.AddItem()
		return ok(c, formView(id, f))
	})
}

func (h *InvoiceHandler) UpdateItem(c *fiber.Ctx) error {
	var req fieldReq
	if err := c.BodyParser(&req); err != nil {
		return fail200(c, "invalid body")
	}
	item := c.Params("item")
	return h.forms.with(c, func(id string, f *invoice.Form) error {
		if err := f.UpdateItem(item, invoice.ItemField(req.Field), string(req.Value)); err != nil {
			return fail200(c, err.Error(), fiber.Map{"data": formView(id, f)})
		}
		return ok(c, formView(id, f))
	})
}

func (h *InvoiceHandler) RemoveItem(c *fiber.Ctx) error {
	item := c.Params("item")
	return h.forms.with(c, func(id string, f *invoice.Form) error {
		if err := f.RemoveItem(item); err != nil {
			return fail200(c, err.Error(), fiber.Map{"data": formView(id, f)})
		}
		return ok(c, formView(id, f))
	})
}

// Build finishes the form and records the invoice in the history.
func (h *InvoiceHandler) Build(c *fiber.Ctx) error {
	return h.forms.with(c, func(id string, f *invoice.Form) error {
		if strings.TrimSpace(f.InvoiceNumber) == "" || strings.TrimSpace(f.ClientName) == "" {
			return fail200(c, "invoice_number and client_name are required", fiber.Map{"data": formView(id, f)})
		}
		inv := f.Build()
		h.forms.dropLocked(id)
		return ok(c, inv, "invoice saved")
	})
}

func (h *InvoiceHandler) List(c *fiber.Ctx) error {
	list := h.History.Filter(c.Query("search"), c.Query("status", invoice.StatusAll))
	return ok(c, list)
}

func (h *InvoiceHandler) Stats(c *fiber.Ctx) error {
	return ok(c, h.History.Stats())
}

func (h *InvoiceHandler) Get(c *fiber.Ctx) error {
	inv, found := h.History.Get(c.Params("id"))
	if !found {
		return notFound(c, "invoice not found")
	}
	return ok(c, inv)
}

type statusReq struct {
	Status models.InvoiceStatus `json:"status"`
}

func (h *InvoiceHandler) SetStatus(c *fiber.Ctx) error {
	var req statusReq
	if err := c.BodyParser(&req); err != nil {
		return fail200(c, "invalid body")
	}
	inv, err := h.History.SetStatus(c.Params("id"), req.Status)
	switch {
	case errors.Is(err, invoice.ErrNotFound):
		return notFound(c, "invoice not found")
	case err != nil:
		return fail200(c, err.Error())
	}
	return ok(c, inv)
}

func (h *InvoiceHandler) Delete(c *fiber.Ctx) error {
	if err := h.History.Delete(c.Params("id")); err != nil {
		return notFound(c, "invoice not found")
	}
	return ok(c, nil, "invoice deleted")
}
