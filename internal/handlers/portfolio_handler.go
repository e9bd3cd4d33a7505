package handlers

import (
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/Windi-Fikriyansyah/showme/internal/middleware"
	"github.com/Windi-Fikriyansyah/showme/internal/models"
	"github.com/Windi-Fikriyansyah/showme/internal/portfolio"
	"github.com/Windi-Fikriyansyah/showme/internal/realtime"
	"github.com/Windi-Fikriyansyah/showme/internal/storage"
	"github.com/Windi-Fikriyansyah/showme/internal/utils"
)

type PortfolioHandler struct {
	Portfolios      *storage.PortfolioRepository
	Hub             *realtime.Hub
	ShareSecret     string
	ShareExpiresMin int
	FrontendBaseURL string
}

func NewPortfolioHandler(
	portfolios *storage.PortfolioRepository,
	hub *realtime.Hub,
	shareSecret string,
	shareExpiresMin int,
	frontendBaseURL string,
) *PortfolioHandler {
	return &PortfolioHandler{
		Portfolios:      portfolios,
		Hub:             hub,
		ShareSecret:     shareSecret,
		ShareExpiresMin: shareExpiresMin,
		FrontendBaseURL: frontendBaseURL,
	}
}

func (h *PortfolioHandler) Routes(r fiber.Router) {
	g := r.Group("/portfolio")
	g.Get("/", h.Get)
	g.Delete("/", h.StartOver)
	g.Post("/share", h.Share)

	r.Get("/p/:token", middleware.ShareToken(h.ShareSecret), h.Public)
}

// writeDocument answers with the document and its fingerprint as ETag,
// or 304 when the client already holds it.
func writeDocument(c *fiber.Ctx, saved models.SavedPortfolio, found bool) error {
	fp, err := portfolio.Fingerprint(saved.Document)
	if err != nil {
		return fail500(c, "failed to encode portfolio")
	}
	etag := quoteETag(fp)
	if found && c.Get(fiber.HeaderIfNoneMatch) == etag {
		return c.SendStatus(fiber.StatusNotModified)
	}
	c.Set(fiber.HeaderETag, etag)

	data := fiber.Map{
		"saved":    found,
		"document": saved.Document,
	}
	if found {
		data["saved_at"] = saved.SavedAt
	}
	return ok(c, data)
}

// Get returns the saved document. Nothing saved (or unreadable data) yields
// an empty document with saved=false.
func (h *PortfolioHandler) Get(c *fiber.Ctx) error {
	saved, found := h.Portfolios.Load(c.UserContext())
	if !found {
		saved = models.SavedPortfolio{Document: portfolio.Empty()}
	}
	return writeDocument(c, saved, found)
}

// StartOver deletes the saved portfolio and announces it to every subscriber.
func (h *PortfolioHandler) StartOver(c *fiber.Ctx) error {
	saved, found := h.Portfolios.Load(c.UserContext())
	if err := h.Portfolios.Clear(c.UserContext()); err != nil {
		log.Printf("portfolio: clear failed: %v", err)
		return fail500(c, "failed to clear portfolio")
	}
	if found && h.Hub != nil {
		h.Hub.BroadcastJSON(fiber.Map{
			"type": "portfolio_cleared",
			"data": fiber.Map{"name": saved.Document.PersonalInfo.Name},
		})
	}
	return ok(c, nil, "portfolio cleared")
}

// Share issues a signed link to the public profile page.
func (h *PortfolioHandler) Share(c *fiber.Ctx) error {
	saved, found := h.Portfolios.Load(c.UserContext())
	if !found || saved.Document.IsEmpty() {
		return fail200(c, "complete the wizard before sharing")
	}

	token, err := utils.SignShareToken(h.ShareSecret, saved.Document.PersonalInfo.Name, h.ShareExpiresMin)
	if err != nil {
		return fail500(c, "failed to sign share link")
	}
	base := strings.TrimRight(h.FrontendBaseURL, "/")
	return ok(c, fiber.Map{
		"token": token,
		"url":   base + "/p/" + token,
	})
}

// Public serves the profile page data behind a share token. Links die when
// the portfolio is cleared or republished under another name.
func (h *PortfolioHandler) Public(c *fiber.Ctx) error {
	claims, valid := middleware.ShareClaims(c)
	if !valid {
		return fiber.ErrUnauthorized
	}
	saved, found := h.Portfolios.Load(c.UserContext())
	if !found || saved.Document.PersonalInfo.Name != claims.Freelancer {
		return notFound(c, "portfolio not found")
	}
	return writeDocument(c, saved, true)
}
