package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"

	"github.com/Windi-Fikriyansyah/showme/internal/invoice"
	"github.com/Windi-Fikriyansyah/showme/internal/realtime"
	"github.com/Windi-Fikriyansyah/showme/internal/storage"
	"github.com/Windi-Fikriyansyah/showme/internal/wizard"
)

type Deps struct {
	Store           storage.KV
	Hub             *realtime.Hub
	Policies        map[wizard.FileSlot]wizard.UploadPolicy
	ShareSecret     string
	ShareExpiresMin int
	FrontendBaseURL string
}

type App struct {
	*fiber.App
	Wizard    *WizardHandler
	Portfolio *PortfolioHandler
	Bookings  *BookingHandler
	Invoices  *InvoiceHandler
}

// NewApp wires every handler onto a fiber app.
func NewApp(d Deps) *App {
	portfolios := storage.NewPortfolioRepository(d.Store)
	bookings := storage.NewBookingRepository(d.Store)

	a := &App{
		App:       fiber.New(),
		Wizard:    NewWizardHandler(portfolios, d.Hub, d.Policies),
		Portfolio: NewPortfolioHandler(portfolios, d.Hub, d.ShareSecret, d.ShareExpiresMin, d.FrontendBaseURL),
		Bookings:  NewBookingHandler(portfolios, bookings, d.Hub),
		Invoices:  NewInvoiceHandler(invoice.NewHistory()),
	}

	a.Use(cors.New(cors.Config{
		AllowOrigins:  d.FrontendBaseURL,
		AllowMethods:  "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders:  "Origin, Content-Type, Accept, If-None-Match",
		ExposeHeaders: "Content-Length, ETag",
	}))

	a.Options("/*", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})

	api := a.Group("/api")
	a.Wizard.Routes(api)
	a.Portfolio.Routes(api)
	a.Bookings.Routes(api)
	a.Invoices.Routes(api)

	if d.Hub != nil {
		a.Use("/ws", func(c *fiber.Ctx) error {
			if websocket.IsWebSocketUpgrade(c) {
				return c.Next()
			}
			return fiber.ErrUpgradeRequired
		})
		a.Get("/ws/bookings", websocket.New(realtime.BookingFeed(d.Hub)))
	}
	return a
}
