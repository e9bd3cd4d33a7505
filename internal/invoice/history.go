package invoice

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/Windi-Fikriyansyah/showme/internal/models"
)

var (
	ErrNotFound      = errors.New("invoice not found")
	ErrInvalidStatus = errors.New("invalid invoice status")
)

// StatusAll disables status filtering.
const StatusAll = "all"

type Stats struct {
	Count   int     `json:"count"`
	Revenue float64 `json:"revenue"`
	Paid    int     `json:"paid"`
	Pending int     `json:"pending"`
}

// History keeps the invoices of the running process, newest first.
type History struct {
	mu       sync.RWMutex
	invoices []models.Invoice
}

func NewHistory() *History {
	return &History{}
}

func (h *History) Add(inv models.Invoice) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.invoices = append([]models.Invoice{inv}, h.invoices...)
}

// Update replaces the invoice with the same id.
func (h *History) Update(inv models.Invoice) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	i := h.indexOf(inv.ID)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, inv.ID)
	}
	h.invoices[i] = inv
	return nil
}

// Save adds inv or replaces the stored copy with the same id.
func (h *History) Save(inv models.Invoice) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if i := h.indexOf(inv.ID); i >= 0 {
		h.invoices[i] = inv
		return
	}
	h.invoices = append([]models.Invoice{inv}, h.invoices...)
}

func (h *History) Delete(id string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	i := h.indexOf(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	h.invoices = append(h.invoices[:i:i], h.invoices[i+1:]...)
	return nil
}

func (h *History) Get(id string) (models.Invoice, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	i := h.indexOf(id)
	if i < 0 {
		return models.Invoice{}, false
	}
	return h.invoices[i], true
}

func (h *History) List() []models.Invoice {
	return h.Filter("", StatusAll)
}

// Filter matches search case-insensitively against number, client name and
// client email. An empty status or StatusAll matches every status.
func (h *History) Filter(search, status string) []models.Invoice {
	h.mu.RLock()
	defer h.mu.RUnlock()
	q := strings.ToLower(strings.TrimSpace(search))
	out := []models.Invoice{}
	for _, inv := range h.invoices {
		if status != "" && status != StatusAll && string(inv.Status) != status {
			continue
		}
		if q != "" &&
			!strings.Contains(strings.ToLower(inv.InvoiceNumber), q) &&
			!strings.Contains(strings.ToLower(inv.ClientName), q) &&
			!strings.Contains(strings.ToLower(inv.ClientEmail), q) {
			continue
		}
		out = append(out, inv)
	}
	return out
}

// Stats sums every invoice; pending counts sent and overdue ones.
func (h *History) Stats() Stats {
	h.mu.RLock()
	defer h.mu.RUnlock()
	s := Stats{Count: len(h.invoices)}
	for _, inv := range h.invoices {
		s.Revenue += inv.Total
		switch inv.Status {
		case models.InvoicePaid:
			s.Paid++
		case models.InvoiceSent, models.InvoiceOverdue:
			s.Pending++
		}
	}
	return s
}

func (h *History) SetStatus(id string, status models.InvoiceStatus) (models.Invoice, error) {
	if !status.Valid() {
		return models.Invoice{}, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	i := h.indexOf(id)
	if i < 0 {
		return models.Invoice{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	h.invoices[i].Status = status
	return h.invoices[i], nil
}

func (h *History) indexOf(id string) int {
	for i, inv := range h.invoices {
		if inv.ID == id {
			return i
		}
	}
	return -1
}
