package invoice

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Windi-Fikriyansyah/showme/internal/models"
)

const (
	DefaultPaymentTerms = "Net 30"
	DateLayout          = "2006-01-02"
)

var (
	ErrUnknownItem  = errors.New("unknown invoice item")
	ErrLastItem     = errors.New("an invoice needs at least one item")
	ErrUnknownField = errors.New("unknown item field")
	ErrBadNumber    = errors.New("value is not a number")
)

type ItemField string

const (
	ItemDescription ItemField = "description"
	ItemQuantity    ItemField = "quantity"
	ItemRate        ItemField = "rate"
)

// Header holds the invoice fields outside the line items.
type Header struct {
	InvoiceNumber string  `json:"invoice_number"`
	ClientName    string  `json:"client_name"`
	ClientEmail   string  `json:"client_email"`
	ClientAddress string  `json:"client_address"`
	IssueDate     string  `json:"issue_date"`
	DueDate       string  `json:"due_date"`
	TaxRate       float64 `json:"tax_rate"`
	Notes         string  `json:"notes"`
	PaymentTerms  string  `json:"payment_terms"`
}

type Totals struct {
	Subtotal  float64 `json:"subtotal"`
	TaxAmount float64 `json:"tax_amount"`
	Total     float64 `json:"total"`
}

// Form edits one invoice. It is not safe for concurrent use.
type Form struct {
	Header
	items    []models.InvoiceItem
	existing *models.Invoice

	NewID    func() string
	OnCreate func(inv models.Invoice)
}

// NewForm starts a blank invoice numbered by gen and issued on now's day.
func NewForm(gen NumberGenerator, now time.Time) *Form {
	f := &Form{
		Header: Header{
			IssueDate:    now.Format(DateLayout),
			PaymentTerms: DefaultPaymentTerms,
		},
		NewID: uuid.NewString,
	}
	if gen != nil {
		f.InvoiceNumber = gen()
	}
	f.items = []models.InvoiceItem{blankItem(f.NewID())}
	return f
}

// NewFormFrom loads an existing invoice for editing; Build keeps its id and
// status.
func NewFormFrom(inv models.Invoice) *Form {
	cp := inv
	cp.Items = append([]models.InvoiceItem(nil), inv.Items...)
	f := &Form{
		Header: Header{
			InvoiceNumber: inv.InvoiceNumber,
			ClientName:    inv.ClientName,
			ClientEmail:   inv.ClientEmail,
			ClientAddress: inv.ClientAddress,
			IssueDate:     inv.IssueDate,
			DueDate:       inv.DueDate,
			TaxRate:       inv.TaxRate,
			Notes:         inv.Notes,
			PaymentTerms:  inv.PaymentTerms,
		},
		items:    append([]models.InvoiceItem(nil), inv.Items...),
		existing: &cp,
		NewID:    uuid.NewString,
	}
	if len(f.items) == 0 {
		f.items = []models.InvoiceItem{blankItem(f.NewID())}
	}
	return f
}

func blankItem(id string) models.InvoiceItem {
	return models.InvoiceItem{ID: id, Quantity: 1}
}

// Editing reports whether the form was loaded from an existing invoice.
func (f *Form) Editing() bool { return f.existing != nil }

func (f *Form) Items() []models.InvoiceItem {
	return append([]models.InvoiceItem(nil), f.items...)
}

// AddItem appends an empty row (quantity 1, rate 0) and returns it.
func (f *Form) AddItem() models.InvoiceItem {
	it := blankItem(f.NewID())
	f.items = append(f.items, it)
	return it
}

// RemoveItem drops a row. The last remaining row cannot be removed.
func (f *Form) RemoveItem(id string) error {
	i := f.indexOf(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrUnknownItem, id)
	}
	if len(f.items) <= 1 {
		return ErrLastItem
	}
	f.items = append(f.items[:i:i], f.items[i+1:]...)
	return nil
}

// UpdateItem sets one field of a row; quantity and rate edits recompute the
// row amount.
func (f *Form) UpdateItem(id string, field ItemField, value string) error {
	i := f.indexOf(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrUnknownItem, id)
	}
	it := &f.items[i]
	switch field {
	case ItemDescription:
		it.Description = value
		return nil
	case ItemQuantity, ItemRate:
		n, err := parseNumber(value)
		if err != nil {
			return err
		}
		if field == ItemQuantity {
			it.Quantity = n
		} else {
			it.Rate = n
		}
		it.Amount = it.Quantity * it.Rate
		return nil
	}
	return fmt.Errorf("%w: %s", ErrUnknownField, field)
}

func parseNumber(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrBadNumber, s)
	}
	return n, nil
}

func (f *Form) indexOf(id string) int {
	for i, it := range f.items {
		if it.ID == id {
			return i
		}
	}
	return -1
}

// Compute derives subtotal, tax and total from items and a percentage rate.
func Compute(items []models.InvoiceItem, taxRate float64) Totals {
	var t Totals
	for _, it := range items {
		t.Subtotal += it.Amount
	}
	t.TaxAmount = t.Subtotal * taxRate / 100
	t.Total = t.Subtotal + t.TaxAmount
	return t
}

func (f *Form) Totals() Totals { return Compute(f.items, f.TaxRate) }

// Build assembles the invoice and passes it to OnCreate. New invoices start
// as drafts; edited ones keep their id and status.
func (f *Form) Build() models.Invoice {
	t := f.Totals()
	inv := models.Invoice{
		ID:            f.NewID(),
		InvoiceNumber: f.InvoiceNumber,
		ClientName:    f.ClientName,
		ClientEmail:   f.ClientEmail,
		ClientAddress: f.ClientAddress,
		IssueDate:     f.IssueDate,
		DueDate:       f.DueDate,
		Items:         f.Items(),
		Subtotal:      t.Subtotal,
		TaxRate:       f.TaxRate,
		TaxAmount:     t.TaxAmount,
		Total:         t.Total,
		Status:        models.InvoiceDraft,
		Notes:         f.Notes,
		PaymentTerms:  f.PaymentTerms,
	}
	if f.existing != nil {
		inv.ID = f.existing.ID
		inv.Status = f.existing.Status
	}
	if f.OnCreate != nil {
		f.OnCreate(inv)
	}
	return inv
}
