package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Windi-Fikriyansyah/showme/internal/models"
	"github.com/Windi-Fikriyansyah/showme/internal/realtime"
	"github.com/Windi-Fikriyansyah/showme/internal/storage"
)

// Friday 16 October 2026, 10:00.
var fixedNow = time.Date(2026, 10, 16, 10, 0, 0, 0, time.UTC)

type envelope struct {
	Success       bool            `json:"success"`
	Message       string          `json:"message"`
	Data          json.RawMessage `json:"data"`
	MissingFields []string        `json:"missing_fields"`
}

type testServer struct {
	t   *testing.T
	app *App
	hub *realtime.Hub
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	hub := realtime.NewHub()
	go hub.Run()

	app := NewApp(Deps{
		Store:           storage.NewMemory(),
		Hub:             hub,
		ShareSecret:     "test-secret",
		ShareExpiresMin: 60,
		FrontendBaseURL: "http://localhost:3000",
	})
	now := func() time.Time { return fixedNow }
	app.Wizard.Now = now
	app.Bookings.Now = now
	app.Invoices.Now = now
	return &testServer{t: t, app: app, hub: hub}
}

// subscribe registers a hub client and waits until the hub has stored it.
func (s *testServer) subscribe(c *realtime.Client) {
	s.t.Helper()
	want := s.hub.Subscribers() + 1
	s.hub.RegisterClient(c)
	for deadline := time.Now().Add(time.Second); s.hub.Subscribers() < want; {
		if time.Now().After(deadline) {
			s.t.Fatal("client not registered")
		}
		time.Sleep(time.Millisecond)
	}
}

func (s *testServer) do(method, path string, body interface{}, headers ...string) (*http.Response, envelope) {
	s.t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			s.t.Fatal(err)
		}
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	resp, err := s.app.Test(req, -1)
	if err != nil {
		s.t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	var env envelope
	raw, _ := io.ReadAll(resp.Body)
	if len(raw) > 0 && strings.Contains(resp.Header.Get("Content-Type"), "json") {
		if err := json.Unmarshal(raw, &env); err != nil {
			s.t.Fatalf("%s %s: decode %q: %v", method, path, raw, err)
		}
	}
	return resp, env
}

// must performs a request that is expected to succeed and decodes its data.
func (s *testServer) must(method, path string, body interface{}, out interface{}) {
	s.t.Helper()
	resp, env := s.do(method, path, body)
	if resp.StatusCode >= 300 || !env.Success {
		s.t.Fatalf("%s %s: status=%d env=%+v", method, path, resp.StatusCode, env)
	}
	if out != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			s.t.Fatalf("%s %s: decode data: %v", method, path, err)
		}
	}
}

type wizardState struct {
	ID            string       `json:"id"`
	CurrentStep   int          `json:"current_step"`
	TotalSteps    int          `json:"total_steps"`
	IsLast        bool         `json:"is_last"`
	MissingFields []string     `json:"missing_fields"`
	Draft         models.Draft `json:"draft"`
}

func (s *testServer) completeWizard() models.SavedPortfolio {
	s.t.Helper()
	var w wizardState
	s.must("POST", "/api/wizard", nil, &w)
	base := "/api/wizard/" + w.ID

	_, env := s.do("POST", base+"/next", nil)
	if env.Success || len(env.MissingFields) != 1 || env.MissingFields[0] != "name" {
		s.t.Fatalf("next on blank name: %+v", env)
	}

	fields := []struct{ field, value string }{
		{"name", "Ada"},
		{"bio", "Engineer and writer."},
		{"services", "Web apps"},
	}
	for _, f := range fields {
		s.must("PATCH", base+"/fields", map[string]string{"field": f.field, "value": f.value}, nil)
		s.must("POST", base+"/next", nil, nil)
	}
	s.must("POST", base+"/skills/toggle", map[string]string{"value": "Web Development"}, nil)
	s.must("POST", base+"/next", nil, nil)
	s.must("PATCH", base+"/fields", map[string]string{"field": "location", "value": "Lagos"}, nil)
	s.must("POST", base+"/next", nil, nil)
	s.must("PATCH", base+"/fields", map[string]string{"field": "email", "value": "ada@x.com"}, nil)
	s.must("POST", base+"/next", nil, &w)
	if w.CurrentStep != 7 {
		s.t.Fatalf("step after required steps = %d", w.CurrentStep)
	}

	_, env = s.do("POST", base+"/submit", nil)
	if env.Success {
		s.t.Fatal("submit before last step succeeded")
	}

	for !w.IsLast {
		s.must("POST", base+"/next", nil, &w)
	}
	if w.CurrentStep != w.TotalSteps {
		s.t.Fatalf("step = %d of %d", w.CurrentStep, w.TotalSteps)
	}

	var saved models.SavedPortfolio
	s.must("POST", base+"/submit", nil, &saved)

	if resp, _ := s.do("GET", base, nil); resp.StatusCode != http.StatusNotFound {
		s.t.Fatalf("session survived submit: %d", resp.StatusCode)
	}
	return saved
}

func TestWizardEndToEnd(t *testing.T) {
	s := newTestServer(t)
	saved := s.completeWizard()

	doc := saved.Document
	if doc.PersonalInfo.Name != "Ada" || doc.PersonalInfo.Location != "Lagos" || doc.PersonalInfo.Email != "ada@x.com" {
		t.Fatalf("personal info = %+v", doc.PersonalInfo)
	}
	if len(doc.Skills) != 1 || doc.Skills[0] != "Web Development" {
		t.Fatalf("skills = %v", doc.Skills)
	}
	if len(doc.Services) != 1 || doc.Services[0].Price != 50 {
		t.Fatalf("services = %+v", doc.Services)
	}
	if !doc.Booking.IsOpen || len(doc.BookingPreferences.AvailableDays) != 5 {
		t.Fatalf("booking = %+v %+v", doc.Booking, doc.BookingPreferences)
	}
	if saved.Draft.Name != "Ada" {
		t.Fatalf("draft not saved: %+v", saved.Draft)
	}
}

func TestWizardResumeFromSaved(t *testing.T) {
	s := newTestServer(t)
	s.completeWizard()

	var w wizardState
	s.must("POST", "/api/wizard", map[string]bool{"resume": true}, &w)
	if w.CurrentStep != 1 || w.Draft.Name != "Ada" || w.Draft.Location != "Lagos" {
		t.Fatalf("resumed = %+v", w)
	}
}

func TestWizardRejectsBadEdits(t *testing.T) {
	s := newTestServer(t)
	var w wizardState
	s.must("POST", "/api/wizard", nil, &w)
	base := "/api/wizard/" + w.ID

	cases := []struct {
		method, path string
		body         interface{}
	}{
		{"PATCH", base + "/fields", map[string]string{"field": "nickname", "value": "x"}},
		{"POST", base + "/preferences/colours/toggle", map[string]string{"value": "red"}},
		{"PATCH", base + "/items/experience/0", map[string]string{"field": "title", "value": "x"}},
		{"PUT", base + "/files/profile_photo", models.FileRef{Name: "cv.pdf", Size: 100, ContentType: "application/pdf"}},
		{"PUT", base + "/files/cv_file", models.FileRef{Name: "big.pdf", Size: 20 * 1024 * 1024, ContentType: "application/pdf"}},
		{"PATCH", base + "/timezone", map[string]string{"timezone": "Mars/Olympus"}},
		{"POST", base + "/prev", nil},
	}
	for _, c := range cases {
		resp, env := s.do(c.method, c.path, c.body)
		if resp.StatusCode != http.StatusOK || env.Success {
			t.Errorf("%s %s: status=%d env=%+v", c.method, c.path, resp.StatusCode, env)
		}
	}

	s.must("PUT", base+"/files/profile_photo", models.FileRef{Name: "me.png", Size: 1024, ContentType: "image/png"}, &w)
	if w.Draft.ProfilePhoto == nil || w.Draft.ProfilePhoto.Name != "me.png" {
		t.Fatalf("photo = %+v", w.Draft.ProfilePhoto)
	}
	s.must("POST", base+"/items/experience", nil, nil)
	s.must("PATCH", base+"/items/experience/0", map[string]string{"field": "title", "value": "CTO"}, &w)
	if len(w.Draft.Experience) != 1 || w.Draft.Experience[0].Title != "CTO" {
		t.Fatalf("experience = %+v", w.Draft.Experience)
	}
	if w.CurrentStep != 1 {
		t.Fatalf("edits moved the step to %d", w.CurrentStep)
	}
}

func TestPortfolioEtagShareAndStartOver(t *testing.T) {
	s := newTestServer(t)

	var empty struct {
		Saved    bool            `json:"saved"`
		Document models.Document `json:"document"`
	}
	s.must("GET", "/api/portfolio", nil, &empty)
	if empty.Saved || !empty.Document.IsEmpty() {
		t.Fatalf("empty portfolio = %+v", empty)
	}
	if _, env := s.do("POST", "/api/portfolio/share", nil); env.Success {
		t.Fatal("share succeeded without a portfolio")
	}

	s.completeWizard()

	resp, env := s.do("GET", "/api/portfolio", nil)
	etag := resp.Header.Get("ETag")
	if !env.Success || etag == "" {
		t.Fatalf("etag=%q env=%+v", etag, env)
	}
	if resp, _ := s.do("GET", "/api/portfolio", nil, "If-None-Match", etag); resp.StatusCode != http.StatusNotModified {
		t.Fatalf("conditional get status = %d", resp.StatusCode)
	}

	var link struct {
		Token string `json:"token"`
		URL   string `json:"url"`
	}
	s.must("POST", "/api/portfolio/share", nil, &link)
	if link.URL != "http://localhost:3000/p/"+link.Token {
		t.Fatalf("url = %q", link.URL)
	}

	var public struct {
		Document models.Document `json:"document"`
	}
	s.must("GET", "/api/p/"+link.Token, nil, &public)
	if public.Document.PersonalInfo.Name != "Ada" {
		t.Fatalf("public = %+v", public.Document.PersonalInfo)
	}
	if resp, _ := s.do("GET", "/api/p/forged", nil); resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("forged token status = %d", resp.StatusCode)
	}

	other := &realtime.Client{ID: "other-feed", Freelancer: "Bob", Send: make(chan []byte, 4)}
	s.subscribe(other)
	s.must("DELETE", "/api/portfolio", nil, nil)
	select {
	case msg := <-other.Send:
		var ev struct {
			Type string `json:"type"`
		}
		_ = json.Unmarshal(msg, &ev)
		if ev.Type != "portfolio_cleared" {
			t.Fatalf("event = %s", msg)
		}
	case <-time.After(time.Second):
		t.Fatal("start over was not broadcast")
	}
	if resp, _ := s.do("GET", "/api/p/"+link.Token, nil); resp.StatusCode != http.StatusNotFound {
		t.Fatalf("link after start over status = %d", resp.StatusCode)
	}
}

type flowState struct {
	ID             string         `json:"id"`
	State          string         `json:"state"`
	AvailableDates []string       `json:"available_dates"`
	Booking        models.Booking `json:"booking"`
}

func TestBookingFlowOverHTTP(t *testing.T) {
	s := newTestServer(t)

	if _, env := s.do("POST", "/api/bookings/flows", nil); env.Success {
		t.Fatal("booking opened without a portfolio")
	}
	s.completeWizard()

	feed := &realtime.Client{ID: "feed", Freelancer: "Ada", Send: make(chan []byte, 8)}
	s.subscribe(feed)

	var f flowState
	s.must("POST", "/api/bookings/flows", nil, &f)
	base := "/api/bookings/flows/" + f.ID
	if f.State != "calendar" || len(f.AvailableDates) == 0 || f.AvailableDates[0] != "2026-10-19" {
		t.Fatalf("flow = %+v", f)
	}

	if _, env := s.do("POST", base+"/date", map[string]string{"date": "2026-10-17"}); env.Success {
		t.Fatal("Saturday accepted")
	}
	if _, env := s.do("POST", base+"/continue", nil); env.Success {
		t.Fatal("continue without selection")
	}
	s.must("POST", base+"/date", map[string]string{"date": "2026-10-19"}, nil)
	s.must("POST", base+"/time-slot", map[string]string{"value": "9:00 AM"}, nil)
	s.must("POST", base+"/meeting-type", map[string]string{"value": "Discovery Call"}, nil)
	s.must("POST", base+"/continue", nil, &f)
	if f.State != "form" {
		t.Fatalf("state = %s", f.State)
	}

	_, env := s.do("POST", base+"/submit", models.ClientContact{Name: "Bob", Email: "bob@x.com"})
	if env.Success || len(env.MissingFields) != 1 || env.MissingFields[0] != "message" {
		t.Fatalf("incomplete submit = %+v", env)
	}

	s.must("POST", base+"/submit", models.ClientContact{Name: "Bob", Email: "bob@x.com", Message: "Hi Ada"}, &f)
	if f.State != "confirmation" || f.Booking.Date != "2026-10-19" || f.Booking.Status != models.BookingPending {
		t.Fatalf("confirmed = %+v", f)
	}

	select {
	case msg := <-feed.Send:
		var ev struct {
			Type string `json:"type"`
		}
		_ = json.Unmarshal(msg, &ev)
		if ev.Type != "booking_confirmed" {
			t.Fatalf("event = %s", msg)
		}
	case <-time.After(time.Second):
		t.Fatal("no realtime event")
	}

	var list []models.Booking
	s.must("GET", "/api/bookings?freelancer=Ada", nil, &list)
	if len(list) != 1 || list[0].ID != f.Booking.ID {
		t.Fatalf("list = %+v", list)
	}

	s.must("DELETE", base, nil, nil)
	if resp, _ := s.do("GET", base, nil); resp.StatusCode != http.StatusNotFound {
		t.Fatalf("closed flow status = %d", resp.StatusCode)
	}
}

type formState struct {
	ID     string               `json:"id"`
	Items  []models.InvoiceItem `json:"items"`
	Totals struct {
		Subtotal  float64 `json:"subtotal"`
		TaxAmount float64 `json:"tax_amount"`
		Total     float64 `json:"total"`
	} `json:"totals"`
}

func TestInvoiceOverHTTP(t *testing.T) {
	s := newTestServer(t)

	var f formState
	s.must("POST", "/api/invoices/forms", nil, &f)
	base := "/api/invoices/forms/" + f.ID
	first := f.Items[0].ID

	if _, env := s.do("DELETE", base+"/items/"+first, nil); env.Success {
		t.Fatal("removed the only item")
	}

	s.must("POST", base+"/items", nil, &f)
	second := f.Items[1].ID
	s.must("PATCH", base+"/items/"+first, map[string]interface{}{"field": "quantity", "value": 2}, nil)
	s.must("PATCH", base+"/items/"+first, map[string]interface{}{"field": "rate", "value": "10"}, nil)
	s.must("PATCH", base+"/items/"+second, map[string]interface{}{"field": "rate", "value": 5}, nil)
	s.must("PATCH", base, map[string]interface{}{"client_name": "Globex", "tax_rate": 10}, &f)
	if f.Totals.Subtotal != 25 || f.Totals.TaxAmount != 2.5 || f.Totals.Total != 27.5 {
		t.Fatalf("totals = %+v", f.Totals)
	}

	var inv models.Invoice
	s.must("POST", base+"/build", nil, &inv)
	if inv.Status != models.InvoiceDraft || inv.InvoiceNumber == "" || inv.Total != 27.5 {
		t.Fatalf("invoice = %+v", inv)
	}

	s.must("PATCH", "/api/invoices/"+inv.ID+"/status", map[string]string{"status": "sent"}, nil)
	if _, env := s.do("PATCH", "/api/invoices/"+inv.ID+"/status", map[string]string{"status": "lost"}); env.Success {
		t.Fatal("invalid status accepted")
	}

	var stats struct {
		Count   int     `json:"count"`
		Revenue float64 `json:"revenue"`
		Pending int     `json:"pending"`
	}
	s.must("GET", "/api/invoices/stats", nil, &stats)
	if stats.Count != 1 || stats.Revenue != 27.5 || stats.Pending != 1 {
		t.Fatalf("stats = %+v", stats)
	}

	var found []models.Invoice
	s.must("GET", "/api/invoices?search=globex&status=sent", nil, &found)
	if len(found) != 1 {
		t.Fatalf("filter = %+v", found)
	}

	var edit formState
	s.must("POST", "/api/invoices/forms", map[string]string{"invoice_id": inv.ID}, &edit)
	s.must("PATCH", "/api/invoices/forms/"+edit.ID, map[string]interface{}{"tax_rate": 0}, nil)
	var edited models.Invoice
	s.must("POST", "/api/invoices/forms/"+edit.ID+"/build", nil, &edited)
	if edited.ID != inv.ID || edited.Status != models.InvoiceSent || edited.Total != 25 {
		t.Fatalf("edited = %+v", edited)
	}

	s.must("DELETE", "/api/invoices/"+inv.ID, nil, nil)
	if resp, _ := s.do("GET", "/api/invoices/"+inv.ID, nil); resp.StatusCode != http.StatusNotFound {
		t.Fatalf("deleted invoice status = %d", resp.StatusCode)
	}
}

func TestIdleSessionsExpireOverHTTP(t *testing.T) {
	s := newTestServer(t)
	var w wizardState
	s.must("POST", "/api/wizard", nil, &w)
	var f formState
	s.must("POST", "/api/invoices/forms", nil, &f)

	later := func() time.Time { return time.Now().Add(SessionTTL + time.Minute) }
	s.app.Wizard.sessions.now = later
	s.app.Invoices.forms.now = later

	if resp, _ := s.do("GET", "/api/wizard/"+w.ID, nil); resp.StatusCode != http.StatusNotFound {
		t.Fatalf("idle wizard status = %d", resp.StatusCode)
	}
	if resp, _ := s.do("GET", "/api/invoices/forms/"+f.ID, nil); resp.StatusCode != http.StatusNotFound {
		t.Fatalf("idle invoice form status = %d", resp.StatusCode)
	}
}
