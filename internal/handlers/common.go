package handlers

import (
	"bytes"
	"encoding/json"
	"strconv"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// ========= Helpers =========

func fail200(c *fiber.Ctx, message string, extra ...fiber.Map) error {
	resp := fiber.Map{
		"success": false,
		"message": message,
	}
	if len(extra) > 0 {
		for k, v := range extra[0] {
			resp[k] = v
		}
	}
	return c.Status(fiber.StatusOK).JSON(resp)
}

func fail500(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"success": false,
		"message": message,
	})
}

func notFound(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"success": false,
		"message": message,
	})
}

func ok(c *fiber.Ctx, data interface{}, message ...string) error {
	resp := fiber.Map{"success": true, "data": data}
	if len(message) > 0 {
		resp["message"] = message[0]
	}
	return c.JSON(resp)
}

// flexString accepts a JSON string or a bare JSON number.
type flexString string

func (s *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*s = flexString(v)
		return nil
	}
	if bytes.Equal(b, []byte("null")) {
		*s = ""
		return nil
	}
	*s = flexString(b)
	return nil
}

type fieldReq struct {
	Field string     `json:"field"`
	Value flexString `json:"value"`
}

type valueReq struct {
	Value string `json:"value"`
}

func paramIndex(c *fiber.Ctx, name string) (int, bool) {
	n, err := strconv.Atoi(c.Params(name))
	return n, err == nil
}

// SessionTTL is how long an untouched session survives.
const SessionTTL = 45 * time.Minute

type sessionEntry[T any] struct {
	mu      sync.Mutex // held while a request works on the session
	v       T
	touched time.Time // guarded by sessions.mu
	gone    bool      // guarded by mu
}

// sessions holds in-progress wizards, booking dialogs and invoice forms.
// Each session is locked on its own, so every session sees a single actor
// while different sessions proceed in parallel. Idle sessions expire.
type sessions[T any] struct {
	mu    sync.Mutex
	items map[string]*sessionEntry[T]
	ttl   time.Duration
	now   func() time.Time
}

func newSessions[T any]() *sessions[T] {
	return &sessions[T]{
		items: make(map[string]*sessionEntry[T]),
		ttl:   SessionTTL,
		now:   time.Now,
	}
}

func (s *sessions[T]) add(v T) string {
	id := uuid.New().String()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked()
	s.items[id] = &sessionEntry[T]{v: v, touched: s.now()}
	return id
}

// sweepLocked drops expired sessions that no request is working on.
func (s *sessions[T]) sweepLocked() {
	now := s.now()
	for id, e := range s.items {
		if now.Sub(e.touched) < s.ttl || !e.mu.TryLock() {
			continue
		}
		e.gone = true
		e.mu.Unlock()
		delete(s.items, id)
	}
}

func (s *sessions[T]) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// lookup returns a live entry and marks it used. Expired entries are removed.
func (s *sessions[T]) lookup(id string) (*sessionEntry[T], bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.items[id]
	if !ok {
		return nil, false
	}
	now := s.now()
	if now.Sub(e.touched) >= s.ttl {
		delete(s.items, id)
		return nil, false
	}
	e.touched = now
	return e, true
}

func (s *sessions[T]) remove(id string) bool {
	s.mu.Lock()
	e, ok := s.items[id]
	delete(s.items, id)
	s.mu.Unlock()
	if !ok {
		return false
	}
	e.mu.Lock()
	e.gone = true
	e.mu.Unlock()
	return true
}

// with runs fn on the session named by the :id param, or answers 404.
func (s *sessions[T]) with(c *fiber.Ctx, fn func(id string, v T) error) error {
	id := c.Params("id")
	e, ok := s.lookup(id)
	if !ok {
		return notFound(c, "session not found")
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.gone {
		return notFound(c, "session not found")
	}
	return fn(id, e.v)
}

// dropLocked deletes a session from inside with.
func (s *sessions[T]) dropLocked(id string) {
	s.mu.Lock()
	e, ok := s.items[id]
	delete(s.items, id)
	s.mu.Unlock()
	if ok {
		e.gone = true
	}
}
