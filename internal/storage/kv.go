package storage

import (
	"context"
	"errors"
)

// Logical keys used by the application.
const (
	KeyPortfolio = "showme-portfolio"
	KeyBookings  = "showme-bookings"
)

var ErrNotJSON = errors.New("value is not valid JSON")

// KV is the key-value store the application persists to. Get reports whether
// the key exists; a missing key is not an error.
//
// Values are JSON documents. The repositories only ever write JSON, and the SQL
// adapter keeps values in a JSON column, so its Set refuses anything else with
// ErrNotJSON. Memory and Redis store any string unchanged.
type KV interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}
