package invoice

import (
	"strconv"
	"time"
)

// NumberGenerator supplies the number of a new invoice. Uniqueness is up to
// the generator.
type NumberGenerator func() string

// GenerateNumber formats INV- followed by the last six digits of the
// millisecond timestamp.
func GenerateNumber(now time.Time) string {
	ms := strconv.FormatInt(now.UnixMilli(), 10)
	if len(ms) > 6 {
		ms = ms[len(ms)-6:]
	}
	return "INV-" + ms
}

// ClockNumbers returns a generator backed by GenerateNumber and clock.
func ClockNumbers(clock func() time.Time) NumberGenerator {
	return func() string { return GenerateNumber(clock()) }
}
