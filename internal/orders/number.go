package orders

import (
	"context"
	"fmt"
	"strconv"
	"time"
)

const (
	numberPrefix       = "KW"
	numberMaxAttempts  = 5
	numberBaseBackoff  = 25 * time.Millisecond
	fallbackDigitCount = 8
)

// FormatNumber builds a sequential order number: the prefix, the date as
// YYMMDD and a zero-padded daily sequence.
func FormatNumber(t time.Time, seq int) string {
	return fmt.Sprintf("%s%s%04d", numberPrefix, t.Format("060102"), seq)
}

// FallbackNumber builds a collision-escape number from the last eight
// digits of the unix millisecond clock.
func FallbackNumber(t time.Time) string {
	millis := strconv.FormatInt(t.UnixMilli(), 10)
	if len(millis) > fallbackDigitCount {
		millis = millis[len(millis)-fallbackDigitCount:]
	}
	return numberPrefix + millis
}

// NumberSource is what the generator needs from storage.
type NumberSource interface {
	CountCreatedBetween(ctx context.Context, from, to time.Time) (int64, error)
	NumberExists(ctx context.Context, number string) (bool, error)
}

// NumberGenerator produces unique order numbers. Sequential candidates
// come from the count of orders created today; collisions back off
// exponentially before falling back to a clock-derived number.
type NumberGenerator struct {
	source NumberSource
	now    func() time.Time
	sleep  func(time.Duration)
}

// NewNumberGenerator builds a generator over the given source.
func NewNumberGenerator(source NumberSource, now func() time.Time, sleep func(time.Duration)) (*NumberGenerator, error) {
	if source == nil {
		return nil, fmt.Errorf("number generator requires a source")
	}
	if now == nil {
		now = time.Now
	}
	if sleep == nil {
		sleep = time.Sleep
	}
	return &NumberGenerator{source: source, now: now, sleep: sleep}, nil
}

// Generate returns an order number not yet present in storage. The caller
// still owns the final uniqueness guarantee through the unique index.
func (g *NumberGenerator) Generate(ctx context.Context) (string, error) {
	now := g.now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	dayEnd := dayStart.Add(24 * time.Hour)

	for attempt := 0; attempt < numberMaxAttempts; attempt++ {
		if attempt > 0 {
			g.sleep(numberBaseBackoff << (attempt - 1))
		}

		count, err := g.source.CountCreatedBetween(ctx, dayStart, dayEnd)
		if err != nil {
			// A failed count never blocks checkout; the clock-derived
			// fallback below takes over.
			break
		}

		candidate := FormatNumber(now, int(count)+1+attempt)
		exists, err := g.source.NumberExists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("check order number: %w", err)
		}
		if !exists {
			return candidate, nil
		}
	}

	for attempt := 0; attempt < numberMaxAttempts; attempt++ {
		candidate := FallbackNumber(g.now())
		exists, err := g.source.NumberExists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("check fallback order number: %w", err)
		}
		if !exists {
			return candidate, nil
		}
		g.sleep(numberBaseBackoff)
	}

	return "", fmt.Errorf("could not allocate a unique order number")
}
