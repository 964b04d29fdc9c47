package orders

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"
)

type stubNumberSource struct {
	count    int64
	countErr error
	taken    map[string]bool
}

func (s *stubNumberSource) CountCreatedBetween(_ context.Context, _, _ time.Time) (int64, error) {
	return s.count, s.countErr
}

func (s *stubNumberSource) NumberExists(_ context.Context, number string) (bool, error) {
	return s.taken[number], nil
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func noSleep(time.Duration) {}

func TestFormatNumber(t *testing.T) {
	at := time.Date(2026, time.August, 31, 14, 30, 0, 0, time.UTC)
	if got := FormatNumber(at, 7); got != "KW2608310007" {
		t.Fatalf("unexpected number %q", got)
	}
	if got := FormatNumber(at, 12345); got != "KW26083112345" {
		t.Fatalf("sequence should widen past four digits, got %q", got)
	}
}

func TestFallbackNumberUsesLastEightMillisDigits(t *testing.T) {
	at := time.UnixMilli(1756640123456)
	got := FallbackNumber(at)
	if matched := regexp.MustCompile(`^KW\d{8}$`).MatchString(got); !matched {
		t.Fatalf("unexpected fallback shape %q", got)
	}
	if got != "KW40123456" {
		t.Fatalf("unexpected fallback %q", got)
	}
}

func TestGenerateUsesDailySequence(t *testing.T) {
	source := &stubNumberSource{count: 4, taken: map[string]bool{}}
	at := time.Date(2026, time.August, 31, 9, 0, 0, 0, time.UTC)

	gen, err := NewNumberGenerator(source, fixedClock(at), noSleep)
	if err != nil {
		t.Fatalf("NewNumberGenerator: %v", err)
	}

	number, err := gen.Generate(context.Background())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if number != "KW2608310005" {
		t.Fatalf("expected KW2608310005, got %q", number)
	}
}

func TestGenerateRetriesPastCollisions(t *testing.T) {
	at := time.Date(2026, time.August, 31, 9, 0, 0, 0, time.UTC)
	source := &stubNumberSource{
		count: 0,
		taken: map[string]bool{
			FormatNumber(at, 1): true,
			FormatNumber(at, 2): true,
		},
	}

	var slept int
	gen, err := NewNumberGenerator(source, fixedClock(at), func(time.Duration) { slept++ })
	if err != nil {
		t.Fatalf("NewNumberGenerator: %v", err)
	}

	number, err := gen.Generate(context.Background())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if number != FormatNumber(at, 3) {
		t.Fatalf("expected third candidate, got %q", number)
	}
	if slept != 2 {
		t.Fatalf("expected 2 backoffs, got %d", slept)
	}
}

func TestGenerateFallsBackWhenSequenceExhausted(t *testing.T) {
	at := time.Date(2026, time.August, 31, 9, 0, 0, 0, time.UTC)
	taken := map[string]bool{}
	for seq := 1; seq <= 10; seq++ {
		taken[FormatNumber(at, seq)] = true
	}
	source := &stubNumberSource{count: 0, taken: taken}

	gen, err := NewNumberGenerator(source, fixedClock(at), noSleep)
	if err != nil {
		t.Fatalf("NewNumberGenerator: %v", err)
	}

	number, err := gen.Generate(context.Background())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if number != FallbackNumber(at) {
		t.Fatalf("expected fallback number, got %q", number)
	}
}

func TestGenerateFallsBackWhenCountFails(t *testing.T) {
	at := time.Date(2026, time.August, 31, 9, 0, 0, 0, time.UTC)
	source := &stubNumberSource{
		countErr: errors.New("connection reset"),
		taken:    map[string]bool{},
	}

	gen, err := NewNumberGenerator(source, fixedClock(at), noSleep)
	if err != nil {
		t.Fatalf("NewNumberGenerator: %v", err)
	}

	number, err := gen.Generate(context.Background())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if number != FallbackNumber(at) {
		t.Fatalf("expected fallback number, got %q", number)
	}
}

func TestGenerateFailsWhenFallbackTaken(t *testing.T) {
	at := time.Date(2026, time.August, 31, 9, 0, 0, 0, time.UTC)
	taken := map[string]bool{FallbackNumber(at): true}
	for seq := 1; seq <= 10; seq++ {
		taken[FormatNumber(at, seq)] = true
	}
	source := &stubNumberSource{count: 0, taken: taken}

	gen, err := NewNumberGenerator(source, fixedClock(at), noSleep)
	if err != nil {
		t.Fatalf("NewNumberGenerator: %v", err)
	}

	if _, err := gen.Generate(context.Background()); err == nil {
		t.Fatalf("expected exhaustion error")
	}
}
