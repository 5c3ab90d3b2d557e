package resilience

import (
	"testing"
	"time"
)

func newTestBreaker(threshold int, cooldown time.Duration, probes int) (*CircuitBreaker, *time.Time) {
	b := NewCircuitBreaker(threshold, cooldown, probes)
	now := time.Date(2025, time.September, 7, 13, 0, 0, 0, time.UTC)
	b.now = func() time.Time { return now }
	return b, &now
}

func TestCircuitBreaker_TripsAfterThreshold(t *testing.T) {
	b, _ := newTestBreaker(3, time.Minute, 1)

	for i := 0; i < 2; i++ {
		b.RecordFailure()
		if err := b.Allow(); err != nil {
			t.Fatalf("breaker tripped early after %d failures", i+1)
		}
	}

	b.RecordFailure()
	if err := b.Allow(); err != ErrCircuitOpen {
		t.Fatalf("expected open circuit, got %v", err)
	}
	if got := b.State(); got != CircuitStateOpen {
		t.Fatalf("state = %s, want open", got)
	}
}

func TestCircuitBreaker_SuccessResetsStreak(t *testing.T) {
	b, _ := newTestBreaker(2, time.Minute, 1)

	b.RecordFailure()
	b.RecordSuccess()
	b.RecordFailure()
	if err := b.Allow(); err != nil {
		t.Fatalf("streak should reset on success: %v", err)
	}
}

func TestCircuitBreaker_HalfOpenProbeFlow(t *testing.T) {
	b, now := newTestBreaker(1, time.Minute, 1)

	b.RecordFailure()
	if err := b.Allow(); err != ErrCircuitOpen {
		t.Fatalf("expected open circuit")
	}

	*now = now.Add(61 * time.Second)
	if got := b.State(); got != CircuitStateHalfOpen {
		t.Fatalf("state after cooldown = %s, want half_open", got)
	}

	// One probe admitted, the second concurrent caller is rejected.
	if err := b.Allow(); err != nil {
		t.Fatalf("probe should be admitted: %v", err)
	}
	if err := b.Allow(); err != ErrCircuitOpen {
		t.Fatalf("second concurrent probe should be rejected")
	}

	b.RecordSuccess()
	if got := b.State(); got != CircuitStateClosed {
		t.Fatalf("state after probe success = %s, want closed", got)
	}
}

func TestCircuitBreaker_HalfOpenFailureReopens(t *testing.T) {
	b, now := newTestBreaker(1, time.Minute, 1)

	b.RecordFailure()
	*now = now.Add(61 * time.Second)
	if err := b.Allow(); err != nil {
		t.Fatalf("probe should be admitted: %v", err)
	}

	b.RecordFailure()
	if err := b.Allow(); err != ErrCircuitOpen {
		t.Fatalf("failed probe must reopen the circuit")
	}
}

func TestNormalizeCircuitBreakerConfig(t *testing.T) {
	cfg := NormalizeCircuitBreakerConfig(CircuitBreakerConfig{Enabled: true})
	defaults := DefaultCircuitBreakerConfig()
	if cfg.FailureThreshold != defaults.FailureThreshold ||
		cfg.OpenTimeout != defaults.OpenTimeout ||
		cfg.HalfOpenMaxReq != defaults.HalfOpenMaxReq {
		t.Fatalf("zero values not normalized: %+v", cfg)
	}
	if !cfg.Enabled {
		t.Fatalf("Enabled flag must be preserved")
	}
}
