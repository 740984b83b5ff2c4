package domain

import (
	"testing"
	"time"
)

func int64Ptr(v int64) *int64 { return &v }

func baseOffer() PartnerOffer {
	return PartnerOffer{
		Status:     OfferActive,
		ValidFrom:  time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
		ValidUntil: time.Date(2026, 6, 30, 23, 59, 59, 0, time.UTC),
	}
}

func TestEvaluateWindowBoundsInclusive(t *testing.T) {
	t.Parallel()

	o := baseOffer()

	cases := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"before window", o.ValidFrom.Add(-time.Second), false},
		{"at valid_from", o.ValidFrom, true},
		{"inside window", o.ValidFrom.Add(24 * time.Hour), true},
		{"at valid_until", o.ValidUntil, true},
		{"after valid_until", o.ValidUntil.Add(time.Second), false},
	}
	for _, tc := range cases {
		if got := Evaluate(o, tc.now).IsValid; got != tc.want {
			t.Errorf("%s: IsValid = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestEvaluateInactiveStatusNeverValid(t *testing.T) {
	t.Parallel()

	inside := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)
	for _, status := range []OfferStatus{OfferDraft, OfferArchived} {
		o := baseOffer()
		o.Status = status
		if Evaluate(o, inside).IsValid {
			t.Errorf("status %q inside window reported valid", status)
		}
	}
}

func TestEvaluateStockPosture(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)

	t.Run("unlimited stock never low or out", func(t *testing.T) {
		t.Parallel()
		o := baseOffer()
		o.StockUsed = 1_000_000
		eval := Evaluate(o, now)
		if eval.IsOutOfStock || eval.IsLowStock || eval.StockRemaining != nil {
			t.Fatalf("unlimited offer reported stock posture: %+v", eval)
		}
	})

	t.Run("remaining and percentage", func(t *testing.T) {
		t.Parallel()
		o := baseOffer()
		o.StockAvailable = int64Ptr(100)
		o.StockUsed = 85
		eval := Evaluate(o, now)
		if eval.StockRemaining == nil || *eval.StockRemaining != 15 {
			t.Fatalf("StockRemaining = %v, want 15", eval.StockRemaining)
		}
		if eval.StockPercentage != 15 {
			t.Fatalf("StockPercentage = %d, want 15", eval.StockPercentage)
		}
		if !eval.IsLowStock || eval.IsOutOfStock {
			t.Fatalf("expected low stock only, got %+v", eval)
		}
	})

	t.Run("exactly at threshold is not low", func(t *testing.T) {
		t.Parallel()
		o := baseOffer()
		o.StockAvailable = int64Ptr(100)
		o.StockUsed = 80
		if Evaluate(o, now).IsLowStock {
			t.Fatalf("20%% remaining should not be low stock")
		}
	})

	t.Run("exhausted stock", func(t *testing.T) {
		t.Parallel()
		o := baseOffer()
		o.StockAvailable = int64Ptr(50)
		o.StockUsed = 50
		eval := Evaluate(o, now)
		if !eval.IsOutOfStock || eval.IsLowStock {
			t.Fatalf("expected out of stock, got %+v", eval)
		}
		if eval.StockRemaining == nil || *eval.StockRemaining != 0 {
			t.Fatalf("StockRemaining = %v, want 0", eval.StockRemaining)
		}
	})

	t.Run("overconsumed stock clamps to zero", func(t *testing.T) {
		t.Parallel()
		o := baseOffer()
		o.StockAvailable = int64Ptr(50)
		o.StockUsed = 60
		eval := Evaluate(o, now)
		if eval.StockRemaining == nil || *eval.StockRemaining != 0 || !eval.IsOutOfStock {
			t.Fatalf("expected clamped zero remaining, got %+v", eval)
		}
	})
}

func TestEvaluateExpiringSoon(t *testing.T) {
	t.Parallel()

	o := baseOffer()

	nearEnd := o.ValidUntil.Add(-3 * 24 * time.Hour)
	eval := Evaluate(o, nearEnd)
	if !eval.IsValid || !eval.IsExpiringSoon {
		t.Fatalf("3 days before close: %+v", eval)
	}
	if eval.DaysRemaining != 3 {
		t.Fatalf("DaysRemaining = %d, want 3", eval.DaysRemaining)
	}

	farFromEnd := o.ValidFrom.Add(24 * time.Hour)
	eval = Evaluate(o, farFromEnd)
	if eval.IsExpiringSoon {
		t.Fatalf("early in window flagged expiring soon: %+v", eval)
	}

	// Out-of-window offers report neither days remaining nor expiring soon.
	eval = Evaluate(o, o.ValidUntil.Add(time.Hour))
	if eval.IsExpiringSoon || eval.DaysRemaining != 0 {
		t.Fatalf("closed offer reported countdown: %+v", eval)
	}
}

func TestDaysUntilCeils(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	if got := daysUntil(now.Add(36*time.Hour), now); got != 2 {
		t.Fatalf("daysUntil(+36h) = %d, want 2", got)
	}
	if got := daysUntil(now.Add(48*time.Hour), now); got != 2 {
		t.Fatalf("daysUntil(+48h) = %d, want 2", got)
	}
	if got := daysUntil(now.Add(-time.Hour), now); got != 0 {
		t.Fatalf("daysUntil(past) = %d, want 0", got)
	}
}
