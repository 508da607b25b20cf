package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRegister_Idempotent(t *testing.T) {
	reg := prometheus.NewRegistry()
	if err := Register(reg); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if err := Register(reg); err != nil {
		t.Fatalf("second register: %v", err)
	}
}

func TestRegister_SeparateRegistries(t *testing.T) {
	if err := Register(prometheus.NewRegistry()); err != nil {
		t.Fatalf("register a: %v", err)
	}
	if err := Register(prometheus.NewRegistry()); err != nil {
		t.Fatalf("register b: %v", err)
	}
}

func TestBookingStatusUpdates_Labels(t *testing.T) {
	before := testutil.ToFloat64(BookingStatusUpdatesTotal.WithLabelValues("approved"))
	BookingStatusUpdatesTotal.WithLabelValues("approved").Inc()
	after := testutil.ToFloat64(BookingStatusUpdatesTotal.WithLabelValues("approved"))
	if after-before != 1 {
		t.Fatalf("expected counter to grow by 1, got %v", after-before)
	}
}
