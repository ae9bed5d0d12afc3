package observability_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"booking_relay/internal/adapters/observability"
)

func TestMetricsRegistryAndHandler(t *testing.T) {
	reg := observability.InitRegistry()

	// record one sample so counters are non-zero
	observability.ObserveHTTP("/api/health", "GET", 200, 12*time.Millisecond)
	observability.ObserveExternal("telegram", "sendMessage", 200, 40*time.Millisecond)
	observability.ObserveBooking("delivered")
	observability.ObserveRateLimit("memory", "allow")

	mh := observability.MetricsHandler(reg)
	req := httptest.NewRequest("GET", "/metrics", nil)
	rr := httptest.NewRecorder()
	mh.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("metrics status: %d", rr.Code)
	}
	body, _ := io.ReadAll(rr.Body)
	out := string(body)
	for _, name := range []string{
		"relay_http_requests_total",
		"relay_external_requests_total",
		`relay_bookings_total{outcome="delivered"}`,
		`relay_ratelimit_decisions_total{decision="allow",store="memory"}`,
	} {
		if !strings.Contains(out, name) {
			t.Fatalf("expected %s in output", name)
		}
	}
}

func TestNewLogger_Level(t *testing.T) {
	if got := observability.NewLogger("prod", "debug").GetLevel(); got != zerolog.DebugLevel {
		t.Fatalf("level = %v, want debug", got)
	}
	if got := observability.NewLogger("dev", "nonsense").GetLevel(); got != zerolog.InfoLevel {
		t.Fatalf("level = %v, want info", got)
	}
}

func TestServe_DisabledWithoutAddr(t *testing.T) {
	if srv := observability.Serve("", observability.InitRegistry()); srv != nil {
		t.Fatalf("expected nil server for empty addr")
	}
}
