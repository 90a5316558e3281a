package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	m := New()
	if m == nil {
		t.Fatal("New() returned nil")
	}
	if m.RemindersFired == nil || m.SOSDispatched == nil || m.AIRequests == nil {
		t.Error("expected all collectors to be registered")
	}
}

func TestHandler_ExposesCounters(t *testing.T) {
	m := New()
	m.RemindersFired.Inc()
	m.SOSDispatched.Inc()
	m.AIRequests.WithLabelValues("chat", "ok").Inc()
	m.HTTPRequests.WithLabelValues("GET", "2xx").Inc()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body := rec.Body.String()
	for _, want := range []string{
		"vitalpulse_reminders_fired_total 1",
		"vitalpulse_sos_dispatched_total 1",
		`vitalpulse_ai_requests_total{op="chat",status="ok"} 1`,
		`vitalpulse_http_requests_total{method="GET",status="2xx"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("scrape output missing %q", want)
		}
	}
}

func TestIsolatedRegistries(t *testing.T) {
	a := New()
	b := New()

	a.RemindersFired.Inc()

	rec := httptest.NewRecorder()
	b.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	if strings.Contains(rec.Body.String(), "vitalpulse_reminders_fired_total 1") {
		t.Error("instances should not share a registry")
	}
}
