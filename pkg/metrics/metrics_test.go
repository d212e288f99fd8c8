package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCounters(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.AssignmentTransition("claim", "success")
	m.AssignmentTransition("claim", "success")
	m.AssignmentTransition("claim", "already_claimed")
	m.AuditWrite("task_removed", "success")

	if v := testutil.ToFloat64(m.assignmentTransitions.WithLabelValues("claim", "success")); v != 2 {
		t.Errorf("esperado 2 claims com sucesso, obtido %v", v)
	}
	if v := testutil.ToFloat64(m.assignmentTransitions.WithLabelValues("claim", "already_claimed")); v != 1 {
		t.Errorf("esperado 1 claim conflitante, obtido %v", v)
	}
	if v := testutil.ToFloat64(m.auditWrites.WithLabelValues("task_removed", "success")); v != 1 {
		t.Errorf("esperado 1 escrita de auditoria, obtido %v", v)
	}
}

func TestHandler_ExposesMetrics(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := New(prometheus.NewRegistry())
	m.ObserveRequest("GET", "/health", 200, 5*time.Millisecond)
	m.AuditWrite("visitor_submitted", "failure")

	r := gin.New()
	r.GET("/metrics", m.Handler())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("esperado 200, obtido %d", w.Code)
	}
	body := w.Body.String()
	for _, name := range []string{"viva_http_request_duration_seconds", "viva_audit_writes_total"} {
		if !strings.Contains(body, name) {
			t.Errorf("métrica %s ausente", name)
		}
	}
}
