package exporters

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/smazurov/wordclock/internal/metrics"
)

func TestHTTPHandler(t *testing.T) {
	handler := HTTPHandler()
	metrics.RecordRender("english")

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
	body := w.Body.String()
	if !strings.Contains(body, `wordclock_face_renders_total{layout="english"}`) {
		t.Error("expected wordclock render counter in response")
	}
	if !strings.Contains(body, "go_goroutines") {
		t.Error("expected Go runtime metrics in response")
	}
}
