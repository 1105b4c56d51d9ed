package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	intconfig "github.com/bassy1992/tailsandtrails-sub000/internal/config"

	"github.com/gin-gonic/gin"
)

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return NewRouter(intconfig.Env{})
}

func TestCompleteRouteWithoutReferenceIsReachable(t *testing.T) {
	r := newTestRouter()

	// body-only completion: no path parameter, empty session, so the
	// service has nothing to fall back on and rejects the request
	req := httptest.NewRequest(http.MethodPost, "/api/payments/complete", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for an unresolvable reference, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "no payment reference") {
		t.Fatalf("expected the validation message, got %s", w.Body.String())
	}
}

func TestUnknownRouteReturnsJSON404(t *testing.T) {
	r := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/nope", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "route not found") {
		t.Fatalf("expected the JSON not-found body, got %s", w.Body.String())
	}
}
