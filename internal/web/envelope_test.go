package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"coffee-order-system/internal/apperr"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  *apperr.Error
		want int
	}{
		{"invalid argument", apperr.Invalid(apperr.CodeInvalidItems, "bad", nil), http.StatusBadRequest},
		{"not found", apperr.NotFound(apperr.CodeOrderNotFound, "missing", nil), http.StatusNotFound},
		{"store failure", apperr.Store(apperr.CodeOrdersFetchError, "boom", errors.New("db down")), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StatusFor(tt.err); got != tt.want {
				t.Errorf("StatusFor() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestFail_WritesEnvelope(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/orders/7", nil)

	Fail(c, apperr.NotFound(apperr.CodeOrderNotFound, "order not found",
		map[string]interface{}{"order_id": 7}))

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}

	var resp Response
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if resp.Success {
		t.Error("expected success to be false")
	}
	if resp.Error == nil || resp.Error.Code != apperr.CodeOrderNotFound {
		t.Errorf("unexpected error body: %+v", resp.Error)
	}
}

func TestFail_MasksUnclassifiedErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	Fail(c, errors.New("pq: connection refused"))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}

	var resp Response
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if resp.Error == nil || resp.Error.Code != apperr.CodeInternalError {
		t.Errorf("unexpected error body: %+v", resp.Error)
	}
	if resp.Error.Message == "pq: connection refused" {
		t.Error("raw error message must not leak to clients")
	}
}
