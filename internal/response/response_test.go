package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/monocle-dev/projectboard/internal/apperr"
	"github.com/monocle-dev/projectboard/internal/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestStatusFor(t *testing.T) {
	tests := map[apperr.Kind]int{
		apperr.KindNotFound:      http.StatusNotFound,
		apperr.KindAlreadyExists: http.StatusBadRequest,
		apperr.KindUnauthorized:  http.StatusUnauthorized,
		apperr.KindForbidden:     http.StatusForbidden,
		apperr.KindBadRequest:    http.StatusBadRequest,
		apperr.KindInternal:      http.StatusInternalServerError,
	}
	for kind, want := range tests {
		if got := StatusFor(kind); got != want {
			t.Errorf("%s: got %d, want %d", kind, got, want)
		}
	}
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) Envelope {
	t.Helper()
	var env Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v (%s)", err, rec.Body.String())
	}
	return env
}

func TestErrorWritesEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(rec)

	Error(ctx, logger.Discard(), apperr.Forbidden("You are not authorized to update this task"))

	if rec.Code != http.StatusForbidden {
		t.Fatalf("unexpected status %d", rec.Code)
	}
	env := decode(t, rec)
	if env.Success || env.Message != "You are not authorized to update this task" {
		t.Fatalf("unexpected envelope %+v", env)
	}
}

func TestErrorHidesInternalDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(rec)

	Error(ctx, logger.Discard(), errors.New("dial tcp 10.0.0.1:5432: connection refused"))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("unexpected status %d", rec.Code)
	}
	if env := decode(t, rec); env.Message != "Internal server error" {
		t.Fatalf("internal detail leaked: %q", env.Message)
	}
}

func TestOKOmitsEmptyData(t *testing.T) {
	rec := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(rec)

	OK(ctx, http.StatusOK, "Project deleted successfully", nil)

	var raw map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &raw); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if _, ok := raw["data"]; ok {
		t.Fatalf("expected data to be omitted: %s", rec.Body.String())
	}
	if raw["success"] != true {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}
}
