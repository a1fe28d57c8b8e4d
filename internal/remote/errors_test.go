package remote

import (
	"errors"
	"net/http"
	"testing"
)

func TestClassifyValTownErrorMapsStatusCodes(t *testing.T) {
	cases := []struct {
		status int
		want   ErrorType
	}{
		{http.StatusNotFound, ErrorTypeNotFound},
		{http.StatusConflict, ErrorTypeExists},
		{http.StatusUnauthorized, ErrorTypeAuth},
		{http.StatusForbidden, ErrorTypePermission},
		{http.StatusTooManyRequests, ErrorTypeRateLimit},
		{http.StatusInternalServerError, ErrorTypeNetwork},
		{http.StatusTeapot, ErrorTypeUnknown},
	}
	for _, c := range cases {
		got := ClassifyValTownError(c.status, errors.New("boom"))
		if got.Type != c.want {
			t.Errorf("status %d: got %v, want %v", c.status, got.Type, c.want)
		}
	}
}

func TestIsNotFoundAndIsAlreadyExists(t *testing.T) {
	notFound := ClassifyValTownError(http.StatusNotFound, nil)
	exists := ClassifyValTownError(http.StatusConflict, nil)

	if !IsNotFound(notFound) {
		t.Fatalf("expected a 404 to classify as NotFound")
	}
	if IsNotFound(exists) {
		t.Fatalf("did not expect a 409 to classify as NotFound")
	}
	if !IsAlreadyExists(exists) {
		t.Fatalf("expected a 409 to classify as AlreadyExists")
	}
}

func TestIsRetryableForServerErrorsAndRateLimit(t *testing.T) {
	serverErr := ClassifyValTownError(http.StatusInternalServerError, nil)
	rateLimit := ClassifyValTownError(http.StatusTooManyRequests, nil)
	badRequest := ClassifyValTownError(http.StatusBadRequest, nil)

	if !IsRetryable(serverErr) || !IsRetryable(rateLimit) {
		t.Fatalf("expected 5xx and 429 to be retryable")
	}
	if IsRetryable(badRequest) {
		t.Fatalf("did not expect a 400 to be retryable")
	}
}
