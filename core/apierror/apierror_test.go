package apierror_test

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jobster/jobster/core/apierror"
)

func TestStatusMapping(t *testing.T) {
	testCases := []struct {
		err            *apierror.Error
		expectedStatus int
	}{
		{apierror.NotFound("Job not found."), http.StatusNotFound},
		{apierror.Duplicate("duplicate handle"), http.StatusConflict},
		{apierror.InvalidParameters("Check that your parameters are correct."), http.StatusBadRequest},
		{apierror.InvalidJobID(), http.StatusUnprocessableEntity},
		{apierror.Unauthorized(), http.StatusUnauthorized},
		{apierror.Server(errors.New("pq: broken")), http.StatusInternalServerError},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.expectedStatus, tc.err.Status(), tc.err.Message)
	}
}

func TestFrom(t *testing.T) {
	typed := apierror.NotFound("Company not found.")
	assert.Equal(t, typed, apierror.From(typed))

	// a typed error survives wrapping
	wrapped := fmt.Errorf("listing companies: %w", typed)
	assert.Equal(t, typed, apierror.From(wrapped))
	assert.True(t, apierror.IsKind(wrapped, apierror.KindNotFound))
	assert.False(t, apierror.IsKind(wrapped, apierror.KindDuplicate))

	// anything else collapses to an opaque server error
	e := apierror.From(errors.New("pq: connection refused"))
	assert.Equal(t, apierror.KindServer, e.Kind)
	assert.Equal(t, apierror.MessageServerError, e.Message)
	assert.NotContains(t, e.Message, "pq:")
}

func TestWriteEnvelope(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/companies/none", nil)
	rr := httptest.NewRecorder()
	apierror.Write(rr, r, apierror.NotFound("Company not found."))

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "application/json; charset=utf-8", rr.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"error":{"status":404,"message":"Company not found."}}`, rr.Body.String())
}

func TestWriteHidesServerCause(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/companies", nil)
	rr := httptest.NewRecorder()
	apierror.Write(rr, r, errors.New("pq: relation does not exist"))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.JSONEq(t, `{"error":{"status":500,"message":"Server error occured."}}`, rr.Body.String())
}
