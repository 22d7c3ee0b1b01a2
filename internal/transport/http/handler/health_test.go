package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPing(t *testing.T) {
	h := NewHealthHandler()

	rr := httptest.NewRecorder()
	h.Ping(rr, withChiParams(jsonReq(t, http.MethodGet, "/health-check/ping", nil), "action", "ping"))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"message":"pong"}`, rr.Body.String())

	rr = httptest.NewRecorder()
	h.Ping(rr, withChiParams(jsonReq(t, http.MethodGet, "/health-check/nope", nil), "action", "nope"))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
