package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/lychee-technology/reaper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer() *Server {
	cfg := reaper.DefaultSynthesisConfig()
	cfg.SkeletonDepth = 1
	server := NewServer(cfg)
	server.RegisterRoutes()
	return server
}

func TestHandleSynthIdentity(t *testing.T) {
	server := newTestServer()

	body := synthRequest{
		Input: []relationJSON{
			{Name: "t1", Columns: []string{"a", "b"}, Values: [][]int64{{1, 2}, {3, 4}}},
		},
		Output: relationJSON{Columns: []string{"a", "b"}, Values: [][]int64{{1, 2}, {3, 4}}},
	}
	buf, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/synth", bytes.NewReader(buf))
	rec := httptest.NewRecorder()

	server.mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Body.String())
	assert.NotEqual(t, "Unable to synthesize", rec.Body.String())
}

func TestHandleSynthNoSolution(t *testing.T) {
	server := newTestServer()

	body := synthRequest{
		Input: []relationJSON{
			{Name: "t1", Columns: []string{"a"}, Values: [][]int64{{1}, {2}}},
		},
		Output: relationJSON{Columns: []string{"a"}, Values: [][]int64{{3}}},
	}
	buf, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/synth", bytes.NewReader(buf))
	rec := httptest.NewRecorder()

	server.mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Unable to synthesize", rec.Body.String())
}

func TestHandleSynthRejectsBadMethod(t *testing.T) {
	server := newTestServer()

	req := httptest.NewRequest(http.MethodGet, "/synth", nil)
	rec := httptest.NewRecorder()

	server.mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHandleSynthRejectsInvalidBody(t *testing.T) {
	server := newTestServer()

	req := httptest.NewRequest(http.MethodPost, "/synth", bytes.NewReader([]byte("not json")))
	rec := httptest.NewRecorder()

	server.mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
