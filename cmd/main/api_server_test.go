package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionEndpoint(t *testing.T) {
	server := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/server/version", nil)
	rec := httptest.NewRecorder()
	server.mux.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var info VersionInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &info))
	assert.Equal(t, Version, info.Version)
}

func TestConfigEndpointOpenWithoutToken(t *testing.T) {
	server := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/server/config", nil)
	rec := httptest.NewRecorder()
	server.mux.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestConfigEndpointRequiresConfiguredToken(t *testing.T) {
	server := newTestServer(t)

	cfg := server.cm.Get()
	cfg.Server.AdminToken = "s3cret"
	require.NoError(t, server.cm.Update(cfg))

	req := httptest.NewRequest(http.MethodGet, "/api/server/config", nil)
	rec := httptest.NewRecorder()
	server.mux.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/server/config", nil)
	req.Header.Set("X-Admin-Token", "wrong")
	rec = httptest.NewRecorder()
	server.mux.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/server/config", nil)
	req.Header.Set("X-Admin-Token", "s3cret")
	rec = httptest.NewRecorder()
	server.mux.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestConfigUpdateViaAPI(t *testing.T) {
	server := newTestServer(t)

	cfg := server.cm.Get()
	cfg.Server.MaxCompletionWords = 25
	body, err := json.Marshal(cfg)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPut, "/api/server/config", strings.NewReader(string(body)))
	rec := httptest.NewRecorder()
	server.mux.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, 25, server.cm.Get().Server.MaxCompletionWords)
}

func TestShutdownEndpointSendsAction(t *testing.T) {
	t.Parallel()
	actionChan := make(chan string, 1)

	server := newTestServer(t)
	server.serverAPI.actionChan = actionChan

	req := httptest.NewRequest(http.MethodPost, "/api/server/shutdown", nil)
	rec := httptest.NewRecorder()
	server.mux.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusAccepted, rec.Code)

	assert.Equal(t, actionShutdown, <-actionChan)
}

func TestRestartEndpointSendsAction(t *testing.T) {
	t.Parallel()
	actionChan := make(chan string, 1)

	server := newTestServer(t)
	server.serverAPI.actionChan = actionChan

	req := httptest.NewRequest(http.MethodPost, "/api/server/restart", nil)
	rec := httptest.NewRecorder()
	server.mux.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusAccepted, rec.Code)

	assert.Equal(t, actionRestart, <-actionChan)
}
