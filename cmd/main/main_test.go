package main

import (
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// newTestServer builds a full Server against a temp directory and a fresh
// stats database.
func newTestServer(t *testing.T) *Server {
	t.Helper()
	dir := t.TempDir()

	db, err := initDB(filepath.Join(dir, "stats.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, setupStatsSchema(db))

	cm, err := NewConfigManager(filepath.Join(dir, "config.json"))
	require.NoError(t, err)
	cfg := cm.Get()
	cfg.Server.DataDir = dir
	cfg.Server.SamplesPath = filepath.Join(dir, "samples.yaml")
	require.NoError(t, cm.Update(cfg))

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	server, err := NewServer(cm, logger, db, make(chan string, 1))
	require.NoError(t, err)
	return server
}
