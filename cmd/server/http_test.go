package main

import (
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/roster/internal/config"
	"github.com/JaimeStill/roster/pkg/lifecycle"
)

func TestHTTPServerLifecycle(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := &config.ServerConfig{Host: "127.0.0.1", Port: 0, ShutdownTimeout: "5s"}

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	lc := lifecycle.New()
	srv := newHTTPServer(cfg, handler, logger)
	require.NoError(t, srv.Start(lc))

	resp, err := http.Get("http://" + srv.addr)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusTeapot, resp.StatusCode)

	conflict := newHTTPServer(&config.ServerConfig{Host: "127.0.0.1"}, handler, logger)
	conflict.http.Addr = srv.addr
	assert.Error(t, conflict.Start(lifecycle.New()), "second bind on the same address should fail")

	require.NoError(t, lc.Shutdown(5*time.Second))

	_, err = http.Get("http://" + srv.addr)
	assert.Error(t, err, "server should refuse connections after shutdown")
}
