package main

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kbukum/livescore/bootstrap"
	"github.com/kbukum/livescore/config"
	"github.com/kbukum/livescore/logger"
	"github.com/kbukum/livescore/score"
)

func freePort(t *testing.T) int {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()
	return ln.Addr().(*net.TCPAddr).Port
}

func TestBundledConfigLoads(t *testing.T) {
	var cfg AppConfig
	require.NoError(t, config.LoadConfig(serviceName, &cfg,
		config.WithConfigFile("config.yml"),
		config.WithEnvPrefix("LIVESCORE_TEST_NONE"),
	))
	cfg.ApplyDefaults()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "127.0.0.1:3001", cfg.Server.Addr())
	assert.Equal(t, "/events", cfg.SSE.Path)
	assert.Equal(t, 16, cfg.SSE.BufferSize)
	assert.Equal(t, 500*time.Millisecond, cfg.Score.TickInterval)
	assert.InDelta(t, 0.3, cfg.Score.ScoreProbability, 1e-9)
	assert.True(t, cfg.Server.CORS.AllowCredentials)
}

func TestEmptyConfigGetsDefaults(t *testing.T) {
	var cfg AppConfig
	cfg.ApplyDefaults()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, serviceName, cfg.Name)
	assert.Equal(t, "127.0.0.1:3001", cfg.Server.Addr())
}

func TestValidateNamesSection(t *testing.T) {
	var cfg AppConfig
	cfg.ApplyDefaults()
	cfg.SSE.DropPolicy = "drop_everything"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config.sse")
}

func TestServiceStreamsScores(t *testing.T) {
	cfg := &AppConfig{}
	cfg.Server.Port = freePort(t)
	cfg.Score.TickInterval = 10 * time.Millisecond
	cfg.Score.ScoreProbability = 1

	svc, err := newService(cfg, bootstrap.WithLogger(logger.Nop()), bootstrap.WithSummaryOutput(io.Discard))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.App.Run(ctx) }()

	base := "http://" + cfg.Server.Addr()
	require.Eventually(t, func() bool {
		resp, err := http.Get(base + "/health")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)

	reqCtx, reqCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer reqCancel()
	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, base+"/events", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	r := bufio.NewReader(resp.Body)
	var last score.Snapshot
	for received := 0; received < 3; {
		line, err := r.ReadString('\n')
		require.NoError(t, err)
		payload, ok := strings.CutPrefix(strings.TrimSuffix(line, "\n"), "data: ")
		if !ok {
			continue
		}
		var snap score.Snapshot
		require.NoError(t, json.Unmarshal([]byte(payload), &snap))
		if received > 0 {
			assert.Greater(t, snap.Score.Team1, last.Score.Team1)
		}
		last = snap
		received++
	}
	assert.Equal(t, last.Score.Team1, last.Score.Team2)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("Run did not return after cancel")
	}

	// Drains to EOF only if shutdown ended the stream.
	_, _ = io.Copy(io.Discard, r)
	assert.Equal(t, 0, svc.Hub.Len())
}

func TestServiceFailsWhenPortTaken(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	cfg := &AppConfig{}
	cfg.Server.Port = ln.Addr().(*net.TCPAddr).Port

	svc, err := newService(cfg, bootstrap.WithLogger(logger.Nop()), bootstrap.WithSummaryOutput(io.Discard))
	require.NoError(t, err)

	err = svc.App.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BIND_FAILED")
}
