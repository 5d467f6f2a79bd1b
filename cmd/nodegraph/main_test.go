package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dukex/nodegraph/pkg/graph"
	"github.com/dukex/nodegraph/pkg/persistence/file"
	"github.com/dukex/nodegraph/pkg/registry"
	"github.com/dukex/nodegraph/pkg/web"
	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const waveGraph = "../../examples/graphs/wave.yaml"

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var stdout bytes.Buffer

	app := newApp()
	app.Writer = &stdout
	app.ErrWriter = io.Discard

	err := app.Run(context.Background(), append([]string{"nodegraph", "--log-level", "error"}, args...))

	return stdout.String(), err
}

func TestRunCommand(t *testing.T) {
	out, err := runCLI(t, "run", "--debug", waveGraph)
	require.NoError(t, err)

	var result web.ExecuteGraphResponse
	require.NoError(t, json.Unmarshal([]byte(out), &result))

	assert.Equal(t, "wave_1", result.StartNodeID)
	assert.Equal(t, []string{"wave_1", "spawn_1", "log_spawn", "big_wave", "announce"}, result.Executed)
	assert.Len(t, result.Log, 5)
	assert.False(t, result.Partial)
}

func TestRunCommand_StartNode(t *testing.T) {
	out, err := runCLI(t, "run", "--start", "big_wave", waveGraph)
	require.NoError(t, err)

	var result web.ExecuteGraphResponse
	require.NoError(t, json.Unmarshal([]byte(out), &result))

	// An empty object fails the condition, so the path ends at big_wave.
	assert.Equal(t, []string{"big_wave"}, result.Executed)
	assert.Empty(t, result.Log)
}

func TestRunCommand_Cycle(t *testing.T) {
	out, err := runCLI(t, "run", "../../examples/graphs/cycle.json")
	require.NoError(t, err)

	var result web.ExecuteGraphResponse
	require.NoError(t, json.Unmarshal([]byte(out), &result))

	assert.Equal(t, []string{"a", "b"}, result.Executed)
	assert.True(t, result.Partial)
	require.Len(t, result.Diagnostics, 1)
	assert.Equal(t, "a", result.Diagnostics[0].NodeID)
}

func TestRunCommand_Errors(t *testing.T) {
	_, err := runCLI(t, "run")
	require.Error(t, err)

	_, err = runCLI(t, "run", "missing.yaml")
	require.Error(t, err)

	_, err = runCLI(t, "run", "--start", "nope", waveGraph)
	require.Error(t, err)

	_, err = runCLI(t, "run", "--propagation", "sideways", waveGraph)
	require.Error(t, err)

	_, err = runCLI(t, "run", "--event-bus", "carrier-pigeon", waveGraph)
	require.Error(t, err)
}

func TestRunCommand_GoChannelEventBus(t *testing.T) {
	out, err := runCLI(t, "run", "--event-bus", "gochannel", waveGraph)
	require.NoError(t, err)
	assert.Contains(t, out, "run_id")
}

func TestValidateCommand(t *testing.T) {
	out, err := runCLI(t, "validate", "--strict", waveGraph)
	require.NoError(t, err)

	var report graph.LoadReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.True(t, report.Clean())

	path := filepath.Join(t.TempDir(), "unknown.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"nodes":[{"id":"x","type":"dragon"}]}`), 0o600))

	out, err = runCLI(t, "validate", path)
	require.NoError(t, err)
	assert.Contains(t, out, "dragon")

	_, err = runCLI(t, "validate", "--strict", path)
	require.ErrorIs(t, err, errGraphNotClean)

	broken := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(broken, []byte("nodes: [unclosed"), 0o600))

	_, err = runCLI(t, "validate", broken)
	require.ErrorIs(t, err, graph.ErrInvalidDocument)
}

func TestTypesCommand(t *testing.T) {
	out, err := runCLI(t, "types")
	require.NoError(t, err)

	assert.Contains(t, out, "TYPE")

	for _, typeName := range []string{"conditional", "enemy_spawn", "log", "wave_start"} {
		assert.Contains(t, out, typeName)
	}
}

func TestRunScheduled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	var runs atomic.Int32

	done := make(chan error, 1)

	go func() {
		done <- runScheduled(ctx, discardLogger(), "@every 1s", func(context.Context) {
			runs.Add(1)
		})
	}()

	require.Eventually(t, func() bool { return runs.Load() > 0 }, 5*time.Second, 50*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
}

func TestRunScheduled_InvalidSpec(t *testing.T) {
	err := runScheduled(t.Context(), discardLogger(), "every tuesday", func(context.Context) {})
	require.Error(t, err)
}

func setupTestAPI(t *testing.T) *fiber.App {
	t.Helper()

	p, err := file.NewPersistence(t.Context(), discardLogger(), t.TempDir())
	require.NoError(t, err)

	reg := registry.NewRegistry(discardLogger())
	reg.RegisterDefaultNodes()

	return NewAPI(discardLogger(), p, reg).App()
}

func TestAPI_RootEndpoint(t *testing.T) {
	app := setupTestAPI(t)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)

	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Nodegraph API", string(body))
}

func TestAPI_Probes(t *testing.T) {
	app := setupTestAPI(t)

	for _, path := range []string{"/livez", "/readyz"} {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil))
		require.NoError(t, err)

		_ = resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
