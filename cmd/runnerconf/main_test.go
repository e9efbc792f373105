package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/hairizuan-noorazman/runnerconf/runner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks CI, BASE_URL and every RUNNERCONF_ setting inherited from
// the shell so storage and log settings cannot leak into a test.
func clearEnv(t *testing.T) {
	t.Helper()
	t.Setenv(runner.EnvCI, "")
	t.Setenv(runner.EnvBaseURL, "")
	for _, kv := range os.Environ() {
		if name, _, ok := strings.Cut(kv, "="); ok && strings.HasPrefix(name, runner.EnvPrefix+"_") {
			t.Setenv(name, "")
		}
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--no-color"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "runnerconf.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestShow_JSON(t *testing.T) {
	clearEnv(t)
	t.Setenv(runner.EnvBaseURL, "https://example.com")

	out, err := execute(t, "show", "--format", "json")
	require.NoError(t, err)

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, "https://example.com", doc["use"].(map[string]interface{})["baseURL"])
}

func TestShow_Table(t *testing.T) {
	clearEnv(t)

	out, err := execute(t, "show", "--headed")
	require.NoError(t, err)
	assert.Contains(t, out, "SETTING")
	assert.Contains(t, out, "600x800")
	assert.Contains(t, out, "chromium (Desktop Chrome)")
	assert.Regexp(t, `headless\s+no`, out)
}

func TestShow_GetUnderCI(t *testing.T) {
	clearEnv(t)
	t.Setenv(runner.EnvCI, "true")

	out, err := execute(t, "show", "--get", "retries")
	require.NoError(t, err)
	assert.Equal(t, "2", strings.TrimSpace(out))

	out, err = execute(t, "show", "--get", "forbidOnly")
	require.NoError(t, err)
	assert.Equal(t, "true", strings.TrimSpace(out))
}

func TestValidate(t *testing.T) {
	clearEnv(t)

	out, err := execute(t, "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ configuration loaded")
	assert.Contains(t, out, "✓ rendered document matches schema")
	assert.Contains(t, out, "project chromium: chromium 1280x720")
}

func TestValidate_InvalidConfig(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "use:\n  trace: sometimes\n")

	out, err := execute(t, "validate", "--config", path)
	assert.ErrorIs(t, err, runner.ErrInvalidTraceMode)
	assert.Contains(t, out, "✗")
}

func TestValidate_MalformedBaseURL(t *testing.T) {
	clearEnv(t)
	t.Setenv(runner.EnvBaseURL, "localhost:3000")

	out, err := execute(t, "show", "--get", "use.baseURL")
	require.NoError(t, err)
	assert.Equal(t, "localhost:3000", strings.TrimSpace(out))

	out, err = execute(t, "validate")
	assert.ErrorIs(t, err, runner.ErrInvalidBaseURL)
	assert.Contains(t, out, "✓ configuration loaded")
	assert.Contains(t, out, "✗")
}

func TestExport(t *testing.T) {
	clearEnv(t)
	outPath := filepath.Join(t.TempDir(), "out", "runner.config.json")

	out, err := execute(t, "export", "--out", outPath)
	require.NoError(t, err)
	assert.Contains(t, out, "wrote "+outPath)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.NoError(t, runner.ValidateDocument(data))
}

func TestExport_WatchRequiresConfigFile(t *testing.T) {
	clearEnv(t)
	outPath := filepath.Join(t.TempDir(), "runner.config.json")

	_, err := execute(t, "export", "--out", outPath, "--watch")
	assert.ErrorContains(t, err, "--watch requires a config file")
}

func TestDevices_JSON(t *testing.T) {
	out, err := execute(t, "devices", "--json")
	require.NoError(t, err)

	var devices []deviceResponse
	require.NoError(t, json.Unmarshal([]byte(out), &devices))
	require.Len(t, devices, 4)
	assert.Equal(t, runner.DeviceDesktopChrome, devices[0].Name)
}

func TestArtifacts(t *testing.T) {
	clearEnv(t)

	out, err := execute(t, "artifacts", "--retry", "1", "--json")
	require.NoError(t, err)

	var plan planResponse
	require.NoError(t, json.Unmarshal([]byte(out), &plan))
	assert.True(t, plan.RecordTrace)
	assert.True(t, plan.KeepTrace)
	assert.False(t, plan.KeepScreenshot)
	assert.False(t, plan.KeepVideo)

	_, err = execute(t, "artifacts", "--retry", "-1")
	assert.Error(t, err)
}

func TestPublish_LocalStorage(t *testing.T) {
	clearEnv(t)
	work := t.TempDir()
	results := filepath.Join(work, "test-results")
	require.NoError(t, os.MkdirAll(filepath.Join(results, "login-chromium"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(results, "login-chromium", "test-failed-1.png"), []byte("png"), 0644))

	storeDir := filepath.Join(work, "artifacts")
	t.Setenv("RUNNERCONF_STORAGE_TYPE", "local")
	t.Setenv("RUNNERCONF_STORAGE_BASE_DIR", storeDir)

	runID := "3f2c1a4e-8f8e-4b7a-9d5e-0c1b2a3d4e5f"
	out, err := execute(t, "publish",
		"--results", results,
		"--report", filepath.Join(work, "playwright-report"),
		"--run-id", runID,
	)
	require.NoError(t, err)
	assert.Contains(t, out, "1 artifacts")

	_, err = os.Stat(filepath.Join(storeDir, runID, "screenshots", "login-chromium", "test-failed-1.png"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(storeDir, runID, "manifest.json"))
	assert.NoError(t, err)

	_, err = execute(t, "publish", "--run-id", "not-a-uuid")
	assert.Error(t, err)
}

func TestPublish_Replace(t *testing.T) {
	clearEnv(t)
	work := t.TempDir()
	results := filepath.Join(work, "test-results")
	stale := filepath.Join(results, "login-chromium", "test-failed-1.png")
	require.NoError(t, os.MkdirAll(filepath.Dir(stale), 0755))
	require.NoError(t, os.WriteFile(stale, []byte("png"), 0644))

	storeDir := filepath.Join(work, "artifacts")
	t.Setenv("RUNNERCONF_STORAGE_TYPE", "local")
	t.Setenv("RUNNERCONF_STORAGE_BASE_DIR", storeDir)

	runID := "3f2c1a4e-8f8e-4b7a-9d5e-0c1b2a3d4e5f"
	report := filepath.Join(work, "playwright-report")

	// First publish under a fresh id with --replace has nothing to remove.
	_, err := execute(t, "publish", "--results", results, "--report", report, "--run-id", runID, "--replace")
	require.NoError(t, err)

	require.NoError(t, os.Remove(stale))
	fresh := filepath.Join(results, "login-chromium", "video.webm")
	require.NoError(t, os.WriteFile(fresh, []byte("webm"), 0644))

	out, err := execute(t, "publish", "--results", results, "--report", report, "--run-id", runID, "--replace")
	require.NoError(t, err)
	assert.Contains(t, out, "1 artifacts")

	_, err = os.Stat(filepath.Join(storeDir, runID, "screenshots", "login-chromium", "test-failed-1.png"))
	assert.ErrorIs(t, err, os.ErrNotExist)
	_, err = os.Stat(filepath.Join(storeDir, runID, "videos", "login-chromium", "video.webm"))
	assert.NoError(t, err)

	_, err = execute(t, "publish", "--results", results, "--replace")
	assert.ErrorContains(t, err, "--replace requires --run-id")
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "runnerconf dev")
}

func TestWatchConfig(t *testing.T) {
	path := writeConfig(t, "test_dir: ./tests\n")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var calls atomic.Int32
	done := make(chan error, 1)
	go func() {
		done <- watchConfig(ctx, path, func() { calls.Add(1) })
	}()

	deadline := time.Now().Add(5 * time.Second)
	for calls.Load() == 0 && time.Now().Before(deadline) {
		require.NoError(t, os.WriteFile(path, []byte("test_dir: ./e2e\n"), 0644))
		time.Sleep(2 * watchDebounce)
	}
	assert.Positive(t, calls.Load())

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop after cancel")
	}
}
