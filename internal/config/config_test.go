package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaults(t *testing.T) {
	for _, k := range []string{"OUTPUT_DIR", "WORKER_COUNT", "EXCEL_AUTOMATION", "EXCEL_RETRY_DELAY", "DATABASE_URL", "DEFAULT_DIRECTION"} {
		t.Setenv(k, "")
	}

	cfg := FromEnv()
	assert.Equal(t, "outputs", cfg.OutputDir)
	assert.Equal(t, 1, cfg.WorkerCount)
	assert.True(t, cfg.ExcelAutomation)
	assert.Equal(t, 2*time.Second, cfg.ExcelRetryDelay)
	assert.Empty(t, cfg.DatabaseURL)
	assert.Equal(t, "auto->ja", cfg.DefaultDirection)
	assert.Equal(t, 32, cfg.MaxShapeDepth)
}

func TestOverrides(t *testing.T) {
	t.Setenv("OUTPUT_DIR", "/tmp/out")
	t.Setenv("WORKER_COUNT", "4")
	t.Setenv("EXCEL_AUTOMATION", "false")
	t.Setenv("EXCEL_RETRY_DELAY", "500ms")
	t.Setenv("PROVIDER_TIMEOUT", "1m")

	cfg := FromEnv()
	assert.Equal(t, "/tmp/out", cfg.OutputDir)
	assert.Equal(t, 4, cfg.WorkerCount)
	assert.False(t, cfg.ExcelAutomation)
	assert.Equal(t, 500*time.Millisecond, cfg.ExcelRetryDelay)
	assert.Equal(t, time.Minute, cfg.ProviderTimeout)
}

func TestInvalidValuesFallBack(t *testing.T) {
	t.Setenv("WORKER_COUNT", "many")
	t.Setenv("EXCEL_AUTOMATION", "maybe")
	t.Setenv("EXCEL_RETRY_DELAY", "soon")

	cfg := FromEnv()
	assert.Equal(t, 1, cfg.WorkerCount)
	assert.True(t, cfg.ExcelAutomation)
	assert.Equal(t, 2*time.Second, cfg.ExcelRetryDelay)
}
