package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"LISTEN_ADDR", "HF_TOKEN", "HF_MODEL", "HF_TIMEOUT", "AUTHENTICITY_THRESHOLD", "AUTH_JWT_SECRET", "AUTH_JWT_AUDIENCE"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Empty(t, cfg.InferenceToken)
	assert.Equal(t, "robinhad/image-real-or-ai", cfg.InferenceModel)
	assert.Equal(t, 12*time.Second, cfg.InferenceTimeout)
	assert.InDelta(t, 0.6, cfg.Threshold, 1e-9)
	assert.Empty(t, cfg.JWTSecret)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("LISTEN_ADDR", ":9090")
	t.Setenv("HF_TOKEN", "hf_secret")
	t.Setenv("HF_MODEL", "org/custom-detector")
	t.Setenv("HF_TIMEOUT", "30")
	t.Setenv("AUTHENTICITY_THRESHOLD", "0.75")

	cfg := Load()

	assert.Equal(t, ":9090", cfg.ListenAddr)
	assert.Equal(t, "hf_secret", cfg.InferenceToken)
	assert.Equal(t, "org/custom-detector", cfg.InferenceModel)
	assert.Equal(t, 30*time.Second, cfg.InferenceTimeout)
	assert.InDelta(t, 0.75, cfg.Threshold, 1e-9)
}

func TestLoadIgnoresUnparseableNumbers(t *testing.T) {
	t.Setenv("HF_TIMEOUT", "soon")
	t.Setenv("AUTHENTICITY_THRESHOLD", "high")

	cfg := Load()

	assert.Equal(t, 12*time.Second, cfg.InferenceTimeout)
	assert.InDelta(t, 0.6, cfg.Threshold, 1e-9)
}
