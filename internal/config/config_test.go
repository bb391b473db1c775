package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(New(), "")
	require.NoError(t, err)

	assert.Equal(t, 1280, cfg.Width)
	assert.Equal(t, 720, cfg.Height)
	assert.Equal(t, 30, cfg.FPS)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 10*time.Second, cfg.Server.RateEvery)
	assert.Equal(t, 3, cfg.Server.RateBurst)
}

func TestLoadFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scrollfx.yaml")
	data := []byte("fps: 24\nwidth: 1920\nheight: 1080\nmail:\n  domain: mg.buildworks.ph\nserver:\n  rate_every: 30s\n")
	require.NoError(t, os.WriteFile(path, data, 0644))

	t.Setenv("SCROLLFX_FPS", "60")
	t.Setenv("SCROLLFX_MAIL_TO", "sales@buildworks.ph")

	cfg, err := Load(New(), path)
	require.NoError(t, err)

	assert.Equal(t, 60, cfg.FPS, "env overrides file")
	assert.Equal(t, 1920, cfg.Width)
	assert.Equal(t, "mg.buildworks.ph", cfg.Mail.Domain)
	assert.Equal(t, "sales@buildworks.ph", cfg.Mail.To)
	assert.Equal(t, 30*time.Second, cfg.Server.RateEvery)
}

func TestLoadRejectsBadValues(t *testing.T) {
	v := New()
	v.Set("width", 1281)
	_, err := Load(v, "")
	assert.Error(t, err)

	_, err = Load(New(), filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestParams(t *testing.T) {
	cfg := &Config{Width: 1280, Height: 720, FPS: 30, VideoEncoder: "libx264", Quality: 23}
	p := cfg.Params(2, 45)

	assert.Equal(t, 2, p.SegmentIndex)
	assert.InDelta(t, 1.5, p.Duration, 1e-12)
	assert.Equal(t, "libx264", p.Encoder)
}
