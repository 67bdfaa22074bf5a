package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 24*time.Hour, cfg.JWTTTL)
	assert.Equal(t, int64(2<<20), cfg.MaxUploadSize)
	assert.Equal(t, StorageLocal, cfg.StorageDriver)
	assert.Equal(t, 24*time.Hour, cfg.OrphanGrace)
}

func TestLoadRequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsBadDuration(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("JWT_TTL", "one day")

	_, err := Load()
	assert.ErrorContains(t, err, "JWT_TTL")
}

func TestLoadRejectsUnknownStorage(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("STORAGE_DRIVER", "ftp")

	_, err := Load()
	assert.ErrorContains(t, err, "STORAGE_DRIVER")
}
