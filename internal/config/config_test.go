package config

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/acutialens/photo-marketplace/internal/storage"
)

func TestResolveStorageBackend(t *testing.T) {
	// No credentials: files go to local disk.
	assert.Equal(t, storage.BackendLocal, resolveStorageBackend(storage.ObjectConfig{}))

	// All four credentials: object storage.
	full := storage.ObjectConfig{
		Endpoint:  "minio:9000",
		Bucket:    "photos",
		AccessKey: "ak",
		SecretKey: "sk",
	}
	assert.Equal(t, storage.BackendObjectStorage, resolveStorageBackend(full))

	// Partial credentials abort startup inside resolveStorageBackend
	// via log.Fatalf; that path is deliberately not exercised here.
}

func TestBoolEnv(t *testing.T) {
	t.Setenv("STORAGE_USE_SSL", "true")
	assert.True(t, boolEnv("STORAGE_USE_SSL"))
	t.Setenv("STORAGE_USE_SSL", "1")
	assert.True(t, boolEnv("STORAGE_USE_SSL"))
	t.Setenv("STORAGE_USE_SSL", "off")
	assert.False(t, boolEnv("STORAGE_USE_SSL"))
	t.Setenv("STORAGE_USE_SSL", "")
	assert.False(t, boolEnv("STORAGE_USE_SSL"))
}

func TestGetenvDefault(t *testing.T) {
	t.Setenv("UPLOAD_DIR", "")
	assert.Equal(t, "uploads", getenvDefault("UPLOAD_DIR", "uploads"))
	t.Setenv("UPLOAD_DIR", "/srv/assets")
	assert.Equal(t, "/srv/assets", getenvDefault("UPLOAD_DIR", "uploads"))
}
