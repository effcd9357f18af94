package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "db", cfg.Store.Provider)
	assert.Equal(t, "local", cfg.Storage.Provider)
	assert.Equal(t, 10, cfg.Gallery.MaxImages)
	assert.Equal(t, int64(700*1024), cfg.Gallery.MaxFileSize)
	assert.Equal(t, time.Second, cfg.Gallery.ProgressReset)
	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Addr())
}

func TestLoad_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
server:
  port: 9090
gallery:
  max_images: 8
store:
  provider: remote
  base_url: http://docs.internal
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	t.Setenv("CATALOG_GALLERY_MAX_FILE_SIZE", "1024")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 8, cfg.Gallery.MaxImages)
	assert.Equal(t, int64(1024), cfg.Gallery.MaxFileSize)
	assert.Equal(t, "http://docs.internal", cfg.Store.BaseURL)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := &Config{
		Store:   StoreConfig{Provider: "remote"},
		Gallery: GalleryConfig{MaxImages: 10, MaxFileSize: 1},
	}
	assert.Error(t, cfg.Validate(), "remote 缺少 base_url 应报错")

	cfg.Store.BaseURL = "http://x"
	assert.NoError(t, cfg.Validate())

	cfg.Gallery.MaxImages = 0
	assert.Error(t, cfg.Validate())
}
