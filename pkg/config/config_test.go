package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestLogger(t *testing.T) context.Context {
	logger := zerolog.New(zerolog.TestWriter{T: t}).With().Timestamp().Logger()
	return logger.WithContext(context.Background())
}

func TestEffectivePaths(t *testing.T) {
	t.Run("plain_run_keeps_roles", func(t *testing.T) {
		cfg := &Config{SourcePath: "/data/src", DestinationPath: "/data/dst"}
		paths := cfg.EffectivePaths()
		assert.Equal(t, "/data/src", paths.Source)
		assert.Equal(t, "/data/dst", paths.Destination)
	})

	t.Run("invert_swaps_roles_for_the_run", func(t *testing.T) {
		cfg := &Config{SourcePath: "/data/src", DestinationPath: "/data/dst", Invert: true}
		paths := cfg.EffectivePaths()
		assert.Equal(t, "/data/dst", paths.Source)
		assert.Equal(t, "/data/src", paths.Destination)
	})
}

func TestValidate(t *testing.T) {
	t.Run("missing_source_is_rejected", func(t *testing.T) {
		cfg := &Config{DestinationPath: "/data/dst"}
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "source is required")
	})

	t.Run("missing_destination_is_rejected", func(t *testing.T) {
		cfg := &Config{SourcePath: "/data/src"}
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "destination is required")
	})

	t.Run("nonexistent_source_is_rejected", func(t *testing.T) {
		dir := t.TempDir()
		cfg := &Config{
			SourcePath:      filepath.Join(dir, "does-not-exist"),
			DestinationPath: dir,
		}
		assert.Error(t, cfg.Validate())
	})

	t.Run("file_source_is_rejected", func(t *testing.T) {
		dir := t.TempDir()
		file := filepath.Join(dir, "file.txt")
		require.NoError(t, os.WriteFile(file, []byte("x"), 0644))

		cfg := &Config{SourcePath: file, DestinationPath: dir}
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not a directory")
	})

	t.Run("valid_directory_source_passes", func(t *testing.T) {
		src := t.TempDir()
		cfg := &Config{SourcePath: src, DestinationPath: filepath.Join(src, "..", "dst")}
		assert.NoError(t, cfg.Validate())
	})

	t.Run("invert_validates_the_effective_source", func(t *testing.T) {
		src := t.TempDir()
		// Configured source doesn't exist, but inverted it is the
		// destination, which does.
		cfg := &Config{
			SourcePath:      filepath.Join(src, "missing"),
			DestinationPath: src,
			Invert:          true,
		}
		assert.NoError(t, cfg.Validate())
	})

	t.Run("invalid_exclude_glob_is_rejected", func(t *testing.T) {
		src := t.TempDir()
		cfg := &Config{
			SourcePath:      src,
			DestinationPath: src + "-dst",
			Excludes:        []string{"[unclosed"},
		}
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid exclude pattern")
	})
}

func TestLoad(t *testing.T) {
	ctx := setupTestLogger(t)

	writeConfig := func(t *testing.T, name, content string) string {
		t.Helper()
		dir := t.TempDir()
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
		return path
	}

	t.Run("loads_yaml", func(t *testing.T) {
		path := writeConfig(t, ".syncrc.yaml", `
source: /data/src
destination: /data/dst
move: true
excludes:
  - "*.tmp"
`)
		cfg, err := Load(ctx, path)
		require.NoError(t, err)
		assert.Equal(t, "/data/src", cfg.SourcePath)
		assert.Equal(t, "/data/dst", cfg.DestinationPath)
		assert.True(t, cfg.Move)
		assert.Equal(t, []string{"*.tmp"}, cfg.Excludes)
	})

	t.Run("loads_json", func(t *testing.T) {
		path := writeConfig(t, ".syncrc.json", `{"source":"/s","destination":"/d","compress":true}`)
		cfg, err := Load(ctx, path)
		require.NoError(t, err)
		assert.Equal(t, "/s", cfg.SourcePath)
		assert.True(t, cfg.Compress)
	})

	t.Run("loads_hcl", func(t *testing.T) {
		path := writeConfig(t, ".syncrc.hcl", `
source      = "/data/src"
destination = "/data/dst"
invert      = true
`)
		cfg, err := Load(ctx, path)
		require.NoError(t, err)
		assert.Equal(t, "/data/src", cfg.SourcePath)
		assert.True(t, cfg.Invert)
	})

	t.Run("syncrc_extension_tries_yaml_then_hcl", func(t *testing.T) {
		path := writeConfig(t, ".syncrc", `
source      = "/data/src"
destination = "/data/dst"
`)
		cfg, err := Load(ctx, path)
		require.NoError(t, err)
		assert.Equal(t, "/data/src", cfg.SourcePath)
	})

	t.Run("unknown_yaml_fields_are_rejected", func(t *testing.T) {
		path := writeConfig(t, "bad.yaml", `
source: /s
destination: /d
no_such_option: true
`)
		_, err := Load(ctx, path)
		require.Error(t, err)
	})

	t.Run("unsupported_extension_is_rejected", func(t *testing.T) {
		path := writeConfig(t, "config.toml", `source = "/s"`)
		_, err := Load(ctx, path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported file extension")
	})

	t.Run("missing_file_is_an_error", func(t *testing.T) {
		_, err := Load(ctx, filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "reading config file")
	})
}
