package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usestring/layj/pkg/render"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("LAYJ_WORKERS", "")
	t.Setenv("LOG_LEVEL", "")

	cfg := Load()
	assert.Equal(t, DefaultWorkersValue, cfg.Workers)
	assert.Equal(t, DefaultQueryCacheSizeValue, cfg.QueryCacheSize)
	assert.Equal(t, 30*time.Second, cfg.CommandTimeout)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.True(t, cfg.LogCompress)
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("LAYJ_WORKERS", "3")
	t.Setenv("LAYJ_COMMAND_TIMEOUT_MS", "1500")
	t.Setenv("LOG_COMPRESS", "off")
	t.Setenv("LAYJ_QUERY_CACHE_SIZE", "-4")

	cfg := Load()
	assert.Equal(t, 3, cfg.Workers)
	assert.Equal(t, 1500*time.Millisecond, cfg.CommandTimeout)
	assert.False(t, cfg.LogCompress)
	assert.Equal(t, DefaultQueryCacheSizeValue, cfg.QueryCacheSize, "non-positive values fall back")
}

func TestResolve_Defaults(t *testing.T) {
	p, err := Resolve()
	require.NoError(t, err)

	assert.False(t, p.UseXOR)
	assert.False(t, p.JSDoc)
	assert.True(t, p.Snapshot)
	assert.True(t, p.ThrowOnTypeChange)
	assert.True(t, p.Strict())
	assert.Equal(t, "types", p.OutDir)
	assert.Equal(t, "snapshots", p.SnapshotsDir)
	assert.Equal(t, render.Options{}, p.RenderOptions())
}

func TestResolve_Precedence(t *testing.T) {
	file := map[string]any{KeyOutDir: "gen", KeyUseXOR: true, KeyLiterals: map[string]any{"a": true}}
	flags := map[string]any{KeyOutDir: "out", KeyThrowOnTypeChange: false}
	perType := map[string]any{KeyJSDoc: true, KeyLiterals: map[string]any{"b": true}}

	p, err := Resolve(file, flags, perType)
	require.NoError(t, err)

	assert.Equal(t, "out", p.OutDir)
	assert.True(t, p.UseXOR)
	assert.False(t, p.ThrowOnTypeChange)
	assert.False(t, p.Strict())
	assert.Equal(t, render.Options{Dialect: render.JSDoc, UseXOR: true}, p.RenderOptions())

	spec, err := p.LiteralSpec()
	require.NoError(t, err)
	assert.True(t, spec.Field("b").Pin)
	assert.False(t, spec.Field("a").Pin, "literals are replaced, not merged")
}

func TestResolve_Errors(t *testing.T) {
	tests := []struct {
		name  string
		layer map[string]any
		want  string
	}{
		{name: "unknown key", layer: map[string]any{"useXor": true}, want: "useXor"},
		{name: "wrong type", layer: map[string]any{KeySnapshot: "yes"}, want: "snapshot"},
		{name: "bad literals", layer: map[string]any{KeyLiterals: map[string]any{"a": 1}}, want: "literals.a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Resolve(tt.layer)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()

	yamlPath := filepath.Join(dir, "layj.config.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte("outDir: gen\nliterals:\n  kind: true\n"), 0o644))
	layer, err := LoadFile(yamlPath)
	require.NoError(t, err)
	assert.Equal(t, "gen", layer[KeyOutDir])
	assert.Equal(t, map[string]any{"kind": true}, layer[KeyLiterals])

	jsonPath := filepath.Join(dir, "other.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"useXOR": true}`), 0o644))
	layer, err = LoadFile(jsonPath)
	require.NoError(t, err)
	assert.Equal(t, true, layer[KeyUseXOR])

	emptyPath := filepath.Join(dir, "empty.yaml")
	require.NoError(t, os.WriteFile(emptyPath, nil, 0o644))
	layer, err = LoadFile(emptyPath)
	require.NoError(t, err)
	assert.Empty(t, layer)

	_, err = LoadFile(filepath.Join(dir, "missing.yaml"))
	assert.ErrorContains(t, err, "reading config")
}

func TestFindProjectFile(t *testing.T) {
	dir := t.TempDir()

	_, ok, err := FindProjectFile(dir)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "layj.config.json"), []byte("{}"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "layj.config.yml"), []byte(""), 0o644))

	path, ok, err := FindProjectFile(dir)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, filepath.Join(dir, "layj.config.yml"), path)
}
