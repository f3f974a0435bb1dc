package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usestring/layj/internal/generate"
)

type project struct {
	dir      string
	conf     string
	manifest string
}

func newProject(t *testing.T, manifest string) project {
	t.Helper()
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("LOG_FILE", "")

	dir := t.TempDir()
	p := project{
		dir:      dir,
		conf:     filepath.Join(dir, "layj.config.yaml"),
		manifest: filepath.Join(dir, "api.layj.yaml"),
	}
	conf := "outDir: " + filepath.Join(dir, "types") + "\nsnapshotsDir: " + filepath.Join(dir, "snapshots") + "\n"
	require.NoError(t, os.WriteFile(p.conf, []byte(conf), 0o644))
	p.write(t, manifest)
	return p
}

func (p project) write(t *testing.T, manifest string) {
	t.Helper()
	require.NoError(t, os.WriteFile(p.manifest, []byte(manifest), 0o644))
}

func (p project) run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--conf", p.conf}, args...))
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

const userManifest = `
types:
  - name: User
    examples:
      - value: {name: Jhon Doe}
      - value: {name: Jhon Doe, email: jhon@doe.com}
`

func TestGenerate_DefaultCommand(t *testing.T) {
	p := newProject(t, userManifest)

	stdout, _, err := p.run(t, p.dir)
	require.NoError(t, err)
	assert.Contains(t, stdout, "generated 1 types from 1 manifests")

	data, err := os.ReadFile(filepath.Join(p.dir, "types", "User.ts"))
	require.NoError(t, err)
	assert.Equal(t, "export type User = {name:string,email:(string|undefined)};", string(data))
	assert.FileExists(t, filepath.Join(p.dir, "snapshots", "User.snapshot"))
}

func TestGenerate_Flags(t *testing.T) {
	p := newProject(t, userManifest)

	_, _, err := p.run(t, "g", "--jsDoc", "--jsonSchema", "--noSnapshots", p.manifest)
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(p.dir, "types", "User.js"))
	assert.FileExists(t, filepath.Join(p.dir, "types", "User.schema.json"))
	assert.NoDirExists(t, filepath.Join(p.dir, "snapshots"))
}

func TestGenerate_TypeChange(t *testing.T) {
	p := newProject(t, userManifest)
	_, _, err := p.run(t, p.manifest)
	require.NoError(t, err)

	p.write(t, "types:\n  - name: User\n    examples:\n      - value: {name: 1}\n")

	stdout, stderr, err := p.run(t, p.manifest)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errReported))
	assert.Contains(t, stdout, "1 failed")
	assert.Contains(t, stderr, "new type doesn't match snapshot for type User")

	// Accepting the change rewrites the snapshot; the next strict run passes.
	_, _, err = p.run(t, "--f", p.manifest)
	require.NoError(t, err)
	_, _, err = p.run(t, p.manifest)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(p.dir, "types", "User.ts"))
	require.NoError(t, err)
	assert.Equal(t, "export type User = {name:number};", string(data))
}

func TestGenerate_InvalidConfig(t *testing.T) {
	p := newProject(t, userManifest)
	require.NoError(t, os.WriteFile(p.conf, []byte("outdir: typo\n"), 0o644))

	_, _, err := p.run(t, p.manifest)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "layj.config.yaml")
	assert.NoFileExists(t, filepath.Join(p.dir, "types", "User.ts"))
}

func TestGenerate_MissingPath(t *testing.T) {
	p := newProject(t, userManifest)
	_, _, err := p.run(t, filepath.Join(p.dir, "missing.layj.yaml"))
	assert.Error(t, err)
}

func TestResolvePaths(t *testing.T) {
	dir := t.TempDir()
	nested := filepath.Join(dir, "nested")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "node_modules"), 0o755))
	require.NoError(t, os.MkdirAll(nested, 0o755))
	for _, name := range []string{
		filepath.Join(dir, "b.layj.yaml"),
		filepath.Join(nested, "a.layj.json"),
		filepath.Join(dir, "node_modules", "c.layj.yaml"),
		filepath.Join(dir, "readme.yaml"),
	} {
		require.NoError(t, os.WriteFile(name, []byte("types: []"), 0o644))
	}

	paths, err := resolvePaths([]string{dir})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "b.layj.yaml"), filepath.Join(nested, "a.layj.json")}, paths)

	paths, err = resolvePaths([]string{filepath.Join(dir, "readme.yaml")})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "readme.yaml")}, paths)
}

func TestPrintSummary(t *testing.T) {
	tests := []struct {
		name    string
		summary *generate.Summary
		want    string
	}{
		{
			name:    "nothing",
			summary: &generate.Summary{},
			want:    "no manifests found\n",
		},
		{
			name:    "thousands separator",
			summary: &generate.Summary{Files: 1200, Results: make([]*generate.Result, 3)},
			want:    "generated 3 types from 1,200 manifests in 2s\n",
		},
		{
			name:    "failures",
			summary: &generate.Summary{Files: 2, Errors: []error{errors.New("a"), errors.Join(errors.New("b"), errors.New("c"))}},
			want:    "generated 0 types from 2 manifests in 2s, 3 failed\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			printSummary(&buf, tt.summary, 2*time.Second)
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestHelpAlias(t *testing.T) {
	cmd := newRootCmd()
	help, _, err := cmd.Find([]string{"h"})
	require.NoError(t, err)
	assert.Equal(t, "help", help.Name())

	watch, _, err := cmd.Find([]string{"w"})
	require.NoError(t, err)
	assert.Equal(t, "watch", watch.Name())
}
