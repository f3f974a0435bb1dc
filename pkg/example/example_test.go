package example_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usestring/layj/internal/query"
	"github.com/usestring/layj/pkg/example"
	"github.com/usestring/layj/pkg/value"
)

func TestDefine(t *testing.T) {
	set := example.Define("User", func(add example.AddFunc) {
		add("name only", example.Of(map[string]any{"name": "Jhon Doe"}))
		add("", example.Static{Value: value.Null()})
		add("third", example.Static{Value: value.String("x")})
	}, map[string]any{"snapshot": false})

	assert.Equal(t, "User", set.Name)
	require.Len(t, set.Examples, 3)
	assert.Equal(t, "name only", set.Examples[0].Label)
	assert.Equal(t, "#2", set.Examples[1].Label)
	assert.Equal(t, "third", set.Examples[2].Label)
	assert.Equal(t, false, set.Params["snapshot"])
}

func TestFunc(t *testing.T) {
	v, err := example.Of(map[string]any{"b": 1, "a": "x"}).Produce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, v.Keys())

	boom := errors.New("boom")
	_, err = example.Func(func(context.Context) (any, error) { return nil, boom }).Produce(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "user.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: Jhon\nemail: !undefined\n"), 0o644))

	v, err := example.File{Path: path}.Produce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "email"}, v.Keys())
	email, _ := v.Get("email")
	assert.Equal(t, value.KindUndefined, email.Kind())

	_, err = example.File{Path: filepath.Join(dir, "missing.json")}.Produce(context.Background())
	assert.ErrorContains(t, err, "reading example file")
}

func TestCommand(t *testing.T) {
	v, err := example.Command{Run: `echo '{"id": 1, "tags": ["a"]}'`}.Produce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "tags"}, v.Keys())
}

func TestCommand_DirAndEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "data.json"), []byte(`"from file"`), 0o644))

	v, err := example.Command{Run: `cat data.json`, Dir: dir}.Produce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "from file", v.Str())

	v, err = example.Command{Run: `printf '{"who": "%s"}' "$LAYJ_TEST_WHO"`, Env: []string{"LAYJ_TEST_WHO=me"}}.Produce(context.Background())
	require.NoError(t, err)
	who, _ := v.Get("who")
	assert.Equal(t, "me", who.Str())
}

func TestCommand_Failure(t *testing.T) {
	_, err := example.Command{Run: `echo nope >&2; exit 3`}.Produce(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exit status 3")
	assert.Contains(t, err.Error(), "nope")
}

func TestCommand_Timeout(t *testing.T) {
	start := time.Now()
	_, err := example.Command{Run: `exec sleep 5`, Timeout: 50 * time.Millisecond}.Produce(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 4*time.Second)
}

func TestQuery(t *testing.T) {
	engine, err := query.NewEngine(8)
	require.NoError(t, err)

	src := example.Of(map[string]any{"data": map[string]any{"items": []any{1, 2}}})
	v, err := example.Query{Expr: ".data.items[]", Source: src, Extractor: engine}.Produce(context.Background())
	require.NoError(t, err)
	assert.True(t, value.Equal(value.Array(value.Number(1), value.Number(2)), v))

	boom := errors.New("source failed")
	_, err = example.Query{
		Expr:      ".",
		Source:    example.Func(func(context.Context) (any, error) { return nil, boom }),
		Extractor: engine,
	}.Produce(context.Background())
	assert.ErrorIs(t, err, boom)
}
