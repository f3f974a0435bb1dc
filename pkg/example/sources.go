package example

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/usestring/layj/pkg/value"
)

// File reads a JSON or YAML document from disk.
type File struct {
	Path string
}

// Produce implements Producer.
func (f File) Produce(ctx context.Context) (value.Value, error) {
	if err := ctx.Err(); err != nil {
		return value.Value{}, err
	}
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return value.Value{}, fmt.Errorf("reading example file: %w", err)
	}
	v, err := value.Parse(data)
	if err != nil {
		return value.Value{}, fmt.Errorf("parsing example file %s: %w", f.Path, err)
	}
	return v, nil
}

// Command runs a shell command and parses its standard output as JSON or YAML.
type Command struct {
	Run     string
	Dir     string
	Env     []string // extra KEY=VALUE pairs on top of the process environment
	Timeout time.Duration
}

// waitDelay bounds how long output pipes may stay open after the shell is
// killed, for commands that leave children behind.
const waitDelay = 500 * time.Millisecond

// Produce implements Producer.
func (c Command) Produce(ctx context.Context) (value.Value, error) {
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, "sh", "-c", c.Run)
	cmd.Dir = c.Dir
	cmd.Env = append(os.Environ(), c.Env...)
	cmd.WaitDelay = waitDelay

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); errors.Is(ctxErr, context.DeadlineExceeded) {
			return value.Value{}, fmt.Errorf("command %q timed out after %s: %w", c.Run, c.Timeout, ctxErr)
		}
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return value.Value{}, fmt.Errorf("command %q: %w: %s", c.Run, err, msg)
		}
		return value.Value{}, fmt.Errorf("command %q: %w", c.Run, err)
	}

	v, err := value.Parse(stdout.Bytes())
	if err != nil {
		return value.Value{}, fmt.Errorf("parsing output of %q: %w", c.Run, err)
	}
	return v, nil
}

// Extractor applies a query expression to a value.
type Extractor interface {
	Extract(ctx context.Context, expression string, input value.Value) (value.Value, error)
}

// Query narrows the value of Source with a jq expression.
type Query struct {
	Expr      string
	Source    Producer
	Extractor Extractor
}

// Produce implements Producer.
func (q Query) Produce(ctx context.Context) (value.Value, error) {
	v, err := q.Source.Produce(ctx)
	if err != nil {
		return value.Value{}, err
	}
	return q.Extractor.Extract(ctx, q.Expr, v)
}
