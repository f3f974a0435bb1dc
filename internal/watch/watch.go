// Package watch regenerates declarations when manifest files change.
package watch

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/usestring/layj/internal/manifest"
)

// allKey is the run key of a full regeneration.
const allKey = "\x00all"

// Options configure a Watcher.
type Options struct {
	// RegenerateFile is called when a manifest is written or created.
	RegenerateFile func(ctx context.Context, path string) error
	// RegenerateAll is called when the user asks for a full run; force
	// disables the strict snapshot check for that run.
	RegenerateAll func(ctx context.Context, force bool) error
	// Input carries interactive commands: "r" regenerates everything with
	// force, "q" quits. Nil disables commands.
	Input io.Reader
	// OnReady is called once every directory is being watched.
	OnReady func()
	Logger  *slog.Logger
}

// Watcher watches a directory tree for manifest changes.
type Watcher struct {
	root string
	opts Options
	wg   sync.WaitGroup

	mu      sync.Mutex
	running map[string]bool
	dirty   map[string]bool
}

// New creates a Watcher for the tree rooted at root.
func New(root string, opts Options) *Watcher {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Watcher{
		root:    root,
		opts:    opts,
		running: make(map[string]bool),
		dirty:   make(map[string]bool),
	}
}

// Run watches until ctx is done or the user quits. Regenerations still in
// flight are awaited before returning.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer fw.Close()
	defer w.wg.Wait()

	if err := w.addTree(fw, w.root); err != nil {
		return err
	}
	if w.opts.OnReady != nil {
		w.opts.OnReady()
	}
	w.opts.Logger.Info("watching for manifest changes", slog.String("root", w.root))

	commands := w.readCommands(ctx)

	for {
		select {
		case <-ctx.Done():
			return nil

		case cmd, ok := <-commands:
			if !ok {
				commands = nil
				continue
			}
			switch cmd {
			case "q":
				w.opts.Logger.Info("watch stopped")
				return nil
			case "r":
				w.trigger(ctx, allKey, func() error { return w.opts.RegenerateAll(ctx, true) })
			}

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			w.handle(ctx, fw, ev)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.opts.Logger.Warn("watcher error", slog.String("error", err.Error()))
		}
	}
}

func (w *Watcher) handle(ctx context.Context, fw *fsnotify.Watcher, ev fsnotify.Event) {
	if ev.Has(fsnotify.Create) {
		// New directories must be watched explicitly
		if err := w.addTree(fw, ev.Name); err != nil && !errors.Is(err, fs.ErrNotExist) {
			w.opts.Logger.Debug("not watching", slog.String("path", ev.Name), slog.String("error", err.Error()))
		}
	}

	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
		return
	}
	if !manifest.IsManifest(ev.Name) {
		return
	}

	path := ev.Name
	w.trigger(ctx, path, func() error { return w.opts.RegenerateFile(ctx, path) })
}

// trigger runs fn in the background. Runs of one key never overlap: a
// trigger arriving while its key runs marks it dirty, and fn runs once more
// after the current run, however many triggers arrived meanwhile.
func (w *Watcher) trigger(ctx context.Context, key string, fn func() error) {
	w.mu.Lock()
	if w.running[key] {
		w.dirty[key] = true
		w.mu.Unlock()
		return
	}
	w.running[key] = true
	w.mu.Unlock()

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		for {
			if err := fn(); err != nil && ctx.Err() == nil {
				w.opts.Logger.Error("regeneration failed",
					slog.String("target", displayKey(key)),
					slog.String("error", err.Error()),
				)
			}
			if !w.rerun(ctx, key) {
				return
			}
		}
	}()
}

// rerun consumes the dirty mark of key, or releases the key when there is
// none.
func (w *Watcher) rerun(ctx context.Context, key string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.dirty[key] && ctx.Err() == nil {
		delete(w.dirty, key)
		return true
	}
	delete(w.dirty, key)
	delete(w.running, key)
	return false
}

func (w *Watcher) addTree(fw *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != w.root && manifest.SkipDir(d.Name()) {
			return filepath.SkipDir
		}
		if err := fw.Add(path); err != nil {
			return fmt.Errorf("watching %s: %w", path, err)
		}
		return nil
	})
}

func (w *Watcher) readCommands(ctx context.Context) <-chan string {
	if w.opts.Input == nil {
		return nil
	}
	out := make(chan string)
	go func() {
		defer close(out)
		scanner := bufio.NewScanner(w.opts.Input)
		for scanner.Scan() {
			select {
			case out <- strings.ToLower(strings.TrimSpace(scanner.Text())):
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

func displayKey(key string) string {
	if key == allKey {
		return "all"
	}
	return key
}
