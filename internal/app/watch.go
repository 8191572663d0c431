package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"go.trai.ch/dll/internal/adapters/watcher" //nolint:depguard // debouncer is shared with the adapter
	"go.trai.ch/dll/internal/core/domain"
	"go.trai.ch/dll/internal/core/ports"
	"go.trai.ch/dll/internal/engine/validity"
)

const defaultDebounceWindow = watcher.DefaultDebounceWindow

// WatchOptions configuration for the Watch method.
type WatchOptions struct {
	ConfigPath string
}

// Watch runs a build, then rebuilds whenever the configuration or the project
// package.json changes. The files are watched for the whole session, so a
// change made while a cycle runs triggers the next one. Failed cycles are
// logged and watching continues. It returns nil when ctx is canceled.
func (a *App) Watch(ctx context.Context, opts WatchOptions, stdout, stderr io.Writer) error {
	options, err := a.load(opts.ConfigPath)
	if err != nil {
		return err
	}

	changes := newChangeSet()
	debouncer := watcher.NewDebouncer(a.debounce, changes.add)
	defer debouncer.Stop()

	var session *watchSession
	defer func() { session.close() }()

	for {
		files := watchedFiles(options)
		if session == nil || !slices.Equal(session.files, files) {
			session.close()
			session, err = a.startWatching(ctx, files, debouncer)
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				return err
			}
			a.logger.Info("watching " + strings.Join(files, ", "))
		}

		a.runWatchCycle(ctx, options, stdout, stderr)

		changed, err := changes.wait(ctx)
		if err != nil {
			return nil
		}
		a.logger.Info(fmt.Sprintf("changed: %s", strings.Join(changed, ", ")))

		reloaded, err := a.load(opts.ConfigPath)
		if err != nil {
			a.logger.Error(err)
			continue
		}
		options = reloaded
	}
}

func (a *App) runWatchCycle(ctx context.Context, options domain.Options, stdout, stderr io.Writer) {
	_, err := a.newCycle(options).Run(ctx, options.Bundles, validity.RunOptions{}, stdout, stderr)
	if err != nil && ctx.Err() == nil {
		a.logger.Error(err)
	}
}

// watchSession is a started watcher whose events feed a debouncer.
type watchSession struct {
	files  []string
	w      ports.Watcher
	cancel context.CancelFunc
	done   chan struct{}
}

func (a *App) startWatching(ctx context.Context, files []string, debouncer *watcher.Debouncer) (*watchSession, error) {
	w, err := a.newWatcher()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(ctx)
	if err := w.Start(ctx, files); err != nil {
		cancel()
		return nil, errors.Join(err, w.Stop())
	}

	s := &watchSession{
		files:  files,
		w:      w,
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go func() {
		defer close(s.done)
		for event := range w.Events() {
			debouncer.Add(event.Path)
		}
	}()

	return s, nil
}

// close stops the watcher and waits for its event stream to end. A nil session is a no-op.
func (s *watchSession) close() {
	if s == nil {
		return
	}
	s.cancel()
	_ = s.w.Stop()
	<-s.done
}

// changeSet accumulates debounced paths until the watch loop collects them.
type changeSet struct {
	mu    sync.Mutex
	paths map[string]struct{}
	ready chan struct{}
}

func newChangeSet() *changeSet {
	return &changeSet{
		paths: make(map[string]struct{}),
		ready: make(chan struct{}, 1),
	}
}

func (c *changeSet) add(paths []string) {
	c.mu.Lock()
	for _, p := range paths {
		c.paths[p] = struct{}{}
	}
	c.mu.Unlock()

	select {
	case c.ready <- struct{}{}:
	default:
	}
}

// wait blocks until at least one path changed and returns the changed paths sorted.
func (c *changeSet) wait(ctx context.Context) ([]string, error) {
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-c.ready:
		}

		c.mu.Lock()
		paths := make([]string, 0, len(c.paths))
		for p := range c.paths {
			paths = append(paths, p)
		}
		clear(c.paths)
		c.mu.Unlock()

		if len(paths) > 0 {
			slices.Sort(paths)
			return paths, nil
		}
	}
}

// watchedFiles lists the files whose changes can alter a verdict.
func watchedFiles(opts domain.Options) []string {
	files := make([]string, 0, 2)
	if opts.ConfigPath != "" {
		files = append(files, opts.ConfigPath)
	}
	if opts.TrackVersions {
		files = append(files, filepath.Join(opts.Context, "package.json"))
	}
	return files
}
