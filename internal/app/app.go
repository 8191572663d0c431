// Package app implements the application layer for dll.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"go.trai.ch/dll/internal/adapters/telemetry" //nolint:depguard // --trace installs the exporter
	"go.trai.ch/dll/internal/core/domain"
	"go.trai.ch/dll/internal/core/ports"
	"go.trai.ch/dll/internal/engine/validity"
	"go.trai.ch/zerr"
)

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	store        ports.StateStore
	rebuilder    ports.Rebuilder
	verifier     ports.ManifestVerifier
	versions     ports.VersionResolver
	tracer       ports.Tracer
	logger       ports.Logger
	newWatcher   ports.WatcherFactory

	getwd    func() (string, error)
	debounce time.Duration
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	store ports.StateStore,
	rebuilder ports.Rebuilder,
	verifier ports.ManifestVerifier,
	versions ports.VersionResolver,
	tracer ports.Tracer,
	log ports.Logger,
	newWatcher ports.WatcherFactory,
) *App {
	return &App{
		configLoader: loader,
		store:        store,
		rebuilder:    rebuilder,
		verifier:     verifier,
		versions:     versions,
		tracer:       tracer,
		logger:       log,
		newWatcher:   newWatcher,
		getwd:        os.Getwd,
		debounce:     defaultDebounceWindow,
	}
}

// WithWorkingDir makes the App resolve configuration from dir instead of the
// process working directory.
func (a *App) WithWorkingDir(dir string) *App {
	a.getwd = func() (string, error) { return dir, nil }
	return a
}

// WithDebounceWindow sets how long watch mode waits for file changes to settle.
func (a *App) WithDebounceWindow(d time.Duration) *App {
	a.debounce = d
	return a
}

// CheckOptions configuration for the Check method.
type CheckOptions struct {
	ConfigPath string
}

// Check reports which bundles are stale without rebuilding anything.
func (a *App) Check(ctx context.Context, opts CheckOptions) (*validity.Result, error) {
	options, err := a.load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}

	return a.newCycle(options).Run(ctx, options.Bundles, validity.RunOptions{DryRun: true}, io.Discard, io.Discard)
}

// BuildOptions configuration for the Build method.
type BuildOptions struct {
	ConfigPath string
	Force      bool
	DryRun     bool
	// Trace writes the cycle's spans to the stderr writer as JSON.
	Trace bool
}

// Build checks the bundles and rebuilds the stale ones.
func (a *App) Build(ctx context.Context, opts BuildOptions, stdout, stderr io.Writer) (res *validity.Result, err error) {
	if opts.Trace {
		shutdown, setupErr := telemetry.Setup(stderr)
		if setupErr != nil {
			return nil, setupErr
		}
		defer func() {
			err = errors.Join(err, shutdown(context.WithoutCancel(ctx)))
		}()
	}

	options, err := a.load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}

	res, err = a.newCycle(options).Run(ctx, options.Bundles, validity.RunOptions{
		Force:  opts.Force,
		DryRun: opts.DryRun,
	}, stdout, stderr)
	if err != nil {
		return res, err
	}

	if res.State == domain.CycleCommitted {
		a.logger.Info(fmt.Sprintf("rebuilt %d bundles in %s",
			len(res.Artifacts.Bundles), res.Artifacts.Duration.Round(time.Millisecond)))
	}
	return res, nil
}

// CleanOptions configuration for the Clean method.
type CleanOptions struct {
	ConfigPath string
	// All also removes the bundles, their manifests and the entry file.
	All bool
}

// Clean removes the state file, forcing a rebuild on the next run.
func (a *App) Clean(ctx context.Context, opts CleanOptions) (err error) {
	options, err := a.load(opts.ConfigPath)
	if err != nil {
		return err
	}

	unlock, err := a.store.Lock(ctx, options.StatePath())
	if err != nil {
		return err
	}
	defer func() {
		if unlockErr := unlock(); unlockErr != nil {
			err = errors.Join(err, unlockErr)
		}
	}()

	var errs error
	remove := func(path, name string) {
		if removeErr := os.Remove(path); removeErr != nil {
			if !errors.Is(removeErr, os.ErrNotExist) {
				errs = errors.Join(errs, zerr.With(zerr.Wrap(removeErr, "failed to remove "+name), "path", path))
			}
			return
		}
		a.logger.Info("removed " + name)
	}

	remove(options.StatePath(), "state file")

	if opts.All {
		remove(options.EntryFilePath(), "entry file")
		for _, b := range options.Bundles {
			remove(options.BundlePath(b.Name), "bundle "+b.Name)
			remove(options.ManifestPath(b.Name), "manifest "+b.Name)
		}
	}

	return errs
}

func (a *App) load(configPath string) (domain.Options, error) {
	cwd, err := a.getwd()
	if err != nil {
		return domain.Options{}, errors.Join(domain.ErrFailedToGetWorkingDir, err)
	}

	opts, err := a.configLoader.Load(cwd, configPath)
	if err != nil {
		return domain.Options{}, zerr.Wrap(err, "failed to load configuration")
	}
	return opts, nil
}

func (a *App) newCycle(opts domain.Options) *validity.Cycle {
	cache := validity.NewCache(opts, a.store, a.versions, a.logger)
	return validity.NewCycle(cache, a.store, a.rebuilder, a.verifier, a.tracer, a.logger)
}
