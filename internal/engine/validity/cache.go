package validity

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"
	"strings"
	"time"

	"go.trai.ch/dll/internal/core/domain"
	"go.trai.ch/dll/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// Cache compares bundle definitions with the persisted snapshot and commits
// new snapshots after successful rebuilds.
type Cache struct {
	opts     domain.Options
	store    ports.StateStore
	versions ports.VersionResolver
	logger   ports.Logger
	now      func() time.Time
}

// NewCache creates a cache for the bundle directory described by opts.
// versions is only consulted when opts.TrackVersions is set and may be nil otherwise.
func NewCache(
	opts domain.Options,
	store ports.StateStore,
	versions ports.VersionResolver,
	logger ports.Logger,
) *Cache {
	if !opts.TrackVersions {
		versions = nil
	}
	return &Cache{
		opts:     opts,
		store:    store,
		versions: versions,
		logger:   logger,
		now:      time.Now,
	}
}

// Options returns the options the cache was created with.
func (c *Cache) Options() domain.Options {
	return c.opts
}

// Check returns one verdict per bundle, in input order.
//
// Invalid definitions fail fast with an error matching domain.ErrConfiguration.
// A corrupt or unreadable snapshot is not an error: it is logged and every
// bundle is reported stale.
func (c *Cache) Check(ctx context.Context, bundles []domain.BundleDefinition) ([]domain.Verdict, error) {
	if err := domain.ValidateBundles(bundles); err != nil {
		return nil, err
	}

	snapshot, loadErr := c.store.Load(c.opts.StatePath())
	degraded := domain.StaleReason("")
	if loadErr != nil {
		degraded = domain.ReasonUnreadableState
		if errors.Is(loadErr, domain.ErrCorruptState) {
			degraded = domain.ReasonCorruptState
		}
		c.logger.Warn(fmt.Sprintf("ignoring bundle state, all bundles will be rebuilt: %v", loadErr))
	}

	verdicts := make([]domain.Verdict, len(bundles))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	for i, def := range bundles {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			current, err := c.currentState(def)
			if err != nil {
				c.logger.Warn(fmt.Sprintf("bundle %q marked stale: %v", def.Name, err))
				verdicts[i] = domain.Verdict{
					Bundle:      def,
					Stale:       true,
					Reason:      domain.ReasonUnreadableState,
					Fingerprint: current.Fingerprint,
				}
				return nil
			}

			if degraded != "" {
				verdicts[i] = domain.Verdict{Bundle: def, Stale: true, Reason: degraded, Fingerprint: current.Fingerprint}
				return nil
			}

			prior, found := snapshot.Lookup(def.Name)
			verdict := Compare(current, prior, found)
			verdict.Bundle = def
			verdicts[i] = verdict
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return verdicts, nil
}

// CheckBundles returns the bundles that must be rebuilt, in input order.
func (c *Cache) CheckBundles(ctx context.Context, bundles []domain.BundleDefinition) ([]domain.BundleDefinition, error) {
	verdicts, err := c.Check(ctx, bundles)
	if err != nil {
		return nil, err
	}
	return domain.StaleBundles(verdicts), nil
}

// SaveBundleState replaces the snapshot with the current state of bundles.
// It must only be called after the bundles were rebuilt successfully.
func (c *Cache) SaveBundleState(ctx context.Context, bundles []domain.BundleDefinition) error {
	if err := domain.ValidateBundles(bundles); err != nil {
		return err
	}

	builtAt := c.now().UTC().Truncate(time.Second)
	snapshot := make(domain.StateSnapshot, len(bundles))
	for _, def := range bundles {
		if err := ctx.Err(); err != nil {
			return err
		}

		state, err := c.currentState(def)
		if err != nil {
			return zerr.With(err, "bundle", def.Name)
		}
		state.BuiltAt = builtAt
		snapshot[def.Name] = state
	}

	return c.store.Save(c.opts.StatePath(), snapshot)
}

// Rebuild hands the bundles selected by the rebuild mode to the rebuilder.
// With domain.RebuildAll every bundle is rebuilt, otherwise only stale ones.
// Nothing is persisted.
func (c *Cache) Rebuild(
	ctx context.Context,
	rebuilder ports.Rebuilder,
	stale, all []domain.BundleDefinition,
	stdout, stderr io.Writer,
) (*domain.BuildArtifacts, error) {
	targets := stale
	if c.opts.Rebuild == domain.RebuildAll {
		targets = all
	}
	if len(targets) == 0 {
		return &domain.BuildArtifacts{}, nil
	}

	artifacts, err := rebuilder.Build(ctx, c.opts, targets, stdout, stderr)
	if err != nil {
		return nil, errors.Join(domain.ErrBuildFailed, zerr.With(err, "bundles", strings.Join(domain.BundleNames(targets), ",")))
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.Join(domain.ErrBuildFailed, err)
	}

	return artifacts, nil
}

// RebuildAndCommit rebuilds and, only if the rebuild succeeded, persists
// the state of all bundles. A failed rebuild leaves the snapshot untouched.
func (c *Cache) RebuildAndCommit(
	ctx context.Context,
	rebuilder ports.Rebuilder,
	stale, all []domain.BundleDefinition,
	stdout, stderr io.Writer,
) (*domain.BuildArtifacts, error) {
	artifacts, err := c.Rebuild(ctx, rebuilder, stale, all, stdout, stderr)
	if err != nil {
		return nil, err
	}

	if err := c.SaveBundleState(ctx, all); err != nil {
		return nil, err
	}

	return artifacts, nil
}

func (c *Cache) currentState(def domain.BundleDefinition) (domain.BundleState, error) {
	if c.versions == nil {
		return CurrentState(def, nil), nil
	}

	versions := make(map[string]string, len(def.Packages))
	var errs error
	for _, ref := range def.Packages {
		id := ref.Canonical()
		if _, ok := versions[id]; ok {
			continue
		}
		v, err := c.versions.ResolveVersion(c.opts.Context, ref)
		if err != nil {
			errs = errors.Join(errs, err)
			continue
		}
		versions[id] = v
	}

	return CurrentState(def, versions), errs
}
