package validity

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"go.trai.ch/dll/internal/core/domain"
	"go.trai.ch/dll/internal/core/ports"
	"go.trai.ch/zerr"
)

// Span names emitted by a cycle.
const (
	SpanCheck   = "dll.check"
	SpanRebuild = "dll.rebuild"
	SpanCommit  = "dll.commit"
)

// RunOptions tunes a single cycle.
type RunOptions struct {
	// Force reports every bundle stale.
	Force bool
	// DryRun stops after the check.
	DryRun bool
}

// Result describes the outcome of a cycle.
type Result struct {
	State     domain.CycleState
	Verdicts  []domain.Verdict
	Stale     []domain.BundleDefinition
	Artifacts *domain.BuildArtifacts
	// MissingManifests lists rebuilt bundles whose manifest was not written.
	MissingManifests []string
}

// Cycle runs check, rebuild and commit while holding the state lock.
// A Cycle may be reused, but runs are serialized.
type Cycle struct {
	cache     *Cache
	store     ports.StateStore
	rebuilder ports.Rebuilder
	verifier  ports.ManifestVerifier
	tracer    ports.Tracer
	logger    ports.Logger

	mu    sync.Mutex
	state domain.CycleState
}

// NewCycle creates a cycle around cache.
func NewCycle(
	cache *Cache,
	store ports.StateStore,
	rebuilder ports.Rebuilder,
	verifier ports.ManifestVerifier,
	tracer ports.Tracer,
	logger ports.Logger,
) *Cycle {
	return &Cycle{
		cache:     cache,
		store:     store,
		rebuilder: rebuilder,
		verifier:  verifier,
		tracer:    tracer,
		logger:    logger,
		state:     domain.CycleIdle,
	}
}

// Run checks bundles and rebuilds the stale ones. The snapshot is only
// written after the rebuilder succeeds.
func (c *Cycle) Run(
	ctx context.Context,
	bundles []domain.BundleDefinition,
	runOpts RunOptions,
	stdout, stderr io.Writer,
) (res *Result, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = domain.CycleIdle

	if err := domain.ValidateBundles(bundles); err != nil {
		return nil, err
	}

	opts := c.cache.Options()
	unlock, err := c.store.Lock(ctx, opts.StatePath())
	if err != nil {
		return nil, err
	}
	defer func() {
		if unlockErr := unlock(); unlockErr != nil {
			err = errors.Join(err, unlockErr)
		}
	}()

	res = &Result{}
	if err := c.check(ctx, bundles, runOpts, res); err != nil {
		return nil, err
	}

	if len(res.Stale) == 0 {
		c.logger.Info(fmt.Sprintf("all %d bundles are up to date", len(bundles)))
		res.State, err = c.transition(domain.CycleAllValid)
		return res, err
	}

	c.logger.Info(fmt.Sprintf("%d of %d bundles stale: %s", len(res.Stale), len(bundles), describe(res.Verdicts)))
	if res.State, err = c.transition(domain.CycleStaleFound); err != nil {
		return nil, err
	}
	if runOpts.DryRun {
		return res, nil
	}

	if _, err := c.transition(domain.CycleRebuilding); err != nil {
		return nil, err
	}
	res.Artifacts, err = c.rebuild(ctx, res.Stale, bundles, stdout, stderr)
	if err != nil {
		res.State, _ = c.transition(domain.CycleRebuildFailed)
		return res, err
	}

	if err := c.commit(ctx, bundles); err != nil {
		res.State, _ = c.transition(domain.CycleRebuildFailed)
		return res, err
	}
	if res.State, err = c.transition(domain.CycleCommitted); err != nil {
		return nil, err
	}

	res.MissingManifests = c.verifyRebuilt(opts, res.Artifacts)
	return res, nil
}

func (c *Cycle) check(ctx context.Context, bundles []domain.BundleDefinition, runOpts RunOptions, res *Result) error {
	if _, err := c.transition(domain.CycleChecking); err != nil {
		return err
	}

	ctx, span := c.tracer.Start(ctx, SpanCheck)
	defer span.End()
	span.SetAttribute("dll.bundles", len(bundles))

	verdicts, err := c.cache.Check(ctx, bundles)
	if err != nil {
		span.RecordError(err)
		return err
	}

	if runOpts.Force {
		for i := range verdicts {
			verdicts[i].Stale, verdicts[i].Reason = true, domain.ReasonForced
		}
	}

	if c.cache.Options().VerifyManifests && c.verifier != nil {
		if err := c.markMissingManifests(verdicts); err != nil {
			span.RecordError(err)
			return err
		}
	}

	res.Verdicts = verdicts
	res.Stale = domain.StaleBundles(verdicts)
	span.SetAttribute("dll.stale", len(res.Stale))
	return nil
}

func (c *Cycle) markMissingManifests(verdicts []domain.Verdict) error {
	var valid []string
	for _, v := range verdicts {
		if !v.Stale {
			valid = append(valid, v.Bundle.Name)
		}
	}
	if len(valid) == 0 {
		return nil
	}

	missing, err := c.verifier.MissingManifests(c.cache.Options().DllDir, valid)
	if err != nil {
		return err
	}

	gone := make(map[string]struct{}, len(missing))
	for _, name := range missing {
		gone[name] = struct{}{}
	}
	for i := range verdicts {
		if _, ok := gone[verdicts[i].Bundle.Name]; ok && !verdicts[i].Stale {
			verdicts[i].Stale, verdicts[i].Reason = true, domain.ReasonManifestMissing
		}
	}
	return nil
}

func (c *Cycle) rebuild(
	ctx context.Context,
	stale, all []domain.BundleDefinition,
	stdout, stderr io.Writer,
) (*domain.BuildArtifacts, error) {
	ctx, span := c.tracer.Start(ctx, SpanRebuild)
	defer span.End()

	c.logger.Info("rebuilding bundles")
	artifacts, err := c.cache.Rebuild(ctx, c.rebuilder, stale, all, stdout, stderr)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetAttribute("dll.rebuilt", len(artifacts.Bundles))
	return artifacts, nil
}

func (c *Cycle) commit(ctx context.Context, bundles []domain.BundleDefinition) error {
	ctx, span := c.tracer.Start(ctx, SpanCommit)
	defer span.End()

	if err := c.cache.SaveBundleState(ctx, bundles); err != nil {
		span.RecordError(err)
		return err
	}
	c.logger.Info("bundle state committed")
	return nil
}

// verifyRebuilt warns about rebuilt bundles whose manifest is missing. It never
// fails the cycle, since the bundler is responsible for emitting manifests.
func (c *Cycle) verifyRebuilt(opts domain.Options, artifacts *domain.BuildArtifacts) []string {
	if !opts.VerifyManifests || c.verifier == nil || artifacts == nil || len(artifacts.Bundles) == 0 {
		return nil
	}

	names := make([]string, len(artifacts.Bundles))
	for i, a := range artifacts.Bundles {
		names[i] = a.Name
	}

	missing, err := c.verifier.MissingManifests(opts.DllDir, names)
	if err != nil {
		c.logger.Warn(fmt.Sprintf("could not verify manifests: %v", err))
		return nil
	}
	for _, name := range missing {
		c.logger.Warn(fmt.Sprintf("bundler did not write a manifest for %q", name))
	}
	return missing
}

func (c *Cycle) transition(next domain.CycleState) (domain.CycleState, error) {
	if !c.state.CanTransition(next) {
		return c.state, zerr.Wrap(domain.ErrInvalidCycleTransition, c.state.String()+" -> "+next.String())
	}
	c.state = next
	return next, nil
}

func describe(verdicts []domain.Verdict) string {
	parts := make([]string, 0, len(verdicts))
	for _, v := range verdicts {
		if v.Stale {
			parts = append(parts, v.Bundle.Name+" ("+string(v.Reason)+")")
		}
	}
	return strings.Join(parts, ", ")
}
