package domain

import (
	"errors"
	"maps"
	"path/filepath"
	"slices"
	"time"

	"go.trai.ch/zerr"
)

// RebuildMode selects which bundles are handed to the bundler when any bundle is stale.
type RebuildMode string

const (
	// RebuildStale rebuilds only the stale bundles.
	RebuildStale RebuildMode = "stale"
	// RebuildAll rebuilds every configured bundle.
	RebuildAll RebuildMode = "all"
)

// TTYMode controls whether the bundler runs attached to a pseudo-terminal.
type TTYMode string

const (
	// TTYAuto allocates a pseudo-terminal when stdout is a terminal outside CI.
	TTYAuto TTYMode = "auto"
	// TTYAlways always allocates a pseudo-terminal.
	TTYAlways TTYMode = "always"
	// TTYNever runs the bundler with plain pipes.
	TTYNever TTYMode = "never"
)

// BuildCommand describes how the external bundler is invoked.
type BuildCommand struct {
	Cmd []string
	Env map[string]string
	TTY TTYMode
}

// Options is the resolved configuration of one project. It is built once,
// passed by value and never mutated after Resolve.
type Options struct {
	// Context is the absolute base directory used to resolve relative paths.
	Context string
	// DllDir is the directory holding bundles, manifests and the state file.
	DllDir string
	// StateFile is the state file name inside DllDir.
	StateFile string
	// ConfigPath is the file the options were loaded from, if any.
	ConfigPath string

	TrackVersions   bool
	VerifyManifests bool
	Rebuild         RebuildMode
	Build           BuildCommand
	Bundles         []BundleDefinition
}

// Resolve fills defaults and resolves relative paths against cwd and Context.
// It returns a new value and leaves the receiver untouched.
func (o Options) Resolve(cwd string) (Options, error) {
	resolved := o.clone()

	if resolved.Context == "" {
		resolved.Context = cwd
	}
	if !filepath.IsAbs(resolved.Context) {
		return Options{}, errors.Join(ErrConfiguration, zerr.With(ErrContextNotAbsolute, "context", resolved.Context))
	}
	resolved.Context = filepath.Clean(resolved.Context)

	if resolved.DllDir == "" {
		return Options{}, errors.Join(ErrConfiguration, ErrMissingDllDir)
	}
	if !filepath.IsAbs(resolved.DllDir) {
		resolved.DllDir = filepath.Join(resolved.Context, resolved.DllDir)
	}
	resolved.DllDir = filepath.Clean(resolved.DllDir)

	if resolved.StateFile == "" {
		resolved.StateFile = DefaultStateFileName
	}

	switch resolved.Rebuild {
	case "":
		resolved.Rebuild = RebuildStale
	case RebuildStale, RebuildAll:
	default:
		return Options{}, errors.Join(ErrConfiguration, zerr.With(ErrInvalidRebuildMode, "rebuild", string(resolved.Rebuild)))
	}

	switch resolved.Build.TTY {
	case "":
		resolved.Build.TTY = TTYAuto
	case TTYAuto, TTYAlways, TTYNever:
	default:
		return Options{}, errors.Join(ErrConfiguration, zerr.With(ErrInvalidTTYMode, "tty", string(resolved.Build.TTY)))
	}

	if len(resolved.Bundles) == 0 {
		return Options{}, errors.Join(ErrConfiguration, ErrNoBundles)
	}
	if err := ValidateBundles(resolved.Bundles); err != nil {
		return Options{}, err
	}

	return resolved, nil
}

func (o Options) clone() Options {
	c := o
	c.Build.Cmd = slices.Clone(o.Build.Cmd)
	c.Build.Env = maps.Clone(o.Build.Env)
	c.Bundles = make([]BundleDefinition, len(o.Bundles))
	for i, b := range o.Bundles {
		c.Bundles[i] = BundleDefinition{Name: b.Name, Packages: slices.Clone(b.Packages)}
	}
	return c
}

// StatePath returns the path of the state file.
func (o Options) StatePath() string {
	return filepath.Join(o.DllDir, o.StateFile)
}

// BundlePath returns the path of a bundle's output file.
func (o Options) BundlePath(bundle string) string {
	return filepath.Join(o.DllDir, BundleFileName(bundle))
}

// ManifestPath returns the path of a bundle's manifest file.
func (o Options) ManifestPath(bundle string) string {
	return filepath.Join(o.DllDir, ManifestFileName(bundle))
}

// EntryFilePath returns the path of the entry file handed to the bundler.
func (o Options) EntryFilePath() string {
	return filepath.Join(o.DllDir, EntryFileName)
}

// BundleArtifact lists the files a rebuild produced for one bundle.
type BundleArtifact struct {
	Name     string
	File     string
	Manifest string
}

// BuildArtifacts is the result of a successful rebuild.
type BuildArtifacts struct {
	Bundles  []BundleArtifact
	Duration time.Duration
}
