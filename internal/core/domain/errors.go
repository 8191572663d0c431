package domain

import "go.trai.ch/zerr"

// Error categories. Adapters and the engine join one of these with the
// specific error so callers can classify failures with errors.Is.
var (
	// ErrConfiguration is returned for invalid options or bundle definitions.
	// It is fatal and reported before any check runs.
	ErrConfiguration = zerr.New("invalid configuration")

	// ErrCorruptState is returned when the state file exists but cannot be parsed.
	ErrCorruptState = zerr.New("corrupt bundle state")

	// ErrStateRead is returned when the state file exists but cannot be read.
	ErrStateRead = zerr.New("failed to read bundle state")

	// ErrStateDirectory is returned when the state directory cannot be created.
	ErrStateDirectory = zerr.New("failed to create bundle state directory")

	// ErrStatePersist is returned when the bundle state cannot be written.
	ErrStatePersist = zerr.New("failed to persist bundle state")

	// ErrStateLocked is returned when another process holds the state lock.
	ErrStateLocked = zerr.New("bundle state is locked by another process")

	// ErrBuildFailed is returned when the bundler reports a failed rebuild.
	ErrBuildFailed = zerr.New("bundle rebuild failed")

	// ErrInvalidCycleTransition is returned when a cycle attempts an illegal state change.
	ErrInvalidCycleTransition = zerr.New("invalid cycle transition")

	// ErrStaleBundles is returned by `dll check --exit-code` when bundles are stale.
	ErrStaleBundles = zerr.New("stale bundles found")
)

// Configuration errors, always joined with ErrConfiguration.
var (
	// ErrContextNotAbsolute is returned when the configured context is a relative path.
	ErrContextNotAbsolute = zerr.New("context must be an absolute path")

	// ErrMissingDllDir is returned when no bundle directory is configured.
	ErrMissingDllDir = zerr.New("dllDir is required")

	// ErrNoBundles is returned when the configuration declares no bundles.
	ErrNoBundles = zerr.New("no bundles configured")

	// ErrEmptyBundleName is returned when a bundle has an empty name.
	ErrEmptyBundleName = zerr.New("bundle name is empty")

	// ErrInvalidBundleName is returned when a bundle name cannot be used as a file name.
	ErrInvalidBundleName = zerr.New("bundle name can only contain alphanumeric characters, dots, hyphens and underscores")

	// ErrDuplicateBundle is returned when two bundles share a name.
	ErrDuplicateBundle = zerr.New("duplicate bundle name")

	// ErrEmptyPackageRef is returned when a package reference has no name.
	ErrEmptyPackageRef = zerr.New("package reference is empty")

	// ErrEmptyDescriptorPath is returned when a {name, path} descriptor has no path.
	ErrEmptyDescriptorPath = zerr.New("package descriptor path is empty")

	// ErrInvalidRebuildMode is returned for an unknown rebuild mode.
	ErrInvalidRebuildMode = zerr.New("invalid rebuild mode, expected 'stale' or 'all'")

	// ErrInvalidTTYMode is returned for an unknown build.tty value.
	ErrInvalidTTYMode = zerr.New("invalid tty mode, expected 'auto', 'always' or 'never'")

	// ErrNoBuildCommand is returned when a rebuild is needed but no build command is configured.
	ErrNoBuildCommand = zerr.New("no build command configured")
)

// Config file errors.
var (
	// ErrConfigNotFound is returned when no dll.yaml is found.
	ErrConfigNotFound = zerr.New("could not find dll.yaml")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrFailedToGetWorkingDir is returned when the working directory cannot be determined.
	ErrFailedToGetWorkingDir = zerr.New("failed to get working directory")
)

// Adapter errors.
var (
	// ErrVersionResolveFailed is returned when an installed package.json cannot be parsed.
	ErrVersionResolveFailed = zerr.New("failed to resolve installed package version")

	// ErrEntryFileWriteFailed is returned when the bundler entry file cannot be written.
	ErrEntryFileWriteFailed = zerr.New("failed to write bundler entry file")

	// ErrBundlerStartFailed is returned when the bundler process cannot be started.
	ErrBundlerStartFailed = zerr.New("failed to start bundler")

	// ErrManifestStatFailed is returned when a manifest path cannot be inspected.
	ErrManifestStatFailed = zerr.New("failed to stat manifest")

	// ErrWatcherStartFailed is returned when the file watcher cannot be started.
	ErrWatcherStartFailed = zerr.New("failed to start config watcher")

	// ErrTelemetrySetup is returned when the span exporter cannot be installed or flushed.
	ErrTelemetrySetup = zerr.New("failed to set up tracing")
)
