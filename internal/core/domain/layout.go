package domain

import "path/filepath"

const (
	// ConfigFileName is the name of the project configuration file.
	ConfigFileName = "dll.yaml"

	// DefaultStateFileName is the name of the state file inside the bundle directory.
	DefaultStateFileName = "dll-bundles-state.json"

	// EntryFileName is the name of the entry file handed to the bundler.
	EntryFileName = ".dll-entries.json"

	// BundleFileSuffix is appended to a bundle name to form its output file.
	BundleFileSuffix = ".dll.js"

	// ManifestFileSuffix is appended to a bundle name to form its manifest file.
	ManifestFileSuffix = "-manifest.json"

	// LockFileSuffix is appended to the state file path to form the lock file path.
	LockFileSuffix = ".lock"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644
)

// BundleFileName returns the output file name of a bundle, e.g. "vendor.dll.js".
func BundleFileName(bundle string) string {
	return bundle + BundleFileSuffix
}

// ManifestFileName returns the manifest file name of a bundle, e.g. "vendor-manifest.json".
func ManifestFileName(bundle string) string {
	return bundle + ManifestFileSuffix
}

// LockPath returns the lock file path guarding the given state file.
func LockPath(statePath string) string {
	return filepath.Clean(statePath) + LockFileSuffix
}
