package domain

// StaleReason explains why a bundle was or was not considered stale.
type StaleReason string

const (
	// ReasonUpToDate means the stored state matches the definition.
	ReasonUpToDate StaleReason = "up-to-date"
	// ReasonFirstBuild means no state exists for the bundle.
	ReasonFirstBuild StaleReason = "first-build"
	// ReasonPackagesChanged means the canonical package set differs from the stored one.
	ReasonPackagesChanged StaleReason = "packages-changed"
	// ReasonVersionsChanged means an installed package version differs from the stored one.
	ReasonVersionsChanged StaleReason = "versions-changed"
	// ReasonCorruptState means the state file could not be parsed.
	ReasonCorruptState StaleReason = "corrupt-state"
	// ReasonUnreadableState means the state file or a package version could not be read.
	ReasonUnreadableState StaleReason = "unreadable-state"
	// ReasonManifestMissing means the bundle's manifest file does not exist.
	ReasonManifestMissing StaleReason = "manifest-missing"
	// ReasonForced means a rebuild was requested regardless of state.
	ReasonForced StaleReason = "forced"
)

// Verdict is the outcome of comparing one bundle definition against the stored state.
type Verdict struct {
	Bundle BundleDefinition
	Stale  bool
	Reason StaleReason
	// Fingerprint is the digest of the bundle's current composition.
	Fingerprint string
}

// StaleBundles returns the stale bundles of the verdicts, preserving order.
func StaleBundles(verdicts []Verdict) []BundleDefinition {
	stale := make([]BundleDefinition, 0, len(verdicts))
	for _, v := range verdicts {
		if v.Stale {
			stale = append(stale, v.Bundle)
		}
	}
	return stale
}
