package domain

import (
	"maps"
	"slices"
	"time"
)

// BundleState is the persisted record of the last successful build of a bundle.
type BundleState struct {
	// Packages is the sorted, de-duplicated list of canonical package identifiers.
	Packages []string `json:"packages"`
	// Fingerprint is a digest of Packages and Versions.
	Fingerprint string `json:"fingerprint,omitzero"`
	// Versions maps canonical identifiers to installed versions when version tracking is on.
	Versions map[string]string `json:"versions,omitzero"`
	// BuiltAt is the time the state was committed.
	BuiltAt time.Time `json:"built_at,omitzero"`
}

// StateSnapshot maps bundle names to their last committed state.
type StateSnapshot map[string]BundleState

// Lookup returns the state for a bundle and whether one exists.
func (s StateSnapshot) Lookup(name string) (BundleState, bool) {
	state, ok := s[name]
	return state, ok
}

// Names returns the bundle names in the snapshot, sorted.
func (s StateSnapshot) Names() []string {
	return slices.Sorted(maps.Keys(s))
}
