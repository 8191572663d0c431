// Package validity decides which vendor bundles must be rebuilt and records
// the state of bundles after a successful rebuild.
package validity

import (
	"fmt"
	"maps"
	"slices"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/dll/internal/core/domain"
)

// Compare decides whether a bundle whose live composition is current must be
// rebuilt, given the prior state recorded for it. found reports whether the
// snapshot held an entry for the bundle at all.
//
// Packages are compared as sets of canonical identifiers. The prior list is
// normalized again so hand-edited files compare correctly.
func Compare(current, prior domain.BundleState, found bool) domain.Verdict {
	verdict := domain.Verdict{Fingerprint: current.Fingerprint}

	switch {
	case !found:
		verdict.Stale, verdict.Reason = true, domain.ReasonFirstBuild
	case !slices.Equal(domain.CanonicalizeIDs(current.Packages), domain.CanonicalizeIDs(prior.Packages)):
		verdict.Stale, verdict.Reason = true, domain.ReasonPackagesChanged
	case versionsChanged(current.Packages, current.Versions, prior.Versions):
		verdict.Stale, verdict.Reason = true, domain.ReasonVersionsChanged
	default:
		verdict.Reason = domain.ReasonUpToDate
	}

	return verdict
}

// versionsChanged reports whether a package recorded in prior has a different
// version now, or is no longer installed. current is nil when tracking is off.
// Packages recorded only in current are ignored, so enabling tracking does not
// invalidate bundles built without it.
func versionsChanged(packages []string, current, prior map[string]string) bool {
	if current == nil {
		return false
	}
	for _, id := range packages {
		was, ok := prior[id]
		if !ok {
			continue
		}
		if now := current[id]; now != was {
			return true
		}
	}
	return false
}

// CurrentState returns the state a bundle would be recorded with right now.
// versions is nil when version tracking is off; packages that are not
// installed have no entry or an empty one.
func CurrentState(def domain.BundleDefinition, versions map[string]string) domain.BundleState {
	packages := def.CanonicalPackages()

	var recorded map[string]string
	if versions != nil {
		recorded = make(map[string]string, len(packages))
	}
	for _, id := range packages {
		if v := versions[id]; v != "" {
			recorded[id] = v
		}
	}

	return domain.BundleState{
		Packages:    packages,
		Fingerprint: Fingerprint(packages, recorded),
		Versions:    recorded,
	}
}

// Fingerprint computes the digest of a canonical package list and its versions.
func Fingerprint(packages []string, versions map[string]string) string {
	hasher := xxhash.New()

	for _, id := range packages {
		_, _ = hasher.WriteString(id)
		_, _ = hasher.Write([]byte{0})
	}
	_, _ = hasher.Write([]byte{0}) // Section separator

	for _, id := range slices.Sorted(maps.Keys(versions)) {
		_, _ = hasher.WriteString(id)
		_, _ = hasher.Write([]byte{0})
		_, _ = hasher.WriteString(versions[id])
		_, _ = hasher.Write([]byte{0})
	}

	return fmt.Sprintf("%016x", hasher.Sum64())
}
