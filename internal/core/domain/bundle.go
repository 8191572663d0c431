package domain

import (
	"errors"
	"regexp"
	"slices"

	"go.trai.ch/zerr"
)

// RefKind distinguishes the two shapes a package reference can take.
type RefKind uint8

const (
	// RefName is a plain package specifier such as "react" or "lodash/fp".
	RefName RefKind = iota
	// RefDescriptor is a {name, path} pair pinning the module path of a package.
	RefDescriptor
)

// PackageRef is one entry of a bundle's package list.
type PackageRef struct {
	kind RefKind
	name string
	path string
}

// NewNameRef creates a plain package reference.
func NewNameRef(name string) PackageRef {
	return PackageRef{kind: RefName, name: name}
}

// NewDescriptorRef creates a reference that pins a package to a module path.
func NewDescriptorRef(name, path string) PackageRef {
	return PackageRef{kind: RefDescriptor, name: name, path: path}
}

// Kind returns the reference shape.
func (r PackageRef) Kind() RefKind {
	return r.kind
}

// Name returns the package name.
func (r PackageRef) Name() string {
	return r.name
}

// Path returns the pinned module path. It is empty for plain references.
func (r PackageRef) Path() string {
	return r.path
}

// Canonical returns the identifier used for fingerprinting and for the bundler entry.
// A descriptor is identified by its path, a plain reference by its name.
func (r PackageRef) Canonical() string {
	if r.kind == RefDescriptor {
		return r.path
	}
	return r.name
}

// String implements fmt.Stringer.
func (r PackageRef) String() string {
	if r.kind == RefDescriptor {
		return r.name + " (" + r.path + ")"
	}
	return r.name
}

// Validate reports whether the reference can be canonicalized.
func (r PackageRef) Validate() error {
	if r.name == "" {
		return ErrEmptyPackageRef
	}
	if r.kind == RefDescriptor && r.path == "" {
		return zerr.With(ErrEmptyDescriptorPath, "package", r.name)
	}
	return nil
}

// BundleDefinition is a named, ordered list of packages that compiles into one bundle.
type BundleDefinition struct {
	Name     string
	Packages []PackageRef
}

// CanonicalPackages returns the sorted, de-duplicated canonical identifiers of the bundle.
func (b BundleDefinition) CanonicalPackages() []string {
	return CanonicalizeRefs(b.Packages)
}

// EntryPackages returns the canonical identifiers in declaration order, as handed to the bundler.
func (b BundleDefinition) EntryPackages() []string {
	entry := make([]string, len(b.Packages))
	for i, ref := range b.Packages {
		entry[i] = ref.Canonical()
	}
	return entry
}

// CanonicalizeRefs reduces references to their sorted, de-duplicated canonical form.
func CanonicalizeRefs(refs []PackageRef) []string {
	ids := make([]string, len(refs))
	for i, ref := range refs {
		ids[i] = ref.Canonical()
	}
	return CanonicalizeIDs(ids)
}

// CanonicalizeIDs sorts and de-duplicates already normalized identifiers.
// The input slice is not modified.
func CanonicalizeIDs(ids []string) []string {
	out := slices.Clone(ids)
	slices.Sort(out)
	return slices.Compact(out)
}

var validBundleNameRegex = regexp.MustCompile(`^[a-zA-Z0-9_.-]+$`)

// ValidateBundleName checks that a bundle name is usable as a file name prefix.
func ValidateBundleName(name string) error {
	if name == "" {
		return ErrEmptyBundleName
	}
	if name == "." || name == ".." || !validBundleNameRegex.MatchString(name) {
		return zerr.With(ErrInvalidBundleName, "bundle", name)
	}
	return nil
}

// ValidateBundles checks names and package references of a bundle list.
// Every failure is joined with ErrConfiguration.
func ValidateBundles(bundles []BundleDefinition) error {
	seen := make(map[string]struct{}, len(bundles))
	for _, b := range bundles {
		if err := ValidateBundleName(b.Name); err != nil {
			return errors.Join(ErrConfiguration, err)
		}
		if _, ok := seen[b.Name]; ok {
			return errors.Join(ErrConfiguration, zerr.With(ErrDuplicateBundle, "bundle", b.Name))
		}
		seen[b.Name] = struct{}{}

		for _, ref := range b.Packages {
			if err := ref.Validate(); err != nil {
				return errors.Join(ErrConfiguration, zerr.With(err, "bundle", b.Name))
			}
		}
	}
	return nil
}

// BundleNames returns the names of the given bundles in order.
func BundleNames(bundles []BundleDefinition) []string {
	names := make([]string, len(bundles))
	for i, b := range bundles {
		names[i] = b.Name
	}
	return names
}
