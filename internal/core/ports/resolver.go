package ports

import "go.trai.ch/dll/internal/core/domain"

// VersionResolver looks up installed package versions.
//
//go:generate mockgen -destination=mocks/resolver_mock.go -package=mocks -source=resolver.go
type VersionResolver interface {
	// ResolveVersion returns the installed version of the package behind ref,
	// resolved from contextDir. It returns "" and a nil error when the package is not installed.
	ResolveVersion(contextDir string, ref domain.PackageRef) (string, error)
}
