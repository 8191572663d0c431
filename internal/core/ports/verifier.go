package ports

// ManifestVerifier checks that bundle manifests exist.
//
//go:generate mockgen -destination=mocks/verifier_mock.go -package=mocks -source=verifier.go
type ManifestVerifier interface {
	// MissingManifests returns the bundle names whose manifest file is absent from dllDir.
	MissingManifests(dllDir string, bundles []string) ([]string, error)
}
