// Package manifest checks that the bundler emitted a manifest for each bundle.
package manifest

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"go.trai.ch/dll/internal/core/domain"
	"go.trai.ch/zerr"
)

// Verifier implements ports.ManifestVerifier on the local file system.
type Verifier struct{}

// NewVerifier creates a new Verifier.
func NewVerifier() *Verifier {
	return &Verifier{}
}

// MissingManifests returns the bundles, in input order, whose manifest file
// does not exist in dllDir.
func (v *Verifier) MissingManifests(dllDir string, bundles []string) ([]string, error) {
	var missing []string
	for _, name := range bundles {
		path := filepath.Join(dllDir, domain.ManifestFileName(name))
		info, err := os.Stat(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				missing = append(missing, name)
				continue
			}
			return nil, zerr.With(zerr.Wrap(err, domain.ErrManifestStatFailed.Error()), "path", path)
		}
		if info.IsDir() {
			missing = append(missing, name)
		}
	}
	return missing, nil
}
