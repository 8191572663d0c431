// Package npm reads installed package versions from node_modules.
package npm

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"go.trai.ch/dll/internal/core/domain"
	"go.trai.ch/zerr"
)

// Resolver implements ports.VersionResolver using Node's lookup rules:
// node_modules directories are searched from the context directory upwards.
type Resolver struct{}

// NewResolver creates a new Resolver.
func NewResolver() *Resolver {
	return &Resolver{}
}

type packageManifest struct {
	Version string `json:"version"`
}

// ResolveVersion returns the installed version of the package behind ref.
// Relative and absolute module paths are not packages and resolve to "".
// A descriptor is looked up by the package its path belongs to, then by its name.
func (r *Resolver) ResolveVersion(contextDir string, ref domain.PackageRef) (string, error) {
	for _, pkg := range PackageNames(ref) {
		version, found, err := lookupVersion(contextDir, pkg)
		if err != nil || found {
			return version, err
		}
	}
	return "", nil
}

// lookupVersion searches node_modules directories from contextDir upwards.
func lookupVersion(contextDir, pkg string) (string, bool, error) {
	for dir := filepath.Clean(contextDir); ; dir = filepath.Dir(dir) {
		path := filepath.Join(dir, "node_modules", filepath.FromSlash(pkg), "package.json")
		version, found, err := readVersion(path)
		if err != nil || found {
			return version, found, err
		}

		if parent := filepath.Dir(dir); parent == dir {
			return "", false, nil
		}
	}
}

func readVersion(path string) (string, bool, error) {
	//nolint:gosec // Path is built from the project directory and a package name
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", false, nil
		}
		return "", false, errors.Join(domain.ErrVersionResolveFailed, zerr.With(zerr.Wrap(err, "read package.json"), "path", path))
	}

	var manifest packageManifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return "", false, errors.Join(domain.ErrVersionResolveFailed, zerr.Wrap(err, "decode "+path))
	}
	return manifest.Version, true, nil
}

// PackageNames returns the npm packages a reference may belong to, in lookup
// order, e.g. "@angular/core" for "@angular/core/testing" and "lodash" for
// "lodash/fp". A descriptor yields the package of its path, then its name.
func PackageNames(ref domain.PackageRef) []string {
	names := make([]string, 0, 2)
	if pkg := packageRoot(ref.Canonical()); pkg != "" {
		names = append(names, pkg)
	}
	if ref.Kind() == domain.RefDescriptor {
		if pkg := packageRoot(ref.Name()); pkg != "" && !slices.Contains(names, pkg) {
			names = append(names, pkg)
		}
	}
	return names
}

func packageRoot(specifier string) string {
	if specifier == "" || strings.HasPrefix(specifier, ".") || strings.HasPrefix(specifier, "/") {
		return ""
	}

	parts := strings.Split(specifier, "/")
	if strings.HasPrefix(specifier, "@") {
		if len(parts) < 2 || parts[1] == "" {
			return ""
		}
		return parts[0] + "/" + parts[1]
	}
	return parts[0]
}
