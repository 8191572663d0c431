// Package config provides the configuration loader for dll.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.trai.ch/dll/internal/core/domain"
	"go.trai.ch/dll/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// SupportedVersion is the configuration schema version understood by the loader.
const SupportedVersion = "1"

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct {
	Logger ports.Logger
}

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger}
}

// Load reads dll.yaml and returns resolved options. Relative paths resolve
// against the configured context, which defaults to cwd.
func (l *Loader) Load(cwd, configPath string) (domain.Options, error) {
	path, err := l.locate(cwd, configPath)
	if err != nil {
		return domain.Options{}, err
	}

	var dllfile Dllfile
	if err := readAndUnmarshalYAML(path, &dllfile); err != nil {
		return domain.Options{}, errors.Join(domain.ErrConfiguration, zerr.With(err, "path", path))
	}

	if dllfile.Version != "" && dllfile.Version != SupportedVersion {
		l.Logger.Warn(fmt.Sprintf("%s declares version %q, expected %q", path, dllfile.Version, SupportedVersion))
	}

	opts, err := toOptions(dllfile).Resolve(cwd)
	if err != nil {
		return domain.Options{}, zerr.With(err, "path", path)
	}
	opts.ConfigPath = path
	return opts, nil
}

// locate returns the explicit config path or searches cwd and its parents for dll.yaml.
func (l *Loader) locate(cwd, configPath string) (string, error) {
	if configPath != "" {
		if !filepath.IsAbs(configPath) {
			configPath = filepath.Join(cwd, configPath)
		}
		if _, err := os.Stat(configPath); err != nil {
			return "", errors.Join(domain.ErrConfiguration, zerr.With(zerr.Wrap(err, domain.ErrConfigNotFound.Error()), "path", configPath))
		}
		return filepath.Clean(configPath), nil
	}

	currentDir := cwd
	for {
		candidate := filepath.Join(currentDir, domain.ConfigFileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached root
			break
		}
		currentDir = parentDir
	}

	return "", errors.Join(domain.ErrConfiguration, zerr.With(domain.ErrConfigNotFound, "cwd", cwd))
}

func toOptions(f Dllfile) domain.Options {
	bundles := make([]domain.BundleDefinition, len(f.Bundles))
	for i, b := range f.Bundles {
		refs := make([]domain.PackageRef, len(b.Packages))
		for j, p := range b.Packages {
			if p.Descriptor {
				refs[j] = domain.NewDescriptorRef(p.Name, p.Path)
			} else {
				refs[j] = domain.NewNameRef(p.Name)
			}
		}
		bundles[i] = domain.BundleDefinition{Name: b.Name, Packages: refs}
	}

	return domain.Options{
		Context:         f.Context,
		DllDir:          f.DllDir,
		StateFile:       f.StateFile,
		TrackVersions:   f.TrackVersions,
		VerifyManifests: f.VerifyManifests,
		Rebuild:         domain.RebuildMode(f.Rebuild),
		Build: domain.BuildCommand{
			Cmd: f.Build.Cmd,
			Env: f.Build.Env,
			TTY: domain.TTYMode(f.Build.TTY),
		},
		Bundles: bundles,
	}
}

// readAndUnmarshalYAML reads a YAML file and strictly decodes it into target.
func readAndUnmarshalYAML[T any](configPath string, target *T) error {
	// #nosec G304 -- configPath is located by the loader
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		return zerr.Wrap(err, domain.ErrConfigReadFailed.Error())
	}

	decoder := yaml.NewDecoder(bytes.NewReader(configFile))
	decoder.KnownFields(true)
	if parseErr := decoder.Decode(target); parseErr != nil && !errors.Is(parseErr, io.EOF) {
		return zerr.Wrap(parseErr, domain.ErrConfigParseFailed.Error())
	}

	return nil
}
