package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Dllfile represents the structure of the dll.yaml configuration file.
type Dllfile struct {
	Version         string     `yaml:"version"`
	Context         string     `yaml:"context"`
	DllDir          string     `yaml:"dllDir"`
	StateFile       string     `yaml:"stateFile"`
	TrackVersions   bool       `yaml:"trackVersions"`
	VerifyManifests bool       `yaml:"verifyManifests"`
	Rebuild         string     `yaml:"rebuild"`
	Build           BuildDTO   `yaml:"build"`
	Bundles         BundleList `yaml:"bundles"`
}

// BuildDTO represents the bundler invocation.
type BuildDTO struct {
	Cmd []string          `yaml:"cmd"`
	Env map[string]string `yaml:"env"`
	TTY string            `yaml:"tty"`
}

// BundleDTO is one entry of the bundles mapping.
type BundleDTO struct {
	Name     string
	Packages []PackageRefDTO
}

// BundleList keeps bundles in document order.
type BundleList []BundleDTO

// UnmarshalYAML decodes a mapping of bundle name to package list without
// losing the order in which bundles were declared.
func (l *BundleList) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: bundles must be a mapping of name to package list", node.Line)
	}

	bundles := make(BundleList, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]

		var packages []PackageRefDTO
		if value.Kind != yaml.SequenceNode && !isNull(value) {
			return fmt.Errorf("line %d: packages of bundle %q must be a list", value.Line, key.Value)
		}
		if err := value.Decode(&packages); err != nil {
			return err
		}
		bundles = append(bundles, BundleDTO{Name: key.Value, Packages: packages})
	}

	*l = bundles
	return nil
}

// PackageRefDTO is either a plain package name or a {name, path} descriptor.
type PackageRefDTO struct {
	Name       string
	Path       string
	Descriptor bool
}

type descriptorDTO struct {
	Name string `yaml:"name"`
	Path string `yaml:"path"`
}

// UnmarshalYAML accepts a scalar or a mapping with name and path.
func (r *PackageRefDTO) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*r = PackageRefDTO{Name: node.Value}
		return nil
	case yaml.MappingNode:
		var d descriptorDTO
		if err := node.Decode(&d); err != nil {
			return err
		}
		*r = PackageRefDTO{Name: d.Name, Path: d.Path, Descriptor: true}
		return nil
	default:
		return fmt.Errorf("line %d: package reference must be a string or a {name, path} mapping", node.Line)
	}
}

func isNull(node *yaml.Node) bool {
	return node.Kind == yaml.ScalarNode && node.Tag == "!!null"
}
