package ports

import "go.trai.ch/dll/internal/core/domain"

// ConfigLoader defines the interface for loading the bundle configuration.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load reads the configuration and returns resolved options.
	// When configPath is empty, dll.yaml is discovered by walking up from cwd.
	Load(cwd, configPath string) (domain.Options, error)
}
