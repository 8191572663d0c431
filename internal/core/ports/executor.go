// Package ports defines the core interfaces for the application.
package ports

import (
	"context"
	"io"

	"go.trai.ch/dll/internal/core/domain"
)

// Rebuilder is the boundary to the external bundler.
//
//go:generate go run go.uber.org/mock/mockgen -source=executor.go -destination=mocks/mock_executor.go -package=mocks
type Rebuilder interface {
	// Build compiles the given bundles into opts.DllDir and writes their manifests.
	//
	// Bundler output is streamed to stdout and stderr.
	// It returns an error if the bundler reports a failure.
	Build(
		ctx context.Context,
		opts domain.Options,
		bundles []domain.BundleDefinition,
		stdout, stderr io.Writer,
	) (*domain.BuildArtifacts, error)
}
