package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/dll/internal/adapters/config"    //nolint:depguard // Wired in app layer
	"go.trai.ch/dll/internal/adapters/logger"    //nolint:depguard // Wired in app layer
	"go.trai.ch/dll/internal/adapters/manifest"  //nolint:depguard // Wired in app layer
	"go.trai.ch/dll/internal/adapters/npm"       //nolint:depguard // Wired in app layer
	"go.trai.ch/dll/internal/adapters/shell"     //nolint:depguard // Wired in app layer
	"go.trai.ch/dll/internal/adapters/state"     //nolint:depguard // Wired in app layer
	"go.trai.ch/dll/internal/adapters/telemetry" //nolint:depguard // Wired in app layer
	"go.trai.ch/dll/internal/adapters/watcher"   //nolint:depguard // Wired in app layer
	"go.trai.ch/dll/internal/core/ports"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			state.NodeID,
			shell.NodeID,
			manifest.NodeID,
			npm.NodeID,
			telemetry.TracerNodeID,
			logger.NodeID,
			watcher.NodeID,
		},
		Run: runAppNode,
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Components, error) {
			app, err := graft.Dep[*App](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return &Components{App: app, Logger: log}, nil
		},
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	loader, err := graft.Dep[ports.ConfigLoader](ctx)
	if err != nil {
		return nil, err
	}

	store, err := graft.Dep[ports.StateStore](ctx)
	if err != nil {
		return nil, err
	}

	rebuilder, err := graft.Dep[ports.Rebuilder](ctx)
	if err != nil {
		return nil, err
	}

	verifier, err := graft.Dep[ports.ManifestVerifier](ctx)
	if err != nil {
		return nil, err
	}

	versions, err := graft.Dep[ports.VersionResolver](ctx)
	if err != nil {
		return nil, err
	}

	tracer, err := graft.Dep[ports.Tracer](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	newWatcher, err := graft.Dep[ports.WatcherFactory](ctx)
	if err != nil {
		return nil, err
	}

	return New(loader, store, rebuilder, verifier, versions, tracer, log, newWatcher), nil
}
