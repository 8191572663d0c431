// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/dll/internal/adapters/config"
	_ "go.trai.ch/dll/internal/adapters/logger"
	_ "go.trai.ch/dll/internal/adapters/manifest"
	_ "go.trai.ch/dll/internal/adapters/npm"
	_ "go.trai.ch/dll/internal/adapters/shell"
	_ "go.trai.ch/dll/internal/adapters/state"
	_ "go.trai.ch/dll/internal/adapters/telemetry"
	_ "go.trai.ch/dll/internal/adapters/watcher"
	// Register app nodes.
	_ "go.trai.ch/dll/internal/app"
)
