package npm

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/dll/internal/core/ports"
)

// NodeID is the unique identifier for the version resolver Graft node.
const NodeID graft.ID = "adapter.version_resolver"

func init() {
	graft.Register(graft.Node[ports.VersionResolver]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.VersionResolver, error) {
			return NewResolver(), nil
		},
	})
}
