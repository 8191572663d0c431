package manifest

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/dll/internal/core/ports"
)

// NodeID is the unique identifier for the manifest verifier Graft node.
const NodeID graft.ID = "adapter.manifest_verifier"

func init() {
	graft.Register(graft.Node[ports.ManifestVerifier]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.ManifestVerifier, error) {
			return NewVerifier(), nil
		},
	})
}
