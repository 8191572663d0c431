package shell

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/dll/internal/core/ports"
)

// NodeID is the unique identifier for the rebuilder Graft node.
const NodeID graft.ID = "adapter.rebuilder"

func init() {
	graft.Register(graft.Node[ports.Rebuilder]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{},
		Run: func(_ context.Context) (ports.Rebuilder, error) {
			return NewRebuilder(), nil
		},
	})
}
