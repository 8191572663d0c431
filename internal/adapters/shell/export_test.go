package shell

// NewRebuilderWithTerminal creates a rebuilder with a fixed terminal detection result.
func NewRebuilderWithTerminal(interactive bool) *Rebuilder {
	return &Rebuilder{interactive: func() bool { return interactive }}
}

// ResolveEnvironment exposes resolveEnvironment for tests.
var ResolveEnvironment = resolveEnvironment
