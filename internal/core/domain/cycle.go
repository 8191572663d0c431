package domain

// CycleState is a step of a check-then-maybe-rebuild cycle.
type CycleState string

const (
	// CycleIdle is the state before a check and after a commit.
	CycleIdle CycleState = "idle"
	// CycleChecking means the stored state is being compared with the definitions.
	CycleChecking CycleState = "checking"
	// CycleAllValid means no bundle needs a rebuild.
	CycleAllValid CycleState = "all-valid"
	// CycleStaleFound means at least one bundle needs a rebuild.
	CycleStaleFound CycleState = "stale-found"
	// CycleRebuilding means the bundler is running.
	CycleRebuilding CycleState = "rebuilding"
	// CycleCommitted means the rebuild succeeded and the new state was persisted.
	CycleCommitted CycleState = "committed"
	// CycleRebuildFailed means the bundler failed. The stored state is unchanged.
	CycleRebuildFailed CycleState = "rebuild-failed"
)

var cycleTransitions = map[CycleState][]CycleState{
	CycleIdle:          {CycleChecking},
	CycleChecking:      {CycleAllValid, CycleStaleFound},
	CycleAllValid:      {CycleIdle},
	CycleStaleFound:    {CycleRebuilding, CycleIdle},
	CycleRebuilding:    {CycleCommitted, CycleRebuildFailed},
	CycleCommitted:     {CycleIdle},
	CycleRebuildFailed: {CycleIdle},
}

// CanTransition reports whether the cycle may move from s to next.
func (s CycleState) CanTransition(next CycleState) bool {
	for _, allowed := range cycleTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// String implements fmt.Stringer.
func (s CycleState) String() string {
	return string(s)
}
