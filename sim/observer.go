package sim

// Observer receives a run's progress between steps. Observers run on the
// simulator's goroutine and must not mutate the state they are shown.
type Observer interface {
	// OnStart is called once, before the first step, with the initial state.
	OnStart(runID string, state *EpidemicState)
	// OnReaction is called after each applied event with the new counts.
	OnReaction(runID string, r Reaction, counts Counts)
	// OnFinish is called once the run terminates.
	OnFinish(res *Result)
}
