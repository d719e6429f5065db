package entity

type Stage string

const (
	StageTemplate Stage = "template"
	StageDiagram  Stage = "diagram"
	StagePricing  Stage = "pricing"
)

func (s Stage) String() string {
	return string(s)
}

// StageOutcome records how a pipeline stage finished: cleanly, or degraded
// to its fallback value because the session failed or extraction missed.
type StageOutcome struct {
	Stage    Stage
	Degraded bool
	Cause    error
}

func StageOK(stage Stage) StageOutcome {
	return StageOutcome{Stage: stage}
}

func StageDegraded(stage Stage, cause error) StageOutcome {
	return StageOutcome{Stage: stage, Degraded: true, Cause: cause}
}
