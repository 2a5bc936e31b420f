package provision

// Outcome is what a step did to the machine.
type Outcome int

const (
	// OutcomeSatisfied means the desired state was already in place.
	OutcomeSatisfied Outcome = iota
	// OutcomeApplied means the step installed or configured something.
	OutcomeApplied
	// OutcomeSkipped means the operator declined an optional step.
	OutcomeSkipped
	// OutcomeTolerated means the step failed under TolerateFailure and the sequence went on.
	OutcomeTolerated
	// OutcomeFailed means the step failed under AbortOnFailure and the sequence stopped.
	OutcomeFailed
	// OutcomePending means a manual OS installer must finish before re-running.
	OutcomePending
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSatisfied:
		return "satisfied"
	case OutcomeApplied:
		return "applied"
	case OutcomeSkipped:
		return "skipped"
	case OutcomeTolerated:
		return "tolerated"
	case OutcomeFailed:
		return "failed"
	case OutcomePending:
		return "pending"
	}
	return "unknown"
}

// Policy decides whether a failing step stops the sequence.
type Policy int

const (
	AbortOnFailure Policy = iota
	TolerateFailure
)

// Result records one executed step.
type Result struct {
	Step     string
	Category string
	Outcome  Outcome
	Err      error
}

// Report is the ordered record of a run.
type Report struct {
	Results []Result
}

func (r *Report) add(res Result) { r.Results = append(r.Results, res) }

// Count returns how many steps ended with o.
func (r *Report) Count(o Outcome) int {
	n := 0
	for _, res := range r.Results {
		if res.Outcome == o {
			n++
		}
	}
	return n
}

// Tolerated lists the failures that were downgraded to warnings.
func (r *Report) Tolerated() []Result {
	var out []Result
	for _, res := range r.Results {
		if res.Outcome == OutcomeTolerated {
			out = append(out, res)
		}
	}
	return out
}

// Outcome returns the outcome of the named step and whether it ran.
func (r *Report) Outcome(step string) (Outcome, bool) {
	for _, res := range r.Results {
		if res.Step == step {
			return res.Outcome, true
		}
	}
	return 0, false
}
