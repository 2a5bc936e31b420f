// Package provision runs the ordered, idempotent provisioning sequence.
//
// Each step checks before it acts and returns an explicit Outcome. The
// sequencer consults the step's Policy to decide whether a failure stops the
// run or is recorded as a warning.
package provision

import (
	"context"
	"errors"
	"fmt"

	"mac-bootstrap/internal/logger"
)

// ErrPending is returned when a step is waiting on a manual OS installer.
// The run stopped early but nothing failed; the operator re-runs afterwards.
var ErrPending = errors.New("waiting on a manual installer")

// Step is one unit of the sequence.
type Step struct {
	Name     string
	Category string
	Policy   Policy
	Apply    func(ctx context.Context) (Outcome, error)
}

// StepError is returned when an AbortOnFailure step fails.
type StepError struct {
	Step string
	Err  error
}

func (e *StepError) Error() string { return fmt.Sprintf("%s: %v", e.Step, e.Err) }

func (e *StepError) Unwrap() error { return e.Err }

// Sequencer executes steps strictly in order.
type Sequencer struct {
	Steps []Step
}

// Run applies every step until the list ends, a step aborts, a step is pending,
// or ctx is cancelled. The report covers every step that started.
func (s *Sequencer) Run(ctx context.Context) (*Report, error) {
	report := &Report{}
	for _, step := range s.Steps {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		outcome, err := step.Apply(ctx)
		res := Result{Step: step.Name, Category: step.Category, Outcome: outcome, Err: err}

		switch {
		case err != nil && step.Policy == TolerateFailure && ctx.Err() == nil:
			res.Outcome = OutcomeTolerated
			report.add(res)
			logger.Warning("%s failed, continuing: %v", step.Name, err)

		case err != nil:
			res.Outcome = OutcomeFailed
			report.add(res)
			logger.Error("%s failed: %v", step.Name, err)
			return report, &StepError{Step: step.Name, Err: err}

		case outcome == OutcomePending:
			report.add(res)
			return report, ErrPending

		default:
			report.add(res)
		}
	}
	return report, nil
}
