package orchestrator

import (
	"time"

	"github.com/vk/meepgen/internal/section"
	"github.com/vk/meepgen/internal/validate"
)

// State is the generation state of one section.
type State string

const (
	StatePending    State = "pending"
	StateGenerating State = "generating"
	StateComplete   State = "complete"
	StateError      State = "error"
	StateAborted    State = "aborted"
)

// Status is the latest transition of a section.
type Status struct {
	Section   section.Section
	State     State
	StartTime time.Time
	EndTime   time.Time
	Err       error
}

// Outcome is the result of one section task of a pass.
type Outcome struct {
	Section  section.Section
	State    State
	Err      error
	Warnings []validate.Warning
	Duration time.Duration
}

// PassResult collects the outcomes of a pass in canonical section order.
type PassResult struct {
	Outcomes []Outcome
}

// OK reports whether no section failed. Aborted sections are not failures.
func (r *PassResult) OK() bool {
	return len(r.Errors()) == 0
}

// Aborted reports whether any section observed the abort.
func (r *PassResult) Aborted() bool {
	for _, o := range r.Outcomes {
		if o.State == StateAborted {
			return true
		}
	}
	return false
}

// Errors returns the section generation errors.
func (r *PassResult) Errors() []error {
	var out []error
	for _, o := range r.Outcomes {
		if o.State == StateError {
			out = append(out, o.Err)
		}
	}
	return out
}

// Warnings returns every validation warning of the pass.
func (r *PassResult) Warnings() []validate.Warning {
	var out []validate.Warning
	for _, o := range r.Outcomes {
		out = append(out, o.Warnings...)
	}
	return out
}

// Sections returns the sections the pass ran, in order.
func (r *PassResult) Sections() []section.Section {
	out := make([]section.Section, len(r.Outcomes))
	for i, o := range r.Outcomes {
		out[i] = o.Section
	}
	return out
}
