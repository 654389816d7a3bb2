package errors

import (
	"fmt"
	"strings"
)

// ItemError records the failure of a single batch item.
type ItemError struct {
	ID  string `json:"id"`
	Err error  `json:"-"`
}

func (e ItemError) Error() string {
	return fmt.Sprintf("%s: %v", e.ID, e.Err)
}

// Report is the outcome of a batch operation. A batch never fails as a
// whole because of a single item; callers read Succeeded, Skipped and
// Failures instead.
type Report struct {
	Total     int         `json:"total"`
	Succeeded int         `json:"succeeded"`
	Outputs   []string    `json:"outputs,omitempty"`
	Skipped   []string    `json:"skipped,omitempty"`
	Failures  []ItemError `json:"-"`
}

// AddSuccess counts one successful item. An empty output is not recorded.
func (r *Report) AddSuccess(output string) {
	r.Succeeded++
	if output != "" {
		r.Outputs = append(r.Outputs, output)
	}
}

// AddSkipped records an item that was intentionally left untouched.
func (r *Report) AddSkipped(id string) {
	r.Skipped = append(r.Skipped, id)
}

// AddFailure records a failed item together with its identifier.
func (r *Report) AddFailure(id string, err error) {
	r.Failures = append(r.Failures, ItemError{ID: id, Err: err})
}

// Merge folds other into r.
func (r *Report) Merge(other Report) {
	r.Total += other.Total
	r.Succeeded += other.Succeeded
	r.Outputs = append(r.Outputs, other.Outputs...)
	r.Skipped = append(r.Skipped, other.Skipped...)
	r.Failures = append(r.Failures, other.Failures...)
}

// Failed reports whether any item failed.
func (r Report) Failed() bool {
	return len(r.Failures) > 0
}

// Summary renders the "N/M succeeded" line.
func (r Report) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d/%d succeeded", r.Succeeded, r.Total)
	if n := len(r.Skipped); n > 0 {
		fmt.Fprintf(&b, ", %d skipped", n)
	}
	if n := len(r.Failures); n > 0 {
		fmt.Fprintf(&b, ", %d failed", n)
	}
	return b.String()
}

// FailureMessages returns one "id: error" string per failure.
func (r Report) FailureMessages() []string {
	out := make([]string, 0, len(r.Failures))
	for _, f := range r.Failures {
		out = append(out, f.Error())
	}
	return out
}
