package importer

import (
	"fmt"
	"strings"

	"github.com/placedex/placedex/pkg/registry"
)

// Issue records one failed record's identity and error message.
type Issue struct {
	IdentityKey string `json:"identity_key"`
	Message     string `json:"message"`
}

// Result represents the complete result of one import run.
type Result struct {
	// Outcome counts. Total always equals the sum of the other four.
	Total    int `json:"total"`
	Inserted int `json:"inserted"`
	Updated  int `json:"updated"`
	Skipped  int `json:"skipped"`
	Failed   int `json:"failed"`

	// Errors holds one entry per failed record, in batch order.
	Errors []Issue `json:"errors,omitempty"`

	// Stats carries registry dedup statistics when the run went
	// through an identity registry. Zero for plain persist batches.
	Stats registry.Stats `json:"stats"`
}

func (r *Result) recordInserted() {
	r.Total++
	r.Inserted++
}

func (r *Result) recordUpdated() {
	r.Total++
	r.Updated++
}

func (r *Result) recordSkipped() {
	r.Total++
	r.Skipped++
}

func (r *Result) recordFailed(identityKey string, err error) {
	r.Total++
	r.Failed++
	r.Errors = append(r.Errors, Issue{IdentityKey: identityKey, Message: err.Error()})
}

// HasFailures returns true if any record failed to persist.
func (r *Result) HasFailures() bool {
	return r.Failed > 0
}

// Summary returns a human-readable summary of the import result.
func (r *Result) Summary() string {
	if r.Total == 0 {
		return "No records imported"
	}

	summary := fmt.Sprintf("%d records: %d inserted, %d updated, %d skipped, %d failed",
		r.Total, r.Inserted, r.Updated, r.Skipped, r.Failed)

	if r.Stats.Total > r.Stats.Unique {
		summary += fmt.Sprintf(" (%d observations merged into %d identities)",
			r.Stats.Total, r.Stats.Unique)
	}
	return summary
}

// ErrorReport returns one line per failed record, empty when none failed.
func (r *Result) ErrorReport() string {
	if len(r.Errors) == 0 {
		return ""
	}
	lines := make([]string, 0, len(r.Errors))
	for _, issue := range r.Errors {
		lines = append(lines, fmt.Sprintf("%s: %s", issue.IdentityKey, issue.Message))
	}
	return strings.Join(lines, "\n")
}
