package wave

import (
	"fmt"

	"wavefront/internal/types"
)

// progressionSlack absorbs float noise when comparing progressions of two
// consecutive states.
const progressionSlack = 1e-9

// ValidateTransition checks the monotonic invariants between the last
// published state and a candidate. A fresh wave occurrence (different
// WaveID) resets all of them. Issues never mutate either state; the caller
// decides whether error-severity findings block publishing.
func ValidateTransition(prev, next types.EventState) []types.StateValidationIssue {
	if prev.EventID == "" || prev.WaveID != next.WaveID {
		return nil
	}

	var issues []types.StateValidationIssue
	if next.Progression < prev.Progression-progressionSlack {
		issues = append(issues, types.StateValidationIssue{
			Field:    "progression",
			Issue:    fmt.Sprintf("progression regressed from %.6f to %.6f", prev.Progression, next.Progression),
			Severity: types.SeverityError,
		})
	}
	if prev.UserHasBeenHit && !next.UserHasBeenHit {
		issues = append(issues, types.StateValidationIssue{
			Field:    "user_has_been_hit",
			Issue:    "hit flag cannot revert within the same wave occurrence",
			Severity: types.SeverityError,
		})
	}
	if next.Status.Rank() < prev.Status.Rank() {
		issues = append(issues, types.StateValidationIssue{
			Field:    "status",
			Issue:    fmt.Sprintf("status regressed from %s to %s", prev.Status, next.Status),
			Severity: types.SeverityWarning,
		})
	}
	return issues
}

// BlocksPublish reports whether any issue is severe enough to keep the
// previous state published.
func BlocksPublish(issues []types.StateValidationIssue) bool {
	for _, is := range issues {
		if is.Severity == types.SeverityError {
			return true
		}
	}
	return false
}
