// Package sla implements deadline computation and timeliness classification
// for tickets. Deadlines are plain clock arithmetic: calendar-aware, not
// business-hours-aware.
package sla

import "time"

// State classifies a ticket against its SLA deadline.
type State string

const (
	StateOnTime       State = "on_time"
	StateNearDeadline State = "near_deadline"
	StateOverdue      State = "overdue"
)

// NearDeadlineWindow is how close to the deadline a ticket must be before it
// is flagged as near-deadline.
const NearDeadlineWindow = 2 * time.Hour

// Deadline returns createdAt plus the category's SLA hour budget. The result
// is fixed at ticket creation and never recomputed.
func Deadline(createdAt time.Time, slaHours int) time.Time {
	return createdAt.Add(time.Duration(slaHours) * time.Hour)
}

// Classify reports the ticket's timeliness at the given instant. Exactly one
// state holds for any now: overdue when now is past the deadline,
// near-deadline when the deadline is within NearDeadlineWindow, on-time
// otherwise. Callers only apply this to tickets that are not yet resolved or
// closed.
func Classify(deadline, now time.Time) State {
	if now.After(deadline) {
		return StateOverdue
	}
	if left := deadline.Sub(now); left > 0 && left <= NearDeadlineWindow {
		return StateNearDeadline
	}
	return StateOnTime
}

// ResolutionHours returns the hours between creation and resolution, or 0
// when the ticket has no resolution timestamp.
func ResolutionHours(createdAt time.Time, resolvedAt *time.Time) float64 {
	if resolvedAt == nil {
		return 0
	}
	return resolvedAt.Sub(createdAt).Hours()
}
