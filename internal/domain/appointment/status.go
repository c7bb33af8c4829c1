package appointment

import (
	"fmt"
	"strings"
)

// Appointment statuses, in chronological order of a normal visit. Cancelled
// and no_show are side exits reachable from any non-terminal status.
const (
	StatusPending     = "pending"
	StatusUnconfirmed = "unconfirmed"
	StatusScheduled   = "scheduled"
	StatusConfirmed   = "confirmed"
	StatusCheckedIn   = "checked_in"
	StatusInTreatment = "in_treatment"
	StatusCompleted   = "completed"
	StatusCancelled   = "cancelled"
	StatusNoShow      = "no_show"
)

// statusOrder is the canonical listing used in error messages and to define
// chronological position for strict-flow validation.
var statusOrder = []string{
	StatusPending,
	StatusUnconfirmed,
	StatusScheduled,
	StatusConfirmed,
	StatusCheckedIn,
	StatusInTreatment,
	StatusCompleted,
	StatusCancelled,
	StatusNoShow,
}

// stageIndex maps each progression status to its position in the visit flow.
// Terminal side exits (cancelled, no_show) are not stages.
var stageIndex = map[string]int{
	StatusPending:     0,
	StatusUnconfirmed: 1,
	StatusScheduled:   2,
	StatusConfirmed:   3,
	StatusCheckedIn:   4,
	StatusInTreatment: 5,
	StatusCompleted:   6,
}

var statusLabels = map[string]string{
	StatusPending:     "Pending",
	StatusUnconfirmed: "Unconfirmed",
	StatusScheduled:   "Scheduled",
	StatusConfirmed:   "Confirmed",
	StatusCheckedIn:   "Checked In",
	StatusInTreatment: "In Treatment",
	StatusCompleted:   "Completed",
	StatusCancelled:   "Cancelled",
	StatusNoShow:      "No-Show",
}

var validStatuses = func() map[string]bool {
	m := make(map[string]bool, len(statusOrder))
	for _, s := range statusOrder {
		m[s] = true
	}
	return m
}()

// InvalidStatusError reports a status string outside the recognized set. It is
// recoverable: callers reject the write and surface the allowed values.
type InvalidStatusError struct {
	Status string
}

func (e *InvalidStatusError) Error() string {
	return fmt.Sprintf("invalid appointment status %q: must be one of %s",
		e.Status, strings.Join(statusOrder, ", "))
}

// ValidateStatus checks candidate against the closed status set (exact,
// case-sensitive match) and returns the canonical value, or an
// *InvalidStatusError. Any recognized status may replace any other; legality
// of the edge is only enforced when strict flow is enabled (see
// ValidateTransition).
func ValidateStatus(candidate string) (string, error) {
	if !validStatuses[candidate] {
		return "", &InvalidStatusError{Status: candidate}
	}
	return candidate, nil
}

// StatusLabel returns the human-readable label for a status. Unknown values
// are echoed back unchanged so display code never has to special-case them.
func StatusLabel(status string) string {
	if label, ok := statusLabels[status]; ok {
		return label
	}
	return status
}

// IsTerminalStatus reports whether no further transition is attempted from
// status in the normal visit flow.
func IsTerminalStatus(status string) bool {
	return status == StatusCompleted || status == StatusCancelled || status == StatusNoShow
}

// ValidateTransition enforces the chronological visit flow: a status may only
// move forward through pending → unconfirmed → scheduled → confirmed →
// checked_in → in_treatment → completed (skipping stages is allowed), with
// cancelled and no_show reachable from any non-terminal status. Terminal
// statuses accept no further transitions.
//
// This is the optional strict mode; the default write path only requires set
// membership via ValidateStatus.
func ValidateTransition(from, to string) error {
	if _, err := ValidateStatus(to); err != nil {
		return err
	}
	if from == "" || from == to {
		return nil
	}
	if _, err := ValidateStatus(from); err != nil {
		return err
	}
	if IsTerminalStatus(from) {
		return fmt.Errorf("appointment status %q is terminal and cannot change to %q", from, to)
	}
	if to == StatusCancelled || to == StatusNoShow {
		return nil
	}
	if stageIndex[to] < stageIndex[from] {
		return fmt.Errorf("appointment status cannot move backwards from %q to %q", from, to)
	}
	return nil
}
