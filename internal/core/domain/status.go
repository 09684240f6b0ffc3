package domain

import "strings"

// Status is the lifecycle state of a task. Values held by a Status are always
// canonical backend tokens once they have passed through ParseStatus, except
// for unrecognised input which is carried through unchanged.
type Status string

const (
	StatusPending    Status = "PENDING"
	StatusInProgress Status = "IN_PROGRESS"
	StatusCompleted  Status = "COMPLETED"
)

var statusLabels = map[Status]string{
	StatusPending:    "Pending",
	StatusInProgress: "In Progress",
	StatusCompleted:  "Completed",
}

// statusAliases maps every accepted spelling (token or label) to its token.
var statusAliases = map[string]Status{
	"PENDING":     StatusPending,
	"Pending":     StatusPending,
	"IN_PROGRESS": StatusInProgress,
	"In Progress": StatusInProgress,
	"COMPLETED":   StatusCompleted,
	"Completed":   StatusCompleted,
}

// ParseStatus returns the canonical token for s. Both the backend token and the
// display label are accepted; anything else is returned unchanged.
func ParseStatus(s string) Status {
	if st, ok := statusAliases[strings.TrimSpace(s)]; ok {
		return st
	}
	return Status(s)
}

// Label returns the display label, or the raw value for unknown statuses.
func (s Status) Label() string {
	if label, ok := statusLabels[ParseStatus(string(s))]; ok {
		return label
	}
	return string(s)
}

// Known reports whether s is one of the recognised statuses in either spelling.
func (s Status) Known() bool {
	_, ok := statusLabels[ParseStatus(string(s))]
	return ok
}

// Is compares two statuses after normalisation.
func (s Status) Is(other Status) bool {
	return ParseStatus(string(s)) == ParseStatus(string(other))
}

// Statuses lists the recognised statuses in workflow order.
func Statuses() []Status {
	return []Status{StatusPending, StatusInProgress, StatusCompleted}
}
