package domain

import "strings"

// Priority is a task's importance. The client works with the display label
// (Low/Medium/High) and sends it verbatim; the server stores the upper-case
// token. ParsePriority folds either form back to the label.
type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

var priorityRanks = map[Priority]int{
	PriorityHigh:   3,
	PriorityMedium: 2,
	PriorityLow:    1,
}

// ParsePriority accepts the label in any letter case. Unknown values are
// returned unchanged.
func ParsePriority(s string) Priority {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return PriorityLow
	case "medium":
		return PriorityMedium
	case "high":
		return PriorityHigh
	default:
		return Priority(s)
	}
}

// Label returns the display form of p.
func (p Priority) Label() string {
	return string(ParsePriority(string(p)))
}

// Token returns the upper-case storage form used by the server.
func (p Priority) Token() string {
	return strings.ToUpper(p.Label())
}

// Rank orders priorities High > Medium > Low. Unknown priorities rank 0.
func (p Priority) Rank() int {
	return priorityRanks[ParsePriority(string(p))]
}

// Known reports whether p is a recognised priority in any spelling.
func (p Priority) Known() bool {
	return p.Rank() > 0
}

// Is compares two priorities after normalisation.
func (p Priority) Is(other Priority) bool {
	return ParsePriority(string(p)) == ParsePriority(string(other))
}
