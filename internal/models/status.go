package models

import "fmt"

const (
	StatusInProgress = "inProgress"
	StatusDone       = "done"
)

// Status is either InProgress or Done. Only Done carries a completion
// time, so a finished timestamp on an open todo cannot be expressed.
type Status interface {
	statusName() string
}

// InProgress is the status of an open todo.
type InProgress struct{}

// Done is the status of a completed todo.
type Done struct {
	FinishedAt int64 // unix milliseconds
}

func (InProgress) statusName() string { return StatusInProgress }
func (Done) statusName() string       { return StatusDone }

// StatusName returns the wire name of s. A nil status is in progress.
func StatusName(s Status) string {
	if s == nil {
		return StatusInProgress
	}
	return s.statusName()
}

// IsDone reports whether s is the Done variant.
func IsDone(s Status) bool {
	_, ok := s.(Done)
	return ok
}

// FinishedAt returns the completion time when s is Done.
func FinishedAt(s Status) (int64, bool) {
	if d, ok := s.(Done); ok {
		return d.FinishedAt, true
	}
	return 0, false
}

// ParseStatusName accepts the stored names plus the hyphenated
// "in-progress" spelling.
func ParseStatusName(s string) (string, error) {
	switch s {
	case StatusInProgress, "in-progress":
		return StatusInProgress, nil
	case StatusDone:
		return StatusDone, nil
	}
	return "", fmt.Errorf("unknown status %q", s)
}
