package domain

import "time"

// Assignment links a complaint to the technician responsible for it.
// ResolutionNotes and ResolvedAt are set together, once.
type Assignment struct {
	ID              int64
	ComplaintID     int64
	TechnicianID    int64
	AssignedAt      time.Time
	ResolutionNotes *string
	ResolvedAt      *time.Time
}

// Resolved reports whether the assignment has been closed out.
func (a Assignment) Resolved() bool {
	return a.ResolvedAt != nil
}

// AssignmentDetails is the technician-facing view of an assignment.
type AssignmentDetails struct {
	TechnicianName  string
	TechnicianPhone string
	Expertise       Expertise
	AssignedAt      time.Time
	ResolutionNotes *string
	ResolvedAt      *time.Time
}
