package domain

import (
	"fmt"
	"time"
)

// IssueType enumerates the network problems a customer can report.
type IssueType string

const (
	IssueCallDrop     IssueType = "Call Drop"
	IssueSlowInternet IssueType = "Slow Internet"
	IssueNoSignal     IssueType = "No Signal"
	IssueOther        IssueType = "Other"
)

// AllIssueTypes lists issue types in menu order.
func AllIssueTypes() []IssueType {
	return []IssueType{IssueCallDrop, IssueSlowInternet, IssueNoSignal, IssueOther}
}

// Valid reports whether t is a known issue type.
func (t IssueType) Valid() bool {
	for _, v := range AllIssueTypes() {
		if v == t {
			return true
		}
	}
	return false
}

// ParseIssueType maps a stored or typed value to an IssueType.
func ParseIssueType(s string) (IssueType, error) {
	t := IssueType(s)
	if !t.Valid() {
		return "", fmt.Errorf("unknown issue type %q", s)
	}
	return t, nil
}

// ComplaintStatus enumerates lifecycle states for complaints.
type ComplaintStatus string

const (
	StatusOpen       ComplaintStatus = "Open"
	StatusAssigned   ComplaintStatus = "Assigned"
	StatusInProgress ComplaintStatus = "In Progress"
	StatusResolved   ComplaintStatus = "Resolved"
	StatusClosed     ComplaintStatus = "Closed"
)

// AllStatuses lists statuses in lifecycle order.
func AllStatuses() []ComplaintStatus {
	return []ComplaintStatus{StatusOpen, StatusAssigned, StatusInProgress, StatusResolved, StatusClosed}
}

// Valid reports whether s is a known status.
func (s ComplaintStatus) Valid() bool {
	for _, v := range AllStatuses() {
		if v == s {
			return true
		}
	}
	return false
}

// ParseComplaintStatus maps a stored or typed value to a ComplaintStatus.
func ParseComplaintStatus(s string) (ComplaintStatus, error) {
	st := ComplaintStatus(s)
	if !st.Valid() {
		return "", fmt.Errorf("unknown complaint status %q", s)
	}
	return st, nil
}

var complaintTransitions = map[ComplaintStatus][]ComplaintStatus{
	StatusOpen:       {StatusAssigned},
	StatusAssigned:   {StatusInProgress, StatusResolved},
	StatusInProgress: {StatusResolved},
	StatusResolved:   {StatusClosed},
}

// NextStatuses returns the states reachable from s in one step.
func (s ComplaintStatus) NextStatuses() []ComplaintStatus {
	next := complaintTransitions[s]
	out := make([]ComplaintStatus, len(next))
	copy(out, next)
	return out
}

// CanTransitionTo reports whether next directly follows s in the lifecycle.
func (s ComplaintStatus) CanTransitionTo(next ComplaintStatus) bool {
	for _, v := range complaintTransitions[s] {
		if v == next {
			return true
		}
	}
	return false
}

// IsActive reports whether a technician is currently working the complaint.
func (s ComplaintStatus) IsActive() bool {
	return s == StatusAssigned || s == StatusInProgress
}

// Complaint is a logged network-service issue tied to one customer.
type Complaint struct {
	ID          int64
	CustomerID  int64
	IssueType   IssueType
	Description string
	Location    string
	Status      ComplaintStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// OpenComplaint is a row of the assignment queue.
type OpenComplaint struct {
	ComplaintID  int64
	CustomerName string
	IssueType    IssueType
	Location     string
	CreatedAt    time.Time
}

// ActiveComplaint is a complaint currently worked by a technician.
type ActiveComplaint struct {
	ComplaintID    int64
	CustomerName   string
	IssueType      IssueType
	Status         ComplaintStatus
	TechnicianName string
	AssignedAt     time.Time
}

// ComplaintSummary is a row of the browse listing.
// TechnicianName is nil for complaints never assigned.
type ComplaintSummary struct {
	ComplaintID    int64
	CustomerName   string
	IssueType      IssueType
	Description    string
	Location       string
	Status         ComplaintStatus
	CreatedAt      time.Time
	TechnicianName *string
}

// ComplaintDetails joins a complaint with its customer and assignment.
type ComplaintDetails struct {
	ComplaintID   int64
	CustomerName  string
	CustomerPhone string
	IssueType     IssueType
	Description   string
	Location      string
	Status        ComplaintStatus
	CreatedAt     time.Time
	UpdatedAt     time.Time
	Assignment    *AssignmentDetails
}

// ComplaintWork is an active complaint together with the technician on its open assignment.
type ComplaintWork struct {
	ComplaintID    int64
	Status         ComplaintStatus
	AssignmentID   int64
	TechnicianID   int64
	TechnicianName string
}
