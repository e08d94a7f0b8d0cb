package events

import (
	"time"

	"github.com/spec-kit/telecom-tracker/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventCustomerRegistered     EventType = "customer_registered"
	EventTechnicianRegistered   EventType = "technician_registered"
	EventComplaintLogged        EventType = "complaint_logged"
	EventComplaintAssigned      EventType = "complaint_assigned"
	EventComplaintStatusChanged EventType = "complaint_status_changed"
)

// Event represents a domain event emitted by services after commit.
type Event struct {
	ID          string      `json:"id"`
	Type        EventType   `json:"type"`
	ComplaintID int64       `json:"complaint_id,omitempty"`
	Timestamp   time.Time   `json:"timestamp"`
	Payload     interface{} `json:"payload"`
}

// CustomerRegisteredPayload payload.
type CustomerRegisteredPayload struct {
	CustomerID int64  `json:"customer_id"`
	Name       string `json:"name"`
}

// TechnicianRegisteredPayload payload.
type TechnicianRegisteredPayload struct {
	TechnicianID int64            `json:"technician_id"`
	Name         string           `json:"name"`
	Expertise    domain.Expertise `json:"expertise"`
	Location     string           `json:"location"`
}

// ComplaintLoggedPayload payload.
type ComplaintLoggedPayload struct {
	CustomerID int64            `json:"customer_id"`
	IssueType  domain.IssueType `json:"issue_type"`
	Location   string           `json:"location"`
}

// ComplaintAssignedPayload payload.
type ComplaintAssignedPayload struct {
	AssignmentID   int64  `json:"assignment_id"`
	TechnicianID   int64  `json:"technician_id"`
	TechnicianName string `json:"technician_name"`
}

// ComplaintStatusChangedPayload payload.
type ComplaintStatusChangedPayload struct {
	OldStatus       domain.ComplaintStatus `json:"old_status"`
	NewStatus       domain.ComplaintStatus `json:"new_status"`
	TechnicianID    int64                  `json:"technician_id,omitempty"`
	ResolutionNotes string                 `json:"resolution_notes,omitempty"`
}
