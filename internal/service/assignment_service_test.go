package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/telecom-tracker/internal/domain"
	"github.com/spec-kit/telecom-tracker/internal/events"
	apperrors "github.com/spec-kit/telecom-tracker/pkg/util"
)

func TestAssign(t *testing.T) {
	tr := newTracker()
	ctx := context.Background()
	customer := seedCustomer(t, tr, "9876543210")
	technician := seedTechnician(t, tr, "9123456780")
	complaint := seedComplaint(t, tr, customer.ID, domain.IssueCallDrop)

	result, err := tr.assignments.Assign(ctx, complaint.ID, technician.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusAssigned, result.Complaint.Status)
	assert.False(t, result.Technician.Available)
	assert.Nil(t, result.Assignment.ResolvedAt)

	assert.Equal(t, domain.StatusAssigned, tr.db.complaints[complaint.ID].Status)
	assert.False(t, tr.db.technicians[technician.ID].Available)

	open, err := tr.complaints.ListOpen(ctx)
	require.NoError(t, err)
	assert.Empty(t, open)
	active, err := tr.complaints.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, technician.Name, active[0].TechnicianName)

	last := tr.dispatcher.events[len(tr.dispatcher.events)-1]
	assert.Equal(t, events.EventComplaintAssigned, last.Type)
	assert.Equal(t, complaint.ID, last.ComplaintID)
}

func TestAssign_Rejections(t *testing.T) {
	tr := newTracker()
	ctx := context.Background()
	customer := seedCustomer(t, tr, "9876543210")
	busy := seedTechnician(t, tr, "9123456780")
	free := seedTechnician(t, tr, "9123456781")
	assigned := seedComplaint(t, tr, customer.ID, domain.IssueCallDrop)
	waiting := seedComplaint(t, tr, customer.ID, domain.IssueNoSignal)
	_, err := tr.assignments.Assign(ctx, assigned.ID, busy.ID)
	require.NoError(t, err)

	tests := []struct {
		name         string
		complaintID  int64
		technicianID int64
		code         string
	}{
		{"unknown complaint", 999, free.ID, apperrors.CodeNotFound},
		{"complaint not open", assigned.ID, free.ID, apperrors.CodeInvalidState},
		{"unknown technician", waiting.ID, 999, apperrors.CodeNotFound},
		{"technician busy", waiting.ID, busy.ID, apperrors.CodeTechnicianUnavailable},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			writes := tr.db.writes
			_, err := tr.assignments.Assign(ctx, tc.complaintID, tc.technicianID)
			require.Error(t, err)
			assert.True(t, apperrors.HasCode(err, tc.code), err)
			assert.Equal(t, writes, tr.db.writes)
		})
	}
	assert.Equal(t, domain.StatusOpen, tr.db.complaints[waiting.ID].Status)
	assert.True(t, tr.db.technicians[free.ID].Available)
	assert.Len(t, tr.db.assignments, 1)
}

func TestAssign_RollsBackWhenAvailabilityUpdateFails(t *testing.T) {
	tr := newTracker()
	ctx := context.Background()
	customer := seedCustomer(t, tr, "9876543210")
	technician := seedTechnician(t, tr, "9123456780")
	complaint := seedComplaint(t, tr, customer.ID, domain.IssueCallDrop)
	published := len(tr.dispatcher.events)

	tr.db.failOn["technicians.availability"] = errors.New("connection lost")
	_, err := tr.assignments.Assign(ctx, complaint.ID, technician.ID)
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeStorageUnavailable))

	assert.Empty(t, tr.db.assignments)
	assert.Equal(t, domain.StatusOpen, tr.db.complaints[complaint.ID].Status)
	assert.True(t, tr.db.technicians[technician.ID].Available)
	assert.Len(t, tr.dispatcher.events, published)

	_, err = tr.assignments.Assign(ctx, complaint.ID, technician.ID)
	require.NoError(t, err)
}

func TestAssign_OpenAssignmentConflictIsInvalidState(t *testing.T) {
	tr := newTracker()
	ctx := context.Background()
	customer := seedCustomer(t, tr, "9876543210")
	technician := seedTechnician(t, tr, "9123456780")
	complaint := seedComplaint(t, tr, customer.ID, domain.IssueCallDrop)

	// a concurrent writer already holds an open assignment for the complaint
	tr.db.assignments[500] = domain.Assignment{ID: 500, ComplaintID: complaint.ID, TechnicianID: 77}

	_, err := tr.assignments.Assign(ctx, complaint.ID, technician.ID)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidState))
	assert.True(t, tr.db.technicians[technician.ID].Available)
}
