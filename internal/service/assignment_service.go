package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/telecom-tracker/internal/domain"
	"github.com/spec-kit/telecom-tracker/internal/events"
	"github.com/spec-kit/telecom-tracker/internal/persistence"
	"github.com/spec-kit/telecom-tracker/internal/repository"
	apperrors "github.com/spec-kit/telecom-tracker/pkg/util"
)

// AssignmentService handles technician assignment.
type AssignmentService struct {
	tx     TxRunner
	events publisher
	logger *zap.Logger
}

// AssignmentDependencies bundles collaborators.
type AssignmentDependencies struct {
	Tx         TxRunner
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// AssignmentResult reports what an assignment touched.
type AssignmentResult struct {
	Assignment *domain.Assignment
	Complaint  *domain.Complaint
	Technician *domain.Technician
}

// NewAssignmentService creates the service.
func NewAssignmentService(deps AssignmentDependencies) *AssignmentService {
	logger := loggerOrNop(deps.Logger)
	return &AssignmentService{
		tx:     deps.Tx,
		events: publisher{dispatcher: deps.Dispatcher, logger: logger},
		logger: logger,
	}
}

// Assign gives an Open complaint to an available technician. The assignment
// row, the complaint status and the technician availability change together
// or not at all.
func (s *AssignmentService) Assign(ctx context.Context, complaintID, technicianID int64) (*AssignmentResult, error) {
	var result AssignmentResult
	err := s.tx.WithinTx(ctx, func(repos repository.Repositories) error {
		complaint, err := repos.Complaints.GetByID(ctx, complaintID)
		if err != nil {
			return apperrors.MapError(err)
		}
		if complaint == nil {
			return apperrors.NewNotFound("complaint", map[string]any{"complaint_id": complaintID})
		}
		if complaint.Status != domain.StatusOpen {
			return complaintNotOpen(complaint)
		}

		technician, err := repos.Technicians.GetByID(ctx, technicianID)
		if err != nil {
			return apperrors.MapError(err)
		}
		if technician == nil {
			return apperrors.NewNotFound("technician", map[string]any{"technician_id": technicianID})
		}
		if !technician.Available {
			return apperrors.NewTechnicianUnavailable(map[string]any{"technician_id": technicianID})
		}

		assignment := &domain.Assignment{ComplaintID: complaint.ID, TechnicianID: technician.ID}
		if err := repos.Assignments.Create(ctx, assignment); err != nil {
			if persistence.IsUniqueViolation(err, "") {
				return complaintNotOpen(complaint)
			}
			return apperrors.MapError(err)
		}
		if err := repos.Complaints.UpdateStatus(ctx, complaint.ID, domain.StatusOpen, domain.StatusAssigned); err != nil {
			return mapStateConflict(err, complaintNotOpen(complaint))
		}
		if err := repos.Technicians.SetAvailability(ctx, technician.ID, false); err != nil {
			return mapStateConflict(err, apperrors.NewTechnicianUnavailable(map[string]any{"technician_id": technicianID}))
		}

		complaint.Status = domain.StatusAssigned
		technician.Available = false
		result = AssignmentResult{Assignment: assignment, Complaint: complaint, Technician: technician}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("technician assigned",
		zap.Int64("complaint_id", complaintID),
		zap.Int64("technician_id", technicianID),
		zap.Int64("assignment_id", result.Assignment.ID))
	s.events.publish(ctx, events.EventComplaintAssigned, complaintID, events.ComplaintAssignedPayload{
		AssignmentID:   result.Assignment.ID,
		TechnicianID:   result.Technician.ID,
		TechnicianName: result.Technician.Name,
	})
	return &result, nil
}

func complaintNotOpen(complaint *domain.Complaint) error {
	return apperrors.NewInvalidState("complaint not found or already assigned", map[string]any{
		"complaint_id": complaint.ID,
		"status":       string(complaint.Status),
	})
}
