package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/telecom-tracker/internal/domain"
	"github.com/spec-kit/telecom-tracker/internal/events"
	"github.com/spec-kit/telecom-tracker/internal/repository"
	apperrors "github.com/spec-kit/telecom-tracker/pkg/util"
)

// StatusService moves complaints along their lifecycle once assigned.
type StatusService struct {
	tx     TxRunner
	events publisher
	logger *zap.Logger
}

// StatusDependencies bundles collaborators.
type StatusDependencies struct {
	Tx         TxRunner
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// StatusUpdateInput describes an operator status change.
type StatusUpdateInput struct {
	ComplaintID     int64
	NewStatus       domain.ComplaintStatus
	ResolutionNotes string
}

// StatusChange reports an applied transition.
type StatusChange struct {
	ComplaintID    int64
	OldStatus      domain.ComplaintStatus
	NewStatus      domain.ComplaintStatus
	TechnicianID   int64
	TechnicianName string
}

// NewStatusService constructs the service.
func NewStatusService(deps StatusDependencies) *StatusService {
	logger := loggerOrNop(deps.Logger)
	return &StatusService{
		tx:     deps.Tx,
		events: publisher{dispatcher: deps.Dispatcher, logger: logger},
		logger: logger,
	}
}

// AllowedTransitions returns the work record of an active complaint and the
// statuses the operator may move it to.
func (s *StatusService) AllowedTransitions(ctx context.Context, complaintID int64) (*domain.ComplaintWork, []domain.ComplaintStatus, error) {
	var work *domain.ComplaintWork
	err := s.tx.WithinTx(ctx, func(repos repository.Repositories) error {
		var err error
		work, err = activeWork(ctx, repos, complaintID)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return work, work.Status.NextStatuses(), nil
}

// UpdateStatus applies an operator transition to an Assigned or In Progress
// complaint. Resolving also closes out the assignment and frees the
// technician, all in one transaction.
func (s *StatusService) UpdateStatus(ctx context.Context, input StatusUpdateInput) (*StatusChange, error) {
	next := input.NewStatus
	if !next.Valid() {
		return nil, apperrors.NewValidationError("unknown status", map[string]any{"status": string(next)})
	}
	notes := strings.TrimSpace(input.ResolutionNotes)
	if next == domain.StatusResolved && notes == "" {
		return nil, apperrors.NewValidationError("resolution notes are required to resolve a complaint",
			map[string]any{"complaint_id": input.ComplaintID})
	}

	var change StatusChange
	err := s.tx.WithinTx(ctx, func(repos repository.Repositories) error {
		work, err := activeWork(ctx, repos, input.ComplaintID)
		if err != nil {
			return err
		}
		if !work.Status.CanTransitionTo(next) {
			return invalidTransition(work.ComplaintID, work.Status, next)
		}

		if err := repos.Complaints.UpdateStatus(ctx, work.ComplaintID, work.Status, next); err != nil {
			return mapStateConflict(err, invalidTransition(work.ComplaintID, work.Status, next))
		}
		if next == domain.StatusResolved {
			if err := repos.Assignments.Resolve(ctx, work.AssignmentID, notes); err != nil {
				return mapStateConflict(err, apperrors.NewInvalidState("assignment already resolved",
					map[string]any{"assignment_id": work.AssignmentID}))
			}
			if err := repos.Technicians.SetAvailability(ctx, work.TechnicianID, true); err != nil {
				return mapStateConflict(err, apperrors.NewInvalidState("technician already available",
					map[string]any{"technician_id": work.TechnicianID}))
			}
		}

		change = StatusChange{
			ComplaintID:    work.ComplaintID,
			OldStatus:      work.Status,
			NewStatus:      next,
			TechnicianID:   work.TechnicianID,
			TechnicianName: work.TechnicianName,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("complaint status updated",
		zap.Int64("complaint_id", change.ComplaintID),
		zap.String("old_status", string(change.OldStatus)),
		zap.String("new_status", string(change.NewStatus)))
	payload := events.ComplaintStatusChangedPayload{
		OldStatus:    change.OldStatus,
		NewStatus:    change.NewStatus,
		TechnicianID: change.TechnicianID,
	}
	if next == domain.StatusResolved {
		payload.ResolutionNotes = notes
	}
	s.events.publish(ctx, events.EventComplaintStatusChanged, change.ComplaintID, payload)
	return &change, nil
}

// Close moves a Resolved complaint to Closed.
func (s *StatusService) Close(ctx context.Context, complaintID int64) (*StatusChange, error) {
	var change StatusChange
	err := s.tx.WithinTx(ctx, func(repos repository.Repositories) error {
		complaint, err := repos.Complaints.GetByID(ctx, complaintID)
		if err != nil {
			return apperrors.MapError(err)
		}
		if complaint == nil {
			return apperrors.NewNotFound("complaint", map[string]any{"complaint_id": complaintID})
		}
		if !complaint.Status.CanTransitionTo(domain.StatusClosed) {
			return invalidTransition(complaintID, complaint.Status, domain.StatusClosed)
		}
		if err := repos.Complaints.UpdateStatus(ctx, complaintID, complaint.Status, domain.StatusClosed); err != nil {
			return mapStateConflict(err, invalidTransition(complaintID, complaint.Status, domain.StatusClosed))
		}
		change = StatusChange{ComplaintID: complaintID, OldStatus: complaint.Status, NewStatus: domain.StatusClosed}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("complaint closed", zap.Int64("complaint_id", complaintID))
	s.events.publish(ctx, events.EventComplaintStatusChanged, complaintID, events.ComplaintStatusChangedPayload{
		OldStatus: change.OldStatus,
		NewStatus: change.NewStatus,
	})
	return &change, nil
}

func activeWork(ctx context.Context, repos repository.Repositories, complaintID int64) (*domain.ComplaintWork, error) {
	work, err := repos.Complaints.GetActiveWithTechnician(ctx, complaintID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if work == nil {
		return nil, apperrors.NewDomainError(apperrors.CodeNotFound, "complaint not found or cannot be updated",
			map[string]any{"complaint_id": complaintID})
	}
	return work, nil
}

func invalidTransition(complaintID int64, from, to domain.ComplaintStatus) error {
	return apperrors.NewInvalidTransition("status change not allowed from the current status", map[string]any{
		"complaint_id": complaintID,
		"from":         string(from),
		"to":           string(to),
	})
}
