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

// ComplaintService logs complaints and serves the complaint listings.
type ComplaintService struct {
	customers   repository.CustomerRepository
	complaints  repository.ComplaintRepository
	assignments repository.AssignmentRepository
	events      publisher
	logger      *zap.Logger
}

// ComplaintDependencies bundles repositories for the complaint service.
type ComplaintDependencies struct {
	CustomerRepo   repository.CustomerRepository
	ComplaintRepo  repository.ComplaintRepository
	AssignmentRepo repository.AssignmentRepository
	Dispatcher     events.Dispatcher
	Logger         *zap.Logger
}

// ComplaintLogInput describes a new complaint. The customer is identified by
// CustomerID when set, otherwise by CustomerPhone.
type ComplaintLogInput struct {
	CustomerID    int64
	CustomerPhone string
	IssueType     domain.IssueType
	Description   string
	Location      string
}

// NewComplaintService constructs the service.
func NewComplaintService(deps ComplaintDependencies) *ComplaintService {
	logger := loggerOrNop(deps.Logger)
	return &ComplaintService{
		customers:   deps.CustomerRepo,
		complaints:  deps.ComplaintRepo,
		assignments: deps.AssignmentRepo,
		events:      publisher{dispatcher: deps.Dispatcher, logger: logger},
		logger:      logger,
	}
}

// Log records a complaint for an existing customer with status Open.
func (s *ComplaintService) Log(ctx context.Context, input ComplaintLogInput) (*domain.Complaint, error) {
	if !input.IssueType.Valid() {
		return nil, apperrors.NewValidationError("unknown issue type",
			map[string]any{"issue_type": string(input.IssueType)})
	}
	description := strings.TrimSpace(input.Description)
	location := strings.TrimSpace(input.Location)
	if description == "" {
		return nil, apperrors.NewValidationError("description is required", nil)
	}
	if location == "" {
		return nil, apperrors.NewValidationError("location is required", nil)
	}

	customer, err := s.findCustomer(ctx, input)
	if err != nil {
		return nil, err
	}

	complaint := &domain.Complaint{
		CustomerID:  customer.ID,
		IssueType:   input.IssueType,
		Description: description,
		Location:    location,
		Status:      domain.StatusOpen,
	}
	if err := s.complaints.Create(ctx, complaint); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.logger.Info("complaint logged",
		zap.Int64("complaint_id", complaint.ID),
		zap.Int64("customer_id", customer.ID),
		zap.String("issue_type", string(complaint.IssueType)))
	s.events.publish(ctx, events.EventComplaintLogged, complaint.ID, events.ComplaintLoggedPayload{
		CustomerID: customer.ID,
		IssueType:  complaint.IssueType,
		Location:   complaint.Location,
	})
	return complaint, nil
}

func (s *ComplaintService) findCustomer(ctx context.Context, input ComplaintLogInput) (*domain.Customer, error) {
	var (
		customer *domain.Customer
		err      error
		details  map[string]any
	)
	if input.CustomerID != 0 {
		customer, err = s.customers.GetByID(ctx, input.CustomerID)
		details = map[string]any{"customer_id": input.CustomerID}
	} else {
		phone := strings.TrimSpace(input.CustomerPhone)
		if phone == "" {
			return nil, apperrors.NewValidationError("customer id or phone is required", nil)
		}
		customer, err = s.customers.GetByPhone(ctx, phone)
		details = map[string]any{"phone": phone}
	}
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if customer == nil {
		return nil, apperrors.NewNotFound("customer", details)
	}
	return customer, nil
}

// ListOpen returns the assignment queue, oldest first.
func (s *ComplaintService) ListOpen(ctx context.Context) ([]domain.OpenComplaint, error) {
	items, err := s.complaints.ListOpen(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return items, nil
}

// ListActive returns complaints being worked, in assignment order.
func (s *ComplaintService) ListActive(ctx context.Context) ([]domain.ActiveComplaint, error) {
	items, err := s.complaints.ListActive(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return items, nil
}

// List returns complaints newest first, narrowed to one status when status is non-nil.
func (s *ComplaintService) List(ctx context.Context, status *domain.ComplaintStatus) ([]domain.ComplaintSummary, error) {
	if status != nil && !status.Valid() {
		return nil, apperrors.NewValidationError("unknown status filter",
			map[string]any{"status": string(*status)})
	}
	items, err := s.complaints.ListWithFilter(ctx, status)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return items, nil
}

// Details returns a complaint with its customer and, if any, its assignment.
func (s *ComplaintService) Details(ctx context.Context, complaintID int64) (*domain.ComplaintDetails, error) {
	details, err := s.complaints.GetDetails(ctx, complaintID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if details == nil {
		return nil, apperrors.NewNotFound("complaint", map[string]any{"complaint_id": complaintID})
	}
	assignment, err := s.assignments.GetDetailsByComplaint(ctx, complaintID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	details.Assignment = assignment
	return details, nil
}
