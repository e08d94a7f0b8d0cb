package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/telecom-tracker/internal/domain"
	"github.com/spec-kit/telecom-tracker/internal/events"
	"github.com/spec-kit/telecom-tracker/internal/repository"
	apperrors "github.com/spec-kit/telecom-tracker/pkg/util"
)

// TechnicianService registers technicians and reports who is free.
type TechnicianService struct {
	technicians repository.TechnicianRepository
	events      publisher
	logger      *zap.Logger
}

// TechnicianDependencies bundles collaborators for the technician service.
type TechnicianDependencies struct {
	TechnicianRepo repository.TechnicianRepository
	Dispatcher     events.Dispatcher
	Logger         *zap.Logger
}

// TechnicianRegisterInput describes a registration request.
type TechnicianRegisterInput struct {
	Name      string
	Phone     string
	Email     string
	Location  string
	Expertise domain.Expertise
}

// NewTechnicianService constructs the service.
func NewTechnicianService(deps TechnicianDependencies) *TechnicianService {
	logger := loggerOrNop(deps.Logger)
	return &TechnicianService{
		technicians: deps.TechnicianRepo,
		events:      publisher{dispatcher: deps.Dispatcher, logger: logger},
		logger:      logger,
	}
}

// Register stores a new technician, available for work.
func (s *TechnicianService) Register(ctx context.Context, input TechnicianRegisterInput) (*domain.Technician, error) {
	technician := &domain.Technician{
		Name:      strings.TrimSpace(input.Name),
		Phone:     strings.TrimSpace(input.Phone),
		Email:     domain.OptionalString(input.Email),
		Location:  strings.TrimSpace(input.Location),
		Expertise: input.Expertise,
		Available: true,
	}
	if err := validateContact(technician.Name, technician.Phone); err != nil {
		return nil, err
	}
	if technician.Location == "" {
		return nil, apperrors.NewValidationError("service location is required", nil)
	}
	if !technician.Expertise.Valid() {
		return nil, apperrors.NewValidationError("unknown expertise",
			map[string]any{"expertise": string(technician.Expertise)})
	}

	if err := s.technicians.Create(ctx, technician); err != nil {
		if errors.Is(err, repository.ErrDuplicatePhone) {
			return nil, apperrors.NewAlreadyRegistered("this phone number is already registered",
				map[string]any{"phone": technician.Phone})
		}
		return nil, apperrors.MapError(err)
	}

	s.logger.Info("technician registered",
		zap.Int64("technician_id", technician.ID),
		zap.String("expertise", string(technician.Expertise)))
	s.events.publish(ctx, events.EventTechnicianRegistered, 0, events.TechnicianRegisteredPayload{
		TechnicianID: technician.ID,
		Name:         technician.Name,
		Expertise:    technician.Expertise,
		Location:     technician.Location,
	})
	return technician, nil
}

// ListAvailable returns technicians eligible for a new assignment.
func (s *TechnicianService) ListAvailable(ctx context.Context) ([]domain.Technician, error) {
	technicians, err := s.technicians.ListAvailable(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return technicians, nil
}

// GetByID finds a technician by id.
func (s *TechnicianService) GetByID(ctx context.Context, id int64) (*domain.Technician, error) {
	technician, err := s.technicians.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if technician == nil {
		return nil, apperrors.NewNotFound("technician", map[string]any{"technician_id": id})
	}
	return technician, nil
}
