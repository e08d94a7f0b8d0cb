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

// CustomerService registers and looks up customers.
type CustomerService struct {
	customers repository.CustomerRepository
	events    publisher
	logger    *zap.Logger
}

// CustomerDependencies bundles collaborators for the customer service.
type CustomerDependencies struct {
	CustomerRepo repository.CustomerRepository
	Dispatcher   events.Dispatcher
	Logger       *zap.Logger
}

// CustomerRegisterInput describes a registration request.
type CustomerRegisterInput struct {
	Name    string
	Phone   string
	Email   string
	Address string
}

// NewCustomerService constructs the service.
func NewCustomerService(deps CustomerDependencies) *CustomerService {
	logger := loggerOrNop(deps.Logger)
	return &CustomerService{
		customers: deps.CustomerRepo,
		events:    publisher{dispatcher: deps.Dispatcher, logger: logger},
		logger:    logger,
	}
}

// Register stores a new customer. A phone number already on file is
// reported as ALREADY_REGISTERED and nothing is written.
func (s *CustomerService) Register(ctx context.Context, input CustomerRegisterInput) (*domain.Customer, error) {
	customer := &domain.Customer{
		Name:    strings.TrimSpace(input.Name),
		Phone:   strings.TrimSpace(input.Phone),
		Email:   domain.OptionalString(input.Email),
		Address: strings.TrimSpace(input.Address),
	}
	if err := validateContact(customer.Name, customer.Phone); err != nil {
		return nil, err
	}
	if customer.Address == "" {
		return nil, apperrors.NewValidationError("address is required", nil)
	}

	if err := s.customers.Create(ctx, customer); err != nil {
		if errors.Is(err, repository.ErrDuplicatePhone) {
			return nil, apperrors.NewAlreadyRegistered("this phone number is already registered",
				map[string]any{"phone": customer.Phone})
		}
		return nil, apperrors.MapError(err)
	}

	s.logger.Info("customer registered", zap.Int64("customer_id", customer.ID))
	s.events.publish(ctx, events.EventCustomerRegistered, 0, events.CustomerRegisteredPayload{
		CustomerID: customer.ID,
		Name:       customer.Name,
	})
	return customer, nil
}

// GetByPhone finds a customer by phone number.
func (s *CustomerService) GetByPhone(ctx context.Context, phone string) (*domain.Customer, error) {
	phone = strings.TrimSpace(phone)
	customer, err := s.customers.GetByPhone(ctx, phone)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if customer == nil {
		return nil, apperrors.NewNotFound("customer", map[string]any{"phone": phone})
	}
	return customer, nil
}

// GetByID finds a customer by id.
func (s *CustomerService) GetByID(ctx context.Context, id int64) (*domain.Customer, error) {
	customer, err := s.customers.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if customer == nil {
		return nil, apperrors.NewNotFound("customer", map[string]any{"customer_id": id})
	}
	return customer, nil
}

func validateContact(name, phone string) error {
	if name == "" {
		return apperrors.NewValidationError("name is required", nil)
	}
	if !domain.ValidPhone(phone) {
		return apperrors.NewValidationError("invalid phone number, enter at least 10 digits",
			map[string]any{"phone": phone})
	}
	return nil
}
