package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/telecom-tracker/internal/domain"
	"github.com/spec-kit/telecom-tracker/internal/persistence"
)

const customerPhoneConstraint = "customers_phone_key"

// CustomerRepository handles persistence for customers.
type CustomerRepository interface {
	Create(ctx context.Context, customer *domain.Customer) error
	GetByID(ctx context.Context, id int64) (*domain.Customer, error)
	GetByPhone(ctx context.Context, phone string) (*domain.Customer, error)
}

type customerRepository struct {
	db persistence.DBTX
}

// NewCustomerRepository instantiates the repository.
func NewCustomerRepository(db persistence.DBTX) CustomerRepository {
	return &customerRepository{db: db}
}

func (r *customerRepository) Create(ctx context.Context, customer *domain.Customer) error {
	const query = `
        INSERT INTO customers (name, phone, email, address)
        VALUES ($1,$2,$3,$4)
        RETURNING id, registered_at`

	err := r.db.QueryRow(ctx, query,
		customer.Name,
		customer.Phone,
		customer.Email,
		customer.Address,
	).Scan(&customer.ID, &customer.RegisteredAt)
	if persistence.IsUniqueViolation(err, customerPhoneConstraint) {
		return ErrDuplicatePhone
	}
	return err
}

// GetByID returns nil when no customer has the id.
func (r *customerRepository) GetByID(ctx context.Context, id int64) (*domain.Customer, error) {
	const query = `
        SELECT id, name, phone, email, address, registered_at
        FROM customers WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

// GetByPhone returns nil when no customer has the phone number.
func (r *customerRepository) GetByPhone(ctx context.Context, phone string) (*domain.Customer, error) {
	const query = `
        SELECT id, name, phone, email, address, registered_at
        FROM customers WHERE phone=$1`
	return r.fetchSingle(ctx, query, phone)
}

func (r *customerRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Customer, error) {
	var customer domain.Customer
	if err := r.db.QueryRow(ctx, query, arg).Scan(
		&customer.ID,
		&customer.Name,
		&customer.Phone,
		&customer.Email,
		&customer.Address,
		&customer.RegisteredAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &customer, nil
}
