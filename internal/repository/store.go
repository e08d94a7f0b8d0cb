package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/telecom-tracker/internal/persistence"
)

// Repositories bundles the per-entity accessors bound to one storage handle.
type Repositories struct {
	Customers   CustomerRepository
	Technicians TechnicianRepository
	Complaints  ComplaintRepository
	Assignments AssignmentRepository
}

// NewRepositories binds every accessor to db, which may be the pool or a transaction.
func NewRepositories(db persistence.DBTX) Repositories {
	return Repositories{
		Customers:   NewCustomerRepository(db),
		Technicians: NewTechnicianRepository(db),
		Complaints:  NewComplaintRepository(db),
		Assignments: NewAssignmentRepository(db),
	}
}

// Store owns the storage handle and hands out repositories.
type Store struct {
	db    persistence.TxBeginner
	repos Repositories
}

// NewStore builds a store over the pool.
func NewStore(db persistence.TxBeginner) *Store {
	return &Store{db: db, repos: NewRepositories(db)}
}

// Repos returns repositories that auto-commit each statement.
func (s *Store) Repos() Repositories {
	return s.repos
}

// WithinTx runs fn with repositories bound to a single transaction.
func (s *Store) WithinTx(ctx context.Context, fn func(Repositories) error) error {
	return persistence.WithinTx(ctx, s.db, func(tx pgx.Tx) error {
		return fn(NewRepositories(tx))
	})
}
