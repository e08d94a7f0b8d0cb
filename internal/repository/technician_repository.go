package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/telecom-tracker/internal/domain"
	"github.com/spec-kit/telecom-tracker/internal/persistence"
)

const technicianPhoneConstraint = "technicians_phone_key"

// TechnicianRepository handles persistence for field technicians.
type TechnicianRepository interface {
	Create(ctx context.Context, technician *domain.Technician) error
	GetByID(ctx context.Context, id int64) (*domain.Technician, error)
	GetByPhone(ctx context.Context, phone string) (*domain.Technician, error)
	ListAvailable(ctx context.Context) ([]domain.Technician, error)
	SetAvailability(ctx context.Context, id int64, available bool) error
}

type technicianRepository struct {
	db persistence.DBTX
}

// NewTechnicianRepository instantiates the repository.
func NewTechnicianRepository(db persistence.DBTX) TechnicianRepository {
	return &technicianRepository{db: db}
}

func (r *technicianRepository) Create(ctx context.Context, technician *domain.Technician) error {
	const query = `
        INSERT INTO technicians (name, phone, email, location, expertise)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, availability, registered_at`

	err := r.db.QueryRow(ctx, query,
		technician.Name,
		technician.Phone,
		technician.Email,
		technician.Location,
		technician.Expertise,
	).Scan(&technician.ID, &technician.Available, &technician.RegisteredAt)
	if persistence.IsUniqueViolation(err, technicianPhoneConstraint) {
		return ErrDuplicatePhone
	}
	return err
}

// GetByID returns nil when no technician has the id.
func (r *technicianRepository) GetByID(ctx context.Context, id int64) (*domain.Technician, error) {
	const query = `
        SELECT id, name, phone, email, location, expertise, availability, registered_at
        FROM technicians WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

// GetByPhone returns nil when no technician has the phone number.
func (r *technicianRepository) GetByPhone(ctx context.Context, phone string) (*domain.Technician, error) {
	const query = `
        SELECT id, name, phone, email, location, expertise, availability, registered_at
        FROM technicians WHERE phone=$1`
	return r.fetchSingle(ctx, query, phone)
}

func (r *technicianRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Technician, error) {
	var technician domain.Technician
	if err := r.db.QueryRow(ctx, query, arg).Scan(
		&technician.ID,
		&technician.Name,
		&technician.Phone,
		&technician.Email,
		&technician.Location,
		&technician.Expertise,
		&technician.Available,
		&technician.RegisteredAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &technician, nil
}

func (r *technicianRepository) ListAvailable(ctx context.Context) ([]domain.Technician, error) {
	const query = `
        SELECT id, name, phone, email, location, expertise, availability, registered_at
        FROM technicians WHERE availability = TRUE ORDER BY id`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTechnicians(rows)
}

// SetAvailability flips availability and fails with ErrStateConflict when the
// technician is missing or already in the requested state.
func (r *technicianRepository) SetAvailability(ctx context.Context, id int64, available bool) error {
	const query = `
        UPDATE technicians SET availability=$1
        WHERE id=$2 AND availability=$3`
	cmd, err := r.db.Exec(ctx, query, available, id, !available)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrStateConflict
	}
	return nil
}

func scanTechnicians(rows pgx.Rows) ([]domain.Technician, error) {
	var result []domain.Technician
	for rows.Next() {
		var technician domain.Technician
		if err := rows.Scan(
			&technician.ID,
			&technician.Name,
			&technician.Phone,
			&technician.Email,
			&technician.Location,
			&technician.Expertise,
			&technician.Available,
			&technician.RegisteredAt,
		); err != nil {
			return nil, err
		}
		result = append(result, technician)
	}
	return result, rows.Err()
}
