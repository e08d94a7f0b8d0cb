package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/telecom-tracker/internal/domain"
	"github.com/spec-kit/telecom-tracker/internal/persistence"
)

// AssignmentRepository stores complaint-technician pairings.
type AssignmentRepository interface {
	Create(ctx context.Context, assignment *domain.Assignment) error
	GetActiveByComplaint(ctx context.Context, complaintID int64) (*domain.Assignment, error)
	Resolve(ctx context.Context, id int64, notes string) error
	GetDetailsByComplaint(ctx context.Context, complaintID int64) (*domain.AssignmentDetails, error)
}

type assignmentRepository struct {
	db persistence.DBTX
}

// NewAssignmentRepository builds repository.
func NewAssignmentRepository(db persistence.DBTX) AssignmentRepository {
	return &assignmentRepository{db: db}
}

func (r *assignmentRepository) Create(ctx context.Context, assignment *domain.Assignment) error {
	const query = `
        INSERT INTO assignments (complaint_id, technician_id)
        VALUES ($1,$2)
        RETURNING id, assigned_at`
	return r.db.QueryRow(ctx, query,
		assignment.ComplaintID,
		assignment.TechnicianID,
	).Scan(&assignment.ID, &assignment.AssignedAt)
}

// GetActiveByComplaint returns the unresolved assignment of a complaint, or nil.
func (r *assignmentRepository) GetActiveByComplaint(ctx context.Context, complaintID int64) (*domain.Assignment, error) {
	const query = `
        SELECT id, complaint_id, technician_id, assigned_at, resolution_notes, resolved_at
        FROM assignments WHERE complaint_id=$1 AND resolved_at IS NULL`
	var assignment domain.Assignment
	if err := r.db.QueryRow(ctx, query, complaintID).Scan(
		&assignment.ID,
		&assignment.ComplaintID,
		&assignment.TechnicianID,
		&assignment.AssignedAt,
		&assignment.ResolutionNotes,
		&assignment.ResolvedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &assignment, nil
}

// Resolve records notes and resolved_at together. It fails with
// ErrStateConflict when the assignment is missing or already resolved.
func (r *assignmentRepository) Resolve(ctx context.Context, id int64, notes string) error {
	const query = `
        UPDATE assignments SET resolution_notes=$1, resolved_at=NOW()
        WHERE id=$2 AND resolved_at IS NULL`
	cmd, err := r.db.Exec(ctx, query, notes, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrStateConflict
	}
	return nil
}

// GetDetailsByComplaint returns the most recent assignment of a complaint, or nil.
func (r *assignmentRepository) GetDetailsByComplaint(ctx context.Context, complaintID int64) (*domain.AssignmentDetails, error) {
	const query = `
        SELECT t.name, t.phone, t.expertise, a.assigned_at, a.resolution_notes, a.resolved_at
        FROM assignments a
        JOIN technicians t ON a.technician_id = t.id
        WHERE a.complaint_id = $1
        ORDER BY a.assigned_at DESC
        LIMIT 1`
	var details domain.AssignmentDetails
	if err := r.db.QueryRow(ctx, query, complaintID).Scan(
		&details.TechnicianName,
		&details.TechnicianPhone,
		&details.Expertise,
		&details.AssignedAt,
		&details.ResolutionNotes,
		&details.ResolvedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &details, nil
}
