package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/telecom-tracker/internal/domain"
	"github.com/spec-kit/telecom-tracker/internal/persistence"
)

// ComplaintRepository encapsulates complaint persistence and the complaint listings.
type ComplaintRepository interface {
	Create(ctx context.Context, complaint *domain.Complaint) error
	GetByID(ctx context.Context, id int64) (*domain.Complaint, error)
	UpdateStatus(ctx context.Context, id int64, from, to domain.ComplaintStatus) error
	ListOpen(ctx context.Context) ([]domain.OpenComplaint, error)
	ListActive(ctx context.Context) ([]domain.ActiveComplaint, error)
	ListWithFilter(ctx context.Context, status *domain.ComplaintStatus) ([]domain.ComplaintSummary, error)
	GetDetails(ctx context.Context, id int64) (*domain.ComplaintDetails, error)
	GetActiveWithTechnician(ctx context.Context, id int64) (*domain.ComplaintWork, error)
}

type complaintRepository struct {
	db persistence.DBTX
}

// NewComplaintRepository instantiates repository.
func NewComplaintRepository(db persistence.DBTX) ComplaintRepository {
	return &complaintRepository{db: db}
}

// Create inserts the complaint as Open regardless of complaint.Status.
func (r *complaintRepository) Create(ctx context.Context, complaint *domain.Complaint) error {
	const query = `
        INSERT INTO complaints (customer_id, issue_type, description, location, status)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, status, created_at, updated_at`
	return r.db.QueryRow(ctx, query,
		complaint.CustomerID,
		complaint.IssueType,
		complaint.Description,
		complaint.Location,
		domain.StatusOpen,
	).Scan(&complaint.ID, &complaint.Status, &complaint.CreatedAt, &complaint.UpdatedAt)
}

// GetByID returns nil when no complaint has the id.
func (r *complaintRepository) GetByID(ctx context.Context, id int64) (*domain.Complaint, error) {
	const query = `
        SELECT id, customer_id, issue_type, description, location, status, created_at, updated_at
        FROM complaints WHERE id=$1`
	var complaint domain.Complaint
	if err := r.db.QueryRow(ctx, query, id).Scan(
		&complaint.ID,
		&complaint.CustomerID,
		&complaint.IssueType,
		&complaint.Description,
		&complaint.Location,
		&complaint.Status,
		&complaint.CreatedAt,
		&complaint.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &complaint, nil
}

// UpdateStatus moves a complaint from one status to another and stamps
// updated_at. It fails with ErrStateConflict when the complaint is not in from.
func (r *complaintRepository) UpdateStatus(ctx context.Context, id int64, from, to domain.ComplaintStatus) error {
	const query = `
        UPDATE complaints SET status=$1, updated_at=NOW()
        WHERE id=$2 AND status=$3`
	cmd, err := r.db.Exec(ctx, query, to, id, from)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrStateConflict
	}
	return nil
}

func (r *complaintRepository) ListOpen(ctx context.Context) ([]domain.OpenComplaint, error) {
	const query = `
        SELECT c.id, cu.name, c.issue_type, c.location, c.created_at
        FROM complaints c
        JOIN customers cu ON c.customer_id = cu.id
        WHERE c.status = $1
        ORDER BY c.created_at ASC, c.id ASC`
	rows, err := r.db.Query(ctx, query, domain.StatusOpen)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.OpenComplaint
	for rows.Next() {
		var item domain.OpenComplaint
		if err := rows.Scan(
			&item.ComplaintID,
			&item.CustomerName,
			&item.IssueType,
			&item.Location,
			&item.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	return result, rows.Err()
}

func (r *complaintRepository) ListActive(ctx context.Context) ([]domain.ActiveComplaint, error) {
	const query = `
        SELECT c.id, cu.name, c.issue_type, c.status, t.name, a.assigned_at
        FROM complaints c
        JOIN customers cu ON c.customer_id = cu.id
        JOIN assignments a ON a.complaint_id = c.id AND a.resolved_at IS NULL
        JOIN technicians t ON a.technician_id = t.id
        WHERE c.status IN ($1, $2)
        ORDER BY a.assigned_at ASC, c.id ASC`
	rows, err := r.db.Query(ctx, query, domain.StatusAssigned, domain.StatusInProgress)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.ActiveComplaint
	for rows.Next() {
		var item domain.ActiveComplaint
		if err := rows.Scan(
			&item.ComplaintID,
			&item.CustomerName,
			&item.IssueType,
			&item.Status,
			&item.TechnicianName,
			&item.AssignedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	return result, rows.Err()
}

// ListWithFilter lists complaints newest first. A nil status lists every complaint.
func (r *complaintRepository) ListWithFilter(ctx context.Context, status *domain.ComplaintStatus) ([]domain.ComplaintSummary, error) {
	query := `
        SELECT c.id, cu.name, c.issue_type, c.description, c.location, c.status, c.created_at, t.name
        FROM complaints c
        JOIN customers cu ON c.customer_id = cu.id
        LEFT JOIN assignments a ON a.complaint_id = c.id
        LEFT JOIN technicians t ON a.technician_id = t.id`
	args := []any{}
	if status != nil {
		args = append(args, *status)
		query += `
        WHERE c.status = $1`
	}
	query += `
        ORDER BY c.created_at DESC, c.id DESC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.ComplaintSummary
	for rows.Next() {
		var item domain.ComplaintSummary
		if err := rows.Scan(
			&item.ComplaintID,
			&item.CustomerName,
			&item.IssueType,
			&item.Description,
			&item.Location,
			&item.Status,
			&item.CreatedAt,
			&item.TechnicianName,
		); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	return result, rows.Err()
}

// GetDetails returns nil when no complaint has the id. Assignment is left nil;
// callers join it from the assignment repository.
func (r *complaintRepository) GetDetails(ctx context.Context, id int64) (*domain.ComplaintDetails, error) {
	const query = `
        SELECT c.id, cu.name, cu.phone, c.issue_type, c.description, c.location,
               c.status, c.created_at, c.updated_at
        FROM complaints c
        JOIN customers cu ON c.customer_id = cu.id
        WHERE c.id = $1`
	var details domain.ComplaintDetails
	if err := r.db.QueryRow(ctx, query, id).Scan(
		&details.ComplaintID,
		&details.CustomerName,
		&details.CustomerPhone,
		&details.IssueType,
		&details.Description,
		&details.Location,
		&details.Status,
		&details.CreatedAt,
		&details.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &details, nil
}

// GetActiveWithTechnician returns the open assignment of an Assigned or
// In Progress complaint, or nil when the complaint is not being worked.
func (r *complaintRepository) GetActiveWithTechnician(ctx context.Context, id int64) (*domain.ComplaintWork, error) {
	const query = `
        SELECT c.id, c.status, a.id, t.id, t.name
        FROM complaints c
        JOIN assignments a ON a.complaint_id = c.id AND a.resolved_at IS NULL
        JOIN technicians t ON a.technician_id = t.id
        WHERE c.id = $1 AND c.status IN ($2, $3)`
	var work domain.ComplaintWork
	if err := r.db.QueryRow(ctx, query, id, domain.StatusAssigned, domain.StatusInProgress).Scan(
		&work.ComplaintID,
		&work.Status,
		&work.AssignmentID,
		&work.TechnicianID,
		&work.TechnicianName,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &work, nil
}
