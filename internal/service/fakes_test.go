package service

import (
	"context"
	"sort"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/spec-kit/telecom-tracker/internal/domain"
	"github.com/spec-kit/telecom-tracker/internal/events"
	"github.com/spec-kit/telecom-tracker/internal/persistence"
	"github.com/spec-kit/telecom-tracker/internal/repository"
)

// memDB is an in-memory stand-in for the four tables. WithinTx snapshots the
// tables and restores them when the unit of work fails.
type memDB struct {
	customers   map[int64]domain.Customer
	technicians map[int64]domain.Technician
	complaints  map[int64]domain.Complaint
	assignments map[int64]domain.Assignment
	nextID      int64
	clock       time.Time

	// failOn makes the named operation return the error once.
	failOn map[string]error
	writes int
}

func newMemDB() *memDB {
	return &memDB{
		customers:   map[int64]domain.Customer{},
		technicians: map[int64]domain.Technician{},
		complaints:  map[int64]domain.Complaint{},
		assignments: map[int64]domain.Assignment{},
		clock:       time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
		failOn:      map[string]error{},
	}
}

func (m *memDB) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *memDB) now() time.Time {
	m.clock = m.clock.Add(time.Minute)
	return m.clock
}

func (m *memDB) fail(op string) error {
	if err, ok := m.failOn[op]; ok {
		delete(m.failOn, op)
		return err
	}
	return nil
}

func (m *memDB) repos() repository.Repositories {
	return repository.Repositories{
		Customers:   memCustomers{m},
		Technicians: memTechnicians{m},
		Complaints:  memComplaints{m},
		Assignments: memAssignments{m},
	}
}

func (m *memDB) WithinTx(ctx context.Context, fn func(repository.Repositories) error) error {
	customers := cloneMap(m.customers)
	technicians := cloneMap(m.technicians)
	complaints := cloneMap(m.complaints)
	assignments := cloneMap(m.assignments)
	nextID := m.nextID
	if err := fn(m.repos()); err != nil {
		m.customers, m.technicians, m.complaints, m.assignments = customers, technicians, complaints, assignments
		m.nextID = nextID
		return err
	}
	return nil
}

func cloneMap[K comparable, V any](in map[K]V) map[K]V {
	out := make(map[K]V, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

type memCustomers struct{ db *memDB }

func (r memCustomers) Create(ctx context.Context, c *domain.Customer) error {
	if err := r.db.fail("customers.create"); err != nil {
		return err
	}
	for _, existing := range r.db.customers {
		if existing.Phone == c.Phone {
			return repository.ErrDuplicatePhone
		}
	}
	c.ID = r.db.id()
	c.RegisteredAt = r.db.now()
	r.db.customers[c.ID] = *c
	r.db.writes++
	return nil
}

func (r memCustomers) GetByID(ctx context.Context, id int64) (*domain.Customer, error) {
	if c, ok := r.db.customers[id]; ok {
		return &c, nil
	}
	return nil, nil
}

func (r memCustomers) GetByPhone(ctx context.Context, phone string) (*domain.Customer, error) {
	for _, c := range r.db.customers {
		if c.Phone == phone {
			c := c
			return &c, nil
		}
	}
	return nil, nil
}

type memTechnicians struct{ db *memDB }

func (r memTechnicians) Create(ctx context.Context, t *domain.Technician) error {
	for _, existing := range r.db.technicians {
		if existing.Phone == t.Phone {
			return repository.ErrDuplicatePhone
		}
	}
	t.ID = r.db.id()
	t.Available = true
	t.RegisteredAt = r.db.now()
	r.db.technicians[t.ID] = *t
	r.db.writes++
	return nil
}

func (r memTechnicians) GetByID(ctx context.Context, id int64) (*domain.Technician, error) {
	if err := r.db.fail("technicians.get"); err != nil {
		return nil, err
	}
	if t, ok := r.db.technicians[id]; ok {
		return &t, nil
	}
	return nil, nil
}

func (r memTechnicians) GetByPhone(ctx context.Context, phone string) (*domain.Technician, error) {
	for _, t := range r.db.technicians {
		if t.Phone == phone {
			t := t
			return &t, nil
		}
	}
	return nil, nil
}

func (r memTechnicians) ListAvailable(ctx context.Context) ([]domain.Technician, error) {
	var out []domain.Technician
	for _, t := range r.db.technicians {
		if t.Available {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r memTechnicians) SetAvailability(ctx context.Context, id int64, available bool) error {
	if err := r.db.fail("technicians.availability"); err != nil {
		return err
	}
	t, ok := r.db.technicians[id]
	if !ok || t.Available == available {
		return repository.ErrStateConflict
	}
	t.Available = available
	r.db.technicians[id] = t
	r.db.writes++
	return nil
}

type memComplaints struct{ db *memDB }

func (r memComplaints) Create(ctx context.Context, c *domain.Complaint) error {
	c.ID = r.db.id()
	c.Status = domain.StatusOpen
	c.CreatedAt = r.db.now()
	c.UpdatedAt = c.CreatedAt
	r.db.complaints[c.ID] = *c
	r.db.writes++
	return nil
}

func (r memComplaints) GetByID(ctx context.Context, id int64) (*domain.Complaint, error) {
	if c, ok := r.db.complaints[id]; ok {
		return &c, nil
	}
	return nil, nil
}

func (r memComplaints) UpdateStatus(ctx context.Context, id int64, from, to domain.ComplaintStatus) error {
	if err := r.db.fail("complaints.status"); err != nil {
		return err
	}
	c, ok := r.db.complaints[id]
	if !ok || c.Status != from {
		return repository.ErrStateConflict
	}
	c.Status = to
	c.UpdatedAt = r.db.now()
	r.db.complaints[id] = c
	r.db.writes++
	return nil
}

func (r memComplaints) customerName(id int64) string {
	return r.db.customers[id].Name
}

func (r memComplaints) assignmentFor(complaintID int64, openOnly bool) (domain.Assignment, bool) {
	for _, a := range r.db.assignments {
		if a.ComplaintID == complaintID && (!openOnly || a.ResolvedAt == nil) {
			return a, true
		}
	}
	return domain.Assignment{}, false
}

func (r memComplaints) sorted(desc bool) []domain.Complaint {
	var out []domain.Complaint
	for _, c := range r.db.complaints {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if desc {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

func (r memComplaints) ListOpen(ctx context.Context) ([]domain.OpenComplaint, error) {
	var out []domain.OpenComplaint
	for _, c := range r.sorted(false) {
		if c.Status == domain.StatusOpen {
			out = append(out, domain.OpenComplaint{
				ComplaintID: c.ID, CustomerName: r.customerName(c.CustomerID),
				IssueType: c.IssueType, Location: c.Location, CreatedAt: c.CreatedAt,
			})
		}
	}
	return out, nil
}

func (r memComplaints) ListActive(ctx context.Context) ([]domain.ActiveComplaint, error) {
	var out []domain.ActiveComplaint
	for _, c := range r.sorted(false) {
		if !c.Status.IsActive() {
			continue
		}
		a, ok := r.assignmentFor(c.ID, true)
		if !ok {
			continue
		}
		out = append(out, domain.ActiveComplaint{
			ComplaintID: c.ID, CustomerName: r.customerName(c.CustomerID), IssueType: c.IssueType,
			Status: c.Status, TechnicianName: r.db.technicians[a.TechnicianID].Name, AssignedAt: a.AssignedAt,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].AssignedAt.Before(out[j].AssignedAt) })
	return out, nil
}

func (r memComplaints) ListWithFilter(ctx context.Context, status *domain.ComplaintStatus) ([]domain.ComplaintSummary, error) {
	var out []domain.ComplaintSummary
	for _, c := range r.sorted(true) {
		if status != nil && c.Status != *status {
			continue
		}
		item := domain.ComplaintSummary{
			ComplaintID: c.ID, CustomerName: r.customerName(c.CustomerID), IssueType: c.IssueType,
			Description: c.Description, Location: c.Location, Status: c.Status, CreatedAt: c.CreatedAt,
		}
		if a, ok := r.assignmentFor(c.ID, false); ok {
			name := r.db.technicians[a.TechnicianID].Name
			item.TechnicianName = &name
		}
		out = append(out, item)
	}
	return out, nil
}

func (r memComplaints) GetDetails(ctx context.Context, id int64) (*domain.ComplaintDetails, error) {
	c, ok := r.db.complaints[id]
	if !ok {
		return nil, nil
	}
	customer := r.db.customers[c.CustomerID]
	return &domain.ComplaintDetails{
		ComplaintID: c.ID, CustomerName: customer.Name, CustomerPhone: customer.Phone,
		IssueType: c.IssueType, Description: c.Description, Location: c.Location,
		Status: c.Status, CreatedAt: c.CreatedAt, UpdatedAt: c.UpdatedAt,
	}, nil
}

func (r memComplaints) GetActiveWithTechnician(ctx context.Context, id int64) (*domain.ComplaintWork, error) {
	c, ok := r.db.complaints[id]
	if !ok || !c.Status.IsActive() {
		return nil, nil
	}
	a, ok := r.assignmentFor(id, true)
	if !ok {
		return nil, nil
	}
	return &domain.ComplaintWork{
		ComplaintID: c.ID, Status: c.Status, AssignmentID: a.ID,
		TechnicianID: a.TechnicianID, TechnicianName: r.db.technicians[a.TechnicianID].Name,
	}, nil
}

type memAssignments struct{ db *memDB }


func (r memAssignments) Create(ctx context.Context, a *domain.Assignment) error {
	if err := r.db.fail("assignments.create"); err != nil {
		return err
	}
	for _, existing := range r.db.assignments {
		if existing.ResolvedAt == nil && (existing.ComplaintID == a.ComplaintID || existing.TechnicianID == a.TechnicianID) {
			return &pgconn.PgError{Code: persistence.UniqueViolation, ConstraintName: "assignments_open_complaint_idx"}
		}
	}
	a.ID = r.db.id()
	a.AssignedAt = r.db.now()
	r.db.assignments[a.ID] = *a
	r.db.writes++
	return nil
}

func (r memAssignments) GetActiveByComplaint(ctx context.Context, complaintID int64) (*domain.Assignment, error) {
	if a, ok := (memComplaints{r.db}).assignmentFor(complaintID, true); ok {
		return &a, nil
	}
	return nil, nil
}

func (r memAssignments) Resolve(ctx context.Context, id int64, notes string) error {
	if err := r.db.fail("assignments.resolve"); err != nil {
		return err
	}
	a, ok := r.db.assignments[id]
	if !ok || a.ResolvedAt != nil {
		return repository.ErrStateConflict
	}
	now := r.db.now()
	a.ResolutionNotes = &notes
	a.ResolvedAt = &now
	r.db.assignments[id] = a
	r.db.writes++
	return nil
}

func (r memAssignments) GetDetailsByComplaint(ctx context.Context, complaintID int64) (*domain.AssignmentDetails, error) {
	a, ok := (memComplaints{r.db}).assignmentFor(complaintID, false)
	if !ok {
		return nil, nil
	}
	t := r.db.technicians[a.TechnicianID]
	return &domain.AssignmentDetails{
		TechnicianName: t.Name, TechnicianPhone: t.Phone, Expertise: t.Expertise,
		AssignedAt: a.AssignedAt, ResolutionNotes: a.ResolutionNotes, ResolvedAt: a.ResolvedAt,
	}, nil
}

// recordingDispatcher captures published events.
type recordingDispatcher struct {
	events []events.Event
}

func (d *recordingDispatcher) Publish(ctx context.Context, event events.Event) error {
	d.events = append(d.events, event)
	return nil
}

func (d *recordingDispatcher) Subscribe(events.EventType, events.EventHandler) {}

func (d *recordingDispatcher) types() []events.EventType {
	out := make([]events.EventType, 0, len(d.events))
	for _, e := range d.events {
		out = append(out, e.Type)
	}
	return out
}

// tracker wires every service over one memDB.
type tracker struct {
	db          *memDB
	dispatcher  *recordingDispatcher
	customers   *CustomerService
	technicians *TechnicianService
	complaints  *ComplaintService
	assignments *AssignmentService
	statuses    *StatusService
}

func newTracker() *tracker {
	db := newMemDB()
	dispatcher := &recordingDispatcher{}
	repos := db.repos()
	return &tracker{
		db:         db,
		dispatcher: dispatcher,
		customers: NewCustomerService(CustomerDependencies{
			CustomerRepo: repos.Customers, Dispatcher: dispatcher,
		}),
		technicians: NewTechnicianService(TechnicianDependencies{
			TechnicianRepo: repos.Technicians, Dispatcher: dispatcher,
		}),
		complaints: NewComplaintService(ComplaintDependencies{
			CustomerRepo: repos.Customers, ComplaintRepo: repos.Complaints,
			AssignmentRepo: repos.Assignments, Dispatcher: dispatcher,
		}),
		assignments: NewAssignmentService(AssignmentDependencies{Tx: db, Dispatcher: dispatcher}),
		statuses:    NewStatusService(StatusDependencies{Tx: db, Dispatcher: dispatcher}),
	}
}
