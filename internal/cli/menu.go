package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spec-kit/telecom-tracker/internal/domain"
	"github.com/spec-kit/telecom-tracker/internal/service"
	apperrors "github.com/spec-kit/telecom-tracker/pkg/util"
)

var menuItems = []string{
	"Register customer",
	"Register technician",
	"Log complaint",
	"Assign technician",
	"Update complaint status",
	"View complaints",
	"Exit",
}

type menu struct {
	app    *App
	prompt *prompter
	out    io.Writer
}

// RunMenu drives the interactive operator loop until Exit, end of input or
// ctx is done. Action failures are printed and the loop continues.
func RunMenu(ctx context.Context, app *App, in io.Reader, out io.Writer) error {
	m := &menu{app: app, prompt: newPrompter(ctx, in, out), out: out}
	actions := []struct {
		name string
		run  func(context.Context) error
	}{
		{"register_customer", m.registerCustomer},
		{"register_technician", m.registerTechnician},
		{"log_complaint", m.logComplaint},
		{"assign_technician", m.assignTechnician},
		{"update_status", m.updateStatus},
		{"view_complaints", m.viewComplaints},
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprintln(out, "\n=== Telecom Complaint Tracker ===")
		choice, err := m.prompt.choose("Choose an option", menuItems)
		if err != nil {
			return endOfInput(err)
		}
		if choice == len(menuItems)-1 {
			fmt.Fprintln(out, "Goodbye.")
			return nil
		}
		action := actions[choice]
		err = app.track(action.name, func() error { return action.run(ctx) })
		switch {
		case ctx.Err() != nil:
			return ctx.Err()
		case errors.Is(err, io.EOF):
			return nil
		case err != nil:
			printError(out, err)
		}
	}
}

func endOfInput(err error) error {
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func (m *menu) registerCustomer(ctx context.Context) error {
	name, err := m.prompt.askRequired("Name")
	if err != nil {
		return err
	}
	phone, err := m.prompt.askPhone("Phone")
	if err != nil {
		return err
	}
	email, err := m.prompt.ask("Email (optional)")
	if err != nil {
		return err
	}
	address, err := m.prompt.askRequired("Address")
	if err != nil {
		return err
	}

	customer, err := m.app.Customers.Register(ctx, service.CustomerRegisterInput{
		Name: name, Phone: phone, Email: email, Address: address,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(m.out, "Customer registered with id %d.\n", customer.ID)
	return nil
}

func (m *menu) registerTechnician(ctx context.Context) error {
	name, err := m.prompt.askRequired("Name")
	if err != nil {
		return err
	}
	phone, err := m.prompt.askPhone("Phone")
	if err != nil {
		return err
	}
	email, err := m.prompt.ask("Email (optional)")
	if err != nil {
		return err
	}
	location, err := m.prompt.askRequired("Service location")
	if err != nil {
		return err
	}
	fmt.Fprintln(m.out, "Expertise:")
	expertise, err := chooseValue(m.prompt, "Choose expertise", domain.AllExpertise())
	if err != nil {
		return err
	}

	technician, err := m.app.Technicians.Register(ctx, service.TechnicianRegisterInput{
		Name: name, Phone: phone, Email: email, Location: location, Expertise: expertise,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(m.out, "Technician registered with id %d.\n", technician.ID)
	return nil
}

func (m *menu) logComplaint(ctx context.Context) error {
	phone, err := m.prompt.askPhone("Customer phone")
	if err != nil {
		return err
	}
	customer, err := m.app.Customers.GetByPhone(ctx, phone)
	if err != nil {
		if apperrors.HasCode(err, apperrors.CodeNotFound) {
			fmt.Fprintln(m.out, "Customer not found. Register the customer first.")
			return nil
		}
		return err
	}
	fmt.Fprintf(m.out, "Customer: %s\nIssue type:\n", customer.Name)
	issue, err := chooseValue(m.prompt, "Choose issue type", domain.AllIssueTypes())
	if err != nil {
		return err
	}
	description, err := m.prompt.askRequired("Description")
	if err != nil {
		return err
	}
	location, err := m.prompt.askRequired("Location")
	if err != nil {
		return err
	}

	complaint, err := m.app.Complaints.Log(ctx, service.ComplaintLogInput{
		CustomerID: customer.ID, IssueType: issue, Description: description, Location: location,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(m.out, "Complaint #%d logged with status %s.\n", complaint.ID, complaint.Status)
	return nil
}

func (m *menu) assignTechnician(ctx context.Context) error {
	open, err := m.app.Complaints.ListOpen(ctx)
	if err != nil {
		return err
	}
	printOpenComplaints(m.out, open)
	if len(open) == 0 {
		return nil
	}
	complaintID, err := m.prompt.askID("Complaint id")
	if err != nil {
		return err
	}

	technicians, err := m.app.Technicians.ListAvailable(ctx)
	if err != nil {
		return err
	}
	printTechnicians(m.out, technicians)
	if len(technicians) == 0 {
		return nil
	}
	technicianID, err := m.prompt.askID("Technician id")
	if err != nil {
		return err
	}

	result, err := m.app.Assignments.Assign(ctx, complaintID, technicianID)
	if err != nil {
		return err
	}
	fmt.Fprintf(m.out, "Complaint #%d assigned to %s.\n", result.Complaint.ID, result.Technician.Name)
	return nil
}

func (m *menu) updateStatus(ctx context.Context) error {
	active, err := m.app.Complaints.ListActive(ctx)
	if err != nil {
		return err
	}
	printActiveComplaints(m.out, active)
	if len(active) == 0 {
		return nil
	}
	complaintID, err := m.prompt.askID("Complaint id")
	if err != nil {
		return err
	}

	work, next, err := m.app.Statuses.AllowedTransitions(ctx, complaintID)
	if err != nil {
		return err
	}
	fmt.Fprintf(m.out, "Current status: %s (technician %s)\nNew status:\n", work.Status, work.TechnicianName)
	status, err := chooseValue(m.prompt, "Choose status", next)
	if err != nil {
		return err
	}
	var notes string
	if status == domain.StatusResolved {
		if notes, err = m.prompt.askRequired("Resolution notes"); err != nil {
			return err
		}
	}

	change, err := m.app.Statuses.UpdateStatus(ctx, service.StatusUpdateInput{
		ComplaintID: complaintID, NewStatus: status, ResolutionNotes: notes,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(m.out, "Complaint #%d moved from %s to %s.\n", change.ComplaintID, change.OldStatus, change.NewStatus)
	return nil
}

func (m *menu) viewComplaints(ctx context.Context) error {
	fmt.Fprintln(m.out, "Filter by status:")
	options := append([]string{"All"}, valueLabels(domain.AllStatuses())...)
	idx, err := m.prompt.choose("Choose filter", options)
	if err != nil {
		return err
	}
	var filter *domain.ComplaintStatus
	if idx > 0 {
		status := domain.AllStatuses()[idx-1]
		filter = &status
	}

	items, err := m.app.Complaints.List(ctx, filter)
	if err != nil {
		return err
	}
	printComplaints(m.out, items)
	if len(items) == 0 {
		return nil
	}

	answer, err := m.prompt.ask("Complaint id for details (blank to return)")
	if err != nil || answer == "" {
		return err
	}
	id, err := parseID(answer)
	if err != nil {
		return err
	}
	details, err := m.app.Complaints.Details(ctx, id)
	if err != nil {
		return err
	}
	printComplaintDetails(m.out, details)
	return nil
}
