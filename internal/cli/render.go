package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spec-kit/telecom-tracker/internal/domain"
	apperrors "github.com/spec-kit/telecom-tracker/pkg/util"
)

const timeLayout = "2006-01-02 15:04"

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format(timeLayout)
}

func orDash(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return *s
}

func printError(w io.Writer, err error) {
	var derr *apperrors.DomainError
	if errors.As(err, &derr) {
		fmt.Fprintf(w, "Error [%s]: %s\n", derr.Code, derr.Error())
		return
	}
	fmt.Fprintf(w, "Error: %v\n", err)
}

func printCustomer(w io.Writer, c *domain.Customer) {
	fmt.Fprintf(w, "Customer #%d\n", c.ID)
	fmt.Fprintf(w, "  Name:       %s\n", c.Name)
	fmt.Fprintf(w, "  Phone:      %s\n", c.Phone)
	fmt.Fprintf(w, "  Email:      %s\n", orDash(c.Email))
	fmt.Fprintf(w, "  Address:    %s\n", c.Address)
	fmt.Fprintf(w, "  Registered: %s\n", formatTime(c.RegisteredAt))
}

func printTechnician(w io.Writer, t *domain.Technician) {
	availability := "available"
	if !t.Available {
		availability = "on assignment"
	}
	fmt.Fprintf(w, "Technician #%d\n", t.ID)
	fmt.Fprintf(w, "  Name:      %s\n", t.Name)
	fmt.Fprintf(w, "  Phone:     %s\n", t.Phone)
	fmt.Fprintf(w, "  Email:     %s\n", orDash(t.Email))
	fmt.Fprintf(w, "  Location:  %s\n", t.Location)
	fmt.Fprintf(w, "  Expertise: %s\n", t.Expertise)
	fmt.Fprintf(w, "  Status:    %s\n", availability)
}

func printTechnicians(w io.Writer, technicians []domain.Technician) {
	if len(technicians) == 0 {
		fmt.Fprintln(w, "No available technicians.")
		return
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tNAME\tPHONE\tLOCATION\tEXPERTISE")
	for _, t := range technicians {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", t.ID, t.Name, t.Phone, t.Location, t.Expertise)
	}
	_ = tw.Flush()
}

func printOpenComplaints(w io.Writer, items []domain.OpenComplaint) {
	if len(items) == 0 {
		fmt.Fprintln(w, "No open complaints.")
		return
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tCUSTOMER\tISSUE\tLOCATION\tLOGGED")
	for _, c := range items {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", c.ComplaintID, c.CustomerName, c.IssueType, c.Location, formatTime(c.CreatedAt))
	}
	_ = tw.Flush()
}

func printActiveComplaints(w io.Writer, items []domain.ActiveComplaint) {
	if len(items) == 0 {
		fmt.Fprintln(w, "No complaints in progress.")
		return
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tCUSTOMER\tISSUE\tSTATUS\tTECHNICIAN\tASSIGNED")
	for _, c := range items {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
			c.ComplaintID, c.CustomerName, c.IssueType, c.Status, c.TechnicianName, formatTime(c.AssignedAt))
	}
	_ = tw.Flush()
}

func printComplaints(w io.Writer, items []domain.ComplaintSummary) {
	if len(items) == 0 {
		fmt.Fprintln(w, "No complaints found.")
		return
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tCUSTOMER\tISSUE\tSTATUS\tTECHNICIAN\tLOGGED\tDESCRIPTION")
	for _, c := range items {
		technician := "Unassigned"
		if c.TechnicianName != nil {
			technician = *c.TechnicianName
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			c.ComplaintID, c.CustomerName, c.IssueType, c.Status, technician,
			formatTime(c.CreatedAt), truncate(c.Description, 40))
	}
	_ = tw.Flush()
}

func printComplaintDetails(w io.Writer, d *domain.ComplaintDetails) {
	fmt.Fprintf(w, "Complaint #%d\n", d.ComplaintID)
	fmt.Fprintf(w, "  Customer:    %s (%s)\n", d.CustomerName, d.CustomerPhone)
	fmt.Fprintf(w, "  Issue:       %s\n", d.IssueType)
	fmt.Fprintf(w, "  Description: %s\n", d.Description)
	fmt.Fprintf(w, "  Location:    %s\n", d.Location)
	fmt.Fprintf(w, "  Status:      %s\n", d.Status)
	fmt.Fprintf(w, "  Logged:      %s\n", formatTime(d.CreatedAt))
	fmt.Fprintf(w, "  Updated:     %s\n", formatTime(d.UpdatedAt))
	if d.Assignment == nil {
		fmt.Fprintln(w, "  Technician:  Unassigned")
		return
	}
	a := d.Assignment
	fmt.Fprintf(w, "  Technician:  %s (%s, %s)\n", a.TechnicianName, a.TechnicianPhone, a.Expertise)
	fmt.Fprintf(w, "  Assigned:    %s\n", formatTime(a.AssignedAt))
	if a.ResolvedAt != nil {
		fmt.Fprintf(w, "  Resolved:    %s\n", formatTime(*a.ResolvedAt))
		fmt.Fprintf(w, "  Resolution:  %s\n", orDash(a.ResolutionNotes))
	}
}

func truncate(s string, max int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
