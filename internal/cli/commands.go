package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/spec-kit/telecom-tracker/internal/domain"
	"github.com/spec-kit/telecom-tracker/internal/service"
	apperrors "github.com/spec-kit/telecom-tracker/pkg/util"
)

func newCustomerCommand(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "customer",
		Short: "Register and look up customers",
	}

	var input service.CustomerRegisterInput
	register := &cobra.Command{
		Use:   "register",
		Short: "Register a customer",
		Long: `Register a customer. The phone number must be at least 10 digits and may
be registered only once.

Examples:
  tracker customer register --name Asha --phone 9876543210 --address "12 Elm St"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.app.track("register_customer", func() error {
				customer, err := s.app.Customers.Register(cmd.Context(), input)
				if err != nil {
					return err
				}
				printCustomer(s.out, customer)
				return nil
			})
		},
	}
	register.Flags().StringVar(&input.Name, "name", "", "Customer name (required)")
	register.Flags().StringVar(&input.Phone, "phone", "", "Phone number (required)")
	register.Flags().StringVar(&input.Email, "email", "", "Email address")
	register.Flags().StringVar(&input.Address, "address", "", "Postal address (required)")
	_ = register.MarkFlagRequired("name")
	_ = register.MarkFlagRequired("phone")
	_ = register.MarkFlagRequired("address")

	show := &cobra.Command{
		Use:   "show <phone>",
		Short: "Show a customer by phone number",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			customer, err := s.app.Customers.GetByPhone(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printCustomer(s.out, customer)
			return nil
		},
	}

	cmd.AddCommand(register, show)
	return cmd
}

func newTechnicianCommand(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "technician",
		Short: "Register technicians and list who is free",
	}

	var (
		input     service.TechnicianRegisterInput
		expertise string
	)
	register := &cobra.Command{
		Use:   "register",
		Short: "Register a field technician",
		Long: fmt.Sprintf(`Register a field technician. New technicians are available for assignment.

Expertise: %s

Examples:
  tracker technician register --name Ravi --phone 9123456780 --location Downtown --expertise "Network Infrastructure"`,
			joinValues(domain.AllExpertise())),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.app.track("register_technician", func() error {
				value, err := matchValue("expertise", expertise, domain.AllExpertise())
				if err != nil {
					return err
				}
				input.Expertise = value
				technician, err := s.app.Technicians.Register(cmd.Context(), input)
				if err != nil {
					return err
				}
				printTechnician(s.out, technician)
				return nil
			})
		},
	}
	register.Flags().StringVar(&input.Name, "name", "", "Technician name (required)")
	register.Flags().StringVar(&input.Phone, "phone", "", "Phone number (required)")
	register.Flags().StringVar(&input.Email, "email", "", "Email address")
	register.Flags().StringVar(&input.Location, "location", "", "Service location (required)")
	register.Flags().StringVar(&expertise, "expertise", "", "Expertise category (required)")
	_ = register.MarkFlagRequired("name")
	_ = register.MarkFlagRequired("phone")
	_ = register.MarkFlagRequired("location")
	_ = register.MarkFlagRequired("expertise")

	available := &cobra.Command{
		Use:   "available",
		Short: "List technicians free for a new assignment",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			technicians, err := s.app.Technicians.ListAvailable(cmd.Context())
			if err != nil {
				return err
			}
			printTechnicians(s.out, technicians)
			return nil
		},
	}

	cmd.AddCommand(register, available)
	return cmd
}

func newComplaintCommand(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "complaint",
		Short: "Log, assign and progress complaints",
	}
	cmd.AddCommand(
		newComplaintLogCommand(s),
		newComplaintOpenCommand(s),
		newComplaintActiveCommand(s),
		newComplaintListCommand(s),
		newComplaintShowCommand(s),
		newComplaintAssignCommand(s),
		newComplaintStatusCommand(s),
		newComplaintCloseCommand(s),
	)
	return cmd
}

func newComplaintLogCommand(s *session) *cobra.Command {
	var (
		input service.ComplaintLogInput
		issue string
	)
	cmd := &cobra.Command{
		Use:   "log",
		Short: "Log a complaint for a registered customer",
		Long: fmt.Sprintf(`Log a complaint. The customer is identified by --customer-id or --phone.
New complaints start Open.

Issue types: %s

Examples:
  tracker complaint log --phone 9876543210 --issue "No Signal" --description "no bars at home" --location "12 Elm St"`,
			joinValues(domain.AllIssueTypes())),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.app.track("log_complaint", func() error {
				value, err := matchValue("issue type", issue, domain.AllIssueTypes())
				if err != nil {
					return err
				}
				input.IssueType = value
				complaint, err := s.app.Complaints.Log(cmd.Context(), input)
				if err != nil {
					return err
				}
				fmt.Fprintf(s.out, "Complaint #%d logged with status %s.\n", complaint.ID, complaint.Status)
				return nil
			})
		},
	}
	cmd.Flags().Int64Var(&input.CustomerID, "customer-id", 0, "Customer id")
	cmd.Flags().StringVar(&input.CustomerPhone, "phone", "", "Customer phone number")
	cmd.Flags().StringVar(&issue, "issue", "", "Issue type (required)")
	cmd.Flags().StringVar(&input.Description, "description", "", "What the customer reported (required)")
	cmd.Flags().StringVar(&input.Location, "location", "", "Where the problem occurs (required)")
	cmd.MarkFlagsOneRequired("customer-id", "phone")
	_ = cmd.MarkFlagRequired("issue")
	_ = cmd.MarkFlagRequired("description")
	_ = cmd.MarkFlagRequired("location")
	return cmd
}

func newComplaintOpenCommand(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "open",
		Short: "List complaints waiting for a technician, oldest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := s.app.Complaints.ListOpen(cmd.Context())
			if err != nil {
				return err
			}
			printOpenComplaints(s.out, items)
			return nil
		},
	}
}

func newComplaintActiveCommand(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "active",
		Short: "List complaints being worked, in assignment order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := s.app.Complaints.ListActive(cmd.Context())
			if err != nil {
				return err
			}
			printActiveComplaints(s.out, items)
			return nil
		},
	}
}

func newComplaintListCommand(s *session) *cobra.Command {
	var status string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List complaints newest first",
		Long: fmt.Sprintf(`List complaints newest first, optionally narrowed to one status.

Statuses: %s

Examples:
  tracker complaint list
  tracker complaint list --status "In Progress"`,
			joinValues(domain.AllStatuses())),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.app.track("view_complaints", func() error {
				var filter *domain.ComplaintStatus
				if status != "" && !strings.EqualFold(status, "all") {
					value, err := matchValue("status", status, domain.AllStatuses())
					if err != nil {
						return err
					}
					filter = &value
				}
				items, err := s.app.Complaints.List(cmd.Context(), filter)
				if err != nil {
					return err
				}
				printComplaints(s.out, items)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "Only complaints in this status")
	return cmd
}

func newComplaintShowCommand(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "show <complaint-id>",
		Short: "Show a complaint with its customer and technician",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			details, err := s.app.Complaints.Details(cmd.Context(), id)
			if err != nil {
				return err
			}
			printComplaintDetails(s.out, details)
			return nil
		},
	}
}

func newComplaintAssignCommand(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "assign <complaint-id> <technician-id>",
		Short: "Assign an available technician to an Open complaint",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.app.track("assign_technician", func() error {
				complaintID, err := parseID(args[0])
				if err != nil {
					return err
				}
				technicianID, err := parseID(args[1])
				if err != nil {
					return err
				}
				result, err := s.app.Assignments.Assign(cmd.Context(), complaintID, technicianID)
				if err != nil {
					return err
				}
				fmt.Fprintf(s.out, "Complaint #%d assigned to %s.\n", result.Complaint.ID, result.Technician.Name)
				return nil
			})
		},
	}
}

func newComplaintStatusCommand(s *session) *cobra.Command {
	var notes string
	cmd := &cobra.Command{
		Use:   "status <complaint-id> <status>",
		Short: "Move an assigned complaint to its next status",
		Long: `Move an Assigned or In Progress complaint forward. Assigned may move to
In Progress or Resolved; In Progress may move to Resolved. Resolving requires
--notes and frees the technician.

Examples:
  tracker complaint status 12 "In Progress"
  tracker complaint status 12 Resolved --notes "replaced antenna"`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.app.track("update_status", func() error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				status, err := matchValue("status", args[1], domain.AllStatuses())
				if err != nil {
					return err
				}
				change, err := s.app.Statuses.UpdateStatus(cmd.Context(), service.StatusUpdateInput{
					ComplaintID: id, NewStatus: status, ResolutionNotes: notes,
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(s.out, "Complaint #%d moved from %s to %s.\n", change.ComplaintID, change.OldStatus, change.NewStatus)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&notes, "notes", "", "Resolution notes (required for Resolved)")
	return cmd
}

func newComplaintCloseCommand(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "close <complaint-id>",
		Short: "Close a Resolved complaint",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.app.track("close_complaint", func() error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				if _, err := s.app.Statuses.Close(cmd.Context(), id); err != nil {
					return err
				}
				fmt.Fprintf(s.out, "Complaint #%d closed.\n", id)
				return nil
			})
		},
	}
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationError("id must be a positive number", map[string]any{"id": raw})
	}
	return id, nil
}

// matchValue resolves operator input to one of values, ignoring case.
func matchValue[T ~string](field, raw string, values []T) (T, error) {
	raw = strings.TrimSpace(raw)
	for _, v := range values {
		if strings.EqualFold(string(v), raw) {
			return v, nil
		}
	}
	var zero T
	return zero, apperrors.NewValidationError(
		fmt.Sprintf("unknown %s %q, expected one of: %s", field, raw, joinValues(values)), nil)
}

func joinValues[T ~string](values []T) string {
	return strings.Join(valueLabels(values), ", ")
}
