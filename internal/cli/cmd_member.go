package cli

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Samsoorsamander/Gym-tribe-tracker/internal/app"
	"github.com/Samsoorsamander/Gym-tribe-tracker/internal/storage"
)

func newMemberCommand(out io.Writer, configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "member",
		Short:   "Manage gym members",
		Aliases: []string{"customer"},
	}
	cmd.AddCommand(newMemberAddCommand(out, configPath))
	cmd.AddCommand(newMemberListCommand(out, configPath))
	cmd.AddCommand(newMemberShowCommand(out, configPath))
	cmd.AddCommand(newMemberUpdateCommand(out, configPath))
	cmd.AddCommand(newMemberRemoveCommand(out, configPath))
	return cmd
}

func newMemberAddCommand(out io.Writer, configPath *string) *cobra.Command {
	var req app.AddCustomerRequest
	var inactive bool

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Register a new member",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer rt.close()

			if inactive {
				active := false
				req.Active = &active
			}
			id, err := rt.service.AddCustomer(cmd.Context(), req)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(out, "member %d added\n", id)
			return err
		},
	}

	cmd.Flags().StringVar(&req.Name, "name", "", "Member name (required)")
	cmd.Flags().StringVar(&req.Phone, "phone", "", "Phone number (required)")
	cmd.Flags().StringVar(&req.Email, "email", "", "Email address")
	cmd.Flags().Float64Var(&req.MonthlyFee, "fee", 0, "Monthly fee")
	cmd.Flags().StringVar(&req.BloodGroup, "blood-group", "", "Blood group")
	cmd.Flags().StringVar(&req.JoinDate, "join-date", "", "Join date (RFC 3339, defaults to now)")
	cmd.Flags().StringVar(&req.Image, "image", "", "Image reference")
	cmd.Flags().BoolVar(&inactive, "inactive", false, "Register as inactive")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("phone")
	return cmd
}

func newMemberListCommand(out io.Writer, configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List members ordered by name",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer rt.close()

			customers := rt.service.Customers(cmd.Context())
			w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tPHONE\tFEE\tACTIVE")
			for _, c := range customers {
				fmt.Fprintf(w, "%d\t%s\t%s\t%.2f\t%v\n", c.ID, c.Name, c.Phone, c.MonthlyFee, c.IsActive)
			}
			return w.Flush()
		},
	}
}

func newMemberShowCommand(out io.Writer, configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one member and their payment history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			rt, err := newRuntime(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer rt.close()

			customer, err := rt.service.Customer(cmd.Context(), id)
			if err != nil {
				return err
			}

			fmt.Fprintf(out, "id:          %d\n", customer.ID)
			fmt.Fprintf(out, "name:        %s\n", customer.Name)
			fmt.Fprintf(out, "phone:       %s\n", customer.Phone)
			fmt.Fprintf(out, "email:       %s\n", customer.Email)
			fmt.Fprintf(out, "monthly fee: %.2f\n", customer.MonthlyFee)
			fmt.Fprintf(out, "blood group: %s\n", customer.BloodGroup)
			fmt.Fprintf(out, "joined:      %s\n", customer.JoinDate)
			fmt.Fprintf(out, "active:      %v\n", customer.IsActive)

			payments := rt.service.CustomerPayments(cmd.Context(), id)
			if len(payments) == 0 {
				return nil
			}
			fmt.Fprintln(out, "payments:")
			for _, p := range payments {
				fmt.Fprintf(out, "  %s %d: %.2f on %s\n", p.Month, p.Year, p.Amount, p.PaymentDate)
			}
			return nil
		},
	}
}

func newMemberUpdateCommand(out io.Writer, configPath *string) *cobra.Command {
	var (
		name       string
		phone      string
		email      string
		fee        float64
		bloodGroup string
		image      string
		active     bool
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update the supplied fields of a member",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			// Only flags the caller actually set become part of the
			// partial update.
			var update storage.CustomerUpdate
			flags := cmd.Flags()
			if flags.Changed("name") {
				update.Name = &name
			}
			if flags.Changed("phone") {
				update.Phone = &phone
			}
			if flags.Changed("email") {
				update.Email = &email
			}
			if flags.Changed("fee") {
				update.MonthlyFee = &fee
			}
			if flags.Changed("blood-group") {
				update.BloodGroup = &bloodGroup
			}
			if flags.Changed("image") {
				update.Image = &image
			}
			if flags.Changed("active") {
				update.IsActive = &active
			}

			rt, err := newRuntime(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer rt.close()

			if err := rt.service.UpdateCustomer(cmd.Context(), id, update); err != nil {
				return err
			}
			_, err = fmt.Fprintf(out, "member %d updated\n", id)
			return err
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Member name")
	cmd.Flags().StringVar(&phone, "phone", "", "Phone number")
	cmd.Flags().StringVar(&email, "email", "", "Email address")
	cmd.Flags().Float64Var(&fee, "fee", 0, "Monthly fee")
	cmd.Flags().StringVar(&bloodGroup, "blood-group", "", "Blood group")
	cmd.Flags().StringVar(&image, "image", "", "Image reference")
	cmd.Flags().BoolVar(&active, "active", true, "Active status")
	return cmd
}

func newMemberRemoveCommand(out io.Writer, configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a member and all their payments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			rt, err := newRuntime(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer rt.close()

			if err := rt.service.DeleteCustomer(cmd.Context(), id); err != nil {
				return err
			}
			_, err = fmt.Fprintf(out, "member %d deleted\n", id)
			return err
		},
	}
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return id, nil
}
