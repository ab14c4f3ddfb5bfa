package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Samsoorsamander/Gym-tribe-tracker/internal/app"
)

func newPaymentCommand(out io.Writer, configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "payment",
		Short: "Record and inspect monthly payments",
	}
	cmd.AddCommand(newPaymentAddCommand(out, configPath))
	cmd.AddCommand(newPaymentListCommand(out, configPath))
	cmd.AddCommand(newPaymentStatusCommand(out, configPath))
	return cmd
}

func newPaymentAddCommand(out io.Writer, configPath *string) *cobra.Command {
	var req app.AddPaymentRequest

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a payment for a member",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer rt.close()

			id, err := rt.service.AddPayment(cmd.Context(), req)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(out, "payment %d recorded\n", id)
			return err
		},
	}

	cmd.Flags().Int64Var(&req.CustomerID, "member", 0, "Member id (required)")
	cmd.Flags().Float64Var(&req.Amount, "amount", 0, "Amount paid")
	cmd.Flags().StringVar(&req.PaymentDate, "date", "", "Payment date (RFC 3339, defaults to now)")
	cmd.Flags().StringVar(&req.Month, "month", "", "Month the payment covers, e.g. January (required)")
	cmd.Flags().IntVar(&req.Year, "year", 0, "Year the payment covers (required)")
	_ = cmd.MarkFlagRequired("member")
	_ = cmd.MarkFlagRequired("month")
	_ = cmd.MarkFlagRequired("year")
	return cmd
}

func newPaymentListCommand(out io.Writer, configPath *string) *cobra.Command {
	var memberID int64

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List payments, most recent first",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer rt.close()

			payments := rt.service.Payments(cmd.Context())
			if memberID > 0 {
				payments = rt.service.CustomerPayments(cmd.Context(), memberID)
			}

			w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tMEMBER\tAMOUNT\tPERIOD\tDATE")
			for _, p := range payments {
				fmt.Fprintf(w, "%d\t%d\t%.2f\t%s %d\t%s\n", p.ID, p.CustomerID, p.Amount, p.Month, p.Year, p.PaymentDate)
			}
			return w.Flush()
		},
	}

	cmd.Flags().Int64Var(&memberID, "member", 0, "Only payments of this member")
	return cmd
}

func newPaymentStatusCommand(out io.Writer, configPath *string) *cobra.Command {
	var (
		memberID int64
		month    string
		year     int
	)

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Check whether a member has paid for a month",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer rt.close()

			paid := rt.service.HasPaymentForMonth(cmd.Context(), memberID, month, year)
			if paid {
				_, err = fmt.Fprintf(out, "member %d has paid for %s %d\n", memberID, month, year)
			} else {
				_, err = fmt.Fprintf(out, "member %d has not paid for %s %d\n", memberID, month, year)
			}
			return err
		},
	}

	cmd.Flags().Int64Var(&memberID, "member", 0, "Member id (required)")
	cmd.Flags().StringVar(&month, "month", "", "Month, e.g. January (required)")
	cmd.Flags().IntVar(&year, "year", 0, "Year (required)")
	_ = cmd.MarkFlagRequired("member")
	_ = cmd.MarkFlagRequired("month")
	_ = cmd.MarkFlagRequired("year")
	return cmd
}
