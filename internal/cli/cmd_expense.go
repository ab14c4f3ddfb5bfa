package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Samsoorsamander/Gym-tribe-tracker/internal/app"
	"github.com/Samsoorsamander/Gym-tribe-tracker/internal/storage"
)

func newExpenseCommand(out io.Writer, configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "expense",
		Short: "Track operating expenses",
	}
	cmd.AddCommand(newExpenseAddCommand(out, configPath))
	cmd.AddCommand(newExpenseListCommand(out, configPath))
	return cmd
}

func newExpenseAddCommand(out io.Writer, configPath *string) *cobra.Command {
	var (
		req      app.AddExpenseRequest
		category string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record an operating expense",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer rt.close()

			req.Category = storage.ExpenseCategory(category)
			id, err := rt.service.AddExpense(cmd.Context(), req)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(out, "expense %d recorded\n", id)
			return err
		},
	}

	cmd.Flags().StringVar(&req.Description, "description", "", "What the money went to (required)")
	cmd.Flags().Float64Var(&req.Amount, "amount", 0, "Amount spent")
	cmd.Flags().StringVar(&category, "category", string(storage.CategoryOther),
		"One of rent, utilities, equipment, maintenance, staff, other")
	cmd.Flags().StringVar(&req.ExpenseDate, "date", "", "Expense date (RFC 3339, defaults to now)")
	_ = cmd.MarkFlagRequired("description")
	return cmd
}

func newExpenseListCommand(out io.Writer, configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List expenses, most recent first",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer rt.close()

			expenses := rt.service.Expenses(cmd.Context())
			w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tDESCRIPTION\tAMOUNT\tCATEGORY\tPERIOD")
			for _, e := range expenses {
				fmt.Fprintf(w, "%d\t%s\t%.2f\t%s\t%s %d\n", e.ID, e.Description, e.Amount, e.Category, e.Month, e.Year)
			}
			return w.Flush()
		},
	}
}
