package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/Samsoorsamander/Gym-tribe-tracker/internal/storage"
)

var (
	reportTitleStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	reportLabelStyle = lipgloss.NewStyle().Width(18).Faint(true)
	profitStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	lossStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
)

func newReportCommand(out io.Writer, configPath *string) *cobra.Command {
	var (
		year  int
		month string
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Monthly profit/loss report",
		RunE: func(cmd *cobra.Command, args []string) error {
			now := time.Now()
			if year == 0 {
				year = now.Year()
			}
			if month == "" {
				month = now.Month().String()
			}

			rt, err := newRuntime(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer rt.close()

			report, err := rt.service.MonthlyReport(cmd.Context(), year, month)
			if err != nil {
				return err
			}

			_, err = fmt.Fprint(out, renderReport(year, month, report))
			return err
		},
	}

	cmd.Flags().IntVar(&year, "year", 0, "Report year (defaults to current)")
	cmd.Flags().StringVar(&month, "month", "", "Report month, e.g. January (defaults to current)")
	return cmd
}

func renderReport(year int, month string, report storage.MonthlyReport) string {
	profit := profitStyle
	if report.NetProfit < 0 {
		profit = lossStyle
	}

	// Collection rate belongs to the presentation layer, not the data
	// layer.
	rate := 0.0
	if report.TotalCustomers > 0 {
		rate = float64(report.PaidCustomers) / float64(report.TotalCustomers) * 100
	}

	lines := []string{
		reportTitleStyle.Render(fmt.Sprintf("%s %d", month, year)),
		reportLabelStyle.Render("total income") + fmt.Sprintf("%.2f", report.TotalIncome),
		reportLabelStyle.Render("total expenses") + fmt.Sprintf("%.2f", report.TotalExpenses),
		reportLabelStyle.Render("net profit") + profit.Render(fmt.Sprintf("%.2f", report.NetProfit)),
		reportLabelStyle.Render("active members") + fmt.Sprintf("%d", report.TotalCustomers),
		reportLabelStyle.Render("paid") + fmt.Sprintf("%d", report.PaidCustomers),
		reportLabelStyle.Render("unpaid") + fmt.Sprintf("%d", report.UnpaidCustomers),
		reportLabelStyle.Render("collection rate") + fmt.Sprintf("%.1f%%", rate),
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...) + "\n"
}
