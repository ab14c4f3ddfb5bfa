package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Samsoorsamander/Gym-tribe-tracker/internal/storage"
)

func TestVersionCommand(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	cmd := NewRootCommand(&out, BuildInfo{Version: "1.2.3", Commit: "abc", BuildTime: "now"})
	cmd.SetArgs([]string{"version"})
	require.NoError(t, cmd.Execute())
	require.Contains(t, out.String(), "gymtribe 1.2.3 (commit abc, built now)")
}

func TestVersionCommandJSON(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	cmd := NewRootCommand(&out, BuildInfo{Version: "1.2.3"})
	cmd.SetArgs([]string{"version", "--json"})
	require.NoError(t, cmd.Execute())
	require.Contains(t, out.String(), `"version": "1.2.3"`)
}

func TestParseID(t *testing.T) {
	t.Parallel()

	id, err := parseID("42")
	require.NoError(t, err)
	require.Equal(t, int64(42), id)

	_, err = parseID("0")
	require.Error(t, err)
	_, err = parseID("-3")
	require.Error(t, err)
	_, err = parseID("abc")
	require.Error(t, err)
}

func TestRenderReportShowsCollectionRate(t *testing.T) {
	t.Parallel()

	out := renderReport(2024, "March", storage.MonthlyReport{
		TotalIncome:     110,
		TotalExpenses:   40,
		NetProfit:       70,
		TotalCustomers:  3,
		PaidCustomers:   2,
		UnpaidCustomers: 1,
	})
	require.Contains(t, out, "March 2024")
	require.Contains(t, out, "110.00")
	require.Contains(t, out, "66.7%")
}
