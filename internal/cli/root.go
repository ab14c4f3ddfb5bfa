package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// BuildInfo carries the ldflags-injected identifiers printed by the
// version command.
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"build_time"`
}

func NewRootCommand(out io.Writer, build BuildInfo) *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:           "gymtribe",
		Short:         "Local gym member, payment and expense tracker",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a TOML config file")

	cmd.AddCommand(newVersionCommand(out, build))
	cmd.AddCommand(newMemberCommand(out, &configPath))
	cmd.AddCommand(newPaymentCommand(out, &configPath))
	cmd.AddCommand(newExpenseCommand(out, &configPath))
	cmd.AddCommand(newReportCommand(out, &configPath))
	cmd.InitDefaultCompletionCmd()
	return cmd
}

func newVersionCommand(out io.Writer, build BuildInfo) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the gymtribe build version",
		RunE: func(cmd *cobra.Command, args []string) error {
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(build)
			}

			_, err := fmt.Fprintf(out, "gymtribe %s (commit %s, built %s)\n", build.Version, build.Commit, build.BuildTime)
			return err
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print version as JSON")
	return cmd
}
