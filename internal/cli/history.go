package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

func newHistoryCmd(a *app) *cobra.Command {
	var (
		limit    int
		jsonMode bool
	)
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List previous runs from the ledger",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := a.openLedger()
			if err != nil {
				return err
			}
			defer l.Close()

			runs, err := l.List(limit)
			if err != nil {
				return fmt.Errorf("list runs: %w", err)
			}

			out := cmd.OutOrStdout()
			if jsonMode {
				data, err := json.MarshalIndent(runs, "", "  ")
				if err != nil {
					return fmt.Errorf("marshal runs: %w", err)
				}
				fmt.Fprintln(out, string(data))
				return nil
			}

			if len(runs) == 0 {
				fmt.Fprintln(out, "No runs recorded.")
				return nil
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tPASS\tSTATE\tRECORDS\tSTARTED\tTARGET")
			fmt.Fprintln(w, "--\t----\t-----\t-------\t-------\t------")
			for _, run := range runs {
				displayID := run.RunID
				if len(displayID) > 8 {
					displayID = displayID[len(displayID)-8:]
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s\n",
					displayID, run.Pass, run.State, run.Records,
					run.StartedAt.Local().Format(time.DateTime), run.Target)
				if run.Error != "" {
					fmt.Fprintf(w, "\t\terror: %s\t\t\t\n", run.Error)
				}
			}
			w.Flush()
			fmt.Fprintf(out, "\nTotal: %d run(s)\n", len(runs))
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum number of runs (0 = all)")
	cmd.Flags().BoolVar(&jsonMode, "json", false, "output as JSON")
	return cmd
}
