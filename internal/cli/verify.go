package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/evermind-migrate/internal/jsonfile"
	"github.com/mesh-intelligence/evermind-migrate/pkg/types"
)

func newVerifyCmd(a *app) *cobra.Command {
	var in string
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Show the structure of the first record in a questions file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := jsonfile.ReadArray(in)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s: %d records\n", in, len(records))
			if len(records) == 0 {
				return nil
			}

			first := records[0]
			keys := make([]string, 0, len(first))
			for k := range first {
				keys = append(keys, k)
			}
			sort.Strings(keys)

			_, hasQuestion := first[types.KeyQuestion]
			_, hasAnswer := first[types.KeyAnswer]
			fmt.Fprintf(out, "  keys in first item: %v\n", keys)
			fmt.Fprintf(out, "  has question field: %t\n", hasQuestion)
			fmt.Fprintf(out, "  has answer field:   %t\n", hasAnswer)
			return nil
		},
	}
	cmd.Flags().StringVar(&in, "in", "questions.json", "input JSON array")
	return cmd
}
