package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/evermind-migrate/internal/jsonfile"
	"github.com/mesh-intelligence/evermind-migrate/internal/migrate"
	"github.com/mesh-intelligence/evermind-migrate/pkg/types"
)

func newExtractCmd(a *app) *cobra.Command {
	var in, out string
	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Keep only question and answer from each record",
		Long: `extract reads a JSON array of arbitrary objects and writes an array of the
same length where each object has exactly "question" and "answer". Missing
fields become empty strings. The output file is replaced only on success.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var n int
			err := a.record(types.PassExtract, in, out, func() (int, error) {
				records, err := jsonfile.ReadArray(in)
				if err != nil {
					return 0, err
				}
				a.log.Debug("read records", zap.Int("records", len(records)))

				cleaned := migrate.Project(records)
				if err := jsonfile.WriteArray(out, cleaned); err != nil {
					return 0, err
				}
				n = len(cleaned)
				return n, nil
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cleaned %d items into %s\n", n, out)
			return nil
		},
	}
	cmd.Flags().StringVar(&in, "in", "questions.json", "input JSON array")
	cmd.Flags().StringVar(&out, "out", "questions_cleaned.json", "output file")
	return cmd
}
