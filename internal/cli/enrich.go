package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/evermind-migrate/internal/jsonfile"
	"github.com/mesh-intelligence/evermind-migrate/internal/migrate"
	"github.com/mesh-intelligence/evermind-migrate/pkg/types"
)

func newEnrichCmd(a *app) *cobra.Command {
	var (
		in, out        string
		preserveIsCode bool
	)
	cmd := &cobra.Command{
		Use:   "enrich",
		Short: "Add the default study fields and write an import file",
		Long: `enrich reads a cleaned question/answer array and writes one complete
Evermind question document per item, in MongoDB extended JSON ready for
mongoimport --jsonArray. Every document in the file shares one timestamp.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.cfg.ValidateIDs(); err != nil {
				return err
			}

			records, err := jsonfile.ReadArray(in)
			if err != nil {
				return err
			}
			raws := migrate.Project(records)

			summary := append(ownerSummary(a.cfg),
				fmt.Sprintf("questions:  %d from %s", len(raws), in),
				"output:     "+out)
			if err := a.confirm(cmd, summary); err != nil {
				return err
			}

			enricher, err := migrate.NewEnricher(a.cfg.UserID, a.cfg.SectionID,
				migrate.Options{PreserveIsCode: preserveIsCode}, a.log)
			if err != nil {
				return err
			}

			var n int
			err = a.record(types.PassEnrich, in, out, func() (int, error) {
				qs := enricher.EnrichAll(raws)
				if err := writeEnriched(out, qs); err != nil {
					return 0, err
				}
				n = len(qs)
				return n, nil
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s with %d enhanced questions\n", out, n)
			return nil
		},
	}
	cmd.Flags().StringVar(&in, "in", "questions_cleaned.json", "cleaned question/answer array")
	cmd.Flags().StringVar(&out, "out", "questions_enhanced.json", "output file")
	cmd.Flags().BoolVar(&preserveIsCode, "preserve-is-code", false, "keep a boolean isCode from the input instead of classifying")
	return cmd
}

// writeEnriched writes questions as an extended JSON array.
func writeEnriched(path string, qs []types.Question) error {
	docs, err := jsonfile.EncodeQuestions(qs)
	if err != nil {
		return err
	}
	return jsonfile.WriteArray(path, docs)
}
