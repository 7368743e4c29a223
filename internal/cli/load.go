package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/evermind-migrate/internal/jsonfile"
	"github.com/mesh-intelligence/evermind-migrate/internal/migrate"
	"github.com/mesh-intelligence/evermind-migrate/internal/store"
	"github.com/mesh-intelligence/evermind-migrate/pkg/types"
)

// sampleWidth bounds how much of the sample question and answer is shown.
const sampleWidth = 50

// storeOpener connects to the configured collection. The returned close
// function releases the connection.
type storeOpener func(ctx context.Context, cfg types.Config) (store.Collection, func(context.Context) error, error)

func connectStore(ctx context.Context, cfg types.Config) (store.Collection, func(context.Context) error, error) {
	client, err := store.Connect(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	return client.Collection(cfg.Collection), client.Close, nil
}

func newLoadCmd(a *app) *cobra.Command {
	var (
		in, dump       string
		preserveIsCode bool
	)
	cmd := &cobra.Command{
		Use:   "load",
		Short: "Enrich a questions file and insert it into MongoDB",
		Long: `load reads a raw questions array, enriches every item exactly like enrich
(plus an explicit null lastReviewed), and inserts the batch into MongoDB with
a single unordered bulk insert. If the insert fails, every document of the
batch is deleted again so the collection is left as it was. The whole load,
connection included, must finish within the configured timeout.

--dump writes the enriched batch before the insert and is kept even when the
insert is rolled back; the run history lists the dump path with the target.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.cfg.Validate(); err != nil {
				return err
			}

			records, err := jsonfile.ReadArray(in)
			if err != nil {
				return err
			}
			raws := migrate.Project(records)
			target := a.cfg.Database + "." + a.cfg.Collection

			summary := append(ownerSummary(a.cfg),
				fmt.Sprintf("questions:  %d from %s", len(raws), in),
				"target:     "+target)
			if err := a.confirm(cmd, summary); err != nil {
				return err
			}

			enricher, err := migrate.NewEnricher(a.cfg.UserID, a.cfg.SectionID,
				migrate.Options{IncludeLastReviewed: true, PreserveIsCode: preserveIsCode}, a.log)
			if err != nil {
				return err
			}

			recorded := target
			if dump != "" {
				recorded = target + " (dump: " + dump + ")"
			}

			var res *store.Result
			err = a.record(types.PassLoad, in, recorded, func() (int, error) {
				qs := enricher.EnrichAll(raws)
				if dump != "" {
					if err := writeEnriched(dump, qs); err != nil {
						return 0, fmt.Errorf("write dump: %w", err)
					}
				}

				ctx := cmd.Context()
				if ctx == nil {
					ctx = context.Background()
				}
				ctx, cancel := context.WithTimeout(ctx, a.cfg.OperationTimeout())
				defer cancel()

				coll, closeStore, err := a.openStore(ctx, a.cfg)
				if err != nil {
					return 0, err
				}
				defer closeStore(context.WithoutCancel(ctx))

				res, err = store.NewLoader(coll, a.log).Load(ctx, qs)
				if err != nil {
					return 0, err
				}
				return res.Inserted, nil
			})
			if err != nil {
				return err
			}

			printLoadResult(cmd.OutOrStdout(), res)
			return nil
		},
	}
	cmd.Flags().StringVar(&in, "in", "questions.json", "raw questions array")
	cmd.Flags().StringVar(&dump, "dump", "", "also write the enriched batch to this file before inserting")
	cmd.Flags().BoolVar(&preserveIsCode, "preserve-is-code", false, "keep a boolean isCode from the input instead of classifying")
	return cmd
}

func printLoadResult(w io.Writer, res *store.Result) {
	fmt.Fprintf(w, "Imported %d questions\n", res.Inserted)
	fmt.Fprintf(w, "Collection now has %d total questions\n", res.Total)
	if res.Sample == nil {
		return
	}
	s := res.Sample
	fmt.Fprintln(w, "Sample imported question:")
	fmt.Fprintf(w, "  question:   %s\n", truncate(s.Question, sampleWidth))
	fmt.Fprintf(w, "  answer:     %s\n", truncate(s.Answer, sampleWidth))
	fmt.Fprintf(w, "  user_id:    %s\n", s.UserID.Hex())
	fmt.Fprintf(w, "  section_id: %s\n", s.SectionID.Hex())
	fmt.Fprintf(w, "  isCode:     %t\n", s.IsCode)
}

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
