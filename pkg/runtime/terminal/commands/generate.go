package commands

import (
	"fmt"
	"time"

	"github.com/de-tools/sales-atlas/pkg/models/domain"
	"github.com/de-tools/sales-atlas/pkg/store/dataset"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

type GenerateCmd struct {
	out        string
	start      string
	categories []string
	opts       dataset.GenerateOptions
}

func NewGenerateCmd() *cobra.Command {
	gc := &GenerateCmd{opts: dataset.DefaultGenerateOptions()}
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write a dummy sales dataset for demos and tests",
		RunE:  gc.run,
	}

	cmd.Flags().StringVar(&gc.out, "out", "", "Output file (.csv or .xlsx)")
	cmd.Flags().IntVar(&gc.opts.Rows, "rows", gc.opts.Rows, "Number of transactions")
	cmd.Flags().IntVar(&gc.opts.Products, "products", gc.opts.Products, "Number of distinct products")
	cmd.Flags().IntVar(&gc.opts.Months, "months", gc.opts.Months, "Number of months covered")
	cmd.Flags().StringVar(&gc.start, "start", gc.opts.Start.String(), "First month, as YYYY-MM")
	cmd.Flags().Int64Var(&gc.opts.Seed, "seed", gc.opts.Seed, "Random seed")
	cmd.Flags().StringSliceVar(&gc.categories, "category", nil, "Category names to draw from")

	_ = cmd.MarkFlagRequired("out")

	return cmd
}

func (gc *GenerateCmd) run(cmd *cobra.Command, _ []string) error {
	start, err := time.Parse("2006-01", gc.start)
	if err != nil {
		return fmt.Errorf("invalid --start %q, expected YYYY-MM", gc.start)
	}
	gc.opts.Start = domain.BucketOf(start)
	gc.opts.Categories = gc.categories

	table, err := dataset.Generate(gc.opts)
	if err != nil {
		return err
	}
	if err := dataset.SaveFile(gc.out, table); err != nil {
		return err
	}

	zerolog.Ctx(cmd.Context()).Info().
		Str("path", gc.out).
		Int("rows", len(table.Rows)).
		Msg("dataset written")
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d rows to %s\n", len(table.Rows), gc.out)
	return nil
}
