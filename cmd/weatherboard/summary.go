package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"go.uber.org/zap"

	"github.com/lox/weatherboard/internal/season"
)

type SummaryCmd struct{}

func (c *SummaryCmd) Run(g *Globals, log *zap.SugaredLogger) error {
	ctx, cancel := signalContext()
	defer cancel()

	ds, table, err := loadTable(ctx, g, log)
	if err != nil {
		return err
	}

	fmt.Printf("%s: %d observations\n\n", g.Data, ds.Len())
	return writeTable(os.Stdout, table)
}

// writeTable prints the frequency table with a total row and column.
func writeTable(w io.Writer, table *season.Table) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)

	fmt.Fprint(tw, "weather_type\t")
	for _, s := range table.Seasons {
		fmt.Fprintf(tw, "%s\t", s)
	}
	fmt.Fprintln(tw, "Total\t")

	for i, wt := range table.WeatherTypes {
		fmt.Fprintf(tw, "%s\t", wt)
		total := 0
		for _, n := range table.Counts[i] {
			fmt.Fprintf(tw, "%d\t", n)
			total += n
		}
		fmt.Fprintf(tw, "%d\t\n", total)
	}

	fmt.Fprint(tw, "Total\t")
	for _, s := range table.Seasons {
		fmt.Fprintf(tw, "%d\t", table.ColumnTotal(s))
	}
	fmt.Fprintf(tw, "%d\t\n", table.Total())

	return tw.Flush()
}
