package inspect

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/go-gota/gota/dataframe"
	"github.com/samber/lo"
)

// WriteTable renders every row and column of df, header first, as aligned
// plain text. gota's String() truncates wide and long frames.
func WriteTable(w io.Writer, df dataframe.DataFrame) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, row := range df.Records() {
		cells := lo.Map(row, func(cell string, _ int) string {
			return strings.ReplaceAll(cell, "\t", " ")
		})
		if _, err := fmt.Fprintln(tw, strings.Join(cells, "\t")); err != nil {
			return err
		}
	}
	return tw.Flush()
}

// labelColumn returns a name for the statistic label column that none of
// names uses.
func labelColumn(names []string) string {
	label := "statistic"
	for lo.Contains(names, label) {
		label = "_" + label
	}
	return label
}
