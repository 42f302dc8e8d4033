package inspect

import (
	"fmt"
	"io"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/infracollect/dataprobe/internal/engine"
	"github.com/samber/lo"
)

const DataTypesKind = "data_types"

// DataTypesInspector reports, per column, the inferred type and the number of
// non-missing values.
type DataTypesInspector struct{}

var _ engine.Strategy = (*DataTypesInspector)(nil)

func NewDataTypesInspector() *DataTypesInspector {
	return &DataTypesInspector{}
}

func (i *DataTypesInspector) Name() string { return DataTypesKind }
func (i *DataTypesInspector) Kind() string { return DataTypesKind }

func (i *DataTypesInspector) Inspect(w io.Writer, df dataframe.DataFrame) error {
	var b strings.Builder
	b.WriteString("\nData Types and Non-null Counts\n")
	fmt.Fprintf(&b, "DataFrame: %d entries, %d columns\n", df.Nrow(), df.Ncol())

	if overview := ColumnTypes(df); overview.Ncol() > 0 {
		if err := WriteTable(&b, overview); err != nil {
			return err
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// ColumnTypes returns one row per column of df with its name, non-null count
// and gota type. It returns an empty DataFrame when df has no columns.
func ColumnTypes(df dataframe.DataFrame) dataframe.DataFrame {
	if df.Ncol() == 0 {
		return dataframe.DataFrame{}
	}

	names := df.Names()
	nonNull := lo.Map(names, func(name string, _ int) int {
		return nonNullCount(df.Col(name))
	})
	dtypes := lo.Map(df.Types(), func(t series.Type, _ int) string {
		return string(t)
	})

	return dataframe.New(
		series.New(names, series.String, "column"),
		series.New(nonNull, series.Int, "non_null"),
		series.New(dtypes, series.String, "dtype"),
	)
}

func nonNullCount(s series.Series) int {
	return lo.Count(s.IsNaN(), false)
}
