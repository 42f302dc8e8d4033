package inspect

import (
	"io"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/infracollect/dataprobe/internal/engine"
	"github.com/samber/lo"
)

const SummaryStatisticsKind = "summary_statistics"

var (
	numericStatistics     = []string{"count", "mean", "std", "min", "25%", "50%", "75%", "max"}
	categoricalStatistics = []string{"count", "unique", "top", "freq"}
)

// SummaryStatisticsInspector reports descriptive statistics, separately for
// numeric (int, float) and categorical (string, bool) columns. A section with
// no qualifying column prints only its heading.
type SummaryStatisticsInspector struct{}

var _ engine.Strategy = (*SummaryStatisticsInspector)(nil)

func NewSummaryStatisticsInspector() *SummaryStatisticsInspector {
	return &SummaryStatisticsInspector{}
}

func (i *SummaryStatisticsInspector) Name() string { return SummaryStatisticsKind }
func (i *SummaryStatisticsInspector) Kind() string { return SummaryStatisticsKind }

func (i *SummaryStatisticsInspector) Inspect(w io.Writer, df dataframe.DataFrame) error {
	var b strings.Builder

	b.WriteString("\nSummary Statistics (Numerical Features):\n")
	if numeric := NumericSummary(df); numeric.Ncol() > 0 {
		if err := WriteTable(&b, numeric); err != nil {
			return err
		}
	}

	b.WriteString("\nSummary Statistics (Categorical Features):\n")
	if categorical := CategoricalSummary(df); categorical.Ncol() > 0 {
		if err := WriteTable(&b, categorical); err != nil {
			return err
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// NumericSummary returns count, mean, std, min, quartiles and max for every
// int and float column of df, missing values excluded. Quartiles interpolate
// linearly between the closest ranks. The first column holds the statistic
// names; it is called "statistic", prefixed with underscores when a dataset
// column already has that name. It returns an empty DataFrame when df has no
// numeric column.
func NumericSummary(df dataframe.DataFrame) dataframe.DataFrame {
	columns := selectColumns(df, series.Int, series.Float)
	if len(columns) == 0 {
		return dataframe.DataFrame{}
	}

	label := labelColumn(columnNames(columns))
	out := []series.Series{series.New(numericStatistics, series.String, label)}
	for _, s := range columns {
		out = append(out, series.New(describeNumeric(s), series.Float, s.Name))
	}

	return dataframe.New(out...)
}

// CategoricalSummary returns count, unique, top and freq for every string and
// bool column of df, missing values excluded. Bool columns count as
// categorical here rather than being left out of both summaries. The label
// column is named as in NumericSummary. It returns an empty DataFrame when df
// has no categorical column.
func CategoricalSummary(df dataframe.DataFrame) dataframe.DataFrame {
	columns := selectColumns(df, series.String, series.Bool)
	if len(columns) == 0 {
		return dataframe.DataFrame{}
	}

	label := labelColumn(columnNames(columns))
	out := []series.Series{series.New(categoricalStatistics, series.String, label)}
	for _, s := range columns {
		out = append(out, series.New(describeCategorical(s), series.String, s.Name))
	}

	return dataframe.New(out...)
}

func selectColumns(df dataframe.DataFrame, types ...series.Type) []series.Series {
	var columns []series.Series
	for _, name := range df.Names() {
		s := df.Col(name)
		if lo.Contains(types, s.Type()) {
			columns = append(columns, s)
		}
	}
	return columns
}

func columnNames(columns []series.Series) []string {
	return lo.Map(columns, func(s series.Series, _ int) string {
		return s.Name
	})
}

func describeNumeric(s series.Series) []float64 {
	isNaN := s.IsNaN()
	values := lo.Filter(s.Float(), func(_ float64, i int) bool {
		return !isNaN[i]
	})

	if len(values) == 0 {
		nan := math.NaN()
		return []float64{0, nan, nan, nan, nan, nan, nan, nan}
	}

	slices.Sort(values)
	present := series.Floats(values)
	return []float64{
		float64(len(values)),
		present.Mean(),
		present.StdDev(),
		values[0],
		quantile(values, 0.25),
		quantile(values, 0.50),
		quantile(values, 0.75),
		values[len(values)-1],
	}
}

// quantile interpolates linearly between the two ranks of sorted that
// surround position (n-1)*p. sorted must not be empty.
func quantile(sorted []float64, p float64) float64 {
	h := float64(len(sorted)-1) * p
	lower := math.Floor(h)
	i := int(lower)
	if i+1 >= len(sorted) {
		return sorted[len(sorted)-1]
	}
	return sorted[i] + (h-lower)*(sorted[i+1]-sorted[i])
}

func describeCategorical(s series.Series) []string {
	isNaN := s.IsNaN()
	values := lo.Filter(s.Records(), func(_ string, i int) bool {
		return !isNaN[i]
	})

	if len(values) == 0 {
		return []string{"0", "0", "NaN", "NaN"}
	}

	counts := lo.CountValues(values)

	// ties resolve to the value seen first
	top := values[0]
	for _, v := range values {
		if counts[v] > counts[top] {
			top = v
		}
	}

	return []string{
		strconv.Itoa(len(values)),
		strconv.Itoa(len(counts)),
		top,
		strconv.Itoa(counts[top]),
	}
}
