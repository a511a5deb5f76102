package features

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// MissingMarker is the sentinel emitted when a pattern finds no match.
// Downstream imputation treats it as a missing value.
const MissingMarker = "-999"

// ExtractValue returns the first match of re in s, or MissingMarker when
// the pattern does not match.
func ExtractValue(re *regexp.Regexp, s string) string {
	if match := re.FindString(s); match != "" {
		return match
	}
	return MissingMarker
}

// ExtractNumeric returns the first match of re in s parsed as a float.
// The second return value is false when nothing matched or the match is
// not numeric.
func ExtractNumeric(re *regexp.Regexp, s string) (float64, bool) {
	match := re.FindString(s)
	if match == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// ExtractColumn applies a regex extraction to a string column and adds
// the result as a new column named dst. Rows without a match carry the
// MissingMarker sentinel.
func ExtractColumn(df dataframe.DataFrame, col, pattern, dst string) (dataframe.DataFrame, error) {
	if df.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("invalid dataframe: %w", df.Err)
	}

	re, err := regexp.Compile(pattern)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("compile pattern %q: %w", pattern, err)
	}

	found := false
	for _, name := range df.Names() {
		if name == col {
			found = true
			break
		}
	}
	if !found {
		return dataframe.DataFrame{}, fmt.Errorf("missing source column %q", col)
	}

	values := df.Col(col).Records()
	extracted := make([]string, len(values))
	for i, v := range values {
		extracted[i] = ExtractValue(re, v)
	}

	out := df.Mutate(series.New(extracted, series.String, dst))
	if out.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("mutate dataframe: %w", out.Err)
	}

	return out, nil
}
