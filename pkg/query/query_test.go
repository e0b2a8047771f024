package query

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateAppliesDefaults(t *testing.T) {
	q, err := Validate(SearchQueryInput{Query: "  hello  "})
	require.NoError(t, err)
	require.Equal(t, SearchLimitDefault, q.Limit)
	require.Equal(t, Lexical, q.Mode)
	require.Equal(t, "hello", q.QueryText)
}

func TestValidateRejectsNegativeLimit(t *testing.T) {
	_, err := Validate(SearchQueryInput{Query: "x", Limit: -1})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, InvalidLimit, verr.Kind)
}

func TestValidateRejectsOverMaxLimit(t *testing.T) {
	_, err := Validate(SearchQueryInput{Query: "x", Limit: SearchLimitMax + 1})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, InvalidLimit, verr.Kind)
}

func TestValidateRejectsInvertedTimeRange(t *testing.T) {
	since, until := uint64(200), uint64(100)
	_, err := Validate(SearchQueryInput{Query: "x", Since: &since, Until: &until})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, InvalidTimeRange, verr.Kind)
}

func TestValidateRejectsUnsupportedMode(t *testing.T) {
	_, err := Validate(SearchQueryInput{Query: "x", ModeName: "vibes"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, UnsupportedMode, verr.Kind)
}

func TestToStorageSearchOptionsMapsFields(t *testing.T) {
	pane := uint64(7)
	since := uint64(100)
	q, err := Validate(SearchQueryInput{Query: "err", PaneID: &pane, Since: &since, ModeName: "hybrid"})
	require.NoError(t, err)

	opts := ToStorageSearchOptions(q)
	require.Equal(t, "err", opts.QueryText)
	require.Equal(t, []uint64{7}, opts.PaneIDs)
	require.Equal(t, uint64(100), opts.StartMs)
	require.Equal(t, "hybrid", opts.Mode)
}

func TestFormatLintHintCapsAtThreeAndAppendsSuggestion(t *testing.T) {
	lints := []Lint{
		{Message: "a", Suggestion: "fix a"},
		{Message: "b"},
		{Message: "c"},
		{Message: "d"},
	}
	hint := FormatLintHint(lints)
	require.Contains(t, hint, "a suggestion: fix a")
	require.NotContains(t, hint, "d")
}

func TestLintsHaveErrors(t *testing.T) {
	require.False(t, LintsHaveErrors([]Lint{{Severity: LintWarning}}))
	require.True(t, LintsHaveErrors([]Lint{{Severity: LintError}}))
}
