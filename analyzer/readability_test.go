package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzeReadabilitySimpleSentence(t *testing.T) {
	scores, err := analyzeReadability("The cat sat on the mat.")
	require.NoError(t, err)

	assert.InDelta(t, 116.15, scores["flesch_reading_ease"], 0.011)
	assert.InDelta(t, -1.45, scores["flesch_kincaid_grade"], 0.011)
	assert.InDelta(t, 2.4, scores["gunning_fog"], 0.011)
	assert.InDelta(t, 3.13, scores["smog_index"], 0.011)
	assert.InDelta(t, -4.07, scores["coleman_liau_index"], 0.011)
	assert.InDelta(t, -5.09, scores["automated_readability_index"], 0.011)
}

func TestAnalyzeReadabilityHarderTextScoresLower(t *testing.T) {
	easy, err := analyzeReadability("The dog ran. The sun was hot. We had fun.")
	require.NoError(t, err)
	hard, err := analyzeReadability("Comprehensive institutional reorganization necessitates considerable administrative deliberation.")
	require.NoError(t, err)

	assert.Greater(t, easy["flesch_reading_ease"], hard["flesch_reading_ease"])
	assert.Less(t, easy["flesch_kincaid_grade"], hard["flesch_kincaid_grade"])
	assert.Less(t, easy["gunning_fog"], hard["gunning_fog"])
}

func TestAnalyzeReadabilityWithoutWordsScoresZero(t *testing.T) {
	for _, text := range []string{"... ?!", "?!", "--- ***"} {
		scores, err := analyzeReadability(text)
		require.NoError(t, err, text)

		assert.Equal(t, map[string]float64{
			"flesch_reading_ease":         0,
			"flesch_kincaid_grade":        0,
			"gunning_fog":                 0,
			"smog_index":                  0,
			"coleman_liau_index":          0,
			"automated_readability_index": 0,
		}, scores, text)
	}
}

func TestAnalyzeReadabilityReportsSameMetrics(t *testing.T) {
	scores, err := analyzeReadability("The cat sat on the mat.")
	require.NoError(t, err)
	empty, err := analyzeReadability("?!")
	require.NoError(t, err)

	for m := range scores {
		assert.Contains(t, empty, m)
	}
	assert.Len(t, empty, len(scores))
}
