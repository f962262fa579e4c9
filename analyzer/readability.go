package analyzer

import "math"

var readabilityMetrics = []string{
	"flesch_reading_ease",
	"flesch_kincaid_grade",
	"gunning_fog",
	"smog_index",
	"coleman_liau_index",
	"automated_readability_index",
}

type textCounts struct {
	words         int
	sentences     int
	syllables     int
	letters       int
	polysyllables int
}

func countText(text string) textCounts {
	words := tokenize(text)
	c := textCounts{
		words:     len(words),
		sentences: max(1, len(splitSentences(text))),
	}
	for _, w := range words {
		syl := countSyllables(w)
		c.syllables += syl
		c.letters += countLetters(w)
		if syl >= 3 {
			c.polysyllables++
		}
	}
	return c
}

// analyzeReadability computes the standard grade-level and ease formulas.
// Text without words, such as bare punctuation, scores zero on every metric.
func analyzeReadability(text string) (map[string]float64, error) {
	c := countText(text)
	if c.words == 0 {
		scores := make(map[string]float64, len(readabilityMetrics))
		for _, m := range readabilityMetrics {
			scores[m] = 0
		}
		return scores, nil
	}

	words := float64(c.words)
	sentences := float64(c.sentences)
	wordsPerSentence := words / sentences
	syllablesPerWord := float64(c.syllables) / words

	// Coleman-Liau works on letters and sentences per 100 words
	l := float64(c.letters) / words * 100
	s := sentences / words * 100

	return map[string]float64{
		"flesch_reading_ease":         round(206.835-1.015*wordsPerSentence-84.6*syllablesPerWord, 2),
		"flesch_kincaid_grade":        round(0.39*wordsPerSentence+11.8*syllablesPerWord-15.59, 2),
		"gunning_fog":                 round(0.4*(wordsPerSentence+100*float64(c.polysyllables)/words), 2),
		"smog_index":                  round(1.043*math.Sqrt(float64(c.polysyllables)*30/sentences)+3.1291, 2),
		"coleman_liau_index":          round(0.0588*l-0.296*s-15.8, 2),
		"automated_readability_index": round(4.71*float64(c.letters)/words+0.5*wordsPerSentence-21.43, 2),
	}, nil
}
