package analyzer

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// textStatistics returns descriptive counts for text. Averages are zero when there are no words.
func textStatistics(text string) map[string]any {
	words := tokenize(text)
	sentences := len(splitSentences(text))

	noSpaces := 0
	for _, r := range text {
		if !unicode.IsSpace(r) {
			noSpaces++
		}
	}

	unique := make(map[string]bool)
	letters, syllables := 0, 0
	for _, w := range words {
		unique[strings.ToLower(w)] = true
		letters += countLetters(w)
		syllables += countSyllables(w)
	}

	stats := map[string]any{
		"char_count":           utf8.RuneCountInString(text),
		"char_count_no_spaces": noSpaces,
		"word_count":           len(words),
		"sentence_count":       sentences,
		"paragraph_count":      len(splitParagraphs(text)),
		"unique_word_count":    len(unique),
		"syllable_count":       syllables,
		"avg_word_length":      0.0,
		"avg_sentence_length":  0.0,
		"lexical_diversity":    0.0,
	}
	if len(words) > 0 {
		stats["avg_word_length"] = round(float64(letters)/float64(len(words)), 2)
		stats["avg_sentence_length"] = round(float64(len(words))/float64(max(1, sentences)), 2)
		stats["lexical_diversity"] = round(float64(len(unique))/float64(len(words)), 2)
	}
	return stats
}
