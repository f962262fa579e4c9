package analyzer

import (
	"errors"
	"math"
	"strings"
	"unicode/utf8"
)

// CompareTexts scores an optimized text against its original.
// Lower WER and CER mean fewer edits were made; BLEU measures retained phrasing.
func CompareTexts(original, optimized string) (map[string]float64, error) {
	if strings.TrimSpace(original) == "" || strings.TrimSpace(optimized) == "" {
		return nil, errors.New("original and optimized text are both required")
	}

	return map[string]float64{
		"wer":  round(ComputeWER(original, optimized), 4),
		"cer":  round(ComputeCER(original, optimized), 4),
		"bleu": round(ComputeBLEU(original, optimized), 4),
	}, nil
}

// ComputeWER calculates Word Error Rate between reference and hypothesis
// WER = (S + D + I) / N
func ComputeWER(reference, hypothesis string) float64 {
	refWords := strings.Fields(reference)
	hypWords := strings.Fields(hypothesis)

	if len(refWords) == 0 {
		if len(hypWords) == 0 {
			return 0.0
		}
		return 1.0
	}

	return float64(levenshteinDistance(refWords, hypWords)) / float64(len(refWords))
}

// ComputeCER calculates Character Error Rate between reference and hypothesis
func ComputeCER(reference, hypothesis string) float64 {
	refLen := utf8.RuneCountInString(reference)
	if refLen == 0 {
		if utf8.RuneCountInString(hypothesis) == 0 {
			return 0.0
		}
		return 1.0
	}

	distance := levenshteinDistance(runeStrings(reference), runeStrings(hypothesis))
	return float64(distance) / float64(refLen)
}

// ComputeBLEU calculates a simplified sentence-level BLEU score over 1- to 4-grams
func ComputeBLEU(reference, hypothesis string) float64 {
	refWords := strings.Fields(reference)
	hypWords := strings.Fields(hypothesis)

	if len(hypWords) == 0 {
		return 0.0
	}

	const maxN = 4
	logSum := 0.0
	for n := 1; n <= maxN; n++ {
		refNgrams := getNgrams(refWords, n)
		hypNgrams := getNgrams(hypWords, n)

		total := 0
		matches := 0
		for ngram, count := range hypNgrams {
			total += count
			matches += min(count, refNgrams[ngram])
		}
		if total == 0 || matches == 0 {
			return 0.0
		}
		logSum += math.Log(float64(matches) / float64(total))
	}
	geometricMean := math.Exp(logSum / maxN)

	// Brevity penalty
	bp := 1.0
	if len(hypWords) < len(refWords) {
		bp = math.Exp(1.0 - float64(len(refWords))/float64(len(hypWords)))
	}

	return bp * geometricMean
}

func runeStrings(s string) []string {
	out := make([]string, 0, utf8.RuneCountInString(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}

// levenshteinDistance computes the edit distance between two token sequences.
// Shared by the error rates and entity de-duplication.
func levenshteinDistance(s1, s2 []string) int {
	prev := make([]int, len(s2)+1)
	curr := make([]int, len(s2)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(s1); i++ {
		curr[0] = i
		for j := 1; j <= len(s2); j++ {
			cost := 0
			if s1[i-1] != s2[j-1] {
				cost = 1
			}
			curr[j] = min(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[len(s2)]
}

// getNgrams returns the n-grams of words with their counts
func getNgrams(words []string, n int) map[string]int {
	ngrams := make(map[string]int)
	if n <= 0 || n > len(words) {
		return ngrams
	}

	for i := 0; i <= len(words)-n; i++ {
		ngrams[strings.Join(words[i:i+n], " ")]++
	}
	return ngrams
}
