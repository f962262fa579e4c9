package analyzer

import (
	"math"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var wordPattern = regexp.MustCompile(`[\p{L}\p{N}]+(?:['’\-][\p{L}\p{N}]+)*`)

var paragraphBreak = regexp.MustCompile(`\n\s*\n`)

// abbreviations never end a sentence when followed by a period
var abbreviations = map[string]bool{
	"mr": true, "mrs": true, "ms": true, "dr": true, "prof": true, "sr": true, "jr": true,
	"st": true, "mt": true, "inc": true, "corp": true, "ltd": true, "co": true, "vs": true,
	"etc": true, "e.g": true, "i.e": true, "u.s": true, "u.k": true, "no": true, "fig": true,
	"jan": true, "feb": true, "mar": true, "apr": true, "jun": true, "jul": true, "aug": true,
	"sep": true, "sept": true, "oct": true, "nov": true, "dec": true, "gen": true, "gov": true,
	"sen": true, "rep": true, "rev": true, "capt": true, "col": true, "lt": true,
}

var stopwords = buildSet(`a about above after again against all also am an and any are as at be because
been before being below between both but by can could did do does doing down during each few for from
further had has have having he her here hers herself him himself his how i if in into is it its itself
just me more most my myself no nor not now of off on once only or other our ours ourselves out over own
same she should so some such than that the their theirs them themselves then there these they this those
through to too under until up very was we were what when where which while who whom why will with would
you your yours yourself yourselves may might must shall upon via per across among around however
although though yet still already today yesterday tomorrow new one two three many much said says`)

func buildSet(words string) map[string]bool {
	set := make(map[string]bool)
	for _, w := range strings.Fields(words) {
		set[w] = true
	}
	return set
}

// tokenize returns the word tokens of text in order of appearance
func tokenize(text string) []string {
	return wordPattern.FindAllString(text, -1)
}

// splitSentences breaks text at terminal punctuation followed by whitespace and at blank lines.
// Periods after known abbreviations and single-letter initials do not end a sentence.
func splitSentences(text string) []string {
	var sentences []string
	var b strings.Builder
	runes := []rune(text)

	flush := func() {
		s := strings.TrimSpace(b.String())
		if s != "" {
			sentences = append(sentences, s)
		}
		b.Reset()
	}

	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r == '\n' && i+1 < len(runes) && runes[i+1] == '\n' {
			flush()
			continue
		}
		b.WriteRune(r)
		if r != '.' && r != '!' && r != '?' {
			continue
		}

		// Closing quotes and repeated terminators belong to the current sentence
		for i+1 < len(runes) && strings.ContainsRune(`.!?"')]”’`, runes[i+1]) {
			i++
			b.WriteRune(runes[i])
		}
		if i+1 < len(runes) && !unicode.IsSpace(runes[i+1]) {
			continue
		}
		if r == '.' && endsWithAbbreviation(b.String()) {
			continue
		}
		flush()
	}
	flush()

	return sentences
}

// endsWithAbbreviation looks only at the last word of s, which may be a long
// run of text without a sentence break
func endsWithAbbreviation(s string) bool {
	s = strings.TrimRightFunc(s, unicode.IsSpace)
	if s == "" {
		return false
	}
	if i := strings.LastIndexFunc(s, unicode.IsSpace); i >= 0 {
		_, size := utf8.DecodeRuneInString(s[i:])
		s = s[i+size:]
	}
	last := strings.TrimLeft(s, `"'(“‘[`)
	last = strings.TrimSuffix(last, ".")
	if abbreviations[strings.ToLower(last)] {
		return true
	}
	// Single initials such as "J." in "J. Smith"
	runes := []rune(last)
	return len(runes) == 1 && unicode.IsUpper(runes[0])
}

func splitParagraphs(text string) []string {
	var paragraphs []string
	for _, p := range paragraphBreak.Split(text, -1) {
		if strings.TrimSpace(p) != "" {
			paragraphs = append(paragraphs, p)
		}
	}
	return paragraphs
}

// countSyllables estimates English syllables by counting vowel groups
func countSyllables(word string) int {
	letters := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) {
			return unicode.ToLower(r)
		}
		return -1
	}, word)

	if letters == "" {
		// Numerals are read as a single unit
		return 1
	}
	if len([]rune(letters)) <= 3 {
		return 1
	}

	count := 0
	prevVowel := false
	for _, r := range letters {
		vowel := strings.ContainsRune("aeiouy", r)
		if vowel && !prevVowel {
			count++
		}
		prevVowel = vowel
	}

	// Silent trailing "e", except for the "-le" ending ("table", "simple")
	if strings.HasSuffix(letters, "e") && !strings.HasSuffix(letters, "le") && count > 1 {
		count--
	}
	if count == 0 {
		count = 1
	}
	return count
}

// countLetters counts letters and digits in word
func countLetters(word string) int {
	n := 0
	for _, r := range word {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			n++
		}
	}
	return n
}

// contentTerms returns the lowercase terms of text worth clustering on
func contentTerms(text string) []string {
	var terms []string
	for _, tok := range tokenize(text) {
		term := strings.ToLower(strings.ReplaceAll(tok, "’", "'"))
		term = strings.TrimSuffix(term, "'s")
		if stopwords[term] || countLetters(term) < 2 || !hasLetter(term) {
			continue
		}
		terms = append(terms, term)
	}
	return terms
}

func hasLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}

func round(value float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(value*scale) / scale
}
