package analyzer

import (
	"regexp"
	"strings"
	"unicode"
)

// Entity labels produced by the extractor
const (
	LabelPerson   = "PERSON"
	LabelOrg      = "ORG"
	LabelGPE      = "GPE"
	LabelDate     = "DATE"
	LabelTime     = "TIME"
	LabelMoney    = "MONEY"
	LabelPercent  = "PERCENT"
	LabelCardinal = "CARDINAL"
	LabelMisc     = "MISC"
)

const monthNames = `January|February|March|April|May|June|July|August|September|October|November|December`

// Pattern entities are matched before capitalized spans, in this order.
// Each match is blanked out so later patterns cannot claim it again.
var entityPatterns = []struct {
	label   string
	pattern *regexp.Regexp
}{
	{LabelMoney, regexp.MustCompile(`(?i)[$€£]\s?\d[\d,]*(?:\.\d+)?(?:\s?(?:million|billion|trillion|thousand|bn|m|k)\b)?|\b\d[\d,]*(?:\.\d+)?\s?(?:million\s|billion\s)?(?:dollars|euros|pounds|usd|eur|gbp)\b`)},
	{LabelPercent, regexp.MustCompile(`(?i)\b\d+(?:\.\d+)?\s?(?:%|percent\b|per cent\b)`)},
	{LabelDate, regexp.MustCompile(`\b(?:` + monthNames + `)(?:\s+\d{1,2}(?:st|nd|rd|th)?)?(?:,?\s+\d{4})?\b|\b\d{1,2}(?:st|nd|rd|th)?\s+(?:` + monthNames + `)(?:,?\s+\d{4})?\b|\b\d{4}-\d{2}-\d{2}\b|\b\d{1,2}/\d{1,2}/\d{2,4}\b|\b(?:Monday|Tuesday|Wednesday|Thursday|Friday|Saturday|Sunday)\b|(?i:\b(?:today|yesterday|tomorrow|last\s+(?:week|month|year)|next\s+(?:week|month|year)|this\s+(?:week|month|year))\b)|\b(?:19|20)\d{2}s?\b`)},
	{LabelTime, regexp.MustCompile(`(?i)\b\d{1,2}:\d{2}(?:\s?[ap]\.?m\.?)?|\b\d{1,2}\s?[ap]\.m\.|\b\d{1,2}\s?[ap]m\b|\b(?:noon|midnight|tonight)\b`)},
	{LabelCardinal, regexp.MustCompile(`\b\d[\d,]*(?:\.\d+)?\b`)},
}

var honorifics = buildSet(`mr mrs ms miss dr prof sir dame lord lady president senator governor mayor judge
rev capt col gen lt sgt officer minister chancellor`)

var orgSuffixes = buildSet(`corp corporation inc incorporated ltd llc plc co company group holdings bank
university college institute agency foundation association technologies systems labs laboratories partners
ventures capital airlines motors industries enterprises council committee commission`)

var orgHeads = buildSet(`university bank department ministry institute bureau office college school`)

var locationCues = buildSet(`in near from across throughout outside inside`)

var spanConnectors = buildSet(`of the and de la van von del for`)

// givenNames marks a capitalized span as a person when it leads a multi-word span
var givenNames = buildSet(`james john robert michael william david richard joseph thomas charles
christopher daniel matthew anthony mark steven paul andrew joshua kevin brian george edward peter
mary patricia jennifer linda elizabeth barbara susan jessica sarah karen nancy lisa margaret sandra
ashley emily donna michelle carol amanda melissa deborah stephanie rebecca laura sharon anna jane
maria elon tim satya sundar jeff bill warren angela emmanuel alex sam chris`)

// builtinGazetteer maps lowercase phrases to labels for well known names
var builtinGazetteer = func() Lexicon {
	lex := Lexicon{}
	for _, place := range strings.Split(`united states|usa|america|canada|mexico|brazil|argentina|
united kingdom|uk|britain|england|scotland|ireland|france|germany|spain|italy|portugal|netherlands|
belgium|switzerland|austria|sweden|norway|denmark|finland|poland|russia|ukraine|turkey|greece|egypt|
nigeria|kenya|south africa|israel|iran|iraq|saudi arabia|india|pakistan|china|japan|korea|south korea|
north korea|vietnam|thailand|indonesia|philippines|australia|new zealand|singapore|europe|asia|africa|
london|paris|berlin|madrid|rome|tokyo|beijing|shanghai|delhi|mumbai|sydney|toronto|moscow|dubai|
new york|new york city|los angeles|chicago|houston|boston|seattle|san francisco|washington|texas|
california|florida|silicon valley|hong kong`, "|") {
		lex[normalizePhrase(place)] = LabelGPE
	}
	for _, org := range strings.Split(`google|alphabet|microsoft|apple|amazon|meta|facebook|netflix|tesla|
ibm|intel|nvidia|oracle|openai|samsung|sony|toyota|united nations|un|nato|european union|eu|nasa|fbi|
cia|who|imf|world bank|congress|senate|parliament|reuters|bbc|cnn`, "|") {
		lex[normalizePhrase(org)] = LabelOrg
	}
	return lex
}()

type token struct {
	text       string
	start, end int
}

type span struct {
	tokens        []token
	sentenceStart bool
	prevWord      string
}

func (s span) words() []string {
	out := make([]string, len(s.tokens))
	for i, t := range s.tokens {
		out[i] = t.text
	}
	return out
}

// entitySet keeps per-label entities in first-occurrence order
type entitySet struct {
	labels []string
	items  map[string][]string
}

func newEntitySet() *entitySet {
	return &entitySet{items: make(map[string][]string)}
}

func (e *entitySet) add(label, entity string) {
	entity = strings.TrimSpace(entity)
	if entity == "" {
		return
	}
	existing, ok := e.items[label]
	if !ok {
		e.labels = append(e.labels, label)
	}
	for i, seen := range existing {
		if sameEntity(seen, entity) {
			// The longer form wins, keeping its original position
			if len(strings.Fields(entity)) > len(strings.Fields(seen)) {
				existing[i] = entity
			}
			return
		}
	}
	e.items[label] = append(existing, entity)
}

func (e *entitySet) result() map[string][]string {
	out := make(map[string][]string, len(e.items))
	for _, label := range e.labels {
		out[label] = e.items[label]
	}
	return out
}

// sameEntity treats two mentions as one when they are equal ignoring case, or when one
// is the other with a single extra word ("Jane Smith" and "Smith").
func sameEntity(a, b string) bool {
	aw := strings.Fields(strings.ToLower(a))
	bw := strings.Fields(strings.ToLower(b))
	if strings.Join(aw, " ") == strings.Join(bw, " ") {
		return true
	}
	diff := len(aw) - len(bw)
	if diff != 1 && diff != -1 {
		return false
	}
	if len(aw) < 2 && len(bw) < 2 {
		return false
	}
	return levenshteinDistance(aw, bw) == 1
}

func normalizePhrase(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// extractEntities runs pattern matching followed by capitalized span classification
func extractEntities(text string, lexicon Lexicon) map[string][]string {
	entities := newEntitySet()

	masked := []byte(text)
	for _, p := range entityPatterns {
		for _, loc := range p.pattern.FindAllIndex(masked, -1) {
			entities.add(p.label, text[loc[0]:loc[1]])
			for i := loc[0]; i < loc[1]; i++ {
				masked[i] = ' '
			}
		}
	}

	spans := capitalizedSpans(string(masked))

	// Words seen capitalized away from a sentence start are names wherever they appear
	midSentence := make(map[string]bool)
	for _, s := range spans {
		if !s.sentenceStart {
			for _, w := range s.words() {
				midSentence[strings.ToLower(w)] = true
			}
		}
	}

	for _, s := range spans {
		label, entity := classifySpan(s, lexicon, midSentence)
		if label != "" {
			entities.add(label, entity)
		}
	}

	return entities.result()
}

// capitalizedSpans groups runs of capitalized words, allowing lowercase connectors inside a run
func capitalizedSpans(text string) []span {
	var spans []span

	for _, sentence := range sentenceOffsets(text) {
		locs := wordPattern.FindAllStringIndex(text[sentence[0]:sentence[1]], -1)
		tokens := make([]token, len(locs))
		for i, loc := range locs {
			start, end := sentence[0]+loc[0], sentence[0]+loc[1]
			tokens[i] = token{text: text[start:end], start: start, end: end}
		}

		for i := 0; i < len(tokens); {
			if !isCapitalized(tokens[i].text) {
				i++
				continue
			}
			current := span{
				tokens:        []token{tokens[i]},
				sentenceStart: i == 0,
			}
			if i > 0 {
				current.prevWord = strings.ToLower(tokens[i-1].text)
			}

			j := i + 1
			for j < len(tokens) {
				last := current.tokens[len(current.tokens)-1]
				if !joinable(text[last.end:tokens[j].start], last.text) {
					break
				}
				if isCapitalized(tokens[j].text) {
					current.tokens = append(current.tokens, tokens[j])
					j++
					continue
				}
				// A connector only joins when another capitalized word follows it
				if spanConnectors[strings.ToLower(tokens[j].text)] && j+1 < len(tokens) &&
					isCapitalized(tokens[j+1].text) && joinable(text[tokens[j].end:tokens[j+1].start], tokens[j].text) {
					current.tokens = append(current.tokens, tokens[j], tokens[j+1])
					j += 2
					continue
				}
				break
			}

			spans = append(spans, current)
			i = j
		}
	}

	return spans
}

// sentenceOffsets returns [start, end) byte ranges of the sentences of text
func sentenceOffsets(text string) [][2]int {
	var offsets [][2]int
	pos := 0
	for _, sentence := range splitSentences(text) {
		idx := strings.Index(text[pos:], sentence)
		if idx < 0 {
			continue
		}
		start := pos + idx
		offsets = append(offsets, [2]int{start, start + len(sentence)})
		pos = start + len(sentence)
	}
	return offsets
}

// joinable reports whether the gap between two words keeps them in one name
func joinable(gap, previous string) bool {
	trimmed := strings.TrimSpace(gap)
	if trimmed == "" {
		return gap != "" && !strings.Contains(gap, "\n\n")
	}
	if trimmed == "." {
		lower := strings.ToLower(previous)
		return honorifics[lower] || abbreviations[lower] || len([]rune(previous)) == 1
	}
	return trimmed == "&"
}

func isCapitalized(word string) bool {
	for _, r := range word {
		return unicode.IsUpper(r)
	}
	return false
}

func isAcronym(word string) bool {
	letters := 0
	for _, r := range word {
		if unicode.IsLetter(r) {
			if !unicode.IsUpper(r) {
				return false
			}
			letters++
		}
	}
	return letters >= 2
}

func lookup(phrase string, lexicon Lexicon) (string, bool) {
	key := normalizePhrase(phrase)
	if label, ok := lexicon[key]; ok {
		return label, true
	}
	label, ok := builtinGazetteer[key]
	return label, ok
}

func classifySpan(s span, lexicon Lexicon, midSentence map[string]bool) (string, string) {
	words := s.words()

	// Honorifics introduce a person and are not part of the name
	if honorifics[strings.ToLower(words[0])] {
		if len(words) == 1 {
			return "", ""
		}
		return LabelPerson, strings.Join(words[1:], " ")
	}

	// Drop sentence-initial function words ("The", "In", "However")
	if s.sentenceStart && stopwords[strings.ToLower(words[0])] {
		words = words[1:]
		if len(words) > 0 && spanConnectors[strings.ToLower(words[0])] {
			words = words[1:]
		}
		if len(words) == 0 {
			return "", ""
		}
		s.sentenceStart = false
	}

	phrase := strings.Join(words, " ")
	if label, ok := lookup(phrase, lexicon); ok {
		return label, phrase
	}

	lowerLast := strings.ToLower(words[len(words)-1])
	lowerFirst := strings.ToLower(words[0])
	switch {
	case len(words) > 1 && orgSuffixes[lowerLast]:
		return LabelOrg, phrase
	case len(words) > 1 && orgHeads[lowerFirst]:
		return LabelOrg, phrase
	case len(words) > 1 && givenNames[lowerFirst]:
		return LabelPerson, phrase
	}

	if len(words) == 1 {
		// A lone capitalized word opening a sentence is only a name if it shows up elsewhere
		if s.sentenceStart && !isAcronym(phrase) && !midSentence[lowerFirst] {
			return "", ""
		}
		if stopwords[lowerFirst] {
			return "", ""
		}
		if isAcronym(phrase) {
			return LabelOrg, phrase
		}
	}

	if locationCues[s.prevWord] {
		return LabelGPE, phrase
	}
	return LabelMisc, phrase
}
