package analyzer

import "context"

// TextProcessor is the built-in Processor. It holds no mutable state after construction.
type TextProcessor struct {
	lexicon       Lexicon
	topicKeywords int
}

// Option configures a TextProcessor
type Option func(*TextProcessor)

// WithLexicon adds phrases to the entity gazetteer. Entries override built-in labels.
func WithLexicon(lexicon Lexicon) Option {
	return func(p *TextProcessor) {
		for phrase, label := range lexicon {
			p.lexicon[normalizePhrase(phrase)] = label
		}
	}
}

// WithTopicKeywords sets how many keywords describe each topic
func WithTopicKeywords(n int) Option {
	return func(p *TextProcessor) {
		if n > 0 {
			p.topicKeywords = n
		}
	}
}

func NewTextProcessor(opts ...Option) *TextProcessor {
	p := &TextProcessor{
		lexicon:       Lexicon{},
		topicKeywords: 5,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ExtractEntities groups named entities in text by label
func (p *TextProcessor) ExtractEntities(_ context.Context, text string) (map[string][]string, error) {
	return extractEntities(text, p.lexicon), nil
}

// ClusterTopics groups the sentences of text into numTopics topics
func (p *TextProcessor) ClusterTopics(ctx context.Context, text string, numTopics int) ([]map[string]any, error) {
	return clusterTopics(ctx, text, numTopics, p.topicKeywords)
}

func (p *TextProcessor) AnalyzeReadability(_ context.Context, text string) (map[string]float64, error) {
	return analyzeReadability(text)
}

func (p *TextProcessor) GetTextStatistics(_ context.Context, text string) (map[string]any, error) {
	return textStatistics(text), nil
}
