package analyzer

import (
	"context"
	"fmt"
	"strings"
)

// EmptyTextMessage is reported when the submitted text has no visible characters
const EmptyTextMessage = "Text input cannot be empty"

// ValidationError is a problem with the caller's input
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// AnalysisError wraps a failure of one of the processor operations
type AnalysisError struct {
	Op  string
	Err error
}

func (e *AnalysisError) Error() string {
	return fmt.Sprintf("Analysis failed: %v", e.Err)
}

func (e *AnalysisError) Unwrap() error {
	return e.Err
}

// Run validates text and runs the four analyses in order.
// Any failure discards the analyses already completed.
func Run(ctx context.Context, p Processor, text string, numTopics int) (*Result, error) {
	if strings.TrimSpace(text) == "" {
		return nil, &ValidationError{Message: EmptyTextMessage}
	}

	result := &Result{}
	steps := []struct {
		op  string
		run func() error
	}{
		{"extract_entities", func() (err error) {
			result.Entities, err = p.ExtractEntities(ctx, text)
			return err
		}},
		{"cluster_topics", func() (err error) {
			result.Topics, err = p.ClusterTopics(ctx, text, numTopics)
			return err
		}},
		{"analyze_readability", func() (err error) {
			result.Readability, err = p.AnalyzeReadability(ctx, text)
			return err
		}},
		{"get_text_statistics", func() (err error) {
			result.Statistics, err = p.GetTextStatistics(ctx, text)
			return err
		}},
	}

	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return nil, &AnalysisError{Op: step.op, Err: err}
		}
		if err := guard(step.run); err != nil {
			return nil, &AnalysisError{Op: step.op, Err: err}
		}
	}

	return result, nil
}

// guard turns a panic inside a processor call into an error
func guard(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()
	return fn()
}
