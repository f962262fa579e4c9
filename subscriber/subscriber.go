package subscriber

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"text-optimization-api/analyzer"
	"text-optimization-api/utils"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	RequestChannel  = "text_analysis_request"
	CompleteChannel = "text_analysis_complete"

	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Bus is the pub/sub transport the worker listens and answers on
type Bus interface {
	Publish(ctx context.Context, channel string, message []byte) error
	Subscribe(ctx context.Context, channel string, handle func(message string)) error
}

// RequestPayload represents the data structure for text_analysis_request events
type RequestPayload struct {
	Job       string `json:"job"`
	Text      string `json:"text"`
	NumTopics *int   `json:"num_topics,omitempty"`
}

// CompletePayload represents the data structure for text_analysis_complete events
type CompletePayload struct {
	Job    string           `json:"job"`
	Status string           `json:"status"`
	Result *analyzer.Result `json:"result,omitempty"`
	Detail string           `json:"detail,omitempty"`
}

// Enqueue publishes an analysis request and returns its job id
func Enqueue(ctx context.Context, bus Bus, text string, numTopics *int) (string, error) {
	payload := RequestPayload{
		Job:       uuid.NewString(),
		Text:      text,
		NumTopics: numTopics,
	}
	message, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	if err := bus.Publish(ctx, RequestChannel, message); err != nil {
		return "", err
	}
	utils.AnalysisAsyncJobs.Add(1)
	return payload.Job, nil
}

// Worker runs analyses requested over the bus and publishes their outcome
type Worker struct {
	logger           *zap.Logger
	bus              Bus
	processor        analyzer.Processor
	defaultNumTopics int
	timeout          time.Duration
	retryDelay       time.Duration
}

func NewWorker(logger *zap.Logger, bus Bus, processor analyzer.Processor, defaultNumTopics int, timeout time.Duration) *Worker {
	return &Worker{
		logger:           logger,
		bus:              bus,
		processor:        processor,
		defaultNumTopics: defaultNumTopics,
		timeout:          timeout,
		retryDelay:       5 * time.Second,
	}
}

// Start subscribes to the request channel until ctx is cancelled, resubscribing after failures
func (w *Worker) Start(ctx context.Context) {
	sugar := w.logger.Sugar()
	sugar.Infow("Message subscriber started",
		"channel", RequestChannel)

	for {
		err := w.bus.Subscribe(ctx, RequestChannel, func(message string) {
			// Process the message asynchronously so the subscription keeps draining
			go w.process(ctx, message)
		})
		if ctx.Err() != nil {
			sugar.Infow("Message subscriber stopped",
				"channel", RequestChannel)
			return
		}

		sugar.Errorw("Subscription interrupted",
			"channel", RequestChannel,
			"error", err)

		select {
		case <-ctx.Done():
			return
		case <-time.After(w.retryDelay):
		}
	}
}

func (w *Worker) process(ctx context.Context, message string) {
	sugar := w.logger.Sugar()

	payload, err := parseRequest(message)
	if err != nil {
		sugar.Errorw("Discarding analysis request",
			"error", err)
		return
	}

	numTopics := w.defaultNumTopics
	if payload.NumTopics != nil {
		numTopics = *payload.NumTopics
	}

	sugar.Infow("Processing analysis request",
		"job", payload.Job,
		"size_bytes", len(payload.Text))

	runCtx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	complete := CompletePayload{Job: payload.Job, Status: StatusCompleted}
	result, err := analyzer.Run(runCtx, w.processor, payload.Text, numTopics)
	if err != nil {
		complete.Status = StatusFailed
		complete.Detail = err.Error()

		var validationErr *analyzer.ValidationError
		if errors.As(err, &validationErr) {
			utils.AnalysisValidationFailures.Add(1)
		} else {
			utils.AnalysisFailures.Add(1)
			sugar.Errorw("Analysis process failed",
				"job", payload.Job,
				"error", err)
		}
	} else {
		complete.Result = result
	}

	out, err := json.Marshal(complete)
	if err != nil {
		sugar.Errorw("Data marshaling failed",
			"job", payload.Job,
			"error", err)
		return
	}

	if err := w.bus.Publish(ctx, CompleteChannel, out); err != nil {
		sugar.Errorw("Message publishing failed",
			"job", payload.Job,
			"error", err)
		return
	}

	sugar.Infow("Analysis request completed",
		"job", payload.Job,
		"status", complete.Status)
}

// parseRequest accepts a JSON payload, or a bare (optionally quoted) text to analyze
func parseRequest(message string) (RequestPayload, error) {
	if strings.TrimSpace(message) == "" {
		return RequestPayload{}, errors.New("received empty analysis request message")
	}

	var payload RequestPayload
	if err := json.Unmarshal([]byte(message), &payload); err != nil {
		text := message
		if unquoted, err := strconv.Unquote(message); err == nil {
			text = unquoted
		}
		payload = RequestPayload{Text: text}
	}

	if payload.Job == "" {
		payload.Job = uuid.NewString()
	}
	return payload, nil
}
