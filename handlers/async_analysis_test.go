package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"text-optimization-api/subscriber"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBus struct {
	published map[string][]string
	err       error
}

func (b *fakeBus) Publish(ctx context.Context, channel string, message []byte) error {
	if b.err != nil {
		return b.err
	}
	if b.published == nil {
		b.published = make(map[string][]string)
	}
	b.published[channel] = append(b.published[channel], string(message))
	return nil
}

func (b *fakeBus) Subscribe(ctx context.Context, channel string, handle func(message string)) error {
	<-ctx.Done()
	return ctx.Err()
}

func newAsyncRouter(t *testing.T, bus *fakeBus) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/analyze/async", HandleAnalyzeAsync(tl(t), bus, Options{}))
	return r
}

func TestAnalyzeAsyncQueuesRequest(t *testing.T) {
	bus := &fakeBus{}
	w := postJSON(newAsyncRouter(t, bus), "/analyze/async", `{"text": "Acme Corp announced a merger today.", "num_topics": 2}`)

	require.Equal(t, http.StatusAccepted, w.Code)
	body := decode(t, w)
	assert.Equal(t, subscriber.CompleteChannel, body["channel"])
	job, _ := body["job"].(string)
	assert.NotEmpty(t, job)

	require.Len(t, bus.published[subscriber.RequestChannel], 1)
	var payload subscriber.RequestPayload
	require.NoError(t, json.Unmarshal([]byte(bus.published[subscriber.RequestChannel][0]), &payload))
	assert.Equal(t, job, payload.Job)
	assert.Equal(t, "Acme Corp announced a merger today.", payload.Text)
	require.NotNil(t, payload.NumTopics)
	assert.Equal(t, 2, *payload.NumTopics)
}

func TestAnalyzeAsyncRejectsBlankText(t *testing.T) {
	bus := &fakeBus{}
	w := postJSON(newAsyncRouter(t, bus), "/analyze/async", `{"text": "   "}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, map[string]any{"detail": "Text input cannot be empty"}, decode(t, w))
	assert.Empty(t, bus.published)
}

func TestAnalyzeAsyncPublishFailure(t *testing.T) {
	bus := &fakeBus{err: errors.New("connection refused")}
	w := postJSON(newAsyncRouter(t, bus), "/analyze/async", `{"text": "hello"}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, map[string]any{"detail": "Failed to queue analysis"}, decode(t, w))
}
