package handlers

import (
	"net/http"
	"strings"
	"text-optimization-api/analyzer"
	"text-optimization-api/subscriber"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// HandleAnalyzeAsync queues an analysis on the message bus. The outcome is published on
// subscriber.CompleteChannel under the returned job id.
func HandleAnalyzeAsync(logger *zap.Logger, bus subscriber.Bus, opts Options) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req AnalysisRequest
		if !bindJSON(c, opts.MaxTextBytes, &req) {
			return
		}
		if strings.TrimSpace(*req.Text) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"detail": analyzer.EmptyTextMessage})
			return
		}

		job, err := subscriber.Enqueue(c.Request.Context(), bus, *req.Text, req.NumTopics)
		if err != nil {
			logger.Error("Message publishing failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to queue analysis"})
			return
		}

		c.JSON(http.StatusAccepted, gin.H{
			"job":     job,
			"channel": subscriber.CompleteChannel,
		})
	}
}
