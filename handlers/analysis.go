package handlers

import (
	"errors"
	"net/http"
	"text-optimization-api/analyzer"
	"text-optimization-api/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AnalysisRequest is the body of POST /analyze
type AnalysisRequest struct {
	Text      *string `json:"text" binding:"required"`
	NumTopics *int    `json:"num_topics"`
}

// Options carries the request defaults shared by the analysis handlers
type Options struct {
	DefaultNumTopics int
	MaxTextBytes     int64
}

func (o Options) numTopics(requested *int) int {
	if requested != nil {
		return *requested
	}
	if o.DefaultNumTopics > 0 {
		return o.DefaultNumTopics
	}
	return analyzer.DefaultNumTopics
}

// HandleAnalyze runs entity extraction, topic clustering, readability and statistics on the posted text
func HandleAnalyze(logger *zap.Logger, processor analyzer.Processor, opts Options) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req AnalysisRequest
		if !bindJSON(c, opts.MaxTextBytes, &req) {
			return
		}

		result, err := analyzer.Run(c.Request.Context(), processor, *req.Text, opts.numTopics(req.NumTopics))
		respondAnalysis(c, logger, result, err)
	}
}

// respondAnalysis writes the result of analyzer.Run, translating its error kinds to status codes
func respondAnalysis(c *gin.Context, logger *zap.Logger, result *analyzer.Result, err error) {
	utils.AnalysisRequestsTotal.Add(1)
	if err == nil {
		c.JSON(http.StatusOK, result)
		return
	}

	status := statusFor(err)
	switch status {
	case http.StatusBadRequest:
		utils.AnalysisValidationFailures.Add(1)
	default:
		utils.AnalysisFailures.Add(1)
		var analysisErr *analyzer.AnalysisError
		if errors.As(err, &analysisErr) {
			logger.Error("Analysis process failed",
				zap.String("operation", analysisErr.Op),
				zap.Error(analysisErr.Err))
		} else {
			logger.Error("Analysis process failed", zap.Error(err))
		}
	}

	c.JSON(status, gin.H{"detail": err.Error()})
}

func statusFor(err error) int {
	var validationErr *analyzer.ValidationError
	if errors.As(err, &validationErr) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// bindJSON decodes the body into dst, answering 413 or 422 itself when that fails
func bindJSON(c *gin.Context, maxBytes int64, dst any) bool {
	if maxBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
	}

	if err := c.ShouldBindJSON(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"detail": "Request body too large"})
			return false
		}
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "Invalid request body: " + err.Error()})
		return false
	}
	return true
}
