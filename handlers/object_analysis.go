package handlers

import (
	"context"
	"errors"
	"net/http"
	"text-optimization-api/analyzer"
	"text-optimization-api/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ObjectFetcher downloads stored objects. Objects over limit bytes fail with
// utils.ErrObjectTooLarge before they are read in full.
type ObjectFetcher interface {
	Download(ctx context.Context, bucket, key string, limit int64) ([]byte, error)
}

// ObjectAnalysisRequest names a stored text either by URI or by bucket and key
type ObjectAnalysisRequest struct {
	URI       string `json:"uri"`
	Bucket    string `json:"bucket"`
	Key       string `json:"key"`
	NumTopics *int   `json:"num_topics"`
}

// HandleAnalyzeObject analyzes a text file held in object storage
func HandleAnalyzeObject(logger *zap.Logger, processor analyzer.Processor, fetcher ObjectFetcher, opts Options) gin.HandlerFunc {
	return func(c *gin.Context) {
		sugar := logger.Sugar()

		var req ObjectAnalysisRequest
		if !bindJSON(c, opts.MaxTextBytes, &req) {
			return
		}

		bucket, key := req.Bucket, req.Key
		if req.URI != "" {
			var err error
			bucket, key, err = utils.ParseS3URI(req.URI)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
				return
			}
		}
		if bucket == "" || key == "" {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "uri or bucket and key are required"})
			return
		}

		data, err := fetcher.Download(c.Request.Context(), bucket, key, opts.MaxTextBytes)
		if errors.Is(err, utils.ErrObjectTooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"detail": "Object too large"})
			return
		}
		if err != nil {
			sugar.Errorw("File download failed",
				"bucket", bucket,
				"key", key,
				"error", err)
			c.JSON(http.StatusBadGateway, gin.H{"detail": "Failed to fetch object: " + err.Error()})
			return
		}

		result, err := analyzer.Run(c.Request.Context(), processor, string(data), opts.numTopics(req.NumTopics))
		respondAnalysis(c, logger, result, err)
	}
}
