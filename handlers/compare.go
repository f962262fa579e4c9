package handlers

import (
	"net/http"
	"text-optimization-api/analyzer"

	"github.com/gin-gonic/gin"
)

// CompareRequest is the body of POST /compare
type CompareRequest struct {
	Original  string `json:"original"`
	Optimized string `json:"optimized"`
}

// HandleCompare reports how far an optimized text drifted from its original (WER, CER, BLEU)
func HandleCompare(opts Options) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CompareRequest
		if !bindJSON(c, opts.MaxTextBytes, &req) {
			return
		}

		scores, err := analyzer.CompareTexts(req.Original, req.Optimized)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
			return
		}
		c.JSON(http.StatusOK, scores)
	}
}
