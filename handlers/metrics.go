package handlers

import (
	"net/http"
	"text-optimization-api/utils"

	"github.com/gin-gonic/gin"
)

func HandleMetrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"analysis_requests_total":            utils.AnalysisRequestsTotal.Value(),
			"analysis_validation_failures_total": utils.AnalysisValidationFailures.Value(),
			"analysis_failures_total":            utils.AnalysisFailures.Value(),
			"analysis_async_jobs_total":          utils.AnalysisAsyncJobs.Value(),
		})
	}
}
