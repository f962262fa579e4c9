package utils

import (
	"expvar"
)

var AnalysisRequestsTotal = expvar.NewInt("analysis_requests_total")
var AnalysisValidationFailures = expvar.NewInt("analysis_validation_failures_total")
var AnalysisFailures = expvar.NewInt("analysis_failures_total")
var AnalysisAsyncJobs = expvar.NewInt("analysis_async_jobs_total")
