package api

import (
	"net/http"

	"vrsurvey/app"
	"vrsurvey/internal"
	"vrsurvey/internal/report"

	"github.com/gin-gonic/gin"
)

// Server exposes survey submission and the analysis results over HTTP.
type Server struct {
	router      *gin.Engine
	analysis    *app.AnalysisService
	submissions *app.SubmissionService
	formatter   report.Formatter
	metrics     *Metrics
	logger      *internal.Logger
}

// Options wires the server's collaborators. Submissions may be nil when
// respondents come from a file; POST /survey then answers 503.
type Options struct {
	Analysis    *app.AnalysisService
	Submissions *app.SubmissionService
	Formatter   report.Formatter
	Metrics     *Metrics
	Logger      *internal.Logger
}

// NewServer creates the gin router and registers every route
func NewServer(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = internal.DefaultLogger
	}
	metrics := opts.Metrics
	if metrics == nil {
		metrics = NewMetrics()
	}

	s := &Server{
		router:      gin.New(),
		analysis:    opts.Analysis,
		submissions: opts.Submissions,
		formatter:   opts.Formatter,
		metrics:     metrics,
		logger:      logger.WithComponent("API"),
	}
	s.router.Use(gin.Logger(), gin.Recovery(), s.metrics.Middleware())
	s.setupRoutes()
	return s
}

// Handler returns the HTTP handler for http.Server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) setupRoutes() {
	s.router.GET("/healthz", s.handleHealth)
	s.router.GET("/metrics", gin.WrapH(s.metrics.Handler()))

	s.router.POST("/survey", s.handleSubmitSurvey)
	s.router.GET("/report", s.handleReportHTML)

	api := s.router.Group("/api")
	api.GET("/respondents/count", s.handleRespondentCount)
	api.GET("/anomalies", s.handleAnomalies)
	api.GET("/descriptives", s.handleDescriptives)
	api.GET("/normality", s.handleNormality)
	api.GET("/comparisons", s.handleComparisons)
	api.GET("/anova", s.handleANOVA)
	api.GET("/demographics", s.handleDemographics)
	api.GET("/report", s.handleReport)
	api.GET("/runs", s.handleListRuns)
	api.GET("/runs/:id", s.handleGetRun)
}
