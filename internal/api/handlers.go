package api

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"vrsurvey/domain/core"
	"vrsurvey/internal/errors"

	"github.com/gin-gonic/gin"
)

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// handleSubmitSurvey stores one survey submission. The body is the flat
// answer object posted by the survey form, keyed by display titles.
func (s *Server) handleSubmitSurvey(c *gin.Context) {
	if s.submissions == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "submissions require a database"})
		return
	}

	var body map[string]interface{}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body"})
		return
	}

	fields := make(map[string]string, len(body))
	for k, v := range body {
		switch val := v.(type) {
		case nil:
		case string:
			fields[k] = val
		case float64:
			fields[k] = strconv.FormatFloat(val, 'f', -1, 64)
		default:
			fields[k] = fmt.Sprint(val)
		}
	}

	r, err := s.submissions.Submit(c.Request.Context(), fields)
	if err != nil {
		s.metrics.Submissions.WithLabelValues("rejected").Inc()
		s.respondError(c, err)
		return
	}
	s.metrics.Submissions.WithLabelValues("stored").Inc()
	c.JSON(http.StatusOK, gin.H{"id": r.ID})
}

func (s *Server) handleRespondentCount(c *gin.Context) {
	if s.submissions != nil {
		n, err := s.submissions.Count(c.Request.Context())
		if err != nil {
			s.respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"count": n})
		return
	}
	respondents, err := s.analysis.Respondents(c.Request.Context())
	if err != nil && !errorsIsEmpty(err) {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(respondents)})
}

func (s *Server) handleAnomalies(c *gin.Context) {
	entries, err := s.analysis.Anomalies(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(entries), "anomalies": entries})
}

func (s *Server) handleDescriptives(c *gin.Context) {
	out, err := s.analysis.Descriptives(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) handleNormality(c *gin.Context) {
	out, err := s.analysis.Normality(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) handleComparisons(c *gin.Context) {
	out, err := s.analysis.Comparisons(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// handleANOVA accepts an optional ?by=<attribute>.
func (s *Server) handleANOVA(c *gin.Context) {
	out, err := s.analysis.ANOVA(c.Request.Context(), c.Query("by"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) handleDemographics(c *gin.Context) {
	out, err := s.analysis.Demographics(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) handleReport(c *gin.Context) {
	start := time.Now()
	rep, err := s.analysis.Analyze(c.Request.Context())
	s.metrics.ObserveRun(time.Since(start), err)
	if err != nil {
		s.respondError(c, err)
		return
	}
	s.metrics.RecordReport(rep)
	c.JSON(http.StatusOK, rep)
}

func (s *Server) handleReportHTML(c *gin.Context) {
	start := time.Now()
	rep, err := s.analysis.Analyze(c.Request.Context())
	s.metrics.ObserveRun(time.Since(start), err)
	if err != nil {
		c.Data(statusFor(err), "text/html; charset=utf-8",
			[]byte(fmt.Sprintf("<html><body><h1>Analysis unavailable</h1><p>%s</p></body></html>", errors.GetCode(err))))
		return
	}
	s.metrics.RecordReport(rep)
	c.Data(http.StatusOK, "text/html; charset=utf-8", s.formatter.HTML(rep))
}

func (s *Server) handleListRuns(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
		return
	}
	runs, err := s.analysis.Runs(c.Request.Context(), limit)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"runs": runs})
}

func (s *Server) handleGetRun(c *gin.Context) {
	id, err := core.ParseRunID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid run ID"})
		return
	}
	rep, err := s.analysis.Run(c.Request.Context(), id)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rep)
}

func errorsIsEmpty(err error) bool {
	return stderrors.Is(err, core.ErrEmptyInput)
}
