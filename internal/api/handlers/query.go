package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/westeros-labs/lawsearch/internal/models"
	"github.com/westeros-labs/lawsearch/pkg/utils"
)

// NotReadyDetail is served while startup indexing has not completed (or has
// failed). The frontend surfaces it verbatim.
const NotReadyDetail = "Service is not ready. Data indexing failed during startup. Check logs for 'FATAL ERROR'."

// AnswerEngine is what the handler needs from the citation engine.
type AnswerEngine interface {
	Ready() bool
	Query(ctx context.Context, query string) (*models.Output, error)
}

type QueryHandler struct {
	engine  AnswerEngine
	queries models.QueryRecordRepository // nil disables query history
	logger  *logrus.Logger
}

func NewQueryHandler(engine AnswerEngine, queries models.QueryRecordRepository, logger *logrus.Logger) *QueryHandler {
	return &QueryHandler{
		engine:  engine,
		queries: queries,
		logger:  logger,
	}
}

// HandleQuery serves GET /query?q=. Response bodies mirror the wire contract
// the frontend classifies on: Output JSON on success, {"detail": ...} on
// every error.
func (h *QueryHandler) HandleQuery(c *gin.Context) {
	startTime := time.Now()

	if !h.engine.Ready() {
		utils.DetailError(c, http.StatusServiceUnavailable, NotReadyDetail)
		return
	}

	query := c.Query("q")
	if strings.TrimSpace(query) == "" {
		utils.DetailError(c, http.StatusBadRequest, "Query string cannot be empty")
		return
	}

	session := h.getUserSession(c)

	h.logger.WithFields(logrus.Fields{
		"query":        query,
		"user_session": session,
	}).Info("Processing query")

	output, err := h.engine.Query(c.Request.Context(), query)
	if err != nil {
		h.logger.WithError(err).WithField("query", query).Error("Query processing failed")
		go h.recordQuery(session, query, 0, time.Since(startTime), "error")
		utils.DetailError(c, http.StatusInternalServerError, "Query processing error: "+err.Error())
		return
	}

	go h.recordQuery(session, query, len(output.Citations), time.Since(startTime), "ok")

	h.logger.WithFields(logrus.Fields{
		"query":            query,
		"citations":        len(output.Citations),
		"response_time_ms": time.Since(startTime).Milliseconds(),
	}).Info("Query completed")

	c.JSON(http.StatusOK, output)
}

func (h *QueryHandler) getUserSession(c *gin.Context) string {
	if session := c.GetHeader("X-Session-ID"); session != "" {
		return session
	}
	return utils.GenerateSessionID(c.ClientIP() + c.GetHeader("User-Agent"))
}

// recordQuery writes one history row. Best effort: failures are logged and
// never surface to the caller.
func (h *QueryHandler) recordQuery(session, query string, citations int, elapsed time.Duration, status string) {
	if h.queries == nil {
		return
	}

	record := &models.QueryRecord{
		QueryText:      query,
		UserSession:    session,
		CitationCount:  citations,
		ResponseTimeMs: int(elapsed.Milliseconds()),
		Status:         status,
	}

	if err := h.queries.Create(record); err != nil {
		h.logger.WithError(err).Error("Failed to record query history")
	}
}
