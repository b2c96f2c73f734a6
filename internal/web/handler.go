package web

import (
	"context"
	"html/template"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/westeros-labs/lawsearch/internal/queryapi"
	"github.com/westeros-labs/lawsearch/internal/sanitize"
)

// QueryService is the slice of the API client the page controller needs.
type QueryService interface {
	Query(ctx context.Context, query string) (*queryapi.Output, error)
	BaseURL() string
}

type Handler struct {
	service QueryService
	logger  *logrus.Logger
}

func NewHandler(service QueryService, logger *logrus.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// HandleIndex renders the query page. A request without a q parameter is the
// idle page; a request with one (even empty) is a submission.
func (h *Handler) HandleIndex(c *gin.Context) {
	query, submitted := c.GetQuery("q")

	view := PageView{State: StateIdle}
	if submitted {
		view = h.runQuery(c.Request.Context(), query)
	}

	c.HTML(http.StatusOK, "page.html", view)
}

// runQuery drives one full submission cycle through the page state machine.
func (h *Handler) runQuery(ctx context.Context, rawQuery string) PageView {
	// Each submission starts from a clean slate: any previously displayed
	// output or error is gone before the request is dispatched.
	view := PageView{State: StateLoading, Query: rawQuery}

	if strings.TrimSpace(rawQuery) == "" {
		view.State = StateFailed
		view.Error = "Please enter a query."
		return view
	}

	output, err := h.service.Query(ctx, rawQuery)
	if err != nil {
		h.logger.WithFields(logrus.Fields{
			"query":    rawQuery,
			"api_base": h.service.BaseURL(),
		}).WithError(err).Warn("Query failed")

		view.State = StateFailed
		view.Error = errorText(err)
		return view
	}

	view.State = StateSuccess
	view.Output = output

	// Sanitize-then-render is the one non-negotiable boundary on this page:
	// backend text becomes template.HTML only after passing the sanitizer.
	view.Answer = template.HTML(sanitize.HTML(output.Response))
	for _, citation := range output.Citations {
		view.Citations = append(view.Citations, CitationView{
			Source: citation.Source,
			Text:   template.HTML(sanitize.HTML(citation.Text)),
		})
	}

	return view
}

func errorText(err error) string {
	if msg := err.Error(); msg != "" {
		return msg
	}
	return "Request failed."
}
