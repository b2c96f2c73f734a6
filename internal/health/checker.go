package health

import (
	"time"

	"github.com/sirupsen/logrus"
	"github.com/westeros-labs/lawsearch/internal/database"
	"github.com/westeros-labs/lawsearch/internal/models"
)

// Checker reports the health of the API service's components.
type Checker struct {
	dbManager *database.Manager // nil when query history is disabled
	ready     func() bool
	logger    *logrus.Logger
}

func NewChecker(dbManager *database.Manager, ready func() bool, logger *logrus.Logger) *Checker {
	return &Checker{
		dbManager: dbManager,
		ready:     ready,
		logger:    logger,
	}
}

// Check inspects the index and the database. The service stays "degraded"
// rather than dead when a component is down: /query keeps answering (or keeps
// serving its 503 detail) either way.
func (h *Checker) Check() models.HealthResponse {
	services := make(map[string]string)
	status := "healthy"

	if h.ready() {
		services["index"] = "healthy"
	} else {
		services["index"] = "unhealthy"
		status = "degraded"
	}

	if h.dbManager == nil {
		services["postgresql"] = "disabled"
	} else if err := h.dbManager.PingDatabase(); err != nil {
		h.logger.WithError(err).Error("PostgreSQL health check failed")
		services["postgresql"] = "unhealthy"
		status = "degraded"
	} else {
		services["postgresql"] = "healthy"
	}

	return models.HealthResponse{
		Status:    status,
		Service:   "lawsearch-api",
		Timestamp: time.Now().Format(time.RFC3339),
		Services:  services,
	}
}
