package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/westeros-labs/lawsearch/internal/models"
	"github.com/westeros-labs/lawsearch/pkg/utils"
)

type stubEngine struct {
	ready  bool
	output *models.Output
	err    error
	calls  int
}

func (s *stubEngine) Ready() bool {
	return s.ready
}

func (s *stubEngine) Query(ctx context.Context, query string) (*models.Output, error) {
	s.calls++
	return s.output, s.err
}

type capturingRepo struct {
	mu      sync.Mutex
	records []models.QueryRecord
}

func (r *capturingRepo) Create(record *models.QueryRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, *record)
	return nil
}

func (r *capturingRepo) GetRecent(limit int) ([]models.QueryRecord, error) { return nil, nil }

func (r *capturingRepo) GetBySession(session string) ([]models.QueryRecord, error) { return nil, nil }

func (r *capturingRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.records)
}

func doQuery(engine AnswerEngine, repo models.QueryRecordRepository, target string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	handler := NewQueryHandler(engine, repo, logrus.New())
	router.GET("/query", handler.HandleQuery)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	router.ServeHTTP(w, req)
	return w
}

func TestHandleQuery_NotReady(t *testing.T) {
	engine := &stubEngine{ready: false}
	w := doQuery(engine, nil, "/query?q=anything")

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	var detail utils.ErrorDetail
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &detail))
	assert.Equal(t, NotReadyDetail, detail.Detail)
	assert.Equal(t, 0, engine.calls)
}

func TestHandleQuery_EmptyQuery(t *testing.T) {
	engine := &stubEngine{ready: true}

	for _, target := range []string{"/query", "/query?q=", "/query?q=%20%20"} {
		w := doQuery(engine, nil, target)

		assert.Equal(t, http.StatusBadRequest, w.Code, target)

		var detail utils.ErrorDetail
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &detail))
		assert.Equal(t, "Query string cannot be empty", detail.Detail)
	}
	assert.Equal(t, 0, engine.calls)
}

func TestHandleQuery_EngineError(t *testing.T) {
	engine := &stubEngine{ready: true, err: errors.New("embedding quota exceeded")}
	w := doQuery(engine, nil, "/query?q=desertion")

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var detail utils.ErrorDetail
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &detail))
	assert.Equal(t, "Query processing error: embedding quota exceeded", detail.Detail)
}

func TestHandleQuery_Success(t *testing.T) {
	expected := &models.Output{
		Query:    "guest right",
		Response: "Guest right is sacred.",
		Citations: []models.Citation{
			{Source: "Law 1 - Guest Right", Text: "A guest is protected."},
		},
	}
	engine := &stubEngine{ready: true, output: expected}
	repo := &capturingRepo{}

	w := doQuery(engine, repo, "/query?q=guest+right")

	assert.Equal(t, http.StatusOK, w.Code)

	var output models.Output
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &output))
	assert.Equal(t, *expected, output)

	// history is written asynchronously
	require.Eventually(t, func() bool { return repo.count() == 1 }, time.Second, 10*time.Millisecond)

	repo.mu.Lock()
	defer repo.mu.Unlock()
	record := repo.records[0]
	assert.Equal(t, "guest right", record.QueryText)
	assert.Equal(t, 1, record.CitationCount)
	assert.Equal(t, "ok", record.Status)
	assert.NotEmpty(t, record.UserSession)
}

func TestHandleQuery_RecordsFailedQueries(t *testing.T) {
	engine := &stubEngine{ready: true, err: errors.New("boom")}
	repo := &capturingRepo{}

	doQuery(engine, repo, "/query?q=x")

	require.Eventually(t, func() bool { return repo.count() == 1 }, time.Second, 10*time.Millisecond)

	repo.mu.Lock()
	defer repo.mu.Unlock()
	assert.Equal(t, "error", repo.records[0].Status)
	assert.Equal(t, 0, repo.records[0].CitationCount)
}
