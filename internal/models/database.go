package models

import (
	"time"
)

// QueryRecord is one served query, kept for usage analytics. Recording is
// best-effort and never blocks or fails a query response.
type QueryRecord struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	QueryText      string    `json:"query_text" gorm:"not null"`
	UserSession    string    `json:"user_session"`
	CitationCount  int       `json:"citation_count"`
	ResponseTimeMs int       `json:"response_time_ms"`
	Status         string    `json:"status"` // 'ok' or 'error'
	CreatedAt      time.Time `json:"created_at" gorm:"default:now()"`
}

type QueryRecordRepository interface {
	Create(record *QueryRecord) error
	GetRecent(limit int) ([]QueryRecord, error)
	GetBySession(session string) ([]QueryRecord, error)
}
