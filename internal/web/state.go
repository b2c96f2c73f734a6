package web

import (
	"html/template"

	"github.com/westeros-labs/lawsearch/internal/queryapi"
)

// State is the explicit finite set of page states. Transitions happen only on
// submission and on response/exception events. Nothing serializes rapid
// re-submissions: a new request can race an in-flight one and the last
// response to settle wins, which is accepted behavior rather than a guarantee.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateSuccess
	StateFailed
)

// CitationView is one citation prepared for raw rendering. Text has already
// passed the sanitizer gate.
type CitationView struct {
	Source string
	Text   template.HTML
}

// PageView is everything the page template needs to render one state.
// Error and Output are mutually exclusive after a completed request cycle.
type PageView struct {
	State     State
	Query     string
	Error     string
	Output    *queryapi.Output
	Answer    template.HTML
	Citations []CitationView
}
