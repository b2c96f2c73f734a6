package queryapi

import "fmt"

// RoutingError reports an HTML response where a JSON API response was
// expected. This almost always means the base URL points at a static frontend
// (and the body is its 404 page) rather than the query API.
type RoutingError struct {
	URL  string
	Base string
}

func (e *RoutingError) Error() string {
	return fmt.Sprintf(
		"received an HTML page instead of an API response from %s (API base %s); check that the backend is running and API_BASE points at it",
		e.URL, e.Base,
	)
}

// BackendError carries the message recovered from a non-2xx API response.
type BackendError struct {
	StatusCode int
	Detail     string
}

func (e *BackendError) Error() string {
	return e.Detail
}
