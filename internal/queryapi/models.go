package queryapi

// Citation is one labeled excerpt returned by the backend in support of an
// answer. Immutable once received.
type Citation struct {
	Source string `json:"source"`
	Text   string `json:"text"`
}

// Output is the full result of one answered query.
type Output struct {
	Query     string     `json:"query"`
	Response  string     `json:"response"`
	Citations []Citation `json:"citations"`
}

// errorDetail matches the API's non-2xx error body.
type errorDetail struct {
	Detail string `json:"detail"`
}
