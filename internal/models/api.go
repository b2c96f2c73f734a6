package models

// Citation is one law excerpt supporting part of an answer.
type Citation struct {
	Source string `json:"source"`
	Text   string `json:"text"`
}

// Output is the success body of GET /query. This shape is the wire contract
// with the web frontend and must not change without changing both sides.
type Output struct {
	Query     string     `json:"query"`
	Response  string     `json:"response"`
	Citations []Citation `json:"citations"`
}

type HealthResponse struct {
	Status    string            `json:"status"`
	Service   string            `json:"service"`
	Timestamp string            `json:"timestamp"`
	Services  map[string]string `json:"services"`
}
