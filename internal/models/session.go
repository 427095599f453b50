package models

// SearchContext is the per-chat conversation state kept in Redis. It is
// what lets a pagination callback re-run the exact search that produced
// the results; once it expires the user is asked to search again.
type SearchContext struct {
	Query string `json:"query"`
	Mode  string `json:"mode"`
}
