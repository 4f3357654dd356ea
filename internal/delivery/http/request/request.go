package request

// ScrapeRequest submits a URL to the scrape pipeline. An empty SessionID
// maps to the default session.
type ScrapeRequest struct {
	URL       string `json:"url"`
	SessionID string `json:"session_id"`
}

// AskRequest submits a query against the session's current document.
type AskRequest struct {
	SessionID string `json:"session_id"`
	Query     string `json:"query"`
}
