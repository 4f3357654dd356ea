package response

import "time"

// ScrapeResponse summarizes a freshly scraped document.
type ScrapeResponse struct {
	Status     string `json:"status"`
	Title      string `json:"title"`
	TextLength int    `json:"text_length"`
	LinksCount int    `json:"links_count"`
	TableCount int    `json:"table_count"`
}

// AskResponse carries the analyzer's answer for one chat turn.
type AskResponse struct {
	Response string `json:"response"`
}

// ChatTurn mirrors entity.ChatTurn for the presentation layer.
type ChatTurn struct {
	Query    string `json:"query"`
	Response string `json:"response"`
}

// SessionResponse exposes the session's document summary and chat history.
type SessionResponse struct {
	SessionID  string     `json:"session_id"`
	Title      string     `json:"title"`
	TextLength int        `json:"text_length"`
	LinksCount int        `json:"links_count"`
	TableCount int        `json:"table_count"`
	ScrapedAt  *time.Time `json:"scraped_at,omitempty"`
	History    []ChatTurn `json:"history"`
}
