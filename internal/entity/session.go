package entity

import "time"

// ChatTurn is one query/response pair answered against a single document
// generation.
type ChatTurn struct {
	Query    string `json:"query"`
	Response string `json:"response"`
}

// Session holds the state owned by one logical session: the current
// document and the chat history belonging to it. The history never mixes
// turns from more than one document generation; replacing the document
// clears it.
type Session struct {
	ID        string     `json:"id"`
	Document  *Document  `json:"document,omitempty"`
	History   []ChatTurn `json:"history"`
	ScrapedAt time.Time  `json:"scraped_at"`
}
