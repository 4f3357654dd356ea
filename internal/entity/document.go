package entity

// Metadata holds the page-level meta tags relevant to analysis.
type Metadata struct {
	Description string `json:"description"`
	Keywords    string `json:"keywords"`
}

// Document is the structured extraction result of one page fetch.
// It is replaced wholesale on every successful scrape.
type Document struct {
	Title    string   `json:"title"`
	Text     string   `json:"text"`
	Links    []string `json:"links"`
	Metadata Metadata `json:"metadata"`
	Tables   []string `json:"tables"`
}
