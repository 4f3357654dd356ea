package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/pagechat-service/internal/entity"
	"github.com/user/pagechat-service/internal/repository"
	"github.com/user/pagechat-service/internal/safety"
	"github.com/user/pagechat-service/internal/usecase"
)

// stubScraper returns canned results and records the session IDs it saw.
type stubScraper struct {
	doc       *entity.Document
	scrapeErr error
	answer    string
	askErr    error
	session   *entity.Session
	getErr    error
	clearErr  error

	lastSessionID string
}

func (s *stubScraper) Scrape(_ context.Context, sessionID, _ string) (*entity.Document, error) {
	s.lastSessionID = sessionID
	return s.doc, s.scrapeErr
}

func (s *stubScraper) Ask(_ context.Context, sessionID, _ string) (string, error) {
	s.lastSessionID = sessionID
	return s.answer, s.askErr
}

func (s *stubScraper) Session(_ context.Context, sessionID string) (*entity.Session, error) {
	s.lastSessionID = sessionID
	return s.session, s.getErr
}

func (s *stubScraper) Clear(_ context.Context, sessionID string) error {
	s.lastSessionID = sessionID
	return s.clearErr
}

var _ usecase.Scraper = (*stubScraper)(nil)

func postJSON(t *testing.T, h http.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestHandleScrape_Success(t *testing.T) {
	stub := &stubScraper{doc: &entity.Document{
		Title:  "T",
		Text:   "hello world",
		Links:  []string{"/a", "/b"},
		Tables: []string{"t"},
	}}
	h := NewHandler(stub)

	rec := postJSON(t, h.HandleScrape, `{"url":"https://example.com","session_id":"s1"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	body := decodeBody(t, rec)
	assert.Equal(t, "success", body["status"])
	assert.Equal(t, "T", body["title"])
	assert.Equal(t, float64(11), body["text_length"])
	assert.Equal(t, float64(2), body["links_count"])
	assert.Equal(t, float64(1), body["table_count"])
	assert.Equal(t, "s1", stub.lastSessionID)
}

func TestHandleScrape_DefaultSession(t *testing.T) {
	stub := &stubScraper{doc: &entity.Document{}}
	h := NewHandler(stub)

	postJSON(t, h.HandleScrape, `{"url":"https://example.com"}`)
	assert.Equal(t, "default", stub.lastSessionID)
}

func TestHandleScrape_MalformedBody(t *testing.T) {
	h := NewHandler(&stubScraper{})

	rec := postJSON(t, h.HandleScrape, `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleScrape_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"invalid url", &safety.PolicyError{Kind: safety.KindInvalidURL, Reason: "scheme must be one of [http https]"}, http.StatusUnprocessableEntity},
		{"ssrf blocked", &safety.PolicyError{Kind: safety.KindSSRFBlocked, Reason: "resolves to a disallowed address"}, http.StatusForbidden},
		{"unresolvable", &safety.PolicyError{Kind: safety.KindUnresolvable, Reason: "could not resolve host"}, http.StatusForbidden},
		{"fetch failed", usecase.ErrFetchFailed, http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler(&stubScraper{scrapeErr: tt.err})

			rec := postJSON(t, h.HandleScrape, `{"url":"https://example.com"}`)
			assert.Equal(t, tt.status, rec.Code)
			assert.NotEmpty(t, decodeBody(t, rec)["error"])
		})
	}
}

func TestHandleAsk_Success(t *testing.T) {
	stub := &stubScraper{answer: "42"}
	h := NewHandler(stub)

	rec := postJSON(t, h.HandleAsk, `{"query":"what?","session_id":"s1"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "42", decodeBody(t, rec)["response"])
}

func TestHandleAsk_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"no content", usecase.ErrNoContent, http.StatusConflict},
		{"invalid query", usecase.ErrInvalidQuery, http.StatusBadRequest},
		{"generation blocked", repository.ErrGenerationBlocked, http.StatusUnprocessableEntity},
		{"generation stopped", repository.ErrGenerationStopped, http.StatusUnprocessableEntity},
		{"generation empty", repository.ErrGenerationEmpty, http.StatusBadGateway},
		{"provider failure", repository.ErrProviderFailure, http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler(&stubScraper{askErr: tt.err})

			rec := postJSON(t, h.HandleAsk, `{"query":"q"}`)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestHandleAsk_UnknownErrorIs500(t *testing.T) {
	h := NewHandler(&stubScraper{askErr: context.DeadlineExceeded})

	rec := postJSON(t, h.HandleAsk, `{"query":"q"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Internal server error", decodeBody(t, rec)["error"])
}

func TestHandleGetSession(t *testing.T) {
	scrapedAt := time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)
	stub := &stubScraper{session: &entity.Session{
		ID:       "s1",
		Document: &entity.Document{Title: "T", Text: "hello"},
		History: []entity.ChatTurn{
			{Query: "q1", Response: "a1"},
		},
		ScrapedAt: scrapedAt,
	}}
	h := NewHandler(stub)

	req := httptest.NewRequest(http.MethodGet, "/api/session?session_id=s1", nil)
	rec := httptest.NewRecorder()
	h.HandleGetSession(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "s1", body["session_id"])
	assert.Equal(t, "T", body["title"])
	history, ok := body["history"].([]any)
	require.True(t, ok)
	require.Len(t, history, 1)
	assert.Equal(t, "s1", stub.lastSessionID)
}

func TestHandleGetSession_NotFound(t *testing.T) {
	h := NewHandler(&stubScraper{getErr: repository.ErrSessionNotFound})

	req := httptest.NewRequest(http.MethodGet, "/api/session", nil)
	rec := httptest.NewRecorder()
	h.HandleGetSession(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleClearSession(t *testing.T) {
	stub := &stubScraper{}
	h := NewHandler(stub)

	req := httptest.NewRequest(http.MethodDelete, "/api/session?session_id=s1", nil)
	rec := httptest.NewRecorder()
	h.HandleClearSession(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "cleared", decodeBody(t, rec)["status"])
	assert.Equal(t, "s1", stub.lastSessionID)
}

func TestHandleHealthCheck(t *testing.T) {
	h := NewHandler(&stubScraper{})

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	h.HandleHealthCheck(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decodeBody(t, rec)["status"])
}
