package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/user/pagechat-service/internal/delivery/http/request"
	"github.com/user/pagechat-service/internal/delivery/http/response"
	"github.com/user/pagechat-service/internal/repository"
	"github.com/user/pagechat-service/internal/safety"
	"github.com/user/pagechat-service/internal/usecase"
)

const defaultSessionID = "default"

// Handler is the thin presentation glue over the orchestrator. Every core
// failure maps to a typed JSON error; nothing here is fatal to the process.
type Handler struct {
	scraper usecase.Scraper
}

func NewHandler(scraper usecase.Scraper) *Handler {
	return &Handler{scraper: scraper}
}

func (h *Handler) HandleScrape(w http.ResponseWriter, r *http.Request) {
	var req request.ScrapeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	doc, err := h.scraper.Scrape(r.Context(), sessionID(req.SessionID), req.URL)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, response.ScrapeResponse{
		Status:     "success",
		Title:      doc.Title,
		TextLength: len(doc.Text),
		LinksCount: len(doc.Links),
		TableCount: len(doc.Tables),
	})
}

func (h *Handler) HandleAsk(w http.ResponseWriter, r *http.Request) {
	var req request.AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	answer, err := h.scraper.Ask(r.Context(), sessionID(req.SessionID), req.Query)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, response.AskResponse{Response: answer})
}

func (h *Handler) HandleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := h.scraper.Session(r.Context(), sessionID(r.URL.Query().Get("session_id")))
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			h.writeJSONError(w, "Session not found", http.StatusNotFound)
			return
		}
		h.writeError(w, err)
		return
	}

	resp := response.SessionResponse{
		SessionID: sess.ID,
		History:   make([]response.ChatTurn, 0, len(sess.History)),
	}
	if sess.Document != nil {
		resp.Title = sess.Document.Title
		resp.TextLength = len(sess.Document.Text)
		resp.LinksCount = len(sess.Document.Links)
		resp.TableCount = len(sess.Document.Tables)
		scrapedAt := sess.ScrapedAt
		resp.ScrapedAt = &scrapedAt
	}
	for _, turn := range sess.History {
		resp.History = append(resp.History, response.ChatTurn{Query: turn.Query, Response: turn.Response})
	}

	h.writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) HandleClearSession(w http.ResponseWriter, r *http.Request) {
	if err := h.scraper.Clear(r.Context(), sessionID(r.URL.Query().Get("session_id"))); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

func (h *Handler) HandleHealthCheck(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeError maps core errors onto HTTP statuses. Unknown errors are logged
// and returned as 500 without leaking internals.
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var perr *safety.PolicyError
	switch {
	case errors.As(err, &perr):
		if perr.Kind == safety.KindInvalidURL {
			h.writeJSONError(w, perr.Reason, http.StatusUnprocessableEntity)
		} else {
			// SSRF-blocked and unresolvable targets are both refused.
			h.writeJSONError(w, perr.Reason, http.StatusForbidden)
		}
	case errors.Is(err, usecase.ErrInvalidQuery):
		h.writeJSONError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, usecase.ErrNoContent):
		h.writeJSONError(w, err.Error(), http.StatusConflict)
	case errors.Is(err, usecase.ErrFetchFailed):
		h.writeJSONError(w, err.Error(), http.StatusBadGateway)
	case errors.Is(err, repository.ErrGenerationBlocked),
		errors.Is(err, repository.ErrGenerationStopped):
		h.writeJSONError(w, err.Error(), http.StatusUnprocessableEntity)
	case errors.Is(err, repository.ErrGenerationEmpty),
		errors.Is(err, repository.ErrProviderFailure):
		h.writeJSONError(w, err.Error(), http.StatusBadGateway)
	default:
		slog.Error("request failed", "error", err)
		h.writeJSONError(w, "Internal server error", http.StatusInternalServerError)
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Failed to write JSON response", "error", err)
	}
}

func (h *Handler) writeJSONError(w http.ResponseWriter, message string, status int) {
	h.writeJSON(w, status, map[string]string{"error": message})
}

func sessionID(id string) string {
	if id == "" {
		return defaultSessionID
	}
	return id
}
