package router

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/user/pagechat-service/internal/delivery/http/handler"
	"github.com/user/pagechat-service/internal/delivery/http/middleware"
)

func New(h *handler.Handler) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/health", h.HandleHealthCheck)
	mux.HandleFunc("POST /api/scrape", h.HandleScrape)
	mux.HandleFunc("POST /api/ask", h.HandleAsk)
	mux.HandleFunc("GET /api/session", h.HandleGetSession)
	mux.HandleFunc("DELETE /api/session", h.HandleClearSession)

	// Prometheus metrics endpoint
	mux.Handle("/metrics", promhttp.Handler())

	var chainedHandler http.Handler = mux
	chainedHandler = middleware.Metrics(chainedHandler)
	chainedHandler = middleware.Logging(chainedHandler)

	return chainedHandler
}
