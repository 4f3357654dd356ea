package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/user/pagechat-service/internal/entity"
	"github.com/user/pagechat-service/internal/extractor"
	"github.com/user/pagechat-service/internal/ratelimit"
	"github.com/user/pagechat-service/internal/repository"
	"github.com/user/pagechat-service/internal/safety"
	"github.com/user/pagechat-service/pkg/metrics"
	"github.com/user/pagechat-service/pkg/utils"
)

var (
	// ErrNoContent is the precondition violation for queries issued without
	// a scraped document. It never reaches the fetch pipeline or provider.
	ErrNoContent = errors.New("no content available, scrape a page first")
	// ErrInvalidQuery rejects empty or oversized queries.
	ErrInvalidQuery = errors.New("invalid query")
	// ErrFetchFailed wraps browser-side failures of the fetch stage.
	ErrFetchFailed = errors.New("failed to scrape URL")
)

// Scraper sequences the scrape pipeline and answers queries against the
// session's current document.
type Scraper interface {
	// Scrape runs validate -> SSRF check -> rate limit -> render -> extract
	// and installs the resulting document in the session.
	Scrape(ctx context.Context, sessionID, rawURL string) (*entity.Document, error)
	// Ask answers a query against the session's current document.
	Ask(ctx context.Context, sessionID, query string) (string, error)
	// Session returns the session's current document and history.
	Session(ctx context.Context, sessionID string) (*entity.Session, error)
	// Clear discards the session's document and history.
	Clear(ctx context.Context, sessionID string) error
}

// Limits bounds the analysis context and query size.
type Limits struct {
	MaxContentChars int
	MaxTables       int
	MaxQueryLength  int
}

type scraperUseCase struct {
	policy    safety.Policy
	guard     *safety.Guard
	limiter   *ratelimit.Limiter
	renderer  repository.PageRenderer
	sessions  repository.SessionRepository
	generator repository.TextGenerator
	limits    Limits
}

// NewScraper creates the orchestrator use case.
func NewScraper(
	policy safety.Policy,
	guard *safety.Guard,
	limiter *ratelimit.Limiter,
	renderer repository.PageRenderer,
	sessions repository.SessionRepository,
	generator repository.TextGenerator,
	limits Limits,
) Scraper {
	return &scraperUseCase{
		policy:    policy,
		guard:     guard,
		limiter:   limiter,
		renderer:  renderer,
		sessions:  sessions,
		generator: generator,
		limits:    limits,
	}
}

// Scrape passes the URL through the three gates before any network I/O,
// then fetches, extracts and stores the document. Validation and SSRF
// rejections happen before rate-limit bookkeeping, so they never consume a
// domain's budget. A failed fetch does consume it: the request was made.
func (uc *scraperUseCase) Scrape(ctx context.Context, sessionID, rawURL string) (*entity.Document, error) {
	if err := safety.ValidateURL(rawURL, uc.policy); err != nil {
		metrics.ScrapesTotal.WithLabelValues("rejected", "invalid_url").Inc()
		return nil, err
	}

	if err := uc.guard.Check(ctx, rawURL); err != nil {
		reason := "ssrf_blocked"
		var perr *safety.PolicyError
		if errors.As(err, &perr) {
			reason = perr.Kind.String()
		}
		metrics.ScrapesTotal.WithLabelValues("rejected", reason).Inc()
		return nil, err
	}

	domain := utils.Netloc(rawURL)
	if err := uc.limiter.Wait(ctx, domain); err != nil {
		return nil, fmt.Errorf("rate limit wait interrupted for %s: %w", domain, err)
	}

	start := time.Now()
	html, err := uc.renderer.Render(ctx, rawURL)
	metrics.ScrapeDuration.WithLabelValues(domain).Observe(time.Since(start).Seconds())
	if err != nil {
		slog.Error("scraping failed", "url", rawURL, "error", err)
		metrics.ScrapesTotal.WithLabelValues("failure", "fetch").Inc()
		return nil, fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}

	doc, err := extractor.Extract(html)
	if err != nil {
		metrics.ScrapesTotal.WithLabelValues("failure", "extract").Inc()
		return nil, fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}

	if err := uc.sessions.ReplaceDocument(ctx, sessionID, doc); err != nil {
		return nil, fmt.Errorf("failed to store document for session %s: %w", sessionID, err)
	}

	slog.Info("scrape completed",
		"url", rawURL,
		"title", doc.Title,
		"text_length", len(doc.Text),
		"links", len(doc.Links),
		"tables", len(doc.Tables),
	)
	metrics.ScrapesTotal.WithLabelValues("success", "").Inc()
	return doc, nil
}

// Ask validates the query, requires a current document, builds the bounded
// context and calls the generator. A failed turn is rejected without
// touching the document or the prior history.
func (uc *scraperUseCase) Ask(ctx context.Context, sessionID, query string) (string, error) {
	if strings.TrimSpace(query) == "" {
		return "", fmt.Errorf("%w: query cannot be empty", ErrInvalidQuery)
	}
	if len(query) > uc.limits.MaxQueryLength {
		return "", fmt.Errorf("%w: query exceeds maximum length of %d characters", ErrInvalidQuery, uc.limits.MaxQueryLength)
	}

	sess, err := uc.sessions.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return "", ErrNoContent
		}
		return "", err
	}
	if sess.Document == nil {
		return "", ErrNoContent
	}

	prompt := buildPrompt(sess.Document, query, uc.limits.MaxContentChars, uc.limits.MaxTables)
	answer, err := uc.generator.Generate(ctx, prompt)
	if err != nil {
		return "", err
	}

	if err := uc.sessions.AppendTurn(ctx, sessionID, entity.ChatTurn{Query: query, Response: answer}); err != nil {
		slog.Warn("failed to record chat turn", "session", sessionID, "error", err)
	}
	return answer, nil
}

func (uc *scraperUseCase) Session(ctx context.Context, sessionID string) (*entity.Session, error) {
	return uc.sessions.Get(ctx, sessionID)
}

func (uc *scraperUseCase) Clear(ctx context.Context, sessionID string) error {
	return uc.sessions.Clear(ctx, sessionID)
}

// buildPrompt assembles the bounded analysis context: title, a truncated
// prefix of the text, at most maxTables tables, the metadata fields, the
// query, and the answer-from-material instruction.
func buildPrompt(doc *entity.Document, query string, maxContentChars, maxTables int) string {
	text := doc.Text
	if utf8.RuneCountInString(text) > maxContentChars {
		text = string([]rune(text)[:maxContentChars])
	}

	tablesText := "No tables found"
	if len(doc.Tables) > 0 {
		n := len(doc.Tables)
		if n > maxTables {
			n = maxTables
		}
		tablesText = strings.Join(doc.Tables[:n], " ")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Title: %s\n\n", doc.Title)
	fmt.Fprintf(&b, "Content Summary: %s...\n\n", text)
	fmt.Fprintf(&b, "Table Data: %s\n\n", tablesText)
	fmt.Fprintf(&b, "Metadata:\n- Description: %s\n- Keywords: %s\n\n", doc.Metadata.Description, doc.Metadata.Keywords)
	fmt.Fprintf(&b, "Query: %s\n\n", query)
	b.WriteString("Please provide a helpful and accurate response based on the content above.")
	return b.String()
}
