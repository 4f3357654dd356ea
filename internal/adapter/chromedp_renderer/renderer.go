// Package chromedp_renderer implements the PageRenderer boundary with a
// headless Chrome instance driven by chromedp.
package chromedp_renderer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"github.com/user/pagechat-service/internal/repository"
)

// Options configures the renderer.
type Options struct {
	// NavigationTimeout bounds the whole render of one page.
	NavigationTimeout time.Duration
	// SettleWait is a fixed pause after navigation completes, to let
	// late-loading content land. A heuristic, not a rendering guarantee.
	SettleWait time.Duration
	// UserAgent and AcceptHeader are sent with every navigation.
	UserAgent    string
	AcceptHeader string
	// MaxConcurrency sizes the pre-warmed allocator pool.
	MaxConcurrency int
}

// Renderer renders pages in isolated headless-browser contexts. Each Render
// call gets its own browser context, torn down on every exit path, so no
// state leaks between fetches.
type Renderer struct {
	allocatorPool *sync.Pool
	opts          Options
}

// New creates a Renderer with a pool of pre-warmed exec allocators.
func New(opts Options) *Renderer {
	pool := &sync.Pool{
		New: func() interface{} {
			allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
				chromedp.Flag("headless", true),
				chromedp.Flag("disable-gpu", true),
				chromedp.Flag("no-sandbox", true),
				chromedp.Flag("disable-dev-shm-usage", true),
				chromedp.UserAgent(opts.UserAgent),
			)
			allocCtx, _ := chromedp.NewExecAllocator(context.Background(), allocOpts...)
			return allocCtx
		},
	}

	for i := 0; i < opts.MaxConcurrency; i++ {
		allocCtx := pool.Get().(context.Context)
		pool.Put(allocCtx)
	}

	return &Renderer{
		allocatorPool: pool,
		opts:          opts,
	}
}

// Render navigates to the URL in a fresh browser context and returns the
// final HTML once the body is ready and the settle wait has elapsed.
func (r *Renderer) Render(ctx context.Context, url string) (string, error) {
	allocCtx := r.allocatorPool.Get().(context.Context)
	defer r.allocatorPool.Put(allocCtx)

	taskCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	taskCtx, cancelTimeout := context.WithTimeout(taskCtx, r.opts.NavigationTimeout)
	defer cancelTimeout()

	headers := network.Headers{
		"Accept": r.opts.AcceptHeader,
	}

	start := time.Now()
	var html string
	err := chromedp.Run(taskCtx,
		network.Enable(),
		network.SetExtraHTTPHeaders(headers),
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
		chromedp.Sleep(r.opts.SettleWait),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", fmt.Errorf("%w after %s: %s", repository.ErrRenderTimeout, r.opts.NavigationTimeout, url)
		}
		return "", fmt.Errorf("%w: %w", repository.ErrNavigationFailed, err)
	}

	slog.Info("page rendered", "url", url, "duration_ms", time.Since(start).Milliseconds(), "html_bytes", len(html))
	return html, nil
}
