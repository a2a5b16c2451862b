package fetch

import (
	"context"
	"os"
	"os/exec"
	"time"

	"github.com/chromedp/chromedp"
)

// ChromeFetcher renders pages in headless Chrome before returning their HTML.
// It is the fallback mode for when the portal stops serving the state block
// to plain HTTP clients.
type ChromeFetcher struct {
	allocCtx context.Context
	cancel   context.CancelFunc
	timeout  time.Duration
}

// NewChromeFetcher starts a headless browser allocator. Close must be called
// when the fetcher is no longer needed.
func NewChromeFetcher(chromeBin string, timeout time.Duration) *ChromeFetcher {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-setuid-sandbox", true),
		chromedp.UserAgent(userAgent),
	)
	if bin := findChromeBinary(chromeBin); bin != "" {
		opts = append(opts, chromedp.ExecPath(bin))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), opts...)

	// Suppress chromedp log noise
	silentCtx, cancelSilent := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))

	return &ChromeFetcher{
		allocCtx: silentCtx,
		cancel: func() {
			cancelSilent()
			cancelAlloc()
		},
		timeout: timeout,
	}
}

func (f *ChromeFetcher) Fetch(ctx context.Context, pageURL string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", &TransportError{URL: pageURL, Err: err}
	}

	runCtx, cancel := chromedp.NewContext(f.allocCtx)
	defer cancel()

	runCtx, cancelTimeout := context.WithTimeout(runCtx, f.timeout)
	defer cancelTimeout()

	var html string
	err := chromedp.Run(runCtx,
		chromedp.Navigate(pageURL),
		chromedp.WaitReady("body"),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return "", &TransportError{URL: pageURL, Err: err}
	}
	return html, nil
}

// Close shuts down the browser allocator.
func (f *ChromeFetcher) Close() {
	f.cancel()
}

// findChromeBinary locates the Chrome/Chromium binary, preferring the
// configured path.
func findChromeBinary(configured string) string {
	if configured != "" {
		return configured
	}

	names := []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	paths := []string{
		"/usr/bin/google-chrome-stable",
		"/usr/bin/google-chrome",
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/snap/bin/chromium",
		"/opt/google/chrome/google-chrome",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}
