package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// Captures use a fixed desktop viewport so the same page renders the
// same way on every request.
const (
	viewportWidth  = 1280
	viewportHeight = 1024
)

// ScreenshotService renders a web page in a headless browser and returns
// a full-page PNG capture. Each capture runs in a fresh browser context.
type ScreenshotService struct {
	timeout time.Duration
}

func NewScreenshotService(timeout time.Duration) *ScreenshotService {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &ScreenshotService{timeout: timeout}
}

// Capture navigates to pageURL, waits for the network to settle and
// returns a full-page PNG of the rendered document.
func (s *ScreenshotService) Capture(ctx context.Context, pageURL string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoSandbox,
		chromedp.DisableGPU,
	)
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	var buf []byte
	err := chromedp.Run(browserCtx,
		chromedp.EmulateViewport(viewportWidth, viewportHeight),
		page.SetLifecycleEventsEnabled(true),
		navigateAndSettle(pageURL),
		// Quality 100 keeps the capture as PNG.
		chromedp.FullScreenshot(&buf, 100),
	)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("screenshot timed out after %s: %w", s.timeout, context.DeadlineExceeded)
		}
		return nil, fmt.Errorf("capture %s: %w", pageURL, err)
	}
	if len(buf) == 0 {
		return nil, errors.New("browser produced an empty capture")
	}
	return buf, nil
}

// navigateAndSettle navigates to the page and blocks until the network
// goes idle. The lifecycle listener is registered before navigation
// starts so the idle event cannot be missed.
func navigateAndSettle(pageURL string) chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		idle := make(chan struct{})
		var once sync.Once
		chromedp.ListenTarget(ctx, func(ev interface{}) {
			if e, ok := ev.(*page.EventLifecycleEvent); ok && e.Name == "networkIdle" {
				once.Do(func() { close(idle) })
			}
		})

		if err := chromedp.Navigate(pageURL).Do(ctx); err != nil {
			return err
		}

		select {
		case <-idle:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	})
}
