package invoice

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// ErrPrinterDisabled is returned when the browser print pathway is off.
var ErrPrinterDisabled = errors.New("browser printing is disabled")

// ChromePrinter prints the HTML view to PDF through headless Chrome, the
// print/export pathway of the invoice view.
type ChromePrinter struct {
	enabled bool
	timeout time.Duration
}

func NewChromePrinter(enabled bool) *ChromePrinter {
	return &ChromePrinter{enabled: enabled, timeout: 30 * time.Second}
}

func (p *ChromePrinter) Enabled() bool {
	return p != nil && p.enabled
}

// Print loads html into a blank page and returns the printed PDF bytes.
func (p *ChromePrinter) Print(ctx context.Context, html string) ([]byte, error) {
	if !p.Enabled() {
		return nil, ErrPrinterDisabled
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-extensions", true),
	)

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	defer allocCancel()

	taskCtx, taskCancel := chromedp.NewContext(allocCtx)
	defer taskCancel()

	var pdf []byte
	err := chromedp.Run(taskCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, html).Do(ctx)
		}),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			data, _, err := page.PrintToPDF().
				WithPrintBackground(true).
				WithPreferCSSPageSize(true).
				Do(ctx)
			if err != nil {
				return err
			}
			pdf = data
			return nil
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("chromedp print failed: %w", err)
	}

	log.Printf("chromedp printed invoice view (size: %d bytes)", len(pdf))
	return pdf, nil
}
