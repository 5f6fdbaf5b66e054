package primarybrief

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"go.uber.org/zap"

	"github.com/alnah/go-primarybrief/internal/fileutil"
	"github.com/alnah/go-primarybrief/internal/process"
)

// PDFRenderer renders a local HTML file to PDF bytes.
// Implementations must be safe to Close more than once.
type PDFRenderer interface {
	RenderFromFile(ctx context.Context, filePath string, opts PDFOptions) ([]byte, error)
	Close() error
}

// PDFOptions holds options for PDF generation.
type PDFOptions struct {
	Landscape bool
	Stamp     string // footer line, see RenderOptions
}

// PDF page dimensions in inches (A4).
const (
	paperWidthInches  = 8.27
	paperHeightInches = 11.69
	marginInches      = 0.4
)

// rodRenderer implements PDFRenderer using go-rod.
// Rod downloads Chromium on first run if none is found.
type rodRenderer struct {
	timeout time.Duration
	getenv  func(string) string

	mu       sync.Mutex // guards launcher and browser
	launcher *launcher.Launcher
	browser  *rod.Browser
}

func newRodRenderer(timeout time.Duration) *rodRenderer {
	return &rodRenderer{timeout: timeout, getenv: os.Getenv}
}

// newLauncher applies ROD_BROWSER_BIN and the sandbox setting.
// Containers and CI runners need NoSandbox.
func (r *rodRenderer) newLauncher() *launcher.Launcher {
	l := launcher.New()
	bin := r.getenv("ROD_BROWSER_BIN")
	if bin != "" {
		l = l.Bin(bin)
	}
	if r.getenv("CI") == "true" || r.getenv("ROD_NO_SANDBOX") == "1" || bin != "" {
		l = l.NoSandbox(true)
	}
	return l
}

// ensureBrowser starts and connects the browser on first use.
func (r *rodRenderer) ensureBrowser() (*rod.Browser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.browser != nil {
		return r.browser, nil
	}

	l := r.newLauncher()
	u, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		process.KillGroup(l.PID())
		return nil, fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}
	r.launcher, r.browser = l, browser
	return browser, nil
}

// Close closes the browser, kills whatever is left of its process tree and
// removes the profile directory.
func (r *rodRenderer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var err error
	if r.browser != nil {
		err = r.browser.Close()
		r.browser = nil
	}
	if r.launcher != nil {
		process.KillGroup(r.launcher.PID())
		r.launcher.Cleanup()
		r.launcher = nil
	}
	return err
}

// RenderFromFile opens a local HTML file in headless Chrome and prints it.
// The page is bound to ctx, so cancellation aborts a slow load.
func (r *rodRenderer) RenderFromFile(ctx context.Context, filePath string, opts PDFOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	timeout := r.timeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
		if timeout <= 0 {
			return nil, context.DeadlineExceeded
		}
	}

	browser, err := r.ensureBrowser()
	if err != nil {
		return nil, err
	}

	page, err := browser.Page(proto.TargetCreateTarget{URL: "file://" + filepath.ToSlash(filePath)})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}
	defer func() { _ = page.Close() }()

	bound := page.Context(ctx)
	if err := bound.Timeout(timeout).WaitLoad(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}

	reader, err := bound.PDF(buildPDFOptions(opts))
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %v", ErrPDFGeneration, err)
	}
	defer func() { _ = reader.Close() }()

	buf, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: reading PDF stream: %v", ErrPDFGeneration, err)
	}
	return buf, nil
}

// buildPDFOptions constructs the print settings for an A4 page.
func buildPDFOptions(opts PDFOptions) *proto.PagePrintToPDF {
	return &proto.PagePrintToPDF{
		Landscape:       opts.Landscape,
		PaperWidth:      floatPtr(paperWidthInches),
		PaperHeight:     floatPtr(paperHeightInches),
		MarginTop:       floatPtr(marginInches),
		MarginBottom:    floatPtr(marginInches),
		MarginLeft:      floatPtr(marginInches),
		MarginRight:     floatPtr(marginInches),
		PrintBackground: true,
	}
}

func floatPtr(v float64) *float64 {
	return &v
}

// renderer returns the configured PDF renderer, starting the default one
// on first use.
func (r *Report) renderer() PDFRenderer {
	r.pdfMu.Lock()
	defer r.pdfMu.Unlock()
	if r.pdf == nil {
		r.pdf = newRodRenderer(r.cfg.timeout)
	}
	return r.pdf
}

// ExportPDF renders the standalone page and prints it to PDF, writing the
// bytes to w. A browser is started on first use and kept until Close.
func (r *Report) ExportPDF(ctx context.Context, w io.Writer, opts PDFOptions) error {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.timeout)
	defer cancel()

	var page bytes.Buffer
	if err := r.Render(ctx, &page, RenderOptions{Standalone: true, Stamp: opts.Stamp}); err != nil {
		return err
	}

	tmpPath, cleanup, err := fileutil.WriteTempFile(page.String(), "html")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPDFGeneration, err)
	}
	defer cleanup()

	start := time.Now()
	data, err := r.renderer().RenderFromFile(ctx, tmpPath, opts)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("writing PDF: %w", err)
	}

	r.logger.Info("pdf exported",
		zap.Int("bytes", len(data)),
		zap.Bool("landscape", opts.Landscape),
		zap.Duration("elapsed", time.Since(start)))
	return nil
}
