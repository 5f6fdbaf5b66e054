package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	primarybrief "github.com/alnah/go-primarybrief"
	"github.com/alnah/go-primarybrief/internal/dateutil"
	"github.com/alnah/go-primarybrief/internal/fileutil"
	"github.com/alnah/go-primarybrief/internal/hints"
)

// ErrWriteOutput reports that the exported file could not be written.
var ErrWriteOutput = errors.New("failed to write output")

// Default export file names.
const (
	defaultHTMLOutput = "primarybrief.html"
	defaultPDFOutput  = "primarybrief.pdf"
	stdoutOutput      = "-"
)

// runExport writes the report as a standalone HTML page or a PDF.
func runExport(ctx context.Context, args []string, env *Environment) error {
	flags, err := parseExportFlags(args, env.Stderr)
	if err != nil {
		return err
	}

	cfg, err := loadSettings(&flags.common, env)
	if err != nil {
		return err
	}
	if flags.timeout != "" {
		d, err := time.ParseDuration(flags.timeout)
		if err != nil || d <= 0 {
			return fmt.Errorf("%w: invalid --timeout %q", ErrUsage, flags.timeout)
		}
		cfg.Export.Timeout = d
	}
	landscape := cfg.Export.Landscape || flags.landscape
	stamp, err := exportStamp(cfg.Export.Date, flags, env.Now())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg, env)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	report, err := newReport(cfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = report.Close() }()

	if !flags.noFetch {
		if err := report.Materialize(ctx); err != nil {
			return err
		}
		// Missing maps are shown in the page; the export still proceeds.
		if err := reportNotices(env.Stderr, report.Notices(), flags.common.quiet, cfg.Remote.BaseURL); err != nil {
			fmt.Fprintf(env.Stderr, "warning: %v\n", err)
		}
	}

	start := env.Now()
	var buf bytes.Buffer
	if flags.pdf {
		err = report.ExportPDF(ctx, &buf, primarybrief.PDFOptions{Landscape: landscape, Stamp: stamp})
	} else {
		err = report.Render(ctx, &buf, primarybrief.RenderOptions{Standalone: true, Stamp: stamp})
	}
	if err != nil {
		return exportHint(err)
	}

	output := resolveOutput(flags.output, flags.pdf)
	if output == stdoutOutput {
		if _, err := buf.WriteTo(env.Stdout); err != nil {
			return fmt.Errorf("%w: stdout: %v", ErrWriteOutput, err)
		}
		return nil
	}
	if err := fileutil.WriteFileAll(output, buf.Bytes()); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrWriteOutput, output, err)
	}

	if !flags.common.quiet {
		fmt.Fprintf(env.Stderr, "Wrote %s (%d bytes) in %s\n", output, buf.Len(), env.Now().Sub(start).Round(time.Millisecond))
	}
	return nil
}

// resolveOutput picks the output path for the chosen format.
func resolveOutput(output string, pdf bool) string {
	if output != "" {
		return output
	}
	if pdf {
		return defaultPDFOutput
	}
	return defaultHTMLOutput
}

// exportStamp resolves the footer line from --date, --no-date or the
// configured value. An empty result omits the footer.
func exportStamp(configured string, flags *exportFlags, now time.Time) (string, error) {
	value := configured
	switch {
	case flags.noDate:
		return "", nil
	case flags.date != "":
		value = flags.date
	}
	if value == "" {
		return "", nil
	}

	date, err := dateutil.Resolve(value, now)
	if err != nil {
		return "", fmt.Errorf("%w: --date: %v", ErrUsage, err)
	}
	return "Exported " + date, nil
}

// exportHint attaches a hint for browser and timeout failures.
func exportHint(err error) error {
	switch {
	case errors.Is(err, primarybrief.ErrBrowserConnect):
		return withHint(err, hints.ForBrowserConnect())
	case errors.Is(err, context.DeadlineExceeded):
		return withHint(err, hints.ForTimeout())
	default:
		return err
	}
}
