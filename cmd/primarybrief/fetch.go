package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"

	primarybrief "github.com/alnah/go-primarybrief"
	"github.com/alnah/go-primarybrief/internal/hints"
)

// ErrFetchFailed reports that at least one map document could not be
// downloaded.
var ErrFetchFailed = errors.New("failed to fetch release assets")

var (
	noticeInfo    = color.New(color.FgCyan).SprintFunc()
	noticeSuccess = color.New(color.FgGreen).SprintFunc()
	noticeError   = color.New(color.FgRed, color.Bold).SprintFunc()
)

// runFetch downloads missing map documents into the assets directory.
func runFetch(ctx context.Context, args []string, env *Environment) error {
	flags, err := parseFetchFlags(args, env.Stderr)
	if err != nil {
		return err
	}

	cfg, err := loadSettings(&flags.common, env)
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

	if err := report.Materialize(ctx); err != nil {
		return err
	}
	return reportNotices(env.Stderr, report.Notices(), flags.common.quiet, cfg.Remote.BaseURL)
}

// reportNotices prints notices and returns ErrFetchFailed when any of them
// is an error. Quiet mode prints only errors.
func reportNotices(w io.Writer, notices []primarybrief.Notice, quiet bool, baseURL string) error {
	failed := 0
	for _, n := range notices {
		switch n.Level {
		case primarybrief.NoticeError:
			failed++
			fmt.Fprintf(w, "%s %s\n", noticeError("[ERROR]"), n.Message)
		case primarybrief.NoticeSuccess:
			if !quiet {
				fmt.Fprintf(w, "%s %s\n", noticeSuccess("[OK]"), n.Message)
			}
		default:
			if !quiet {
				fmt.Fprintf(w, "%s %s\n", noticeInfo("[..]"), n.Message)
			}
		}
	}

	if failed > 0 {
		return withHint(fmt.Errorf("%w: %d of the map documents", ErrFetchFailed, failed), hints.ForFetchFailure(baseURL))
	}
	if len(notices) == 0 && !quiet {
		fmt.Fprintln(w, "All map documents are already present.")
	}
	return nil
}
