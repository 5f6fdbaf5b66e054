package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/alnah/go-primarybrief/internal/hints"
	"github.com/alnah/go-primarybrief/internal/server"
)

// runServe downloads missing maps and serves the report until interrupted.
func runServe(ctx context.Context, args []string, env *Environment) error {
	flags, err := parseServeFlags(args, env.Stderr)
	if err != nil {
		return err
	}

	cfg, err := loadSettings(&flags.common, env)
	if err != nil {
		return err
	}
	if flags.addr != "" {
		cfg.Server.Addr = flags.addr
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
		for _, n := range report.Notices() {
			logger.Info("asset notice", zap.Stringer("level", n.Level), zap.String("message", n.Message))
		}
	}

	srv := server.New(report,
		server.WithLogger(logger.Named("http")),
		server.WithAddr(cfg.Server.Addr),
		server.WithShutdownTimeout(cfg.Server.ShutdownTimeout),
	)

	if !flags.common.quiet {
		fmt.Fprintf(env.Stderr, "Serving report on http://%s (Ctrl+C to stop)\n", srv.Addr())
	}
	if err := srv.ListenAndServe(ctx); err != nil {
		return withHint(err, hints.ForAddressInUse())
	}
	return nil
}
