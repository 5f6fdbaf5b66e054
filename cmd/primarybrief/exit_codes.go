package main

import (
	"errors"
	"os"

	primarybrief "github.com/alnah/go-primarybrief"
	"github.com/alnah/go-primarybrief/internal/config"
	"github.com/alnah/go-primarybrief/internal/logging"
	"github.com/alnah/go-primarybrief/internal/server"
)

// Exit codes for the primarybrief CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Command completed
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or validation
	ExitIO      = 3 // Missing assets, failed downloads, unwritable output
	ExitBrowser = 4 // Browser/Chrome errors
)

// exitCodeFor returns the exit code for err. Errors must be wrapped with
// %w for the checks to see through them.
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	if errors.Is(err, primarybrief.ErrBrowserConnect) ||
		errors.Is(err, primarybrief.ErrPageCreate) ||
		errors.Is(err, primarybrief.ErrPageLoad) ||
		errors.Is(err, primarybrief.ErrPDFGeneration) {
		return ExitBrowser
	}

	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrFetchFailed) ||
		errors.Is(err, ErrWriteOutput) ||
		errors.Is(err, primarybrief.ErrAssetMissing) ||
		errors.Is(err, server.ErrListen) {
		return ExitIO
	}

	if errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, logging.ErrInvalidLogLevel) ||
		errors.Is(err, primarybrief.ErrInvalidAssetPath) ||
		errors.Is(err, primarybrief.ErrTemplate) ||
		errors.Is(err, ErrUsage) {
		return ExitUsage
	}

	return ExitGeneral
}
