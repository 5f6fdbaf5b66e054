package main

import (
	"errors"
	"fmt"
	"io"

	flag "github.com/spf13/pflag"
)

// ErrUsage marks invalid command-line usage.
var ErrUsage = errors.New("invalid usage")

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config    string
	quiet     bool
	verbose   bool
	assetsDir string
	logLevel  string
	baseURL   string
}

// serveFlags holds flags for the serve command.
type serveFlags struct {
	common  commonFlags
	addr    string
	noFetch bool
}

// fetchFlags holds flags for the fetch command.
type fetchFlags struct {
	common commonFlags
}

// exportFlags holds flags for the export command.
type exportFlags struct {
	common    commonFlags
	output    string
	pdf       bool
	landscape bool
	noFetch   bool
	timeout   string
	date      string
	noDate    bool
}

// doctorFlags holds flags for the doctor command.
type doctorFlags struct {
	common commonFlags
	json   bool
}

// configFlags holds flags for the config command.
type configFlags struct {
	common commonFlags
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "debug logging")
	fs.StringVar(&f.assetsDir, "assets-dir", "", "directory holding maps, images and spreadsheets")
	fs.StringVar(&f.logLevel, "log-level", "", "log level: debug, info, warn, error")
	fs.StringVar(&f.baseURL, "base-url", "", "release origin for missing map documents")
}

// newFlagSet creates a FlagSet that reports errors instead of exiting.
func newFlagSet(name string, stderr io.Writer, usage func(io.Writer)) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { usage(stderr) }
	return fs
}

// parseArgs parses args and rejects positional arguments.
func parseArgs(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("%w: unexpected argument %q", ErrUsage, fs.Arg(0))
	}
	return nil
}

func parseServeFlags(args []string, stderr io.Writer) (*serveFlags, error) {
	f := &serveFlags{}
	fs := newFlagSet("serve", stderr, printServeUsage)
	addCommonFlags(fs, &f.common)
	fs.StringVar(&f.addr, "addr", "", "listen address (host:port)")
	fs.BoolVar(&f.noFetch, "no-fetch", false, "do not download missing maps before serving")
	return f, parseArgs(fs, args)
}

func parseFetchFlags(args []string, stderr io.Writer) (*fetchFlags, error) {
	f := &fetchFlags{}
	fs := newFlagSet("fetch", stderr, printFetchUsage)
	addCommonFlags(fs, &f.common)
	return f, parseArgs(fs, args)
}

func parseExportFlags(args []string, stderr io.Writer) (*exportFlags, error) {
	f := &exportFlags{}
	fs := newFlagSet("export", stderr, printExportUsage)
	addCommonFlags(fs, &f.common)
	fs.StringVarP(&f.output, "output", "o", "", "output file (\"-\" for stdout)")
	fs.BoolVar(&f.pdf, "pdf", false, "print to PDF with headless Chrome")
	fs.BoolVar(&f.landscape, "landscape", false, "landscape PDF pages")
	fs.BoolVar(&f.noFetch, "no-fetch", false, "do not download missing maps first")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "PDF export timeout (e.g., 30s, 2m)")
	fs.StringVar(&f.date, "date", "", "footer date: text, auto or auto:FORMAT")
	fs.BoolVar(&f.noDate, "no-date", false, "omit the footer date")
	return f, parseArgs(fs, args)
}

func parseDoctorFlags(args []string, stderr io.Writer) (*doctorFlags, error) {
	f := &doctorFlags{}
	fs := newFlagSet("doctor", stderr, printDoctorUsage)
	addCommonFlags(fs, &f.common)
	fs.BoolVar(&f.json, "json", false, "machine-readable output")
	return f, parseArgs(fs, args)
}

func parseConfigFlags(args []string, stderr io.Writer) (*configFlags, error) {
	f := &configFlags{}
	fs := newFlagSet("config", stderr, printConfigUsage)
	addCommonFlags(fs, &f.common)
	return f, parseArgs(fs, args)
}
