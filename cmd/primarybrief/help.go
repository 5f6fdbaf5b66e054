package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: primarybrief <command> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  serve      Serve the interactive report")
	fmt.Fprintln(w, "  fetch      Download missing map documents")
	fmt.Fprintln(w, "  export     Write the report as standalone HTML or PDF")
	fmt.Fprintln(w, "  doctor     Check assets and PDF prerequisites")
	fmt.Fprintln(w, "  config     Print the effective configuration")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'primarybrief help <command>' for details on a specific command.")
}

// printCommonUsage prints the flags every command accepts.
func printCommonUsage(w io.Writer) {
	fmt.Fprintln(w, "Common:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "      --assets-dir <dir>    Maps, images and spreadsheets (default \".\")")
	fmt.Fprintln(w, "      --base-url <url>      Release origin for missing maps")
	fmt.Fprintln(w, "      --log-level <level>   debug, info, warn, error")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Debug logging")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment: PRIMARYBRIEF_CONFIG, PRIMARYBRIEF_ASSETS_DIR, PRIMARYBRIEF_OVERRIDES,")
	fmt.Fprintln(w, "PRIMARYBRIEF_ADDR, PRIMARYBRIEF_BASE_URL, PRIMARYBRIEF_LOG_LEVEL,")
	fmt.Fprintln(w, "PRIMARYBRIEF_FETCH_TIMEOUT, PRIMARYBRIEF_EXPORT_TIMEOUT, PRIMARYBRIEF_MINIFY")
}

func printServeUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: primarybrief serve [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Download missing maps, then serve the report until interrupted.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Server:")
	fmt.Fprintln(w, "      --addr <host:port>    Listen address (default 127.0.0.1:8501)")
	fmt.Fprintln(w, "      --no-fetch            Serve without downloading missing maps")
	fmt.Fprintln(w)
	printCommonUsage(w)
}

func printFetchUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: primarybrief fetch [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Download missing map documents into the assets directory.")
	fmt.Fprintln(w, "Files already present are never downloaded again.")
	fmt.Fprintln(w)
	printCommonUsage(w)
}

func printExportUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: primarybrief export [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Write the report as a single HTML file with images and CSV downloads inlined,")
	fmt.Fprintln(w, "or print it to PDF with headless Chrome.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output:")
	fmt.Fprintln(w, "  -o, --output <path>       Output file, \"-\" for stdout")
	fmt.Fprintln(w, "      --pdf                 Print to PDF")
	fmt.Fprintln(w, "      --landscape           Landscape PDF pages")
	fmt.Fprintln(w, "  -t, --timeout <d>         PDF export timeout (e.g., 30s, 2m)")
	fmt.Fprintln(w, "      --date <value>        Footer date: text, auto, auto:long, auto:DD/MM/YYYY")
	fmt.Fprintln(w, "      --no-date             Omit the footer date")
	fmt.Fprintln(w, "      --no-fetch            Export without downloading missing maps")
	fmt.Fprintln(w)
	printCommonUsage(w)
}

func printDoctorUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: primarybrief doctor [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Check that assets are present and that PDF export can find Chrome.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "      --json                Machine-readable output")
	fmt.Fprintln(w)
	printCommonUsage(w)
}

func printConfigUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: primarybrief config [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Print the effective configuration as YAML.")
	fmt.Fprintln(w)
	printCommonUsage(w)
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) int {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return ExitSuccess
	}

	switch args[0] {
	case "serve":
		printServeUsage(env.Stdout)
	case "fetch":
		printFetchUsage(env.Stdout)
	case "export":
		printExportUsage(env.Stdout)
	case "doctor":
		printDoctorUsage(env.Stdout)
	case "config":
		printConfigUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: primarybrief version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: primarybrief help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
		return ExitUsage
	}
	return ExitSuccess
}
