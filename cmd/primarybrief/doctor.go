package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/go-rod/rod/lib/launcher"
	flag "github.com/spf13/pflag"

	primarybrief "github.com/alnah/go-primarybrief"
	"github.com/alnah/go-primarybrief/internal/hints"
)

// Doctor statuses.
const (
	statusReady    = "ready"
	statusWarnings = "warnings"
	statusErrors   = "errors"
)

// lookPath locates Chrome. Tests replace it.
var lookPath = launcher.LookPath

// chromeVersionTimeout bounds "chrome --version".
const chromeVersionTimeout = 5 * time.Second

// doctorResult holds all diagnostic information.
type doctorResult struct {
	Status   string     `json:"status"`
	Assets   assetsInfo `json:"assets"`
	Chrome   chromeInfo `json:"chrome"`
	Env      envInfo    `json:"environment"`
	System   systemInfo `json:"system"`
	Warnings []string   `json:"warnings,omitempty"`
	Errors   []string   `json:"errors,omitempty"`
}

// assetsInfo holds the local presence of catalogued files.
type assetsInfo struct {
	Dir     string      `json:"dir"`
	BaseURL string      `json:"base_url"`
	Files   []assetInfo `json:"files"`
	Missing int         `json:"missing"`
}

type assetInfo struct {
	Path    string `json:"path"`
	Kind    string `json:"kind"`
	Remote  bool   `json:"remote"`
	Present bool   `json:"present"`
	Size    int64  `json:"size,omitempty"`
}

// chromeInfo holds Chrome/Chromium detection results. Chrome is only
// needed for PDF export.
type chromeInfo struct {
	Found   bool   `json:"found"`
	Path    string `json:"path,omitempty"`
	Version string `json:"version,omitempty"`
}

// envInfo holds environment detection results.
type envInfo struct {
	OS            string `json:"os"`
	Arch          string `json:"arch"`
	Container     bool   `json:"container"`
	ContainerHint string `json:"container_hint,omitempty"`
	CI            bool   `json:"ci"`
	NoSandbox     string `json:"rod_no_sandbox"`
	BrowserBin    string `json:"rod_browser_bin"`
}

// systemInfo holds system check results.
type systemInfo struct {
	TempWritable bool `json:"temp_writable"`
}

// runDoctorCmd executes the doctor command and returns an exit code.
// Exit codes: 0 = ready or warnings, 1 = errors found, 2 = bad usage.
func runDoctorCmd(ctx context.Context, args []string, env *Environment) int {
	flags, err := parseDoctorFlags(args, env.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return ExitSuccess
	}
	if err != nil {
		fmt.Fprintf(env.Stderr, "error: %v\n", err)
		return ExitUsage
	}

	cfg, err := loadSettings(&flags.common, env)
	if err != nil {
		fmt.Fprintf(env.Stderr, "error: %v\n", err)
		return exitCodeFor(err)
	}

	logger, err := newLogger(cfg, env)
	if err != nil {
		fmt.Fprintf(env.Stderr, "error: %v\n", err)
		return exitCodeFor(err)
	}
	report, err := newReport(cfg, logger)
	if err != nil {
		fmt.Fprintf(env.Stderr, "error: %v\n", err)
		return exitCodeFor(err)
	}
	defer func() { _ = report.Close() }()

	result := runDoctor(ctx, report, cfg.Remote.BaseURL, env.Getenv)

	if flags.json {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
	} else {
		printDoctorResult(env.Stdout, result)
	}

	if result.Status == statusErrors {
		return ExitGeneral
	}
	return ExitSuccess
}

// runDoctor performs all diagnostic checks.
func runDoctor(ctx context.Context, report *primarybrief.Report, baseURL string, getenv func(string) string) *doctorResult {
	result := &doctorResult{
		Status: statusReady,
		Env: envInfo{
			OS:         runtime.GOOS,
			Arch:       runtime.GOARCH,
			NoSandbox:  getenv("ROD_NO_SANDBOX"),
			BrowserBin: getenv("ROD_BROWSER_BIN"),
		},
	}

	checkAssets(result, report, baseURL)
	checkChrome(ctx, result)
	checkEnvironment(result, getenv)
	checkSystem(result)

	if len(result.Errors) > 0 {
		result.Status = statusErrors
	} else if len(result.Warnings) > 0 {
		result.Status = statusWarnings
	}
	return result
}

// checkAssets records which catalogued files are present.
func checkAssets(result *doctorResult, report *primarybrief.Report, baseURL string) {
	result.Assets.Dir = report.AssetsDir()
	result.Assets.BaseURL = baseURL

	var missingLocal []string
	missingRemote := 0
	for _, st := range report.Status() {
		result.Assets.Files = append(result.Assets.Files, assetInfo{
			Path:    st.Asset.Path,
			Kind:    st.Asset.Kind.String(),
			Remote:  st.Asset.Remote,
			Present: st.Present,
			Size:    st.Size,
		})
		if st.Present {
			continue
		}
		result.Assets.Missing++
		if st.Asset.Remote {
			missingRemote++
		} else {
			missingLocal = append(missingLocal, st.Asset.Path)
		}
	}

	if missingRemote > 0 {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("%d map document(s) missing; they are downloaded on serve, export or fetch", missingRemote))
	}
	if len(missingLocal) > 0 {
		result.Warnings = append(result.Warnings,
			"Missing files: "+strings.Join(missingLocal, ", ")+"; "+strings.TrimPrefix(hints.ForMissingAssets(result.Assets.Dir), "\n  hint: "))
	}
}

// checkChrome detects Chrome/Chromium installation.
func checkChrome(ctx context.Context, result *doctorResult) {
	chromePath := result.Env.BrowserBin

	if chromePath == "" {
		var found bool
		chromePath, found = lookPath()
		if !found {
			result.Warnings = append(result.Warnings,
				"Chrome/Chromium not found; PDF export will download one. Install Chrome or set ROD_BROWSER_BIN")
			return
		}
	}

	if _, err := os.Stat(chromePath); err != nil {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Chrome not found at %s", chromePath))
		return
	}

	result.Chrome.Found = true
	result.Chrome.Path = chromePath

	ctx, cancel := context.WithTimeout(ctx, chromeVersionTimeout)
	defer cancel()
	out, err := exec.CommandContext(ctx, chromePath, "--version").Output() // #nosec G204 -- located browser binary
	if err == nil {
		result.Chrome.Version = strings.TrimSpace(string(out))
	} else {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Could not get Chrome version: %v", err))
	}
}

// checkEnvironment detects container and CI environments.
func checkEnvironment(result *doctorResult, getenv func(string) string) {
	result.Env.Container, result.Env.ContainerHint = isContainer(getenv)

	for _, v := range []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI"} {
		if getenv(v) != "" {
			result.Env.CI = true
			break
		}
	}

	if (result.Env.Container || result.Env.CI) && result.Env.NoSandbox != "1" {
		result.Warnings = append(result.Warnings,
			"Container/CI detected but ROD_NO_SANDBOX not set. Set ROD_NO_SANDBOX=1 for PDF export")
	}
}

// isContainer detects if running in a container environment.
// Returns (isContainer, hint) where hint names the signal detected.
func isContainer(getenv func(string) string) (bool, string) {
	if getenv("PRIMARYBRIEF_CONTAINER") == "1" {
		return true, "PRIMARYBRIEF_CONTAINER=1"
	}
	if hints.IsInContainer() {
		return true, "/.dockerenv"
	}
	if v := getenv("container"); v != "" {
		return true, "container=" + v
	}
	if getenv("KUBERNETES_SERVICE_HOST") != "" {
		return true, "KUBERNETES_SERVICE_HOST"
	}
	return false, ""
}

// checkSystem verifies the temp directory used by PDF export is writable.
func checkSystem(result *doctorResult) {
	tmpDir := os.TempDir()
	testFile := filepath.Join(tmpDir, "primarybrief-doctor-test")
	if err := os.WriteFile(testFile, []byte("test"), 0o600); err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Temp directory not writable: %s", tmpDir))
		return
	}
	_ = os.Remove(testFile)
	result.System.TempWritable = true
}

var (
	markOK    = color.New(color.FgGreen).Sprint("[OK]")
	markWarn  = color.New(color.FgYellow).Sprint("[WARN]")
	markError = color.New(color.FgRed, color.Bold).Sprint("[ERROR]")
	markMiss  = color.New(color.FgYellow).Sprint("[MISSING]")
)

// printDoctorResult outputs human-readable diagnostic results.
func printDoctorResult(w io.Writer, r *doctorResult) {
	fmt.Fprintln(w, "primarybrief doctor")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Assets")
	fmt.Fprintf(w, "  %s Directory: %s\n", markOK, r.Assets.Dir)
	for _, f := range r.Assets.Files {
		if f.Present {
			fmt.Fprintf(w, "  %s %s (%s, %d bytes)\n", markOK, f.Path, f.Kind, f.Size)
		} else {
			fmt.Fprintf(w, "  %s %s (%s)\n", markMiss, f.Path, f.Kind)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Chrome/Chromium (PDF export)")
	if r.Chrome.Found {
		fmt.Fprintf(w, "  %s Found at %s\n", markOK, r.Chrome.Path)
		if r.Chrome.Version != "" {
			fmt.Fprintf(w, "  %s Version: %s\n", markOK, r.Chrome.Version)
		}
	} else {
		fmt.Fprintf(w, "  %s Not found\n", markWarn)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Environment")
	fmt.Fprintf(w, "  %s Platform: %s/%s\n", markOK, r.Env.OS, r.Env.Arch)
	if r.Env.Container {
		fmt.Fprintf(w, "  %s Container: detected (%s)\n", markOK, r.Env.ContainerHint)
	}
	if r.Env.CI {
		fmt.Fprintf(w, "  %s CI: detected\n", markOK)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "System")
	if r.System.TempWritable {
		fmt.Fprintf(w, "  %s Temp directory: writable\n", markOK)
	} else {
		fmt.Fprintf(w, "  %s Temp directory: not writable\n", markError)
	}
	fmt.Fprintln(w)

	if len(r.Warnings) > 0 {
		fmt.Fprintln(w, "Warnings:")
		for _, warn := range r.Warnings {
			fmt.Fprintf(w, "  %s %s\n", markWarn, warn)
		}
		fmt.Fprintln(w)
	}

	if len(r.Errors) > 0 {
		fmt.Fprintln(w, "Errors:")
		for _, err := range r.Errors {
			fmt.Fprintf(w, "  %s %s\n", markError, err)
		}
		fmt.Fprintln(w)
	}

	switch r.Status {
	case statusReady:
		fmt.Fprintln(w, "Status: Ready to serve")
	case statusWarnings:
		fmt.Fprintln(w, "Status: Ready with warnings")
	case statusErrors:
		fmt.Fprintln(w, "Status: Not ready (see errors above)")
	}
}
