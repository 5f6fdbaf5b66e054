// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"net/url"
	"os"
	"strings"

	"github.com/alnah/go-primarybrief/internal/fileutil"
)

// IsInContainer detects if running inside a Docker container or similar.
// Checks for /.dockerenv file which Docker creates automatically.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// ForBrowserConnect returns hints for browser connection errors during PDF
// export. Detects CI/Docker environments and suggests the rod variables.
func ForBrowserConnect() string {
	var hints []string

	inCI := os.Getenv("CI") != "" ||
		os.Getenv("GITHUB_ACTIONS") != "" ||
		os.Getenv("GITLAB_CI") != "" ||
		os.Getenv("JENKINS_URL") != ""

	if (inCI || IsInContainer()) && os.Getenv("ROD_NO_SANDBOX") != "1" {
		hints = append(hints, "set ROD_NO_SANDBOX=1 for Docker/CI")
	}

	if os.Getenv("ROD_BROWSER_BIN") == "" {
		hints = append(hints, "set ROD_BROWSER_BIN to use custom Chrome")
	}

	return formatHints(hints)
}

// ForTimeout returns a hint about increasing the export timeout.
func ForTimeout() string {
	return format("large map documents take a while to paint; raise --timeout")
}

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config flag and creating a config in ~/.config/go-primarybrief/.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	for _, p := range searchedPaths {
		if strings.Contains(p, ".config/go-primarybrief") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForFetchFailure returns hints when release assets could not be downloaded.
func ForFetchFailure(baseURL string) string {
	hints := []string{"run 'primarybrief fetch' again once the network is back"}

	if u, err := url.Parse(baseURL); err == nil && u.Host != "" {
		hints = append([]string{"check that " + u.Host + " is reachable"}, hints...)
	}
	hints = append(hints, "or point --base-url at a mirror")

	return formatHints(hints)
}

// ForMissingAssets returns hints when catalogued files are absent locally.
func ForMissingAssets(assetsDir string) string {
	return format("run 'primarybrief fetch --assets-dir " + assetsDir + "' or copy the files there")
}

// ForAddressInUse returns hints when the server cannot bind its address.
func ForAddressInUse() string {
	return format("choose another address with --addr or PRIMARYBRIEF_ADDR")
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
