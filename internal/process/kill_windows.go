//go:build windows

// Package process stops the headless browser started for PDF export,
// including the helper processes it forks.
package process

import (
	"os/exec"
	"strconv"
)

// KillGroup terminates pid and its child processes with taskkill.
// Non-positive pids are ignored.
func KillGroup(pid int) {
	if pid <= 0 {
		return
	}
	// /F forces, /T includes the tree. Best effort.
	_ = exec.Command("taskkill", "/F", "/T", "/PID", strconv.Itoa(pid)).Run()
}
