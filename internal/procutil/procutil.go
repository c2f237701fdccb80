// Package procutil provides shared helpers for the process-spawning
// catalogues: result capture, exit code extraction, and the minimal
// environment handed to child processes.
package procutil

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// MinimalEnv returns the minimal safe environment for spawned commands.
func MinimalEnv() []string {
	return []string{
		"PATH=/usr/bin:/bin",
		"LANG=C.UTF-8",
		"LC_ALL=C.UTF-8",
	}
}

// MergeEnv merges base environment entries with overrides.
// Overrides take precedence.
func MergeEnv(base, override []string) []string {
	merged := make(map[string]string, len(base)+len(override))
	order := make([]string, 0, len(base)+len(override))

	add := func(entries []string) {
		for _, e := range entries {
			idx := strings.IndexByte(e, '=')
			if idx <= 0 {
				continue
			}
			key := e[:idx]
			if _, ok := merged[key]; !ok {
				order = append(order, key)
			}
			merged[key] = e[idx+1:]
		}
	}
	add(base)
	add(override)

	result := make([]string, 0, len(merged))
	for _, key := range order {
		result = append(result, fmt.Sprintf("%s=%s", key, merged[key]))
	}
	return result
}

// FormatResult formats a captured process outcome as
// "<prefix> exit=<code>[ stdout=<out>][ stderr=<err>]".
func FormatResult(prefix string, exitCode int, stdout, stderr string) string {
	var b strings.Builder
	b.WriteString(prefix)
	fmt.Fprintf(&b, " exit=%d", exitCode)

	if out := strings.TrimSpace(stdout); out != "" {
		b.WriteString(" stdout=")
		b.WriteString(out)
	}
	if errOut := strings.TrimSpace(stderr); errOut != "" {
		b.WriteString(" stderr=")
		b.WriteString(errOut)
	}
	return b.String()
}

// ExitCode extracts the exit code from a command error.
// A nil error yields zero; errors that are not *exec.ExitError yield -1.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}

// IgnorableWaitError reports whether err is a plain non-zero exit.
// The catalogues treat non-zero exits as captured results, not
// invocation failures.
func IgnorableWaitError(err error) bool {
	if err == nil {
		return true
	}
	var exitErr *exec.ExitError
	return errors.As(err, &exitErr)
}
