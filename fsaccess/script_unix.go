//go:build !windows

package fsaccess

// scriptName is the platform script the catalogue executes.
const scriptName = "FileToExecute.sh"

// shellPrefix returns the shell invocation used by the shell variant.
func shellPrefix() []string {
	return []string{"/bin/sh"}
}

// consumerCommand returns the command the pipeline variant feeds
// script output into.
func consumerCommand() []string {
	return []string{"/bin/cat"}
}
