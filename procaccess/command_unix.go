//go:build !windows

package procaccess

// commandLine is the fixed greeting command the catalogue spawns.
func commandLine() []string {
	return []string{"/bin/sh", "-c", "echo Hello World!"}
}

// consumerLine is the command the pipeline variant pipes into.
func consumerLine() []string {
	return []string{"/bin/cat"}
}
