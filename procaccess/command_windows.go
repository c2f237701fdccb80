//go:build windows

package procaccess

// commandLine is the fixed greeting command the catalogue spawns.
func commandLine() []string {
	return []string{"cmd", "/c", "echo Hello World!"}
}

// consumerLine is the command the pipeline variant pipes into.
func consumerLine() []string {
	return []string{"cmd", "/c", "more"}
}
