package procutil

import (
	"os/exec"
	"testing"
)

func TestFormatResult(t *testing.T) {
	tests := []struct {
		name     string
		prefix   string
		exitCode int
		stdout   string
		stderr   string
		want     string
	}{
		{
			name:     "stdout only",
			prefix:   "exec.CombinedOutput",
			exitCode: 0,
			stdout:   "Hello World!\n",
			want:     "exec.CombinedOutput exit=0 stdout=Hello World!",
		},
		{
			name:     "stdout and stderr",
			prefix:   "exec.Start+Wait",
			exitCode: 1,
			stdout:   "partial",
			stderr:   "boom",
			want:     "exec.Start+Wait exit=1 stdout=partial stderr=boom",
		},
		{
			name:     "no output",
			prefix:   "pipeline",
			exitCode: 0,
			want:     "pipeline exit=0",
		},
		{
			name:     "whitespace only output omitted",
			prefix:   "shell",
			exitCode: 0,
			stdout:   "  \n",
			stderr:   "\t",
			want:     "shell exit=0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatResult(tt.prefix, tt.exitCode, tt.stdout, tt.stderr)
			if got != tt.want {
				t.Errorf("FormatResult() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExitCode(t *testing.T) {
	if code := ExitCode(nil); code != 0 {
		t.Errorf("ExitCode(nil) = %d, want 0", code)
	}
	if code := ExitCode(exec.ErrNotFound); code != -1 {
		t.Errorf("ExitCode(ErrNotFound) = %d, want -1", code)
	}
}

func TestMergeEnv(t *testing.T) {
	base := []string{"PATH=/bin", "LANG=C"}
	override := []string{"LANG=C.UTF-8", "FOO=bar"}

	merged := MergeEnv(base, override)

	want := map[string]string{
		"PATH": "/bin",
		"LANG": "C.UTF-8",
		"FOO":  "bar",
	}
	if len(merged) != len(want) {
		t.Fatalf("MergeEnv() returned %d entries, want %d", len(merged), len(want))
	}
	for _, entry := range merged {
		for key, value := range want {
			if entry == key+"="+value {
				delete(want, key)
			}
		}
	}
	if len(want) != 0 {
		t.Errorf("MergeEnv() missing entries: %v", want)
	}
}
