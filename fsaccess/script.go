package fsaccess

import (
	"bytes"
	"context"
	"os/exec"
	"path/filepath"

	"github.com/probelab/accessprobe/access"
	"github.com/probelab/accessprobe/internal/procutil"
	"github.com/probelab/accessprobe/validation"
)

const scriptMethods = 3

// ScriptCatalog demonstrates executing a script file. The script must
// exist and carry an execute permission bit.
type ScriptCatalog struct {
	path string
}

// NewScriptCatalog creates a script catalogue targeting the platform
// script under baseDir.
func NewScriptCatalog(baseDir string) *ScriptCatalog {
	return &ScriptCatalog{path: filepath.Join(baseDir, scriptName)}
}

func (c *ScriptCatalog) Name() string { return "fs.script" }

func (c *ScriptCatalog) Resources() []string { return []string{c.path} }

func (c *ScriptCatalog) MethodCount() int { return scriptMethods }

func (c *ScriptCatalog) Messages() access.Messages {
	return access.Messages{
		SuccessFormat: "Successfully executed path at %s",
		ResultFormat:  " Result: %s",
		FailureFormat: "Failed to execute path at %s for operation id %d",
	}
}

// AccessByID runs the script execution variant identified by id.
func (c *ScriptCatalog) AccessByID(ctx context.Context, id int) (string, error) {
	msgs := c.Messages()
	if !access.Supported(id, scriptMethods) {
		return msgs.Failure(c.path, id), nil
	}
	if !validation.Executable(c.path) {
		return msgs.Failure(c.path, id), nil
	}

	var payload string
	var err error
	switch id {
	case 1:
		payload, err = c.runDirect(ctx)
	case 2:
		payload, err = c.runViaShell(ctx)
	case 3:
		payload, err = c.runPiped(ctx)
	}
	if err != nil {
		return msgs.Failure(c.path, id), access.NewAccessFailedError(c.Name(), id, err)
	}
	return msgs.Success(c.path, payload), nil
}

// runDirect invokes the script binary itself.
func (c *ScriptCatalog) runDirect(ctx context.Context) (string, error) {
	cmd := exec.CommandContext(ctx, c.path)
	cmd.Env = procutil.MinimalEnv()
	out, err := cmd.CombinedOutput()
	if err != nil {
		return "", err
	}
	return procutil.FormatResult("exec.Command", 0, string(out), ""), nil
}

// runViaShell invokes the script through the platform shell.
func (c *ScriptCatalog) runViaShell(ctx context.Context) (string, error) {
	args := append(shellPrefix(), c.path)
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Env = procutil.MinimalEnv()
	out, err := cmd.CombinedOutput()
	if err != nil {
		return "", err
	}
	return procutil.FormatResult("shell", 0, string(out), ""), nil
}

// runPiped connects the script's stdout to a second consumer process.
func (c *ScriptCatalog) runPiped(ctx context.Context) (string, error) {
	producer := exec.CommandContext(ctx, c.path)
	producer.Env = procutil.MinimalEnv()
	pipe, err := producer.StdoutPipe()
	if err != nil {
		return "", err
	}

	args := consumerCommand()
	consumer := exec.CommandContext(ctx, args[0], args[1:]...)
	consumer.Env = procutil.MinimalEnv()
	consumer.Stdin = pipe
	var out bytes.Buffer
	consumer.Stdout = &out

	if err := producer.Start(); err != nil {
		return "", err
	}
	if err := consumer.Start(); err != nil {
		producer.Process.Kill()
		producer.Wait()
		return "", err
	}
	if err := producer.Wait(); err != nil && !procutil.IgnorableWaitError(err) {
		consumer.Wait()
		return "", err
	}
	if err := consumer.Wait(); err != nil {
		return "", err
	}
	return procutil.FormatResult("pipeline", consumer.ProcessState.ExitCode(), out.String(), ""), nil
}
