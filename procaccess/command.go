// Package procaccess enumerates ways to start an operating system
// process through os/exec.
package procaccess

import (
	"bytes"
	"context"
	"os/exec"
	"strings"

	"github.com/probelab/accessprobe/access"
	"github.com/probelab/accessprobe/internal/procutil"
)

const commandMethods = 3

// CommandCatalog demonstrates spawning a fixed shell command through
// the os/exec variants. The command prints a greeting and exits zero.
type CommandCatalog struct{}

// NewCommandCatalog creates a command execution catalogue.
func NewCommandCatalog() *CommandCatalog { return &CommandCatalog{} }

// Name returns the catalogue name.
func (c *CommandCatalog) Name() string { return "proc.command" }

// Resources lists the command line each variant runs.
func (c *CommandCatalog) Resources() []string {
	return []string{strings.Join(commandLine(), " ")}
}

// MethodCount reports the number of supported spawn variants.
func (c *CommandCatalog) MethodCount() int { return commandMethods }

// Messages returns the command message templates.
func (c *CommandCatalog) Messages() access.Messages {
	return access.Messages{
		SuccessFormat: "Successfully executed command at %s",
		ResultFormat:  " Result: %s",
		FailureFormat: "Failed to execute command at %s for operation id %d",
	}
}

// AccessByID runs the spawn variant identified by id.
func (c *CommandCatalog) AccessByID(ctx context.Context, id int) (string, error) {
	msgs := c.Messages()
	resource := c.Resources()[0]
	if !access.Supported(id, commandMethods) {
		return msgs.Failure(resource, id), nil
	}

	var payload string
	var err error
	switch id {
	case 1:
		payload, err = c.runCombined(ctx)
	case 2:
		payload, err = c.runStartWait(ctx)
	case 3:
		payload, err = c.runPipeline(ctx)
	}
	if err != nil {
		return msgs.Failure(resource, id), access.NewAccessFailedError(c.Name(), id, err)
	}
	return msgs.Success(resource, payload), nil
}

// runCombined captures stdout and stderr in one call.
func (c *CommandCatalog) runCombined(ctx context.Context) (string, error) {
	args := commandLine()
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Env = procutil.MinimalEnv()
	out, err := cmd.CombinedOutput()
	if err != nil {
		return "", err
	}
	return procutil.FormatResult("exec.CombinedOutput", 0, string(out), ""), nil
}

// runStartWait wires explicit pipes and drives Start and Wait by hand.
func (c *CommandCatalog) runStartWait(ctx context.Context) (string, error) {
	args := commandLine()
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Env = procutil.MinimalEnv()

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		return "", err
	}
	if err := cmd.Wait(); err != nil && !procutil.IgnorableWaitError(err) {
		return "", err
	}
	code := cmd.ProcessState.ExitCode()
	return procutil.FormatResult("exec.Start+Wait", code, stdout.String(), stderr.String()), nil
}

// runPipeline feeds the greeting through a second consumer process.
func (c *CommandCatalog) runPipeline(ctx context.Context) (string, error) {
	args := commandLine()
	producer := exec.CommandContext(ctx, args[0], args[1:]...)
	producer.Env = procutil.MinimalEnv()
	pipe, err := producer.StdoutPipe()
	if err != nil {
		return "", err
	}

	cons := consumerLine()
	consumer := exec.CommandContext(ctx, cons[0], cons[1:]...)
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
	return procutil.FormatResult("exec.StdoutPipe", consumer.ProcessState.ExitCode(), out.String(), ""), nil
}
