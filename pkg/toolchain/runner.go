// Package toolchain runs the external tools a package build leans on:
// the go tool inside the hermetic workspace, and dpkg / dpkg-query for
// file ownership and source version lookups. Everything goes through
// the Runner interface so the query layers can be tested against fakes.
package toolchain

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"

	"github.com/arthur-debert/gostage/pkg/errors"
	"github.com/arthur-debert/gostage/pkg/logging"
)

// Command describes one external tool invocation
type Command struct {
	Name string
	Args []string
	// Dir is the working directory, empty for the caller's
	Dir string
	// Env entries are appended to the inherited environment
	Env map[string]string
}

// Runner executes external commands
type Runner interface {
	// Output runs the command and returns its captured stdout. On
	// failure the stdout produced so far is still returned alongside
	// the error; some tools (dpkg --search) exit nonzero on partial
	// matches and their callers want the partial output.
	Output(ctx context.Context, cmd Command) (string, error)
	// Run runs the command with stdout and stderr streamed to the
	// caller's, for long compiles whose progress the user should see
	Run(ctx context.Context, cmd Command) error
}

// execRunner is the real Runner backed by os/exec
type execRunner struct{}

// NewRunner creates the standard subprocess runner
func NewRunner() Runner {
	return &execRunner{}
}

func (r *execRunner) Output(ctx context.Context, command Command) (string, error) {
	logging.LogCommand(command.Name, command.Args)

	cmd := exec.CommandContext(ctx, command.Name, command.Args...)
	applyCommand(cmd, command)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		return stdout.String(), errors.Wrapf(err, errors.ErrToolRun,
			"%s failed: %s", command.Name, stderr.String())
	}

	return stdout.String(), nil
}

func (r *execRunner) Run(ctx context.Context, command Command) error {
	logging.LogCommand(command.Name, command.Args)

	cmd := exec.CommandContext(ctx, command.Name, command.Args...)
	applyCommand(cmd, command)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return errors.Wrapf(err, errors.ErrToolRun, "%s failed", command.Name)
	}
	return nil
}

func applyCommand(cmd *exec.Cmd, command Command) {
	if command.Dir != "" {
		cmd.Dir = command.Dir
	}
	cmd.Env = os.Environ()
	for key, value := range command.Env {
		cmd.Env = append(cmd.Env, fmt.Sprintf("%s=%s", key, value))
	}
}
