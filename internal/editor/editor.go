// Package editor runs the user's text editor on a local file and waits for
// it to exit.
package editor

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// DefaultCommand is used when neither a configured editor nor $VISUAL or
// $EDITOR is set.
const DefaultCommand = "nvim"

// Editor opens a file for interactive editing.
type Editor interface {
	Edit(ctx context.Context, path string) error
}

// Runner executes a prepared command. Tests replace it.
type Runner func(cmd *exec.Cmd) error

// External launches an external editor process attached to the terminal.
type External struct {
	command string
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer
	run     Runner
}

// Option configures External.
type Option func(*External)

// WithStdio attaches the editor to the given streams.
func WithStdio(stdin io.Reader, stdout, stderr io.Writer) Option {
	return func(e *External) {
		e.stdin = stdin
		e.stdout = stdout
		e.stderr = stderr
	}
}

// WithRunner replaces the function that runs the editor process.
func WithRunner(run Runner) Option {
	return func(e *External) { e.run = run }
}

// New creates an External editor. command may include arguments, e.g.
// "code --wait"; when empty it is resolved with ResolveCommand.
func New(command string, opts ...Option) *External {
	e := &External{
		command: ResolveCommand(command),
		stdin:   os.Stdin,
		stdout:  os.Stdout,
		stderr:  os.Stderr,
		run:     (*exec.Cmd).Run,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ResolveCommand picks the editor: configured, then $VISUAL, then $EDITOR,
// then DefaultCommand.
func ResolveCommand(configured string) string {
	for _, c := range []string{configured, os.Getenv("VISUAL"), os.Getenv("EDITOR")} {
		if c = strings.TrimSpace(c); c != "" {
			return c
		}
	}
	return DefaultCommand
}

// Command returns the resolved editor command line.
func (e *External) Command() string {
	return e.command
}

// Edit runs the editor on path and blocks until it exits.
func (e *External) Edit(ctx context.Context, path string) error {
	fields := strings.Fields(e.command)
	if len(fields) == 0 {
		return fmt.Errorf("no editor configured")
	}

	args := append(fields[1:], path)
	cmd := exec.CommandContext(ctx, fields[0], args...)
	cmd.Stdin = e.stdin
	cmd.Stdout = e.stdout
	cmd.Stderr = e.stderr

	if err := e.run(cmd); err != nil {
		return fmt.Errorf("editor %s failed on %s: %w", fields[0], path, err)
	}
	return nil
}
