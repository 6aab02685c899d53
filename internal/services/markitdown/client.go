package markitdown

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// DefaultBinary is the executable name looked up on PATH when none is configured.
const DefaultBinary = "markitdown"

// Result captures a finished markitdown process.
type Result struct {
	ExitCode int
	Stdout   []byte
	Stderr   []byte
}

// Success reports whether the process exited with status zero.
func (r Result) Success() bool {
	return r.ExitCode == 0
}

// Executor abstracts command execution for testability. Run returns an error
// only when the process could not be started; a started process that exits
// non-zero is reported through Result.ExitCode.
type Executor interface {
	Run(ctx context.Context, binary string, args []string) (Result, error)
}

// Option configures the client.
type Option func(*Client)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) Option {
	return func(c *Client) {
		if exec != nil {
			c.exec = exec
		}
	}
}

// Client wraps markitdown CLI interactions.
type Client struct {
	binary string
	exec   Executor
}

// New constructs a markitdown client. An empty binary falls back to DefaultBinary.
func New(binary string, opts ...Option) *Client {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = DefaultBinary
	}
	client := &Client{
		binary: binary,
		exec:   commandExecutor{},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// Binary returns the configured executable.
func (c *Client) Binary() string {
	return c.binary
}

func convertArgs(inputPath, target, outputPath string) []string {
	return []string{inputPath, "--format", target, "-o", outputPath}
}

// Convert runs markitdown once for inputPath, writing target-formatted output
// to outputPath. The returned error is non-nil only when the process could not
// be started.
func (c *Client) Convert(ctx context.Context, inputPath, target, outputPath string) (Result, error) {
	return c.exec.Run(ctx, c.binary, convertArgs(inputPath, target, outputPath))
}

// Version runs `markitdown --version` and returns the trimmed output.
func (c *Client) Version(ctx context.Context) (string, error) {
	res, err := c.exec.Run(ctx, c.binary, []string{"--version"})
	if err != nil {
		return "", err
	}
	if !res.Success() {
		detail := strings.TrimSpace(string(res.Stderr))
		if detail == "" {
			detail = fmt.Sprintf("exit status %d", res.ExitCode)
		}
		return "", fmt.Errorf("%s --version: %s", c.binary, detail)
	}
	out := strings.TrimSpace(string(res.Stdout))
	if out == "" {
		out = strings.TrimSpace(string(res.Stderr))
	}
	return out, nil
}

type commandExecutor struct{}

func (commandExecutor) Run(ctx context.Context, binary string, args []string) (Result, error) {
	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		return Result{}, fmt.Errorf("start command: %w", err)
	}

	err := cmd.Wait()
	res := Result{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
			if res.ExitCode == 0 {
				res.ExitCode = -1
			}
			return res, nil
		}
		return res, fmt.Errorf("wait command: %w", err)
	}
	return res, nil
}
