package source

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	apperrors "github.com/cloudydeno/module-visualizer/pkg/errors"
)

// Source returns the raw graph report of a module.
type Source interface {
	Fetch(ctx context.Context, moduleURL string) ([]byte, error)
}

// Result is the outcome of one finished command.
type Result struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
}

// Runner executes a command to completion.
type Runner interface {
	Run(ctx context.Context, name string, args, env []string) (Result, error)
}

// ExecRunner runs commands with os/exec. Stdin is closed.
type ExecRunner struct{}

// Run starts the command and waits for it. A non-zero exit is reported in
// Result.ExitCode, not as an error.
func (ExecRunner) Run(ctx context.Context, name string, args, env []string) (Result, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Env = append(os.Environ(), env...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := Result{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		res.ExitCode = exitErr.ExitCode()
		return res, nil
	}
	return res, err
}

// ProcessError describes a subprocess that exited unsuccessfully.
type ProcessError struct {
	Label      string
	CmdLine    []string
	ExitCode   int
	FoundError string
}

func (e *ProcessError) Error() string {
	detail := e.FoundError
	if detail == "" {
		detail = fmt.Sprintf("exit code %d", e.ExitCode)
	}
	return fmt.Sprintf("subprocess %q (%s) failed with %s", e.Label, strings.Join(e.CmdLine, " "), detail)
}

// AsProcessError returns the ProcessError in err's chain, if any.
func AsProcessError(err error) (*ProcessError, bool) {
	var pe *ProcessError
	ok := errors.As(err, &pe)
	return pe, ok
}

var denoErrorPrefix = regexp.MustCompile(`^error: `)

// DenoInfo fetches reports by running `deno info --json`.
type DenoInfo struct {
	// Binary is the deno executable. Empty means "deno" on PATH.
	Binary string
	// Timeout bounds a single run. Zero means no limit beyond ctx.
	Timeout time.Duration
	Runner  Runner
	Logger  *log.Logger
}

// NewDenoInfo returns a DenoInfo using os/exec.
func NewDenoInfo(binary string, timeout time.Duration, logger *log.Logger) *DenoInfo {
	return &DenoInfo{Binary: binary, Timeout: timeout, Runner: ExecRunner{}, Logger: logger}
}

// Fetch runs deno info for moduleURL and returns its JSON output.
func (d *DenoInfo) Fetch(ctx context.Context, moduleURL string) ([]byte, error) {
	binary := d.Binary
	if binary == "" {
		binary = "deno"
	}
	runner := d.Runner
	if runner == nil {
		runner = ExecRunner{}
	}
	logger := d.Logger
	if logger == nil {
		logger = log.Default()
	}
	if d.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.Timeout)
		defer cancel()
	}

	args := []string{"info", "--json", "--", moduleURL}
	cmdLine := append([]string{binary}, args...)
	logger.Debug("running", "cmd", strings.Join(cmdLine, " "))

	res, err := runner.Run(ctx, binary, args, []string{"NO_COLOR=1"})
	if ctxErr := ctx.Err(); ctxErr != nil {
		if errors.Is(ctxErr, context.DeadlineExceeded) {
			return nil, apperrors.Wrap(apperrors.ErrCodeTimeout, ctxErr, "deno info %s", moduleURL)
		}
		return nil, ctxErr
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, err, "start %s", binary)
	}

	stderr := splitLines(res.Stderr)
	for _, line := range stderr {
		logger.Debug("download: " + line)
	}
	if res.ExitCode != 0 {
		pe := &ProcessError{Label: "download", CmdLine: cmdLine, ExitCode: res.ExitCode}
		for _, line := range stderr {
			if denoErrorPrefix.MatchString(line) {
				pe.FoundError = line
				break
			}
		}
		return nil, apperrors.Wrap(apperrors.ErrCodeUpstreamFailed, pe, "deno info %s", moduleURL)
	}

	if len(res.Stdout) == 0 || res.Stdout[0] != '{' {
		return nil, apperrors.New(apperrors.ErrCodeBadUpstream, "expected JSON from %q", strings.Join(cmdLine, " "))
	}
	return res.Stdout, nil
}

// splitLines splits stderr on newlines with no limit on line length.
func splitLines(b []byte) []string {
	b = bytes.TrimRight(b, "\r\n")
	if len(b) == 0 {
		return nil
	}
	parts := bytes.Split(b, []byte("\n"))
	lines := make([]string, len(parts))
	for i, p := range parts {
		lines[i] = string(bytes.TrimSuffix(p, []byte("\r")))
	}
	return lines
}

var _ Source = (*DenoInfo)(nil)
