package runtime

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// Output captures the result of a command execution.
type Output struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// ExitError is returned when a tool ran but exited with a non-zero status.
type ExitError struct {
	Command string
	Output  *Output
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("%s exited with status %d", e.Command, e.Output.ExitCode)
}

// ErrToolNotFound is returned when a tool is neither installed locally in
// node_modules/.bin nor on PATH.
var ErrToolNotFound = errors.New("tool not found")

// Runner executes tools inside a project directory.
type Runner struct {
	// Stdout and Stderr can be set for testing; defaults to os.Stdout/os.Stderr.
	Stdout io.Writer
	Stderr io.Writer
	Log    zerolog.Logger
}

// Run executes name with args in dir. A non-zero exit is reported through
// Output.ExitCode, not as an error.
func (r *Runner) Run(ctx context.Context, dir, name string, args ...string) (*Output, error) {
	bin, err := lookTool(dir, name)
	if err != nil {
		return nil, err
	}

	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Dir = dir
	cmd.Env = setEnv(os.Environ(), "PATH", localBin(dir)+string(os.PathListSeparator)+os.Getenv("PATH"))

	stdout := r.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}
	stderr := r.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}

	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = io.MultiWriter(stdout, &stdoutBuf)
	cmd.Stderr = io.MultiWriter(stderr, &stderrBuf)

	r.Log.Debug().Str("dir", dir).Str("bin", bin).Strs("args", args).Msg("running tool")

	err = cmd.Run()

	output := &Output{
		Stdout: stdoutBuf.String(),
		Stderr: stderrBuf.String(),
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			output.ExitCode = exitErr.ExitCode()
			return output, nil
		}
		return output, fmt.Errorf("executing %s: %w", name, err)
	}

	return output, nil
}

// run is Run with a non-zero exit turned into an *ExitError.
func (r *Runner) run(ctx context.Context, dir, name string, args ...string) error {
	out, err := r.Run(ctx, dir, name, args...)
	if err != nil {
		return err
	}
	if out.ExitCode != 0 {
		return &ExitError{Command: strings.Join(append([]string{name}, args...), " "), Output: out}
	}
	return nil
}

func localBin(dir string) string {
	return filepath.Join(dir, "node_modules", ".bin")
}

// lookTool prefers the project-local binary over the one on PATH.
func lookTool(dir, name string) (string, error) {
	local := filepath.Join(localBin(dir), name)
	if info, err := os.Stat(local); err == nil && !info.IsDir() {
		return local, nil
	}
	bin, err := exec.LookPath(name)
	if err != nil {
		return "", fmt.Errorf("%s: %w", name, ErrToolNotFound)
	}
	return bin, nil
}

// setEnv sets or replaces an environment variable in the env slice.
func setEnv(env []string, key, value string) []string {
	prefix := key + "="
	for i, e := range env {
		if strings.HasPrefix(e, prefix) {
			env[i] = prefix + value
			return env
		}
	}
	return append(env, prefix+value)
}
