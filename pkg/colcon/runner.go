package colcon

import (
	"bufio"
	"context"
	"os/exec"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/colcontools/wsman/pkg/errors"
)

// LineFunc receives one line of build output. stderr reports which
// stream the line came from. It is called from reader goroutines, so
// implementations must be safe for concurrent use.
type LineFunc func(line string, stderr bool)

// Result describes a finished build.
type Result struct {
	JobID    string        `json:"job_id" bson:"job_id"`
	Packages []string      `json:"packages" bson:"packages"`
	ExitCode int           `json:"exit_code" bson:"exit_code"`
	Duration time.Duration `json:"duration" bson:"duration"`
	Canceled bool          `json:"canceled" bson:"canceled"`
}

// Runner executes colcon builds in a workspace.
type Runner struct {
	root string

	// execPath overrides the colcon binary, for tests.
	execPath string
}

// NewRunner creates a runner that builds in the given workspace root.
func NewRunner(root string) *Runner {
	return &Runner{root: root}
}

// Build runs colcon with the given options, streaming output lines to
// onLine as they arrive. Canceling the context kills the build; the
// partial result is still returned. A nil onLine discards output.
func (r *Runner) Build(ctx context.Context, opts BuildOptions, onLine LineFunc) (*Result, error) {
	args, err := opts.Args()
	if err != nil {
		return nil, err
	}
	if onLine == nil {
		onLine = func(string, bool) {}
	}

	result := &Result{
		JobID:    uuid.NewString(),
		Packages: opts.Packages,
	}

	name := args[0]
	if r.execPath != "" {
		name = r.execPath
	}
	cmd := exec.CommandContext(ctx, name, args[1:]...)
	cmd.Dir = r.root

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeBuildStart, err, "failed to open build stdout")
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeBuildStart, err, "failed to open build stderr")
	}

	start := time.Now()
	if err := cmd.Start(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeBuildStart, err, "failed to start build process")
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		scanner := bufio.NewScanner(stdout)
		for scanner.Scan() {
			onLine(scanner.Text(), false)
		}
	}()
	go func() {
		defer wg.Done()
		scanner := bufio.NewScanner(stderr)
		for scanner.Scan() {
			onLine(scanner.Text(), true)
		}
	}()

	// Drain both pipes before Wait closes them.
	wg.Wait()
	waitErr := cmd.Wait()
	result.Duration = time.Since(start)
	result.ExitCode = cmd.ProcessState.ExitCode()

	if ctx.Err() != nil {
		result.Canceled = true
		return result, errors.Wrap(errors.ErrCodeBuildStopped, ctx.Err(), "build canceled")
	}
	if waitErr != nil {
		return result, errors.Wrap(errors.ErrCodeBuildFailed, waitErr, "build failed with exit code %d", result.ExitCode)
	}
	return result, nil
}
