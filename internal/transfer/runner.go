package transfer

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"
	"os/exec"
)

// Runner starts a downloader process, hands every output line to output and
// returns its exit code. err is non-nil only when the process could not be
// run at all.
type Runner interface {
	Run(ctx context.Context, name string, args []string, output func(line string)) (exitCode int, err error)
}

// ExecRunner runs downloaders as subprocesses.
type ExecRunner struct{}

// Run implements Runner. stdout and stderr are merged; curl's progress bar
// redraws with carriage returns, so both '\r' and '\n' end a line.
func (ExecRunner) Run(ctx context.Context, name string, args []string, output func(line string)) (int, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	pr, pw := io.Pipe()
	cmd.Stdout = pw
	cmd.Stderr = pw

	if err := cmd.Start(); err != nil {
		_ = pw.Close()
		_ = pr.Close()
		return -1, err
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		scanner := bufio.NewScanner(pr)
		scanner.Split(scanLines)
		for scanner.Scan() {
			if line := scanner.Text(); line != "" && output != nil {
				output(line)
			}
		}
		// Keep draining so the child never blocks on a full pipe.
		_, _ = io.Copy(io.Discard, pr)
	}()

	waitErr := cmd.Wait()
	_ = pw.Close()
	<-done

	if waitErr != nil {
		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) {
			return exitErr.ExitCode(), nil
		}
		return -1, waitErr
	}
	return 0, nil
}

// scanLines is bufio.ScanLines that also breaks on '\r'.
func scanLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		return i + 1, data[:i], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}
