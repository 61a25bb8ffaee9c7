package task

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/kanzihuang/shellexec/pkg/shell"
	"github.com/kanzihuang/shellexec/pkg/task"
)

type Activities struct {
	hostTaskQueue string
}

func NewActivities(hostTaskQueue string) *Activities {
	return &Activities{
		hostTaskQueue: hostTaskQueue,
	}
}

func (a Activities) Begin(_ context.Context, _ task.BeginInput) (task.BeginOutput, error) {
	sessionDir, err := os.MkdirTemp(os.TempDir(), a.hostTaskQueue+"-")
	if err != nil {
		return task.BeginOutput{}, err
	}
	return task.BeginOutput{
		HostTaskQueue: a.hostTaskQueue,
		SessionDir:    sessionDir,
	}, nil
}

func (a Activities) End(_ context.Context, input task.EndInput) (task.EndOutput, error) {
	if err := a.matchSessionDir(input.SessionDir); err != nil {
		return task.EndOutput{}, err
	}
	if err := os.RemoveAll(input.SessionDir); err != nil {
		return task.EndOutput{}, err
	}
	return task.EndOutput{}, nil
}

// ReadFile read file with temporal, and return error "blob too large" if file size is greater than task.BlobSizeMax
func (a Activities) ReadFile(_ context.Context, input task.ReadFileInput) (task.ReadFileOutput, error) {
	if err := a.matchSessionDir(input.SessionDir); err != nil {
		return task.ReadFileOutput{}, err
	}
	f, err := os.Open(filepath.Join(input.SessionDir, input.FileName))
	if err != nil {
		return task.ReadFileOutput{}, err
	}
	defer func(f *os.File) {
		_ = f.Close()
	}(f)

	data, err := io.ReadAll(io.LimitReader(f, task.BlobSizeMax+1))
	if err != nil {
		return task.ReadFileOutput{}, err
	}
	if len(data) > task.BlobSizeMax {
		return task.ReadFileOutput{}, task.ErrBlobTooLarge
	}
	return task.ReadFileOutput{
		Data: data,
	}, nil
}

func (a Activities) matchSessionDir(dir string) error {
	matched, err := filepath.Match(filepath.Join(os.TempDir(), a.hostTaskQueue+"-*"), dir)
	if err != nil {
		return err
	}
	if !matched {
		return errors.New("invalid session directory")
	}
	return nil
}

// capture accumulates the chunks the engine delivers for one stream. No
// locking needed: the engine serializes handler calls, and the buffer is
// only read after the run has finished.
type capture struct {
	buf bytes.Buffer
}

func (c *capture) OnChunk(chunk []byte) {
	c.buf.Write(chunk)
}

type runResult struct {
	output string
	err    error
}

// BuildCommand returns an activity that expands input arguments into
// originCommand and runs it through the execution engine. Streams that are
// not captured for the caller pass through to the worker's own stdout and
// stderr, as with a plain shell invocation.
func BuildCommand(originCommand string) func(ctx context.Context, input task.Input) (task.Output, error) {
	return func(ctx context.Context, input task.Input) (task.Output, error) {
		command := os.Expand(originCommand, func(s string) string {
			return "'" + input.Args[s] + "'"
		})

		var timeout time.Duration
		if input.Timeout != "" {
			var err error
			timeout, err = time.ParseDuration(input.Timeout)
			if err != nil {
				return task.Output{Command: command}, err
			}
		}

		sh := shell.New(shell.Config{})
		var stdout, stderr capture
		if input.WithStdout {
			sh.StdoutHandler = &stdout
		} else {
			sh.StdoutHandler = &shell.FileHandler{File: os.Stdout}
		}
		if input.WithStderr {
			sh.StderrHandler = &stderr
		} else {
			sh.StderrHandler = &shell.FileHandler{File: os.Stderr}
		}

		resCh := make(chan runResult, 1)
		sh.RunAsync(command, timeout, func(output string, err error) {
			resCh <- runResult{output: output, err: err}
		})
		var res runResult
		select {
		case res = <-resCh:
		case <-ctx.Done():
			sh.Terminate()
			res = <-resCh
		}

		output := task.Output{Command: command}
		if input.WithStdout {
			output.StdoutData = stdout.buf.Bytes()
		}
		if input.WithStderr {
			output.StderrData = stderr.buf.Bytes()
		}
		if len(output.StdoutData) > task.BlobSizeMax {
			return task.Output{Command: command}, fmt.Errorf("stdout data is too large: %w", task.ErrBlobTooLarge)
		}
		if len(output.StderrData) > task.BlobSizeMax {
			return task.Output{Command: command}, fmt.Errorf("stderr data is too large: %w", task.ErrBlobTooLarge)
		}

		var exitErr *shell.ExitError
		switch {
		case res.err == nil, errors.Is(res.err, shell.ErrEmptyOutput):
			// A clean exit with undecodable stdout is still a success at
			// this boundary; the raw bytes travel as-is.
			return output, nil
		case errors.As(res.err, &exitErr):
			output.ExitCode = exitErr.Code
			return output, nil
		default:
			output.ExitCode = 1
			return output, res.err
		}
	}
}
