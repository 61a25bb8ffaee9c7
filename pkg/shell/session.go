package shell

import (
	"errors"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"
	"syscall"
	"time"
)

const chunkSize = 4096

// session owns one end-to-end execution of a single command. All shared
// state (accumulators, fault, launch flag) is guarded by one mutex, shared
// with both aggregators, so no drain goroutine is still writing when the
// final result is read.
type session struct {
	command      string
	interpreter  string
	env          map[string]string
	timeout      time.Duration
	pollInterval time.Duration

	mu       sync.Mutex
	stdout   *aggregator
	stderr   *aggregator
	cmd      *exec.Cmd
	launched bool
	fault    error
	exitCode int
}

func newSession(sh *Shell, command string, timeout time.Duration) *session {
	s := &session{
		command:      command,
		interpreter:  sh.Interpreter,
		env:          sh.Env,
		timeout:      timeout,
		pollInterval: sh.PollInterval,
	}
	s.stdout = &aggregator{mu: &s.mu, handler: sh.StdoutHandler}
	s.stderr = &aggregator{mu: &s.mu, handler: sh.StderrHandler}
	return s
}

// run drives the session: launch, drain both streams, supervise the
// timeout, wait for exit, assemble the result. Faults from the
// process-control layer never abort steps that already ran; the first fault
// recorded is the one reported.
func (s *session) run() (exitCode int, stdout, stderr []byte, fault error) {
	defer s.release()

	cmd := exec.Command(s.interpreter, "-c", s.command)
	cmd.Env = buildEnv(s.env)

	outPipe, err := cmd.StdoutPipe()
	if err != nil {
		s.setFault("pipe", err)
		return s.result()
	}
	errPipe, err := cmd.StderrPipe()
	if err != nil {
		_ = outPipe.Close()
		s.setFault("pipe", err)
		return s.result()
	}

	if err := cmd.Start(); err != nil {
		s.setFault("start", err)
		return s.result()
	}

	s.mu.Lock()
	s.cmd = cmd
	s.launched = true
	s.mu.Unlock()

	var wg sync.WaitGroup
	wg.Add(2)
	go s.drain(outPipe, s.stdout, &wg)
	go s.drain(errPipe, s.stderr, &wg)

	var wd *watchdog
	if s.timeout > 0 {
		wd = newWatchdog(cmd.Process, s.timeout, s.pollInterval)
		wd.arm()
	}

	// Wait must not run until both pipes have been drained to EOF.
	wg.Wait()
	err = cmd.Wait()
	var exitErr *exec.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		s.setFault("wait", err)
	}

	if wd != nil {
		wd.stop()
	}
	s.stdout.finish()
	s.stderr.finish()

	if state := cmd.ProcessState; state != nil {
		s.mu.Lock()
		s.exitCode = state.ExitCode()
		s.mu.Unlock()
	} else {
		s.setFault("status", errors.New("no process state after wait"))
	}
	return s.result()
}

// drain reads available data from r until the stream closes, forwarding
// each chunk to agg. A zero-length read with no error is still forwarded.
func (s *session) drain(r io.Reader, agg *aggregator, wg *sync.WaitGroup) {
	defer wg.Done()
	buf := make([]byte, chunkSize)
	for {
		n, err := r.Read(buf)
		if n > 0 || err == nil {
			agg.append(buf[:n])
		}
		if err != nil {
			return
		}
	}
}

// terminate asks the OS to stop the process. Draining and wait-for-exit
// proceed to their natural completion afterwards.
func (s *session) terminate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.launched || s.cmd == nil || s.cmd.Process == nil {
		return
	}
	_ = s.cmd.Process.Signal(syscall.SIGTERM)
}

// setFault records err for the named step. The first fault wins.
func (s *session) setFault(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fault == nil {
		s.fault = &ProcessError{Op: op, Err: err}
	}
}

func (s *session) result() (int, []byte, []byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.exitCode, s.stdout.buf.Bytes(), s.stderr.buf.Bytes(), s.fault
}

func (s *session) release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.launched = false
}

// buildEnv overlays the configured variables onto the inherited process
// environment. The runtime debug variable is always stripped so host debug
// settings never leak into invoked tools.
func buildEnv(overrides map[string]string) []string {
	inherited := os.Environ()
	env := make([]string, 0, len(inherited)+len(overrides))
	for _, kv := range inherited {
		if strings.HasPrefix(kv, debugEnv+"=") {
			continue
		}
		env = append(env, kv)
	}
	for k, v := range overrides {
		if k == debugEnv {
			continue
		}
		env = append(env, k+"="+v)
	}
	return env
}
