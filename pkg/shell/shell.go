// Package shell executes external commands through a configurable command
// interpreter, capturing stdout and stderr incrementally while the process
// runs and enforcing an optional wall-clock timeout. The command string is
// passed verbatim to the interpreter; no quoting or shell-syntax handling
// happens here.
package shell

import (
	"strings"
	"sync"
	"time"
	"unicode/utf8"
)

const (
	// DefaultInterpreter runs commands when Config.Interpreter is empty.
	DefaultInterpreter = "/bin/sh"
	// DefaultPollInterval is the watchdog's sampling granularity. A timeout
	// can overrun by up to one interval; callers needing tighter bounds set
	// Config.PollInterval.
	DefaultPollInterval = 100 * time.Millisecond

	// debugEnv is stripped from every child environment.
	debugEnv = "GODEBUG"
)

// Config holds per-Shell execution settings. Env is overlaid onto the
// inherited process environment.
type Config struct {
	Interpreter  string
	Env          map[string]string
	PollInterval time.Duration
}

// Shell runs commands through an interpreter. Configuration fields and the
// registered handlers may be changed between invocations but must not be
// mutated while a Run is in flight; the Shell does not guard them. A Shell
// tolerates concurrent Runs (each gets its own session state), but
// Terminate only affects the most recently started one.
type Shell struct {
	Config
	StdoutHandler StreamHandler
	StderrHandler StreamHandler

	mu      sync.Mutex
	current *session
}

// New returns a Shell with defaults applied for any zero-valued Config
// field.
func New(cfg Config) *Shell {
	if cfg.Interpreter == "" {
		cfg.Interpreter = DefaultInterpreter
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultPollInterval
	}
	return &Shell{Config: cfg}
}

// Run executes command synchronously and returns its stdout with leading
// and trailing newlines removed. A timeout of zero disables the watchdog.
// Failures are reported as *ProcessError (the process-control layer itself
// faulted), *ExitError (non-zero exit, including a fired timeout), or
// ErrEmptyOutput (clean exit, undecodable stdout).
func (sh *Shell) Run(command string, timeout time.Duration) (string, error) {
	s := newSession(sh, command, timeout)
	sh.setCurrent(s)
	defer sh.clearCurrent(s)

	exitCode, stdout, stderr, fault := s.run()
	if fault != nil {
		return "", fault
	}
	if exitCode != 0 {
		return "", &ExitError{Code: exitCode, Message: exitMessage(stderr)}
	}
	if !utf8.Valid(stdout) {
		return "", ErrEmptyOutput
	}
	return strings.Trim(string(stdout), "\n"), nil
}

// RunAsync executes command on its own goroutine and invokes done exactly
// once with the outcome of Run. done is never called on the caller's
// goroutine.
func (sh *Shell) RunAsync(command string, timeout time.Duration, done func(output string, err error)) {
	go func() {
		done(sh.Run(command, timeout))
	}()
}

// Terminate signals the currently active session's process to stop.
// Best-effort: a no-op when nothing is running.
func (sh *Shell) Terminate() {
	sh.mu.Lock()
	s := sh.current
	sh.mu.Unlock()
	if s != nil {
		s.terminate()
	}
}

func (sh *Shell) setCurrent(s *session) {
	sh.mu.Lock()
	defer sh.mu.Unlock()
	sh.current = s
}

func (sh *Shell) clearCurrent(s *session) {
	sh.mu.Lock()
	defer sh.mu.Unlock()
	if sh.current == s {
		sh.current = nil
	}
}

func exitMessage(stderr []byte) string {
	if !utf8.Valid(stderr) {
		return noErrorMessage
	}
	msg := strings.Trim(string(stderr), "\n")
	if msg == "" {
		return noErrorMessage
	}
	return msg
}
