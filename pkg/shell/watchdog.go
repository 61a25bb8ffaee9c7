package shell

import (
	"os"
	"sync"
	"syscall"
	"time"
)

type watchdogState int

const (
	wdIdle watchdogState = iota
	wdArmed
	wdFired
	wdDisarmed
)

// watchdog terminates a process that outlives its deadline. It samples
// elapsed time on a fixed polling interval, so a short timeout can overrun
// by up to one interval. It fires at most once per session; stopping it
// after the process has already exited is a no-op.
type watchdog struct {
	process  *os.Process
	timeout  time.Duration
	interval time.Duration

	mu     sync.Mutex
	state  watchdogState
	stopCh chan struct{}
}

func newWatchdog(process *os.Process, timeout, interval time.Duration) *watchdog {
	return &watchdog{
		process:  process,
		timeout:  timeout,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// arm starts the polling loop. Only an idle watchdog can be armed.
func (w *watchdog) arm() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state != wdIdle {
		return
	}
	w.state = wdArmed
	go w.poll()
}

func (w *watchdog) poll() {
	start := time.Now()
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			if time.Since(start) >= w.timeout {
				w.fire()
				return
			}
		}
	}
}

func (w *watchdog) fire() {
	w.mu.Lock()
	if w.state != wdArmed {
		w.mu.Unlock()
		return
	}
	w.state = wdFired
	w.mu.Unlock()
	// The process may have exited between the deadline check and the
	// signal; that race is benign.
	_ = w.process.Signal(syscall.SIGTERM)
}

// stop disarms the watchdog when the session completes before the deadline.
// Safe to call regardless of state, including after a firing.
func (w *watchdog) stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state == wdArmed {
		w.state = wdDisarmed
		close(w.stopCh)
	}
}
