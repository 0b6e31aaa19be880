// Package process runs external commands with streamed output and bounded
// cancellation.
package process

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
)

const (
	// DefaultGrace is how long a cancelled command may take to exit before it
	// is killed.
	DefaultGrace = 5 * time.Second

	stderrTailLines = 5
	lineBuffer      = 64
	maxLineSize     = 1024 * 1024
)

// Executor starts external commands.
type Executor interface {
	Start(ctx context.Context, name string, args ...string) (Handle, error)
}

// Handle is a running command owned by the caller that started it.
type Handle interface {
	// Lines yields stdout lines as they are produced. It ends when the
	// command's output closes or shortly after Cancel.
	Lines() iter.Seq[string]

	// Cancel requests termination. It escalates to a hard kill if the
	// command does not exit within the grace period. Safe to call repeatedly.
	Cancel()

	// Wait blocks until the command has been reaped and returns nil,
	// a *CommandError, or an error wrapping ErrCancelled.
	Wait() error
}

// Runner starts commands as OS processes.
type Runner struct {
	grace  time.Duration
	logger *slog.Logger
}

// NewRunner creates a runner. A non-positive grace uses DefaultGrace.
func NewRunner(grace time.Duration, logger *slog.Logger) *Runner {
	if grace <= 0 {
		grace = DefaultGrace
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{grace: grace, logger: logger}
}

// Start launches name with args in its own process group.
// The command is cancelled when ctx is done.
func (r *Runner) Start(ctx context.Context, name string, args ...string) (Handle, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", name, ErrCancelled)
	}

	cmd := exec.Command(name, args...)
	setProcessGroup(cmd)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, &SpawnError{Name: name, Err: err}
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, &SpawnError{Name: name, Err: err}
	}
	if err := cmd.Start(); err != nil {
		return nil, &SpawnError{Name: name, Err: err}
	}

	p := &Process{
		name:    name,
		cmd:     cmd,
		grace:   r.grace,
		logger:  r.logger.With("command", name, "pid", cmd.Process.Pid),
		lines:   make(chan string, lineBuffer),
		discard: make(chan struct{}),
		done:    make(chan struct{}),
		pipes:   []io.Closer{stdout, stderr},
	}
	p.logger.Debug("process started", "args", strings.Join(args, " "))

	go p.supervise(ctx, stdout, stderr)
	return p, nil
}

// Process is a started command.
type Process struct {
	name   string
	cmd    *exec.Cmd
	grace  time.Duration
	logger *slog.Logger

	lines       chan string
	discard     chan struct{} // closed when nobody will read lines anymore
	discardOnce sync.Once
	done        chan struct{} // closed after the process is reaped
	pipes       []io.Closer

	cancelOnce sync.Once
	cancelled  atomic.Bool

	tail []string
	err  error
}

// Lines implements Handle.
func (p *Process) Lines() iter.Seq[string] {
	return func(yield func(string) bool) {
		for line := range p.lines {
			if !yield(line) {
				p.stopDelivery()
				return
			}
		}
	}
}

// Cancel implements Handle.
func (p *Process) Cancel() {
	p.cancelOnce.Do(func() {
		select {
		case <-p.done:
			return
		default:
		}
		p.cancelled.Store(true)
		p.stopDelivery()

		p.logger.Debug("terminating process group")
		if err := terminate(p.cmd); err != nil {
			p.logger.Debug("terminate failed", "error", err)
		}
		go p.escalate()
	})
}

// Wait implements Handle.
func (p *Process) Wait() error {
	<-p.done
	return p.err
}

func (p *Process) escalate() {
	timer := time.NewTimer(p.grace)
	defer timer.Stop()

	select {
	case <-p.done:
		return
	case <-timer.C:
	}
	p.logger.Warn("process ignored termination, killing", "grace", p.grace)
	if err := kill(p.cmd); err != nil {
		p.logger.Debug("kill failed", "error", err)
	}

	// A descendant outside the group may still hold the pipes open.
	timer.Reset(p.grace)
	select {
	case <-p.done:
	case <-timer.C:
		p.logger.Warn("output still open after kill, closing pipes")
		for _, c := range p.pipes {
			_ = c.Close()
		}
	}
}

func (p *Process) stopDelivery() {
	p.discardOnce.Do(func() { close(p.discard) })
}

func (p *Process) supervise(ctx context.Context, stdout, stderr io.Reader) {
	stop := context.AfterFunc(ctx, p.Cancel)
	defer stop()

	var g errgroup.Group
	g.Go(func() error { return p.readStdout(stdout) })
	g.Go(func() error { return p.readStderr(stderr) })
	readErr := g.Wait()
	close(p.lines)

	waitErr := p.cmd.Wait()
	p.err = p.result(waitErr)
	if readErr != nil && p.err == nil {
		p.err = fmt.Errorf("read %s output: %w", p.name, readErr)
	}
	p.logger.Debug("process reaped", "error", p.err)
	close(p.done)
}

func (p *Process) readStdout(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		select {
		case p.lines <- line:
		case <-p.discard:
		}
	}
	return ignoreClosed(scanner.Err())
}

func (p *Process) readStderr(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		p.logger.Debug("stderr", "line", line)
		p.tail = append(p.tail, line)
		if len(p.tail) > stderrTailLines {
			p.tail = p.tail[1:]
		}
	}
	return ignoreClosed(scanner.Err())
}

func (p *Process) result(waitErr error) error {
	if p.cancelled.Load() {
		return fmt.Errorf("%s: %w", p.name, ErrCancelled)
	}
	if waitErr == nil {
		return nil
	}
	var exitErr *exec.ExitError
	if errors.As(waitErr, &exitErr) {
		return &CommandError{
			Name:   p.name,
			Code:   exitErr.ExitCode(),
			Stderr: strings.Join(p.tail, "; "),
		}
	}
	return fmt.Errorf("wait %s: %w", p.name, waitErr)
}

// ignoreClosed treats reads from a pipe closed during escalation as EOF.
func ignoreClosed(err error) error {
	if err == nil || errors.Is(err, os.ErrClosed) || errors.Is(err, io.ErrClosedPipe) {
		return nil
	}
	return err
}
