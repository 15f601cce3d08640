package terminal

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Options configures a new terminal.
type Options struct {
	// Name is a human-readable name for the terminal.
	Name string

	// Writer receives the text sent to the terminal. Ignored if Command is set.
	Writer io.Writer

	// Command, when set, starts a child process whose standard input
	// receives the text sent to the terminal.
	Command []string

	// Output receives the child's standard output and error. Defaults to
	// discarding them.
	Output io.Writer

	// Env are additional environment variables for Command.
	Env []string

	// WorkDir is the working directory for Command.
	WorkDir string

	// OnClose is called when the terminal closes.
	OnClose func()
}

// Terminal is a text sink identified by a UUID.
type Terminal struct {
	id      string
	name    string
	created time.Time

	mu     sync.Mutex // Serializes writes
	writer io.Writer
	stdin  io.WriteCloser
	cmd    *exec.Cmd

	closed   atomic.Bool
	exitCode atomic.Int32
	done     chan struct{}
	onClose  func()
}

// newTerminal creates a terminal, starting its command if any.
func newTerminal(opts Options) (*Terminal, error) {
	if opts.Name == "" {
		opts.Name = "terminal"
	}

	t := &Terminal{
		id:      uuid.NewString(),
		name:    opts.Name,
		created: time.Now(),
		done:    make(chan struct{}),
		onClose: opts.OnClose,
	}
	t.exitCode.Store(-1)

	if len(opts.Command) == 0 {
		if opts.Writer == nil {
			return nil, ErrNoSink
		}
		t.writer = opts.Writer
		close(t.done)
		return t, nil
	}

	if _, err := exec.LookPath(opts.Command[0]); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrShellNotFound, opts.Command[0])
	}

	cmd := exec.Command(opts.Command[0], opts.Command[1:]...)
	cmd.Dir = opts.WorkDir
	cmd.Env = append(os.Environ(), opts.Env...)
	if opts.Output != nil {
		cmd.Stdout = opts.Output
		cmd.Stderr = opts.Output
	}

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("stdin pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start %s: %w", opts.Command[0], err)
	}

	t.cmd = cmd
	t.stdin = stdin
	t.writer = stdin

	go t.wait()
	return t, nil
}

// wait records the exit code once the child exits.
func (t *Terminal) wait() {
	defer close(t.done)
	if err := t.cmd.Wait(); err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			t.exitCode.Store(int32(exitErr.ExitCode()))
			return
		}
	}
	if t.cmd.ProcessState != nil {
		t.exitCode.Store(int32(t.cmd.ProcessState.ExitCode()))
	}
}

// ID returns the terminal's unique identifier.
func (t *Terminal) ID() string {
	return t.id
}

// Name returns the terminal's display name.
func (t *Terminal) Name() string {
	return t.name
}

// SendText writes text to the terminal, followed by a newline if
// addNewline is true.
func (t *Terminal) SendText(text string, addNewline bool) error {
	if addNewline {
		text += "\n"
	}
	_, err := t.WriteString(text)
	return err
}

// Write sends input to the terminal.
func (t *Terminal) Write(data []byte) (int, error) {
	if t.closed.Load() {
		return 0, ErrTerminalClosed
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	return t.writer.Write(data)
}

// WriteString sends a string to the terminal.
func (t *Terminal) WriteString(s string) (int, error) {
	return t.Write([]byte(s))
}

// Close closes the terminal. A command's standard input is closed and the
// command is given the chance to exit on its own.
func (t *Terminal) Close() error {
	if t.closed.Swap(true) {
		return nil
	}

	var err error
	if t.stdin != nil {
		t.mu.Lock()
		err = t.stdin.Close()
		t.mu.Unlock()
		<-t.done
	}

	if t.onClose != nil {
		t.onClose()
	}
	return err
}

// Kill terminates a command terminal immediately.
func (t *Terminal) Kill() {
	if t.cmd != nil && t.cmd.Process != nil {
		_ = t.cmd.Process.Kill()
	}
}

// Done returns a channel that is closed when the terminal's command exits.
// For writer terminals it is already closed.
func (t *Terminal) Done() <-chan struct{} {
	return t.done
}

// ExitCode returns the command's exit code, or -1 if it is still running
// or the terminal has no command.
func (t *Terminal) ExitCode() int {
	return int(t.exitCode.Load())
}

// IsRunning returns true if the terminal has not been closed.
func (t *Terminal) IsRunning() bool {
	return !t.closed.Load()
}
