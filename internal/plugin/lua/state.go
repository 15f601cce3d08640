package lua

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"
)

// Default limits.
const (
	DefaultExecutionTimeout = 5 * time.Second
	DefaultCallStackSize    = 120
)

// State wraps a sandboxed Lua state. Calls are serialized.
type State struct {
	L  *lua.LState
	mu sync.Mutex

	executionTimeout time.Duration
	callStackSize    int
	output           io.Writer

	closed bool
}

// Option configures a State.
type Option func(*State)

// WithExecutionTimeout bounds each DoString or DoFile call.
// Zero disables the bound.
func WithExecutionTimeout(d time.Duration) Option {
	return func(s *State) {
		s.executionTimeout = d
	}
}

// WithCallStackSize sets the maximum Lua call depth.
func WithCallStackSize(n int) Option {
	return func(s *State) {
		if n > 0 {
			s.callStackSize = n
		}
	}
}

// WithOutput sets the writer used by print.
func WithOutput(w io.Writer) Option {
	return func(s *State) {
		if w != nil {
			s.output = w
		}
	}
}

// NewState creates a sandboxed Lua state.
func NewState(opts ...Option) *State {
	s := &State{
		executionTimeout: DefaultExecutionTimeout,
		callStackSize:    DefaultCallStackSize,
		output:           os.Stdout,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.L = lua.NewState(lua.Options{
		SkipOpenLibs:        true,
		CallStackSize:       s.callStackSize,
		IncludeGoStackTrace: false,
	})
	openSafeLibraries(s.L)
	s.installSandbox()

	return s
}

// openSafeLibraries opens only the libraries without host access.
func openSafeLibraries(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
}

// installSandbox strips the loaders and routes print to the output writer.
func (s *State) installSandbox() {
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require", "module"} {
		s.L.SetGlobal(name, lua.LNil)
	}

	s.L.SetGlobal("print", s.L.NewFunction(func(L *lua.LState) int {
		top := L.GetTop()
		parts := make([]string, 0, top)
		for i := 1; i <= top; i++ {
			parts = append(parts, L.ToStringMeta(L.Get(i)).String())
		}
		fmt.Fprintln(s.output, strings.Join(parts, "\t"))
		return 0
	}))
}

// DoString executes Lua source.
func (s *State) DoString(ctx context.Context, code string) error {
	return s.run(ctx, func() error {
		return s.L.DoString(code)
	})
}

// DoFile executes the Lua file at path.
func (s *State) DoFile(ctx context.Context, path string) error {
	code, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read script: %w", err)
	}
	return s.run(ctx, func() error {
		fn, err := s.L.Load(strings.NewReader(string(code)), "@"+path)
		if err != nil {
			return err
		}
		s.L.Push(fn)
		return s.L.PCall(0, lua.MultRet, nil)
	})
}

// run executes fn under the state lock with the execution deadline applied.
func (s *State) run(ctx context.Context, fn func() error) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStateClosed
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if s.executionTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.executionTimeout)
		defer cancel()
	}

	s.L.SetContext(ctx)
	defer s.L.RemoveContext()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
	}()

	top := s.L.GetTop()
	err = fn()
	s.L.SetTop(top)

	if err != nil && ctx.Err() != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("%w: %v", ErrExecutionTimeout, err)
		}
		return fmt.Errorf("%w: %v", ctx.Err(), err)
	}
	return err
}

// GetGlobal returns a global converted to a Go value.
func (s *State) GetGlobal(name string) any {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	return ToGoValue(s.L.GetGlobal(name))
}

// SetGlobal sets a global from a Go value.
func (s *State) SetGlobal(name string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.L.SetGlobal(name, ToLuaValue(s.L, value))
}

// Close releases the state. Further calls return ErrStateClosed.
func (s *State) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.L.Close()
}
