package shell

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// Call records one command invocation seen by a FakeRunner.
type Call struct {
	Dir  string
	Name string
	Args []string
	// Input is the stdin content for RunInput calls.
	Input string
}

// String renders the call the way it would appear on a command line.
func (c Call) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	return c.Name + " " + strings.Join(c.Args, " ")
}

// FakeRunner is a scripted Runner for tests. Commands succeed unless an
// error or output is registered for a matching prefix.
type FakeRunner struct {
	mu sync.Mutex

	// Calls holds every invocation in order.
	Calls []Call

	// Errors maps a command-line prefix to the error it should return.
	Errors map[string]error

	// Outputs maps a command-line prefix to the Output result.
	Outputs map[string]string

	// Missing lists program names LookPath should report as absent.
	Missing []string
}

// NewFakeRunner creates an empty FakeRunner where every command succeeds.
func NewFakeRunner() *FakeRunner {
	return &FakeRunner{
		Errors:  make(map[string]error),
		Outputs: make(map[string]string),
	}
}

// FailOn registers an error for any command line starting with prefix.
func (f *FakeRunner) FailOn(prefix string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Errors[prefix] = err
}

// RespondTo registers canned output for any command line starting with
// prefix.
func (f *FakeRunner) RespondTo(prefix, output string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Outputs[prefix] = output
}

func (f *FakeRunner) record(dir, name string, args []string) Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	call := Call{Dir: dir, Name: name, Args: args}
	f.Calls = append(f.Calls, call)
	return call
}

func (f *FakeRunner) errorFor(call Call) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	line := call.String()
	for prefix, err := range f.Errors {
		if strings.HasPrefix(line, prefix) {
			return err
		}
	}
	return nil
}

// Run records the call and returns any scripted error.
func (f *FakeRunner) Run(ctx context.Context, name string, args ...string) error {
	return f.RunIn(ctx, "", name, args...)
}

// RunIn records the call and returns any scripted error.
func (f *FakeRunner) RunIn(ctx context.Context, dir, name string, args ...string) error {
	call := f.record(dir, name, args)
	return f.errorFor(call)
}

// RunInput records the call with its stdin content and returns any
// scripted error.
func (f *FakeRunner) RunInput(ctx context.Context, input, name string, args ...string) error {
	call := f.record("", name, args)
	f.mu.Lock()
	f.Calls[len(f.Calls)-1].Input = input
	f.mu.Unlock()
	call.Input = input
	return f.errorFor(call)
}

// InputFor returns the stdin content of the first recorded call whose
// command line starts with prefix.
func (f *FakeRunner) InputFor(prefix string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, call := range f.Calls {
		if strings.HasPrefix(call.String(), prefix) {
			return call.Input
		}
	}
	return ""
}

// Output records the call and returns any scripted output or error.
func (f *FakeRunner) Output(ctx context.Context, name string, args ...string) (string, error) {
	call := f.record("", name, args)
	if err := f.errorFor(call); err != nil {
		return "", err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	line := call.String()
	for prefix, out := range f.Outputs {
		if strings.HasPrefix(line, prefix) {
			return out, nil
		}
	}
	return "", nil
}

// LookPath reports programs as present unless listed in Missing.
func (f *FakeRunner) LookPath(name string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, missing := range f.Missing {
		if missing == name {
			return "", fmt.Errorf("exec: %q: executable file not found in $PATH", name)
		}
	}
	return "/usr/bin/" + name, nil
}

// CommandLines returns every recorded call as a command-line string.
func (f *FakeRunner) CommandLines() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	lines := make([]string, len(f.Calls))
	for i, call := range f.Calls {
		lines[i] = call.String()
	}
	return lines
}

// Ran reports whether any recorded command line starts with prefix.
func (f *FakeRunner) Ran(prefix string) bool {
	for _, line := range f.CommandLines() {
		if strings.HasPrefix(line, prefix) {
			return true
		}
	}
	return false
}
