// Package runenvtest provides a deterministic environment for testing
// applets: an in-memory filesystem, a fixed clock, and captured stdio.
package runenvtest

import (
	"bytes"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/circulene/goreutils/core/config"
	"github.com/circulene/goreutils/core/runenv"
)

// FixedTime is the clock value every test environment reports. It is Go's
// reference timestamp with a different value in each position.
var FixedTime = time.Date(2006, 1, 2, 3, 4, 5, 0, time.UTC)

// Cmd is similar to exec.Cmd but runs an applet in-process against a
// deterministic environment.
type Cmd struct {
	// Process function.
	Process runenv.ProcessFunc
	// Process arguments, the first argument should be the applet name.
	Argv []string

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// Fs is the filesystem the applet sees; a fresh MemMapFs if nil.
	Fs afero.Fs

	// Env holds environment variables as KEY=VALUE pairs.
	Env []string

	// Config overrides the default suite configuration.
	Config *config.Config

	// Clock overrides FixedTime.
	Clock func() time.Time

	// ExitStatus is populated after Run.
	ExitStatus int

	// Setup runs against the environment before the applet starts.
	Setup func(env runenv.Env) error
}

// Command creates a Cmd for the given applet, mirroring exec.Command.
func Command(process runenv.ProcessFunc, name string, arg ...string) *Cmd {
	return &Cmd{
		Process: process,
		Argv:    append([]string{name}, arg...),
		Fs:      afero.NewMemMapFs(),
	}
}

// Run starts the applet and waits for it to complete.
func (c *Cmd) Run() error {
	if c.Fs == nil {
		c.Fs = afero.NewMemMapFs()
	}
	if c.Stdin == nil {
		c.Stdin = strings.NewReader("")
	}
	if c.Stdout == nil {
		c.Stdout = io.Discard
	}
	if c.Stderr == nil {
		c.Stderr = io.Discard
	}

	cfg := c.Config
	if cfg == nil {
		cfg = config.Default()
	}

	clock := c.Clock
	if clock == nil {
		clock = func() time.Time { return FixedTime }
	}

	environ := make(map[string]string)
	for _, kv := range c.Env {
		split := strings.SplitN(kv, "=", 2)
		key, value := split[0], ""
		if len(split) > 1 {
			value = split[1]
		}
		environ[key] = value
	}

	env := &testEnv{
		cmd:     c,
		cfg:     cfg,
		clock:   clock,
		environ: environ,
	}

	if c.Setup != nil {
		if err := c.Setup(env); err != nil {
			return err
		}
	}

	c.ExitStatus = c.Process(env)
	return nil
}

// CombinedOutput runs the applet and returns its combined stdout and stderr.
func (c *Cmd) CombinedOutput() ([]byte, error) {
	buf := &bytes.Buffer{}
	c.Stdout = buf
	c.Stderr = buf

	if err := c.Run(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Output runs the applet and returns its stdout.
func (c *Cmd) Output() ([]byte, error) {
	buf := &bytes.Buffer{}
	c.Stdout = buf

	if err := c.Run(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type testEnv struct {
	cmd     *Cmd
	cfg     *config.Config
	clock   func() time.Time
	environ map[string]string
}

var _ runenv.Env = (*testEnv)(nil)

func (e *testEnv) Args() []string {
	return e.cmd.Argv
}

func (e *testEnv) Stdin() io.Reader {
	return e.cmd.Stdin
}

func (e *testEnv) Stdout() io.Writer {
	return e.cmd.Stdout
}

func (e *testEnv) Stderr() io.Writer {
	return e.cmd.Stderr
}

func (e *testEnv) Fs() afero.Fs {
	return e.cmd.Fs
}

func (e *testEnv) Getenv(key string) string {
	return e.environ[key]
}

func (e *testEnv) Getwd() (string, error) {
	return "/", nil
}

func (e *testEnv) Now() time.Time {
	return e.clock()
}

func (e *testEnv) IsPTY() bool {
	return false
}

func (e *testEnv) Config() *config.Config {
	return e.cfg
}

func (e *testEnv) Log() zerolog.Logger {
	return zerolog.Nop()
}
