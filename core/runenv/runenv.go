// Package runenv defines the runtime environment utilities run against.
//
// Everything an applet touches on the outside world (arguments, stdio, the
// filesystem, environment variables, the clock, the terminal) goes through
// Env so the same code runs against the real OS and against an in-memory
// environment in tests.
package runenv

import (
	"io"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/circulene/goreutils/core/config"
)

// ProcessFunc is the entry point of an applet. The return value is the
// process exit code.
type ProcessFunc func(env Env) int

// Env provides a virtual process environment.
type Env interface {
	// Args holds the command line, Args[0] is the applet name.
	Args() []string

	Stdin() io.Reader
	Stdout() io.Writer
	Stderr() io.Writer

	// Fs is the filesystem the applet operates on.
	Fs() afero.Fs

	Getenv(key string) string
	Getwd() (string, error)

	// Now is the current time; fixed in tests.
	Now() time.Time

	// IsPTY reports whether stdout is attached to a terminal.
	IsPTY() bool

	// Config holds suite-wide defaults.
	Config() *config.Config

	// Log is a diagnostic logger, it never writes to the applet's normal
	// output streams.
	Log() zerolog.Logger
}

// Open opens the named input on the environment's filesystem, with "-"
// denoting stdin.
func Open(env Env, name string) (io.ReadCloser, error) {
	if name == "-" {
		return io.NopCloser(env.Stdin()), nil
	}
	return env.Fs().Open(name)
}
