package runenv

import (
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/circulene/goreutils/core/config"
)

// DebugEnvVar enables diagnostic logging to stderr when set.
const DebugEnvVar = "GOREUTILS_DEBUG"

// osEnv implements Env against the host OS.
type osEnv struct {
	args []string
	cfg  *config.Config
	log  zerolog.Logger
}

// NewOSEnv creates an environment backed by the host OS with the given
// command line.
func NewOSEnv(args []string, cfg *config.Config) Env {
	log := zerolog.Nop()
	if os.Getenv(DebugEnvVar) != "" {
		log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
			With().Timestamp().Logger()
	}

	if cfg == nil {
		cfg = config.Default()
	}

	return &osEnv{
		args: args,
		cfg:  cfg,
		log:  log,
	}
}

func (e *osEnv) Args() []string {
	return e.args
}

func (e *osEnv) Stdin() io.Reader {
	return os.Stdin
}

func (e *osEnv) Stdout() io.Writer {
	return os.Stdout
}

func (e *osEnv) Stderr() io.Writer {
	return os.Stderr
}

func (e *osEnv) Fs() afero.Fs {
	return afero.NewOsFs()
}

func (e *osEnv) Getenv(key string) string {
	return os.Getenv(key)
}

func (e *osEnv) Getwd() (string, error) {
	return os.Getwd()
}

func (e *osEnv) Now() time.Time {
	return time.Now()
}

func (e *osEnv) IsPTY() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

func (e *osEnv) Config() *config.Config {
	return e.cfg
}

func (e *osEnv) Log() zerolog.Logger {
	return e.log
}

var _ Env = (*osEnv)(nil)
