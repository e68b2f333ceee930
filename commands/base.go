package commands

import (
	"fmt"
	"io"
	"path"
	"sort"

	"github.com/fatih/color"
	getopt "github.com/pborman/getopt/v2"

	"github.com/circulene/goreutils/core/config"
	"github.com/circulene/goreutils/core/runenv"
)

// Applet is a registered utility.
type Applet struct {
	Name  string
	Short string
	Proc  runenv.ProcessFunc
}

// allApplets holds every registered utility by name.
var allApplets = make(map[string]Applet)

// mustRegister adds an applet to the registry, panicking on duplicates so
// collisions fail at init time.
func mustRegister(name, short string, proc runenv.ProcessFunc) {
	if _, ok := allApplets[name]; ok {
		panic(fmt.Sprintf("duplicate applet: %q", name))
	}
	allApplets[name] = Applet{Name: name, Short: short, Proc: proc}
}

// Lookup finds an applet by name.
func Lookup(name string) (Applet, bool) {
	applet, ok := allApplets[name]
	return applet, ok
}

// ListApplets returns every registered applet sorted by name.
func ListApplets() []Applet {
	var out []Applet
	for _, applet := range allApplets {
		out = append(out, applet)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})
	return out
}

// appletName is the name the applet was invoked under.
func appletName(env runenv.Env) string {
	if args := env.Args(); len(args) > 0 {
		return path.Base(args[0])
	}
	return "?"
}

// SimpleCommand provides the shared scaffolding of an applet: getopt flag
// parsing, help output, and uniform error reporting.
type SimpleCommand struct {
	// Use holds a one line usage string.
	Use string
	// Short holds a one line description of the command.
	Short string
	// ShowHelp sets whether help is displayed or not.
	// If this is non-nil when Run() is called, then the default help flag
	// isn't added.
	ShowHelp *bool
	// NeverBail skips interacting with stdout/stderr on failure and
	// always runs the callback.
	NeverBail bool

	flags *getopt.Set
}

// Flags gets the command's flag set.
func (s *SimpleCommand) Flags() *getopt.Set {
	if s.flags == nil {
		s.flags = getopt.New()
	}

	return s.flags
}

// PrintHelp writes help for the command to the given writer.
func (s *SimpleCommand) PrintHelp(w io.Writer) {
	fmt.Fprint(w, "usage: ")
	fmt.Fprintln(w, s.Use)
	fmt.Fprintln(w, s.Short)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	s.Flags().PrintOptions(w)
}

// Run the command, if flag parsing was successful call the callback.
func (s *SimpleCommand) Run(env runenv.Env, callback func() int) int {
	opts := s.Flags()

	// Add help flag if not overridden.
	if s.ShowHelp == nil {
		s.ShowHelp = opts.BoolLong("help", 'h', "show this help and exit")
	}

	err := opts.Getopt(env.Args(), nil)
	if err != nil {
		logger := env.Log()
		logger.Debug().
			Str("applet", appletName(env)).
			Err(err).
			Msg("invalid invocation")
	}

	if err != nil && !s.NeverBail {
		fmt.Fprintf(env.Stderr(), "error: %s\n\n", err)

		s.PrintHelp(env.Stdout())
		return 1
	}

	if *s.ShowHelp {
		s.PrintHelp(env.Stdout())
		return 0
	}

	return callback()
}

// RunE is Run for callbacks that report failure as an error. The error is
// printed prefixed with the applet name.
func (s *SimpleCommand) RunE(env runenv.Env, callback func() error) int {
	return s.Run(env, func() int {
		if err := callback(); err != nil {
			s.LogProgramError(env, err)
			return 1
		}
		return 0
	})
}

// LogProgramError reports a runtime (not flag parsing) failure.
func (s *SimpleCommand) LogProgramError(env runenv.Env, err error) {
	logger := env.Log()
	logger.Debug().
		Str("applet", appletName(env)).
		Err(err).
		Msg("program error")
	fmt.Fprintf(env.Stderr(), "%s: %v\n", appletName(env), err)
}

// RunEachFileOrStdin invokes the callback once per named file, with "-" or an
// empty list meaning stdin. A file that can't be opened is reported and
// skipped; a callback error aborts that file the same way but neither forces
// a nonzero exit for the whole run.
func (s *SimpleCommand) RunEachFileOrStdin(env runenv.Env, files []string, callback func(name string, fd io.Reader) error) int {
	if len(files) == 0 {
		files = []string{"-"}
	}

	for _, name := range files {
		fd, err := runenv.Open(env, name)
		if err != nil {
			s.LogProgramError(env, err)
			continue
		}

		err = callback(name, fd)
		fd.Close()
		if err != nil {
			s.LogProgramError(env, err)
		}
	}

	return 0
}

var (
	ColorBoldBlue  = color.New(color.FgBlue, color.Bold)
	ColorBoldGreen = color.New(color.FgGreen, color.Bold)
	ColorBoldCyan  = color.New(color.FgCyan, color.Bold)
	ColorBoldRed   = color.New(color.FgRed, color.Bold)
)

// ColorPrinter decides whether output should be colorized based on the
// --color flag, the suite config, and whether stdout is a terminal.
type ColorPrinter struct {
	value *string
	env   runenv.Env
}

// Init sets up the flag and environment used to determine color output.
func (c *ColorPrinter) Init(flags *getopt.Set, env runenv.Env) {
	c.env = env
	c.value = flags.EnumLong(
		"color",
		rune(0), // No short flag.
		[]string{config.ColorAlways, config.ColorAuto, config.ColorNever},
		env.Config().Color,
		"colorize the output (always|auto|never)")
}

func (c *ColorPrinter) ShouldColor() bool {
	switch {
	case *c.value == config.ColorNever:
		return false
	case *c.value == config.ColorAlways:
		return true
	default:
		return c.env.IsPTY()
	}
}

func (c *ColorPrinter) Sprintf(col *color.Color, format string, a ...interface{}) string {
	if c.ShouldColor() {
		// The global color.NoColor detection doesn't apply to test
		// writers, force the decision made here.
		enabled := *col
		enabled.EnableColor()
		return enabled.Sprintf(format, a...)
	}
	return fmt.Sprintf(format, a...)
}

// BytesToHuman formats a byte count the way ls --human-readable does.
func BytesToHuman(bytes int64) string {
	for _, e := range []struct {
		unit  string
		power int64
	}{
		{"P", 1e15},
		{"T", 1e12},
		{"G", 1e9},
		{"M", 1e6},
		{"K", 1e3},
	} {
		quotient := bytes / e.power
		switch {
		case quotient == 0:
			continue
		case quotient > 10:
			return fmt.Sprintf("%d%s", quotient, e.unit)
		default:
			return fmt.Sprintf("%0.1f%s", float64(bytes)/float64(e.power), e.unit)
		}
	}

	return fmt.Sprintf("%d", bytes)
}
