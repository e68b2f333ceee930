package commands

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"sort"

	shlex "github.com/anmitsu/go-shlex"
	getopt "github.com/pborman/getopt/v2"
	"github.com/spf13/afero"

	"github.com/circulene/goreutils/core/runenv"
)

// grepEnvVar holds extra default options, shell-style word split. It takes
// precedence over the grep_options config key.
const grepEnvVar = "GREP_OPTIONS"

// Grep implements the grep command.
//
// Exit status follows the POSIX convention: 0 when a line matched, 1 when
// none did, 2 on error.
func Grep(env runenv.Env) int {
	opts := getopt.New()
	invert := opts.BoolLong("invert-match", 'v', "select lines not matching the pattern")
	ignoreCase := opts.BoolLong("ignore-case", 'i', "perform case-insensitive matching")
	showLineNumbers := opts.BoolLong("line-number", 'n', "prefix each line with its line number")
	countOnly := opts.BoolLong("count", 'c', "print only a count of matching lines per file")
	recursive := opts.BoolLong("recursive", 'r', "search directories recursively")
	helpOpt := opts.BoolLong("help", 'h', "show help and exit")

	var cp ColorPrinter
	cp.Init(opts, env)

	argv := env.Args()
	if extra := grepExtraOptions(env); len(extra) > 0 {
		argv = append(append([]string{argv[0]}, extra...), argv[1:]...)
	}

	printUsage := func(w io.Writer) {
		fmt.Fprintln(w, "Usage: grep [OPTION]... PATTERN [FILE]...")
		fmt.Fprintln(w, "Search for PATTERN in each FILE or standard input.")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Flags:")
		opts.PrintOptions(w)
	}

	if err := opts.Getopt(argv, nil); err != nil {
		logger := env.Log()
		logger.Debug().Err(err).Msg("invalid grep invocation")
		fmt.Fprintln(env.Stderr(), err)
		printUsage(env.Stderr())
		return 2
	}
	if *helpOpt {
		printUsage(env.Stdout())
		return 0
	}

	args := opts.Args()
	if len(args) == 0 {
		fmt.Fprintln(env.Stderr(), "grep: missing argument PATTERN")
		return 2
	}

	pattern := args[0]
	if *ignoreCase {
		pattern = "(?i)" + pattern
	}
	regex, err := regexp.Compile(pattern)
	if err != nil {
		fmt.Fprintf(env.Stderr(), "grep: invalid pattern %q\n", args[0])
		return 2
	}

	files, errored := grepFindFiles(env, args[1:], *recursive)
	showFileName := len(files) > 1

	matched := false
	for _, name := range files {
		fd, err := runenv.Open(env, name)
		if err != nil {
			fmt.Fprintf(env.Stderr(), "grep: %s: %v\n", name, err)
			errored = true
			continue
		}

		count, err := grepFile(env, &cp, regex, fd, name, grepOptions{
			invert:          *invert,
			showLineNumbers: *showLineNumbers,
			countOnly:       *countOnly,
			showFileName:    showFileName,
		})
		fd.Close()
		if err != nil {
			fmt.Fprintf(env.Stderr(), "grep: %s: %v\n", name, err)
			errored = true
			continue
		}
		if count > 0 {
			matched = true
		}
	}

	switch {
	case errored:
		return 2
	case matched:
		return 0
	default:
		return 1
	}
}

type grepOptions struct {
	invert          bool
	showLineNumbers bool
	countOnly       bool
	showFileName    bool
}

func grepFile(env runenv.Env, cp *ColorPrinter, regex *regexp.Regexp, fd io.Reader, name string, o grepOptions) (int, error) {
	w := env.Stdout()

	matches := 0
	scanner := bufio.NewScanner(fd)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 1
	for scanner.Scan() {
		line := scanner.Text()
		lineMatches := regex.MatchString(line)

		if lineMatches != o.invert {
			matches++
			if !o.countOnly {
				if o.showFileName {
					fmt.Fprintf(w, "%s:", name)
				}
				if o.showLineNumbers {
					fmt.Fprintf(w, "%d:", lineNo)
				}
				if cp.ShouldColor() && !o.invert {
					line = regex.ReplaceAllStringFunc(line, func(m string) string {
						return cp.Sprintf(ColorBoldRed, "%s", m)
					})
				}
				fmt.Fprintln(w, line)
			}
		}
		lineNo++
	}
	if err := scanner.Err(); err != nil {
		return matches, err
	}

	if o.countOnly {
		if o.showFileName {
			fmt.Fprintf(w, "%s:", name)
		}
		fmt.Fprintln(w, matches)
	}

	return matches, nil
}

// grepFindFiles expands the argument list into searchable inputs. Without -r
// a directory is an error; with it the directory's regular files are
// searched in sorted order.
func grepFindFiles(env runenv.Env, paths []string, recursive bool) (files []string, errored bool) {
	if len(paths) == 0 {
		return []string{"-"}, false
	}

	for _, path := range paths {
		if path == "-" {
			files = append(files, path)
			continue
		}

		info, err := env.Fs().Stat(path)
		if err != nil {
			// Leave the open error to the caller for uniform reporting.
			files = append(files, path)
			continue
		}

		if !info.IsDir() {
			files = append(files, path)
			continue
		}

		if !recursive {
			fmt.Fprintf(env.Stderr(), "grep: %s is a directory\n", path)
			errored = true
			continue
		}

		var found []string
		err = afero.Walk(env.Fs(), path, func(child string, info os.FileInfo, err error) error {
			if err != nil {
				fmt.Fprintf(env.Stderr(), "grep: %s: %v\n", child, err)
				errored = true
				return nil
			}
			if info.Mode().IsRegular() {
				found = append(found, child)
			}
			return nil
		})
		if err != nil {
			fmt.Fprintf(env.Stderr(), "grep: %s: %v\n", path, err)
			errored = true
			continue
		}

		sort.Strings(found)
		files = append(files, found...)
	}

	return files, errored
}

func grepExtraOptions(env runenv.Env) []string {
	raw := env.Getenv(grepEnvVar)
	if raw == "" {
		raw = env.Config().GrepOptions
	}
	if raw == "" {
		return nil
	}

	words, err := shlex.Split(raw, true)
	if err != nil {
		logger := env.Log()
		logger.Debug().Err(err).Msg("unparseable extra grep options")
		return nil
	}
	return words
}

func init() {
	mustRegister("grep", "search files for lines matching a pattern", Grep)
}
