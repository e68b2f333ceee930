package commands

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/circulene/goreutils/core/runenv"
)

// parsePositiveInt parses a strictly positive count, reporting the literal
// offending value.
func parsePositiveInt(value string) (int64, error) {
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid value '%s'", value)
	}
	return n, nil
}

// Head implements the head command: print the first part of files.
func Head(env runenv.Env) int {
	cmd := &SimpleCommand{
		Use:   "head [-n LINES|-c BYTES] [-q] [FILE]...",
		Short: "Print the first 10 lines of each FILE to standard output.",
	}

	opts := cmd.Flags()
	lineSpec := opts.StringLong("lines", 'n', "10", "number of lines to print")
	byteSpec := opts.StringLong("bytes", 'c', "", "number of bytes to print")
	quiet := opts.BoolLong("quiet", 'q', "never print file name headers")

	return cmd.RunE(env, func() error {
		if opts.Lookup("lines").Seen() && opts.Lookup("bytes").Seen() {
			return fmt.Errorf("can't combine --lines and --bytes")
		}

		lines, err := parsePositiveInt(*lineSpec)
		if err != nil {
			return fmt.Errorf("%v for '--lines <LINES>'", err)
		}

		var bytes int64
		if opts.Lookup("bytes").Seen() {
			bytes, err = parsePositiveInt(*byteSpec)
			if err != nil {
				return fmt.Errorf("%v for '--bytes <BYTES>'", err)
			}
		}

		files := opts.Args()
		if len(files) == 0 {
			files = []string{"-"}
		}
		showHeaders := len(files) > 1 && !*quiet

		w := env.Stdout()
		for i, name := range files {
			fd, err := runenv.Open(env, name)
			if err != nil {
				fmt.Fprintf(env.Stderr(), "%s: %v\n", name, err)
				continue
			}

			if showHeaders {
				spacer := ""
				if i > 0 {
					spacer = "\n"
				}
				fmt.Fprintf(w, "%s==> %s <==\n", spacer, name)
			}

			if bytes > 0 {
				err = headBytes(w, fd, bytes)
			} else {
				err = headLines(w, fd, lines)
			}
			fd.Close()
			if err != nil {
				fmt.Fprintf(env.Stderr(), "%s: %v\n", name, err)
			}
		}

		return nil
	})
}

func headLines(w io.Writer, r io.Reader, lines int64) error {
	br := bufio.NewReader(r)
	for n := int64(0); n < lines; n++ {
		line, err := br.ReadBytes('\n')
		if len(line) > 0 {
			if _, werr := w.Write(line); werr != nil {
				return werr
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func headBytes(w io.Writer, r io.Reader, bytes int64) error {
	buf := make([]byte, bytes)
	n, err := io.ReadFull(r, buf)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return err
	}

	_, err = io.WriteString(w, strings.ToValidUTF8(string(buf[:n]), string(utf8.RuneError)))
	return err
}

func init() {
	mustRegister("head", "print the first part of files", Head)
}
