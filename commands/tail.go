package commands

import (
	"bytes"
	"fmt"
	"io"

	"github.com/circulene/goreutils/core/offset"
	"github.com/circulene/goreutils/core/runenv"
)

// Tail implements the tail command: print the last part of files.
//
// Counts follow tail's sign convention: "10" and "-10" keep the last ten
// units, "+10" starts at the tenth, "+0" keeps everything.
func Tail(env runenv.Env) int {
	cmd := &SimpleCommand{
		Use:   "tail [-n LINES|-c BYTES] [-q] FILE...",
		Short: "Print the last 10 lines of each FILE to standard output.",
	}

	opts := cmd.Flags()
	lineSpec := opts.StringLong("lines", 'n', "10", "number of lines to print")
	byteSpec := opts.StringLong("bytes", 'c', "", "number of bytes to print")
	quiet := opts.BoolLong("quiet", 'q', "never print file name headers")

	return cmd.RunE(env, func() error {
		if opts.Lookup("lines").Seen() && opts.Lookup("bytes").Seen() {
			return fmt.Errorf("can't combine --lines and --bytes")
		}

		byteMode := opts.Lookup("bytes").Seen()

		var spec offset.Spec
		var err error
		if byteMode {
			spec, err = offset.Parse(*byteSpec)
			if err != nil {
				return fmt.Errorf("illegal byte count -- %s", err)
			}
		} else {
			spec, err = offset.Parse(*lineSpec)
			if err != nil {
				return fmt.Errorf("illegal line count -- %s", err)
			}
		}

		files := opts.Args()
		if len(files) == 0 {
			return fmt.Errorf("missing file operand")
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

			err = tailSource(w, fd, spec, byteMode)
			fd.Close()
			if err != nil {
				fmt.Fprintf(env.Stderr(), "%s: %v\n", name, err)
			}
		}

		return nil
	})
}

// tailSource extracts the addressed suffix of one source. Seekable sources
// are rewound between the counting and extraction passes; everything else
// (stdin, pipes) is buffered up front since tail needs the full extent
// before anything can be printed.
func tailSource(w io.Writer, fd io.Reader, spec offset.Spec, byteMode bool) error {
	rs, ok := fd.(io.ReadSeeker)
	if ok {
		if _, err := rs.Seek(0, io.SeekCurrent); err != nil {
			ok = false
		}
	}
	if !ok {
		data, err := io.ReadAll(fd)
		if err != nil {
			return err
		}
		rs = bytes.NewReader(data)
	}

	if byteMode {
		// The extent is just the size, no line scan needed.
		size, err := rs.Seek(0, io.SeekEnd)
		if err != nil {
			return err
		}

		start, ok := spec.Resolve(size)
		if !ok {
			return nil
		}
		return offset.EmitBytes(w, rs, start)
	}

	lines, _, err := offset.CountExtents(rs)
	if err != nil {
		return err
	}

	start, ok := spec.Resolve(lines)
	if !ok {
		return nil
	}

	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return err
	}
	return offset.EmitLines(w, rs, start)
}

func init() {
	mustRegister("tail", "print the last part of files", Tail)
}
