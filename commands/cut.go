package commands

import (
	"bufio"
	"fmt"
	"io"

	"github.com/circulene/goreutils/core/ranges"
	"github.com/circulene/goreutils/core/runenv"
)

// Cut implements the cut command: remove sections from each line of files.
func Cut(env runenv.Env) int {
	cmd := &SimpleCommand{
		Use:   "cut -b LIST|-c LIST|-f LIST [-d DELIM] [FILE]...",
		Short: "Print selected parts of lines from each FILE to standard output.",
	}

	opts := cmd.Flags()
	delim := opts.StringLong("delim", 'd', "\t", "field delimiter")
	fieldList := opts.StringLong("fields", 'f', "", "select only these fields")
	byteList := opts.StringLong("bytes", 'b', "", "select only these bytes")
	charList := opts.StringLong("chars", 'c', "", "select only these characters")

	return cmd.RunE(env, func() error {
		if len(*delim) != 1 {
			return fmt.Errorf("--delim %q must be a single byte", *delim)
		}

		var picked int
		for _, list := range []string{*fieldList, *byteList, *charList} {
			if list != "" {
				picked++
			}
		}
		if picked != 1 {
			return fmt.Errorf("expect one of --fields, --bytes, or --chars")
		}

		var list ranges.List
		var flag string
		var extract func(line string) string
		switch {
		case *fieldList != "":
			flag = "--fields"
			parsed, err := ranges.Parse(*fieldList)
			if err != nil {
				return fmt.Errorf("%v for %s", err, flag)
			}
			list = parsed
			d := (*delim)[0]
			extract = func(line string) string {
				return ranges.ExtractFields(line, d, list)
			}
		case *byteList != "":
			flag = "--bytes"
			parsed, err := ranges.Parse(*byteList)
			if err != nil {
				return fmt.Errorf("%v for %s", err, flag)
			}
			list = parsed
			extract = func(line string) string {
				return ranges.ExtractBytes(line, list)
			}
		default:
			flag = "--chars"
			parsed, err := ranges.Parse(*charList)
			if err != nil {
				return fmt.Errorf("%v for %s", err, flag)
			}
			list = parsed
			extract = func(line string) string {
				return ranges.ExtractChars(line, list)
			}
		}

		cmd.RunEachFileOrStdin(env, opts.Args(), func(name string, fd io.Reader) error {
			w := env.Stdout()
			scanner := bufio.NewScanner(fd)
			scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
			for scanner.Scan() {
				fmt.Fprintln(w, extract(scanner.Text()))
			}
			return scanner.Err()
		})
		return nil
	})
}

func init() {
	mustRegister("cut", "remove sections from each line of files", Cut)
}
