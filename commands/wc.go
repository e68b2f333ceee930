package commands

import (
	"fmt"
	"io"
	"unicode"

	"github.com/circulene/goreutils/core/runenv"
)

type wcCount struct {
	bytes int64
	lines int64
	chars int64
	words int64
	name  string

	inSpace bool
}

// Write counts the chunk in a single pass so sources never need rewinding.
func (w *wcCount) Write(data []byte) (int, error) {
	for _, c := range data {
		isFirstByte := w.bytes == 0
		w.bytes++

		// Assume UTF-8 characters. Bytes following the leading byte always
		// have MSB of 0b10 indicating they're part of a previous character.
		if c < 0b10000000 || c > 0b10111111 {
			w.chars++
		}

		if c == '\n' {
			w.lines++
		}

		if unicode.IsSpace(rune(c)) {
			w.inSpace = true
		} else {
			if w.inSpace || isFirstByte {
				w.words++
			}
			w.inSpace = false
		}
	}

	return len(data), nil
}

func newWcCount(name string, fd io.Reader) (*wcCount, error) {
	out := &wcCount{name: name}

	if _, err := io.Copy(out, fd); err != nil {
		return nil, err
	}

	return out, nil
}

func (w *wcCount) increment(other *wcCount) {
	w.bytes += other.bytes
	w.chars += other.chars
	w.lines += other.lines
	w.words += other.words
}

// Wc implements the POSIX command by the same name.
// https://pubs.opengroup.org/onlinepubs/009695399/utilities/wc.html
func Wc(env runenv.Env) int {
	cmd := &SimpleCommand{
		Use:   "wc [-c|-m] [-lw] [FILE...]",
		Short: "Write the number of newlines, words, and bytes contained in each input file to the standard output.",
	}

	opts := cmd.Flags()
	writeLines := opts.BoolLong("lines", 'l', "write the number of newlines in each file")
	writeWords := opts.BoolLong("words", 'w', "write the number of words in each file")
	writeBytes := opts.BoolLong("bytes", 'c', "write the number of bytes in each file")
	writeChars := opts.BoolLong("chars", 'm', "write the number of characters in each file")

	return cmd.RunE(env, func() error {
		if *writeBytes && *writeChars {
			return fmt.Errorf("can't combine --bytes and --chars")
		}

		anyPicked := *writeLines || *writeWords || *writeBytes || *writeChars
		if !anyPicked {
			*writeLines = true
			*writeWords = true
			*writeBytes = true
		}

		var cols []func(*wcCount) int64
		if *writeLines {
			cols = append(cols, func(w *wcCount) int64 { return w.lines })
		}
		if *writeWords {
			cols = append(cols, func(w *wcCount) int64 { return w.words })
		}
		if *writeBytes {
			cols = append(cols, func(w *wcCount) int64 { return w.bytes })
		}
		if *writeChars {
			cols = append(cols, func(w *wcCount) int64 { return w.chars })
		}

		displayCount := func(count *wcCount) {
			for _, col := range cols {
				fmt.Fprintf(env.Stdout(), "%8d", col(count))
			}
			if count.name != "-" {
				fmt.Fprintf(env.Stdout(), " %s", count.name)
			}
			fmt.Fprintln(env.Stdout())
		}

		files := opts.Args()
		if len(files) == 0 {
			files = []string{"-"}
		}

		total := &wcCount{name: "total"}
		for _, name := range files {
			fd, err := runenv.Open(env, name)
			if err != nil {
				fmt.Fprintf(env.Stderr(), "%s: %v\n", name, err)
				continue
			}

			count, err := newWcCount(name, fd)
			fd.Close()
			if err != nil {
				fmt.Fprintf(env.Stderr(), "%s: %v\n", name, err)
				continue
			}

			displayCount(count)
			total.increment(count)
		}

		if len(files) > 1 {
			displayCount(total)
		}

		return nil
	})
}

func init() {
	mustRegister("wc", "print newline, word, and byte counts", Wc)
}
