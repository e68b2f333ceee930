package commands

import (
	"bufio"
	"fmt"
	"io"

	"github.com/circulene/goreutils/core/runenv"
)

// Uniq implements the uniq command: collapse adjacent repeated lines.
func Uniq(env runenv.Env) int {
	cmd := &SimpleCommand{
		Use:   "uniq [-c] [IN_FILE [OUT_FILE]]",
		Short: "Filter adjacent matching lines from IN_FILE, writing to OUT_FILE.",
	}

	opts := cmd.Flags()
	showCount := opts.BoolLong("count", 'c', "prefix lines by the number of occurrences")

	return cmd.RunE(env, func() error {
		args := opts.Args()
		if len(args) > 2 {
			return fmt.Errorf("extra operand %q", args[2])
		}

		inFile := "-"
		if len(args) > 0 {
			inFile = args[0]
		}

		in, err := runenv.Open(env, inFile)
		if err != nil {
			return fmt.Errorf("%s: %v", inFile, err)
		}
		defer in.Close()

		var out io.Writer = env.Stdout()
		if len(args) > 1 {
			outFd, err := env.Fs().Create(args[1])
			if err != nil {
				return fmt.Errorf("%s: %v", args[1], err)
			}
			defer outFd.Close()
			out = outFd
		}

		return uniqLines(out, in, *showCount)
	})
}

// uniqLines writes each run of identical adjacent lines once. Line
// terminators take part in the comparison, so a final unterminated line is
// distinct from its terminated twin and is written back without a newline.
func uniqLines(out io.Writer, in io.Reader, showCount bool) error {
	br := bufio.NewReader(in)

	var prev string
	var counter int

	flush := func() error {
		if counter == 0 {
			return nil
		}
		if showCount {
			_, err := fmt.Fprintf(out, "%4d %s", counter, prev)
			return err
		}
		_, err := io.WriteString(out, prev)
		return err
	}

	for {
		line, err := br.ReadString('\n')
		if len(line) > 0 {
			if counter > 0 && line != prev {
				if werr := flush(); werr != nil {
					return werr
				}
				counter = 0
			}
			counter++
			prev = line
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
	}

	return flush()
}

func init() {
	mustRegister("uniq", "report or omit repeated lines", Uniq)
}
