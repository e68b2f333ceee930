package commands

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/circulene/goreutils/core/runenv"
)

// Comm implements the comm command: compare two sorted files line by line.
func Comm(env runenv.Env) int {
	cmd := &SimpleCommand{
		Use:   "comm [-123i] [-d DELIM] FILE1 FILE2",
		Short: "Select or reject lines common to two sorted files.",
	}

	opts := cmd.Flags()
	hideCol1 := opts.Bool('1', "suppress printing of column 1")
	hideCol2 := opts.Bool('2', "suppress printing of column 2")
	hideCol3 := opts.Bool('3', "suppress printing of column 3")
	insensitive := opts.Bool('i', "case-insensitive comparison of lines")
	delimiter := opts.StringLong("output-delimiter", 'd', "\t", "output delimiter")

	return cmd.RunE(env, func() error {
		args := opts.Args()
		if len(args) != 2 {
			return fmt.Errorf("expect two input files")
		}
		file1, file2 := args[0], args[1]
		if file1 == "-" && file2 == "-" {
			return fmt.Errorf(`both input files cannot be STDIN ("-")`)
		}

		fd1, err := runenv.Open(env, file1)
		if err != nil {
			return fmt.Errorf("%s: %v", file1, err)
		}
		defer fd1.Close()

		fd2, err := runenv.Open(env, file2)
		if err != nil {
			return fmt.Errorf("%s: %v", file2, err)
		}
		defer fd2.Close()

		compare := func(s1, s2 string) int {
			if *insensitive {
				s1 = strings.ToLower(s1)
				s2 = strings.ToLower(s2)
			}
			return strings.Compare(s1, s2)
		}

		w := env.Stdout()

		print1 := func(s string) {
			if !*hideCol1 {
				fmt.Fprintln(w, s)
			}
		}
		print2 := func(s string) {
			if *hideCol2 {
				return
			}
			if !*hideCol1 {
				fmt.Fprint(w, *delimiter)
			}
			fmt.Fprintln(w, s)
		}
		print3 := func(s string) {
			if *hideCol3 {
				return
			}
			if !*hideCol1 {
				fmt.Fprint(w, *delimiter)
			}
			if !*hideCol2 {
				fmt.Fprint(w, *delimiter)
			}
			fmt.Fprintln(w, s)
		}

		lines1 := bufio.NewScanner(fd1)
		lines2 := bufio.NewScanner(fd2)

		next := func(s *bufio.Scanner) (string, bool) {
			if s.Scan() {
				return s.Text(), true
			}
			return "", false
		}

		line1, ok1 := next(lines1)
		line2, ok2 := next(lines2)
		for ok1 || ok2 {
			switch {
			case ok1 && ok2:
				switch cmp := compare(line1, line2); {
				case cmp < 0:
					print1(line1)
					line1, ok1 = next(lines1)
				case cmp > 0:
					print2(line2)
					line2, ok2 = next(lines2)
				default:
					print3(line1)
					line1, ok1 = next(lines1)
					line2, ok2 = next(lines2)
				}
			case ok1:
				print1(line1)
				line1, ok1 = next(lines1)
			default:
				print2(line2)
				line2, ok2 = next(lines2)
			}
		}

		if err := lines1.Err(); err != nil {
			return err
		}
		return lines2.Err()
	})
}

func init() {
	mustRegister("comm", "compare two sorted files line by line", Comm)
}
