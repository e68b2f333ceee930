package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/spf13/afero"

	"github.com/circulene/goreutils/core/runenv"
)

var findSizeRE = regexp.MustCompile(`^([+-]?)(\d+)([bckMGT]?)$`)

// findSize is a find-style size predicate: [+-]N[bckMGT], compared against
// the file size in rounded-up blocks.
type findSize struct {
	cmp     byte // '+', '-', or 0 for exact
	size    int64
	blksize int64
}

func parseFindSize(value string) (*findSize, error) {
	m := findSizeRE.FindStringSubmatch(value)
	if m == nil {
		return nil, fmt.Errorf("invalid size %q", value)
	}

	size, err := strconv.ParseInt(m[2], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid size %q", value)
	}

	out := &findSize{size: size, blksize: 512}
	if m[1] != "" {
		out.cmp = m[1][0]
	}
	switch m[3] {
	case "", "b":
		out.blksize = 512
	case "c":
		out.blksize = 1
	case "k":
		out.blksize = 1024
	case "M":
		out.blksize = 1024 * 1024
	case "G":
		out.blksize = 1024 * 1024 * 1024
	case "T":
		out.blksize = 1024 * 1024 * 1024 * 1024
	}
	return out, nil
}

func (s *findSize) matches(byteSize int64) bool {
	blocks := byteSize / s.blksize
	if byteSize%s.blksize != 0 {
		blocks++
	}

	switch s.cmp {
	case '+':
		return blocks > s.size
	case '-':
		return blocks < s.size
	default:
		return blocks == s.size
	}
}

// Find implements the find command: search a directory hierarchy.
func Find(env runenv.Env) int {
	cmd := &SimpleCommand{
		Use:   "find [PATH]... [-n REGEX]... [-t d|f|l]... [--mindepth N] [--maxdepth N] [--size SIZE]",
		Short: "Search the given directory trees, printing entries that match every filter.",
	}

	opts := cmd.Flags()
	namePatterns := opts.ListLong("name", 'n', "entry name regex, repeatable")
	entryTypes := opts.ListLong("type", 't', "entry type: d, f, or l, repeatable")
	minDepth := opts.IntLong("mindepth", rune(0), 0, "minimum descent depth")
	maxDepth := opts.IntLong("maxdepth", rune(0), -1, "maximum descent depth")
	sizeSpec := opts.StringLong("size", rune(0), "", "file size, e.g. +10k")

	return cmd.RunE(env, func() error {
		var names []*regexp.Regexp
		for _, pattern := range *namePatterns {
			re, err := regexp.Compile(pattern)
			if err != nil {
				return fmt.Errorf("invalid --name pattern %q", pattern)
			}
			names = append(names, re)
		}

		for _, entryType := range *entryTypes {
			switch entryType {
			case "d", "f", "l":
			default:
				return fmt.Errorf("invalid --type %q, possible values are d, f, or l", entryType)
			}
		}

		var size *findSize
		if *sizeSpec != "" {
			parsed, err := parseFindSize(*sizeSpec)
			if err != nil {
				return err
			}
			size = parsed
		}

		paths := opts.Args()
		if len(paths) == 0 {
			paths = []string{"."}
		}

		matches := func(name string, info os.FileInfo) bool {
			if len(names) > 0 {
				any := false
				for _, re := range names {
					if re.MatchString(name) {
						any = true
						break
					}
				}
				if !any {
					return false
				}
			}

			if len(*entryTypes) > 0 {
				any := false
				for _, entryType := range *entryTypes {
					switch entryType {
					case "d":
						any = any || info.IsDir()
					case "f":
						any = any || info.Mode().IsRegular()
					case "l":
						any = any || info.Mode()&os.ModeSymlink != 0
					}
				}
				if !any {
					return false
				}
			}

			if size != nil && !size.matches(info.Size()) {
				return false
			}

			return true
		}

		w := env.Stdout()
		for _, root := range paths {
			root := strings.TrimSuffix(root, "/")
			if root == "" {
				root = "/"
			}

			err := afero.Walk(env.Fs(), root, func(child string, info os.FileInfo, err error) error {
				if err != nil {
					fmt.Fprintf(env.Stderr(), "%s\n", err)
					return nil
				}

				depth := findDepth(root, child)
				if *maxDepth >= 0 && depth > *maxDepth {
					if info.IsDir() {
						return filepath.SkipDir
					}
					return nil
				}

				if depth >= *minDepth && matches(info.Name(), info) {
					fmt.Fprintln(w, child)
				}
				return nil
			})
			if err != nil {
				fmt.Fprintf(env.Stderr(), "%s: %v\n", root, err)
			}
		}

		return nil
	})
}

// findDepth counts path segments between the walk root and the entry.
func findDepth(root, child string) int {
	if child == root {
		return 0
	}
	rel := strings.TrimPrefix(child, root)
	rel = strings.Trim(rel, "/")
	if rel == "" {
		return 0
	}
	return strings.Count(rel, "/") + 1
}

func init() {
	mustRegister("find", "search for files in a directory hierarchy", Find)
}
