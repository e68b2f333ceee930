package commands

import (
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path"
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/spf13/afero"

	"github.com/circulene/goreutils/core/runenv"
)

// fortuneCookie is one %-delimited entry from a fortune file.
type fortuneCookie struct {
	source string
	text   string
}

// Fortune implements the fortune command: print a random epigram.
func Fortune(env runenv.Env) int {
	cmd := &SimpleCommand{
		Use:   "fortune [-m PATTERN] [-i] [-s SEED] [FILE_OR_DIR...]",
		Short: "print a random, hopefully interesting, adage",
	}
	pattern := cmd.Flags().StringLong("pattern", 'm', "", "print every fortune matching PATTERN")
	insensitive := cmd.Flags().BoolLong("insensitive", 'i', "case-insensitive pattern matching")
	seed := cmd.Flags().Int64Long("seed", 's', 0, "random seed")

	return cmd.RunE(env, func() error {
		sources := cmd.Flags().Args()
		if len(sources) == 0 {
			sources = env.Config().FortunePaths
		}
		if len(sources) == 0 {
			return errors.New("no fortune sources given")
		}

		files, err := fortuneFindFiles(env.Fs(), sources)
		if err != nil {
			return err
		}
		cookies, err := fortuneRead(env.Fs(), files)
		if err != nil {
			return err
		}

		if *pattern != "" {
			expr := *pattern
			if *insensitive {
				expr = "(?i)" + expr
			}
			re, err := regexp.Compile(expr)
			if err != nil {
				return fmt.Errorf("invalid pattern %q: %v", *pattern, err)
			}

			// Announce each source once on stderr so the matches on
			// stdout stay a valid fortune file.
			prevSource := ""
			for _, cookie := range cookies {
				if !re.MatchString(cookie.text) {
					continue
				}
				if cookie.source != prevSource {
					fmt.Fprintf(env.Stderr(), "(%s)\n%%\n", cookie.source)
					prevSource = cookie.source
				}
				fmt.Fprintf(env.Stdout(), "%s\n%%\n", cookie.text)
			}
			return nil
		}

		if len(cookies) == 0 {
			fmt.Fprintln(env.Stdout(), "No fortunes found")
			return nil
		}

		seedValue := env.Now().UnixNano()
		if cmd.Flags().Lookup("seed").Seen() {
			seedValue = *seed
		}
		rng := rand.New(rand.NewSource(seedValue))
		fmt.Fprintln(env.Stdout(), cookies[rng.Intn(len(cookies))].text)
		return nil
	})
}

// fortuneFindFiles resolves sources to a sorted, deduplicated list of regular
// files. A source that doesn't exist is fatal.
func fortuneFindFiles(fsys afero.Fs, sources []string) ([]string, error) {
	var files []string
	for _, src := range sources {
		info, err := fsys.Stat(src)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, src)
			continue
		}

		err = afero.Walk(fsys, src, func(p string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.Mode().IsRegular() {
				files = append(files, p)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	sort.Strings(files)
	var deduped []string
	for _, f := range files {
		if len(deduped) == 0 || deduped[len(deduped)-1] != f {
			deduped = append(deduped, f)
		}
	}
	return deduped, nil
}

// fortuneRead parses %-delimited cookies. Whitespace-only cookies are
// dropped, as is any trailing text not closed by a % line.
func fortuneRead(fsys afero.Fs, files []string) ([]fortuneCookie, error) {
	var cookies []fortuneCookie
	for _, name := range files {
		data, err := afero.ReadFile(fsys, name)
		if err != nil {
			return nil, err
		}

		source := path.Base(name)
		var text strings.Builder
		for _, line := range strings.SplitAfter(string(data), "\n") {
			if !strings.HasPrefix(line, "%") {
				text.WriteString(line)
				continue
			}
			cookie := strings.TrimRightFunc(text.String(), unicode.IsSpace)
			if cookie != "" {
				cookies = append(cookies, fortuneCookie{source: source, text: cookie})
			}
			text.Reset()
		}
	}
	return cookies, nil
}

func init() {
	mustRegister("fortune", "print a random, hopefully interesting, adage", Fortune)
}
