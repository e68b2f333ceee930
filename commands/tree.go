package commands

import (
	"fmt"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/spf13/afero"

	"github.com/circulene/goreutils/core/runenv"
)

// treeTally counts the entries a tree walk visited.
type treeTally struct {
	dirs  int
	files int
}

func (t *treeTally) add(isDir bool) {
	if isDir {
		t.dirs++
	} else {
		t.files++
	}
}

// Tree implements the tree command: recursively list directories as a tree.
func Tree(env runenv.Env) int {
	cmd := &SimpleCommand{
		Use:   "tree [PATH]",
		Short: "list the contents of directories in a tree-like format",
	}

	return cmd.RunE(env, func() error {
		root := "."
		if args := cmd.Flags().Args(); len(args) > 0 {
			root = args[0]
		}

		if _, err := env.Fs().Stat(root); err != nil {
			return err
		}

		fmt.Fprintln(env.Stdout(), root)

		var tally treeTally
		if err := treeWalk(env, root, 1, &tally); err != nil {
			return err
		}
		tally.add(true)

		fmt.Fprintf(env.Stdout(), "\n%d directories, %d files\n", tally.dirs, tally.files)
		return nil
	})
}

// treeWalk prints one directory level and recurses. Depth starts at 1 for the
// entries directly under the root.
func treeWalk(env runenv.Env, dir string, depth int, tally *treeTally) error {
	fd, err := env.Fs().Open(dir)
	if err != nil {
		return err
	}
	entries, err := fd.Readdir(-1)
	fd.Close()
	if err != nil {
		return err
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	for i, entry := range entries {
		isLast := i == len(entries)-1
		child := path.Join(dir, entry.Name())
		treePrintEntry(env, child, entry, depth, isLast)
		tally.add(entry.IsDir())
		if entry.IsDir() {
			if err := treeWalk(env, child, depth+1, tally); err != nil {
				return err
			}
		}
	}

	return nil
}

func treePrintEntry(env runenv.Env, child string, entry os.FileInfo, depth int, isLast bool) {
	w := env.Stdout()
	if depth > 1 {
		fmt.Fprint(w, "│   ")
		fmt.Fprint(w, strings.Repeat("    ", depth-2))
	}

	name := entry.Name()
	if entry.Mode()&os.ModeSymlink != 0 {
		if reader, ok := env.Fs().(afero.LinkReader); ok {
			if target, err := reader.ReadlinkIfPossible(child); err == nil {
				name += " -> " + target
			}
		}
	}

	connector := "├──"
	if isLast {
		connector = "└──"
	}
	fmt.Fprintf(w, "%s %s\n", connector, name)
}

func init() {
	mustRegister("tree", "list directory contents in a tree-like format", Tree)
}
