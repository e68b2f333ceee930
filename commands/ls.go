package commands

import (
	"fmt"
	"io/fs"
	"math"
	"os"
	"path"
	"sort"
	"strings"
	"syscall"
	"text/tabwriter"

	fcolor "github.com/fatih/color"
	getopt "github.com/pborman/getopt/v2"

	"github.com/circulene/goreutils/core/runenv"
)

// Ls implements the ls command: list directory contents.
func Ls(env runenv.Env) int {
	opts := getopt.New()
	listAll := opts.BoolLong("all", 'a', "don't ignore entries starting with .")
	longListing := opts.BoolLong("long", 'l', "use a long listing format")
	humanSize := opts.BoolLong("human-readable", 'h', "print human readable sizes")
	lineWidth := opts.IntLong("width", 'w', 80, "set the column width, 0 is infinite")
	helpOpt := opts.BoolLong("help", '?', "show help and exit")

	var color ColorPrinter
	color.Init(opts, env)

	if err := opts.Getopt(env.Args(), nil); err != nil || *helpOpt {
		w := env.Stderr()
		if err != nil {
			logger := env.Log()
			logger.Debug().Err(err).Msg("invalid ls invocation")
			fmt.Fprintln(w, err)
		}
		fmt.Fprintln(w, "Usage: ls [OPTION]... [FILE]...")
		fmt.Fprintln(w, "List information about the FILEs (the current directory by default).")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Flags:")
		opts.PrintOptions(w)
		if err != nil {
			return 1
		}
		return 0
	}

	pathsToList := opts.Args()
	if len(pathsToList) == 0 {
		pathsToList = append(pathsToList, ".")
	}
	sort.Strings(pathsToList)

	showDirectoryNames := len(pathsToList) > 1

	sizeFmt := func(bytes int64) string {
		return fmt.Sprintf("%d", bytes)
	}
	if *humanSize {
		sizeFmt = BytesToHuman
	}

	if *lineWidth == 0 {
		*lineWidth = math.MaxInt32
	}

	exitCode := 0

	for i, listPath := range pathsToList {
		info, err := env.Fs().Stat(listPath)
		if err != nil {
			fmt.Fprintf(env.Stderr(), "%s: %v\n", listPath, err)
			exitCode = 1
			continue
		}

		var entries []os.FileInfo
		if info.IsDir() {
			file, err := env.Fs().Open(listPath)
			if err != nil {
				fmt.Fprintf(env.Stderr(), "%s: %v\n", listPath, err)
				exitCode = 1
				continue
			}

			allEntries, err := file.Readdir(-1)
			file.Close()
			if err != nil {
				fmt.Fprintf(env.Stderr(), "%s: %v\n", listPath, err)
				exitCode = 1
				continue
			}

			for _, entry := range allEntries {
				if !*listAll && strings.HasPrefix(entry.Name(), ".") {
					continue
				}
				entries = append(entries, entry)
			}
		} else {
			entries = append(entries, info)
		}

		sort.Slice(entries, func(i, j int) bool {
			return entries[i].Name() < entries[j].Name()
		})

		if showDirectoryNames && info.IsDir() {
			if i > 0 {
				fmt.Fprintln(env.Stdout())
			}
			fmt.Fprintf(env.Stdout(), "%s:\n", listPath)
		}

		if *longListing {
			lsLongListing(env, &color, entries, info.IsDir(), sizeFmt)
		} else {
			lsColumns(env, &color, entries, *lineWidth)
		}
	}

	return exitCode
}

func lsLongListing(env runenv.Env, color *ColorPrinter, entries []os.FileInfo, isDir bool, sizeFmt func(int64) string) {
	uid2name := func(uid int) string {
		if uid == 0 {
			return "root"
		}
		return fmt.Sprintf("%d", uid)
	}

	var totalSize int64
	for _, entry := range entries {
		totalSize += entry.Size()
	}
	if isDir {
		fmt.Fprintf(env.Stdout(), "total %d\n", totalSize)
	}

	tw := tabwriter.NewWriter(env.Stdout(), 0, 0, 1, ' ', 0)
	for _, f := range entries {
		// Hard link count is approximated: 2 for a directory (self plus
		// parent), 1 otherwise.
		hardLinks := 1
		if f.IsDir() {
			hardLinks = 2
		}

		// Include time if current year.
		currentYear := env.Now().Year()
		modTime := f.ModTime().Format("Jan _2 2006")
		if f.ModTime().Year() >= currentYear {
			modTime = f.ModTime().Format("Jan _2 15:04")
		}

		uid, gid := getUIDGID(f)
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\t%s\t%s\n",
			f.Mode().String(),
			hardLinks,
			uid2name(uid),
			uid2name(gid),
			sizeFmt(f.Size()),
			modTime,
			color.Sprintf(Dircolor(f), "%s", f.Name()))
	}
	tw.Flush()
}

func lsColumns(env runenv.Env, color *ColorPrinter, entries []os.FileInfo, lineWidth int) {
	if len(entries) == 0 {
		return
	}

	colWidths := columnize(entries, lineWidth)
	cols := len(colWidths)
	rows := len(entries) / cols
	if len(entries)%cols > 0 {
		rows++
	}

	w := env.Stdout()
	for row := 0; row < rows; row++ {
		for col, width := range colWidths {
			if col > 0 {
				fmt.Fprint(w, "  ")
			}
			if index := (col * rows) + row; index < len(entries) {
				entry := entries[index]
				name := entry.Name()
				width -= len(name)
				fmt.Fprint(w, color.Sprintf(Dircolor(entry), "%s", name))
			}
			if width > 0 {
				fmt.Fprint(w, strings.Repeat(" ", width))
			}
		}
		fmt.Fprintln(w)
	}
}

type lsColorTest struct {
	color *fcolor.Color
	test  func(fileInfo os.FileInfo) bool
}

// Color listing comes from: https://askubuntu.com/a/884513
var dircolors = []lsColorTest{
	// Directories are bold blue.
	{color: ColorBoldBlue, test: os.FileInfo.IsDir},
	// Symlinks are bold cyan.
	{color: ColorBoldCyan, test: func(fi os.FileInfo) bool {
		return fi.Mode()&fs.ModeSymlink > 0
	}},
	// Yellow with black background for pipe, block device, char device.
	{color: fcolor.New(fcolor.FgYellow, fcolor.BgBlack, fcolor.Bold), test: func(fi os.FileInfo) bool {
		return fi.Mode()&(fs.ModeDevice|fs.ModeNamedPipe|fs.ModeSocket|fs.ModeCharDevice) > 0
	}},
	// Executables are bold green.
	{color: ColorBoldGreen, test: func(fi os.FileInfo) bool {
		return fi.Mode().Perm()&0111 > 0
	}},
	// Archives are bold red.
	{color: ColorBoldRed, test: func(fi os.FileInfo) bool {
		return map[string]bool{
			".tar": true,
			".tgz": true,
			".zip": true,
			".gz":  true,
			".bz2": true,
			".bz":  true,
			".tbz": true,
			".deb": true,
			".rpm": true,
			".jar": true,
			".war": true,
			".rar": true,
		}[path.Ext(fi.Name())]
	}},
}

// Dircolor picks the display color for a directory entry.
func Dircolor(fileInfo os.FileInfo) *fcolor.Color {
	for _, dc := range dircolors {
		if dc.test(fileInfo) {
			return dc.color
		}
	}

	// Anything else defaults to white.
	return fcolor.New(fcolor.FgHiWhite)
}

// columnize computes column widths for the short listing, fitting as many
// columns as the screen width allows.
func columnize(entries []os.FileInfo, screenWidth int) []int {
	numFiles := len(entries)
	if numFiles == 0 {
		return []int{0}
	}

	const colPadding = 2

	// Size of the display of the file name, actual length may vary if there
	// are escape sequences to format it.
	displayLengths := make([]int, len(entries))
	for i, p := range entries {
		displayLengths[i] = len(p.Name())
	}

	// Start with maximum number of columns and work down until all the data
	// fits. 3 is the minimum column width, 1 char filename + 2 padding.
	columns := screenWidth / (1 + colPadding)
	if columns > len(entries) {
		columns = len(entries)
	}
	var maximums []int // Holds maximum size of a name in the column.
	for ; columns >= 1; columns-- {
		maximums = make([]int, columns)
		total := (columns - 1) * colPadding
		rows := (numFiles / columns) + 1
		for i, nameLen := range displayLengths {
			prevMax := maximums[i/rows]
			if nameLen > prevMax {
				maximums[i/rows] = nameLen
				total = total - prevMax + nameLen
				if total > screenWidth {
					break
				}
			}
		}

		if total <= screenWidth {
			return maximums
		}
	}

	return maximums
}

// getUIDGID extracts ownership from the platform-specific stat when
// available.
func getUIDGID(fileInfo os.FileInfo) (uid, gid int) {
	switch v := (fileInfo.Sys()).(type) {
	case *syscall.Stat_t:
		return int(v.Uid), int(v.Gid)
	default:
		return 0, 0
	}
}

func init() {
	mustRegister("ls", "list directory contents", Ls)
}
