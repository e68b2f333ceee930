package main

import (
	"os"
	"path/filepath"

	"github.com/circulene/goreutils/cmd"
)

func main() {
	// Busybox-style dispatch: a link named after an applet runs it directly.
	if name := filepath.Base(os.Args[0]); name != "goreutils" {
		if code, ok := cmd.RunApplet(name, os.Args[1:]); ok {
			os.Exit(code)
		}
	}

	cmd.Execute()
}
