//go:build !windows

package main

import (
	"fmt"
	"os"
)

func runTray() {
	fmt.Fprintln(os.Stderr, "duskbright: the tray session requires windows; `duskbright restore` works everywhere a backup exists")
	os.Exit(1)
}
