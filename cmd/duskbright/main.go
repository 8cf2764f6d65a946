package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/alex-vit/duskbright/internal/config"
	"github.com/alex-vit/duskbright/internal/display"
	"github.com/alex-vit/duskbright/internal/session"
	"github.com/alex-vit/duskbright/internal/state"
	"github.com/spf13/cobra"
)

var version = ""

var (
	dataDir string
	logPath string
)

const (
	backupName = "ramp_backup.json"
	lockName   = "duskbright.lock"
)

type isoLogWriter struct{ w io.Writer }

func (lw isoLogWriter) Write(p []byte) (int, error) {
	return fmt.Fprintf(lw.w, "%s %s", time.Now().Format("2006-01-02 15:04:05"), p)
}

func displayVersion() string {
	if version != "" {
		return version
	}
	return "dev"
}

var restoreFlag bool

var rootCmd = &cobra.Command{
	Use:   "duskbright",
	Short: "Dim the display below its hardware minimum via the gamma ramp",
	Run: func(cmd *cobra.Command, args []string) {
		if restoreFlag {
			runRestore()
			return
		}
		runTray()
	},
}

var restoreCmd = &cobra.Command{
	Use:   "restore",
	Short: "Restore the display gamma ramp and clear leftover safety files",
	Run: func(cmd *cobra.Command, args []string) {
		runRestore()
	},
}

// runRestore is the manual recovery path: repair the display from the
// on-disk backup (identity ramp if there is none) and clear the
// lockfile and backup, without starting a session.
func runRestore() {
	log.Printf("manual restore requested")
	dev := display.NewGDI()
	store := state.NewStore(filepath.Join(dataDir, backupName))
	lock := state.NewLock(filepath.Join(dataDir, lockName))
	if session.ManualRestore(dev, store, lock) {
		fmt.Fprintln(os.Stderr, "Gamma ramp restored to default.")
	} else {
		fmt.Fprintln(os.Stderr, "Gamma ramp restore failed, see log for details.")
	}
}

func main() {
	log.SetFlags(0)
	dataDir = config.Dir()
	logPath = filepath.Join(dataDir, "log.txt")
	if f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644); err == nil {
		log.SetOutput(isoLogWriter{f})
	}
	log.Printf("DuskBright %s starting", displayVersion())

	rootCmd.Flags().BoolVar(&restoreFlag, "restore", false, "restore the display gamma ramp and exit")
	rootCmd.AddCommand(restoreCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
