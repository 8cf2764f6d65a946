//go:build windows

package main

import (
	"fmt"
	"log"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/alex-vit/duskbright/internal/config"
	"github.com/alex-vit/duskbright/internal/display"
	"github.com/alex-vit/duskbright/internal/hotkey"
	"github.com/alex-vit/duskbright/internal/icon"
	"github.com/alex-vit/duskbright/internal/session"
	"github.com/alex-vit/duskbright/internal/state"
	"github.com/energye/systray"
	"github.com/niluan304/ddcci"
)

const VKNumpad0 = 0x60

var (
	sess          *session.Session
	settings      config.Settings
	brightItems   map[int]*systray.MenuItem
	backlightMons []*ddcci.PhysicalMonitor
	currentLevel  = 100
)

func runTray() {
	settings = config.Load(dataDir)

	dev := display.NewGDI()
	store := state.NewStore(filepath.Join(dataDir, backupName))
	lock := state.NewLock(filepath.Join(dataDir, lockName))
	sess = session.New(dev, store, lock)
	sess.SetFloor(settings.FloorPercent)

	// Every termination path converges on sess.Cleanup: the signal
	// handler, the Quit menu item (systray.Quit unwinds systray.Run)
	// and this defer for a normal return.
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM)
	go func() {
		s := <-sigc
		log.Printf("received %v, restoring gamma and exiting", s)
		sess.Cleanup()
		os.Exit(0)
	}()
	defer sess.Cleanup()

	sess.Start()

	systray.Run(onReady, nil)
}

func onReady() {
	systray.SetIcon(icon.Generate(currentLevel))
	systray.SetTooltip("DuskBright")

	title := "DuskBright " + displayVersion()
	mTitle := systray.AddMenuItem(title, "")
	mTitle.Disable()
	systray.AddMenuItem("Open log", "Open log file").Click(func() {
		exec.Command("rundll32", "url.dll,FileProtocolHandler", logPath).Start()
	})
	systray.AddSeparator()

	if settings.Backlight {
		initBacklight()
	}

	// Menu items: 100, 90, ..., 10 (descending).
	brightItems = make(map[int]*systray.MenuItem)
	for i := 10; i >= 1; i-- {
		level := i * 10
		item := systray.AddMenuItem(fmt.Sprintf("%d%%", level), fmt.Sprintf("Set brightness to %d%%", level))
		brightItems[level] = item
	}
	checkItem(brightItems, currentLevel)

	for level, item := range brightItems {
		item.Click(func() { setLevel(level) })
	}

	systray.AddSeparator()
	systray.AddMenuItem("Restore Default", "Restore the original gamma ramp").Click(restoreDefault)

	mAutostart := systray.AddMenuItem("Start with Windows", "Launch DuskBright at login")
	if autostartEnabled() {
		mAutostart.Check()
	}
	mAutostart.Click(func() { toggleAutostart(mAutostart) })

	systray.AddSeparator()
	systray.AddMenuItem("Quit", "Restore the display and quit").Click(func() { systray.Quit() })

	if settings.Hotkeys {
		// Hotkeys: Win+Numpad1=10%, Win+Numpad2=20%, ..., Win+Numpad0=100%
		var bindings []hotkey.Binding
		var levels []int
		for i := 0; i <= 9; i++ {
			bindings = append(bindings, hotkey.Binding{Mod: hotkey.ModWin, VK: VKNumpad0 + i})
			level := i * 10
			if level == 0 {
				level = 100
			}
			levels = append(levels, level)
		}
		go func() {
			if err := hotkey.Listen(bindings, func(id int) {
				setLevel(levels[id])
			}); err != nil {
				log.Printf("hotkey registration error: %v", err)
			}
		}()
	}

	if settings.StartupPercent != 0 {
		setLevel(settings.StartupPercent)
	}
}

// setLevel maps a menu level onto the available range. With a DDC/CI
// backlight the top half of the scale drives the hardware backlight
// and the bottom half dims below its minimum via the gamma ramp;
// without one the level goes to the gamma ramp directly.
func setLevel(level int) {
	if level < 10 {
		level = 10
	} else if level > 100 {
		level = 100
	}

	gamma := level
	if len(backlightMons) > 0 {
		if level >= 50 {
			setBacklight((level - 50) * 2)
			gamma = 100
		} else {
			setBacklight(0)
			gamma = level * 2
		}
	}

	if sess.SetBrightness(gamma) {
		currentLevel = level
	} else {
		log.Printf("level %d%% rejected, keeping %d%%", level, currentLevel)
	}
	checkItem(brightItems, currentLevel)
	updateIcon(currentLevel)
}

func restoreDefault() {
	if len(backlightMons) > 0 {
		setBacklight(100)
	}
	if sess.RestoreOriginal() {
		currentLevel = 100
	}
	checkItem(brightItems, currentLevel)
	updateIcon(currentLevel)
}

func initBacklight() {
	sysMonitors, err := ddcci.NewSystemMonitors()
	if err != nil || len(sysMonitors) == 0 {
		log.Printf("backlight: no DDC/CI monitors (err=%v), gamma only", err)
		return
	}
	for i := range sysMonitors {
		m, err := ddcci.NewPhysicalMonitor(&sysMonitors[i])
		if err != nil {
			log.Printf("backlight: monitor %d: %v", i, err)
			continue
		}
		backlightMons = append(backlightMons, m)
	}
	log.Printf("backlight: controlling %d DDC/CI monitors", len(backlightMons))
}

func setBacklight(level int) {
	for i, m := range backlightMons {
		if err := m.SetBrightness(level); err != nil {
			log.Printf("backlight: monitor %d: SetBrightness(%d) error: %v", i, level, err)
		}
	}
}

func updateIcon(level int) {
	systray.SetIcon(icon.Generate(level))
	systray.SetTooltip(fmt.Sprintf("DuskBright %d%%", level))
}

func checkItem(items map[int]*systray.MenuItem, level int) {
	// Round to the nearest preset so a startup_percent like 75 still
	// shows a checkmark.
	nearest := max(((level+5)/10)*10, 10)
	for l, item := range items {
		if l == nearest {
			item.Check()
		} else {
			item.Uncheck()
		}
	}
}
