// Package config loads user settings from duskbright.yaml in the user
// config directory. A missing or broken file falls back to defaults;
// settings are read once at startup.
package config

import (
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

type Settings struct {
	// FloorPercent is the lowest percentage offered; never below 10.
	FloorPercent int `mapstructure:"floor_percent"`
	// StartupPercent is applied right after a clean start; 0 leaves
	// the display alone.
	StartupPercent int `mapstructure:"startup_percent"`
	// Hotkeys enables the Win+Numpad global bindings.
	Hotkeys bool `mapstructure:"hotkeys"`
	// Backlight enables DDC/CI hardware brightness control alongside
	// gamma dimming.
	Backlight bool `mapstructure:"backlight"`
}

// Dir returns the directory holding settings, the lockfile, the ramp
// backup and the log. Created on first use.
func Dir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		base = "."
	}
	dir := filepath.Join(base, "DuskBright")
	os.MkdirAll(dir, 0o755)
	return dir
}

// Load reads duskbright.yaml from dir. Absent file means defaults;
// a malformed file is logged and also means defaults.
func Load(dir string) Settings {
	v := viper.New()
	v.SetConfigName("duskbright")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)

	v.SetDefault("floor_percent", 10)
	v.SetDefault("startup_percent", 0)
	v.SetDefault("hotkeys", true)
	v.SetDefault("backlight", true)

	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); notFound {
			log.Printf("config: no settings file, using defaults")
		} else {
			log.Printf("config: %v, using defaults", err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		log.Printf("config: unmarshal error: %v, using defaults", err)
		return Settings{FloorPercent: 10, Hotkeys: true, Backlight: true}
	}
	if s.FloorPercent < 10 {
		s.FloorPercent = 10
	}
	if s.StartupPercent != 0 && s.StartupPercent < s.FloorPercent {
		s.StartupPercent = s.FloorPercent
	}
	if s.StartupPercent > 100 {
		s.StartupPercent = 100
	}
	return s
}
