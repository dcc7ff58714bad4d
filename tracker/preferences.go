package tracker

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v2"
)

type (
	Preferences struct {
		TickIntervalMs int
		TestNoteMs     int
		MIDI           MIDIPreferences
		YmlError       error `yaml:"-"`
	}

	MIDIPreferences struct {
		Output      string
		BaseChannel int
		Velocity    int
	}
)

//go:embed preferences.yml
var defaultPreferencesYaml []byte

func loadDefaultPreferences() Preferences {
	var preferences Preferences
	err := yaml.UnmarshalStrict(defaultPreferencesYaml, &preferences)
	if err != nil {
		panic(fmt.Errorf("failed to unmarshal preferences: %w", err))
	}
	return preferences
}

// ReadCustomConfigYml reads a yml file from the vsutrack directory of the user
// config dir into target, which should be a pointer. exists is false if there
// is no such file.
func ReadCustomConfigYml(filename string, target any) (exists bool, err error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return false, err
	}
	path := filepath.Join(configDir, "vsutrack", filename)
	bytes, err2 := os.ReadFile(path)
	if err2 != nil {
		return false, err2
	}
	err = yaml.Unmarshal(bytes, target)
	return true, err
}

// MakePreferences returns the default preferences overridden by the user's
// preferences.yml, if there is one. A malformed user file is reported in
// YmlError and the defaults are kept for the fields that could not be read.
func MakePreferences() Preferences {
	preferences := loadDefaultPreferences()
	exists, err := ReadCustomConfigYml("preferences.yml", &preferences)
	if exists {
		preferences.YmlError = err
	}
	return preferences
}

// TickInterval is the period of the playback timer.
func (p Preferences) TickInterval() time.Duration {
	if p.TickIntervalMs <= 0 {
		return 5 * time.Millisecond
	}
	return time.Duration(p.TickIntervalMs) * time.Millisecond
}

// TestNoteDuration is the duration of auditioned notes; zero holds the note.
func (p Preferences) TestNoteDuration() time.Duration {
	return time.Duration(max(p.TestNoteMs, 0)) * time.Millisecond
}
