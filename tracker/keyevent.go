package tracker

import (
	_ "embed"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v2"
)

type (
	KeyAction string

	KeyBinding struct {
		Key    string
		Action string
	}

	// KeyMap maps key names (see KeyName) to actions.
	KeyMap map[string]KeyAction
)

//go:embed keybindings.yml
var defaultKeyBindingsYaml []byte

func loadDefaultKeyBindings() []KeyBinding {
	var keyBindings []KeyBinding
	err := yaml.Unmarshal(defaultKeyBindingsYaml, &keyBindings)
	if err != nil {
		panic(fmt.Errorf("failed to unmarshal keybindings: %w", err))
	}
	return keyBindings
}

func loadCustomKeyBindings() []KeyBinding {
	var keyBindings []KeyBinding
	_, err := ReadCustomConfigYml("keybindings.yml", &keyBindings)
	if err != nil {
		return nil
	}
	return keyBindings
}

// MakeKeyMap builds the key map from the default bindings and the user's
// keybindings.yml; user bindings override the defaults for the same key.
func MakeKeyMap() KeyMap {
	return NewKeyMap(append(loadDefaultKeyBindings(), loadCustomKeyBindings()...))
}

func NewKeyMap(bindings []KeyBinding) KeyMap {
	ret := KeyMap{}
	for _, kb := range bindings {
		if kb.Action == "" {
			delete(ret, kb.Key)
			continue
		}
		ret[kb.Key] = KeyAction(kb.Action)
	}
	return ret
}

// KeyName names the key that produced the given terminal input, using the
// same names as keybindings.yml.
func KeyName(input []byte) string {
	if len(input) != 1 {
		if len(input) > 1 && input[0] == 0x1b {
			return "" // escape sequence, e.g. arrow keys
		}
		return string(input)
	}
	switch input[0] {
	case ' ':
		return "Space"
	case 0x1b:
		return "Escape"
	case 0x7f, 0x08:
		return "Backspace"
	case '\r', '\n':
		return "Enter"
	}
	return string(input)
}

// Semitone returns n for the action "Note<n>".
func (a KeyAction) Semitone() (int, bool) {
	s, ok := strings.CutPrefix(string(a), "Note")
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}
