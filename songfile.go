package vsutrack

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// ReadSong decodes a song from .json or .yml contents. JSON is tried first,
// then YAML.
func ReadSong(contents []byte) (Song, error) {
	var song Song
	if errJSON := json.Unmarshal(contents, &song); errJSON != nil {
		song = Song{}
		if errYaml := yaml.Unmarshal(contents, &song); errYaml != nil {
			return Song{}, fmt.Errorf("the song could not be parsed as .json (%v) or .yml (%w)", errJSON, errYaml)
		}
	}
	return song, nil
}

// MarshalSong encodes the song as YAML.
func MarshalSong(song *Song) ([]byte, error) {
	contents, err := yaml.Marshal(song)
	if err != nil {
		return nil, fmt.Errorf("could not marshal song: %w", err)
	}
	return contents, nil
}
