package compiler_test

import (
	"strings"
	"testing"

	"github.com/vuengine/vsutrack"
	"github.com/vuengine/vsutrack/compiler"
)

func testSong() vsutrack.Song {
	c4, e4 := vsutrack.Note(12), vsutrack.Note(16)
	return vsutrack.Song{
		Name:  "my tune",
		Speed: 50,
		Loop:  true,
		Channels: []vsutrack.Channel{
			{Instrument: "lead", Sequence: map[int]vsutrack.PatternID{0: "a"}},
			{Instrument: "lead", Sequence: map[int]vsutrack.PatternID{0: "a"}, Muted: true},
			{Instrument: "lead", Sequence: map[int]vsutrack.PatternID{0: "b"}},
		},
		Patterns: map[vsutrack.PatternID]vsutrack.Pattern{
			"a": {Size: 1, Events: map[int]vsutrack.Event{0: {Note: &c4}}},
			"b": {Size: 2, Events: map[int]vsutrack.Event{
				4:  {Note: &e4, Duration: 8, Volume: &vsutrack.StereoLevels{Left: 15, Right: 8}},
				20: {Instrument: "bass"},
			}},
		},
		Instruments: map[vsutrack.InstrumentID]vsutrack.Instrument{
			"lead": {Waveform: "saw", Volume: vsutrack.StereoLevels{Left: 15, Right: 15}},
			"bass": {Waveform: "saw", ModulationData: []uint8{1, 2, 3}},
		},
		Waveforms: map[vsutrack.WaveformID]vsutrack.Waveform{"saw": {0, 2, 4, 6}},
	}
}

func TestCompileSong(t *testing.T) {
	com, err := compiler.New()
	if err != nil {
		t.Fatalf("compiler.New failed: %v", err)
	}
	song := testSong()
	files, err := com.Song(&song)
	if err != nil {
		t.Fatalf("compiling failed: %v", err)
	}
	for _, want := range []string{
		"#ifndef MY_TUNE_H",
		"#define MY_TUNE_SPEED_MS 50",
		"#define MY_TUNE_LENGTH 32",
		"extern const VsuSong MyTune;",
	} {
		if !strings.Contains(files[".h"], want) {
			t.Errorf("header does not contain %q:\n%v", want, files[".h"])
		}
	}
	for _, want := range []string{
		`#include "MyTune.h"`,
		"{ 0, VSU_EVENT_NOTE, 1451, 16, 0x00, 1, 0 },",
		"{ 4, VSU_EVENT_NOTE | VSU_EVENT_VOLUME, 1574, 8, 0xF8, 1, 0 },",
		"{ 20, VSU_EVENT_INSTRUMENT, 0, 0, 0x00, 0, 0 },",
		"{ VSU_CHANNEL_WAVE, 0, 0 },",
		"static const unsigned char MyTuneInstrumentBassModulationData[3] = { 1, 2, 3 };",
		"{ 0, 2, 4, 6, 0,",
	} {
		if !strings.Contains(files[".c"], want) {
			t.Errorf("source does not contain %q:\n%v", want, files[".c"])
		}
	}
}

func TestCompileMissingInstrument(t *testing.T) {
	com, err := compiler.New()
	if err != nil {
		t.Fatalf("compiler.New failed: %v", err)
	}
	song := testSong()
	song.Channels[0].Instrument = "nope"
	if _, err := com.Song(&song); err == nil || !strings.Contains(err.Error(), `"nope"`) {
		t.Fatalf("expected an error about the missing instrument, got %v", err)
	}
	song = testSong()
	song.Channels[0].Muted = true
	song.Channels[0].Instrument = "nope"
	if _, err := com.Song(&song); err != nil {
		t.Fatalf("muted channels are not compiled, got error %v", err)
	}
}

func TestIdentifier(t *testing.T) {
	for name, want := range map[string]string{
		"lead synth #2": "LeadSynth2",
		"myID":          "MyID",
		"1 up":          "_1Up",
		"":              "_",
	} {
		if got := compiler.Identifier(name); got != want {
			t.Errorf("Identifier(%q): got %q, expected %q", name, got, want)
		}
	}
}
