//go:build !cgo

package cmd

// with no cgo, we cannot use MIDI, so the "midi" synth is not registered
