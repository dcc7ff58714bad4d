package main

import (
	"errors"
	"os"

	"golang.org/x/term"
)

// startKeyboard puts the terminal in raw mode and sends every key press read
// from stdin to the returned channel. restore puts the terminal back.
func startKeyboard() (restore func(), keys <-chan []byte, err error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return nil, nil, errors.New("stdin is not a terminal")
	}
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return nil, nil, err
	}
	c := make(chan []byte, 16)
	go func() {
		buf := make([]byte, 16)
		for {
			n, err := os.Stdin.Read(buf)
			if err != nil {
				close(c)
				return
			}
			c <- append([]byte(nil), buf[:n]...)
		}
	}()
	return func() { term.Restore(fd, oldState) }, c, nil
}
