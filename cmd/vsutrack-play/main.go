package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/vuengine/vsutrack/cmd"
	"github.com/vuengine/vsutrack/rpc"
	"github.com/vuengine/vsutrack/tracker"
	"github.com/vuengine/vsutrack/version"
)

func main() {
	synthKind := flag.String("synth", "print", fmt.Sprintf("Synth that plays the song. Possible values: %v", strings.Join(cmd.SynthKinds(), ", ")))
	address := flag.String("addr", "127.0.0.1"+rpc.DefaultAddress, "Address of the receiver, when using the rpc synth.")
	from := flag.Int("from", 0, "Start playing from this timeline step.")
	playRange := flag.String("range", "", "Play only the timeline steps `start:end`, inclusive. Either side may be left empty.")
	loop := flag.Bool("loop", false, "Loop the song, even if the song does not loop.")
	interactive := flag.Bool("i", false, "Control playback and audition notes with the keyboard. See keybindings.yml.")
	help := flag.Bool("h", false, "Show help.")
	versionFlag := flag.Bool("v", false, "Print version.")
	flag.Usage = printUsage
	flag.Parse()
	if *versionFlag {
		fmt.Println(version.VersionOrHash)
		os.Exit(0)
	}
	if flag.NArg() > 1 || *help {
		flag.Usage()
		os.Exit(0)
	}
	broker := tracker.NewBroker()
	model := tracker.NewModel(broker, tracker.DefaultSong)
	if flag.NArg() == 1 {
		f, err := os.Open(flag.Arg(0))
		if err != nil {
			log.Fatalf("could not open file %v: %v", flag.Arg(0), err)
		}
		if !model.ReadSong(f) {
			cmd.PrintAlerts(os.Stderr, model.TakeAlerts())
			os.Exit(1)
		}
	}
	song := model.Song()
	if song.Length() == 0 {
		log.Fatalf("%v: the song is empty", flag.Arg(0))
	}
	prefs := tracker.MakePreferences()
	if prefs.YmlError != nil {
		log.Printf("could not read preferences.yml: %v", prefs.YmlError)
	}
	start, end, err := parseRange(*playRange)
	if err != nil {
		log.Fatal(err)
	}
	synth, err := cmd.NewSynth(cmd.SynthOptions{Kind: *synthKind, Address: *address}, prefs)
	if err != nil {
		log.Fatalf("could not create synth: %v", err)
	}
	player := tracker.NewPlayer(broker)
	go broker.RunSynth(synth)
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	playerDone := make(chan struct{})
	go func() {
		player.Run(ctx, prefs.TickInterval())
		close(playerDone)
	}()
	if err := song.Validate(); err != nil {
		model.Alert(tracker.Alert{Name: "InvalidSong", Priority: tracker.Warning, Message: err.Error()})
	}
	if start >= 0 || end >= 0 {
		model.SetPlayRange(start, end)
	}
	if *loop {
		model.SetLoop(true, song.LoopPoint)
	}
	s := &session{model: model, octave: 1, testNote: prefs.TestNoteDuration()}
	var keys <-chan []byte
	if *interactive {
		restore, k, err := startKeyboard()
		if err != nil {
			log.Fatalf("could not read the keyboard: %v", err)
		}
		defer restore()
		keys = k
		s.keys = tracker.MakeKeyMap()
	}
	model.PlayFrom(*from)
	s.run(ctx, keys, !*interactive)
	cancel()
	<-playerDone
	broker.CloseSynth <- struct{}{}
	if _, ok := tracker.TimeoutReceive(broker.FinishedSynth, 3*time.Second); !ok {
		model.Update()
		cmd.PrintAlerts(os.Stderr, model.TakeAlerts())
	}
}

func parseRange(s string) (start, end int, err error) {
	start, end = -1, -1
	if s == "" {
		return
	}
	a, b, ok := strings.Cut(s, ":")
	if !ok {
		return 0, 0, errors.New("play range should be of the form start:end")
	}
	if a != "" {
		if start, err = strconv.Atoi(a); err != nil {
			return 0, 0, fmt.Errorf("invalid start of play range: %w", err)
		}
	}
	if b != "" {
		if end, err = strconv.Atoi(b); err != nil {
			return 0, 0, fmt.Errorf("invalid end of play range: %w", err)
		}
	}
	return start, end, nil
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "vsutrack-play plays a song through the synthesizer bridge.\nUsage: %s [flags] [song.yml]\nWithout a song file, a built-in demo song is played.\n", os.Args[0])
	flag.PrintDefaults()
}
