package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"

	"github.com/vuengine/vsutrack/cmd"
	"github.com/vuengine/vsutrack/rpc"
	"github.com/vuengine/vsutrack/tracker"
	"github.com/vuengine/vsutrack/version"
)

func main() {
	address := flag.String("addr", rpc.DefaultAddress, "Address to listen on.")
	synthKind := flag.String("synth", "print", fmt.Sprintf("Synth that plays the received snapshots. Possible values: %v", strings.Join(cmd.SynthKinds(), ", ")))
	versionFlag := flag.Bool("v", false, "Print version.")
	flag.Parse()
	if *versionFlag {
		fmt.Println(version.VersionOrHash)
		os.Exit(0)
	}
	if *synthKind == "rpc" {
		log.Fatal("forwarding to another receiver is not supported")
	}
	prefs := tracker.MakePreferences()
	synth, err := cmd.NewSynth(cmd.SynthOptions{Kind: *synthKind}, prefs)
	if err != nil {
		log.Fatalf("could not create synth: %v", err)
	}
	defer synth.Close()
	receiver, err := rpc.Listen(*address)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("listening on %v", receiver.Addr())
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	defer receiver.Close()
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-receiver.C:
			if err := synth.Update(msg); err != nil {
				log.Printf("synth.Update failed: %v", err)
			}
		}
	}
}
