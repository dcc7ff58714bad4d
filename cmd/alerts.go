package cmd

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/vuengine/vsutrack/tracker"
)

var alertColors = map[tracker.AlertPriority]*color.Color{
	tracker.Info:    color.New(color.FgCyan),
	tracker.Warning: color.New(color.FgYellow),
	tracker.Error:   color.New(color.FgRed, color.Bold),
}

// PrintAlerts prints the alerts, colored by priority.
func PrintAlerts(w io.Writer, alerts []tracker.Alert) {
	for _, a := range alerts {
		c, ok := alertColors[a.Priority]
		if !ok {
			c = color.New(color.Reset)
		}
		c.Fprintf(w, "%s: %s", a.Priority, a.Message)
		fmt.Fprint(w, "\r\n")
	}
}
