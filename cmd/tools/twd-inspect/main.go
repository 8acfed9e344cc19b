// Command twd-inspect decodes a .twd window file and prints its contents.
package main

import (
	"flag"
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/UT-GlobalSeismology/Kibrary-sub009/internal/report"
	"github.com/UT-GlobalSeismology/Kibrary-sub009/internal/timewindow"
)

func main() {
	path := flag.String("f", "selected.twd", "window file to inspect")
	statsOnly := flag.Bool("stats", false, "print only the summary, not the rows")
	flag.Parse()

	windows, err := timewindow.ReadFile(*path)
	if err != nil {
		log.Fatalf("read %s: %v", *path, err)
	}

	events := make(map[string]struct{})
	receivers := make(map[string]struct{})
	for _, w := range windows {
		events[w.EventID] = struct{}{}
		receivers[w.Receiver.ID()] = struct{}{}
	}

	fmt.Printf("%s: %d windows, %d events, %d receivers\n",
		*path, len(windows), len(events), len(receivers))
	fmt.Printf("lengths: %s\n", report.ComputeLengthStats(windows))

	if *statsOnly {
		return
	}

	sort.Slice(windows, func(i, j int) bool {
		if windows[i].EventID != windows[j].EventID {
			return windows[i].EventID < windows[j].EventID
		}
		if windows[i].Receiver.ID() != windows[j].Receiver.ID() {
			return windows[i].Receiver.ID() < windows[j].Receiver.ID()
		}
		return windows[i].Start < windows[j].Start
	})

	fmt.Println()
	for _, w := range windows {
		fmt.Printf("%-16s %-12s %s %9.2f %9.2f  %s\n",
			w.EventID, w.Receiver.ID(), w.Component, w.Start, w.End,
			strings.Join(w.Phases, ","))
	}
}
