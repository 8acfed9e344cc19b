// Command window-report builds visual summaries from a .twd window file:
// a window-length histogram PNG and an HTML coverage page.
package main

import (
	"flag"
	"log"

	"github.com/UT-GlobalSeismology/Kibrary-sub009/internal/report"
	"github.com/UT-GlobalSeismology/Kibrary-sub009/internal/timewindow"
)

func main() {
	path := flag.String("f", "selected.twd", "window file to summarise")
	histogramPath := flag.String("histogram", "lengths.png", "output histogram PNG (empty to skip)")
	coveragePath := flag.String("coverage", "coverage.html", "output coverage HTML (empty to skip)")
	bins := flag.Int("bins", 0, "histogram bin count (0 = default)")
	flag.Parse()

	windows, err := timewindow.ReadFile(*path)
	if err != nil {
		log.Fatalf("read %s: %v", *path, err)
	}
	log.Printf("%s: %d windows, lengths %s", *path, len(windows), report.ComputeLengthStats(windows))

	if *histogramPath != "" {
		if err := report.WriteLengthHistogram(windows, *bins, *histogramPath); err != nil {
			log.Fatalf("write histogram: %v", err)
		}
		log.Printf("✓ wrote %s", *histogramPath)
	}
	if *coveragePath != "" {
		if err := report.WriteCoveragePage(windows, *coveragePath); err != nil {
			log.Fatalf("write coverage page: %v", err)
		}
		log.Printf("✓ wrote %s", *coveragePath)
	}
}
