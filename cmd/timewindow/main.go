// Command timewindow runs the analysis time-window selection pipeline:
// it loads a dataset and a travel-time table, builds windows around the
// configured use phases, and writes the surviving windows to a .twd file
// alongside a rejection log and a travel-time report.
package main

import (
	"encoding/json"
	"flag"
	"log"
	"os"
	"time"

	"github.com/UT-GlobalSeismology/Kibrary-sub009/internal/config"
	"github.com/UT-GlobalSeismology/Kibrary-sub009/internal/dataset"
	"github.com/UT-GlobalSeismology/Kibrary-sub009/internal/report"
	"github.com/UT-GlobalSeismology/Kibrary-sub009/internal/rundb"
	"github.com/UT-GlobalSeismology/Kibrary-sub009/internal/selection"
	"github.com/UT-GlobalSeismology/Kibrary-sub009/internal/timewindow"
	"github.com/UT-GlobalSeismology/Kibrary-sub009/internal/traveltime"
)

func main() {
	configPath := flag.String("config", "selection.json", "selection config JSON")
	datasetPath := flag.String("dataset", "dataset.json", "dataset JSON")
	tablePath := flag.String("table", "traveltimes.csv", "travel-time table CSV")
	outputPath := flag.String("o", "selected.twd", "output window file")
	rejectPath := flag.String("rejects", "", "rejection log file (default <output>.rejects)")
	ttReportPath := flag.String("tt-report", "", "travel-time report file (omit to skip)")
	histogramPath := flag.String("histogram", "", "window-length histogram PNG (omit to skip)")
	coveragePath := flag.String("coverage", "", "coverage HTML page (omit to skip)")
	dbPath := flag.String("db", "", "run catalog sqlite database (omit to skip)")
	flag.Parse()

	if *rejectPath == "" {
		*rejectPath = *outputPath + ".rejects"
	}

	cfg, err := config.LoadSelectionConfig(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ds, err := dataset.Load(*datasetPath)
	if err != nil {
		log.Fatalf("load dataset: %v", err)
	}
	log.Printf("dataset: %d events, %d receivers, %d records",
		len(ds.Events), len(ds.Receivers), len(ds.Records))

	rejects, err := selection.CreateRejectLog(*rejectPath)
	if err != nil {
		log.Fatalf("open reject log: %v", err)
	}
	defer rejects.Close()

	started := time.Now()
	result, err := selection.Run(ds, selection.Options{
		Params:      cfg.BuilderParams(),
		UsePhases:   cfg.UsePhases,
		AvoidPhases: cfg.AvoidPhases,
		Workers:     cfg.GetWorkers(),
		NewCalculator: func() (traveltime.Calculator, error) {
			return traveltime.LoadTable(*tablePath)
		},
	}, rejects)
	if err != nil {
		log.Fatalf("selection run failed: %v", err)
	}

	if result.Accepted == 0 {
		log.Fatalf("no windows selected; see %s", *rejectPath)
	}
	if err := timewindow.WriteFile(*outputPath, result.Windows); err != nil {
		log.Fatalf("write windows: %v", err)
	}
	log.Printf("✓ wrote %d windows to %s", result.Accepted, *outputPath)

	if *ttReportPath != "" {
		if err := writeTravelTimeReport(*ttReportPath, cfg, result.Records); err != nil {
			log.Fatalf("write travel-time report: %v", err)
		}
		log.Printf("✓ wrote travel-time report to %s", *ttReportPath)
	}

	stats := report.ComputeLengthStats(result.Windows)
	log.Printf("window lengths: %s", stats)

	if *histogramPath != "" {
		if err := report.WriteLengthHistogram(result.Windows, 0, *histogramPath); err != nil {
			log.Fatalf("write histogram: %v", err)
		}
		log.Printf("✓ wrote histogram to %s", *histogramPath)
	}
	if *coveragePath != "" {
		if err := report.WriteCoveragePage(result.Windows, *coveragePath); err != nil {
			log.Fatalf("write coverage page: %v", err)
		}
		log.Printf("✓ wrote coverage page to %s", *coveragePath)
	}

	if *dbPath != "" {
		if err := recordRun(*dbPath, *datasetPath, *outputPath, cfg, result, rejects, started); err != nil {
			log.Fatalf("record run: %v", err)
		}
	}
}

func writeTravelTimeReport(path string, cfg *config.SelectionConfig, records []traveltime.Record) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return traveltime.WriteReport(f, cfg.UsePhases, cfg.AvoidPhases, records)
}

func recordRun(dbPath, datasetPath, outputPath string, cfg *config.SelectionConfig,
	result *selection.Result, rejects *selection.RejectLog, started time.Time) error {

	db, err := rundb.NewDB(dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	params, err := json.Marshal(cfg)
	if err != nil {
		return err
	}

	runID, err := db.InsertRun(&rundb.Run{
		DatasetPath:     datasetPath,
		OutputPath:      outputPath,
		ParamsJSON:      params,
		WindowsAccepted: result.Accepted,
		RecordsRejected: result.Rejected,
		StartedAtNs:     started.UnixNano(),
		FinishedAtNs:    started.Add(result.Elapsed).UnixNano(),
	})
	if err != nil {
		return err
	}

	entries := rejects.Entries()
	rejections := make([]rundb.Rejection, len(entries))
	for i, e := range entries {
		rejections[i] = rundb.Rejection{RecordIdentity: e.RecordID, Reason: e.Reason}
	}
	if err := db.InsertRejections(runID, rejections); err != nil {
		return err
	}

	log.Printf("✓ recorded run %s in %s", runID, dbPath)
	return nil
}
