package selection

import (
	"fmt"
	"log"
	"runtime"
	"sync"
	"time"

	"github.com/UT-GlobalSeismology/Kibrary-sub009/internal/dataset"
	"github.com/UT-GlobalSeismology/Kibrary-sub009/internal/timeutil"
	"github.com/UT-GlobalSeismology/Kibrary-sub009/internal/timewindow"
	"github.com/UT-GlobalSeismology/Kibrary-sub009/internal/traveltime"
)

// Options configure a selection run.
type Options struct {
	Params      timewindow.Params
	UsePhases   []string
	AvoidPhases []string

	// Workers sizes the event pool; zero or negative means one per CPU.
	Workers int

	// NewCalculator builds a travel-time calculator. Calculators are
	// single-threaded, so each worker gets its own instance, configured once
	// per event and reused across that event's records.
	NewCalculator func() (traveltime.Calculator, error)

	// Clock is used for run timing; nil means the real clock.
	Clock timeutil.Clock
}

// Result is the outcome of a completed run.
type Result struct {
	Windows  []timewindow.TimeWindow
	Records  []traveltime.Record
	Accepted int
	Rejected int
	Elapsed  time.Duration
}

// Run processes every dataset record: arrivals from the travel-time engine,
// window construction, per-record rejection logging. Records are independent
// and the workload is CPU-bound, so events fan out over a fixed worker pool.
// Domain rejections never fail the run; the returned error is reserved for
// malformed input and engine failures, after which no output should be kept.
func Run(ds *dataset.Dataset, opts Options, rejects *RejectLog) (*Result, error) {
	if opts.NewCalculator == nil {
		return nil, fmt.Errorf("selection: no travel-time calculator configured")
	}
	clock := opts.Clock
	if clock == nil {
		clock = timeutil.RealClock{}
	}
	builder, err := timewindow.NewBuilder(opts.Params)
	if err != nil {
		return nil, err
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	usePhases := make(map[string]struct{}, len(opts.UsePhases))
	for _, p := range opts.UsePhases {
		usePhases[p] = struct{}{}
	}
	avoidPhases := make(map[string]struct{}, len(opts.AvoidPhases))
	for _, p := range opts.AvoidPhases {
		avoidPhases[p] = struct{}{}
	}
	allPhases := append(append([]string{}, opts.UsePhases...), opts.AvoidPhases...)

	start := clock.Now()
	byEvent := ds.RecordsByEvent()
	events := make(chan string, len(byEvent))
	for id := range byEvent {
		events <- id
	}
	close(events)

	windows := timewindow.NewSet()
	var (
		recordsMu sync.Mutex
		records   []traveltime.Record

		errOnce  sync.Once
		fatalErr error
	)
	fail := func(err error) {
		errOnce.Do(func() { fatalErr = err })
	}

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			calc, err := opts.NewCalculator()
			if err != nil {
				fail(fmt.Errorf("selection: build calculator: %w", err))
				return
			}

			for eventID := range events {
				event, ok := ds.EventByID(eventID)
				if !ok {
					fail(fmt.Errorf("selection: unknown event %q", eventID))
					return
				}
				calc.SetSourceDepth(event.DepthKm)
				calc.SetPhases(allPhases)

				for _, rec := range byEvent[eventID] {
					if err := processRecord(ds, builder, calc, event, rec,
						usePhases, avoidPhases, windows, &recordsMu, &records, rejects); err != nil {
						fail(err)
						return
					}
				}
			}
		}()
	}
	wg.Wait()

	if fatalErr != nil {
		return nil, fatalErr
	}

	result := &Result{
		Windows:  windows.Windows(),
		Records:  records,
		Accepted: windows.Len(),
		Rejected: rejects.Count(),
		Elapsed:  clock.Since(start),
	}
	log.Printf("selection run complete: %d windows accepted, %d records rejected in %v",
		result.Accepted, result.Rejected, result.Elapsed)
	return result, nil
}

func processRecord(
	ds *dataset.Dataset,
	builder *timewindow.Builder,
	calc traveltime.Calculator,
	event dataset.Event,
	rec dataset.Record,
	usePhases, avoidPhases map[string]struct{},
	windows *timewindow.Set,
	recordsMu *sync.Mutex,
	records *[]traveltime.Record,
	rejects *RejectLog,
) error {
	receiver, ok := ds.ReceiverByID(rec.Station, rec.Network)
	if !ok {
		return fmt.Errorf("selection: unknown receiver %s_%s", rec.Station, rec.Network)
	}
	component, err := timewindow.ParseComponent(rec.Component)
	if err != nil {
		return fmt.Errorf("selection: record %s: %w", rec.EventID, err)
	}

	distance := dataset.EpicentralDistance(event, receiver)
	arrivals, err := calc.Arrivals(distance)
	if err != nil {
		return fmt.Errorf("selection: arrivals for %s at %.2f deg: %w", rec.EventID, distance, err)
	}

	var use, avoid []traveltime.Arrival
	for _, a := range arrivals {
		if _, ok := usePhases[a.Phase]; ok {
			use = append(use, a)
			continue
		}
		if _, ok := avoidPhases[a.Phase]; ok {
			avoid = append(avoid, a)
		}
	}

	// The travel-time report covers every record, even those that produce
	// no windows.
	ttRecord := traveltime.NewRecord(rec.EventID, rec.Station, rec.Network, use, avoid)
	recordsMu.Lock()
	*records = append(*records, ttRecord)
	recordsMu.Unlock()

	built := timewindow.Record{
		EventID:        rec.EventID,
		Receiver:       timewindow.Receiver(receiver),
		Component:      component,
		SampleInterval: rec.SampleInterval,
		TraceEnd:       rec.TraceEnd,
		Use:            use,
		Avoid:          avoid,
	}
	wins, rejection, err := builder.Build(built)
	if err != nil {
		return fmt.Errorf("selection: record %s: %w", built.ID(), err)
	}
	if rejection != nil {
		return rejects.Reject(rejection.RecordID, rejection.Reason)
	}
	for _, w := range wins {
		windows.Add(w)
	}
	return nil
}
