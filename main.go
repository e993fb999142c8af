// Command emg.report runs batch EMG blink analysis: it discovers CSV
// recordings, classifies muscle activity per sample, scores the
// detections against ground truth where available, persists results to
// SQLite and renders plots and an HTML report. With -serve it also
// exposes the stored runs over HTTP.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/banshee-data/emg.report/internal/config"
	"github.com/banshee-data/emg.report/internal/db"
	"github.com/banshee-data/emg.report/internal/emg"
	"github.com/banshee-data/emg.report/internal/emg/monitor"
	"github.com/banshee-data/emg.report/internal/units"
	"github.com/banshee-data/emg.report/internal/version"
)

var (
	inputDir    = flag.String("input", "", "Directory of *.csv EMG recordings to analyse")
	configFile  = flag.String("config", "", "Optional tuning config JSON")
	dbFile      = flag.String("db", "emg_results.db", "SQLite results database")
	plotsDir    = flag.String("plots", "", "Base directory for PNG trace plots (disabled when empty)")
	htmlFile    = flag.String("html", "", "Write an HTML batch report to this path")
	jsonFile    = flag.String("json", "", "Write per-dataset results as JSON to this path")
	workers     = flag.Int("workers", 0, "Worker count for the batch (0 = from config)")
	migrateDir  = flag.String("migrations", "", "Apply schema migrations from this directory before running")
	serve       = flag.Bool("serve", false, "Serve stored runs over HTTP after the batch")
	listen      = flag.String("listen", ":8080", "Listen address for -serve")
	showVersion = flag.Bool("version", false, "Print version and exit")
)

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Printf("emg.report %s (%s, built %s)\n", version.Version, version.GitSHA, version.BuildTime)
		return
	}

	if *inputDir == "" && !*serve {
		log.Fatal("either -input or -serve is required")
	}

	var tuning *config.TuningConfig
	if *configFile != "" {
		var err error
		tuning, err = config.LoadTuningConfig(*configFile)
		if err != nil {
			log.Fatalf("failed to load tuning config: %v", err)
		}
	}

	database, err := db.NewDB(*dbFile)
	if err != nil {
		log.Fatalf("failed to open results database: %v", err)
	}
	defer database.Close()

	if *migrateDir != "" {
		if err := database.MigrateUp(*migrateDir); err != nil {
			log.Fatalf("failed to apply migrations: %v", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if *inputDir != "" {
		if err := runBatch(ctx, database, tuning); err != nil {
			log.Fatalf("batch failed: %v", err)
		}
	}

	if *serve {
		serveHTTP(ctx, database)
	}
}

func runBatch(ctx context.Context, database *db.DB, tuning *config.TuningConfig) error {
	period := units.PeriodForRate(units.DefaultSampleRateHz)
	workerCount := 4
	if tuning != nil {
		period = units.PeriodForRate(tuning.GetSampleRateHz())
		workerCount = tuning.GetWorkers()
	}
	if *workers > 0 {
		workerCount = *workers
	}

	datasets, err := emg.DiscoverDatasets(*inputDir, period)
	if err != nil {
		return err
	}
	log.Printf("Discovered %d datasets under %s", len(datasets), *inputDir)

	pipe := emg.PipelineFromTuning(tuning)

	start := time.Now()
	results := emg.RunBatch(ctx, pipe, datasets, workerCount)
	elapsed := time.Since(start)

	summary := emg.Summarise(results)
	log.Printf("Batch complete in %v: %d evaluated, %d skipped (no target), %d failed, mean accuracy %s",
		elapsed.Round(time.Millisecond), summary.Evaluated, summary.Skipped, summary.Failed, summary.MeanAccuracy)

	configJSON, err := json.Marshal(pipe)
	if err != nil {
		return fmt.Errorf("marshal pipeline config: %w", err)
	}
	run := db.NewRun(string(configJSON), len(datasets))
	if err := database.RecordRun(run); err != nil {
		return err
	}

	rows := make([]db.ResultRow, 0, len(results))
	for _, res := range results {
		if res.Err != nil {
			log.Printf("dataset %d (%s): %v", res.DatasetID, res.Name, res.Err)
		}
		row := db.ResultRowFromEMG(run.ID, res)
		if err := database.RecordResult(row); err != nil {
			return err
		}
		rows = append(rows, row)
	}

	printResults(rows)

	if *plotsDir != "" {
		outDir := monitor.MakePlotOutputDir(*plotsDir, filepath.Base(*inputDir))
		plotter, err := monitor.NewTracePlotter(outDir)
		if err != nil {
			return err
		}
		count, err := plotter.PlotBatch(results)
		if err != nil {
			return err
		}
		log.Printf("Wrote %d trace plots to %s", count, outDir)
	}

	if *htmlFile != "" {
		f, err := os.Create(*htmlFile)
		if err != nil {
			return fmt.Errorf("create html report: %w", err)
		}
		defer f.Close()
		if err := monitor.RenderRunReport(f, run, rows); err != nil {
			return err
		}
		log.Printf("Wrote HTML report to %s", *htmlFile)
	}

	if *jsonFile != "" {
		if err := exportJSON(run, rows, summary, *jsonFile); err != nil {
			return err
		}
		log.Printf("Wrote JSON results to %s", *jsonFile)
	}

	return nil
}

func printResults(rows []db.ResultRow) {
	for _, row := range rows {
		api := db.ResultToAPI(row)
		switch {
		case api.Error != "":
			log.Printf("  [%d] %s: FAILED: %s", api.DatasetID, api.Filename, api.Error)
		case api.Accuracy == nil:
			log.Printf("  [%d] %s: no target (%d/%d samples active)",
				api.DatasetID, api.Filename, api.ActiveSamples, api.TotalSamples)
		default:
			log.Printf("  [%d] %s: accuracy %.4f (%d/%d samples active)",
				api.DatasetID, api.Filename, *api.Accuracy, api.ActiveSamples, api.TotalSamples)
		}
	}
}

func exportJSON(run db.Run, rows []db.ResultRow, summary emg.BatchSummary, path string) error {
	bundle := BatchReport{
		Run:     run,
		Summary: summary,
		Results: make([]db.ResultAPI, len(rows)),
	}
	for i, row := range rows {
		bundle.Results[i] = db.ResultToAPI(row)
	}

	data, err := json.MarshalIndent(bundle, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal results: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write results: %w", err)
	}
	return nil
}

func serveHTTP(ctx context.Context, database *db.DB) {
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()

		mux := NewServer(database).ServeMux()

		server := &http.Server{
			Addr:    *listen,
			Handler: LoggingMiddleware(mux),
		}

		go func() {
			log.Printf("HTTP server listening on %s", *listen)
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Fatalf("failed to start server: %v", err)
			}
		}()

		<-ctx.Done()
		log.Println("shutting down HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("HTTP server shutdown error: %v", err)
		}
	}()

	wg.Wait()
	log.Printf("Graceful shutdown complete")
}
