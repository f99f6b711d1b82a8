// Command namsa-insights serves licensing log-sheet analytics
// over a local HTTP API, re-importing and recomputing whenever
// the underlying exports change.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"
	_ "time/tzdata"

	"github.com/namsa/insights/internal/bus"
	"github.com/namsa/insights/internal/config"
	"github.com/namsa/insights/internal/ingest"
	"github.com/namsa/insights/internal/live"
	"github.com/namsa/insights/internal/notify"
	"github.com/namsa/insights/internal/server"
	"github.com/namsa/insights/internal/store"
)

var (
	version   = "dev"
	commit    = "unknown"
	buildDate = ""
)

const watcherDebounce = 500 * time.Millisecond

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "serve":
			runServe(os.Args[2:])
			return
		case "version", "--version", "-v":
			fmt.Printf("namsa-insights %s (commit %s, built %s)\n",
				version, commit, buildDate)
			return
		case "help", "--help", "-h":
			printUsage()
			return
		}
	}

	runServe(os.Args[1:])
}

func printUsage() {
	fmt.Printf(`namsa-insights %s - licensing log-sheet analytics

Imports log-sheet and track catalog exports into SQLite and
serves ranked and time-bucketed usage summaries over HTTP,
refreshing as exports change.

Usage:
  namsa-insights [flags]          Start the server (default command)
  namsa-insights serve [flags]    Start the server (explicit)
  namsa-insights version          Show version information
  namsa-insights help             Show this help

Server flags:
  -host string        Host to bind to (default "127.0.0.1")
  -port int           Port to listen on (default 8080)
  -import-dir string  Directory of JSON exports to watch
  -notify             Show a desktop notification on refresh

Environment variables:
  NAMSA_DATA_DIR      Data directory (database, imports)
  NAMSA_IMPORT_DIR    Import directory override

Data is stored in ~/.namsa-insights/ by default.
`, version)
}

func runServe(args []string) {
	cfg := mustLoadConfig(args)

	st, err := store.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("opening store: %v", err)
	}
	defer st.Close()

	b := bus.NewMemory()
	importer := ingest.NewImporter(st)

	runInitialImport(importer, cfg.ImportDir)

	port := server.FindAvailablePort(cfg.Host, cfg.Port)
	if port != cfg.Port {
		fmt.Printf("Port %d in use, using %d\n", cfg.Port, port)
	}
	cfg.Port = port

	srv := server.New(cfg, st, b,
		server.WithVersion(server.VersionInfo{
			Version:   version,
			Commit:    commit,
			BuildDate: buildDate,
		}),
		server.WithImportFunc(func() (ingest.ImportStats, error) {
			return importer.ImportDir(cfg.ImportDir)
		}),
	)

	notifier := notify.New(cfg.DesktopNotify)
	coord := live.New(b, srv.Refresh, notifier.Notify)
	coord.Start()
	defer coord.Stop()

	stopWatcher := startImportWatcher(cfg, importer, b)
	defer stopWatcher()

	fmt.Printf("namsa-insights %s listening at http://%s:%d\n",
		version, cfg.Host, cfg.Port)

	if err := srv.ListenAndServe(); err != nil &&
		!errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("server error: %v", err)
	}
}

func mustLoadConfig(args []string) config.Config {
	fs := flag.NewFlagSet("namsa-insights", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(),
			"Usage: namsa-insights [serve] [flags]\n\nFlags:\n")
		fs.PrintDefaults()
	}
	config.RegisterServeFlags(fs)
	if err := fs.Parse(args); err != nil {
		log.Fatalf("parsing flags: %v", err)
	}

	cfg, err := config.Load(fs)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		log.Fatalf("creating data dir: %v", err)
	}
	return cfg
}

func runInitialImport(importer *ingest.Importer, dir string) {
	fmt.Println("Running initial import...")
	stats, err := importer.ImportDir(dir)
	if err != nil {
		log.Printf("warning: initial import: %v", err)
		return
	}
	fmt.Printf(
		"Import complete: %d sheets, %d tracks from %d files (%d skipped)\n",
		stats.Sheets, stats.Tracks, stats.Files, stats.Skipped,
	)
}

// startImportWatcher re-imports and broadcasts a music update
// whenever the export directory settles after a change.
func startImportWatcher(
	cfg config.Config, importer *ingest.Importer, b bus.Bus,
) func() {
	if err := os.MkdirAll(cfg.ImportDir, 0o755); err != nil {
		log.Printf("warning: creating import dir: %v", err)
		return func() {}
	}

	onChange := func() {
		if _, err := importer.ImportDir(cfg.ImportDir); err != nil {
			log.Printf("watch import error: %v", err)
			return
		}
		b.Publish(live.UpdateChannel, `{"type":"music"}`)
	}
	watcher, err := ingest.NewWatcher(
		cfg.ImportDir, watcherDebounce, onChange,
	)
	if err != nil {
		log.Printf("warning: file watcher unavailable: %v", err)
		return func() {}
	}
	watcher.Start()
	return watcher.Stop
}
