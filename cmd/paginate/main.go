package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/glowdocs/paginate/internal/config"
	"github.com/glowdocs/paginate/internal/layout"
	"github.com/glowdocs/paginate/internal/logger"
	"github.com/glowdocs/paginate/internal/preview"
	"github.com/glowdocs/paginate/internal/res"
	"github.com/glowdocs/paginate/pkg/api"
	"github.com/glowdocs/paginate/pkg/document"
)

// pageMap is the -json output shape.
type pageMap struct {
	Document    string    `json:"document"`
	Version     uint64    `json:"version"`
	Pages       int       `json:"pages"`
	TotalHeight float64   `json:"totalHeight"`
	PageBreaks  []float64 `json:"pageBreaks"`
	Lines       int       `json:"lines"`
}

func main() {
	var (
		inputFile   string
		configFile  string
		jsonOut     bool
		pdfFile     string
		watch       bool
		metricsAddr string
		verbose     bool
	)

	flag.StringVar(&inputFile, "input", "", "Input HTML document path")
	flag.StringVar(&configFile, "config", "", "Page setup YAML file")
	flag.BoolVar(&jsonOut, "json", false, "Print the page map as JSON")
	flag.StringVar(&pdfFile, "pdf", "", "Write a paginated preview PDF")
	flag.BoolVar(&watch, "watch", false, "Re-paginate when the input file changes")
	flag.StringVar(&metricsAddr, "metrics-addr", "", "Serve prometheus metrics at this address (watch mode)")
	flag.BoolVar(&verbose, "verbose", false, "Enable debug logging")
	flag.Parse()

	// .env is optional; absence is not an error.
	_ = godotenv.Load()

	cfg, err := config.Load(configFile)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}
	if verbose {
		cfg.Logging.Level = "debug"
		cfg.Logging.Pretty = true
	}
	logger.Init(logger.Options{Level: cfg.Logging.Level, Pretty: cfg.Logging.Pretty})
	log := logger.Get()

	if inputFile == "" {
		fmt.Println("Error: input file is required")
		flag.Usage()
		os.Exit(1)
	}

	metrics := cfg.Metrics()
	paginator := api.New(
		api.WithMetrics(metrics),
		api.WithBufferSize(cfg.Render.BufferSize),
		api.WithScrollDebounce(cfg.Render.ScrollDebounce()),
		api.WithLogger(log),
	)

	loader := res.NewLoader(inputFile)
	engine := layout.NewEngine()
	engine.SetOptions(layout.Options{ContentWidth: metrics.ContentWidth()})
	engine.SetLogger(log)

	doc, meas, err := paginate(loader, engine, paginator, inputFile, nil)
	if err != nil {
		log.Error().Err(err).Msg("pagination failed")
		os.Exit(1)
	}

	if jsonOut {
		printPageMap(doc, meas)
	} else {
		log.Info().
			Int("pages", meas.PageCount).
			Float64("height", meas.TotalHeight).
			Int("breaks", len(meas.PageBreaks)).
			Msg("paginated")
	}

	if pdfFile != "" {
		r := preview.NewRenderer(metrics)
		r.SetLogger(log)
		opts := preview.RenderOptions{Title: inputFile}
		if err := r.Render(doc, meas, pdfFile, opts); err != nil {
			log.Error().Err(err).Msg("preview failed")
			os.Exit(1)
		}
		log.Info().Str("path", pdfFile).Msg("preview written")
	}

	if !watch {
		return
	}

	if metricsAddr != "" {
		reg := prometheus.NewRegistry()
		reg.MustRegister(paginator.MetricsCollector())
		go func() {
			http.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
			if err := http.ListenAndServe(metricsAddr, nil); err != nil {
				log.Error().Err(err).Msg("metrics server stopped")
			}
		}()
		log.Info().Str("addr", metricsAddr).Msg("serving metrics")
	}

	if err := watchLoop(loader, engine, paginator, doc, inputFile, jsonOut, log); err != nil {
		log.Error().Err(err).Msg("watch failed")
		os.Exit(1)
	}
}

// paginate loads, lays out and measures the input document. When doc is
// non-nil the existing document is reparsed in place so its identity and
// version history survive.
func paginate(loader *res.Loader, engine *layout.Engine, p *api.Paginator, path string, doc *layout.Document) (*layout.Document, document.Measurement, error) {
	resource, err := loader.Load(path)
	if err != nil {
		return nil, document.Measurement{}, err
	}

	if doc == nil {
		doc, err = engine.Parse(bytes.NewReader(resource.Data))
	} else {
		err = doc.Reparse(bytes.NewReader(resource.Data))
	}
	if err != nil {
		return nil, document.Measurement{}, err
	}

	p.SetManualBreaks(doc.ManualBreaks())
	return doc, p.Measure(doc, doc), nil
}

// watchLoop re-paginates on every write to the input file until
// interrupted.
func watchLoop(loader *res.Loader, engine *layout.Engine, p *api.Paginator, doc *layout.Document, path string, jsonOut bool, log zerolog.Logger) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory: editors replace files on save, which drops
	// a watch set on the file itself.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", path, err)
	}
	log.Info().Str("path", path).Msg("watching")

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	target := filepath.Clean(path)
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			loader.Invalidate(path)
			_, meas, err := paginate(loader, engine, p, path, doc)
			if err != nil {
				log.Error().Err(err).Msg("re-pagination failed")
				continue
			}
			if jsonOut {
				printPageMap(doc, meas)
			}
			log.Info().
				Uint64("version", meas.Version).
				Int("pages", meas.PageCount).
				Msg("re-paginated")

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Error().Err(err).Msg("watch error")

		case <-stop:
			return nil
		}
	}
}

// printPageMap writes the measurement to stdout as JSON.
func printPageMap(doc *layout.Document, meas document.Measurement) {
	out := pageMap{
		Document:    doc.ID().String(),
		Version:     meas.Version,
		Pages:       meas.PageCount,
		TotalHeight: meas.TotalHeight,
		PageBreaks:  meas.PageBreaks,
		Lines:       len(meas.Lines),
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		fmt.Printf("Error encoding page map: %v\n", err)
	}
}
