package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/perbu/lexsearch/pkg/config"
	"github.com/perbu/lexsearch/pkg/corpus"
	"github.com/perbu/lexsearch/pkg/embedder"
	"github.com/perbu/lexsearch/pkg/lexsearch"
	"github.com/perbu/lexsearch/pkg/logger"
	"github.com/perbu/lexsearch/pkg/present"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("lexsearch", flag.ContinueOnError)
	fs.SetOutput(stderr)

	configPath := fs.String("config", "", "path to a YAML config file")
	corpusPath := fs.String("corpus", "", "path to the JSON corpus (default: built-in sample)")
	top := fs.Int("top", 3, "number of results to return")
	provider := fs.String("embedder", "openai", "embedding backend: openai or hash")
	model := fs.String("model", "", "embedding model name")
	dimensions := fs.Int("dimensions", 0, "embedding dimension to request")
	maxDistance := fs.Float64("max-distance", 0, "drop results farther than this squared distance (0 = off)")
	showDistance := fs.Bool("show-distance", false, "print the distance next to each section")
	verbose := fs.Bool("verbose", false, "enable verbose output for debugging")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: lexsearch [options] [query]\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	// Flags given on the command line win over file and environment.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "corpus":
			cfg.Corpus.Path = *corpusPath
		case "top":
			cfg.Search.Top = *top
		case "embedder":
			cfg.Embedder.Provider = *provider
		case "model":
			cfg.Embedder.Model = *model
		case "dimensions":
			cfg.Embedder.Dimensions = *dimensions
		case "max-distance":
			cfg.Search.MaxDistance = *maxDistance
		case "verbose":
			if *verbose {
				cfg.Log.Level = "debug"
			}
		}
	})
	if q := strings.TrimSpace(strings.Join(fs.Args(), " ")); q != "" {
		cfg.Search.Query = q
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Format, stderr)
	if err != nil {
		return err
	}

	// Step 1: Load corpus
	var records []corpus.Record
	if cfg.Corpus.Path == "" {
		records, err = corpus.Sample()
	} else {
		records, err = corpus.Load(cfg.Corpus.Path)
	}
	if err != nil {
		return fmt.Errorf("loading corpus: %w", err)
	}
	log.WithField("records", len(records)).Debug("corpus loaded")

	// Step 2: Initialize embedder
	emb, err := embedder.New(embedder.Config{
		Provider:          cfg.Embedder.Provider,
		Model:             cfg.Embedder.Model,
		Dimensions:        cfg.Embedder.Dimensions,
		APIKey:            cfg.Embedder.APIKey,
		BaseURL:           cfg.Embedder.BaseURL,
		BatchSize:         cfg.Embedder.BatchSize,
		Concurrency:       cfg.Embedder.Concurrency,
		RequestsPerSecond: cfg.Embedder.RequestsPerSecond,
		Timeout:           cfg.Embedder.Timeout,
	}, log)
	if err != nil {
		return fmt.Errorf("initializing embedder: %w", err)
	}

	// Step 3: Embed corpus and build index
	engine, err := lexsearch.New(ctx, records, emb,
		lexsearch.WithLogger(log),
		lexsearch.WithMaxDistance(cfg.Search.MaxDistance),
	)
	if err != nil {
		return err
	}

	// Step 4: Execute search
	matches, err := engine.Search(ctx, cfg.Search.Query, cfg.Search.Top)
	if err != nil {
		return err
	}

	// Step 5: Display results
	return present.Render(stdout, cfg.Search.Query, matches, present.Options{ShowDistance: *showDistance})
}
