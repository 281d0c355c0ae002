package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/apex/log"
	clihandler "github.com/apex/log/handlers/cli"
	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/spf13/pflag"

	"sigscan/internal/config"
	"sigscan/internal/report"
	"sigscan/internal/scan"
	"sigscan/internal/signature"
)

func main() {
	var configPath string
	pflag.StringVarP(&configPath, "config", "c", "", "Path to the YAML configuration file")
	var verbose bool
	pflag.BoolVarP(&verbose, "verbose", "V", false, "Verbose output")
	overrides := config.NewOverrides(pflag.CommandLine).KeyFlags().FeedFlags().DumpFlags().ScanFlags()
	pflag.Parse()

	log.SetHandler(clihandler.Default)
	if verbose {
		log.SetLevel(log.DebugLevel)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.WithError(err).Fatal("failed to load configuration")
	}
	if err := overrides.Apply(cfg); err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}
	if cfg.Report.NoColor {
		color.NoColor = true
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	matches, err := run(ctx, cfg)
	if err != nil {
		log.WithError(err).Fatal("scan failed")
	}
	fmt.Println(report.Summary(matches))
}

func run(ctx context.Context, cfg *config.Config) (int64, error) {
	source, err := cfg.Feed.Open(nil)
	if err != nil {
		return 0, err
	}
	log.Info("fetching signatures")
	sigs, err := source.Fetch(ctx)
	if err != nil {
		return 0, err
	}
	log.Infof("fetched %d signatures", len(sigs))

	dumps, err := cfg.Dumps.Open(ctx, nil)
	if err != nil {
		return 0, err
	}

	out, err := os.Create(cfg.Report.Path)
	if err != nil {
		return 0, fmt.Errorf("failed to create report file: %w", err)
	}
	defer out.Close()

	counter := &report.Counter{Next: report.MultiSink{
		report.NewConsoleSink(os.Stdout),
		report.NewTextSink(out),
	}}
	runner := &scan.Runner{
		Codec:        signature.NewCodec(cfg.Keys.Signature()),
		Sink:         counter,
		Workers:      cfg.Scan.Workers,
		OnlyVersion:  cfg.Scan.OnlyCurrentVersion,
		RegionFilter: cfg.Scan.RegionFilter,
		CacheSize:    cfg.Scan.CacheSize,
	}

	for _, dump := range dumps {
		log.WithField("source", dump.Label).Info("scanning dumps")
		stats, err := runner.Run(ctx, dump.Storage, sigs)
		if err != nil {
			return counter.Count(), fmt.Errorf("failed to scan %s: %w", dump.Label, err)
		}
		log.WithFields(log.Fields{
			"objects": stats.Objects,
			"size":    humanize.Bytes(uint64(stats.Bytes)),
			"cached":  stats.Cached,
		}).Info("scanned")
	}

	if err := out.Close(); err != nil {
		return counter.Count(), fmt.Errorf("failed to write report file: %w", err)
	}
	return counter.Count(), nil
}
