package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/apex/log"
	clihandler "github.com/apex/log/handlers/cli"
	"github.com/spf13/pflag"

	"sigscan/internal/config"
	"sigscan/internal/integrity"
)

func main() {
	var configPath string
	pflag.StringVarP(&configPath, "config", "c", "", "Path to the YAML configuration file")
	var expect string
	pflag.StringVar(&expect, "expect", "", "Hex digest the signature set must produce")
	var version uint16
	pflag.Uint16Var(&version, "version", 0, "Digest signatures for this game version instead of the configured one")
	var verbose bool
	pflag.BoolVarP(&verbose, "verbose", "V", false, "Verbose output")
	overrides := config.NewOverrides(pflag.CommandLine).KeyFlags().FeedFlags()
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
	if !pflag.CommandLine.Changed("version") {
		version = cfg.Keys.Signature().GameVersion
	}

	source, err := cfg.Feed.Open(nil)
	if err != nil {
		log.WithError(err).Fatal("failed to open feed")
	}
	sigs, err := source.Fetch(context.Background())
	if err != nil {
		log.WithError(err).Fatal("failed to fetch signatures")
	}

	agg := integrity.NewAggregator(cfg.Keys.Signature())
	digest, err := agg.Digest(sigs, version)
	if err != nil {
		log.WithError(err).Fatal("failed to digest signatures")
	}
	fmt.Println(digest)

	if expect == "" {
		return
	}
	expected, err := integrity.ParseDigest(expect)
	if err != nil {
		log.WithError(err).Fatal("invalid --expect")
	}
	if err := agg.Verify(sigs, version, expected); err != nil {
		if errors.Is(err, integrity.ErrDigestMismatch) {
			log.WithError(err).Error("signature set changed")
			os.Exit(1)
		}
		log.WithError(err).Fatal("failed to verify signatures")
	}
	log.Info("signature set verified")
}
