package scan

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/apex/log"
	"github.com/dustin/go-humanize"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/zeebo/xxh3"
	"golang.org/x/sync/errgroup"

	"sigscan/internal/report"
	"sigscan/internal/signature"
	"sigscan/internal/storage"
)

// Runner scans every object of a storage against a signature set.
type Runner struct {
	Codec   *signature.Codec // DefaultKeys when nil
	Sink    report.Sink
	Workers int // defaults to the number of CPUs

	// OnlyVersion skips signatures authored for another game version.
	OnlyVersion bool
	// RegionFilter drops matches in objects whose size is not within 10% of
	// the signature's region estimate.
	RegionFilter bool
	// CacheSize is the number of object fingerprints remembered. Objects with
	// identical content are scanned once. Zero disables the cache.
	CacheSize int
}

// Stats summarises a Run.
type Stats struct {
	Objects int
	Bytes   int64
	Matches int
	Cached  int
}

type run struct {
	*Runner
	codec       *signature.Codec
	descriptors []signature.Descriptor
	cache       *lru.Cache[xxh3.Uint128, []signature.Report]

	mu    sync.Mutex
	stats Stats
}

// Run scans src with sigs. Reports for one object reach the sink together, in
// signature order; objects are processed concurrently.
func (r *Runner) Run(ctx context.Context, src storage.Storage, sigs []signature.Encoded) (Stats, error) {
	codec := r.Codec
	if codec == nil {
		codec = signature.NewCodec(signature.DefaultKeys)
	}

	descriptors := codec.DecodeAll(sigs)
	if r.OnlyVersion {
		version := codec.Keys().GameVersion
		kept := descriptors[:0]
		for _, d := range descriptors {
			if d.GameVersion == version {
				kept = append(kept, d)
			}
		}
		log.Debugf("%d of %d signatures are for version %d", len(kept), len(descriptors), version)
		descriptors = kept
	}

	rn := &run{Runner: r, codec: codec, descriptors: descriptors}
	if r.CacheSize > 0 {
		cache, err := lru.New[xxh3.Uint128, []signature.Report](r.CacheSize)
		if err != nil {
			return Stats{}, fmt.Errorf("failed to create scan cache: %w", err)
		}
		rn.cache = cache
	}

	entries, err := src.List(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("failed to list objects: %w", err)
	}

	workers := r.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, entry := range entries {
		g.Go(func() error {
			return rn.scanObject(gctx, src, entry.Name)
		})
	}
	err = g.Wait()

	rn.mu.Lock()
	defer rn.mu.Unlock()
	log.WithFields(log.Fields{
		"objects": rn.stats.Objects,
		"bytes":   humanize.Bytes(uint64(rn.stats.Bytes)),
		"matches": rn.stats.Matches,
		"cached":  rn.stats.Cached,
	}).Debug("scan finished")
	return rn.stats, err
}

func (rn *run) scanObject(ctx context.Context, src storage.Storage, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := storage.ReadAll(ctx, src, name)
	if err != nil {
		return err
	}
	log.WithFields(log.Fields{"name": name, "size": humanize.Bytes(uint64(len(data)))}).Debug("scanning")

	var fingerprint xxh3.Uint128
	var reports []signature.Report
	cached := false
	if rn.cache != nil {
		fingerprint = xxh3.Hash128(data)
		if prior, ok := rn.cache.Get(fingerprint); ok {
			reports = make([]signature.Report, len(prior))
			for i, rep := range prior {
				rep.Source = name
				reports[i] = rep
			}
			cached = true
		}
	}

	if !cached {
		reports = rn.scanBuffer(name, data)
		if rn.cache != nil {
			rn.cache.Add(fingerprint, reports)
		}
	}

	// Holding the lock keeps the reports of one object contiguous.
	rn.mu.Lock()
	defer rn.mu.Unlock()
	rn.stats.Objects++
	rn.stats.Bytes += int64(len(data))
	rn.stats.Matches += len(reports)
	if cached {
		rn.stats.Cached++
	}
	if rn.Sink == nil {
		return nil
	}
	for _, rep := range reports {
		if err := rn.Sink.Emit(rep); err != nil {
			return fmt.Errorf("failed to report match in %s: %w", name, err)
		}
	}
	return nil
}

func (rn *run) scanBuffer(name string, data []byte) []signature.Report {
	scanner := rn.codec.Scanner()
	var reports []signature.Report
	for _, d := range rn.descriptors {
		if rn.RegionFilter && !d.RegionMatches(uint64(len(data))) {
			continue
		}
		m, ok := scanner.Match(d, data)
		if !ok {
			continue
		}
		reports = append(reports, signature.Format(name, d, m))
	}
	return reports
}
