package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dgallion1/roadmapdocs/internal/config"
	"github.com/dgallion1/roadmapdocs/internal/content"
	"github.com/dgallion1/roadmapdocs/internal/metrics"
	"github.com/dgallion1/roadmapdocs/internal/roadmap"
	"github.com/dgallion1/roadmapdocs/internal/sections"
	"github.com/dgallion1/roadmapdocs/internal/tree"
	"github.com/dgallion1/roadmapdocs/internal/upstream"
)

// Source is everything the pipeline reads from upstream.
type Source interface {
	roadmap.GraphSource
	content.DocumentSource
	Listing(ctx context.Context) ([]upstream.Entry, error)
}

// Run fetches the roadmap, clusters it into sections, downloads the topic
// documents and writes the output tree under cfg.OutputDir.
//
// Only a graph failure or a filesystem error aborts the run. A missing
// listing degrades topic resolution; a failed document becomes a
// placeholder.
func Run(ctx context.Context, cfg config.Config, src Source, m *metrics.Registry, log *slog.Logger) (ReportSnapshot, error) {
	report := NewReport()
	log = log.With("run", report.ID())

	// Stage 1: graph
	log.Info("loading roadmap graph", "url", cfg.GraphURL)
	nodes, err := roadmap.Load(ctx, src)
	if err != nil {
		return fail(report, m, log, "load graph", err)
	}
	report.Update(func(c *Counts) { c.Nodes = len(nodes) })
	log.Info("roadmap graph loaded", "topics", len(nodes))

	// Stage 2: sections
	report.SetStage(StageBuildingSections)
	secs := sections.Build(nodes, sections.Config{
		Threshold: cfg.SectionThreshold,
		Names:     cfg.SectionNames,
	})
	fallbacks := sections.Fallbacks(secs)
	for _, s := range fallbacks {
		log.Warn("section name table exhausted, using anchor label", "section", s.ID, "label", s.Label)
	}
	report.Update(func(c *Counts) {
		c.Sections = len(secs)
		c.FallbackSections = len(fallbacks)
	})
	log.Info("sections built", "sections", len(secs))

	// Stage 3: topic to document resolution
	report.SetStage(StageResolving)
	idx, ids := resolve(ctx, src, secs, report, log)
	report.Update(func(c *Counts) { c.Documents = len(ids) })

	// Stage 4: fetch
	report.SetStage(StageFetching)
	log.Info("downloading documents", "documents", len(ids), "workers", cfg.Workers)
	fetcher := content.NewFetcher(src, content.FetcherConfig{
		Workers: cfg.Workers,
		Delay:   cfg.RequestDelay,
	}, log)
	docs := fetcher.FetchAll(ctx, ids, func(done, total int, o content.Outcome) {
		report.IncrFetched(o.OK())
		m.RecordFetch(o.OK(), o.Duration)
		log.Info("fetched", "n", done, "total", total, "doc", o.ID, "ok", o.OK())
	})
	log.Info("downloads complete", "documents", len(docs), "latency", fetcher.Stats.Summary())
	// A cancelled run leaves the previous output untouched.
	if err := ctx.Err(); err != nil {
		return fail(report, m, log, "fetch documents", err)
	}

	// Stage 5: write
	report.SetStage(StageWriting)
	layout := tree.Plan(secs, idx, docs, tree.Meta{Title: cfg.Title, SourceURL: cfg.SourceURL})
	sum, err := layout.Write(cfg.OutputDir)
	if err != nil {
		return fail(report, m, log, "write tree", err)
	}
	report.Update(func(c *Counts) {
		c.Topics = sum.Topics
		c.Extras = sum.Extras
		c.Files = sum.Files
	})

	report.SetStage(StageCompleted)
	snap := report.Snapshot()
	m.SetLayout(sum.Sections, len(ids), sum.Extras)
	m.SetDegraded(snap.Degraded)
	m.RecordRun(string(StageCompleted), snap.Elapsed)
	log.Info("output written", "dir", cfg.OutputDir, "files", sum.Files, "sections", sum.Sections, "extras", sum.Extras)
	return snap, nil
}

// resolve builds the topic index and the list of documents to fetch. Without
// a usable listing it falls back to synthesized identifiers.
func resolve(ctx context.Context, src Source, secs []roadmap.Section, report *Report, log *slog.Logger) (content.Index, []string) {
	entries, err := src.Listing(ctx)
	if err == nil && len(entries) > 0 {
		idx := content.BuildIndex(entries)
		log.Info("content listing mapped", "entries", len(entries), "topics", len(idx))
		return idx, content.Identifiers(entries)
	}

	if err != nil {
		report.AddError(fmt.Sprintf("listing: %v", err))
		log.Warn("content listing unavailable, using roadmap slugs", "error", err)
	} else {
		log.Warn("content listing empty, using roadmap slugs")
	}
	report.SetDegraded()
	idx := content.SynthesizeIndex(secs)
	return idx, idx.Identifiers()
}

func fail(report *Report, m *metrics.Registry, log *slog.Logger, step string, err error) (ReportSnapshot, error) {
	report.AddError(fmt.Sprintf("%s: %v", step, err))
	report.SetStage(StageFailed)
	snap := report.Snapshot()
	m.RecordRun(string(StageFailed), snap.Elapsed)
	log.Error(step+" failed", "error", err)
	return snap, fmt.Errorf("%s: %w", step, err)
}
