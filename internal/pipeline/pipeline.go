// Package pipeline orchestrates the text-to-note transformation: it
// normalizes the capture, gates it against the dedupe history,
// classifies and summarizes it, writes the note, and records the hash.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/zyaga/clipnote/internal/checksum"
	"github.com/zyaga/clipnote/internal/classify"
	"github.com/zyaga/clipnote/internal/fname"
	"github.com/zyaga/clipnote/internal/history"
	"github.com/zyaga/clipnote/internal/index"
	"github.com/zyaga/clipnote/internal/note"
	"github.com/zyaga/clipnote/internal/storage"
	"github.com/zyaga/clipnote/internal/terms"
	"github.com/zyaga/clipnote/internal/textnorm"
)

// Status is the outcome of a single run. Skips are expected outcomes,
// not errors.
type Status string

const (
	StatusSaved            Status = "saved"
	StatusSkippedTooShort  Status = "skipped_too_short"
	StatusSkippedDuplicate Status = "skipped_duplicate"
)

// Result describes one pipeline run.
type Result struct {
	Status   Status   `json:"status"`
	Filename string   `json:"filename,omitempty"`
	Hash     string   `json:"hash,omitempty"`
	Category string   `json:"category,omitempty"`
	Tags     []string `json:"tags,omitempty"`
	Links    []string `json:"links,omitempty"`
}

// Options carries the heuristics' configuration.
type Options struct {
	Rules        classify.RuleSet
	TagMode      classify.TagMode
	FixedTags    []string
	LinkMode     note.LinkMode
	Seeds        []string
	Stopwords    map[string]struct{}
	MaxWikilinks int
	MinChars     int
	SummaryMax   int
}

// Pipeline owns the history store handle and coordinates one capture at
// a time. Invocation is sequential; there is no internal locking.
type Pipeline struct {
	opts   Options
	store  storage.Provider
	hist   *history.Store
	idx    index.CaptureIndex
	an     terms.Analyzer
	logger *slog.Logger
	now    func() time.Time
}

// New creates a pipeline. idx and an may be nil: without an index
// nothing is upserted, and without an analyzer only Latin terms feed
// the cross-reference selection.
func New(opts Options, store storage.Provider, hist *history.Store, idx index.CaptureIndex, an terms.Analyzer, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		opts:   opts,
		store:  store,
		hist:   hist,
		idx:    idx,
		an:     an,
		logger: logger,
		now:    time.Now,
	}
}

// Run processes one captured text. Too-short and already-seen inputs
// are skips, not errors. On any error nothing is persisted: the note
// write is the first side effect, and the history is only touched after
// it succeeds.
func (p *Pipeline) Run(_ context.Context, raw string) (*Result, error) {
	norm := textnorm.Normalize(raw)
	if len([]rune(norm)) < p.opts.MinChars {
		p.logger.Info("capture skipped: too short", slog.Int("length", len([]rune(norm))))
		return &Result{Status: StatusSkippedTooShort}, nil
	}

	hash := checksum.Text(norm)
	if p.hist.Contains(hash) {
		p.logger.Info("capture skipped: duplicate", slog.String("hash", hash))
		return &Result{Status: StatusSkippedDuplicate, Hash: hash}, nil
	}

	labels := p.opts.Rules.Classify(norm)
	category := classify.PrimaryCategory(labels)
	tags := classify.Tags(p.opts.TagMode, p.opts.FixedTags, labels)

	links := terms.Selector{
		Seeds:    p.opts.Seeds,
		Stop:     p.opts.Stopwords,
		Max:      p.opts.MaxWikilinks,
		Analyzer: p.an,
	}.Links(norm)

	summary := fname.Summary(norm, p.rankedTerms(norm), p.opts.SummaryMax)

	now := p.now()
	md := note.Build(norm, tags, links, p.opts.LinkMode, now)

	stem := fmt.Sprintf("%s_%s_%s",
		now.Format("2006-01-02_15-04-05"),
		fname.Sanitize(category),
		fname.Sanitize(summary))

	filename, err := p.store.WriteUnique(stem, []byte(md))
	if err != nil {
		return nil, fmt.Errorf("pipeline: write note: %w", err)
	}

	p.hist.Append(history.Record{
		SHA256:    hash,
		CreatedAt: now.Format(history.TimeFormat),
		Filename:  filename,
	})
	if err := p.hist.Save(); err != nil {
		return nil, fmt.Errorf("pipeline: save history: %w", err)
	}

	if p.idx != nil {
		row := index.CaptureRow{
			Filename:  filename,
			Title:     summary,
			Category:  category,
			Checksum:  hash,
			Tags:      tags,
			CreatedAt: now,
		}
		if err := p.idx.Upsert(row, norm, links); err != nil {
			// The note and history are already durable; the index is a
			// derived convenience and failures stay non-fatal.
			p.logger.Warn("index upsert failed",
				slog.String("filename", filename),
				slog.String("error", err.Error()))
		}
	}

	p.logger.Info("capture saved",
		slog.String("filename", filename),
		slog.String("category", category),
		slog.Int("links", len(links)))

	return &Result{
		Status:   StatusSaved,
		Filename: filename,
		Hash:     hash,
		Category: category,
		Tags:     tags,
		Links:    links,
	}, nil
}

// rankedTerms produces the fallback term ranking for filename
// summaries: extracted nouns and Latin terms, deduplicated and scored.
func (p *Pipeline) rankedTerms(norm string) []string {
	pool := terms.ExtractNouns(p.an, norm, p.opts.Stopwords)
	pool = append(pool, terms.ExtractLatin(norm)...)

	seen := make(map[string]struct{}, len(pool))
	uniq := make([]string, 0, len(pool))
	for _, t := range pool {
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		uniq = append(uniq, t)
	}

	ranked := terms.Score(norm, uniq)
	out := make([]string, 0, len(ranked))
	for _, st := range ranked {
		out = append(out, st.Term)
	}
	return out
}

// History exposes the store handle for status surfaces (API, MCP).
func (p *Pipeline) History() *history.Store { return p.hist }
