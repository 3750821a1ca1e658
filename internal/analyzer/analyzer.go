// Package analyzer orchestrates the document risk analysis pipeline:
// acquisition, chunking, concurrent per-chunk risk detection with a parallel
// summarization call, finding reduction, and score aggregation.
package analyzer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/faris-sait/ClauseGuard24/internal/chunk"
	"github.com/faris-sait/ClauseGuard24/internal/extract"
	"github.com/faris-sait/ClauseGuard24/internal/metrics"
	"github.com/faris-sait/ClauseGuard24/internal/risk"
	"github.com/faris-sait/ClauseGuard24/internal/types"
)

const (
	// defaultDeadline is the overall per-request analysis deadline
	defaultDeadline = 120 * time.Second
	// defaultConcurrency caps concurrent chunk classification calls
	defaultConcurrency = 4
	// defaultMaxChunks caps classified chunks per document to bound
	// latency and outbound call cost
	defaultMaxChunks = 20
	// fallbackSummaryBullet replaces the summary when summarization fails;
	// the analysis still returns a score and findings
	fallbackSummaryBullet = "A summary could not be generated for this document."
)

// defaultChunkOptions is the chunking configuration used when none is supplied
var defaultChunkOptions = chunk.Options{MaxChars: 4000, OverlapChars: 400}

// Extractor acquires a document from a URL
type Extractor interface {
	// Extract returns the document title and normalized text for the URL
	Extract(ctx context.Context, rawURL string) (extract.Document, error)
}

// Classifier judges risk presence per chunk and summarizes documents.
// Implementations include the chat completions client and the offline
// rule-based detector.
type Classifier interface {
	// ClassifyChunk returns zero to seven validated findings for one chunk
	ClassifyChunk(ctx context.Context, chunkIndex int, text string) ([]risk.Finding, error)
	// Summarize returns ordered plain-language bullets for the document
	Summarize(ctx context.Context, text string) ([]string, error)
}

// Analyzer runs the analysis pipeline for one URL per call. It holds no
// per-request state; chunks and findings are owned by each Analyze call.
type Analyzer struct {
	extractor   Extractor
	classifier  Classifier
	chunkOpts   chunk.Options
	concurrency int
	maxChunks   int
	deadline    time.Duration
	metrics     *metrics.Metrics
}

// Option configures the Analyzer
type Option func(*Analyzer)

// WithChunkOptions sets the chunking configuration
func WithChunkOptions(opts chunk.Options) Option {
	return func(a *Analyzer) {
		a.chunkOpts = opts
	}
}

// WithConcurrency caps concurrent chunk classification calls
func WithConcurrency(n int) Option {
	return func(a *Analyzer) {
		if n > 0 {
			a.concurrency = n
		}
	}
}

// WithMaxChunks caps how many chunks are classified per document
func WithMaxChunks(n int) Option {
	return func(a *Analyzer) {
		if n > 0 {
			a.maxChunks = n
		}
	}
}

// WithDeadline sets the overall per-request analysis deadline
func WithDeadline(d time.Duration) Option {
	return func(a *Analyzer) {
		if d > 0 {
			a.deadline = d
		}
	}
}

// WithMetrics attaches pipeline metrics
func WithMetrics(m *metrics.Metrics) Option {
	return func(a *Analyzer) {
		a.metrics = m
	}
}

// New creates an Analyzer. Chunking options are validated up front so a
// misconfigured deployment fails at startup rather than per request.
func New(extractor Extractor, classifier Classifier, opts ...Option) (*Analyzer, error) {
	if extractor == nil {
		return nil, ErrNilExtractor
	}

	if classifier == nil {
		return nil, ErrNilClassifier
	}

	a := &Analyzer{
		extractor:   extractor,
		classifier:  classifier,
		chunkOpts:   defaultChunkOptions,
		concurrency: defaultConcurrency,
		maxChunks:   defaultMaxChunks,
		deadline:    defaultDeadline,
	}

	for _, opt := range opts {
		opt(a)
	}

	if _, err := chunk.NewSplitter("", a.chunkOpts); err != nil {
		return nil, err
	}

	return a, nil
}

// Analyze runs the full pipeline for one URL. Acquisition and chunking
// failures are fatal; classification and summarization failures degrade
// gracefully. The overall deadline cancels in-flight calls and discards
// partial work.
func (a *Analyzer) Analyze(ctx context.Context, rawURL string) (*types.AnalysisResult, error) {
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, a.deadline)
	defer cancel()

	doc, err := a.extractor.Extract(ctx, rawURL)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: %v", ErrDeadlineExceeded, err)
		}

		return nil, err
	}

	log.Debug().Str("url", rawURL).Str("title", doc.Title).Int("chars", len(doc.Text)).Msg("document acquired")

	splitter, err := chunk.NewSplitter(doc.Text, a.chunkOpts)
	if err != nil {
		return nil, err
	}

	chunks := splitter.All()
	if len(chunks) > a.maxChunks {
		chunks = chunks[:a.maxChunks]
	}

	log.Debug().Str("url", rawURL).Int("chunks", len(chunks)).Msg("document chunked")

	// Summarization is independent of detection and runs alongside it
	summaryCh := lo.Async(func() []string {
		return a.summarize(ctx, doc.Text)
	})

	findings := a.detect(ctx, chunks)
	summary := <-summaryCh

	if ctx.Err() != nil {
		return nil, fmt.Errorf("%w after %s", ErrDeadlineExceeded, time.Since(start).Round(time.Millisecond))
	}

	reduced := risk.Reduce(findings)
	score := risk.Score(reduced)

	log.Info().
		Str("url", rawURL).
		Int("risk_score", score).
		Int("risks", len(reduced)).
		Dur("elapsed", time.Since(start)).
		Msg("analysis complete")

	return &types.AnalysisResult{
		ID:           uuid.NewString(),
		URL:          rawURL,
		Title:        doc.Title,
		RiskScore:    score,
		Summary:      summary,
		Risks:        reduced,
		AnalysisTime: time.Since(start).Seconds(),
		CreatedAt:    time.Now().UTC(),
	}, nil
}

// detect classifies all chunks with bounded fan-out. A failed chunk
// contributes no findings; the rest of the run continues. The result is
// deterministic regardless of completion order because reduction keys on
// chunk index, not arrival order.
func (a *Analyzer) detect(ctx context.Context, chunks []chunk.Chunk) []risk.Finding {
	var (
		mu  sync.Mutex
		all []risk.Finding
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.concurrency)

	for _, c := range chunks {
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}

			findings, err := a.classifier.ClassifyChunk(gctx, c.Index, c.Text)
			if err != nil {
				log.Warn().Err(err).Int("chunk", c.Index).Msg("chunk classification failed, continuing without it")

				if a.metrics != nil {
					a.metrics.ClassificationFailures.Inc()
				}

				return nil
			}

			mu.Lock()
			all = append(all, findings...)
			mu.Unlock()

			return nil
		})
	}

	// workers absorb their own failures
	_ = g.Wait()

	return all
}

// summarize returns the document summary, substituting the fallback bullet
// when summarization fails
func (a *Analyzer) summarize(ctx context.Context, text string) []string {
	summary, err := a.classifier.Summarize(ctx, text)
	if err != nil {
		log.Warn().Err(err).Msg("summarization failed, using fallback")

		if a.metrics != nil {
			a.metrics.SummarizationFailures.Inc()
		}

		return []string{fallbackSummaryBullet}
	}

	return summary
}
