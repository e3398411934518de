package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/docsift/docsift/internal/parser"
	"github.com/docsift/docsift/internal/rank"
	"github.com/docsift/docsift/internal/report"
	"github.com/docsift/docsift/internal/section"
)

// Worker processes a single analysis job.
type Worker struct {
	ranker     *rank.Ranker
	log        *slog.Logger
	extractCfg section.Config

	maxConcurrentParse int
	topK               int
}

func NewWorker(ranker *rank.Ranker, log *slog.Logger, extractCfg section.Config, maxParse, topK int) *Worker {
	if maxParse <= 0 {
		maxParse = 4
	}
	return &Worker{
		ranker:             ranker,
		log:                log,
		extractCfg:         extractCfg,
		maxConcurrentParse: maxParse,
		topK:               topK,
	}
}

// Process runs the full analysis pipeline for a job.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID)

	files := job.Files()
	job.SetTotalDocuments(len(files))

	// Phase 1: Parse documents and extract sections. Parsing fans out with
	// bounded concurrency, but section pools are reassembled in submission
	// order so scoring and tie-breaking stay deterministic. Segmentation
	// within one document is a strictly sequential scan.
	job.SetStatus(StatusParsing, "parsing")
	extractor := section.NewExtractor(w.extractCfg)

	type parseResult struct {
		idx      int
		sections []section.Section
		err      error
	}
	results := make(chan parseResult, len(files))
	sem := make(chan struct{}, w.maxConcurrentParse)

	for i, file := range files {
		sem <- struct{}{}
		go func(i int, file DocumentFile) {
			defer func() { <-sem }()
			p, err := parser.ForFile(file.Name)
			if err != nil {
				results <- parseResult{idx: i, err: err}
				return
			}
			doc, err := p.Parse(bytes.NewReader(file.Data), file.Name)
			if err != nil {
				results <- parseResult{idx: i, err: fmt.Errorf("parse: %w", err)}
				return
			}
			results <- parseResult{idx: i, sections: extractor.Extract(doc)}
		}(i, file)
	}

	perDoc := make([][]section.Section, len(files))
	parsedCount := 0
	hadErrors := false
	for range files {
		r := <-results
		if r.err != nil {
			log.Error("document failed", "file", files[r.idx].Name, "error", r.err)
			job.AddError(fmt.Sprintf("%s: %s", files[r.idx].Name, r.err))
			hadErrors = true
			continue
		}
		perDoc[r.idx] = r.sections
		parsedCount++
		job.IncrDocumentsParsed()
	}

	if parsedCount == 0 && len(files) > 0 {
		job.SetStatus(StatusFailed, "parsing")
		return
	}

	var pool []section.Section
	for _, secs := range perDoc {
		pool = append(pool, secs...)
	}
	job.AddSections(len(pool))
	log.Info("sections extracted", "documents", parsedCount, "sections", len(pool))

	// Phase 2: Filter and rank by relevance to the task.
	job.SetStatus(StatusRanking, "ranking")
	ranked, err := w.ranker.Rank(ctx, pool, job.Task)
	if err != nil {
		log.Error("ranking failed", "error", err)
		job.AddError(fmt.Sprintf("rank: %s", err))
		job.SetStatus(StatusFailed, "ranking")
		return
	}
	job.SetSectionsRanked(len(ranked))
	log.Info("ranking complete", "compliant_sections", len(ranked))

	// Phase 3: Build the output report.
	job.SetStatus(StatusReporting, "reporting")
	docNames := make([]string, 0, len(files))
	for _, f := range files {
		docNames = append(docNames, f.Name)
	}
	job.SetResult(report.Build(job.Task, docNames, ranked, w.topK))

	if hadErrors {
		job.SetStatus(StatusPartial, "done")
	} else {
		job.SetStatus(StatusCompleted, "done")
	}
}
