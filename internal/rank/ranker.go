package rank

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/docsift/docsift/internal/embed"
	"github.com/docsift/docsift/internal/section"
	"github.com/docsift/docsift/internal/task"
)

// ScoredSection is a section with its relevance score and importance rank
// attached, the final output unit of the ranker.
type ScoredSection struct {
	section.Section
	Score float64 `json:"score"`
	Rank  int     `json:"rank"`
}

// Config controls embedding throughput.
type Config struct {
	BatchSize          int // Sections per embedding request.
	MaxConcurrentEmbed int // Concurrent embedding requests in flight.
}

func DefaultConfig() Config {
	return Config{
		BatchSize:          16,
		MaxConcurrentEmbed: 4,
	}
}

// Ranker filters sections against a task's keyword constraints and orders
// the survivors by semantic similarity to the task's focus query.
type Ranker struct {
	provider embed.Provider
	log      *slog.Logger
	cfg      Config
}

func NewRanker(provider embed.Provider, log *slog.Logger, cfg Config) *Ranker {
	def := DefaultConfig()
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = def.BatchSize
	}
	if cfg.MaxConcurrentEmbed <= 0 {
		cfg.MaxConcurrentEmbed = def.MaxConcurrentEmbed
	}
	return &Ranker{provider: provider, log: log, cfg: cfg}
}

// FocusQuery combines the persona's role and the task statement into the
// single semantic anchor sections are scored against.
func FocusQuery(d *task.Descriptor) string {
	return fmt.Sprintf("%s: %s", d.Persona.Role, d.Job.Task)
}

// Compliant reports whether a section satisfies the task's keyword
// constraints. Matching is whole-word and case-insensitive over the
// combined title+body text, so "test" never matches inside "latest".
func Compliant(s section.Section, c task.Constraints) bool {
	content := strings.ToLower(s.CombinedText())

	for _, kw := range c.ExcludeKeywords {
		if matchWholeWord(content, kw) {
			return false
		}
	}

	if len(c.IncludeKeywords) == 0 {
		return true
	}
	for _, kw := range c.IncludeKeywords {
		if matchWholeWord(content, kw) {
			return true
		}
	}
	return false
}

func matchWholeWord(content, keyword string) bool {
	kw := strings.TrimSpace(strings.ToLower(keyword))
	if kw == "" {
		return false
	}
	re := regexp.MustCompile(`\b` + regexp.QuoteMeta(kw) + `\b`)
	return re.MatchString(content)
}

// Rank filters the candidate pool, embeds the survivors and the focus
// query, and returns the survivors ordered by score descending with ranks
// 1..N. Score ties keep the original extraction order. An empty compliant
// set returns an empty list, not an error.
func (r *Ranker) Rank(ctx context.Context, sections []section.Section, desc *task.Descriptor) ([]ScoredSection, error) {
	scored := make([]ScoredSection, 0, len(sections))
	var texts []string
	for _, s := range sections {
		if !Compliant(s, desc.Job.Constraints) {
			continue
		}
		text := s.CombinedText()
		if strings.TrimSpace(text) == "" {
			// Nothing to embed; skip rather than fail the batch.
			r.log.Warn("skipping section with no embeddable text",
				"document", s.Document, "page", s.Page)
			continue
		}
		scored = append(scored, ScoredSection{Section: s})
		texts = append(texts, text)
	}
	if len(scored) == 0 {
		return []ScoredSection{}, nil
	}

	queryVecs, err := r.embedWithRetry(ctx, []string{FocusQuery(desc)})
	if err != nil {
		return nil, fmt.Errorf("embed focus query: %w", err)
	}
	query := queryVecs[0]

	vecs, err := r.embedAll(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embed sections: %w", err)
	}

	for i := range scored {
		scored[i].Score = Cosine(query, vecs[i])
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	for i := range scored {
		scored[i].Rank = i + 1
	}

	return scored, nil
}

// embedAll embeds texts in batches with bounded concurrency. Vectors are
// reassembled by batch offset so the result order matches the input order
// regardless of completion order.
func (r *Ranker) embedAll(ctx context.Context, texts []string) ([][]float32, error) {
	vecs := make([][]float32, len(texts))

	type batchResult struct {
		start int
		vecs  [][]float32
		err   error
	}

	numBatches := (len(texts) + r.cfg.BatchSize - 1) / r.cfg.BatchSize
	results := make(chan batchResult, numBatches)
	sem := make(chan struct{}, r.cfg.MaxConcurrentEmbed)

	for start := 0; start < len(texts); start += r.cfg.BatchSize {
		end := start + r.cfg.BatchSize
		if end > len(texts) {
			end = len(texts)
		}
		sem <- struct{}{}
		go func(start, end int) {
			defer func() { <-sem }()
			v, err := r.embedWithRetry(ctx, texts[start:end])
			results <- batchResult{start: start, vecs: v, err: err}
		}(start, end)
	}

	var firstErr error
	for range numBatches {
		res := <-results
		if res.err != nil {
			if firstErr == nil {
				firstErr = res.err
			}
			continue
		}
		copy(vecs[res.start:], res.vecs)
	}
	if firstErr != nil {
		return nil, firstErr
	}
	return vecs, nil
}

func (r *Ranker) embedWithRetry(ctx context.Context, texts []string) ([][]float32, error) {
	var vecs [][]float32
	var lastErr error
	for attempt := range MaxRetries {
		vecs, lastErr = r.provider.Embed(ctx, texts)
		if lastErr == nil || !IsRetryable(lastErr) {
			break
		}
		r.log.Warn("retryable embedding error", "attempt", attempt, "error", lastErr)
		select {
		case <-time.After(Backoff(attempt)):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if lastErr != nil {
		return nil, lastErr
	}
	return vecs, nil
}
