package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/docsift/docsift/internal/rank"
	"github.com/docsift/docsift/internal/task"
)

// DefaultTopK is how many ranked sections make it into the report.
const DefaultTopK = 5

// Metadata describes one analysis run.
type Metadata struct {
	InputDocuments      []string `json:"input_documents"`
	Persona             string   `json:"persona"`
	Task                string   `json:"job_to_be_done"`
	ProcessingTimestamp string   `json:"processing_timestamp"`
}

// SectionSummary is the ranked-overview view of one selected section.
type SectionSummary struct {
	Document       string `json:"document"`
	SectionTitle   string `json:"section_title"`
	ImportanceRank int    `json:"importance_rank"`
	PageNumber     int    `json:"page_number"`
}

// SectionAnalysis is the full-text view of one selected section.
type SectionAnalysis struct {
	Document    string `json:"document"`
	RefinedText string `json:"refined_text"`
	PageNumber  int    `json:"page_number"`
}

// Report is the final output document of an analysis run.
type Report struct {
	Metadata           Metadata          `json:"metadata"`
	ExtractedSections  []SectionSummary  `json:"extracted_sections"`
	SubsectionAnalysis []SectionAnalysis `json:"subsection_analysis"`
}

// Build selects the top-K ranked sections and splits them into the summary
// and full-text views. K values past the end of the list are clamped; an
// empty ranked list yields a report with empty (non-nil) section lists.
func Build(desc *task.Descriptor, docNames []string, ranked []rank.ScoredSection, topK int) *Report {
	if topK <= 0 {
		topK = DefaultTopK
	}
	if topK > len(ranked) {
		topK = len(ranked)
	}
	top := ranked[:topK]

	summaries := make([]SectionSummary, 0, len(top))
	analyses := make([]SectionAnalysis, 0, len(top))
	for _, s := range top {
		summaries = append(summaries, SectionSummary{
			Document:       s.Document,
			SectionTitle:   s.Title,
			ImportanceRank: s.Rank,
			PageNumber:     s.Page,
		})
		analyses = append(analyses, SectionAnalysis{
			Document:    s.Document,
			RefinedText: s.Body,
			PageNumber:  s.Page,
		})
	}

	return &Report{
		Metadata: Metadata{
			InputDocuments:      docNames,
			Persona:             desc.Persona.Role,
			Task:                desc.Job.Task,
			ProcessingTimestamp: time.Now().Format(time.RFC3339),
		},
		ExtractedSections:  summaries,
		SubsectionAnalysis: analyses,
	}
}

// Write serializes the report as indented JSON.
func (r *Report) Write(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return nil
}

// WriteFile writes the report to a file, creating or truncating it.
func (r *Report) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report file: %w", err)
	}
	defer f.Close()
	return r.Write(f)
}
