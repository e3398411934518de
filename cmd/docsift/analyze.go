package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/docsift/docsift/internal/config"
	"github.com/docsift/docsift/internal/embed"
	"github.com/docsift/docsift/internal/parser"
	"github.com/docsift/docsift/internal/pipeline"
	"github.com/docsift/docsift/internal/rank"
	"github.com/docsift/docsift/internal/section"
	"github.com/docsift/docsift/internal/task"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze one document collection and write the ranked report",
	RunE: func(cmd *cobra.Command, args []string) error {
		inputPath, _ := cmd.Flags().GetString("input")
		docsDir, _ := cmd.Flags().GetString("docs")
		outputPath, _ := cmd.Flags().GetString("output")

		log := slog.New(slog.NewTextHandler(os.Stderr, nil))

		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		if err := cfg.ValidateEmbedding(); err != nil {
			return err
		}

		desc, err := task.ParseFile(inputPath)
		if err != nil {
			return err
		}

		files, err := collectFiles(desc, docsDir, log)
		if err != nil {
			return err
		}
		if len(files) == 0 {
			return fmt.Errorf("no readable documents in %s", docsDir)
		}

		provider := embed.NewOpenAIProvider(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, cfg.EmbeddingModel)
		ranker := rank.NewRanker(provider, log, rank.Config{
			BatchSize:          cfg.EmbedBatchSize,
			MaxConcurrentEmbed: cfg.MaxConcurrentEmbed,
		})
		worker := pipeline.NewWorker(ranker, log, section.Config{
			MaxTitleLines:  cfg.MaxTitleLines,
			MaxTitleWords:  cfg.MaxTitleWords,
			TitleSizeDelta: cfg.TitleSizeDelta,
		}, cfg.MaxConcurrentParse, cfg.TopK)

		now := time.Now()
		job := &pipeline.Job{
			ID:        uuid.NewString(),
			Status:    pipeline.StatusQueued,
			Phase:     "queued",
			Task:      desc,
			CreatedAt: now,
			UpdatedAt: now,
		}
		job.SetFiles(files)

		worker.Process(cmd.Context(), job)

		snap := job.Snapshot()
		if snap.Status == pipeline.StatusFailed {
			return fmt.Errorf("analysis failed: %s", strings.Join(snap.Progress.Errors, "; "))
		}

		result := job.Result()
		if outputPath == "" {
			return result.Write(os.Stdout)
		}
		if err := result.WriteFile(outputPath); err != nil {
			return err
		}
		log.Info("report written",
			"output", outputPath,
			"documents", snap.Progress.DocumentsParsed,
			"sections_ranked", snap.Progress.SectionsRanked,
		)
		return nil
	},
}

// collectFiles loads the documents the descriptor names from docsDir.
// A descriptor with no document list falls back to every supported file in
// the directory, in name order.
func collectFiles(desc *task.Descriptor, docsDir string, log *slog.Logger) ([]pipeline.DocumentFile, error) {
	var names []string
	if len(desc.Documents) > 0 {
		for _, ref := range desc.Documents {
			names = append(names, ref.Filename)
		}
	} else {
		entries, err := os.ReadDir(docsDir)
		if err != nil {
			return nil, fmt.Errorf("read documents directory: %w", err)
		}
		for _, e := range entries {
			if !e.IsDir() && parser.IsSupportedExtension(e.Name()) {
				names = append(names, e.Name())
			}
		}
		sort.Strings(names)
	}

	var files []pipeline.DocumentFile
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(docsDir, name))
		if err != nil {
			log.Warn("skipping unreadable document", "file", name, "error", err)
			continue
		}
		files = append(files, pipeline.DocumentFile{Name: name, Data: data})
	}
	return files, nil
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringP("input", "i", "input.json", "Path to the task descriptor JSON")
	analyzeCmd.Flags().StringP("docs", "d", "docs", "Directory containing the collection's documents")
	analyzeCmd.Flags().StringP("output", "o", "", "Output report path (default: stdout)")
}
