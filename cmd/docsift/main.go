package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "docsift",
	Short: "Rank document sections by relevance to a persona's task",
	Long: `docsift ingests a collection of documents plus a task description
(a persona, a task statement and keyword constraints), reconstructs each
document's sections from visual layout, and ranks the sections by semantic
relevance to the task.`,
}

func main() {
	// .env is optional; real environments set variables directly.
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (YAML)")
}
