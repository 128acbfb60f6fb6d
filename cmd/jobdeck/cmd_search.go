package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"jobdeck/internal/history"
	"jobdeck/internal/searchapi"
)

var (
	searchQuery    string
	searchLocation string
	searchJobType  string
	searchSalary   string
	searchPosted   string
	searchTags     []string
)

// searchCmd runs a one-shot search and records it in history
var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Run a job search and record it in history",
	Long: `Runs one search against the job platform, stores a history record,
and prints the results as rendered markdown.

Examples:
  jobdeck search --query "golang developer" --location Remote
  jobdeck search --query sre --job-type contract --posted 7d`,
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().StringVarP(&searchQuery, "query", "q", "", "Search query (required)")
	searchCmd.Flags().StringVarP(&searchLocation, "location", "l", "", "Location filter, e.g. Remote or Berlin")
	searchCmd.Flags().StringVar(&searchJobType, "job-type", "", "full-time, part-time, contract or internship")
	searchCmd.Flags().StringVar(&searchSalary, "salary", "", "Salary range, e.g. 80k-120k")
	searchCmd.Flags().StringVar(&searchPosted, "posted", "", "Posted-within window, e.g. 7d or 30d")
	searchCmd.Flags().StringSliceVar(&searchTags, "tag", nil, "Tag for the stored record (repeatable)")
	searchCmd.MarkFlagRequired("query")
}

// runSearch performs one search and resolves its history record
func runSearch(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), appCfg.GetSearchTimeout())
	defer cancel()

	// Handle graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("Received shutdown signal")
		cancel()
	}()

	filters := history.Filters{
		Query:        searchQuery,
		Location:     searchLocation,
		JobType:      searchJobType,
		SalaryRange:  searchSalary,
		PostedWithin: searchPosted,
	}
	logger.Info("Running search",
		zap.String("query", filters.Query),
		zap.String("location", filters.Location))

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	rec, err := store.Add(history.NewRecord(filters, searchTags))
	if err != nil {
		return fmt.Errorf("failed to record search: %w", err)
	}
	if err := store.Prune(appCfg.History.MaxRecords); err != nil {
		logger.Warn("Failed to prune history", zap.Error(err))
	}

	client := searchapi.NewClient(appCfg.Platform.BaseURL, appCfg.GetSearchTimeout(),
		appCfg.Search.PageSize, appCfg.Search.MaxPages)

	results, err := client.Search(ctx, filters)
	if err != nil {
		if serr := store.SetStatus(rec.ID, history.StatusFailed, 0); serr != nil {
			logger.Warn("Failed to mark record failed", zap.Error(serr))
		}
		return fmt.Errorf("search failed: %w", err)
	}

	if err := store.SetStatus(rec.ID, history.StatusCompleted, results.Total); err != nil {
		logger.Warn("Failed to mark record completed", zap.Error(err))
	}

	fmt.Print(renderMarkdown(results.Markdown()))
	fmt.Printf("\n✓ %d results saved to history as %s\n", results.Total, rec.ID)
	return nil
}

// renderMarkdown renders md for the terminal. Any glamour failure
// falls back to the raw markdown.
func renderMarkdown(md string) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return out
}
