package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"jobdeck/internal/insights"
)

var insightsLimit int

// insightsCmd summarizes recent search activity with Gemini
var insightsCmd = &cobra.Command{
	Use:   "insights",
	Short: "Generate an AI digest of your recent searches",
	Long: `Builds a short Gemini digest of recent search activity: what you
looked for, what paid off, and what to try next.

Needs a Gemini API key from insights.api_key in config.yaml, the
api_key field in config.json, or the GEMINI_API_KEY environment
variable.`,
	RunE: runInsights,
}

func init() {
	insightsCmd.Flags().IntVar(&insightsLimit, "limit", 0, "Recent records to digest (default from config)")
}

// runInsights asks Gemini for a digest and renders it
func runInsights(cmd *cobra.Command, args []string) error {
	apiKey := appCfg.Insights.APIKey
	if apiKey == "" {
		apiKey = userCfg.APIKey
	}
	if apiKey == "" {
		return fmt.Errorf("no Gemini API key configured: set insights.api_key in config.yaml, api_key in config.json, or GEMINI_API_KEY")
	}

	limit := insightsLimit
	if limit <= 0 {
		limit = appCfg.Insights.MaxRecords
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	records, err := store.List(limit)
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}
	if len(records) == 0 {
		fmt.Println("No searches recorded yet. Run a few searches first.")
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	// Handle graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("Received shutdown signal")
		cancel()
	}()

	logger.Info("Building digest",
		zap.Int("records", len(records)),
		zap.String("model", appCfg.Insights.Model))

	summarizer, err := insights.NewSummarizer(apiKey, appCfg.Insights.Model)
	if err != nil {
		return fmt.Errorf("failed to create summarizer: %w", err)
	}

	digest, err := summarizer.Digest(ctx, records)
	if err != nil {
		return fmt.Errorf("digest failed: %w", err)
	}

	fmt.Print(renderMarkdown(digest))
	return nil
}
